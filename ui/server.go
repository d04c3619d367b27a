package ui

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"policysim/internal"
	"policysim/internal/battery"
	"policysim/internal/config"
	"policysim/internal/pipeline"
	"policysim/ports"
)

// Server exposes the anchor battery and the validation pipeline over HTTP.
type Server struct {
	router    chi.Router
	cfg       *config.Config
	pipeline  *pipeline.Pipeline
	reference *battery.Orchestrator
	verdicts  ports.VerdictRepository
	hub       *sseHub
	log       *internal.Logger
}

// NewServer wires the HTTP surface. reference runs anchor endpoints against
// the shipped engine; pipeline judges user-authored models.
func NewServer(cfg *config.Config, p *pipeline.Pipeline, reference *battery.Orchestrator, verdicts ports.VerdictRepository) *Server {
	s := &Server{
		cfg:       cfg,
		pipeline:  p,
		reference: reference,
		verdicts:  verdicts,
		hub:       newSSEHub(),
		log:       internal.DefaultLogger.WithPrefix("http"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/anchors", s.handleListAnchors)
		r.Post("/anchors/run", s.handleRunAnchors)
		r.Post("/anchors/{testID}/run", s.handleRunAnchor)

		r.Post("/validate", s.handleValidate)
		r.Post("/validate/async", s.handleValidateAsync)
		r.Get("/runs/{runID}/events", s.handleRunEvents)

		r.Get("/verdicts/{runID}", s.handleGetVerdict)
		r.Get("/verdicts/{runID}/report", s.handleVerdictReport)
		r.Get("/leaderboard", s.handleLeaderboard)
	})

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving on the configured port.
func (s *Server) ListenAndServe() error {
	addr := ":" + s.cfg.Server.Port
	s.log.Info("listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}
