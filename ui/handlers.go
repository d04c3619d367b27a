package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"policysim/domain/anchor"
	"policysim/domain/core"
	"policysim/internal/errors"
	"policysim/models"
	"policysim/ports"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListAnchors returns the fixed anchor registry.
func (s *Server) handleListAnchors(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, anchor.Registry())
}

// handleRunAnchor runs one anchor test against the reference engine.
func (s *Server) handleRunAnchor(w http.ResponseWriter, r *http.Request) {
	testID, err := core.ParseTestID(chi.URLParam(r, "testID"))
	if err != nil {
		s.respondError(w, errors.InvalidInput(err.Error()))
		return
	}
	result, err := s.reference.RunTest(r.Context(), testID)
	if err != nil {
		s.respondError(w, errors.NotFound(fmt.Sprintf("anchor test %s", testID)))
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

type runAnchorsRequest struct {
	IDs []core.TestID `json:"ids"`
}

// handleRunAnchors runs a subset of the battery, or the full battery when no
// ids are given, against the reference engine.
func (s *Server) handleRunAnchors(w http.ResponseWriter, r *http.Request) {
	var req runAnchorsRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, errors.InvalidInput("malformed request body"))
			return
		}
	}

	var suite anchor.SuiteResult
	var err error
	if len(req.IDs) == 0 {
		suite, err = s.reference.RunSuite(r.Context(), nil)
	} else {
		suite, err = s.reference.RunSubset(r.Context(), req.IDs, nil)
	}
	if err != nil {
		s.respondError(w, errors.InvalidInput(err.Error()))
		return
	}
	s.respondJSON(w, http.StatusOK, suite)
}

func decodeModelConfig(r *http.Request) (models.ModelConfig, error) {
	var cfg models.ModelConfig
	if r.Body == nil || r.ContentLength == 0 {
		return cfg, errors.InvalidInput("model config body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		return cfg, errors.InvalidInput("malformed model config")
	}
	if cfg.ID.String() == "" {
		return cfg, errors.InvalidInput("model id is required")
	}
	return cfg, nil
}

// handleValidate judges a model synchronously and persists the verdict.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	cfg, err := decodeModelConfig(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	v, err := s.pipeline.Validate(r.Context(), cfg, nil)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.verdicts.SaveVerdict(r.Context(), *v); err != nil {
		s.log.Error("verdict save failed: %v", err)
	}
	s.respondJSON(w, http.StatusOK, v)
}

// handleValidateAsync starts a validation run in the background and returns
// its run ID immediately. Progress streams over the run's event endpoint.
func (s *Server) handleValidateAsync(w http.ResponseWriter, r *http.Request) {
	cfg, err := decodeModelConfig(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	runID := core.NewRunID()
	go func() {
		ctx := context.Background()
		progress := func(update ports.ProgressUpdate) {
			s.hub.Publish(runID, update)
		}
		v, err := s.pipeline.ValidateRun(ctx, runID, cfg, progress)
		if err != nil {
			s.log.Error("async validation %s failed: %v", runID, err)
			s.hub.Publish(runID, ports.ProgressUpdate{Status: ports.ProgressError})
			s.hub.CloseRun(runID)
			return
		}
		if err := s.verdicts.SaveVerdict(ctx, *v); err != nil {
			s.log.Error("verdict save failed: %v", err)
		}
		s.hub.CloseRun(runID)
	}()

	s.respondJSON(w, http.StatusAccepted, map[string]string{"run_id": runID.String()})
}

// handleRunEvents streams one run's progress as server-sent events until the
// run completes or the client disconnects.
func (s *Server) handleRunEvents(w http.ResponseWriter, r *http.Request) {
	runID := core.RunID(chi.URLParam(r, "runID"))

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, errors.New(errors.CodeInternalError, "streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.hub.Subscribe(runID)
	defer s.hub.Unsubscribe(runID, ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case update, open := <-ch:
			if !open {
				fmt.Fprint(w, "event: done\ndata: {}\n\n")
				flusher.Flush()
				return
			}
			payload, err := json.Marshal(update)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: progress\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (s *Server) handleGetVerdict(w http.ResponseWriter, r *http.Request) {
	runID := core.RunID(chi.URLParam(r, "runID"))
	v, err := s.verdicts.GetVerdict(r.Context(), runID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, v)
}

// handleVerdictReport renders a stored verdict as an HTML report.
func (s *Server) handleVerdictReport(w http.ResponseWriter, r *http.Request) {
	runID := core.RunID(chi.URLParam(r, "runID"))
	v, err := s.verdicts.GetVerdict(r.Context(), runID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	page := markdownToHTML(renderVerdictMarkdown(*v))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(page)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.verdicts.ListLeaderboard(r.Context(), s.cfg.Suite.LeaderboardLimit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, entries)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("response encoding failed: %v", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeInvalidInput, errors.CodeConfigInvalid:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}
	s.respondJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  code,
	})
}
