package main

import (
	"os"

	"github.com/joho/godotenv"

	"policysim/adapters/complexity"
	"policysim/adapters/engine"
	"policysim/adapters/memory"
	"policysim/adapters/postgres"
	"policysim/adapters/tier1"
	"policysim/internal"
	"policysim/internal/battery"
	"policysim/internal/config"
	"policysim/internal/pipeline"
	"policysim/models"
	"policysim/ports"
	"policysim/ui"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	log := internal.DefaultLogger.WithPrefix("main")

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration failed: %v", err)
		os.Exit(1)
	}

	var verdicts ports.VerdictRepository
	if cfg.Database.URL != "" {
		repo, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			log.Error("database connection failed: %v", err)
			os.Exit(1)
		}
		defer repo.Close()
		verdicts = repo
		log.Info("verdicts persisted to postgres")
	} else {
		verdicts = memory.New()
		log.Warn("no DATABASE_URL set, verdicts held in memory only")
	}

	stepperFor := func(m models.ModelConfig) ports.Stepper {
		return engine.New(m.Rules)
	}
	p := pipeline.New(tier1.New(), complexity.New(), stepperFor, cfg.Suite.YieldBetweenTests)
	reference := battery.NewOrchestrator(engine.Default(), cfg.Suite.YieldBetweenTests)

	server := ui.NewServer(cfg, p, reference, verdicts)
	if err := server.ListenAndServe(); err != nil {
		log.Error("server stopped: %v", err)
		os.Exit(1)
	}
}
