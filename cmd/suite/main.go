// Command suite runs the anchor battery from the terminal: the reference
// engine by default, or a user-authored model config supplied as JSON. It
// can export the verdict as a spreadsheet workbook.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"policysim/adapters/complexity"
	"policysim/adapters/engine"
	"policysim/adapters/excel"
	"policysim/adapters/tier1"
	"policysim/domain/verdict"
	"policysim/internal"
	"policysim/internal/pipeline"
	"policysim/models"
	"policysim/ports"
)

func main() {
	modelPath := flag.String("model", "", "path to a model config JSON file (default: reference model)")
	reportDir := flag.String("report-dir", "", "write an .xlsx verdict report into this directory")
	quiet := flag.Bool("quiet", false, "suppress per-test progress output")
	flag.Parse()

	_ = godotenv.Load()
	log := internal.DefaultLogger.WithPrefix("suite")

	cfg, err := loadModel(*modelPath)
	if err != nil {
		log.Error("model load failed: %v", err)
		os.Exit(1)
	}

	stepperFor := func(m models.ModelConfig) ports.Stepper {
		return engine.New(m.Rules)
	}
	p := pipeline.New(tier1.New(), complexity.New(), stepperFor, true)

	var progress ports.ProgressFunc
	if !*quiet {
		progress = func(u ports.ProgressUpdate) {
			if u.Status == ports.ProgressRunning {
				fmt.Printf("[%d/%d] %s\n", u.CurrentTest, u.TotalTests, u.CurrentTestName)
			}
		}
	}

	v, err := p.Validate(context.Background(), cfg, progress)
	if err != nil {
		log.Error("validation failed: %v", err)
		os.Exit(1)
	}

	printVerdict(*v)

	if *reportDir != "" {
		if err := os.MkdirAll(*reportDir, 0o755); err != nil {
			log.Error("report directory: %v", err)
			os.Exit(1)
		}
		path, err := excel.NewReportWriter(*reportDir).Write(*v)
		if err != nil {
			log.Error("report export failed: %v", err)
			os.Exit(1)
		}
		fmt.Printf("report written to %s\n", path)
	}

	if !v.Eligible {
		os.Exit(2)
	}
}

func loadModel(path string) (models.ModelConfig, error) {
	if path == "" {
		return models.DefaultModelConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ModelConfig{}, err
	}
	var cfg models.ModelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return models.ModelConfig{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func printVerdict(v verdict.Verdict) {
	fmt.Printf("\nmodel %s (%s)\n", v.ModelName, v.ModelID)
	if len(v.Tier1Failures) > 0 {
		fmt.Println("structural findings:")
		for _, f := range v.Tier1Failures {
			fmt.Printf("  %-14s %s\n", f.TestID, f.Reason)
		}
	}
	if v.Suite != nil {
		for _, r := range v.Suite.Results {
			status := "FAIL"
			if r.Passed {
				status = "PASS"
			}
			fmt.Printf("  %-5s %s  %s\n", r.TestID, status, r.Reason)
		}
	}
	fmt.Println(v.Summary)
}
