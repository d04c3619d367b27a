package pipeline

import (
	"context"
	"fmt"

	"policysim/domain/anchor"
	"policysim/domain/core"
	"policysim/domain/verdict"
	"policysim/internal"
	"policysim/internal/battery"
	"policysim/models"
	"policysim/ports"
)

// StepperFactory builds the stepper that embodies one user-authored model.
type StepperFactory func(cfg models.ModelConfig) ports.Stepper

// Pipeline is the two-tier eligibility judge. Tier 1 is the cheap structural
// gate over the model config; tier 2 is the full anchor battery. A model that
// fails tier 1 never reaches a simulation.
type Pipeline struct {
	tier1      ports.Tier1Validator
	complexity ports.ComplexityScorer
	stepperFor StepperFactory
	yield      bool
	log        *internal.Logger
}

// New creates a pipeline. yieldBetweenTests is forwarded to each battery
// orchestrator.
func New(tier1 ports.Tier1Validator, complexity ports.ComplexityScorer, stepperFor StepperFactory, yieldBetweenTests bool) *Pipeline {
	return &Pipeline{
		tier1:      tier1,
		complexity: complexity,
		stepperFor: stepperFor,
		yield:      yieldBetweenTests,
		log:        internal.DefaultLogger.WithPrefix("pipeline"),
	}
}

// Validate judges one model end to end under a fresh run identifier.
func (p *Pipeline) Validate(ctx context.Context, cfg models.ModelConfig, progress ports.ProgressFunc) (*verdict.Verdict, error) {
	return p.ValidateRun(ctx, core.NewRunID(), cfg, progress)
}

// ValidateRun judges one model end to end under a caller-supplied run
// identifier, so async callers can announce the ID before the run starts.
// Complexity is scored on every path, including tier-1 rejections, so the
// leaderboard can rank everything that was ever submitted.
func (p *Pipeline) ValidateRun(ctx context.Context, runID core.RunID, cfg models.ModelConfig, progress ports.ProgressFunc) (*verdict.Verdict, error) {
	complexity := p.complexity.Score(cfg)

	if failures := p.tier1.Validate(cfg); len(failures) > 0 {
		p.log.Info("model %s rejected at tier 1 with %d failures", cfg.ID, len(failures))
		return &verdict.Verdict{
			ModelID:       cfg.ID,
			ModelName:     cfg.Name,
			RunID:         runID,
			Eligible:      false,
			Tier1Failures: failures,
			Complexity:    complexity,
			Summary:       fmt.Sprintf("rejected by structural validation: %d failures, anchor battery not run", len(failures)),
			CreatedAt:     core.Now(),
		}, nil
	}

	orch := battery.NewOrchestrator(p.stepperFor(cfg), p.yield)
	suite, err := orch.RunSuite(ctx, progress)
	if err != nil {
		return nil, err
	}

	v := &verdict.Verdict{
		ModelID:    cfg.ID,
		ModelName:  cfg.Name,
		RunID:      runID,
		Eligible:   suite.Eligible(),
		Suite:      &suite,
		Complexity: complexity,
		Summary:    summarize(suite),
		CreatedAt:  core.Now(),
	}
	p.log.Info("model %s: %s", cfg.ID, v.Summary)
	return v, nil
}

// ValidateSubset re-runs only the named anchor tests for a tier-1-clean
// model. The returned suite covers just that subset and carries no
// eligibility weight on its own.
func (p *Pipeline) ValidateSubset(ctx context.Context, cfg models.ModelConfig, ids []core.TestID, progress ports.ProgressFunc) (anchor.SuiteResult, error) {
	if failures := p.tier1.Validate(cfg); len(failures) > 0 {
		return anchor.SuiteResult{}, fmt.Errorf("model %s fails structural validation, anchor tests unavailable", cfg.ID)
	}
	orch := battery.NewOrchestrator(p.stepperFor(cfg), p.yield)
	return orch.RunSubset(ctx, ids, progress)
}

func summarize(suite anchor.SuiteResult) string {
	if suite.Eligible() {
		return fmt.Sprintf("eligible: passed %d of %d anchor tests", suite.Passed, suite.Total)
	}
	return fmt.Sprintf("not eligible: passed %d of %d anchor tests, need %d", suite.Passed, suite.Total, anchor.MinPassCount)
}
