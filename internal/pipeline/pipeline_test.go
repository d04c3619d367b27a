package pipeline

import (
	"context"
	"strings"
	"testing"

	"policysim/adapters/complexity"
	"policysim/adapters/engine"
	"policysim/adapters/tier1"
	"policysim/domain/core"
	"policysim/internal/testkit"
	"policysim/models"
	"policysim/ports"
)

func enginePipeline(yield bool) *Pipeline {
	stepperFor := func(m models.ModelConfig) ports.Stepper {
		return engine.New(m.Rules)
	}
	return New(tier1.New(), complexity.New(), stepperFor, yield)
}

func TestValidateReferenceModelIsEligible(t *testing.T) {
	p := enginePipeline(false)
	v, err := p.Validate(context.Background(), models.DefaultModelConfig(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Eligible {
		t.Fatalf("reference model should be eligible: %s", v.Summary)
	}
	if v.Suite == nil || v.Suite.Passed != v.Suite.Total {
		t.Fatalf("reference model should pass the whole battery, got %+v", v.Suite)
	}
	if len(v.Tier1Failures) != 0 {
		t.Errorf("reference model should be tier-1 clean, got %v", v.Tier1Failures)
	}
	if v.Complexity != 0 {
		t.Errorf("reference rules should score zero complexity, got %f", v.Complexity)
	}
	if v.RunID.String() == "" {
		t.Error("verdict should carry a run ID")
	}
	if v.CreatedAt.IsZero() {
		t.Error("verdict should carry a creation time")
	}
}

func TestTier1RejectionShortCircuitsSimulation(t *testing.T) {
	counting := testkit.NewCounting(testkit.Inert())
	stepperFor := func(models.ModelConfig) ports.Stepper { return counting }
	p := New(tier1.New(), complexity.New(), stepperFor, false)

	cfg := models.DefaultModelConfig()
	cfg.Parameters.TaxRate = 7.5

	v, err := p.Validate(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Eligible {
		t.Fatal("a tier-1 rejected model can never be eligible")
	}
	if len(v.Tier1Failures) == 0 {
		t.Fatal("expected tier-1 findings")
	}
	if v.Suite != nil {
		t.Error("tier-1 rejection must not run the anchor battery")
	}
	if counting.Calls() != 0 {
		t.Errorf("expected zero simulation steps, got %d", counting.Calls())
	}
	if !strings.Contains(v.Summary, "not run") {
		t.Errorf("summary should say the battery did not run, got %q", v.Summary)
	}
}

func TestComplexityScoredOnEveryPath(t *testing.T) {
	p := enginePipeline(false)

	cfg := models.DefaultModelConfig()
	cfg.Rules.DisplacementSeverity = 1.0
	cfg.Parameters.MarketPressure = 42

	v, err := p.Validate(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Tier1Failures) == 0 {
		t.Fatal("expected a tier-1 rejection")
	}
	if v.Complexity <= 0 {
		t.Errorf("complexity must be scored even on rejection, got %f", v.Complexity)
	}
}

func TestValidateForwardsProgress(t *testing.T) {
	p := enginePipeline(false)

	var updates int
	_, err := p.Validate(context.Background(), models.DefaultModelConfig(), func(ports.ProgressUpdate) {
		updates++
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updates != 7 {
		t.Errorf("expected 7 progress updates for a 6-test battery, got %d", updates)
	}
}

func TestValidateSubsetRequiresTier1Clean(t *testing.T) {
	p := enginePipeline(false)

	cfg := models.DefaultModelConfig()
	cfg.Rules.SupportEfficiency = -1

	if _, err := p.ValidateSubset(context.Background(), cfg, nil, nil); err == nil {
		t.Fatal("expected a structural rejection")
	}
}

func TestValidateSubsetRunsNamedTestsOnly(t *testing.T) {
	p := enginePipeline(false)
	suite, err := p.ValidateSubset(context.Background(), models.DefaultModelConfig(),
		[]core.TestID{"AT-6"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if suite.Total != 1 {
		t.Fatalf("expected 1 result, got %d", suite.Total)
	}
	if suite.Results[0].TestID != "AT-6" {
		t.Errorf("expected AT-6, got %s", suite.Results[0].TestID)
	}
	if !suite.Results[0].Passed {
		t.Errorf("reference model should conserve the fund: %s", suite.Results[0].Reason)
	}
}
