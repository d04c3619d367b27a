package tier1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policysim/models"
)

func TestReferenceModelIsClean(t *testing.T) {
	failures := New().Validate(models.DefaultModelConfig())
	assert.Empty(t, failures)
}

func TestParameterRangeFindings(t *testing.T) {
	cfg := models.DefaultModelConfig()
	cfg.Parameters.TaxRate = 1.5
	cfg.Parameters.DisplacementRate = -0.2
	cfg.Parameters.UBIBase = -100

	failures := New().Validate(cfg)
	require.Len(t, failures, 3)
	for _, f := range failures {
		assert.Equal(t, "T1-PARAM-RANGE", f.TestID)
	}

	reasons := make([]string, 0, len(failures))
	for _, f := range failures {
		reasons = append(reasons, f.Reason)
	}
	joined := ""
	for _, r := range reasons {
		joined += r + "\n"
	}
	assert.Contains(t, joined, "tax_rate")
	assert.Contains(t, joined, "displacement_rate")
	assert.Contains(t, joined, "ubi_base")
}

func TestRuleRangeFindings(t *testing.T) {
	cfg := models.DefaultModelConfig()
	cfg.Rules.DisplacementSeverity = 0
	cfg.Rules.CrisisThreshold = 250

	failures := New().Validate(cfg)
	require.Len(t, failures, 2)
	for _, f := range failures {
		assert.Equal(t, "T1-RULE-RANGE", f.TestID)
	}
}

func TestIdentityFindings(t *testing.T) {
	cfg := models.DefaultModelConfig()
	cfg.ID = ""
	cfg.Name = ""

	failures := New().Validate(cfg)
	require.Len(t, failures, 2)
	for _, f := range failures {
		assert.Equal(t, "T1-IDENTITY", f.TestID)
	}
}

func TestUnknownStanceRejected(t *testing.T) {
	cfg := models.DefaultModelConfig()
	cfg.Parameters.DefaultPolicy = "anarchic"

	failures := New().Validate(cfg)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Reason, "anarchic")
}

func TestAllFindingsCollected(t *testing.T) {
	// A thoroughly broken model reports everything at once, not just the
	// first problem.
	cfg := models.DefaultModelConfig()
	cfg.ID = ""
	cfg.Parameters.MarketPressure = 9
	cfg.Rules.SupportEfficiency = -3

	failures := New().Validate(cfg)
	assert.Len(t, failures, 3)
}
