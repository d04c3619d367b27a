package tier1

import (
	"fmt"
	"math"

	"policysim/domain/econ"
	"policysim/domain/verdict"
	"policysim/models"
	"policysim/ports"
)

// Validator is the structural tier-1 gate. Every check is static and cheap:
// no simulation runs, no I/O. Findings carry stable test identifiers so
// clients can key on them.
type Validator struct{}

// New creates the tier-1 validator.
func New() *Validator {
	return &Validator{}
}

var _ ports.Tier1Validator = (*Validator)(nil)

// Validate runs every structural check and collects all findings rather than
// stopping at the first, so a model author sees the full repair list at once.
func (v *Validator) Validate(cfg models.ModelConfig) []verdict.Tier1Failure {
	var failures []verdict.Tier1Failure

	add := func(id, format string, args ...interface{}) {
		failures = append(failures, verdict.Tier1Failure{
			TestID: id,
			Reason: fmt.Sprintf(format, args...),
		})
	}

	if cfg.ID.String() == "" {
		add("T1-IDENTITY", "model ID is empty")
	}
	if cfg.Name == "" {
		add("T1-IDENTITY", "model name is empty")
	}

	p := cfg.Parameters
	checkFraction(add, "T1-PARAM-RANGE", "tax_rate", p.TaxRate)
	checkFraction(add, "T1-PARAM-RANGE", "adoption_incentive", p.AdoptionIncentive)
	checkFraction(add, "T1-PARAM-RANGE", "ai_growth_rate", p.AIGrowthRate)
	checkFraction(add, "T1-PARAM-RANGE", "volatility", p.Volatility)
	checkFraction(add, "T1-PARAM-RANGE", "gdp_scaling", p.GDPScaling)
	checkFraction(add, "T1-PARAM-RANGE", "global_redistribution", p.GlobalRedistribution)
	checkFraction(add, "T1-PARAM-RANGE", "displacement_rate", p.DisplacementRate)
	checkFraction(add, "T1-PARAM-RANGE", "market_pressure", p.MarketPressure)
	if math.IsNaN(p.UBIBase) || p.UBIBase < 0 {
		add("T1-PARAM-RANGE", "ubi_base must be non-negative, got %v", p.UBIBase)
	}
	switch p.DefaultPolicy {
	case econ.StanceSelfish, econ.StanceModerate, econ.StanceGenerous, econ.StanceMixed:
	default:
		add("T1-PARAM-RANGE", "default_policy %q is not a known stance", p.DefaultPolicy)
	}

	r := cfg.Rules
	checkPositive(add, "T1-RULE-RANGE", "displacement_severity", r.DisplacementSeverity)
	checkPositive(add, "T1-RULE-RANGE", "support_efficiency", r.SupportEfficiency)
	checkFraction(add, "T1-RULE-RANGE", "benchmark_rate", r.BenchmarkRate)
	checkFraction(add, "T1-RULE-RANGE", "generous_rate", r.GenerousRate)
	checkFraction(add, "T1-RULE-RANGE", "erosion_rate", r.ErosionRate)
	checkPositive(add, "T1-RULE-RANGE", "reference_rate", r.ReferenceRate)
	if math.IsNaN(r.CrisisThreshold) || r.CrisisThreshold < 0 || r.CrisisThreshold > 100 {
		add("T1-RULE-RANGE", "crisis_threshold must be within [0,100], got %v", r.CrisisThreshold)
	}

	return failures
}

func checkFraction(add func(string, string, ...interface{}), id, name string, v float64) {
	if math.IsNaN(v) || v < 0 || v > 1 {
		add(id, "%s must be within [0,1], got %v", name, v)
	}
}

func checkPositive(add func(string, string, ...interface{}), id, name string, v float64) {
	if math.IsNaN(v) || v <= 0 {
		add(id, "%s must be positive, got %v", name, v)
	}
}
