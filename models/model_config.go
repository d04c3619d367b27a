package models

import (
	"policysim/domain/core"
	"policysim/domain/econ"
)

// RuleSet is the behavioral half of a user-authored model: the coefficients
// that shape how the stepper translates parameters into outcomes.
type RuleSet struct {
	// DisplacementSeverity scales the monthly wellbeing hit from AI-driven
	// job displacement.
	DisplacementSeverity float64 `json:"displacement_severity"`
	// SupportEfficiency scales how much wellbeing one unit of distributed
	// support buys.
	SupportEfficiency float64 `json:"support_efficiency"`
	// BenchmarkRate is the industry contribution rate moderate and mixed
	// corporations drift toward under market pressure.
	BenchmarkRate float64 `json:"benchmark_rate"`
	// GenerousRate is the resting contribution rate of generous corporations.
	GenerousRate float64 `json:"generous_rate"`
	// ErosionRate is the monthly contribution decay of selfish corporations
	// when market pressure is weak.
	ErosionRate float64 `json:"erosion_rate"`
	// ReferenceRate anchors the race-to-bottom risk metric: risk grows as
	// the selfish-weighted average rate falls below it.
	ReferenceRate float64 `json:"reference_rate"`
	// CrisisThreshold is the wellbeing score below which a country counts
	// as in crisis.
	CrisisThreshold float64 `json:"crisis_threshold"`
}

// ModelConfig is a user-authored model: an identity, a default parameter
// bundle, and a rule set. The anchor battery judges whether any such model
// still obeys the causal laws of the simulation.
type ModelConfig struct {
	ID         core.ModelID         `json:"id"`
	Name       string               `json:"name"`
	Version    string               `json:"version"`
	Author     string               `json:"author,omitempty"`
	Parameters econ.ModelParameters `json:"parameters"`
	Rules      RuleSet              `json:"rules"`
}

// DefaultRuleSet returns the reference rule coefficients.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		DisplacementSeverity: 0.5,
		SupportEfficiency:    1.2,
		BenchmarkRate:        0.25,
		GenerousRate:         0.35,
		ErosionRate:          0.03,
		ReferenceRate:        0.15,
		CrisisThreshold:      40,
	}
}

// DefaultModelConfig returns the reference model every deployment ships with.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		ID:      core.ModelID("baseline"),
		Name:    "Baseline Transition Model",
		Version: "1.0.0",
		Parameters: econ.ModelParameters{
			Name:                 "baseline",
			Version:              "1.0.0",
			TaxRate:              0.20,
			AdoptionIncentive:    0.20,
			UBIBase:              300,
			AIGrowthRate:         0.08,
			Volatility:           0.05,
			GDPScaling:           0.4,
			GlobalRedistribution: 0.3,
			DisplacementRate:     0.75,
			MarketPressure:       0.5,
			DirectToWallet:       true,
			DefaultPolicy:        econ.StanceMixed,
		},
		Rules: DefaultRuleSet(),
	}
}
