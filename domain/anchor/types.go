package anchor

import (
	"policysim/domain/core"
	"policysim/domain/econ"
)

// Category groups anchor tests by the law they encode
type Category string

const (
	CategoryCausal      Category = "causal"
	CategoryEquilibrium Category = "equilibrium"
	CategoryConsistency Category = "consistency"
)

// Kind selects one of the assertion behaviors the evaluator knows
type Kind string

const (
	// KindWellbeingDelta compares final minus initial average wellbeing
	// against a threshold.
	KindWellbeingDelta Kind = "wellbeingDelta"
	// KindThreshold compares a named metric against a threshold.
	KindThreshold Kind = "threshold"
	// KindGameTheory compares the peak race-to-bottom risk observed at any
	// point in the run, not the terminal value.
	KindGameTheory Kind = "gameTheory"
	// KindConservation checks the terminal month's ledger for the
	// money-in == money-out identity within a tolerance.
	KindConservation Kind = "conservation"
	// KindComparison runs the scenario twice (global vs hq-local
	// distribution) and compares low-income country outcomes.
	KindComparison Kind = "comparison"
)

// Operator is the comparison operator shared across assertion kinds
type Operator string

const (
	OpLess      Operator = "<"
	OpGreater   Operator = ">"
	OpLessEq    Operator = "<="
	OpGreaterEq Operator = ">="
	OpEqual     Operator = "=="
)

// Metric names the measured quantity for threshold assertions
type Metric string

const (
	MetricWellbeingRatio      Metric = "wellbeing_ratio"
	MetricAvgContributionRate Metric = "avg_contribution_rate"
)

// Setup is the sparse override bag an anchor test applies on top of the
// fixed scenario baselines. Nil fields fall back to documented defaults.
type Setup struct {
	ContributionRate *float64                   `json:"contribution_rate,omitempty"`
	Stance           *econ.PolicyStance         `json:"stance,omitempty"`
	Strategy         *econ.DistributionStrategy `json:"strategy,omitempty"`
	DisplacementRate *float64                   `json:"displacement_rate,omitempty"`
	MarketPressure   *float64                   `json:"market_pressure,omitempty"`
}

// Assertion is the declarative pass condition of one anchor test
type Assertion struct {
	Kind      Kind     `json:"kind"`
	Metric    Metric   `json:"metric,omitempty"`
	Operator  Operator `json:"operator,omitempty"`
	Value     float64  `json:"value,omitempty"`
	Tolerance float64  `json:"tolerance,omitempty"`
}

// Test is one immutable registry entry
type Test struct {
	ID          core.TestID `json:"id"`
	Name        string      `json:"name"`
	Category    Category    `json:"category"`
	Description string      `json:"description"`
	Months      int         `json:"months"`
	Setup       Setup       `json:"setup"`
	Assertion   Assertion   `json:"assertion"`
}

// Details carries the structured payload of one evaluation
type Details struct {
	Expected string             `json:"expected"`
	Actual   string             `json:"actual"`
	Metrics  map[string]float64 `json:"metrics"`
}

// Result is the outcome of evaluating one anchor test. Created fresh per
// evaluation, never mutated.
type Result struct {
	TestID   core.TestID `json:"test_id"`
	Name     string      `json:"name"`
	Category Category    `json:"category"`
	Passed   bool        `json:"passed"`
	Reason   string      `json:"reason"`
	Details  *Details    `json:"details,omitempty"`
}

// MinPassCount is the anchor pass count required for eligibility.
const MinPassCount = 4

// SuiteResult aggregates one full battery run. Recomputed wholesale on
// every run, never patched incrementally.
type SuiteResult struct {
	Passed  int      `json:"passed"`
	Total   int      `json:"total"`
	Results []Result `json:"results"`
}

// Eligible reports whether the pass count clears the eligibility bar.
func (s SuiteResult) Eligible() bool {
	return s.Passed >= MinPassCount
}

// Aggregate builds a suite result from individual results.
func Aggregate(results []Result) SuiteResult {
	passed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}
	return SuiteResult{Passed: passed, Total: len(results), Results: results}
}
