package battery

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"policysim/domain/anchor"
	"policysim/domain/econ"
	"policysim/internal/simulation"
	"policysim/ports"
)

// equalityTolerance is the slack applied to the == operator so that
// floating-point results compare sanely.
const equalityTolerance = 0.001

// fallbackBaselineRate backs the contribution-rate assertion when the test
// setup pins no starting rate.
const fallbackBaselineRate = 0.10

// Evaluator runs one anchor test against a stepper and renders the verdict.
//
// Evaluate never returns an error: any fault inside the run, including a
// stepper panic, is contained at the single-test boundary and surfaces as a
// failed result. One broken test must never take down the rest of the
// battery.
type Evaluator struct {
	driver *simulation.Driver
}

// NewEvaluator creates an evaluator over the given stepper.
func NewEvaluator(stepper ports.Stepper) *Evaluator {
	return &Evaluator{driver: simulation.NewDriver(stepper)}
}

// Evaluate runs test's scenario and applies its assertion.
func (e *Evaluator) Evaluate(test anchor.Test) (result anchor.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = failed(test, fmt.Sprintf("simulation panicked: %v", r), nil)
		}
	}()

	switch test.Assertion.Kind {
	case anchor.KindWellbeingDelta:
		return e.evalWellbeingDelta(test)
	case anchor.KindThreshold:
		return e.evalThreshold(test)
	case anchor.KindGameTheory:
		return e.evalGameTheory(test)
	case anchor.KindConservation:
		return e.evalConservation(test)
	case anchor.KindComparison:
		return e.evalComparison(test)
	default:
		return failed(test, fmt.Sprintf("unknown assertion kind %q", test.Assertion.Kind), nil)
	}
}

func (e *Evaluator) evalWellbeingDelta(test anchor.Test) anchor.Result {
	run, err := e.driver.Run(test.Months, test.Setup)
	if err != nil {
		return failed(test, fmt.Sprintf("simulation failed: %v", err), nil)
	}

	delta := run.Final.AvgWellbeing - run.Initial.AvgWellbeing
	details := runDetails(test, run)
	details.Metrics["wellbeing_delta"] = delta
	return verdict(test, delta, "wellbeing delta", details)
}

func (e *Evaluator) evalThreshold(test anchor.Test) anchor.Result {
	run, err := e.driver.Run(test.Months, test.Setup)
	if err != nil {
		return failed(test, fmt.Sprintf("simulation failed: %v", err), nil)
	}

	details := runDetails(test, run)

	switch test.Assertion.Metric {
	case anchor.MetricWellbeingRatio:
		if run.Initial.AvgWellbeing <= 0 {
			return failed(test, "initial average wellbeing is zero, ratio undefined", details)
		}
		ratio := run.Final.AvgWellbeing / run.Initial.AvgWellbeing
		details.Metrics["wellbeing_ratio"] = ratio
		return verdict(test, ratio, "wellbeing ratio", details)

	case anchor.MetricAvgContributionRate:
		terminal := 0.0
		if len(run.History) > 0 {
			terminal = run.History[len(run.History)-1].GameTheory.AvgContributionRate
		}
		baseline := test.Assertion.Value
		if baseline == 0 {
			baseline = fallbackBaselineRate
			if test.Setup.ContributionRate != nil {
				baseline = *test.Setup.ContributionRate
			}
		}
		details.Metrics["avg_contribution_rate"] = terminal
		details.Metrics["baseline_rate"] = baseline
		return verdictAgainst(test, terminal, baseline, "terminal average contribution rate", details)

	default:
		return failed(test, fmt.Sprintf("unknown threshold metric %q", test.Assertion.Metric), details)
	}
}

func (e *Evaluator) evalGameTheory(test anchor.Test) anchor.Result {
	run, err := e.driver.Run(test.Months, test.Setup)
	if err != nil {
		return failed(test, fmt.Sprintf("simulation failed: %v", err), nil)
	}

	details := runDetails(test, run)
	details.Metrics["peak_race_to_bottom_risk"] = run.PeakRisk
	return verdict(test, run.PeakRisk, "peak race-to-bottom risk", details)
}

func (e *Evaluator) evalConservation(test anchor.Test) anchor.Result {
	run, err := e.driver.Run(test.Months, test.Setup)
	if err != nil {
		return failed(test, fmt.Sprintf("simulation failed: %v", err), nil)
	}

	tolerance := test.Assertion.Tolerance
	if tolerance == 0 {
		tolerance = 0.01
	}

	details := runDetails(test, run)
	if len(run.History) == 0 {
		return failed(test, "no simulated months, ledger unavailable", details)
	}

	ledger := run.History[len(run.History)-1].Ledger
	drift := math.Abs(ledger.MonthlyInflow-ledger.MonthlyOutflow) / math.Max(ledger.MonthlyInflow, 1)
	details.Metrics["monthly_inflow"] = ledger.MonthlyInflow
	details.Metrics["monthly_outflow"] = ledger.MonthlyOutflow
	details.Metrics["relative_drift"] = drift
	details.Metrics["tolerance"] = tolerance
	details.Expected = fmt.Sprintf("relative inflow/outflow drift <= %.4f", tolerance)
	details.Actual = fmt.Sprintf("relative drift %.6f", drift)

	if drift <= tolerance {
		return passed(test, fmt.Sprintf("fund conserved: relative drift %.6f within tolerance %.4f", drift, tolerance), details)
	}
	return failed(test, fmt.Sprintf("fund leaks: relative drift %.6f exceeds tolerance %.4f", drift, tolerance), details)
}

// evalComparison runs the same scenario under both distribution strategies
// and compares terminal low-income wellbeing. The measured value is the
// globally-pooled outcome, the target is the HQ-local outcome.
func (e *Evaluator) evalComparison(test anchor.Test) anchor.Result {
	global, err := e.runWithStrategy(test, econ.DistributeGlobal)
	if err != nil {
		return failed(test, fmt.Sprintf("global-pooling run failed: %v", err), nil)
	}
	hqLocal, err := e.runWithStrategy(test, econ.DistributeHQLocal)
	if err != nil {
		return failed(test, fmt.Sprintf("hq-local run failed: %v", err), nil)
	}

	globalPoor, err := lowIncomeAverage(global.Final)
	if err != nil {
		return failed(test, fmt.Sprintf("low-income average unavailable: %v", err), nil)
	}
	hqPoor, err := lowIncomeAverage(hqLocal.Final)
	if err != nil {
		return failed(test, fmt.Sprintf("low-income average unavailable: %v", err), nil)
	}

	details := runDetails(test, global)
	details.Metrics["global_poor_wellbeing"] = globalPoor
	details.Metrics["hq_local_poor_wellbeing"] = hqPoor
	return verdictAgainst(test, globalPoor, hqPoor, "low-income wellbeing under global pooling", details)
}

func (e *Evaluator) runWithStrategy(test anchor.Test, strategy econ.DistributionStrategy) (*simulation.RunResult, error) {
	setup := test.Setup
	setup.Strategy = &strategy
	return e.driver.Run(test.Months, setup)
}

// lowIncomeAverage averages terminal wellbeing over the low-income country
// set, unweighted.
func lowIncomeAverage(state econ.SimulationState) (float64, error) {
	values := make([]float64, 0, 8)
	for _, code := range econ.LowIncomeCountries() {
		cs, ok := state.Countries[code]
		if !ok {
			return 0, fmt.Errorf("country %s missing from state", code)
		}
		values = append(values, cs.Wellbeing)
	}
	return stats.Mean(values)
}

// verdict compares measured against the assertion's declared value.
func verdict(test anchor.Test, measured float64, label string, details *anchor.Details) anchor.Result {
	return verdictAgainst(test, measured, test.Assertion.Value, label, details)
}

// verdictAgainst compares measured against target under the assertion's
// operator and words the reason so a reader sees both numbers.
func verdictAgainst(test anchor.Test, measured, target float64, label string, details *anchor.Details) anchor.Result {
	op := test.Assertion.Operator
	details.Expected = fmt.Sprintf("%s %s %.4f", label, op, target)
	details.Actual = fmt.Sprintf("%s = %.4f", label, measured)

	ok, err := compare(measured, op, target)
	if err != nil {
		return failed(test, err.Error(), details)
	}
	if ok {
		return passed(test, fmt.Sprintf("%s %.4f satisfies %s %.4f", label, measured, op, target), details)
	}
	return failed(test, fmt.Sprintf("%s %.4f does not satisfy %s %.4f", label, measured, op, target), details)
}

func compare(measured float64, op anchor.Operator, target float64) (bool, error) {
	switch op {
	case anchor.OpLess:
		return measured < target, nil
	case anchor.OpGreater:
		return measured > target, nil
	case anchor.OpLessEq:
		return measured <= target, nil
	case anchor.OpGreaterEq:
		return measured >= target, nil
	case anchor.OpEqual:
		return math.Abs(measured-target) <= equalityTolerance, nil
	default:
		return false, fmt.Errorf("unknown comparison operator %q", op)
	}
}

// runDetails seeds the details payload with the metrics every kind shares.
func runDetails(test anchor.Test, run *simulation.RunResult) *anchor.Details {
	return &anchor.Details{
		Metrics: map[string]float64{
			"months":            float64(test.Months),
			"initial_wellbeing": run.Initial.AvgWellbeing,
			"final_wellbeing":   run.Final.AvgWellbeing,
		},
	}
}

func passed(test anchor.Test, reason string, details *anchor.Details) anchor.Result {
	return anchor.Result{
		TestID:   test.ID,
		Name:     test.Name,
		Category: test.Category,
		Passed:   true,
		Reason:   reason,
		Details:  details,
	}
}

func failed(test anchor.Test, reason string, details *anchor.Details) anchor.Result {
	return anchor.Result{
		TestID:   test.ID,
		Name:     test.Name,
		Category: test.Category,
		Passed:   false,
		Reason:   reason,
		Details:  details,
	}
}
