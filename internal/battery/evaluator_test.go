package battery

import (
	"fmt"
	"strings"
	"testing"

	"policysim/adapters/engine"
	"policysim/domain/anchor"
	"policysim/internal/testkit"
)

func TestEvaluateUnknownKindFails(t *testing.T) {
	evaluator := NewEvaluator(testkit.Inert())
	test := anchor.Test{
		ID:        "AT-1",
		Name:      "bogus",
		Months:    1,
		Assertion: anchor.Assertion{Kind: anchor.Kind("teleport")},
	}

	result := evaluator.Evaluate(test)
	if result.Passed {
		t.Fatal("unknown assertion kind must fail")
	}
	if !strings.Contains(result.Reason, "teleport") {
		t.Errorf("reason should name the unknown kind, got %q", result.Reason)
	}
}

func TestEvaluateContainsStepperError(t *testing.T) {
	evaluator := NewEvaluator(testkit.FailAfter(0, fmt.Errorf("divide by zero")))
	test, err := anchor.FindByID("AT-1")
	if err != nil {
		t.Fatal(err)
	}

	result := evaluator.Evaluate(test)
	if result.Passed {
		t.Fatal("a failing stepper must produce a failed result")
	}
	if !strings.Contains(result.Reason, "divide by zero") {
		t.Errorf("reason should carry the underlying fault, got %q", result.Reason)
	}
	if result.TestID != "AT-1" {
		t.Errorf("result should keep the test identity, got %s", result.TestID)
	}
}

func TestEvaluateContainsStepperPanic(t *testing.T) {
	evaluator := NewEvaluator(testkit.Panicking("index out of range"))
	test, err := anchor.FindByID("AT-6")
	if err != nil {
		t.Fatal(err)
	}

	result := evaluator.Evaluate(test)
	if result.Passed {
		t.Fatal("a panicking stepper must produce a failed result, not a crash")
	}
	if !strings.Contains(result.Reason, "index out of range") {
		t.Errorf("reason should carry the panic value, got %q", result.Reason)
	}
}

func TestEvaluateReasonNamesMeasuredAndExpected(t *testing.T) {
	evaluator := NewEvaluator(engine.Default())
	test, err := anchor.FindByID("AT-1")
	if err != nil {
		t.Fatal(err)
	}

	result := evaluator.Evaluate(test)
	if !result.Passed {
		t.Fatalf("reference engine should pass AT-1, got: %s", result.Reason)
	}
	if !strings.Contains(result.Reason, "<") || !strings.Contains(result.Reason, "-5.0000") {
		t.Errorf("pass reason should show the comparison, got %q", result.Reason)
	}
	if result.Details == nil {
		t.Fatal("expected details on an evaluated result")
	}
	if _, ok := result.Details.Metrics["wellbeing_delta"]; !ok {
		t.Error("details should carry the measured delta")
	}
	if result.Details.Metrics["months"] != 36 {
		t.Errorf("expected 36 months in details, got %f", result.Details.Metrics["months"])
	}
}

func TestEvaluateConservation(t *testing.T) {
	evaluator := NewEvaluator(engine.Default())
	test, err := anchor.FindByID("AT-6")
	if err != nil {
		t.Fatal(err)
	}

	result := evaluator.Evaluate(test)
	if !result.Passed {
		t.Fatalf("reference engine should conserve the fund, got: %s", result.Reason)
	}
	drift, ok := result.Details.Metrics["relative_drift"]
	if !ok {
		t.Fatal("details should carry the relative drift")
	}
	if drift < 0 || drift > 0.01 {
		t.Errorf("drift %f outside tolerance", drift)
	}
}

func TestEvaluateComparisonRunsBothStrategies(t *testing.T) {
	evaluator := NewEvaluator(engine.Default())
	test, err := anchor.FindByID("AT-5")
	if err != nil {
		t.Fatal(err)
	}

	result := evaluator.Evaluate(test)
	if !result.Passed {
		t.Fatalf("global pooling should beat HQ-local for poor countries, got: %s", result.Reason)
	}
	global := result.Details.Metrics["global_poor_wellbeing"]
	hqLocal := result.Details.Metrics["hq_local_poor_wellbeing"]
	if global <= hqLocal {
		t.Errorf("expected global %f strictly above hq-local %f", global, hqLocal)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	evaluator := NewEvaluator(engine.Default())
	test, err := anchor.FindByID("AT-2")
	if err != nil {
		t.Fatal(err)
	}

	first := evaluator.Evaluate(test)
	second := evaluator.Evaluate(test)
	if first.Passed != second.Passed || first.Reason != second.Reason {
		t.Fatal("evaluation must be deterministic for a fixed test and stepper")
	}
	for name, value := range first.Details.Metrics {
		if second.Details.Metrics[name] != value {
			t.Errorf("metric %s differs between identical runs", name)
		}
	}
}
