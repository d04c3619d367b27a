package battery

import (
	"context"
	"testing"

	"policysim/adapters/engine"
	"policysim/domain/core"
	"policysim/internal/testkit"
	"policysim/ports"
)

func TestRunSuiteCoversRegistryInOrder(t *testing.T) {
	orch := NewOrchestrator(testkit.Inert(), false)
	suite, err := orch.RunSuite(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if suite.Total != 6 {
		t.Fatalf("expected 6 results, got %d", suite.Total)
	}
	wantIDs := []core.TestID{"AT-1", "AT-2", "AT-3", "AT-4", "AT-5", "AT-6"}
	for i, want := range wantIDs {
		if suite.Results[i].TestID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, suite.Results[i].TestID)
		}
	}
}

func TestReferenceEnginePassesFullBattery(t *testing.T) {
	orch := NewOrchestrator(engine.Default(), false)
	suite, err := orch.RunSuite(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if suite.Passed != suite.Total {
		for _, result := range suite.Results {
			if !result.Passed {
				t.Errorf("%s failed: %s", result.TestID, result.Reason)
			}
		}
		t.Fatalf("reference engine passed %d of %d", suite.Passed, suite.Total)
	}
	if !suite.Eligible() {
		t.Fatal("full pass must be eligible")
	}
}

func TestProgressSequence(t *testing.T) {
	orch := NewOrchestrator(testkit.Inert(), false)

	var updates []ports.ProgressUpdate
	_, err := orch.RunSuite(context.Background(), func(u ports.ProgressUpdate) {
		updates = append(updates, u)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One update before each of the six tests plus a completion update.
	if len(updates) != 7 {
		t.Fatalf("expected 7 progress updates, got %d", len(updates))
	}
	for i := 0; i < 6; i++ {
		u := updates[i]
		if u.Status != ports.ProgressRunning {
			t.Errorf("update %d: expected running status, got %s", i, u.Status)
		}
		if u.CurrentTest != i+1 || u.TotalTests != 6 {
			t.Errorf("update %d: expected %d/6, got %d/%d", i, i+1, u.CurrentTest, u.TotalTests)
		}
		if len(u.ResultsSoFar) != i {
			t.Errorf("update %d: expected %d accumulated results, got %d", i, i, len(u.ResultsSoFar))
		}
		if u.CurrentTestName == "" {
			t.Errorf("update %d: missing test name", i)
		}
	}
	final := updates[6]
	if final.Status != ports.ProgressCompleted {
		t.Errorf("final update: expected completed status, got %s", final.Status)
	}
	if len(final.ResultsSoFar) != 6 {
		t.Errorf("final update: expected all 6 results, got %d", len(final.ResultsSoFar))
	}
}

func TestYieldRunsBetweenTests(t *testing.T) {
	orch := NewOrchestrator(testkit.Inert(), true)
	yields := 0
	orch.SetYield(func() { yields++ })

	if _, err := orch.RunSuite(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Between tests only, never before the first or after the last.
	if yields != 5 {
		t.Errorf("expected 5 yields for 6 tests, got %d", yields)
	}
}

func TestYieldDisabled(t *testing.T) {
	orch := NewOrchestrator(testkit.Inert(), false)
	yields := 0
	orch.SetYield(func() { yields++ })

	if _, err := orch.RunSuite(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if yields != 0 {
		t.Errorf("expected no yields when disabled, got %d", yields)
	}
}

func TestRunSubsetRejectsUnknownID(t *testing.T) {
	orch := NewOrchestrator(testkit.Inert(), false)
	_, err := orch.RunSubset(context.Background(), []core.TestID{"AT-1", "AT-42"}, nil)
	if err == nil {
		t.Fatal("expected an error for an unknown test ID")
	}
}

func TestRunSubsetKeepsRequestedOrder(t *testing.T) {
	orch := NewOrchestrator(testkit.Inert(), false)
	suite, err := orch.RunSubset(context.Background(), []core.TestID{"AT-6", "AT-1"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if suite.Total != 2 {
		t.Fatalf("expected 2 results, got %d", suite.Total)
	}
	if suite.Results[0].TestID != "AT-6" || suite.Results[1].TestID != "AT-1" {
		t.Errorf("subset order not preserved: %s, %s", suite.Results[0].TestID, suite.Results[1].TestID)
	}
}

func TestBatchAndSubsetAgree(t *testing.T) {
	orch := NewOrchestrator(engine.Default(), true)
	full, err := orch.RunSuite(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := []core.TestID{"AT-1", "AT-2", "AT-3", "AT-4", "AT-5", "AT-6"}
	subset, err := orch.RunSubset(context.Background(), ids, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range full.Results {
		if full.Results[i].Passed != subset.Results[i].Passed {
			t.Errorf("%s: batch and subset disagree", full.Results[i].TestID)
		}
		if full.Results[i].Reason != subset.Results[i].Reason {
			t.Errorf("%s: reasons diverge between paths", full.Results[i].TestID)
		}
	}
}

func TestRunTest(t *testing.T) {
	orch := NewOrchestrator(testkit.Inert(), false)
	result, err := orch.RunTest(context.Background(), "AT-6")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TestID != "AT-6" {
		t.Errorf("expected AT-6, got %s", result.TestID)
	}

	if _, err := orch.RunTest(context.Background(), "nope"); err == nil {
		t.Error("expected an error for an unknown test ID")
	}
}
