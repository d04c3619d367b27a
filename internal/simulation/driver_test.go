package simulation

import (
	"fmt"
	"testing"

	"policysim/domain/anchor"
	"policysim/domain/econ"
	"policysim/internal/errors"
	"policysim/internal/testkit"
	"policysim/ports"
)

func TestRunZeroMonths(t *testing.T) {
	driver := NewDriver(testkit.Inert())
	result, err := driver.Run(0, anchor.Setup{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.History) != 0 {
		t.Errorf("expected empty history, got %d entries", len(result.History))
	}
	if result.Initial.Month != result.Final.Month {
		t.Error("zero-month run should leave initial and final identical")
	}
	if result.Initial.AvgWellbeing != result.Final.AvgWellbeing {
		t.Error("zero-month run changed wellbeing")
	}
}

func TestRunThreadsStateForward(t *testing.T) {
	driver := NewDriver(testkit.Inert())
	result, err := driver.Run(12, anchor.Setup{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.History) != 12 {
		t.Fatalf("expected 12 months of history, got %d", len(result.History))
	}
	for i, out := range result.History {
		if out.State.Month != i+1 {
			t.Errorf("history[%d]: expected month %d, got %d", i, i+1, out.State.Month)
		}
	}
	if result.Final.Month != 12 {
		t.Errorf("expected final month 12, got %d", result.Final.Month)
	}
}

func TestRunTracksPeakRisk(t *testing.T) {
	// Risk rises then falls; the peak must survive to the end.
	risks := []float64{0.1, 0.7, 0.3}
	var call int
	stepper := ports.StepperFunc(func(state econ.SimulationState, corps []econ.Corporation, _ econ.ModelParameters) (econ.StepOutput, error) {
		next := state.Clone()
		next.Month = state.Month + 1
		out := econ.StepOutput{
			State:        next,
			Corporations: econ.CloneCorporations(corps),
			GameTheory:   econ.GameTheoryMetrics{RaceToBottomRisk: risks[call]},
		}
		call++
		return out, nil
	})

	result, err := NewDriver(stepper).Run(3, anchor.Setup{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PeakRisk != 0.7 {
		t.Errorf("expected peak risk 0.7, got %f", result.PeakRisk)
	}
}

func TestRunSurfacesStepperFailure(t *testing.T) {
	cause := fmt.Errorf("numerical blowup")
	driver := NewDriver(testkit.FailAfter(3, cause))

	_, err := driver.Run(10, anchor.Setup{})
	if err == nil {
		t.Fatal("expected an error from the failing stepper")
	}
	if errors.GetCode(err) != errors.CodeStepperFailure {
		t.Errorf("expected code %s, got %s", errors.CodeStepperFailure, errors.GetCode(err))
	}
}

func TestWellbeingSeriesIncludesInitial(t *testing.T) {
	driver := NewDriver(testkit.Inert())
	result, err := driver.Run(5, anchor.Setup{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	series := result.WellbeingSeries()
	if len(series) != 6 {
		t.Fatalf("expected 6 samples for a 5-month run, got %d", len(series))
	}
	if series[0] != result.Initial.AvgWellbeing {
		t.Error("series should start with the initial wellbeing")
	}
}

func TestSummarizeWellbeing(t *testing.T) {
	driver := NewDriver(testkit.Inert())
	result, err := driver.Run(4, anchor.Setup{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summary, err := result.SummarizeWellbeing()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The inert stepper never moves wellbeing.
	if summary.Min != summary.Max || summary.Min != summary.Mean {
		t.Errorf("expected a flat series, got %+v", summary)
	}
}
