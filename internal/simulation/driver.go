package simulation

import (
	"github.com/montanaflynn/stats"

	"policysim/domain/anchor"
	"policysim/domain/econ"
	"policysim/internal/errors"
	"policysim/internal/scenario"
	"policysim/ports"
)

// RunResult is the full record of one driven simulation: the scenario's
// initial state, the terminal state, every per-month output in order, and
// the peak race-to-bottom risk observed at any point (some tests assert on
// a transient peak, not the terminal value).
type RunResult struct {
	Initial  econ.SimulationState
	Final    econ.SimulationState
	History  []econ.StepOutput
	PeakRisk float64
}

// WellbeingSeries returns the per-month average wellbeing, starting with
// the initial state's value.
func (r *RunResult) WellbeingSeries() []float64 {
	series := make([]float64, 0, len(r.History)+1)
	series = append(series, r.Initial.AvgWellbeing)
	for _, out := range r.History {
		series = append(series, out.State.AvgWellbeing)
	}
	return series
}

// ContributionSeries returns the per-month average contribution rate.
func (r *RunResult) ContributionSeries() []float64 {
	series := make([]float64, 0, len(r.History))
	for _, out := range r.History {
		series = append(series, out.GameTheory.AvgContributionRate)
	}
	return series
}

// SeriesSummary describes one metric series over a run
type SeriesSummary struct {
	Min  float64
	Max  float64
	Mean float64
}

// SummarizeWellbeing computes descriptive statistics over the wellbeing
// series, for reports.
func (r *RunResult) SummarizeWellbeing() (SeriesSummary, error) {
	series := r.WellbeingSeries()
	min, err := stats.Min(series)
	if err != nil {
		return SeriesSummary{}, err
	}
	max, err := stats.Max(series)
	if err != nil {
		return SeriesSummary{}, err
	}
	mean, err := stats.Mean(series)
	if err != nil {
		return SeriesSummary{}, err
	}
	return SeriesSummary{Min: min, Max: max, Mean: mean}, nil
}

// Driver runs a stepper month by month from a built scenario.
type Driver struct {
	stepper ports.Stepper
}

// NewDriver creates a driver over the given stepper.
func NewDriver(stepper ports.Stepper) *Driver {
	return &Driver{stepper: stepper}
}

// Run builds the scenario for setup and advances it months times, threading
// the returned state and corporation list forward as the next call's input.
// State and corporations are fully replaced each step, never merged.
// Deterministic for a fixed setup and stepper. A zero-month run returns
// initial == final with an empty history.
func (d *Driver) Run(months int, setup anchor.Setup) (*RunResult, error) {
	state, corps, params := scenario.Build(setup)

	result := &RunResult{
		Initial: state.Clone(),
		History: make([]econ.StepOutput, 0, months),
	}

	for m := 0; m < months; m++ {
		out, err := d.stepper.Step(state, corps, params)
		if err != nil {
			return nil, errors.StepperFailure(err)
		}
		result.History = append(result.History, out)
		if out.GameTheory.RaceToBottomRisk > result.PeakRisk {
			result.PeakRisk = out.GameTheory.RaceToBottomRisk
		}
		state = out.State
		corps = out.Corporations
	}

	result.Final = state
	return result, nil
}
