package ports

import (
	"policysim/domain/econ"
)

// Stepper advances the simulation by one month.
//
// Implementations must be pure: identical inputs yield identical outputs,
// with no hidden I/O and no internal randomness. The anchor battery depends
// on this for replayable, non-flaky results. Implementations must also never
// mutate the state or corporation slice they receive; the returned output
// fully replaces both.
type Stepper interface {
	Step(state econ.SimulationState, corps []econ.Corporation, params econ.ModelParameters) (econ.StepOutput, error)
}

// StepperFunc adapts a plain function to the Stepper interface.
type StepperFunc func(state econ.SimulationState, corps []econ.Corporation, params econ.ModelParameters) (econ.StepOutput, error)

// Step implements Stepper.
func (f StepperFunc) Step(state econ.SimulationState, corps []econ.Corporation, params econ.ModelParameters) (econ.StepOutput, error) {
	return f(state, corps, params)
}
