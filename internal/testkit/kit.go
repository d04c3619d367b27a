// Package testkit provides scripted steppers for exercising the battery,
// pipeline, and server without the full simulation engine.
package testkit

import (
	"fmt"
	"sync/atomic"

	"policysim/domain/econ"
	"policysim/ports"
)

// Inert returns a stepper that advances the month and leaves everything else
// untouched. Useful where tests only care about orchestration mechanics.
func Inert() ports.Stepper {
	return ports.StepperFunc(func(state econ.SimulationState, corps []econ.Corporation, _ econ.ModelParameters) (econ.StepOutput, error) {
		next := state.Clone()
		next.Month = state.Month + 1
		return econ.StepOutput{
			State:        next,
			Corporations: econ.CloneCorporations(corps),
		}, nil
	})
}

// FailAfter returns a stepper that succeeds for n calls and then returns an
// error forever.
func FailAfter(n int, err error) ports.Stepper {
	if err == nil {
		err = fmt.Errorf("scripted stepper failure")
	}
	var calls int64
	inner := Inert()
	return ports.StepperFunc(func(state econ.SimulationState, corps []econ.Corporation, params econ.ModelParameters) (econ.StepOutput, error) {
		if atomic.AddInt64(&calls, 1) > int64(n) {
			return econ.StepOutput{}, err
		}
		return inner.Step(state, corps, params)
	})
}

// Panicking returns a stepper that panics on every call.
func Panicking(message string) ports.Stepper {
	return ports.StepperFunc(func(econ.SimulationState, []econ.Corporation, econ.ModelParameters) (econ.StepOutput, error) {
		panic(message)
	})
}

// Counting wraps a stepper and counts how many times Step runs.
type Counting struct {
	inner ports.Stepper
	calls int64
}

// NewCounting wraps inner with a call counter.
func NewCounting(inner ports.Stepper) *Counting {
	return &Counting{inner: inner}
}

// Step implements ports.Stepper.
func (c *Counting) Step(state econ.SimulationState, corps []econ.Corporation, params econ.ModelParameters) (econ.StepOutput, error) {
	atomic.AddInt64(&c.calls, 1)
	return c.inner.Step(state, corps, params)
}

// Calls reports how many steps have run.
func (c *Counting) Calls() int {
	return int(atomic.LoadInt64(&c.calls))
}
