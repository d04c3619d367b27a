package battery

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"

	"policysim/domain/anchor"
	"policysim/domain/core"
	"policysim/internal"
	"policysim/ports"
)

// Orchestrator drives anchor batteries over one evaluator. Suite runs are
// serialized through a single-slot semaphore so concurrent callers queue
// instead of interleaving progress streams.
//
// A suite run that has started always runs to completion: cancellation is
// honored while waiting for the slot, never between tests. Partial suites
// would make pass counts meaningless.
type Orchestrator struct {
	evaluator *Evaluator
	sem       *semaphore.Weighted
	log       *internal.Logger

	yieldEnabled bool
	yield        func()
}

// NewOrchestrator creates an orchestrator over the given stepper.
// yieldBetweenTests enables the cooperative checkpoint between tests.
func NewOrchestrator(stepper ports.Stepper, yieldBetweenTests bool) *Orchestrator {
	return &Orchestrator{
		evaluator:    NewEvaluator(stepper),
		sem:          semaphore.NewWeighted(1),
		log:          internal.DefaultLogger.WithPrefix("battery"),
		yieldEnabled: yieldBetweenTests,
		yield:        runtime.Gosched,
	}
}

// SetYield replaces the between-test checkpoint function. Tests use this to
// observe the checkpoint; production code keeps the default.
func (o *Orchestrator) SetYield(fn func()) {
	if fn != nil {
		o.yield = fn
	}
}

// RunSuite evaluates the full anchor registry in registry order.
func (o *Orchestrator) RunSuite(ctx context.Context, progress ports.ProgressFunc) (anchor.SuiteResult, error) {
	return o.run(ctx, anchor.Registry(), progress)
}

// RunSubset evaluates only the named tests, in the order given. Unknown
// identifiers reject the whole call before anything runs.
func (o *Orchestrator) RunSubset(ctx context.Context, ids []core.TestID, progress ports.ProgressFunc) (anchor.SuiteResult, error) {
	tests := make([]anchor.Test, 0, len(ids))
	for _, id := range ids {
		test, err := anchor.FindByID(id)
		if err != nil {
			return anchor.SuiteResult{}, err
		}
		tests = append(tests, test)
	}
	return o.run(ctx, tests, progress)
}

// RunTest evaluates a single anchor test by identifier.
func (o *Orchestrator) RunTest(ctx context.Context, id core.TestID) (anchor.Result, error) {
	test, err := anchor.FindByID(id)
	if err != nil {
		return anchor.Result{}, err
	}
	suite, err := o.run(ctx, []anchor.Test{test}, nil)
	if err != nil {
		return anchor.Result{}, err
	}
	return suite.Results[0], nil
}

// run is the single evaluation path shared by every entry point, so batch
// and incremental callers cannot drift apart.
func (o *Orchestrator) run(ctx context.Context, tests []anchor.Test, progress ports.ProgressFunc) (anchor.SuiteResult, error) {
	if err := o.sem.Acquire(ctx, 1); err != nil {
		return anchor.SuiteResult{}, err
	}
	defer o.sem.Release(1)

	results := make([]anchor.Result, 0, len(tests))
	for i, test := range tests {
		o.report(progress, ports.ProgressUpdate{
			CurrentTest:     i + 1,
			TotalTests:      len(tests),
			CurrentTestName: test.Name,
			Status:          ports.ProgressRunning,
			ResultsSoFar:    snapshot(results),
		})

		if o.yieldEnabled && i > 0 {
			o.yield()
		}

		result := o.evaluator.Evaluate(test)
		if !result.Passed {
			o.log.Info("%s failed: %s", test.ID, result.Reason)
		} else {
			o.log.Debug("%s passed: %s", test.ID, result.Reason)
		}
		results = append(results, result)
	}

	suite := anchor.Aggregate(results)
	o.report(progress, ports.ProgressUpdate{
		CurrentTest:  len(tests),
		TotalTests:   len(tests),
		Status:       ports.ProgressCompleted,
		ResultsSoFar: snapshot(results),
	})
	return suite, nil
}

func (o *Orchestrator) report(progress ports.ProgressFunc, update ports.ProgressUpdate) {
	if progress != nil {
		progress(update)
	}
}

// snapshot copies the accumulated results so a progress consumer can never
// observe later appends.
func snapshot(results []anchor.Result) []anchor.Result {
	out := make([]anchor.Result, len(results))
	copy(out, results)
	return out
}
