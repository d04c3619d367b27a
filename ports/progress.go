package ports

import (
	"policysim/domain/anchor"
)

// ProgressStatus labels one progress callback invocation
type ProgressStatus string

const (
	ProgressRunning   ProgressStatus = "running"
	ProgressCompleted ProgressStatus = "completed"
	ProgressError     ProgressStatus = "error"
)

// ProgressUpdate is delivered to the caller before each anchor test starts
// and once more when the suite completes.
type ProgressUpdate struct {
	CurrentTest     int             `json:"current_test"`
	TotalTests      int             `json:"total_tests"`
	CurrentTestName string          `json:"current_test_name"`
	Status          ProgressStatus  `json:"status"`
	ResultsSoFar    []anchor.Result `json:"results_so_far"`
}

// ProgressFunc receives incremental suite progress. A nil ProgressFunc is
// valid and reports nothing.
type ProgressFunc func(ProgressUpdate)
