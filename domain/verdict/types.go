package verdict

import (
	"policysim/domain/anchor"
	"policysim/domain/core"
)

// Tier1Failure is one structural validation finding. An empty slice from the
// tier-1 validator means the model passed the gate.
type Tier1Failure struct {
	TestID string `json:"test_id"`
	Reason string `json:"reason"`
}

// Verdict is the final eligibility judgment for one model validation run.
// Eligibility is tier-1 clean AND anchor pass count >= anchor.MinPassCount;
// it is never computed any other way.
type Verdict struct {
	ModelID       core.ModelID        `json:"model_id"`
	ModelName     string              `json:"model_name"`
	RunID         core.RunID          `json:"run_id"`
	Eligible      bool                `json:"eligible"`
	Tier1Failures []Tier1Failure      `json:"tier1_failures,omitempty"`
	Suite         *anchor.SuiteResult `json:"suite,omitempty"`
	// Complexity is computed for every verdict regardless of eligibility;
	// the leaderboard ranks eligible models by it, lower is simpler.
	Complexity float64        `json:"complexity"`
	Summary    string         `json:"summary"`
	CreatedAt  core.Timestamp `json:"created_at"`
}

// LeaderboardEntry is the read model for leaderboard display.
type LeaderboardEntry struct {
	ModelID    core.ModelID   `json:"model_id"`
	ModelName  string         `json:"model_name"`
	Complexity float64        `json:"complexity"`
	Passed     int            `json:"passed"`
	Total      int            `json:"total"`
	CreatedAt  core.Timestamp `json:"created_at"`
}
