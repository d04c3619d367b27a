package ports

import (
	"context"

	"policysim/domain/core"
	"policysim/domain/verdict"
)

// VerdictRepository persists validation verdicts for later display.
type VerdictRepository interface {
	SaveVerdict(ctx context.Context, v verdict.Verdict) error
	GetVerdict(ctx context.Context, runID core.RunID) (*verdict.Verdict, error)
	// ListLeaderboard returns eligible models ordered by complexity
	// ascending, then recency.
	ListLeaderboard(ctx context.Context, limit int) ([]verdict.LeaderboardEntry, error)
}
