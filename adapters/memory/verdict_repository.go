package memory

import (
	"context"
	"sort"
	"sync"

	"policysim/domain/core"
	"policysim/domain/verdict"
	"policysim/internal/errors"
	"policysim/ports"
)

// VerdictRepository keeps verdicts in process memory. It backs deployments
// with no database configured and doubles as the test repository.
type VerdictRepository struct {
	mu       sync.RWMutex
	verdicts map[core.RunID]verdict.Verdict
}

// New creates an empty in-memory repository.
func New() *VerdictRepository {
	return &VerdictRepository{verdicts: make(map[core.RunID]verdict.Verdict)}
}

var _ ports.VerdictRepository = (*VerdictRepository)(nil)

// SaveVerdict stores one verdict keyed by run identifier.
func (r *VerdictRepository) SaveVerdict(_ context.Context, v verdict.Verdict) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verdicts[v.RunID] = v
	return nil
}

// GetVerdict loads one verdict by run identifier.
func (r *VerdictRepository) GetVerdict(_ context.Context, runID core.RunID) (*verdict.Verdict, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.verdicts[runID]
	if !ok {
		return nil, errors.NotFound("verdict")
	}
	return &v, nil
}

// ListLeaderboard returns eligible models ranked by complexity ascending,
// ties broken by recency.
func (r *VerdictRepository) ListLeaderboard(_ context.Context, limit int) ([]verdict.LeaderboardEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]verdict.LeaderboardEntry, 0, len(r.verdicts))
	for _, v := range r.verdicts {
		if !v.Eligible {
			continue
		}
		entry := verdict.LeaderboardEntry{
			ModelID:    v.ModelID,
			ModelName:  v.ModelName,
			Complexity: v.Complexity,
			CreatedAt:  v.CreatedAt,
		}
		if v.Suite != nil {
			entry.Passed = v.Suite.Passed
			entry.Total = v.Suite.Total
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Complexity != entries[j].Complexity {
			return entries[i].Complexity < entries[j].Complexity
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
