package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policysim/domain/anchor"
	"policysim/domain/core"
	"policysim/domain/verdict"
	"policysim/internal/errors"
)

func sampleVerdict(runID core.RunID, complexity float64, eligible bool, at time.Time) verdict.Verdict {
	suite := anchor.Aggregate([]anchor.Result{
		{TestID: "AT-1", Passed: true},
		{TestID: "AT-2", Passed: true},
		{TestID: "AT-3", Passed: true},
		{TestID: "AT-4", Passed: true},
		{TestID: "AT-5", Passed: eligible},
		{TestID: "AT-6", Passed: eligible},
	})
	return verdict.Verdict{
		ModelID:    core.ModelID("model-" + runID.String()),
		ModelName:  "sample",
		RunID:      runID,
		Eligible:   eligible,
		Suite:      &suite,
		Complexity: complexity,
		CreatedAt:  core.NewTimestamp(at),
	}
}

func TestSaveAndGet(t *testing.T) {
	repo := New()
	ctx := context.Background()
	v := sampleVerdict("run-1", 0.5, true, time.Now())

	require.NoError(t, repo.SaveVerdict(ctx, v))

	got, err := repo.GetVerdict(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, v.ModelID, got.ModelID)
	assert.Equal(t, v.Complexity, got.Complexity)
	require.NotNil(t, got.Suite)
	assert.Equal(t, 6, got.Suite.Total)
}

func TestGetMissingVerdict(t *testing.T) {
	repo := New()
	_, err := repo.GetVerdict(context.Background(), "absent")
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestLeaderboardRanksByComplexityThenRecency(t *testing.T) {
	repo := New()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.SaveVerdict(ctx, sampleVerdict("run-a", 2.0, true, now)))
	require.NoError(t, repo.SaveVerdict(ctx, sampleVerdict("run-b", 0.5, true, now)))
	require.NoError(t, repo.SaveVerdict(ctx, sampleVerdict("run-c", 0.5, true, now.Add(time.Hour))))
	require.NoError(t, repo.SaveVerdict(ctx, sampleVerdict("run-d", 0.1, false, now)))

	entries, err := repo.ListLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3, "ineligible verdicts stay off the leaderboard")

	assert.Equal(t, core.ModelID("model-run-c"), entries[0].ModelID, "newer entry wins the complexity tie")
	assert.Equal(t, core.ModelID("model-run-b"), entries[1].ModelID)
	assert.Equal(t, core.ModelID("model-run-a"), entries[2].ModelID)
}

func TestLeaderboardLimit(t *testing.T) {
	repo := New()
	ctx := context.Background()
	now := time.Now()
	for i, run := range []core.RunID{"r1", "r2", "r3"} {
		require.NoError(t, repo.SaveVerdict(ctx, sampleVerdict(run, float64(i), true, now)))
	}

	entries, err := repo.ListLeaderboard(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
