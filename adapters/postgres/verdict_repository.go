package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"policysim/domain/anchor"
	"policysim/domain/core"
	"policysim/domain/verdict"
	"policysim/internal/errors"
	"policysim/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS verdicts (
	run_id         TEXT PRIMARY KEY,
	model_id       TEXT NOT NULL,
	model_name     TEXT NOT NULL,
	eligible       BOOLEAN NOT NULL,
	complexity     DOUBLE PRECISION NOT NULL,
	passed         INTEGER NOT NULL,
	total          INTEGER NOT NULL,
	summary        TEXT NOT NULL,
	tier1_failures JSONB,
	suite          JSONB,
	created_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_verdicts_leaderboard
	ON verdicts (eligible, complexity, created_at DESC);
`

// VerdictRepository persists verdicts in PostgreSQL. Suite results and
// tier-1 findings are stored as JSON documents; the leaderboard columns are
// denormalized for the ranking query.
type VerdictRepository struct {
	db *sqlx.DB
}

// Connect opens the database, verifies the connection, and ensures the
// schema exists.
func Connect(url string) (*VerdictRepository, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "database connection failed")
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "schema migration failed")
	}
	return &VerdictRepository{db: db}, nil
}

// Close releases the connection pool.
func (r *VerdictRepository) Close() error {
	return r.db.Close()
}

var _ ports.VerdictRepository = (*VerdictRepository)(nil)

type verdictRow struct {
	RunID         string          `db:"run_id"`
	ModelID       string          `db:"model_id"`
	ModelName     string          `db:"model_name"`
	Eligible      bool            `db:"eligible"`
	Complexity    float64         `db:"complexity"`
	Passed        int             `db:"passed"`
	Total         int             `db:"total"`
	Summary       string          `db:"summary"`
	Tier1Failures json.RawMessage `db:"tier1_failures"`
	Suite         json.RawMessage `db:"suite"`
	CreatedAt     time.Time       `db:"created_at"`
}

// SaveVerdict stores one verdict. Run IDs are unique per run, so inserts
// never conflict.
func (r *VerdictRepository) SaveVerdict(ctx context.Context, v verdict.Verdict) error {
	row := verdictRow{
		RunID:      v.RunID.String(),
		ModelID:    v.ModelID.String(),
		ModelName:  v.ModelName,
		Eligible:   v.Eligible,
		Complexity: v.Complexity,
		Summary:    v.Summary,
		CreatedAt:  v.CreatedAt.Time(),
	}
	if v.Suite != nil {
		row.Passed = v.Suite.Passed
		row.Total = v.Suite.Total
		suite, err := json.Marshal(v.Suite)
		if err != nil {
			return errors.Wrap(err, "suite serialization failed")
		}
		row.Suite = suite
	}
	if len(v.Tier1Failures) > 0 {
		failures, err := json.Marshal(v.Tier1Failures)
		if err != nil {
			return errors.Wrap(err, "tier-1 failure serialization failed")
		}
		row.Tier1Failures = failures
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO verdicts (run_id, model_id, model_name, eligible, complexity,
			passed, total, summary, tier1_failures, suite, created_at)
		VALUES (:run_id, :model_id, :model_name, :eligible, :complexity,
			:passed, :total, :summary, :tier1_failures, :suite, :created_at)`, row)
	if err != nil {
		return errors.Wrap(err, "verdict insert failed")
	}
	return nil
}

// GetVerdict loads one verdict by run identifier.
func (r *VerdictRepository) GetVerdict(ctx context.Context, runID core.RunID) (*verdict.Verdict, error) {
	var row verdictRow
	err := r.db.GetContext(ctx, &row,
		`SELECT * FROM verdicts WHERE run_id = $1`, runID.String())
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("verdict")
	}
	if err != nil {
		return nil, errors.Wrap(err, "verdict query failed")
	}

	v := &verdict.Verdict{
		RunID:      core.RunID(row.RunID),
		ModelID:    core.ModelID(row.ModelID),
		ModelName:  row.ModelName,
		Eligible:   row.Eligible,
		Complexity: row.Complexity,
		Summary:    row.Summary,
		CreatedAt:  core.NewTimestamp(row.CreatedAt),
	}
	if len(row.Suite) > 0 {
		var suite anchor.SuiteResult
		if err := json.Unmarshal(row.Suite, &suite); err != nil {
			return nil, errors.Wrap(err, "suite deserialization failed")
		}
		v.Suite = &suite
	}
	if len(row.Tier1Failures) > 0 {
		if err := json.Unmarshal(row.Tier1Failures, &v.Tier1Failures); err != nil {
			return nil, errors.Wrap(err, "tier-1 failure deserialization failed")
		}
	}
	return v, nil
}

// ListLeaderboard returns eligible models ranked by complexity ascending,
// ties broken by recency.
func (r *VerdictRepository) ListLeaderboard(ctx context.Context, limit int) ([]verdict.LeaderboardEntry, error) {
	var rows []verdictRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT run_id, model_id, model_name, eligible, complexity,
			passed, total, summary, created_at
		FROM verdicts
		WHERE eligible
		ORDER BY complexity ASC, created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "leaderboard query failed")
	}

	entries := make([]verdict.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, verdict.LeaderboardEntry{
			ModelID:    core.ModelID(row.ModelID),
			ModelName:  row.ModelName,
			Complexity: row.Complexity,
			Passed:     row.Passed,
			Total:      row.Total,
			CreatedAt:  core.NewTimestamp(row.CreatedAt),
		})
	}
	return entries, nil
}
