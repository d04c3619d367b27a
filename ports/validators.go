package ports

import (
	"policysim/domain/verdict"
	"policysim/models"
)

// Tier1Validator performs static, structural checks on a user-authored model
// before any simulation runs. An empty result means the model passed.
type Tier1Validator interface {
	Validate(cfg models.ModelConfig) []verdict.Tier1Failure
}

// ComplexityScorer scores a model for leaderboard ranking. Non-negative,
// lower is simpler. Computed for every verdict regardless of eligibility.
type ComplexityScorer interface {
	Score(cfg models.ModelConfig) float64
}
