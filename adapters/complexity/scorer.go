package complexity

import (
	"math"

	"policysim/models"
	"policysim/ports"
)

// Scorer ranks models by how far they stray from the reference coefficients.
// The baseline model scores zero; every rule deviation adds relative
// distance. Lower is simpler, and simpler wins leaderboard ties.
type Scorer struct {
	reference models.RuleSet
}

// New creates a scorer anchored on the reference rule set.
func New() *Scorer {
	return &Scorer{reference: models.DefaultRuleSet()}
}

var _ ports.ComplexityScorer = (*Scorer)(nil)

// Score sums the relative deviation of each rule coefficient from its
// reference value. Always non-negative.
func (s *Scorer) Score(cfg models.ModelConfig) float64 {
	r := cfg.Rules
	ref := s.reference
	total := 0.0
	total += deviation(r.DisplacementSeverity, ref.DisplacementSeverity)
	total += deviation(r.SupportEfficiency, ref.SupportEfficiency)
	total += deviation(r.BenchmarkRate, ref.BenchmarkRate)
	total += deviation(r.GenerousRate, ref.GenerousRate)
	total += deviation(r.ErosionRate, ref.ErosionRate)
	total += deviation(r.ReferenceRate, ref.ReferenceRate)
	total += deviation(r.CrisisThreshold, ref.CrisisThreshold)
	return total
}

func deviation(v, ref float64) float64 {
	if math.IsNaN(v) {
		return 1
	}
	if ref == 0 {
		return math.Abs(v)
	}
	return math.Abs(v-ref) / math.Abs(ref)
}
