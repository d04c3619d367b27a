package anchor

import (
	"fmt"

	"policysim/domain/core"
	"policysim/domain/econ"
)

// The registry is append-only across versions: identifiers are never reused,
// and tests assert direction and magnitude of causal necessity rather than
// numeric targets tied to a policy position.
var registry = []Test{
	{
		ID:          "AT-1",
		Name:        "Displacement without safety net lowers wellbeing",
		Category:    CategoryCausal,
		Description: "Mass displacement with zero contributions and selfish corporate policy must reduce average wellbeing materially.",
		Months:      36,
		Setup: Setup{
			DisplacementRate: fptr(0.85),
			ContributionRate: fptr(0.0),
			Stance:           sptr(econ.StanceSelfish),
		},
		Assertion: Assertion{Kind: KindWellbeingDelta, Operator: OpLess, Value: -5},
	},
	{
		ID:          "AT-2",
		Name:        "Strong redistribution sustains wellbeing under displacement",
		Category:    CategoryCausal,
		Description: "High displacement offset by a 40% globally-pooled contribution must hold wellbeing to at least 80% of its starting level.",
		Months:      60,
		Setup: Setup{
			DisplacementRate: fptr(0.80),
			ContributionRate: fptr(0.40),
			Stance:           sptr(econ.StanceGenerous),
			Strategy:         dptr(econ.DistributeGlobal),
		},
		Assertion: Assertion{Kind: KindThreshold, Metric: MetricWellbeingRatio, Operator: OpGreaterEq, Value: 0.8},
	},
	{
		ID:          "AT-3",
		Name:        "Universal selfishness triggers race-to-bottom risk",
		Category:    CategoryEquilibrium,
		Description: "When every corporation is selfish at a 5% contribution, competitive erosion must push race-to-bottom risk past 0.6 at some point.",
		Months:      48,
		Setup: Setup{
			Stance:           sptr(econ.StanceSelfish),
			ContributionRate: fptr(0.05),
		},
		Assertion: Assertion{Kind: KindGameTheory, Operator: OpGreater, Value: 0.6},
	},
	{
		ID:          "AT-4",
		Name:        "Market pressure raises moderate contributions",
		Category:    CategoryCausal,
		Description: "Moderate corporations under strong market pressure must end with an average contribution rate above their starting rate.",
		Months:      48,
		Setup: Setup{
			ContributionRate: fptr(0.10),
			Stance:           sptr(econ.StanceModerate),
			MarketPressure:   fptr(0.8),
		},
		Assertion: Assertion{Kind: KindThreshold, Metric: MetricAvgContributionRate, Operator: OpGreater},
	},
	{
		ID:          "AT-5",
		Name:        "Global pooling outperforms HQ-local distribution for poor countries",
		Category:    CategoryEquilibrium,
		Description: "Holding contributions fixed at 20% moderate, low-income countries must end better off under global pooling than under headquarters-local routing.",
		Months:      60,
		Setup: Setup{
			ContributionRate: fptr(0.20),
			Stance:           sptr(econ.StanceModerate),
		},
		Assertion: Assertion{Kind: KindComparison, Operator: OpGreater},
	},
	{
		ID:          "AT-6",
		Name:        "Fund conservation",
		Category:    CategoryConsistency,
		Description: "In any valid configuration, the terminal month's fund inflow and outflow must agree to within 1% of inflow.",
		Months:      12,
		Setup:       Setup{},
		Assertion:   Assertion{Kind: KindConservation, Tolerance: 0.01},
	},
}

// Registry returns a fresh copy of the fixed, ordered anchor test list.
func Registry() []Test {
	out := make([]Test, len(registry))
	copy(out, registry)
	return out
}

// FindByID looks up a registry entry.
func FindByID(id core.TestID) (Test, error) {
	for _, t := range registry {
		if t.ID == id {
			return t, nil
		}
	}
	return Test{}, fmt.Errorf("unknown anchor test %q", id)
}

func fptr(v float64) *float64                                { return &v }
func sptr(v econ.PolicyStance) *econ.PolicyStance            { return &v }
func dptr(v econ.DistributionStrategy) *econ.DistributionStrategy { return &v }
