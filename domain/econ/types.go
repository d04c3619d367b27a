package econ

import (
	"policysim/domain/core"
)

// PolicyStance describes how a corporation adjusts its contribution rate over time
type PolicyStance string

const (
	StanceSelfish  PolicyStance = "selfish"
	StanceModerate PolicyStance = "moderate"
	StanceGenerous PolicyStance = "generous"
	// StanceMixed is the default stance: a blend of market-following and
	// reputational behavior.
	StanceMixed PolicyStance = "mixed"
)

// DistributionStrategy describes how a corporation's fund contributions are routed
type DistributionStrategy string

const (
	// DistributeGlobal pools contributions and routes them by population and need.
	DistributeGlobal DistributionStrategy = "global"
	// DistributeHQLocal retains most of a corporation's contributions near its
	// headquarters country.
	DistributeHQLocal DistributionStrategy = "hq_local"
)

// CountryState is the per-country slice of a simulation snapshot
type CountryState struct {
	AIAdoption      float64 `json:"ai_adoption"`
	Wellbeing       float64 `json:"wellbeing"`
	CompaniesJoined int     `json:"companies_joined"`
}

// Corporation is one contributing firm. Corporations are value types: runs
// receive fresh copies of the baselines and replace the whole slice each step.
type Corporation struct {
	Name             string               `json:"name"`
	HQ               core.CountryCode     `json:"hq"`
	MonthlyRevenue   float64              `json:"monthly_revenue"`
	ContributionRate float64              `json:"contribution_rate"`
	Stance           PolicyStance         `json:"stance"`
	Strategy         DistributionStrategy `json:"strategy"`
}

// ModelParameters is the named, versioned bundle of simulation-tunable
// constants. Immutable for the duration of one run.
type ModelParameters struct {
	Name                 string       `json:"name"`
	Version              string       `json:"version"`
	TaxRate              float64      `json:"tax_rate"`
	AdoptionIncentive    float64      `json:"adoption_incentive"`
	UBIBase              float64      `json:"ubi_base"`
	AIGrowthRate         float64      `json:"ai_growth_rate"`
	Volatility           float64      `json:"volatility"`
	GDPScaling           float64      `json:"gdp_scaling"`
	GlobalRedistribution float64      `json:"global_redistribution"`
	DisplacementRate     float64      `json:"displacement_rate"`
	MarketPressure       float64      `json:"market_pressure"`
	DirectToWallet       bool         `json:"direct_to_wallet"`
	DefaultPolicy        PolicyStance `json:"default_policy"`
}

// SimulationState is one month's snapshot. States are replaced wholesale each
// step, never merged; the country key set is closed at initialization.
type SimulationState struct {
	Month             int                                 `json:"month"`
	GlobalFund        float64                             `json:"global_fund"`
	AvgWellbeing      float64                             `json:"avg_wellbeing"`
	TotalCorporations int                                 `json:"total_corporations"`
	Countries         map[core.CountryCode]CountryState   `json:"countries"`
	// Shadow tracks the counterfactual trajectory with no redistribution,
	// used for the displacement gap indicator.
	Shadow            map[core.CountryCode]CountryState   `json:"shadow"`
	DisplacementGap   float64                             `json:"displacement_gap"`
	CorruptionLeakage float64                             `json:"corruption_leakage"`
	CountriesInCrisis int                                 `json:"countries_in_crisis"`
}

// Clone returns a structurally independent copy of the state. Country maps
// are copied so a step can never alias its input snapshot.
func (s SimulationState) Clone() SimulationState {
	next := s
	next.Countries = make(map[core.CountryCode]CountryState, len(s.Countries))
	for code, cs := range s.Countries {
		next.Countries[code] = cs
	}
	next.Shadow = make(map[core.CountryCode]CountryState, len(s.Shadow))
	for code, cs := range s.Shadow {
		next.Shadow[code] = cs
	}
	return next
}

// CloneCorporations returns an independent copy of a corporation slice.
func CloneCorporations(corps []Corporation) []Corporation {
	out := make([]Corporation, len(corps))
	copy(out, corps)
	return out
}

// GameTheoryMetrics is the per-month game-theory bundle from the stepper
type GameTheoryMetrics struct {
	RaceToBottomRisk    float64 `json:"race_to_bottom_risk"`
	AvgContributionRate float64 `json:"avg_contribution_rate"`
}

// LedgerFlow is the per-month fund accounting bundle from the stepper
type LedgerFlow struct {
	MonthlyInflow  float64 `json:"monthly_inflow"`
	MonthlyOutflow float64 `json:"monthly_outflow"`
}

// StepOutput is everything one stepper invocation produces. Each output
// exclusively owns its state snapshot; history retains prior outputs
// unmodified.
type StepOutput struct {
	State        SimulationState   `json:"state"`
	Corporations []Corporation     `json:"corporations"`
	GameTheory   GameTheoryMetrics `json:"game_theory"`
	Ledger       LedgerFlow        `json:"ledger"`
}
