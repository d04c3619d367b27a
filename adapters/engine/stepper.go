package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"policysim/domain/core"
	"policysim/domain/econ"
	"policysim/models"
	"policysim/ports"
)

// Stepper is the reference simulation step function. It is pure and
// seedless: identical inputs always produce identical outputs. Volatility
// enters as a deterministic annual business cycle, not as noise, so anchor
// runs are replayable.
type Stepper struct {
	rules models.RuleSet
}

// Routing multipliers for distributed support. HQ-local routing keeps most
// of a corporation's contribution near its headquarters; the remainder
// trickles into the shared pool.
const (
	hqLocalBoost   = 1.6
	hqLocalTrickle = 0.2

	// fundReserveRate is the slice of monthly inflow retained as fund
	// balance instead of flowing out. Must stay under the 1% conservation
	// tolerance.
	fundReserveRate = 0.005

	// corruptionRate is the share of outflow lost to leakage. Leakage is
	// still outflow: it leaves the fund.
	corruptionRate = 0.05

	// deliveryDiscount applies when direct-to-wallet payouts are disabled
	// and support passes through intermediaries.
	deliveryDiscount = 0.85

	// taxCushionScale converts domestic tax capacity into a monthly
	// wellbeing cushion for countries hosting corporate headquarters.
	taxCushionScale = 0.05

	// ubiFloorDivisor converts the base UBI amount into a flat monthly
	// wellbeing floor whenever the fund has inflow.
	ubiFloorDivisor = 6000.0
)

// New creates a stepper with the given rule coefficients.
func New(rules models.RuleSet) *Stepper {
	return &Stepper{rules: rules}
}

// Default returns a stepper with the reference rule set.
func Default() *Stepper {
	return New(models.DefaultRuleSet())
}

var _ ports.Stepper = (*Stepper)(nil)

// Step advances the world by one month. The input state and corporations
// are never mutated; the output owns fresh copies.
func (s *Stepper) Step(state econ.SimulationState, corps []econ.Corporation, params econ.ModelParameters) (econ.StepOutput, error) {
	if err := validateParams(params); err != nil {
		return econ.StepOutput{}, err
	}

	next := state.Clone()
	next.Month = state.Month + 1

	// Deterministic annual business cycle scaling corporate revenue.
	cycle := 1 + params.Volatility*math.Sin(2*math.Pi*float64(next.Month)/12)

	corpsNext := s.adjustPolicies(corps, params)
	avgRate := averageRate(corpsNext)

	// Fund accounting. The fund is near flow-through: a small reserve
	// accrues as balance, everything else leaves the same month, leakage
	// included.
	inflow := 0.0
	hqContribution := 0.0
	hqCountries := make(map[core.CountryCode]bool, len(corpsNext))
	for _, corp := range corpsNext {
		contribution := corp.MonthlyRevenue * cycle * corp.ContributionRate * params.GDPScaling
		inflow += contribution
		hqCountries[corp.HQ] = true
		if corp.Strategy == econ.DistributeHQLocal {
			hqContribution += contribution
		}
	}
	outflow := inflow * (1 - fundReserveRate)
	next.GlobalFund = state.GlobalFund + (inflow - outflow)
	next.CorruptionLeakage = outflow * corruptionRate

	hqShare := 0.0
	if inflow > 0 {
		hqShare = hqContribution / inflow
	}

	delivery := 1.0
	if !params.DirectToWallet {
		delivery = deliveryDiscount
	}
	ubiFloor := 0.0
	if inflow > 0 {
		ubiFloor = params.UBIBase / ubiFloorDivisor
	}

	// Per-country update: adoption growth, displacement hit, domestic tax
	// cushion, and redistributed support. The shadow copy advances with no
	// redistribution at all.
	for _, info := range econ.Countries() {
		cs := next.Countries[info.Code]
		sh := next.Shadow[info.Code]

		adoption := cs.AIAdoption + params.AIGrowthRate*(1-cs.AIAdoption)
		adoption = clamp(adoption, 0, 1)

		hit := adoption * params.DisplacementRate * s.rules.DisplacementSeverity

		cushion := 0.0
		if hqCountries[info.Code] {
			cushion = params.TaxRate * adoption * taxCushionScale
		}

		routing := s.routingFactor(info, hqShare, hqCountries[info.Code], params)
		gain := 0.0
		if avgRate > 0 {
			gain = delivery * (s.rules.SupportEfficiency*avgRate*adoption*routing + ubiFloor)
		}

		cs.AIAdoption = adoption
		cs.Wellbeing = clamp(cs.Wellbeing-hit+cushion+gain, 0, 100)
		cs.CompaniesJoined = companiesJoined(corpsNext, info.Code)
		next.Countries[info.Code] = cs

		sh.AIAdoption = adoption
		sh.Wellbeing = clamp(sh.Wellbeing-hit+cushion, 0, 100)
		next.Shadow[info.Code] = sh
	}

	next.AvgWellbeing = weightedWellbeing(next.Countries)
	next.DisplacementGap = next.AvgWellbeing - weightedWellbeing(next.Shadow)
	next.TotalCorporations = len(corpsNext)
	next.CountriesInCrisis = 0
	for _, cs := range next.Countries {
		if cs.Wellbeing < s.rules.CrisisThreshold {
			next.CountriesInCrisis++
		}
	}

	return econ.StepOutput{
		State:        next,
		Corporations: corpsNext,
		GameTheory: econ.GameTheoryMetrics{
			RaceToBottomRisk:    s.raceToBottomRisk(corpsNext, avgRate),
			AvgContributionRate: avgRate,
		},
		Ledger: econ.LedgerFlow{
			MonthlyInflow:  inflow,
			MonthlyOutflow: outflow,
		},
	}, nil
}

// adjustPolicies applies one month of stance-driven contribution dynamics.
// Selfish corporations erode their rate when market pressure is weak;
// moderate and mixed corporations drift toward the industry benchmark in
// proportion to pressure; generous corporations settle at their resting
// rate.
func (s *Stepper) adjustPolicies(corps []econ.Corporation, params econ.ModelParameters) []econ.Corporation {
	out := econ.CloneCorporations(corps)
	for i := range out {
		rate := out[i].ContributionRate
		switch out[i].Stance {
		case econ.StanceSelfish:
			rate *= 1 - s.rules.ErosionRate*(1-params.MarketPressure)
		case econ.StanceModerate:
			rate += params.AdoptionIncentive * params.MarketPressure * (s.rules.BenchmarkRate - rate)
		case econ.StanceGenerous:
			rate += 0.05 * (s.rules.GenerousRate - rate)
		default:
			rate += 0.5 * params.AdoptionIncentive * params.MarketPressure * (s.rules.BenchmarkRate - rate)
		}
		out[i].ContributionRate = clamp(rate, 0, 1)
	}
	return out
}

// routingFactor determines how strongly redistributed support reaches one
// country, blending the globally-pooled and HQ-local slices of this month's
// contributions.
func (s *Stepper) routingFactor(info econ.CountryInfo, hqShare float64, hostsHQ bool, params econ.ModelParameters) float64 {
	globalFactor := 1 - params.GlobalRedistribution/3
	if info.LowIncome {
		globalFactor = 1 + params.GlobalRedistribution
	}
	hqFactor := hqLocalTrickle
	if hostsHQ {
		hqFactor = hqLocalBoost
	}
	return (1-hqShare)*globalFactor + hqShare*hqFactor
}

// raceToBottomRisk measures competitive erosion: the population of selfish
// corporations weighted by how far the average contribution has fallen
// below the reference rate.
func (s *Stepper) raceToBottomRisk(corps []econ.Corporation, avgRate float64) float64 {
	if len(corps) == 0 || s.rules.ReferenceRate <= 0 {
		return 0
	}
	selfish := 0
	for _, corp := range corps {
		if corp.Stance == econ.StanceSelfish {
			selfish++
		}
	}
	share := float64(selfish) / float64(len(corps))
	return clamp(share*(1-avgRate/s.rules.ReferenceRate), 0, 1)
}

func averageRate(corps []econ.Corporation) float64 {
	if len(corps) == 0 {
		return 0
	}
	sum := 0.0
	for _, corp := range corps {
		sum += corp.ContributionRate
	}
	return sum / float64(len(corps))
}

func companiesJoined(corps []econ.Corporation, code core.CountryCode) int {
	joined := 0
	for _, corp := range corps {
		if corp.HQ == code && corp.ContributionRate >= 0.05 {
			joined++
		}
	}
	return joined
}

// weightedWellbeing computes the population-weighted average wellbeing over
// the closed country set.
func weightedWellbeing(countries map[core.CountryCode]econ.CountryState) float64 {
	infos := econ.Countries()
	values := make([]float64, 0, len(infos))
	weights := make([]float64, 0, len(infos))
	for _, info := range infos {
		cs, ok := countries[info.Code]
		if !ok {
			continue
		}
		values = append(values, cs.Wellbeing)
		weights = append(weights, info.Population)
	}
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, weights)
}

func validateParams(params econ.ModelParameters) error {
	fractions := map[string]float64{
		"tax_rate":              params.TaxRate,
		"adoption_incentive":    params.AdoptionIncentive,
		"ai_growth_rate":        params.AIGrowthRate,
		"volatility":            params.Volatility,
		"gdp_scaling":           params.GDPScaling,
		"global_redistribution": params.GlobalRedistribution,
		"displacement_rate":     params.DisplacementRate,
		"market_pressure":       params.MarketPressure,
	}
	for name, v := range fractions {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("malformed model parameters: %s=%v out of [0,1]", name, v)
		}
	}
	if math.IsNaN(params.UBIBase) || params.UBIBase < 0 {
		return fmt.Errorf("malformed model parameters: ubi_base=%v negative", params.UBIBase)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
