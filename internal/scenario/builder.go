package scenario

import (
	"policysim/domain/anchor"
	"policysim/domain/core"
	"policysim/domain/econ"
)

// Scenario starting baselines. Every anchor test begins from the same
// footing so the only moving part is the causal variable under test.
const (
	InitialAIAdoption = 0.10
	InitialWellbeing  = 70.0

	DefaultDisplacementRate = 0.75
	DefaultMarketPressure   = 0.5
)

// Fixed parameters shared by every anchor scenario. Holding these constant
// isolates the variable under test from confounding parameter drift.
const (
	fixedTaxRate              = 0.20
	fixedAdoptionIncentive    = 0.20
	fixedUBIBase              = 300.0
	fixedAIGrowthRate         = 0.08
	fixedVolatility           = 0.05
	fixedGDPScaling           = 0.4
	fixedGlobalRedistribution = 0.3
)

// Build constructs the initial state, corporation list, and parameters for
// one anchor scenario from a sparse setup. Baselines are structurally
// copied, never aliased: two scenarios can never contaminate each other
// through shared country or corporation records.
func Build(setup anchor.Setup) (econ.SimulationState, []econ.Corporation, econ.ModelParameters) {
	countries := make(map[core.CountryCode]econ.CountryState, 16)
	for _, info := range econ.Countries() {
		countries[info.Code] = econ.CountryState{
			AIAdoption: InitialAIAdoption,
			Wellbeing:  InitialWellbeing,
		}
	}
	shadow := make(map[core.CountryCode]econ.CountryState, len(countries))
	for code, cs := range countries {
		shadow[code] = cs
	}

	corps := buildCorporations(setup)

	state := econ.SimulationState{
		Month:             0,
		GlobalFund:        0,
		AvgWellbeing:      InitialWellbeing,
		TotalCorporations: len(corps),
		Countries:         countries,
		Shadow:            shadow,
	}

	return state, corps, buildParameters(setup)
}

// buildCorporations copies the baselines and applies the setup's uniform
// per-field overrides: an override replaces that field on every
// corporation, all other fields keep their baseline values.
func buildCorporations(setup anchor.Setup) []econ.Corporation {
	corps := econ.BaselineCorporations()
	for i := range corps {
		if setup.ContributionRate != nil {
			corps[i].ContributionRate = *setup.ContributionRate
		}
		if setup.Stance != nil {
			corps[i].Stance = *setup.Stance
		}
		if setup.Strategy != nil {
			corps[i].Strategy = *setup.Strategy
		}
	}
	return corps
}

func buildParameters(setup anchor.Setup) econ.ModelParameters {
	displacement := DefaultDisplacementRate
	if setup.DisplacementRate != nil {
		displacement = *setup.DisplacementRate
	}
	pressure := DefaultMarketPressure
	if setup.MarketPressure != nil {
		pressure = *setup.MarketPressure
	}

	return econ.ModelParameters{
		Name:                 "anchor-scenario",
		Version:              "1",
		TaxRate:              fixedTaxRate,
		AdoptionIncentive:    fixedAdoptionIncentive,
		UBIBase:              fixedUBIBase,
		AIGrowthRate:         fixedAIGrowthRate,
		Volatility:           fixedVolatility,
		GDPScaling:           fixedGDPScaling,
		GlobalRedistribution: fixedGlobalRedistribution,
		DisplacementRate:     displacement,
		MarketPressure:       pressure,
		DirectToWallet:       true,
		DefaultPolicy:        econ.StanceMixed,
	}
}
