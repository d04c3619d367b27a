package econ

import (
	"policysim/domain/core"
)

// CountryInfo is the static, read-only record for one country. The country
// set is closed: every simulation run sees exactly these codes.
type CountryInfo struct {
	Code       core.CountryCode
	Name       string
	Population float64 // millions
	LowIncome  bool
}

// baselineCountries is the closed country set. Populations are rounded to
// recent UN estimates in millions.
var baselineCountries = []CountryInfo{
	{Code: "USA", Name: "United States", Population: 331},
	{Code: "DEU", Name: "Germany", Population: 83},
	{Code: "JPN", Name: "Japan", Population: 126},
	{Code: "GBR", Name: "United Kingdom", Population: 67},
	{Code: "KOR", Name: "South Korea", Population: 52},
	{Code: "FRA", Name: "France", Population: 65},
	{Code: "CAN", Name: "Canada", Population: 38},
	{Code: "AUS", Name: "Australia", Population: 26},
	{Code: "BGD", Name: "Bangladesh", Population: 165, LowIncome: true},
	{Code: "ETH", Name: "Ethiopia", Population: 115, LowIncome: true},
	{Code: "COD", Name: "DR Congo", Population: 90, LowIncome: true},
	{Code: "TZA", Name: "Tanzania", Population: 60, LowIncome: true},
	{Code: "UGA", Name: "Uganda", Population: 46, LowIncome: true},
	{Code: "MOZ", Name: "Mozambique", Population: 31, LowIncome: true},
	{Code: "MDG", Name: "Madagascar", Population: 28, LowIncome: true},
	{Code: "NER", Name: "Niger", Population: 24, LowIncome: true},
}

// baselineCorporations seeds every scenario. Revenue is in billions of
// dollars per month. Stances are deliberately mixed so the default
// configuration is neither a race to the bottom nor a charity.
var baselineCorporations = []Corporation{
	{Name: "Atlas Automation", HQ: "USA", MonthlyRevenue: 140, ContributionRate: 0.12, Stance: StanceMixed, Strategy: DistributeGlobal},
	{Name: "Hanwa Robotics", HQ: "JPN", MonthlyRevenue: 110, ContributionRate: 0.10, Stance: StanceModerate, Strategy: DistributeGlobal},
	{Name: "Rheinwerk KI", HQ: "DEU", MonthlyRevenue: 95, ContributionRate: 0.15, Stance: StanceGenerous, Strategy: DistributeGlobal},
	{Name: "Meridian Cognition", HQ: "GBR", MonthlyRevenue: 85, ContributionRate: 0.08, Stance: StanceSelfish, Strategy: DistributeHQLocal},
	{Name: "Taeyang Systems", HQ: "KOR", MonthlyRevenue: 90, ContributionRate: 0.11, Stance: StanceMixed, Strategy: DistributeGlobal},
	{Name: "Borealis Labs", HQ: "CAN", MonthlyRevenue: 80, ContributionRate: 0.20, Stance: StanceModerate, Strategy: DistributeGlobal},
}

// Countries returns a fresh copy of the baseline country table. Callers may
// not mutate the shared table through the result.
func Countries() []CountryInfo {
	out := make([]CountryInfo, len(baselineCountries))
	copy(out, baselineCountries)
	return out
}

// CountryByCode looks up a country in the baseline table.
func CountryByCode(code core.CountryCode) (CountryInfo, bool) {
	for _, c := range baselineCountries {
		if c.Code == code {
			return c, true
		}
	}
	return CountryInfo{}, false
}

// LowIncomeCountries returns the designated low-income country set used by
// distribution-comparison checks.
func LowIncomeCountries() []core.CountryCode {
	out := make([]core.CountryCode, 0, 8)
	for _, c := range baselineCountries {
		if c.LowIncome {
			out = append(out, c.Code)
		}
	}
	return out
}

// TotalPopulation returns the summed population of the closed country set,
// in millions.
func TotalPopulation() float64 {
	total := 0.0
	for _, c := range baselineCountries {
		total += c.Population
	}
	return total
}

// BaselineCorporations returns a fresh copy of the baseline corporations.
// Scenario construction must copy, never alias, so successive runs cannot
// contaminate each other through the shared table.
func BaselineCorporations() []Corporation {
	return CloneCorporations(baselineCorporations)
}
