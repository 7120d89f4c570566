// Package penalty computes late-delivery penalty exposure for PV and SEED contracts.
package penalty

import (
	"math"

	"github.com/helexia/contractrisk/schema"
)

// daysPerYear converts annual figures into daily figures.
const daysPerYear = 365.0

// Compute runs the penalty model selected by inputs.CalculationMode.
// It never fails: zero divisors produce zero and negative impacts are kept as-is.
func Compute(inputs schema.CalculatorInputs) schema.FullCalculationResults {
	if inputs.EffectiveMode() == schema.SeedMode {
		return computeSeed(inputs)
	}
	return computePV(inputs)
}

// computeSeed applies the percentage-of-contract model.
func computeSeed(in schema.CalculatorInputs) schema.FullCalculationResults {
	journaliere := in.MontantMarche * in.TauxPenaliteJournalier / 100
	plafond := in.MontantMarche * in.PlafondPenalitesPourcentage / 100
	totale := journaliere * float64(in.NombreJoursRetard)

	return schema.FullCalculationResults{
		TotalImpactJournalier:      0,
		PlafondValeur:              0,
		PlafondJours:               0,
		CentraleAnnuel:             0,
		CentraleJournalier:         0,
		OAndMAnnuel:                0,
		OAndMJournalier:            0,
		AutoconsommationAnnuel:     0,
		AutoconsommationJournalier: 0,
		TCO:                        0,
		CoutSoutirageReseau:        0,
		CoutSoutirageCentrale:      0,
		ImpactFinancierJournalier:  0,
		FraisAdministratifs:        0,

		PenaliteJournaliereSeed: journaliere,
		PlafondMontantSeed:      plafond,
		PenaliteTotaleSeed:      totale,
		PenaliteFinaleSeed:      math.Min(totale, plafond),
	}
}

// computePV applies the flat-rate model based on the plant's cost of ownership.
func computePV(in schema.CalculatorInputs) schema.FullCalculationResults {
	centraleAnnuel := safeDiv(in.CentraleTotal, in.PlantLifetimeYears)
	centraleJournalier := centraleAnnuel / daysPerYear
	oAndMJournalier := in.OAndMAnnuel / daysPerYear

	autoconsoAnnuel := in.ProductionAnnuelMWh * (in.SelfConsumptionRate / 100)
	autoconsoJournalier := autoconsoAnnuel / daysPerYear

	tco := safeDiv(centraleAnnuel+in.OAndMAnnuel, in.ProductionAnnuelMWh)

	reseau := autoconsoJournalier * in.GridPriceMWh
	centrale := autoconsoJournalier * tco
	impact := reseau - centrale
	frais := impact * (in.AdministrativeFeesPercentage / 100)
	total := impact + frais

	plafondValeur := in.CentraleTotal * (in.CapPercentage / 100)

	return schema.FullCalculationResults{
		TotalImpactJournalier:      total,
		PlafondValeur:              plafondValeur,
		PlafondJours:               safeDiv(plafondValeur, total),
		CentraleAnnuel:             centraleAnnuel,
		CentraleJournalier:         centraleJournalier,
		OAndMAnnuel:                in.OAndMAnnuel,
		OAndMJournalier:            oAndMJournalier,
		AutoconsommationAnnuel:     autoconsoAnnuel,
		AutoconsommationJournalier: autoconsoJournalier,
		TCO:                        tco,
		CoutSoutirageReseau:        reseau,
		CoutSoutirageCentrale:      centrale,
		ImpactFinancierJournalier:  impact,
		FraisAdministratifs:        frais,

		PenaliteJournaliereSeed: 0,
		PlafondMontantSeed:      0,
		PenaliteTotaleSeed:      0,
		PenaliteFinaleSeed:      0,
	}
}

// safeDiv returns num/den, or 0 when den is zero.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// DailyPenalty is the daily PV penalty rounded up to the next euro.
func DailyPenalty(results schema.FullCalculationResults) float64 {
	return math.Ceil(results.TotalImpactJournalier)
}

// DaysToCap is the number of delay days before the PV cap is reached, rounded up.
func DaysToCap(results schema.FullCalculationResults) float64 {
	return math.Ceil(results.PlafondJours)
}

// Report computes the results for inputs and bundles them with the display values.
func Report(inputs schema.CalculatorInputs) schema.PenaltyReport {
	results := Compute(inputs)
	inputs.CalculationMode = inputs.EffectiveMode()
	return schema.PenaltyReport{
		Mode:         inputs.CalculationMode,
		Inputs:       inputs,
		Results:      results,
		DailyPenalty: DailyPenalty(results),
		DaysToCap:    DaysToCap(results),
	}
}
