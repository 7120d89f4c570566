// Package schema has models, enums and defaults for all parts of contractrisk.
package schema

// Default calculator values used when a field is not provided.
const (
	DefaultPlantLifetimeYears     = 30.0
	DefaultSelfConsumptionRate    = 100.0
	DefaultGridPriceMWh           = 200.0
	DefaultCapPercentage          = 5.0
	DefaultAdministrativeFees     = 10.0
	DefaultTauxPenaliteJournalier = 0.5
	DefaultPlafondPenalites       = 10.0
)

// CalculatorInputs is the parameter set for one penalty calculation.
// Only the fields of the active mode are read.
type CalculatorInputs struct {
	CalculationMode CalculationMode `json:"calculationMode" yaml:"calculationMode"`

	// PV mode
	CentraleTotal                float64 `json:"centraleTotal" yaml:"centraleTotal"`
	OAndMAnnuel                  float64 `json:"oAndMAnnuel" yaml:"oAndMAnnuel"`
	ProductionAnnuelMWh          float64 `json:"productionAnnuelMWh" yaml:"productionAnnuelMWh"`
	PlantLifetimeYears           float64 `json:"plantLifetimeYears" yaml:"plantLifetimeYears"`
	SelfConsumptionRate          float64 `json:"selfConsumptionRate" yaml:"selfConsumptionRate"`
	GridPriceMWh                 float64 `json:"gridPriceMWh" yaml:"gridPriceMWh"`
	CapPercentage                float64 `json:"capPercentage" yaml:"capPercentage"`
	AdministrativeFeesPercentage float64 `json:"administrativeFeesPercentage" yaml:"administrativeFeesPercentage"`

	// SEED mode
	MontantMarche               float64 `json:"montantMarche" yaml:"montantMarche"`
	TauxPenaliteJournalier      float64 `json:"tauxPenaliteJournalier" yaml:"tauxPenaliteJournalier"`
	PlafondPenalitesPourcentage float64 `json:"plafondPenalitesPourcentage" yaml:"plafondPenalitesPourcentage"`
	NombreJoursRetard           int     `json:"nombreJoursRetard" yaml:"nombreJoursRetard"`
}

// FullCalculationResults is the output of both penalty models.
// Fields of the mode that was not computed stay at zero.
type FullCalculationResults struct {
	// PV mode
	TotalImpactJournalier      float64 `json:"totalImpactJournalier"`
	PlafondValeur              float64 `json:"plafondValeur"`
	PlafondJours               float64 `json:"plafondJours"`
	CentraleAnnuel             float64 `json:"centraleAnnuel"`
	CentraleJournalier         float64 `json:"centraleJournalier"`
	OAndMAnnuel                float64 `json:"oAndMAnnuel"`
	OAndMJournalier            float64 `json:"oAndMJournalier"`
	AutoconsommationAnnuel     float64 `json:"autoconsommationAnnuel"`
	AutoconsommationJournalier float64 `json:"autoconsommationJournalier"`
	TCO                        float64 `json:"tco"`
	CoutSoutirageReseau        float64 `json:"coutSoutirageReseau"`
	CoutSoutirageCentrale      float64 `json:"coutSoutirageCentrale"`
	ImpactFinancierJournalier  float64 `json:"impactFinancierJournalier"`
	FraisAdministratifs        float64 `json:"fraisAdministratifs"`

	// SEED mode
	PenaliteJournaliereSeed float64 `json:"penaliteJournaliereSeed"`
	PlafondMontantSeed      float64 `json:"plafondMontantSeed"`
	PenaliteTotaleSeed      float64 `json:"penaliteTotaleSeed"`
	PenaliteFinaleSeed      float64 `json:"penaliteFinaleSeed"`
}

// PenaltyReport bundles a calculation with its user-facing derived values.
type PenaltyReport struct {
	Mode         CalculationMode        `json:"mode"`
	Inputs       CalculatorInputs       `json:"inputs"`
	Results      FullCalculationResults `json:"results"`
	DailyPenalty float64                `json:"dailyPenalty"`
	DaysToCap    float64                `json:"daysToCap"`
	Clause       string                 `json:"clause,omitempty"`
}

// DefaultInputs returns the blank calculator used when a project is created.
func DefaultInputs() CalculatorInputs {
	return CalculatorInputs{
		CalculationMode:              PVMode,
		PlantLifetimeYears:           DefaultPlantLifetimeYears,
		SelfConsumptionRate:          DefaultSelfConsumptionRate,
		GridPriceMWh:                 DefaultGridPriceMWh,
		CapPercentage:                DefaultCapPercentage,
		AdministrativeFeesPercentage: DefaultAdministrativeFees,
		TauxPenaliteJournalier:       DefaultTauxPenaliteJournalier,
		PlafondPenalitesPourcentage:  DefaultPlafondPenalites,
	}
}

// EffectiveMode returns the active mode, treating an empty mode as PV.
func (in CalculatorInputs) EffectiveMode() CalculationMode {
	if in.CalculationMode == SeedMode {
		return SeedMode
	}
	return PVMode
}
