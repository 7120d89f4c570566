package contract

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/helexia/contractrisk/schema"
)

// Input bounds keeping every product and quotient of the calculator finite.
const (
	MaxInputMagnitude = 1e12
	MinInputMagnitude = 1e-6
	MaxDelayDays      = 100_000
)

// ValidateInputs checks the fields of the active calculation mode.
// Fields of the inactive mode are never looked at.
func ValidateInputs(in schema.CalculatorInputs) error {
	mode := schema.CalculationMode(strings.ToLower(string(in.CalculationMode)))
	if mode != "" {
		if _, ok := schema.ValidCalculationModes[mode]; !ok {
			return fmt.Errorf("%w: invalid calculation mode '%s'. must be pv, seed", ErrInvalidInput, in.CalculationMode)
		}
	}

	if mode == schema.SeedMode {
		if in.NombreJoursRetard < 0 {
			return fmt.Errorf("%w: nombreJoursRetard cannot be negative (received %d)", ErrInvalidInput, in.NombreJoursRetard)
		}
		if in.NombreJoursRetard > MaxDelayDays {
			return fmt.Errorf("%w: nombreJoursRetard cannot exceed %d (received %d)", ErrInvalidInput, MaxDelayDays, in.NombreJoursRetard)
		}
		return checkFinite(map[string]float64{
			"montantMarche":               in.MontantMarche,
			"tauxPenaliteJournalier":      in.TauxPenaliteJournalier,
			"plafondPenalitesPourcentage": in.PlafondPenalitesPourcentage,
		})
	}

	return checkFinite(map[string]float64{
		"centraleTotal":                in.CentraleTotal,
		"oAndMAnnuel":                  in.OAndMAnnuel,
		"productionAnnuelMWh":          in.ProductionAnnuelMWh,
		"plantLifetimeYears":           in.PlantLifetimeYears,
		"selfConsumptionRate":          in.SelfConsumptionRate,
		"gridPriceMWh":                 in.GridPriceMWh,
		"capPercentage":                in.CapPercentage,
		"administrativeFeesPercentage": in.AdministrativeFeesPercentage,
	})
}

// NormalizeInputs lower-cases the mode and fills an empty one with pv.
func NormalizeInputs(in schema.CalculatorInputs) schema.CalculatorInputs {
	in.CalculationMode = schema.CalculationMode(strings.ToLower(string(in.CalculationMode)))
	in.CalculationMode = in.EffectiveMode()
	return in
}

// checkFinite rejects non-finite values and magnitudes outside the input bounds.
// Zero is always accepted.
func checkFinite(fields map[string]float64) error {
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidInput, name)
		}
		if abs := math.Abs(v); abs > MaxInputMagnitude || (v != 0 && abs < MinInputMagnitude) {
			return fmt.Errorf("%w: %s must be 0 or between %g and %g in magnitude (received %g)",
				ErrInvalidInput, name, MinInputMagnitude, MaxInputMagnitude, v)
		}
	}
	return nil
}

// ValidateRisk checks the enumerations and probability ranges of a risk.
func ValidateRisk(r schema.RiskItem) error {
	if strings.TrimSpace(r.Risque) == "" {
		return fmt.Errorf("%w: risk name is required", ErrInvalidInput)
	}
	for name, p := range map[string]*float64{"probabiliteAvant": r.ProbabiliteAvant, "probabiliteApres": r.ProbabiliteApres} {
		if p != nil && (*p < 0 || *p > 100 || math.IsNaN(*p)) {
			return fmt.Errorf("%w: %s must be between 0 and 100 (received %v)", ErrInvalidInput, name, *p)
		}
	}
	for _, a := range r.MitigationActions {
		if _, ok := schema.ValidActionStatuses[a.Status]; !ok {
			return fmt.Errorf("%w: invalid mitigation action status '%s'", ErrInvalidInput, a.Status)
		}
		if a.DueDate != nil && *a.DueDate != "" {
			if _, err := time.Parse(schema.DateLayout, *a.DueDate); err != nil {
				return fmt.Errorf("%w: invalid due date '%s', expected YYYY-MM-DD", ErrInvalidInput, *a.DueDate)
			}
		}
	}
	return nil
}

// ValidateDeadline checks the date format and type of a deadline.
func ValidateDeadline(d schema.ContractDeadline) error {
	if _, err := time.Parse(schema.DateLayout, d.Date); err != nil {
		return fmt.Errorf("%w: invalid deadline date '%s', expected YYYY-MM-DD", ErrInvalidInput, d.Date)
	}
	if _, ok := schema.ValidDeadlineTypes[d.Type]; !ok {
		return fmt.Errorf("%w: invalid deadline type '%s'", ErrInvalidInput, d.Type)
	}
	if d.NoticePeriodInMonths < 0 {
		return fmt.Errorf("%w: notice period cannot be negative", ErrInvalidInput)
	}
	return nil
}

// ValidateChangeRequest checks the status and priority of a change request.
func ValidateChangeRequest(c schema.ChangeRequest) error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: change request title is required", ErrInvalidInput)
	}
	if _, ok := schema.ValidChangeStatuses[c.Status]; !ok {
		return fmt.Errorf("%w: invalid change request status '%s'", ErrInvalidInput, c.Status)
	}
	if _, ok := schema.ValidChangePriorities[c.Priority]; !ok {
		return fmt.Errorf("%w: invalid change request priority '%s'", ErrInvalidInput, c.Priority)
	}
	return nil
}

// ValidateProject checks the identity fields of a project.
func ValidateProject(p schema.Project) error {
	if strings.TrimSpace(p.ProjectName) == "" {
		return fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	if _, ok := schema.ValidProjectTypes[p.ProjectType]; !ok {
		return fmt.Errorf("%w: invalid project type '%s'", ErrInvalidInput, p.ProjectType)
	}
	if _, ok := schema.ValidProjectStatuses[p.Status]; !ok {
		return fmt.Errorf("%w: invalid project status '%s'", ErrInvalidInput, p.Status)
	}
	return ValidateInputs(p.Inputs)
}
