package exposure

import (
	"fmt"
	"math"
	"strconv"

	"github.com/helexia/contractrisk/internal/locale"
	"github.com/helexia/contractrisk/schema"
)

// Fixed attributes of the synthesized penalty risk.
const (
	PenaltyProbabilityBefore = 75.0
	PenaltyProbabilityAfter  = 25.0

	seedRiskType        = "Financier / Contractuel (SEED)"
	pvRiskType          = "Financier / Contractuel (PV)"
	seedRiskDescription = "Risque de pénalités pour retard sur un projet de type SEED, calculées en pourcentage du marché."
	pvRiskDescription   = "Risque de pénalités dues à un retard de livraison imputable à Helexia."
	missingProjectCode  = "XXX"
)

// PenaltyRiskUID returns the stable uid of a project's penalty risk.
func PenaltyRiskUID(projectID string) string {
	return "risk-penalty-" + projectID
}

// SynthesizePenaltyRisk builds the "Pénalités de retard" risk for a calculation.
func SynthesizePenaltyRisk(p schema.Project, inputs schema.CalculatorInputs, results schema.FullCalculationResults) schema.RiskItem {
	code := p.ProjectCode
	if code == "" {
		code = missingProjectCode
	}
	risk := schema.RiskItem{
		UID:               PenaltyRiskUID(p.ID),
		ID:                "R-PEN-" + code,
		Projet:            p.ProjectName,
		Risque:            schema.PenaltyRiskName,
		ProbabiliteAvant:  schema.Float(PenaltyProbabilityBefore),
		ProbabiliteApres:  schema.Float(PenaltyProbabilityAfter),
		MitigationActions: []schema.MitigationAction{},
		CoutMitigation:    nil,
	}

	if inputs.EffectiveMode() == schema.SeedMode {
		risk.TypeRisque = seedRiskType
		risk.Description = seedRiskDescription
		risk.CoutProbableMaximal = schema.Float(results.PlafondMontantSeed)
		risk.ExplicationCalcul = fmt.Sprintf("Taux journalier: %s%%. Montant marché: %s€. Plafond: %s%% (%s€).",
			raw(inputs.TauxPenaliteJournalier),
			locale.Number(inputs.MontantMarche),
			raw(inputs.PlafondPenalitesPourcentage),
			locale.Number(results.PlafondMontantSeed),
		)
		return risk
	}

	risk.TypeRisque = pvRiskType
	risk.Description = pvRiskDescription
	risk.CoutProbableMaximal = schema.Float(results.PlafondValeur)
	risk.ExplicationCalcul = fmt.Sprintf("Pénalité journalière: %s€. Plafond: %s%% (%s€).",
		locale.Number(math.Ceil(results.TotalImpactJournalier)),
		raw(inputs.CapPercentage),
		locale.Number(results.PlafondValeur),
	)
	return risk
}

// UpsertPenaltyRisk removes every existing penalty risk, matched by name or by
// the uid of fresh, and appends fresh. The input slice is left untouched.
func UpsertPenaltyRisk(risks []schema.RiskItem, fresh schema.RiskItem) []schema.RiskItem {
	out := make([]schema.RiskItem, 0, len(risks)+1)
	for _, r := range risks {
		if r.Risque == schema.PenaltyRiskName || r.UID == fresh.UID {
			continue
		}
		out = append(out, r)
	}
	return append(out, fresh)
}

// ApplyCalculation stores inputs and results on the project and refreshes its penalty risk.
func ApplyCalculation(p schema.Project, inputs schema.CalculatorInputs, results schema.FullCalculationResults) schema.Project {
	inputs.CalculationMode = inputs.EffectiveMode()
	p.Inputs = inputs
	p.Results = results
	p.Risks = UpsertPenaltyRisk(p.Risks, SynthesizePenaltyRisk(p, inputs, results))
	return p
}

// raw prints a percentage the way it was entered, without grouping or padding.
func raw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
