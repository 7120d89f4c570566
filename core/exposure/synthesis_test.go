package exposure

import (
	"strings"
	"testing"

	"github.com/helexia/contractrisk/core/penalty"
	"github.com/helexia/contractrisk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plain(s string) string {
	return strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(s)
}

func testProject() schema.Project {
	return schema.Project{
		ID:          "01J9ZX",
		ProjectName: "Toiture Lyon",
		ProjectCode: "LYO-01",
		Risks: []schema.RiskItem{
			{UID: "r1", Risque: "Retard fournisseur", CoutProbableMaximal: schema.Float(1000)},
			{UID: "old-penalty", Risque: schema.PenaltyRiskName, CoutProbableMaximal: schema.Float(1)},
			{UID: "r2", Risque: "Météo"},
			{UID: "old-penalty-2", Risque: schema.PenaltyRiskName},
		},
	}
}

func TestSynthesizePenaltyRiskPV(t *testing.T) {
	in := schema.CalculatorInputs{
		CalculationMode:              schema.PVMode,
		CentraleTotal:                1_000_000,
		OAndMAnnuel:                  20_000,
		ProductionAnnuelMWh:          2000,
		PlantLifetimeYears:           25,
		SelfConsumptionRate:          100,
		GridPriceMWh:                 200,
		CapPercentage:                5,
		AdministrativeFeesPercentage: 10,
	}
	r := SynthesizePenaltyRisk(testProject(), in, penalty.Compute(in))

	assert.Equal(t, "risk-penalty-01J9ZX", r.UID)
	assert.Equal(t, "R-PEN-LYO-01", r.ID)
	assert.Equal(t, "Toiture Lyon", r.Projet)
	assert.Equal(t, schema.PenaltyRiskName, r.Risque)
	assert.Equal(t, "Financier / Contractuel (PV)", r.TypeRisque)
	assert.Equal(t, "Risque de pénalités dues à un retard de livraison imputable à Helexia.", r.Description)
	require.NotNil(t, r.CoutProbableMaximal)
	assert.InDelta(t, 50000.0, *r.CoutProbableMaximal, 1e-9)
	assert.Equal(t, 75.0, *r.ProbabiliteAvant)
	assert.Equal(t, 25.0, *r.ProbabiliteApres)
	assert.Nil(t, r.CoutMitigation)
	assert.NotNil(t, r.MitigationActions)
	assert.Empty(t, r.MitigationActions)
	assert.Equal(t, "Pénalité journalière: 1 025€. Plafond: 5% (50 000€).", plain(r.ExplicationCalcul))
}

func TestSynthesizePenaltyRiskSeed(t *testing.T) {
	in := schema.CalculatorInputs{
		CalculationMode:             schema.SeedMode,
		MontantMarche:               100_000,
		TauxPenaliteJournalier:      0.5,
		PlafondPenalitesPourcentage: 10,
		NombreJoursRetard:           25,
	}
	p := testProject()
	p.ProjectCode = ""
	r := SynthesizePenaltyRisk(p, in, penalty.Compute(in))

	assert.Equal(t, "R-PEN-XXX", r.ID)
	assert.Equal(t, "Financier / Contractuel (SEED)", r.TypeRisque)
	assert.Equal(t, "Risque de pénalités pour retard sur un projet de type SEED, calculées en pourcentage du marché.", r.Description)
	require.NotNil(t, r.CoutProbableMaximal)
	assert.InDelta(t, 10000.0, *r.CoutProbableMaximal, 1e-9)
	assert.Equal(t, "Taux journalier: 0.5%. Montant marché: 100 000€. Plafond: 10% (10 000€).", plain(r.ExplicationCalcul))
}

func TestUpsertPenaltyRisk(t *testing.T) {
	p := testProject()
	original := append([]schema.RiskItem(nil), p.Risks...)
	fresh := schema.RiskItem{UID: PenaltyRiskUID(p.ID), Risque: schema.PenaltyRiskName}

	out := UpsertPenaltyRisk(p.Risks, fresh)

	require.Len(t, out, 3)
	assert.Equal(t, "r1", out[0].UID)
	assert.Equal(t, "r2", out[1].UID)
	assert.Equal(t, fresh, out[2])
	assert.Equal(t, original, p.Risks, "input slice must not be modified")

	again := UpsertPenaltyRisk(out, fresh)
	assert.Equal(t, out, again)

	count := 0
	for _, r := range again {
		if r.Risque == schema.PenaltyRiskName {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestUpsertPenaltyRiskSameUID(t *testing.T) {
	fresh := schema.RiskItem{UID: PenaltyRiskUID("p1"), Risque: schema.PenaltyRiskName}
	risks := []schema.RiskItem{
		{UID: "r1", Risque: "Météo"},
		{UID: PenaltyRiskUID("p1"), Risque: "Autre"},
	}

	out := UpsertPenaltyRisk(risks, fresh)

	require.Len(t, out, 2)
	assert.Equal(t, "r1", out[0].UID)
	assert.Equal(t, fresh, out[1])
}

func TestUpsertPenaltyRiskEmpty(t *testing.T) {
	fresh := schema.RiskItem{Risque: schema.PenaltyRiskName}
	out := UpsertPenaltyRisk(nil, fresh)
	assert.Equal(t, []schema.RiskItem{fresh}, out)
}

func TestApplyCalculation(t *testing.T) {
	in := schema.CalculatorInputs{
		MontantMarche:               100_000,
		TauxPenaliteJournalier:      0.5,
		PlafondPenalitesPourcentage: 10,
		NombreJoursRetard:           5,
	}
	p := ApplyCalculation(testProject(), in, penalty.Compute(in))

	assert.Equal(t, schema.PVMode, p.Inputs.CalculationMode)
	assert.Len(t, p.Risks, 3)
	last := p.Risks[len(p.Risks)-1]
	assert.Equal(t, "Financier / Contractuel (PV)", last.TypeRisque)
	assert.Equal(t, p.Results.PlafondValeur, *last.CoutProbableMaximal)
}
