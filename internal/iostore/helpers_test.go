package iostore

import (
	"testing"
	"time"

	"github.com/helexia/contractrisk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleProject builds a project exercising every nullable field.
func sampleProject(id string, savedAt time.Time) schema.Project {
	due := "2026-04-30"
	return schema.Project{
		ID:             id,
		ProjectName:    "Centrale Sud",
		ProjectCode:    "CS-01",
		ProjectAddress: "1 rue du Soleil, Montpellier",
		ProjectType:    schema.IPPSelfConsumption,
		Status:         schema.StatusP2,
		Inputs: schema.CalculatorInputs{
			CalculationMode:              schema.PVMode,
			CentraleTotal:                1_000_000,
			OAndMAnnuel:                  20_000,
			ProductionAnnuelMWh:          2000,
			PlantLifetimeYears:           25,
			SelfConsumptionRate:          100,
			GridPriceMWh:                 200,
			CapPercentage:                5,
			AdministrativeFeesPercentage: 10,
		},
		Results: schema.FullCalculationResults{
			TotalImpactJournalier: 1024.6575342465753,
			PlafondValeur:         50000,
			PlafondJours:          48.79679144385027,
			TCO:                   30,
		},
		Risks: []schema.RiskItem{
			{
				UID:                 "risk-penalty-" + id,
				ID:                  "R-PEN-CS-01",
				Projet:              "Centrale Sud",
				Risque:              "Retard raccordement",
				TypeRisque:          "Financier / Contractuel (PV)",
				CoutProbableMaximal: schema.Float(1000),
				ProbabiliteAvant:    schema.Float(75),
				ProbabiliteApres:    schema.Float(25),
				MitigationActions: []schema.MitigationAction{
					{ID: "a-1", Description: "Relancer le gestionnaire de réseau", DueDate: &due, Status: schema.ActionTodo},
				},
			},
			{
				UID:               "u-2",
				ID:                "R-02",
				Risque:            "Météo",
				ProbabiliteApres:  schema.Float(50),
				CoutMitigation:    schema.Float(300),
				MitigationActions: []schema.MitigationAction{},
			},
		},
		Deadlines: []schema.ContractDeadline{
			{ID: "d-1", Description: "Mise en service", Date: "2026-06-30", NoticePeriodInMonths: 2, Type: schema.DeadlineDue},
		},
		ChangeRequests: []schema.ChangeRequest{
			{
				ID:            "c-" + id,
				ProjectID:     id,
				ChangeNumber:  "CR-001",
				Title:         "Ajout ombrières",
				Status:        schema.ChangeApproved,
				Priority:      schema.PriorityHigh,
				EstimatedCost: schema.Float(4000),
				CreatedAt:     savedAt.Add(-24 * time.Hour),
			},
		},
		SavedAt: savedAt,
	}
}

// assertSameProject compares stored fields, ignoring time zone representation.
func assertSameProject(t *testing.T, want, got schema.Project) {
	t.Helper()

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.ProjectName, got.ProjectName)
	assert.Equal(t, want.ProjectCode, got.ProjectCode)
	assert.Equal(t, want.ProjectAddress, got.ProjectAddress)
	assert.Equal(t, want.ProjectType, got.ProjectType)
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.Inputs, got.Inputs)
	assert.Equal(t, want.Results, got.Results)
	assert.Equal(t, want.Risks, got.Risks)
	assert.Equal(t, want.Deadlines, got.Deadlines)
	assert.True(t, want.SavedAt.Equal(got.SavedAt), "saved_at: want %s got %s", want.SavedAt, got.SavedAt)

	require.Len(t, got.ChangeRequests, len(want.ChangeRequests))
	for i := range want.ChangeRequests {
		w, g := want.ChangeRequests[i], got.ChangeRequests[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, want.ID, g.ProjectID)
		assert.Equal(t, w.Title, g.Title)
		assert.Equal(t, w.Status, g.Status)
		assert.Equal(t, w.Priority, g.Priority)
		assert.Equal(t, w.EstimatedCost, g.EstimatedCost)
		assert.True(t, w.CreatedAt.Equal(g.CreatedAt))
	}
}
