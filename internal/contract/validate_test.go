package contract

import (
	"math"
	"testing"

	"github.com/helexia/contractrisk/schema"
	"github.com/stretchr/testify/assert"
)

func TestValidateInputs(t *testing.T) {
	tests := []struct {
		name        string
		inputs      schema.CalculatorInputs
		expectError bool
	}{
		{"defaults", schema.DefaultInputs(), false},
		{"empty mode", schema.CalculatorInputs{}, false},
		{"uppercase seed", schema.CalculatorInputs{CalculationMode: "SEED"}, false},
		{"unknown mode", schema.CalculatorInputs{CalculationMode: "flat"}, true},
		{"negative days in seed", schema.CalculatorInputs{CalculationMode: schema.SeedMode, NombreJoursRetard: -1}, true},
		{"negative days ignored in pv", schema.CalculatorInputs{CalculationMode: schema.PVMode, NombreJoursRetard: -1}, false},
		{"nan in pv", schema.CalculatorInputs{CalculationMode: schema.PVMode, CentraleTotal: math.NaN()}, true},
		{"nan ignored in seed", schema.CalculatorInputs{CalculationMode: schema.SeedMode, CentraleTotal: math.NaN()}, false},
		{"inf in seed", schema.CalculatorInputs{CalculationMode: schema.SeedMode, MontantMarche: math.Inf(1)}, true},
		{"huge amount in seed", schema.CalculatorInputs{CalculationMode: schema.SeedMode, MontantMarche: 1e308, TauxPenaliteJournalier: 1e10}, true},
		{"amount at bound", schema.CalculatorInputs{CalculationMode: schema.SeedMode, MontantMarche: MaxInputMagnitude}, false},
		{"too many days", schema.CalculatorInputs{CalculationMode: schema.SeedMode, NombreJoursRetard: MaxDelayDays + 1}, true},
		{"tiny lifetime in pv", schema.CalculatorInputs{CalculationMode: schema.PVMode, CentraleTotal: 1e6, PlantLifetimeYears: 1e-300}, true},
		{"negative grid price in pv", schema.CalculatorInputs{CalculationMode: schema.PVMode, GridPriceMWh: -50}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputs(tt.inputs)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeInputs(t *testing.T) {
	assert.Equal(t, schema.SeedMode, NormalizeInputs(schema.CalculatorInputs{CalculationMode: "Seed"}).CalculationMode)
	assert.Equal(t, schema.PVMode, NormalizeInputs(schema.CalculatorInputs{}).CalculationMode)
}

func TestValidateRisk(t *testing.T) {
	due := "2026-05-01"
	badDue := "01/05/2026"
	tests := []struct {
		name        string
		risk        schema.RiskItem
		expectError bool
	}{
		{"minimal", schema.RiskItem{Risque: "Météo"}, false},
		{"missing name", schema.RiskItem{}, true},
		{"probability too high", schema.RiskItem{Risque: "x", ProbabiliteAvant: schema.Float(120)}, true},
		{"negative probability after", schema.RiskItem{Risque: "x", ProbabiliteApres: schema.Float(-5)}, true},
		{
			name: "valid action",
			risk: schema.RiskItem{Risque: "x", MitigationActions: []schema.MitigationAction{
				{Description: "Relancer", Status: schema.ActionTodo, DueDate: &due},
			}},
		},
		{
			name: "invalid action status",
			risk: schema.RiskItem{Risque: "x", MitigationActions: []schema.MitigationAction{
				{Description: "Relancer", Status: "Bloqué"},
			}},
			expectError: true,
		},
		{
			name: "invalid due date",
			risk: schema.RiskItem{Risque: "x", MitigationActions: []schema.MitigationAction{
				{Description: "Relancer", Status: schema.ActionDone, DueDate: &badDue},
			}},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRisk(tt.risk)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDeadline(t *testing.T) {
	assert.NoError(t, ValidateDeadline(schema.ContractDeadline{Date: "2026-06-30", Type: schema.DeadlinePayment}))
	assert.Error(t, ValidateDeadline(schema.ContractDeadline{Date: "2026-13-01", Type: schema.DeadlineDue}))
	assert.Error(t, ValidateDeadline(schema.ContractDeadline{Date: "2026-06-30", Type: "Autre"}))
	assert.Error(t, ValidateDeadline(schema.ContractDeadline{Date: "2026-06-30", Type: schema.DeadlineDue, NoticePeriodInMonths: -1}))
}

func TestValidateChangeRequest(t *testing.T) {
	valid := schema.ChangeRequest{Title: "Ajout onduleur", Status: schema.ChangeRequested, Priority: schema.PriorityHigh}
	assert.NoError(t, ValidateChangeRequest(valid))

	noTitle := valid
	noTitle.Title = " "
	assert.Error(t, ValidateChangeRequest(noTitle))

	badStatus := valid
	badStatus.Status = "Annulé"
	assert.Error(t, ValidateChangeRequest(badStatus))

	badPriority := valid
	badPriority.Priority = "Urgente"
	assert.Error(t, ValidateChangeRequest(badPriority))
}

func TestValidateProject(t *testing.T) {
	p := schema.Project{
		ProjectName: "Toiture Lyon",
		ProjectType: schema.EPCType,
		Status:      schema.StatusP1,
		Inputs:      schema.DefaultInputs(),
	}
	assert.NoError(t, ValidateProject(p))

	noName := p
	noName.ProjectName = ""
	assert.ErrorIs(t, ValidateProject(noName), ErrInvalidInput)

	badType := p
	badType.ProjectType = "Maintenance"
	assert.Error(t, ValidateProject(badType))

	badStatus := p
	badStatus.Status = "P9"
	assert.Error(t, ValidateProject(badStatus))
}
