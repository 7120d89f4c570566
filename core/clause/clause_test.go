package clause

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/helexia/contractrisk/core/penalty"
	"github.com/helexia/contractrisk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTextGenerator mocks contract.TextGenerator.
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func plain(s string) string {
	return strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(s)
}

func pvInputs() schema.CalculatorInputs {
	return schema.CalculatorInputs{
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
}

func TestDefaultPV(t *testing.T) {
	in := pvInputs()
	text := plain(Default(in, penalty.Compute(in)))

	assert.True(t, strings.HasPrefix(text, "En cas de non-respect de la Date de Remise des Travaux Garantie"))
	assert.Contains(t, text, "une Pénalité de Retard de 1 025 euros HT Forfaitaire par jour de retard s’appliquera.")
	assert.Contains(t, text, "\n\nLes Pénalités de Retard susvisées seront limitées à un montant égal à 5 % du Prix.")
}

func TestDefaultSeed(t *testing.T) {
	in := schema.CalculatorInputs{
		CalculationMode:             schema.SeedMode,
		MontantMarche:               100_000,
		TauxPenaliteJournalier:      0.5,
		PlafondPenalitesPourcentage: 10,
	}
	text := plain(Default(in, penalty.Compute(in)))

	assert.Equal(t, "En cas de retard dans l'exécution des prestations, une pénalité de 0,50 % par jour de retard sera appliquée sur le montant total HT du marché.\n\n"+
		"Le montant total de ces pénalités est plafonné à 10 % du montant total HT du marché.", text)
}

func TestPrompt(t *testing.T) {
	assert.Equal(t, "Rédige une clause de pénalité de retard pour un contrat. Voici les détails:\nabc", Prompt("abc"))
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	in := pvInputs()
	results := penalty.Compute(in)
	fallback := Default(in, results)

	t.Run("success", func(t *testing.T) {
		gen := &MockTextGenerator{}
		gen.On("Generate", ctx, Prompt(fallback)).Return("  Clause rédigée.\n", nil)

		text, err := Generate(ctx, gen, in, results)
		require.NoError(t, err)
		assert.Equal(t, "Clause rédigée.", text)
		gen.AssertExpectations(t)
	})

	t.Run("failure falls back", func(t *testing.T) {
		gen := &MockTextGenerator{}
		gen.On("Generate", ctx, mock.Anything).Return("", errors.New("quota exceeded"))

		text, err := Generate(ctx, gen, in, results)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
		assert.Equal(t, fallback, text)
	})

	t.Run("empty response falls back", func(t *testing.T) {
		gen := &MockTextGenerator{}
		gen.On("Generate", ctx, mock.Anything).Return("   ", nil)

		text, err := Generate(ctx, gen, in, results)
		assert.Error(t, err)
		assert.Equal(t, fallback, text)
	})

	t.Run("no generator", func(t *testing.T) {
		text, err := Generate(ctx, nil, in, results)
		assert.ErrorIs(t, err, ErrNoGenerator)
		assert.Equal(t, fallback, text)
	})
}
