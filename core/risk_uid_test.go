package core

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/helexia/contractrisk/core/exposure"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/internal/iostore"
	"github.com/helexia/contractrisk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStores returns one store per backend that runs without a server.
func testStores(t *testing.T) map[string]contract.ProjectStore {
	t.Helper()
	sqlite, err := iostore.NewProjectStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]contract.ProjectStore{
		"memory": iostore.NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func seedInputsPtr() *schema.CalculatorInputs {
	in := seedInputs()
	return &in
}

func TestRiskUIDs(t *testing.T) {
	ctx := context.Background()

	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("duplicate uid in import", func(t *testing.T) {
				p := NewProject("Dup", "DUP", "", schema.EPCType)
				first := riskItem("Un", 100, 10, 0, 5)
				first.UID = "x"
				second := riskItem("Deux", 200, 10, 0, 5)
				second.UID = "x"
				p.Risks = []schema.RiskItem{first, second}

				_, err := CreateProject(ctx, store, p, testNow)
				assert.ErrorIs(t, err, contract.ErrInvalidInput)
			})

			t.Run("duplicate uid on add", func(t *testing.T) {
				existing := riskItem("Un", 100, 10, 0, 5)
				existing.UID = "x"
				p := seedProject(t, store, "Add", "ADD", existing)

				again := riskItem("Deux", 200, 10, 0, 5)
				again.UID = "x"
				_, err := AddRisk(ctx, store, p.ID, again, testNow)
				assert.ErrorIs(t, err, contract.ErrInvalidInput)

				reserved := riskItem("Deux", 200, 10, 0, 5)
				reserved.UID = exposure.PenaltyRiskUID(p.ID)
				_, err = AddRisk(ctx, store, p.ID, reserved, testNow)
				assert.ErrorIs(t, err, contract.ErrInvalidInput)

				stored, err := store.GetProject(ctx, p.ID)
				require.NoError(t, err)
				assert.Len(t, stored.Risks, 1)
			})

			t.Run("reserved uid held by another risk", func(t *testing.T) {
				p := NewProject("Legacy", "LEG", "", schema.EPCType)
				p.ID = "legacy-" + name
				squatter := riskItem("Autre", 100, 10, 0, 5)
				squatter.UID = exposure.PenaltyRiskUID(p.ID)
				squatter.MitigationActions = []schema.MitigationAction{}
				p.Risks = []schema.RiskItem{squatter}
				p.SavedAt = testNow
				require.NoError(t, store.SaveProject(ctx, p))

				for range 2 {
					updated, _, err := CalculateProject(ctx, store, p.ID, seedInputsPtr(), testNow)
					require.NoError(t, err)
					require.Len(t, updated.Risks, 1)
					assert.Equal(t, schema.PenaltyRiskName, updated.Risks[0].Risque)
				}

				stored, err := store.GetProject(ctx, p.ID)
				require.NoError(t, err)
				require.Len(t, stored.Risks, 1)
				assert.Equal(t, exposure.PenaltyRiskUID(p.ID), stored.Risks[0].UID)
			})
		})
	}
}
