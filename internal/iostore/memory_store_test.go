package iostore

import (
	"context"
	"testing"
	"time"

	"github.com/helexia/contractrisk/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := sampleProject("p-1", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, store.SaveProject(ctx, p))

	got, err := store.GetProject(ctx, "p-1")
	require.NoError(t, err)
	assertSameProject(t, p, got)
	require.Len(t, got.ChangeRequests, 1)
	assert.Equal(t, "Centrale Sud", got.ChangeRequests[0].ProjectName)
}

func TestMemoryStoreKeepsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := sampleProject("p-1", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, store.SaveProject(ctx, p))

	p.Risks[0].Risque = "mutated"
	*p.Risks[0].CoutProbableMaximal = 1

	got, err := store.GetProject(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Retard raccordement", got.Risks[0].Risque)
	assert.Equal(t, 1000.0, *got.Risks[0].CoutProbableMaximal)
}

func TestMemoryStoreListOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveProject(ctx, sampleProject("old", base)))
	require.NoError(t, store.SaveProject(ctx, sampleProject("new", base.Add(time.Hour))))
	require.NoError(t, store.SaveProject(ctx, sampleProject("mid", base.Add(time.Minute))))

	projects, err := store.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{projects[0].ID, projects[1].ID, projects[2].ID})
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.GetProject(ctx, "missing")
	assert.ErrorIs(t, err, contract.ErrProjectNotFound)
	assert.ErrorIs(t, store.DeleteProject(ctx, "missing"), contract.ErrProjectNotFound)
}

func TestMemoryStoreDeleteAndStatus(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveProject(ctx, sampleProject("a", base)))
	require.NoError(t, store.SaveProject(ctx, sampleProject("b", base.Add(time.Hour))))

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalProjects)
	assert.Equal(t, 4, status.TotalRisks)
	assert.Equal(t, int64(2), status.TableSizes[deadlinesTable])
	assert.True(t, status.LastSavedAt.Equal(base.Add(time.Hour)))
	assert.True(t, status.OldestSavedAt.Equal(base))
	assert.Greater(t, status.SizeBytes, int64(0))

	require.NoError(t, store.DeleteProject(ctx, "a"))
	projects, err := store.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "b", projects[0].ID)
	assert.NoError(t, store.Close())
}
