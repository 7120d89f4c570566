package iostore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/helexia/contractrisk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearStoreSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "clear.db")
	store, err := NewProjectStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = os.Stat(dbPath)
	require.NoError(t, err)

	require.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	assert.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))
}

func TestClearStoreEdgeCases(t *testing.T) {
	assert.Error(t, ClearStore(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearStore(schema.NoneBackend, "", ""))
	assert.Error(t, ClearStore(schema.DatabaseBackend("oracle"), "", ""))
}

func TestManagerWrapsStore(t *testing.T) {
	store := NewMemoryStore()
	mgr := NewManager(store)
	assert.Same(t, store, mgr.GetProjectStore())

	var empty ProjectStoreManager
	assert.Nil(t, empty.GetProjectStore())
}
