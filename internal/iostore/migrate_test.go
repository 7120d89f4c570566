package iostore

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/helexia/contractrisk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateStoreNoneBackend(t *testing.T) {
	err := MigrateStore(schema.NoneBackend, "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestMigrateStoreUnsupportedBackend(t *testing.T) {
	err := MigrateStore(schema.DatabaseBackend("oracle"), "", -1)
	assert.Error(t, err)
}

func TestMigrateStoreSQLiteUpDown(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, -1))
	assert.True(t, tableExists(t, dbPath, projectsTable))

	// Already at the latest version.
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, -1))

	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, 0))
	assert.False(t, tableExists(t, dbPath, projectsTable))
	assert.False(t, tableExists(t, dbPath, risksTable))

	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, 1))
	assert.True(t, tableExists(t, dbPath, changeRequestsTable))
}

func TestMigrationsEmbedded(t *testing.T) {
	for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
		t.Run(string(backend), func(t *testing.T) {
			entries, err := migrationsFS.ReadDir(migrationsDir(backend))
			require.NoError(t, err)
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name())
			}
			assert.Contains(t, names, "000001_create_projects.up.sql")
			assert.Contains(t, names, "000001_create_projects.down.sql")
		})
	}
}

func tableExists(t *testing.T, dbPath, table string) bool {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&count)
	require.NoError(t, err)
	return count > 0
}
