package iostore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/schema"
)

// Table names, children first so that dropping in order never hits a dangling reference.
const (
	changeRequestsTable = "contractrisk_change_requests"
	deadlinesTable      = "contractrisk_deadlines"
	risksTable          = "contractrisk_risks"
	projectsTable       = "contractrisk_projects"
	migrationsTable     = "schema_migrations"
)

var storeTables = []string{changeRequestsTable, deadlinesTable, risksTable, projectsTable}

// Global Manager instance for main logic.
var (
	Manager   = &ProjectStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for project storage.
func GetDBFilePath() string {
	return contract.GetDBFilePath()
}

// InitStore initializes the global manager with the configured backend.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		store, err := NewProjectStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize project store: %w", err)
			return
		}

		Manager.Lock()
		Manager.projects = store
		Manager.Unlock()
	})

	return initErr
}

// CloseStore should be called on application shutdown.
func CloseStore() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.projects != nil {
			_ = Manager.projects.Close()
		}
	})
}

// ClearStore removes all stored projects for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the project tables and the migration history.
// For NoneBackend, it does nothing.
func ClearStore(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		tables := append([]string{}, storeTables...)
		tables = append(tables, migrationsTable)
		return dropSQLTables(driverFor(backend), dsnFor(backend, connStr), tables)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// dropSQLTables connects to the SQL database and drops each table if it exists.
func dropSQLTables(driverName, connStr string, tables []string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}
