package runstore

import (
	"fmt"
	"os"

	"github.com/undid-go/undid/internal/contract"
	"github.com/undid-go/undid/schema"
)

// Clear removes recorded runs for the specified backend.
// For SQLite, it deletes the database file.
// For MySQL and PostgreSQL, it drops the run tables.
// For NoneBackend, it does nothing.
func Clear(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetRunsDBFilePath()
		}
		if dbPath == ":memory:" {
			return nil
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbPath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return dropTables(backend, connStr, specRowsTable, designRunsTable, "schema_migrations")

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// dropTables connects to the SQL database and drops each table if it exists.
func dropTables(backend schema.DatabaseBackend, connStr string, tables ...string) error {
	db, err := openDB(backend, connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
