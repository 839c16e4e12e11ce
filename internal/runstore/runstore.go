// Package runstore records specification builds in a SQL database.
package runstore

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/undid-go/undid/internal/contract"
	"github.com/undid-go/undid/schema"
)

// Table names for run tracking.
const (
	designRunsTable = "undid_design_runs"
	specRowsTable   = "undid_spec_rows"
)

// StoreManager holds the process-wide RunStore.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	runs         contract.RunStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetRunStore returns the configured RunStore.
func (mgr *StoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager with a run store for backend.
// An empty backend leaves run tracking disabled.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		if backend == "" {
			return
		}
		store, err := NewRunStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize run store: %w", err)
			return
		}
		Manager.Lock()
		Manager.runs = store
		Manager.Unlock()
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
	})
}

// quoteTableName quotes a table identifier for the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	default: // SQLite and PostgreSQL
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
}

// placeholders returns n bind parameters in the backend's syntax.
func placeholders(backend schema.DatabaseBackend, n int) string {
	parts := make([]string, n)
	for i := range parts {
		if backend == schema.PostgreSQLBackend {
			parts[i] = fmt.Sprintf("$%d", i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

// driverFor maps a backend to its database/sql driver name.
func driverFor(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	case schema.NoneBackend:
		return "", errors.New("no driver for the none backend")
	default:
		return "", fmt.Errorf("unsupported backend: %s", backend)
	}
}
