// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/undid-go/undid/schema"
)

// StoreManager defines the interface for managing the run store.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetRunStore() RunStore
}

// RunStore defines the interface for recording specification builds.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// RecordRows stores the comparison rows of a built table
	RecordRows(runID int64, table *schema.SpecTable) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, summary schema.RunSummary) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every recorded run
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllSpecRows returns every recorded row
	GetAllSpecRows() ([]schema.SpecRowRecord, error)

	// Close closes the underlying connection
	Close() error
}
