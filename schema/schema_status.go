package schema

import "time"

// RunStatus represents the status of the run store.
type RunStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalRows     int              `json:"total_rows"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunSummary is recorded when a build completes.
type RunSummary struct {
	Design    DesignKind
	TotalRows int
	RIRows    int
	Silos     int
}

// RunRecord represents a row from the undid_design_runs table.
type RunRecord struct {
	RunID         int64
	RunUUID       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int64
	Design        *string
	TotalRows     int32
	RIRows        int32
	SiloCount     int32
	ConfigParams  *string
}

// SpecRowRecord represents a row from the undid_spec_rows table.
type SpecRowRecord struct {
	RunID     int64
	RowIndex  int32
	SiloName  string
	Gvar      string
	Treat     string
	DiffTimes string
	GT        string
	RI        int32
}
