package runstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/undid-go/undid/internal/contract"
	"github.com/undid-go/undid/schema"
	_ "modernc.org/sqlite" // SQLite driver
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// openDB opens and pings a connection for backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	driverName, err := driverFor(backend)
	if err != nil {
		return nil, err
	}

	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			connStr = contract.GetRunsDBFilePath()
		}
		db, err := sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", connStr, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
		}
		return db, nil

	default:
		db, err := sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to connect to %s database: %w. Check that the server is running and the connection string is correct", backend, err)
		}
		return db, nil
	}
}

// createRunTables creates the run tracking tables.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{designRunsTable, getCreateDesignRunsQuery(backend)},
		{specRowsTable, getCreateSpecRowsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateDesignRunsQuery returns the CREATE TABLE query for undid_design_runs.
func getCreateDesignRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(designRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_uuid CHAR(36) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms BIGINT,
				design VARCHAR(16),
				total_rows INT NOT NULL DEFAULT 0,
				ri_rows INT NOT NULL DEFAULT 0,
				silo_count INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_uuid TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms BIGINT,
				design TEXT,
				total_rows INT NOT NULL DEFAULT 0,
				ri_rows INT NOT NULL DEFAULT 0,
				silo_count INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_uuid TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				design TEXT,
				total_rows INTEGER NOT NULL DEFAULT 0,
				ri_rows INTEGER NOT NULL DEFAULT 0,
				silo_count INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateSpecRowsQuery returns the CREATE TABLE query for undid_spec_rows.
func getCreateSpecRowsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(specRowsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				row_index INT NOT NULL,
				silo_name VARCHAR(255) NOT NULL,
				gvar VARCHAR(64) NOT NULL,
				treat VARCHAR(4) NOT NULL,
				diff_times VARCHAR(128) NOT NULL,
				gt VARCHAR(128) NOT NULL,
				ri INT NOT NULL,
				PRIMARY KEY (run_id, row_index)
			);
		`, quotedTableName)

	default: // SQLite and PostgreSQL
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				row_index INTEGER NOT NULL,
				silo_name TEXT NOT NULL,
				gvar TEXT NOT NULL,
				treat TEXT NOT NULL,
				diff_times TEXT NOT NULL,
				gt TEXT NOT NULL,
				ri INTEGER NOT NULL,
				PRIMARY KEY (run_id, row_index)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(designRunsTable, rs.backend)
	args := []any{uuid.NewString(), formatTime(startTime, rs.backend), string(configJSON)}

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, config_params) VALUES (%s) RETURNING run_id`,
			quotedTableName, placeholders(rs.backend, len(args)))
		err = rs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, config_params) VALUES (%s)`,
			quotedTableName, placeholders(rs.backend, len(args)))
		var result sql.Result
		result, err = rs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert design run: %w", err)
	}
	return runID, nil
}

// RecordRows stores every row of table under runID in one transaction.
// Common rows are recorded with their common treatment time as gvar.
func (rs *RunStoreImpl) RecordRows(runID int64, table *schema.SpecTable) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil || table == nil {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_id, row_index, silo_name, gvar, treat, diff_times, gt, ri) VALUES (%s)`,
		quoteTableName(specRowsTable, rs.backend), placeholders(rs.backend, 8))

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare spec row insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, rec := range specRowRecords(runID, table) {
		if _, err := stmt.Exec(rec.RunID, rec.RowIndex, rec.SiloName, rec.Gvar, rec.Treat, rec.DiffTimes, rec.GT, rec.RI); err != nil {
			return fmt.Errorf("failed to insert spec row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit spec rows: %w", err)
	}
	return nil
}

// specRowRecords flattens a table into stored rows.
func specRowRecords(runID int64, table *schema.SpecTable) []schema.SpecRowRecord {
	out := make([]schema.SpecRowRecord, 0, table.Len())
	if table.Design == schema.CommonDesign {
		for i, r := range table.Common {
			out = append(out, schema.SpecRowRecord{
				RunID:    runID,
				RowIndex: int32(i),
				SiloName: r.SiloName,
				Gvar:     r.CommonTreatmentTime,
				Treat:    string(r.Treat),
			})
		}
		return out
	}
	for i, r := range table.Staggered {
		out = append(out, schema.SpecRowRecord{
			RunID:     runID,
			RowIndex:  int32(i),
			SiloName:  r.SiloName,
			Gvar:      r.Gvar,
			Treat:     string(r.Treat),
			DiffTimes: r.DiffTimes,
			GT:        r.GT,
			RI:        int32(r.RI),
		})
	}
	return out
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, summary schema.RunSummary) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(designRunsTable, rs.backend)
	selectQuery := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholders(rs.backend, 1))
	startTime, err := scanTime(rs.db.QueryRow(selectQuery, runID), rs.backend)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	args := []any{
		formatTime(endTime, rs.backend), durationMs, string(summary.Design),
		summary.TotalRows, summary.RIRows, summary.Silos, runID,
	}

	var updateQuery string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, design = $3, total_rows = $4, ri_rows = $5, silo_count = $6 WHERE run_id = $7`, quotedTableName)
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, design = ?, total_rows = ?, ri_rows = ?, silo_count = ? WHERE run_id = ?`, quotedTableName)
	}

	if _, err := rs.db.Exec(updateQuery, args...); err != nil {
		return fmt.Errorf("failed to update design run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(designRunsTable, rs.backend)

	row := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*), COALESCE(SUM(total_rows), 0) FROM %s", runsTable))
	if err := row.Scan(&status.TotalRuns, &status.TotalRows); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row = rs.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", runsTable))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}

		last, err := scanTime(rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)), rs.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = last

		oldest, err := scanTime(rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)), rs.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest
	}

	for _, table := range []string{designRunsTable, specRowsTable} {
		var count int64
		row = rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all design runs from the store.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, start_time, end_time, run_duration_ms, design,
		total_rows, ri_rows, silo_count, config_params FROM %s ORDER BY run_id`,
		quoteTableName(designRunsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query design runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &record.RunUUID, &startTimeStr, &endTimeStr, &record.RunDurationMs,
				&record.Design, &record.TotalRows, &record.RIRows, &record.SiloCount, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan design run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.RunUUID, &record.StartTime, &record.EndTime, &record.RunDurationMs,
				&record.Design, &record.TotalRows, &record.RIRows, &record.SiloCount, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan design run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating design runs: %w", err)
	}
	return results, nil
}

// GetAllSpecRows retrieves all recorded rows from the store.
func (rs *RunStoreImpl) GetAllSpecRows() ([]schema.SpecRowRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, row_index, silo_name, gvar, treat, diff_times, gt, ri
		FROM %s ORDER BY run_id, row_index`, quoteTableName(specRowsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query spec rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SpecRowRecord
	for rows.Next() {
		var r schema.SpecRowRecord
		if err := rows.Scan(&r.RunID, &r.RowIndex, &r.SiloName, &r.Gvar, &r.Treat, &r.DiffTimes, &r.GT, &r.RI); err != nil {
			return nil, fmt.Errorf("failed to scan spec row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating spec rows: %w", err)
	}
	return results, nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}

// scanTime reads a single time column stored by formatTime.
func scanTime(row *sql.Row, backend schema.DatabaseBackend) (time.Time, error) {
	if backend != schema.SQLiteBackend {
		var t time.Time
		err := row.Scan(&t)
		return t, err
	}
	var s string
	if err := row.Scan(&s); err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, s)
}
