// Package parquet provides data structures and functions for exporting undid
// specifications and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/undid-go/undid/schema"
)

// SpecRow is one staggered-adoption comparison row.
// Numeric columns stay empty until a silo runs stage two.
type SpecRow struct {
	SiloName               string   `parquet:"silo_name,snappy"`
	Gvar                   string   `parquet:"gvar,snappy"`
	Treat                  string   `parquet:"treat,snappy"`
	DiffTimes              string   `parquet:"diff_times,snappy"`
	GT                     string   `parquet:"gt,snappy"`
	RI                     int32    `parquet:"RI,snappy"`
	StartTime              string   `parquet:"start_time,snappy"`
	EndTime                string   `parquet:"end_time,snappy"`
	DiffEstimate           *float64 `parquet:"diff_estimate,optional,snappy"`
	DiffVar                *float64 `parquet:"diff_var,optional,snappy"`
	DiffEstimateCovariates *float64 `parquet:"diff_estimate_covariates,optional,snappy"`
	DiffVarCovariates      *float64 `parquet:"diff_var_covariates,optional,snappy"`
	Covariates             string   `parquet:"covariates,snappy"`
	DateFormat             string   `parquet:"date_format,snappy"`
	Freq                   string   `parquet:"freq,snappy"`
}

// CommonSpecRow is one common-adoption row.
type CommonSpecRow struct {
	SiloName               string   `parquet:"silo_name,snappy"`
	Treat                  string   `parquet:"treat,snappy"`
	CommonTreatmentTime    string   `parquet:"common_treatment_time,snappy"`
	StartTime              string   `parquet:"start_time,snappy"`
	EndTime                string   `parquet:"end_time,snappy"`
	Weights                string   `parquet:"weights,snappy"`
	DiffEstimate           *float64 `parquet:"diff_estimate,optional,snappy"`
	DiffVar                *float64 `parquet:"diff_var,optional,snappy"`
	DiffEstimateCovariates *float64 `parquet:"diff_estimate_covariates,optional,snappy"`
	DiffVarCovariates      *float64 `parquet:"diff_var_covariates,optional,snappy"`
	Covariates             string   `parquet:"covariates,snappy"`
	DateFormat             string   `parquet:"date_format,snappy"`
	Freq                   string   `parquet:"freq,snappy"`
}

// DesignRun represents a single recorded build.
// This struct maps to the undid_design_runs database table.
type DesignRun struct {
	// RunID is the store-assigned identifier for this build
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the globally unique identifier handed to silos
	RunUUID string `parquet:"run_uuid,snappy"`

	// StartTime is when the build began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the build completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the build in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	// Design is the adoption design that was selected (nullable)
	Design *string `parquet:"design,optional,snappy"`

	TotalRows int32 `parquet:"total_rows,snappy"`
	RIRows    int32 `parquet:"ri_rows,snappy"`
	SiloCount int32 `parquet:"silo_count,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// SpecRowExport is a recorded comparison row keyed by its run.
// This struct maps to the undid_spec_rows database table.
type SpecRowExport struct {
	RunID     int64  `parquet:"run_id,snappy"`
	RowIndex  int32  `parquet:"row_index,snappy"`
	SiloName  string `parquet:"silo_name,snappy"`
	Gvar      string `parquet:"gvar,snappy"`
	Treat     string `parquet:"treat,snappy"`
	DiffTimes string `parquet:"diff_times,snappy"`
	GT        string `parquet:"gt,snappy"`
	RI        int32  `parquet:"RI,snappy"`
}

// writeParquet writes rows to outputPath using the schema inferred from T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer; an error here leaves an unreadable file
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteSpecParquet writes a specification table to a Parquet file.
// The file schema follows the table's design.
func WriteSpecParquet(table *schema.SpecTable, outputPath string) error {
	if table == nil {
		return fmt.Errorf("no specification to write")
	}
	if table.Design == schema.CommonDesign {
		return writeParquet(ConvertCommonRows(table.Common), outputPath)
	}
	return writeParquet(ConvertComparisonRows(table.Staggered), outputPath)
}

// WriteRunsParquet writes a slice of DesignRun structs to a Parquet file.
func WriteRunsParquet(data []DesignRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSpecRowsParquet writes a slice of SpecRowExport structs to a Parquet file.
func WriteSpecRowsParquet(data []SpecRowExport, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertComparisonRows converts staggered rows for Parquet export.
func ConvertComparisonRows(rows []schema.ComparisonRow) []SpecRow {
	result := make([]SpecRow, len(rows))
	for i, r := range rows {
		result[i] = SpecRow{
			SiloName:               r.SiloName,
			Gvar:                   r.Gvar,
			Treat:                  string(r.Treat),
			DiffTimes:              r.DiffTimes,
			GT:                     r.GT,
			RI:                     int32(r.RI),
			StartTime:              r.StartTime,
			EndTime:                r.EndTime,
			DiffEstimate:           r.DiffEstimate,
			DiffVar:                r.DiffVar,
			DiffEstimateCovariates: r.DiffEstimateCovariates,
			DiffVarCovariates:      r.DiffVarCovariates,
			Covariates:             r.Covariates,
			DateFormat:             r.DateFormat,
			Freq:                   r.Freq,
		}
	}
	return result
}

// ConvertCommonRows converts common-adoption rows for Parquet export.
func ConvertCommonRows(rows []schema.CommonRow) []CommonSpecRow {
	result := make([]CommonSpecRow, len(rows))
	for i, r := range rows {
		result[i] = CommonSpecRow{
			SiloName:               r.SiloName,
			Treat:                  string(r.Treat),
			CommonTreatmentTime:    r.CommonTreatmentTime,
			StartTime:              r.StartTime,
			EndTime:                r.EndTime,
			Weights:                string(r.Weights),
			DiffEstimate:           r.DiffEstimate,
			DiffVar:                r.DiffVar,
			DiffEstimateCovariates: r.DiffEstimateCovariates,
			DiffVarCovariates:      r.DiffVarCovariates,
			Covariates:             r.Covariates,
			DateFormat:             r.DateFormat,
			Freq:                   r.Freq,
		}
	}
	return result
}

// ConvertRunRecords converts schema.RunRecord to DesignRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []DesignRun {
	result := make([]DesignRun, len(records))
	for i, record := range records {
		result[i] = DesignRun{
			RunID:         record.RunID,
			RunUUID:       record.RunUUID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			Design:        record.Design,
			TotalRows:     record.TotalRows,
			RIRows:        record.RIRows,
			SiloCount:     record.SiloCount,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertSpecRowRecords converts schema.SpecRowRecord to SpecRowExport for Parquet export.
func ConvertSpecRowRecords(records []schema.SpecRowRecord) []SpecRowExport {
	result := make([]SpecRowExport, len(records))
	for i, record := range records {
		result[i] = SpecRowExport{
			RunID:     record.RunID,
			RowIndex:  record.RowIndex,
			SiloName:  record.SiloName,
			Gvar:      record.Gvar,
			Treat:     record.Treat,
			DiffTimes: record.DiffTimes,
			GT:        record.GT,
			RI:        record.RI,
		}
	}
	return result
}

// MockFetchRuns generates sample DesignRun data for demonstration.
func MockFetchRuns() []DesignRun {
	now := time.Now()
	end := now.Add(-1 * time.Hour)
	duration := int64(42)
	staggered := string(schema.StaggeredDesign)
	common := string(schema.CommonDesign)
	params := `{"freq":"1 year","ri":true}`

	return []DesignRun{
		{
			RunID:         1,
			RunUUID:       "5b0d7f3e-8f7a-4c55-9d1a-0c2f0a9e6b11",
			StartTime:     end.Add(-time.Duration(duration) * time.Millisecond),
			EndTime:       &end,
			RunDurationMs: &duration,
			Design:        &staggered,
			TotalRows:     54,
			RIRows:        18,
			SiloCount:     3,
			ConfigParams:  &params,
		},
		{
			RunID:     2,
			RunUUID:   "c3a9e2d4-1b6f-4e0a-8a57-2d9b7c1f4e22",
			StartTime: now,
			Design:    &common,
			TotalRows: 2,
		},
	}
}

// MockFetchSpecRows generates sample SpecRowExport data for demonstration.
func MockFetchSpecRows() []SpecRowExport {
	return []SpecRowExport{
		{RunID: 1, RowIndex: 0, SiloName: "71", Gvar: "1991", Treat: "1", DiffTimes: "1991;1990", GT: "1991;1991"},
		{RunID: 1, RowIndex: 1, SiloName: "73", Gvar: "1991", Treat: "0", DiffTimes: "1991;1990", GT: "1991;1991"},
		{RunID: 1, RowIndex: 2, SiloName: "58", Gvar: "1991", Treat: "-1", DiffTimes: "1991;1990", GT: "1991;1991", RI: 1},
	}
}
