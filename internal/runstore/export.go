package runstore

import (
	"errors"
	"fmt"
	"io"

	"github.com/undid-go/undid/internal/contract"
	"github.com/undid-go/undid/internal/parquet"
)

// Export writes every recorded run and row to two Parquet files
// named after outputFile.
func Export(mgr contract.StoreManager, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := mgr.GetRunStore()
	if store == nil {
		return errors.New("run tracking is disabled; set --runs-backend")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no recorded runs found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total design runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total spec rows: %d\n", status.TableSizes[specRowsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve design runs: %w", err)
	}
	rows, err := store.GetAllSpecRows()
	if err != nil {
		return fmt.Errorf("failed to retrieve spec rows: %w", err)
	}

	runsFile := outputFile + ".design_runs.parquet"
	parquetRuns := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write design runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d design runs to: %s\n", len(parquetRuns), runsFile)

	rowsFile := outputFile + ".spec_rows.parquet"
	parquetRows := parquet.ConvertSpecRowRecords(rows)
	if err := parquet.WriteSpecRowsParquet(parquetRows, rowsFile); err != nil {
		return fmt.Errorf("failed to write spec rows: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d spec rows to: %s\n", len(parquetRows), rowsFile)

	return nil
}
