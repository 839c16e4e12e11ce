package outwriter

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/undid-go/undid/internal/contract"
	"github.com/undid-go/undid/internal/parquet"
	"github.com/undid-go/undid/schema"
)

// WriteSpec outputs the specification, dispatching based on the output format configured.
func WriteSpec(table *schema.SpecTable, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSpecJSON(w, table)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("parquet output requires an output file")
		}
		if err := parquet.WriteSpecParquet(table, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		fmt.Fprintf(stderr, "💾 Wrote parquet to %s\n", cfg.OutputFile)
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSpecTable(w, table, cfg, duration)
		}, "Wrote table")
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSpecCSV(w, table)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	}
	return nil
}

// writeSpecCSV writes the persisted form: header plus every column as a string.
func writeSpecCSV(w io.Writer, table *schema.SpecTable) error {
	return writeCSV(w, table.Header(), table.Records())
}

// writeSpecJSON writes the rows of the table as a JSON array.
func writeSpecJSON(w io.Writer, table *schema.SpecTable) error {
	if table.Design == schema.CommonDesign {
		rows := table.Common
		if rows == nil {
			rows = []schema.CommonRow{}
		}
		return writeJSON(w, rows)
	}
	rows := table.Staggered
	if rows == nil {
		rows = []schema.ComparisonRow{}
	}
	return writeJSON(w, rows)
}

// writeSpecTable generates and writes the human-readable table.
func writeSpecTable(w io.Writer, table *schema.SpecTable, cfg *contract.Config, duration time.Duration) error {
	tbl := tablewriter.NewWriter(w)
	tbl.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	if table.Design == schema.CommonDesign {
		tbl.Header([]string{"Silo", "Label", "Treatment", "Start", "End", "Weights"})
		nameWidth := getMaxTableNameWidth(cfg, 55)
		for _, r := range table.Common {
			data = append(data, []string{
				contract.TruncateName(r.SiloName, nameWidth),
				treatLabel(r.Treat, cfg),
				r.CommonTreatmentTime,
				r.StartTime,
				r.EndTime,
				string(r.Weights),
			})
		}
	} else {
		tbl.Header([]string{"Silo", "Label", "Cohort", "Post", "Pre", "RI"})
		nameWidth := getMaxTableNameWidth(cfg, 50)
		for _, r := range table.Staggered {
			data = append(data, []string{
				contract.TruncateName(r.SiloName, nameWidth),
				treatLabel(r.Treat, cfg),
				r.Gvar,
				r.Post(),
				r.Pre(),
				fmt.Sprintf("%d", r.RI),
			})
		}
	}

	if err := tbl.Bulk(data); err != nil {
		return err
	}
	if err := tbl.Render(); err != nil {
		return err
	}

	meta := tableMetadata(table)
	if _, err := fmt.Fprintf(w, "Showing %d rows (%d RI) across %d silos. Design: %s, frequency: %s, covariates: %s\n",
		table.Len(), table.RICount(), len(table.SiloNames()), table.Design, meta.Freq, meta.Covariates); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Built in %v. Runs backend: %s\n", duration, cfg.RunsBackend); err != nil {
		return err
	}
	return nil
}

// tableMetadata returns the trailing columns shared by every row.
func tableMetadata(table *schema.SpecTable) schema.Metadata {
	if len(table.Common) > 0 {
		return table.Common[0].Metadata
	}
	if len(table.Staggered) > 0 {
		return table.Staggered[0].Metadata
	}
	return schema.Metadata{}
}
