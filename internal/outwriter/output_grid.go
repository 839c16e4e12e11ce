package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/undid-go/undid/internal/contract"
	"github.com/undid-go/undid/schema"
)

// gridHeader is the CSV header of a period grid.
var gridHeader = []string{"index", "cohort", "post", "pre", "gt", "diff_times"}

// WriteGrid outputs a period grid, dispatching based on the output format configured.
func WriteGrid(grid *schema.GridResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, grid)
		}, "Wrote JSON")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeGridTable(w, grid)
		}, "Wrote table")
	default:
		// Parquet is reserved for specification tables; grids fall back to CSV.
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSV(w, gridHeader, gridRecords(grid))
		}, "Wrote CSV")
	}
}

func gridRecords(grid *schema.GridResult) [][]string {
	records := make([][]string, 0, len(grid.Periods))
	for i, t := range grid.Periods {
		records = append(records, []string{
			strconv.Itoa(i),
			grid.Cohort,
			t,
			grid.Pre,
			schema.JoinSubFields(grid.Cohort, t),
			schema.JoinSubFields(t, grid.Pre),
		})
	}
	return records
}

func writeGridTable(w io.Writer, grid *schema.GridResult) error {
	tbl := tablewriter.NewWriter(w)
	tbl.Header([]string{"#", "Post", "Pre", "GT"})
	tbl.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, rec := range gridRecords(grid) {
		data = append(data, []string{rec[0], rec[2], rec[3], rec[4]})
	}
	if err := tbl.Bulk(data); err != nil {
		return err
	}
	if err := tbl.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Cohort %s: %d periods every %s, baseline %s (%s)\n",
		grid.Cohort, len(grid.Periods), grid.Freq, grid.Pre, grid.Format)
	return err
}
