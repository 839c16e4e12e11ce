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

// summaryHeader is the CSV header of a silo summary.
var summaryHeader = []string{"silo_name", "treated", "control", "ri", "cohorts", "total_rows", "covariates"}

// WriteSummary outputs per-silo row counts, dispatching based on the output format configured.
func WriteSummary(summaries []schema.SiloSummary, table *schema.SpecTable, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				Design schema.DesignKind    `json:"design"`
				Rows   int                  `json:"rows"`
				Silos  []schema.SiloSummary `json:"silos"`
			}{table.Design, table.Len(), summaries})
		}, "Wrote JSON")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(w, summaries, table, cfg)
		}, "Wrote table")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSV(w, summaryHeader, summaryRecords(summaries))
		}, "Wrote CSV")
	}
}

func summaryRecords(summaries []schema.SiloSummary) [][]string {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.SiloName,
			strconv.Itoa(s.Treated),
			strconv.Itoa(s.Control),
			strconv.Itoa(s.RI),
			strconv.Itoa(s.Cohorts),
			strconv.Itoa(s.TotalRows),
			s.Covariates,
		})
	}
	return records
}

func writeSummaryTable(w io.Writer, summaries []schema.SiloSummary, table *schema.SpecTable, cfg *contract.Config) error {
	tbl := tablewriter.NewWriter(w)
	tbl.Header([]string{"Silo", "Treated", "Control", "RI", "Cohorts", "Rows"})
	tbl.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	nameWidth := getMaxTableNameWidth(cfg, 50)
	var data [][]string
	for _, rec := range summaryRecords(summaries) {
		data = append(data, append([]string{contract.TruncateName(rec[0], nameWidth)}, rec[1:6]...))
	}
	if err := tbl.Bulk(data); err != nil {
		return err
	}
	if err := tbl.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s design: %d rows across %d silos (%d RI)\n",
		table.Design, table.Len(), len(summaries), table.RICount())
	return err
}
