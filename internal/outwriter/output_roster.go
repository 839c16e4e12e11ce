package outwriter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/undid-go/undid/internal/contract"
	"github.com/undid-go/undid/internal/loader"
	"github.com/undid-go/undid/schema"
)

// WriteRoster writes a roster template. A .xlsx output file produces a
// workbook; anything else is CSV.
func WriteRoster(roster []schema.SiloRecord, cfg *contract.Config) error {
	if strings.EqualFold(filepath.Ext(cfg.OutputFile), loader.XLSXExt) {
		if err := loader.WriteRosterXLSX(cfg.OutputFile, roster); err != nil {
			return fmt.Errorf("error writing roster workbook: %w", err)
		}
		fmt.Fprintf(stderr, "💾 Wrote roster to %s\n", cfg.OutputFile)
		return nil
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSV(w, schema.RosterColumns, rosterRecords(roster))
	}, "Wrote roster")
}

func rosterRecords(roster []schema.SiloRecord) [][]string {
	records := make([][]string, 0, len(roster))
	for _, r := range roster {
		records = append(records, []string{r.SiloName, r.TreatmentTime, r.StartTime, r.EndTime, r.Covariates})
	}
	return records
}
