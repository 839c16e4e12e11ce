package loader

import (
	"fmt"

	"github.com/undid-go/undid/schema"
	"github.com/xuri/excelize/v2"
)

// ReadRosterXLSX reads the roster from the first sheet of a workbook.
func ReadRosterXLSX(path string) ([]schema.SiloRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, schema.NewSpecError(schema.ErrRoster, "workbook %q has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return ParseRosterRows(rows)
}

// WriteRosterXLSX saves a roster to a single-sheet workbook.
func WriteRosterXLSX(path string, roster []schema.SiloRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &schema.RosterColumns); err != nil {
		return err
	}
	for i, r := range roster {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []string{r.SiloName, r.TreatmentTime, r.StartTime, r.EndTime, r.Covariates}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
