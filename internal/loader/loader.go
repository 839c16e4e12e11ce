// Package loader reads rosters and persisted specifications from disk.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/undid-go/undid/schema"
)

// Supported roster file extensions.
const (
	CSVExt  = ".csv"
	XLSXExt = ".xlsx"
)

// LoadRoster reads a roster, dispatching on the file extension.
func LoadRoster(path string) ([]schema.SiloRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case CSVExt:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open roster: %w", err)
		}
		defer func() { _ = f.Close() }()
		return ReadRosterCSV(f)
	case XLSXExt:
		return ReadRosterXLSX(path)
	default:
		return nil, schema.NewSpecError(schema.ErrRoster, "unsupported roster file %q; expected %s or %s", path, CSVExt, XLSXExt)
	}
}

// ReadRosterCSV reads a roster with a header row from r.
func ReadRosterCSV(r io.Reader) ([]schema.SiloRecord, error) {
	rows, err := readAllCSV(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster CSV: %w", err)
	}
	return ParseRosterRows(rows)
}

// ParseRosterRows turns a header row plus data rows into silo records.
// Header names match case-insensitively; blank rows are skipped.
func ParseRosterRows(rows [][]string) ([]schema.SiloRecord, error) {
	if len(rows) == 0 {
		return nil, schema.NewSpecError(schema.ErrRoster, "roster has no header row")
	}
	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range schema.RosterColumns {
		if col == schema.ColCovariates {
			continue
		}
		if _, ok := idx[col]; !ok {
			return nil, schema.NewSpecError(schema.ErrRoster, "roster is missing column %q", col)
		}
	}

	var out []schema.SiloRecord
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		out = append(out, schema.SiloRecord{
			SiloName:      get(schema.ColSiloName),
			TreatmentTime: get(schema.ColTreatmentTime),
			StartTime:     get(schema.ColStartTime),
			EndTime:       get(schema.ColEndTime),
			Covariates:    get(schema.ColCovariates),
		})
	}
	return out, nil
}

// LoadSpecCSV reads a persisted specification table.
func LoadSpecCSV(path string) (*schema.SpecTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open specification: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadSpecCSV(f)
}

// ReadSpecCSV reads a specification table from r; the design is detected from the header.
func ReadSpecCSV(r io.Reader) (*schema.SpecTable, error) {
	rows, err := readAllCSV(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read specification CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, schema.NewSpecError(schema.ErrRoster, "specification has no header row")
	}
	var data [][]string
	for _, row := range rows[1:] {
		if !isBlank(row) {
			data = append(data, row)
		}
	}
	return schema.ParseSpecRecords(rows[0], data)
}

func readAllCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
