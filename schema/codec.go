package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// strings renders the numeric columns; nil cells are empty.
func (d DiffColumns) strings() []string {
	return []string{formatFloat(d.DiffEstimate), formatFloat(d.DiffVar), formatFloat(d.DiffEstimateCovariates), formatFloat(d.DiffVarCovariates)}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

// parseFloat treats empty cells and NA markers as missing.
func parseFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "NA") || strings.EqualFold(s, "missing") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// DetectDesign infers the design from a persisted header.
func DetectDesign(header []string) (DesignKind, error) {
	idx := indexHeader(header)
	if _, ok := idx[ColGT]; ok {
		return StaggeredDesign, nil
	}
	if _, ok := idx[ColWeights]; ok {
		return CommonDesign, nil
	}
	return "", NewSpecError(ErrRoster, "header has neither %q nor %q; not a specification table", ColGT, ColWeights)
}

// ParseSpecRecords rebuilds a SpecTable from a persisted header and records.
// Columns are located by name, so column order does not matter.
func ParseSpecRecords(header []string, records [][]string) (*SpecTable, error) {
	design, err := DetectDesign(header)
	if err != nil {
		return nil, err
	}
	want := StaggeredColumns
	if design == CommonDesign {
		want = CommonColumns
	}
	idx := indexHeader(header)
	for _, col := range want {
		if _, ok := idx[col]; !ok {
			return nil, NewSpecError(ErrRoster, "specification is missing column %q", col)
		}
	}

	table := &SpecTable{Design: design}
	for line, rec := range records {
		get := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		diffs, err := parseDiffColumns(get)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line+1, err)
		}
		meta := Metadata{Covariates: get(ColCovariates), DateFormat: get(ColDateFormat), Freq: get(ColFreq)}
		treat := Treat(strings.TrimSpace(get(ColTreat)))
		if _, ok := ValidTreats[treat]; !ok {
			return nil, NewSpecError(ErrRoster, "row %d: invalid treat value %q", line+1, treat)
		}

		if design == CommonDesign {
			table.Common = append(table.Common, CommonRow{
				SiloName:            get(ColSiloName),
				Treat:               treat,
				CommonTreatmentTime: get(ColCommonTreatmentTime),
				StartTime:           get(ColStartTime),
				EndTime:             get(ColEndTime),
				Weights:             Weighting(get(ColWeights)),
				DiffColumns:         diffs,
				Metadata:            meta,
			})
			continue
		}

		ri, err := strconv.Atoi(strings.TrimSpace(get(ColRI)))
		if err != nil {
			return nil, NewSpecError(ErrRoster, "row %d: invalid RI value %q", line+1, get(ColRI))
		}
		table.Staggered = append(table.Staggered, ComparisonRow{
			SiloName:    get(ColSiloName),
			Gvar:        get(ColGvar),
			Treat:       treat,
			DiffTimes:   get(ColDiffTimes),
			GT:          get(ColGT),
			RI:          ri,
			StartTime:   get(ColStartTime),
			EndTime:     get(ColEndTime),
			DiffColumns: diffs,
			Metadata:    meta,
		})
	}
	return table, nil
}

func parseDiffColumns(get func(string) string) (DiffColumns, error) {
	var d DiffColumns
	targets := []struct {
		col string
		dst **float64
	}{
		{ColDiffEstimate, &d.DiffEstimate},
		{ColDiffVar, &d.DiffVar},
		{ColDiffEstimateCovariates, &d.DiffEstimateCovariates},
		{ColDiffVarCovariates, &d.DiffVarCovariates},
	}
	for _, t := range targets {
		v, err := parseFloat(get(t.col))
		if err != nil {
			return d, fmt.Errorf("invalid %s value: %w", t.col, err)
		}
		*t.dst = v
	}
	return d, nil
}

// indexHeader maps trimmed column names to their position. A UTF-8 BOM on
// the first column is ignored.
func indexHeader(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		idx[h] = i
	}
	return idx
}
