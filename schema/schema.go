// Package schema has configs, models and constants for all parts of undid.
package schema

import (
	"strings"
)

// SiloRecord is one row of the roster as entered by the coordinating site.
// All fields are raw strings; dates are parsed under the configured layout.
type SiloRecord struct {
	SiloName      string `json:"silo_name"`
	TreatmentTime string `json:"treatment_time"` // ControlSentinel or a date string
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Covariates    string `json:"covariates,omitempty"` // semicolon-joined names
}

// IsControl reports whether the silo is never treated.
func (s SiloRecord) IsControl() bool {
	return strings.EqualFold(strings.TrimSpace(s.TreatmentTime), ControlSentinel)
}

// DiffColumns holds the four numeric columns that stage two fills in.
// A nil pointer is an empty cell.
type DiffColumns struct {
	DiffEstimate           *float64 `json:"diff_estimate"`
	DiffVar                *float64 `json:"diff_var"`
	DiffEstimateCovariates *float64 `json:"diff_estimate_covariates"`
	DiffVarCovariates      *float64 `json:"diff_var_covariates"`
}

// Metadata holds the uniform trailing columns attached to every row.
type Metadata struct {
	Covariates string `json:"covariates"`
	DateFormat string `json:"date_format"`
	Freq       string `json:"freq"`
}

// ComparisonRow is one staggered-adoption comparison sent to a silo.
type ComparisonRow struct {
	SiloName  string `json:"silo_name"`
	Gvar      string `json:"gvar"`
	Treat     Treat  `json:"treat"`
	DiffTimes string `json:"diff_times"` // "post;pre"
	GT        string `json:"gt"`         // "g;t"
	RI        int    `json:"RI"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	DiffColumns
	Metadata
}

// Post returns the post-period half of DiffTimes.
func (r ComparisonRow) Post() string {
	post, _, _ := strings.Cut(r.DiffTimes, SubFieldSep)
	return post
}

// Pre returns the pre-period half of DiffTimes.
func (r ComparisonRow) Pre() string {
	_, pre, _ := strings.Cut(r.DiffTimes, SubFieldSep)
	return pre
}

// CommonRow is one common-adoption row; there is exactly one per silo.
type CommonRow struct {
	SiloName            string    `json:"silo_name"`
	Treat               Treat     `json:"treat"`
	CommonTreatmentTime string    `json:"common_treatment_time"`
	StartTime           string    `json:"start_time"`
	EndTime             string    `json:"end_time"`
	Weights             Weighting `json:"weights"`
	DiffColumns
	Metadata
}

// SpecTable is the difference specification produced by stage one.
// Exactly one of Common or Staggered is populated, according to Design.
type SpecTable struct {
	Design    DesignKind      `json:"design"`
	Common    []CommonRow     `json:"common,omitempty"`
	Staggered []ComparisonRow `json:"staggered,omitempty"`
}

// Len returns the number of rows in the table.
func (t *SpecTable) Len() int {
	if t.Design == CommonDesign {
		return len(t.Common)
	}
	return len(t.Staggered)
}

// RICount returns the number of randomization-inference rows.
func (t *SpecTable) RICount() int {
	n := 0
	for _, r := range t.Staggered {
		if r.RI == 1 {
			n++
		}
	}
	return n
}

// Header returns the column names for the table's design.
func (t *SpecTable) Header() []string {
	if t.Design == CommonDesign {
		return CommonColumns
	}
	return StaggeredColumns
}

// Records flattens the table into string records matching Header.
func (t *SpecTable) Records() [][]string {
	out := make([][]string, 0, t.Len())
	if t.Design == CommonDesign {
		for _, r := range t.Common {
			rec := []string{r.SiloName, string(r.Treat), r.CommonTreatmentTime, r.StartTime, r.EndTime, string(r.Weights)}
			rec = append(rec, r.DiffColumns.strings()...)
			rec = append(rec, r.Covariates, r.DateFormat, r.Freq)
			out = append(out, rec)
		}
		return out
	}
	for _, r := range t.Staggered {
		rec := []string{r.SiloName, r.Gvar, string(r.Treat), r.DiffTimes, r.GT, formatInt(r.RI), r.StartTime, r.EndTime}
		rec = append(rec, r.DiffColumns.strings()...)
		rec = append(rec, r.Covariates, r.DateFormat, r.Freq)
		out = append(out, rec)
	}
	return out
}

// SiloNames returns the distinct silo names in first-seen order.
func (t *SpecTable) SiloNames() []string {
	seen := make(map[string]struct{})
	var names []string
	add := func(name string) {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	for _, r := range t.Common {
		add(r.SiloName)
	}
	for _, r := range t.Staggered {
		add(r.SiloName)
	}
	return names
}

// SplitSubFields splits a semicolon-joined field into trimmed, non-empty parts.
func SplitSubFields(s string) []string {
	var parts []string
	for p := range strings.SplitSeq(s, SubFieldSep) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// JoinSubFields joins parts with the sub-field separator.
func JoinSubFields(parts ...string) string {
	return strings.Join(parts, SubFieldSep)
}
