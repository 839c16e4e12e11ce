// Package calendar parses and formats roster dates under a declared layout
// and steps through period grids at a resolved frequency.
package calendar

import (
	"slices"
	"strings"
	"time"

	"github.com/undid-go/undid/schema"
)

// Granularity is the finest calendar unit a layout can represent.
type Granularity int

// Granularities ordered from finest to coarsest.
const (
	DayGranularity Granularity = iota
	MonthGranularity
	YearGranularity
)

// Layout is a supported date format token and its Go reference layout.
type Layout struct {
	Token       string
	GoLayout    string
	Granularity Granularity
	lowerMonth  bool // format abbreviated months in lower case (25dec2020)
}

// Registry holds the immutable layout and frequency tables.
// Build it once with NewRegistry and pass it to whatever needs it.
type Registry struct {
	layouts     map[string]Layout
	frequencies map[string]Unit
}

// NewRegistry builds the lookup tables for every supported token.
func NewRegistry() *Registry {
	layouts := []Layout{
		{Token: "yyyy/mm/dd", GoLayout: "2006/01/02", Granularity: DayGranularity},
		{Token: "yyyy-mm-dd", GoLayout: "2006-01-02", Granularity: DayGranularity},
		{Token: "yyyymmdd", GoLayout: "20060102", Granularity: DayGranularity},
		{Token: "yyyy/dd/mm", GoLayout: "2006/02/01", Granularity: DayGranularity},
		{Token: "yyyy-dd-mm", GoLayout: "2006-02-01", Granularity: DayGranularity},
		{Token: "yyyyddmm", GoLayout: "20060201", Granularity: DayGranularity},
		{Token: "dd/mm/yyyy", GoLayout: "02/01/2006", Granularity: DayGranularity},
		{Token: "dd-mm-yyyy", GoLayout: "02-01-2006", Granularity: DayGranularity},
		{Token: "ddmmyyyy", GoLayout: "02012006", Granularity: DayGranularity},
		{Token: "mm/dd/yyyy", GoLayout: "01/02/2006", Granularity: DayGranularity},
		{Token: "mm-dd-yyyy", GoLayout: "01-02-2006", Granularity: DayGranularity},
		{Token: "mmddyyyy", GoLayout: "01022006", Granularity: DayGranularity},
		{Token: "ddmonyyyy", GoLayout: "02Jan2006", Granularity: DayGranularity, lowerMonth: true},
		{Token: "mm/yyyy", GoLayout: "01/2006", Granularity: MonthGranularity},
		{Token: "mm-yyyy", GoLayout: "01-2006", Granularity: MonthGranularity},
		{Token: "mmyyyy", GoLayout: "012006", Granularity: MonthGranularity},
		{Token: "yyyym00", GoLayout: "2006m1", Granularity: MonthGranularity},
		{Token: "yyyy", GoLayout: "2006", Granularity: YearGranularity},
	}
	r := &Registry{
		layouts: make(map[string]Layout, len(layouts)),
		frequencies: map[string]Unit{
			"yearly":  YearUnit,
			"monthly": MonthUnit,
			"weekly":  WeekUnit,
			"daily":   DayUnit,
		},
	}
	for _, l := range layouts {
		r.layouts[l.Token] = l
	}
	return r
}

// Layout looks up a date format token.
func (r *Registry) Layout(token string) (Layout, error) {
	l, ok := r.layouts[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return Layout{}, schema.NewSpecError(schema.ErrFormat, "unsupported date format %q; must be one of %s", token, strings.Join(r.Tokens(), ", "))
	}
	return l, nil
}

// Tokens returns every supported date format token, sorted.
func (r *Registry) Tokens() []string {
	tokens := make([]string, 0, len(r.layouts))
	for t := range r.layouts {
		tokens = append(tokens, t)
	}
	slices.Sort(tokens)
	return tokens
}

// Parse reads a date string under the layout. Dates are returned at
// midnight UTC; fields absent from the layout default to the first
// month or day.
func Parse(s string, l Layout) (time.Time, error) {
	t, err := time.Parse(l.GoLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, schema.NewSpecError(schema.ErrFormat, "cannot parse %q as %s", s, l.Token)
	}
	return t, nil
}

// Format writes a date under the layout. It is the inverse of Parse for
// every date at or coarser than the layout's granularity.
func Format(t time.Time, l Layout) string {
	s := t.Format(l.GoLayout)
	if l.lowerMonth {
		s = strings.ToLower(s)
	}
	return s
}
