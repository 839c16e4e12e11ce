package core

import (
	"github.com/undid-go/undid/core/calendar"
	"github.com/undid-go/undid/schema"
)

// CreateDiffSpec builds the difference specification for a roster.
// It is pure and safe to call concurrently on independent rosters.
func CreateDiffSpec(reg *calendar.Registry, roster []schema.SiloRecord, opts Options) (*schema.SpecTable, error) {
	b := NewSpecBuilder(reg, roster, opts)
	if _, err := b.ResolveCalendar(); err != nil {
		return nil, err
	}
	if _, err := b.ParseRoster(); err != nil {
		return nil, err
	}
	if _, err := b.ClassifyDesign(); err != nil {
		return nil, err
	}
	b.BuildRows()
	if _, err := b.AugmentRI(); err != nil {
		return nil, err
	}
	return b.Assemble().GetResult(), nil
}

// PeriodGrid returns the post periods of a cohort up to end, together with
// the cohort's baseline, formatted under the given layout.
func PeriodGrid(reg *calendar.Registry, cohort, end string, opts Options) (*schema.GridResult, error) {
	b, err := NewSpecBuilder(reg, nil, opts).ResolveCalendar()
	if err != nil {
		return nil, err
	}
	g, err := calendar.Parse(cohort, b.layout)
	if err != nil {
		return nil, err
	}
	last, err := calendar.Parse(end, b.layout)
	if err != nil {
		return nil, err
	}
	if last.Before(g) {
		return nil, schema.NewSpecError(schema.ErrOrdering, "end %s is before cohort %s", end, cohort)
	}
	periods := calendar.Sequence(g, last, b.step)
	res := &schema.GridResult{
		Cohort:  calendar.Format(g, b.layout),
		Pre:     calendar.Format(calendar.StepBack(g, b.step), b.layout),
		Periods: make([]string, 0, len(periods)),
		Freq:    b.step.String(),
		Format:  b.layout.Token,
	}
	for _, t := range periods {
		res.Periods = append(res.Periods, calendar.Format(t, b.layout))
	}
	return res, nil
}
