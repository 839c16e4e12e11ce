package core

import (
	"slices"
	"time"

	"github.com/undid-go/undid/core/calendar"
	"github.com/undid-go/undid/schema"
)

// Design is the adoption pattern detected from a roster.
// It is either a *CommonDesign or a *StaggeredDesign.
type Design interface {
	Kind() schema.DesignKind
	isDesign()
}

// CommonDesign is a roster where every treated silo adopts at one date.
type CommonDesign struct {
	silos  []silo
	cohort time.Time
}

// Kind implements Design.
func (d *CommonDesign) Kind() schema.DesignKind { return schema.CommonDesign }

// Cohort returns the single treatment date.
func (d *CommonDesign) Cohort() time.Time { return d.cohort }

func (d *CommonDesign) isDesign() {}

// StaggeredDesign is a roster with two or more distinct treatment dates
// observed over one shared window.
type StaggeredDesign struct {
	silos   []silo
	cohorts []time.Time
	start   time.Time
	end     time.Time
}

// Kind implements Design.
func (d *StaggeredDesign) Kind() schema.DesignKind { return schema.StaggeredDesign }

// Cohorts returns the distinct treatment dates in chronological order.
func (d *StaggeredDesign) Cohorts() []time.Time { return slices.Clone(d.cohorts) }

// Window returns the shared observation window.
func (d *StaggeredDesign) Window() (start, end time.Time) { return d.start, d.end }

func (d *StaggeredDesign) isDesign() {}

// classify picks the design from the number of distinct treatment dates.
func classify(silos []silo, layout calendar.Layout, step calendar.Step) (Design, error) {
	cohorts := distinctCohorts(silos)
	hasControl := slices.ContainsFunc(silos, func(s silo) bool { return !s.treated })

	distinct := len(cohorts)
	if hasControl {
		distinct++
	}
	if distinct < 2 {
		return nil, schema.NewSpecError(schema.ErrCohortCount,
			"roster has a single distinct treatment_time; need a control silo and a treatment date, or at least two treatment dates")
	}

	if len(cohorts) == 1 {
		return &CommonDesign{silos: silos, cohort: cohorts[0]}, nil
	}

	start, end := silos[0].start, silos[0].end
	for _, s := range silos[1:] {
		if !s.start.Equal(start) || !s.end.Equal(end) {
			return nil, schema.NewSiloError(schema.ErrWindow, s.name,
				"window %s..%s differs from %s..%s; staggered rosters share one observation window",
				calendar.Format(s.start, layout), calendar.Format(s.end, layout),
				calendar.Format(start, layout), calendar.Format(end, layout))
		}
	}
	for _, g := range cohorts {
		if pre := calendar.StepBack(g, step); pre.Before(start) {
			return nil, schema.NewSpecError(schema.ErrOrdering,
				"baseline %s of cohort %s falls before start_time %s",
				calendar.Format(pre, layout), calendar.Format(g, layout), calendar.Format(start, layout))
		}
	}
	return &StaggeredDesign{silos: silos, cohorts: cohorts, start: start, end: end}, nil
}

// distinctCohorts returns the distinct treatment dates sorted ascending.
func distinctCohorts(silos []silo) []time.Time {
	var cohorts []time.Time
	for _, s := range silos {
		if !s.treated {
			continue
		}
		if !slices.ContainsFunc(cohorts, s.treatment.Equal) {
			cohorts = append(cohorts, s.treatment)
		}
	}
	slices.SortFunc(cohorts, func(a, b time.Time) int { return a.Compare(b) })
	return cohorts
}
