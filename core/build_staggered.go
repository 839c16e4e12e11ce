package core

import (
	"time"

	"github.com/undid-go/undid/core/calendar"
	"github.com/undid-go/undid/schema"
)

// buildStaggered emits, for every silo in roster order, one comparison per
// post period of each cohort it takes part in. Treated silos take part in
// their own cohort; control silos take part in every cohort.
func buildStaggered(d *StaggeredDesign, step calendar.Step) []comparison {
	var rows []comparison
	for _, s := range d.silos {
		if s.treated {
			rows = append(rows, cohortRows(s.name, s.treatment, d.end, step, schema.TreatedTreat)...)
			continue
		}
		seen := make(map[key]struct{})
		for _, g := range d.cohorts {
			for _, c := range cohortRows(s.name, g, d.end, step, schema.ControlTreat) {
				if _, dup := seen[c.key()]; dup {
					continue
				}
				seen[c.key()] = struct{}{}
				rows = append(rows, c)
			}
		}
	}
	return rows
}

// cohortRows builds the comparisons of one silo against the baseline of cohort g.
func cohortRows(name string, g, end time.Time, step calendar.Step, treat schema.Treat) []comparison {
	pre := calendar.StepBack(g, step)
	grid := calendar.Sequence(g, end, step)
	rows := make([]comparison, 0, len(grid))
	for _, t := range grid {
		rows = append(rows, comparison{silo: name, g: g, t: t, pre: pre, treat: treat})
	}
	return rows
}
