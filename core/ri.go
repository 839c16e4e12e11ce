package core

import (
	"slices"

	"github.com/undid-go/undid/schema"
)

// augmentRI appends randomization-inference rows: every treated silo gets a
// copy of the reference control's rows for each cohort other than its own.
// The reference control is the lexicographically smallest control silo name.
func augmentRI(d *StaggeredDesign, rows []comparison) ([]comparison, error) {
	var controls []string
	for _, s := range d.silos {
		if !s.treated {
			controls = append(controls, s.name)
		}
	}
	if len(controls) == 0 {
		return nil, schema.NewSpecError(schema.ErrNoControlSilo,
			"randomization inference needs at least one control silo to clone comparisons from")
	}
	ref := slices.Min(controls)

	var refRows []comparison
	for _, c := range rows {
		if c.silo == ref {
			refRows = append(refRows, c)
		}
	}

	out := slices.Clip(rows)
	for _, s := range d.silos {
		if !s.treated {
			continue
		}
		for _, c := range refRows {
			if c.g.Equal(s.treatment) {
				continue
			}
			c.silo = s.name
			c.treat = schema.RITreat
			out = append(out, c)
		}
	}
	return out, nil
}
