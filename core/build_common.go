package core

import (
	"github.com/undid-go/undid/core/calendar"
	"github.com/undid-go/undid/schema"
)

// buildCommon emits one row per silo, in roster order.
func buildCommon(d *CommonDesign, layout calendar.Layout, weighting schema.Weighting) []schema.CommonRow {
	cohort := calendar.Format(d.cohort, layout)
	rows := make([]schema.CommonRow, 0, len(d.silos))
	for _, s := range d.silos {
		treat := schema.ControlTreat
		if s.treated {
			treat = schema.TreatedTreat
		}
		rows = append(rows, schema.CommonRow{
			SiloName:            s.name,
			Treat:               treat,
			CommonTreatmentTime: cohort,
			StartTime:           calendar.Format(s.start, layout),
			EndTime:             calendar.Format(s.end, layout),
			Weights:             weighting,
		})
	}
	return rows
}
