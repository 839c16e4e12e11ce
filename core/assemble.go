package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/undid-go/undid/core/calendar"
	"github.com/undid-go/undid/internal/contract"
	"github.com/undid-go/undid/schema"
)

// resolveCovariates picks the covariate list attached to every row.
// An explicit override wins, then the first non-empty roster value, then "none".
func resolveCovariates(override []string, silos []silo) string {
	var names []string
	for _, c := range override {
		names = append(names, schema.SplitSubFields(c)...)
	}
	if len(names) > 0 {
		return schema.JoinSubFields(names...)
	}

	var chosen, chosenBy string
	for _, s := range silos {
		v := schema.JoinSubFields(schema.SplitSubFields(s.covariates)...)
		if v == "" {
			continue
		}
		if chosen == "" {
			chosen, chosenBy = v, s.name
			continue
		}
		if v != chosen {
			contract.LogWarn("Covariates disagree across roster",
				fmt.Errorf("silo %q lists %q, using %q from silo %q", s.name, v, chosen, chosenBy))
		}
	}
	if chosen == "" {
		return schema.NoCovariates
	}
	return chosen
}

// assembleStaggered formats comparisons into rows sorted by cohort.
// Rows of the same cohort keep their build order.
func assembleStaggered(rows []comparison, d *StaggeredDesign, layout calendar.Layout, meta schema.Metadata) []schema.ComparisonRow {
	slices.SortStableFunc(rows, func(a, b comparison) int { return a.g.Compare(b.g) })

	start := calendar.Format(d.start, layout)
	end := calendar.Format(d.end, layout)
	out := make([]schema.ComparisonRow, 0, len(rows))
	for _, c := range rows {
		g := calendar.Format(c.g, layout)
		t := calendar.Format(c.t, layout)
		ri := 0
		if c.treat == schema.RITreat {
			ri = 1
		}
		out = append(out, schema.ComparisonRow{
			SiloName:  c.silo,
			Gvar:      g,
			Treat:     c.treat,
			DiffTimes: schema.JoinSubFields(t, calendar.Format(c.pre, layout)),
			GT:        schema.JoinSubFields(g, t),
			RI:        ri,
			StartTime: start,
			EndTime:   end,
			Metadata:  meta,
		})
	}
	return out
}

// attachCommonMetadata fills the trailing columns of common rows.
func attachCommonMetadata(rows []schema.CommonRow, meta schema.Metadata) {
	for i := range rows {
		rows[i].Metadata = meta
	}
}

// normalizeWeighting returns the configured weighting or the default.
func normalizeWeighting(w schema.Weighting) schema.Weighting {
	if v := strings.TrimSpace(string(w)); v != "" {
		return schema.Weighting(v)
	}
	return schema.StandardWeighting
}
