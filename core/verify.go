package core

import (
	"errors"
	"fmt"

	"github.com/undid-go/undid/core/calendar"
	"github.com/undid-go/undid/schema"
)

// VerifySpec checks a table read back from disk against the structural rules
// every built table satisfies: treat and RI agree, (silo, gt, treat) is
// unique, and every staggered row sits one step after its cohort baseline.
func VerifySpec(reg *calendar.Registry, t *schema.SpecTable) error {
	if t == nil || t.Len() == 0 {
		return schema.NewSpecError(schema.ErrRoster, "specification has no rows")
	}
	if t.Design == schema.CommonDesign {
		return verifyCommon(t.Common)
	}
	return verifyStaggered(reg, t.Staggered)
}

func verifyCommon(rows []schema.CommonRow) error {
	cohort := rows[0].CommonTreatmentTime
	seen := make(map[string]struct{}, len(rows))
	for i, r := range rows {
		if r.Treat != schema.TreatedTreat && r.Treat != schema.ControlTreat {
			return schema.NewSiloError(schema.ErrRoster, r.SiloName, "row %d: treat %q is not valid for a common design", i+1, r.Treat)
		}
		if r.CommonTreatmentTime != cohort {
			return schema.NewSiloError(schema.ErrCohortCount, r.SiloName, "row %d: common_treatment_time %q differs from %q", i+1, r.CommonTreatmentTime, cohort)
		}
		if _, dup := seen[r.SiloName]; dup {
			return schema.NewSiloError(schema.ErrRoster, r.SiloName, "row %d: duplicate silo", i+1)
		}
		seen[r.SiloName] = struct{}{}
	}
	return nil
}

func verifyStaggered(reg *calendar.Registry, rows []schema.ComparisonRow) error {
	type rowKey struct {
		silo, gt string
		treat    schema.Treat
	}
	seen := make(map[rowKey]struct{}, len(rows))
	for i, r := range rows {
		if (r.Treat == schema.RITreat) != (r.RI == 1) {
			return schema.NewSiloError(schema.ErrRoster, r.SiloName, "row %d: RI=%d does not match treat %q", i+1, r.RI, r.Treat)
		}
		k := rowKey{silo: r.SiloName, gt: r.GT, treat: r.Treat}
		if _, dup := seen[k]; dup {
			return schema.NewSiloError(schema.ErrRoster, r.SiloName, "row %d: duplicate comparison gt=%q treat=%q", i+1, r.GT, r.Treat)
		}
		seen[k] = struct{}{}
		if err := verifyBaseline(reg, r); err != nil {
			return withRow(err, r.SiloName, i+1)
		}
	}
	return nil
}

// verifyBaseline checks gt = "gvar;post" and diff_times = "post;StepBack(gvar)".
func verifyBaseline(reg *calendar.Registry, r schema.ComparisonRow) error {
	layout, err := reg.Layout(r.DateFormat)
	if err != nil {
		return err
	}
	step, err := reg.ParseCanonical(r.Freq)
	if err != nil {
		return err
	}
	g, err := calendar.Parse(r.Gvar, layout)
	if err != nil {
		return err
	}
	parts := schema.SplitSubFields(r.GT)
	if len(parts) != 2 || parts[0] != r.Gvar || parts[1] != r.Post() {
		return schema.NewSpecError(schema.ErrRoster, "gt %q does not match gvar %q and diff_times %q", r.GT, r.Gvar, r.DiffTimes)
	}
	if _, err := calendar.Parse(r.Post(), layout); err != nil {
		return err
	}
	if want := calendar.Format(calendar.StepBack(g, step), layout); r.Pre() != want {
		return schema.NewSpecError(schema.ErrOrdering, "baseline %q should be %q for cohort %q", r.Pre(), want, r.Gvar)
	}
	return nil
}

// withRow re-attributes a row failure to its silo and row number.
func withRow(err error, silo string, row int) error {
	var se *schema.SpecError
	if errors.As(err, &se) {
		return schema.NewSiloError(se.Kind, silo, "row %d: %s", row, se.Msg)
	}
	return fmt.Errorf("row %d: %w", row, err)
}
