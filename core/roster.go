package core

import (
	"errors"
	"strings"
	"time"

	"github.com/undid-go/undid/core/calendar"
	"github.com/undid-go/undid/schema"
)

// silo is a roster entry with its dates parsed under the configured layout.
type silo struct {
	name       string
	treated    bool
	treatment  time.Time // zero for control silos
	start      time.Time
	end        time.Time
	covariates string
}

// parseRoster parses and validates every roster entry before any row is built.
func parseRoster(roster []schema.SiloRecord, layout calendar.Layout) ([]silo, error) {
	if len(roster) == 0 {
		return nil, schema.NewSpecError(schema.ErrRoster, "roster is empty")
	}
	seen := make(map[string]struct{}, len(roster))
	silos := make([]silo, 0, len(roster))
	for i, rec := range roster {
		name := strings.TrimSpace(rec.SiloName)
		if name == "" {
			return nil, schema.NewSpecError(schema.ErrRoster, "row %d has an empty silo name", i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, schema.NewSiloError(schema.ErrRoster, name, "duplicate silo name")
		}
		seen[name] = struct{}{}

		s := silo{name: name, covariates: rec.Covariates}
		var err error
		if s.start, err = parseSiloDate(rec.StartTime, name, layout); err != nil {
			return nil, err
		}
		if s.end, err = parseSiloDate(rec.EndTime, name, layout); err != nil {
			return nil, err
		}
		if !rec.IsControl() {
			s.treated = true
			if s.treatment, err = parseSiloDate(rec.TreatmentTime, name, layout); err != nil {
				return nil, err
			}
		}
		if err := checkOrdering(s, layout); err != nil {
			return nil, err
		}
		silos = append(silos, s)
	}
	return silos, nil
}

// parseSiloDate attaches the silo name to a calendar parse failure.
func parseSiloDate(value, name string, layout calendar.Layout) (time.Time, error) {
	t, err := calendar.Parse(value, layout)
	if err != nil {
		var se *schema.SpecError
		if errors.As(err, &se) {
			return time.Time{}, schema.NewSiloError(se.Kind, name, "%s", se.Msg)
		}
		return time.Time{}, err
	}
	return t, nil
}

// checkOrdering enforces start < end, and start < treatment <= end for treated silos.
func checkOrdering(s silo, layout calendar.Layout) error {
	if !s.start.Before(s.end) {
		return schema.NewSiloError(schema.ErrOrdering, s.name, "start_time %s must be before end_time %s",
			calendar.Format(s.start, layout), calendar.Format(s.end, layout))
	}
	if !s.treated {
		return nil
	}
	if !s.start.Before(s.treatment) {
		return schema.NewSiloError(schema.ErrOrdering, s.name, "start_time %s must be before treatment_time %s",
			calendar.Format(s.start, layout), calendar.Format(s.treatment, layout))
	}
	if s.treatment.After(s.end) {
		return schema.NewSiloError(schema.ErrOrdering, s.name, "treatment_time %s must not be after end_time %s",
			calendar.Format(s.treatment, layout), calendar.Format(s.end, layout))
	}
	return nil
}
