package calendar

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/undid-go/undid/schema"
)

// Unit is a calendar stepping unit.
type Unit string

// All units supported.
const (
	YearUnit  Unit = "year"
	MonthUnit Unit = "month"
	WeekUnit  Unit = "week"
	DayUnit   Unit = "day"
)

// granularity is the coarsest layout granularity able to carry the unit.
func (u Unit) granularity() Granularity {
	switch u {
	case YearUnit:
		return YearGranularity
	case MonthUnit:
		return MonthGranularity
	default:
		return DayGranularity
	}
}

// Step is a canonical frequency: a unit repeated Count times.
type Step struct {
	Unit  Unit
	Count int
}

// String renders the canonical frequency: "year" for one unit, "2 years" otherwise.
func (s Step) String() string {
	if s.Count == 1 {
		return string(s.Unit)
	}
	return fmt.Sprintf("%d %ss", s.Count, s.Unit)
}

// ResolveFrequency normalizes a frequency name and multiplier.
func (r *Registry) ResolveFrequency(name string, multiplier int) (Step, error) {
	unit, ok := r.frequencies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Step{}, schema.NewSpecError(schema.ErrFrequency, "invalid frequency %q; must be one of %s", name, strings.Join(r.Frequencies(), ", "))
	}
	if multiplier < 1 {
		return Step{}, schema.NewSpecError(schema.ErrFrequency, "frequency multiplier must be a positive integer (received %d)", multiplier)
	}
	return Step{Unit: unit, Count: multiplier}, nil
}

// ParseCanonical reads a canonical frequency string ("month", "3 weeks")
// as written into the freq column.
func (r *Registry) ParseCanonical(freq string) (Step, error) {
	fields := strings.Fields(strings.TrimSpace(freq))
	count := 1
	unitStr := ""
	switch len(fields) {
	case 1:
		unitStr = fields[0]
	case 2:
		if _, err := fmt.Sscanf(fields[0], "%d", &count); err != nil || count < 1 {
			return Step{}, schema.NewSpecError(schema.ErrFrequency, "invalid frequency %q", freq)
		}
		unitStr = strings.TrimSuffix(fields[1], "s")
	default:
		return Step{}, schema.NewSpecError(schema.ErrFrequency, "invalid frequency %q", freq)
	}
	for _, u := range r.frequencies {
		if string(u) == strings.ToLower(unitStr) {
			return Step{Unit: u, Count: count}, nil
		}
	}
	return Step{}, schema.NewSpecError(schema.ErrFrequency, "invalid frequency %q", freq)
}

// Frequencies returns every supported frequency name, sorted.
func (r *Registry) Frequencies() []string {
	names := make([]string, 0, len(r.frequencies))
	for n := range r.frequencies {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// CheckCompatible rejects steps finer than the layout can represent, since
// grid dates would not survive the round trip through the persisted strings.
func CheckCompatible(l Layout, s Step) error {
	if s.Unit.granularity() < l.Granularity {
		return schema.NewSpecError(schema.ErrFrequency, "frequency %q is finer than date format %q can represent", s.String(), l.Token)
	}
	return nil
}

// Shift moves t by n steps; n may be negative. Month and year steps keep
// month-end dates on the month end and clamp other days to the target
// month's length.
func (s Step) Shift(t time.Time, n int) time.Time {
	k := n * s.Count
	switch s.Unit {
	case YearUnit:
		return addMonths(t, 12*k)
	case MonthUnit:
		return addMonths(t, k)
	case WeekUnit:
		return t.AddDate(0, 0, 7*k)
	default:
		return t.AddDate(0, 0, k)
	}
}

// StepBack returns the date exactly one step before t.
func StepBack(t time.Time, s Step) time.Time {
	return s.Shift(t, -1)
}

// Sequence returns from, from+step, ... up to and including to.
// Each element is computed from the anchor, so month-end clamping never
// accumulates. It is empty when from is after to.
func Sequence(from, to time.Time, s Step) []time.Time {
	if from.After(to) || s.Count < 1 {
		return nil
	}
	var out []time.Time
	for i := 0; ; i++ {
		d := s.Shift(from, i)
		if d.After(to) {
			return out
		}
		out = append(out, d)
	}
}

func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + months
	ty := y + floorDiv(total, 12)
	tm := time.Month(total - 12*floorDiv(total, 12) + 1)
	last := daysIn(ty, tm)
	if d == daysIn(y, m) || d > last {
		d = last
	}
	return time.Date(ty, tm, d, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
