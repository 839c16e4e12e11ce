package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/undid-go/undid/schema"
)

func TestResolveFrequency(t *testing.T) {
	reg := NewRegistry()
	tests := []struct {
		name        string
		freq        string
		multiplier  int
		expected    string
		expectError bool
	}{
		{name: "yearly bare", freq: "yearly", multiplier: 1, expected: "year"},
		{name: "monthly plural", freq: "Monthly", multiplier: 3, expected: "3 months"},
		{name: "weekly", freq: "weekly", multiplier: 1, expected: "week"},
		{name: "daily plural", freq: "daily", multiplier: 2, expected: "2 days"},
		{name: "unknown name", freq: "quarterly", multiplier: 1, expectError: true},
		{name: "zero multiplier", freq: "yearly", multiplier: 0, expectError: true},
		{name: "negative multiplier", freq: "yearly", multiplier: -2, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step, err := reg.ResolveFrequency(tt.freq, tt.multiplier)
			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, schema.ErrFrequency)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, step.String())

			back, err := reg.ParseCanonical(step.String())
			require.NoError(t, err)
			assert.Equal(t, step, back)
		})
	}
}

func TestParseCanonicalInvalid(t *testing.T) {
	reg := NewRegistry()
	for _, s := range []string{"", "fortnight", "two years", "1 2 years", "0 years"} {
		_, err := reg.ParseCanonical(s)
		assert.ErrorIs(t, err, schema.ErrFrequency, s)
	}
}

func TestCheckCompatible(t *testing.T) {
	reg := NewRegistry()
	yearOnly, err := reg.Layout("yyyy")
	require.NoError(t, err)
	monthly, err := reg.Layout("mm/yyyy")
	require.NoError(t, err)

	assert.NoError(t, CheckCompatible(yearOnly, Step{Unit: YearUnit, Count: 1}))
	assert.ErrorIs(t, CheckCompatible(yearOnly, Step{Unit: MonthUnit, Count: 1}), schema.ErrFrequency)
	assert.NoError(t, CheckCompatible(monthly, Step{Unit: YearUnit, Count: 2}))
	assert.ErrorIs(t, CheckCompatible(monthly, Step{Unit: WeekUnit, Count: 1}), schema.ErrFrequency)
}

func TestStepBack(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		step     Step
		expected time.Time
	}{
		{"year", date(1991, time.January, 1), Step{YearUnit, 1}, date(1990, time.January, 1)},
		{"two years", date(1991, time.January, 1), Step{YearUnit, 2}, date(1989, time.January, 1)},
		{"leap day back a year", date(2020, time.February, 29), Step{YearUnit, 1}, date(2019, time.February, 28)},
		{"month end", date(2021, time.March, 31), Step{MonthUnit, 1}, date(2021, time.February, 28)},
		{"month end into leap february", date(2020, time.March, 31), Step{MonthUnit, 1}, date(2020, time.February, 29)},
		{"february end to january end", date(2021, time.February, 28), Step{MonthUnit, 1}, date(2021, time.January, 31)},
		{"mid month", date(2021, time.March, 15), Step{MonthUnit, 1}, date(2021, time.February, 15)},
		{"across year", date(2021, time.January, 1), Step{MonthUnit, 1}, date(2020, time.December, 1)},
		{"week", date(2021, time.January, 4), Step{WeekUnit, 1}, date(2020, time.December, 28)},
		{"days", date(2021, time.March, 1), Step{DayUnit, 2}, date(2021, time.February, 27)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StepBack(tt.from, tt.step))
		})
	}
}

func TestStepBackInvertsForward(t *testing.T) {
	steps := []Step{{YearUnit, 1}, {MonthUnit, 1}, {MonthUnit, 5}, {WeekUnit, 2}, {DayUnit, 1}}
	anchors := []time.Time{
		date(2020, time.January, 31),
		date(2020, time.February, 29),
		date(2019, time.December, 31),
		date(2021, time.June, 1),
	}
	for _, s := range steps {
		for _, a := range anchors {
			assert.Equal(t, a, StepBack(s.Shift(a, 1), s), "%s from %s", s, a.Format(time.DateOnly))
		}
	}
}

func TestSequence(t *testing.T) {
	t.Run("yearly inclusive", func(t *testing.T) {
		seq := Sequence(date(1991, time.January, 1), date(2000, time.January, 1), Step{YearUnit, 1})
		require.Len(t, seq, 10)
		assert.Equal(t, date(1991, time.January, 1), seq[0])
		assert.Equal(t, date(2000, time.January, 1), seq[9])
	})

	t.Run("stops before end", func(t *testing.T) {
		seq := Sequence(date(1991, time.January, 1), date(2000, time.January, 1), Step{YearUnit, 2})
		require.Len(t, seq, 5)
		assert.Equal(t, date(1999, time.January, 1), seq[4])
	})

	t.Run("single point", func(t *testing.T) {
		seq := Sequence(date(2000, time.January, 1), date(2000, time.January, 1), Step{YearUnit, 1})
		assert.Equal(t, []time.Time{date(2000, time.January, 1)}, seq)
	})

	t.Run("empty when reversed", func(t *testing.T) {
		assert.Empty(t, Sequence(date(2001, time.January, 1), date(2000, time.January, 1), Step{YearUnit, 1}))
	})

	t.Run("month ends do not drift", func(t *testing.T) {
		seq := Sequence(date(2021, time.January, 31), date(2021, time.May, 31), Step{MonthUnit, 1})
		assert.Equal(t, []time.Time{
			date(2021, time.January, 31),
			date(2021, time.February, 28),
			date(2021, time.March, 31),
			date(2021, time.April, 30),
			date(2021, time.May, 31),
		}, seq)
	})

	t.Run("clamped day recovers", func(t *testing.T) {
		seq := Sequence(date(2021, time.January, 30), date(2021, time.March, 31), Step{MonthUnit, 1})
		assert.Equal(t, []time.Time{
			date(2021, time.January, 30),
			date(2021, time.February, 28),
			date(2021, time.March, 30),
		}, seq)
	})
}
