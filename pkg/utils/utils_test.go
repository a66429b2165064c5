package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsNoOverflow(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "mid-month is untouched",
			start:    date(2020, time.January, 15),
			months:   1,
			expected: date(2020, time.February, 15),
		},
		{
			name:     "jan 31 clamps to feb 29 in a leap year",
			start:    date(2020, time.January, 31),
			months:   1,
			expected: date(2020, time.February, 29),
		},
		{
			name:     "jan 31 clamps to feb 28 in a common year",
			start:    date(2021, time.January, 31),
			months:   1,
			expected: date(2021, time.February, 28),
		},
		{
			name:     "oct 31 clamps to nov 30",
			start:    date(2020, time.October, 31),
			months:   1,
			expected: date(2020, time.November, 30),
		},
		{
			name:     "year rollover",
			start:    date(2020, time.December, 15),
			months:   1,
			expected: date(2021, time.January, 15),
		},
		{
			name:     "several months at once",
			start:    date(2020, time.January, 31),
			months:   3,
			expected: date(2020, time.April, 30),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddMonthsNoOverflow(tt.start, tt.months))
		})
	}
}

func TestAddMonthsNoOverflowChained(t *testing.T) {
	// Chaining from Jan 31 sticks to the clamped day, it does not recover 31.
	d := date(2020, time.January, 31)
	d = AddMonthsNoOverflow(d, 1)
	assert.Equal(t, date(2020, time.February, 29), d)
	d = AddMonthsNoOverflow(d, 1)
	assert.Equal(t, date(2020, time.March, 29), d)
}

func TestTruncateToDate(t *testing.T) {
	ts := time.Date(2020, time.May, 3, 17, 45, 12, 999, time.UTC)
	assert.Equal(t, date(2020, time.May, 3), TruncateToDate(ts))
}
