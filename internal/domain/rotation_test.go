package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRotationWeekContainsHalfOpen(t *testing.T) {
	week := RotationWeek{
		WeekStart: day(2026, time.August, 26),
		WeekEnd:   day(2026, time.September, 2),
	}

	assert.True(t, week.Contains(day(2026, time.August, 26)))
	assert.True(t, week.Contains(day(2026, time.September, 1)))
	assert.False(t, week.Contains(day(2026, time.September, 2)), "end boundary belongs to the next week")
	assert.False(t, week.Contains(day(2026, time.August, 25)))

	// Intraday timestamps count toward their calendar date.
	assert.True(t, week.Contains(time.Date(2026, time.September, 1, 23, 59, 0, 0, time.UTC)))
}

func TestNextRotationBoundary(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"wednesday stays", day(2026, time.August, 26), day(2026, time.August, 26)},
		{"thursday jumps a week", day(2026, time.August, 27), day(2026, time.September, 2)},
		{"monday snaps forward", day(2026, time.August, 24), day(2026, time.August, 26)},
		{"time of day ignored", time.Date(2026, time.August, 26, 18, 30, 0, 0, time.UTC), day(2026, time.August, 26)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextRotationBoundary(tc.in))
			assert.Equal(t, time.Wednesday, NextRotationBoundary(tc.in).Weekday())
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 7, DaysBetween(day(2026, time.August, 26), day(2026, time.September, 2)))
	assert.Equal(t, 0, DaysBetween(day(2026, time.August, 26), day(2026, time.August, 26)))
	assert.Equal(t, -3, DaysBetween(day(2026, time.August, 26), day(2026, time.August, 23)))

	// Partial days never round up.
	assert.Equal(t, 1, DaysBetween(
		time.Date(2026, time.August, 26, 23, 0, 0, 0, time.UTC),
		time.Date(2026, time.August, 27, 1, 0, 0, 0, time.UTC)))
}

func TestSwapStatusTerminal(t *testing.T) {
	assert.False(t, SwapStatusPending.Terminal())
	assert.True(t, SwapStatusApproved.Terminal())
	assert.True(t, SwapStatusRejected.Terminal())
}
