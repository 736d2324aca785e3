package domain

import "time"

// Rotation weeks run Wednesday to Wednesday with half-open boundaries:
// the week covers [WeekStart, WeekEnd) and the boundary day belongs to the
// incoming operator's week, never the outgoing one.

// RotationWeek is one base weekly on-call assignment.
type RotationWeek struct {
	ID         string
	OperatorID string
	WeekStart  time.Time
	WeekEnd    time.Time
	WeekNumber int
	Year       int
	// SwapRequestID is set when an approved swap reassigned this week.
	SwapRequestID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Contains reports whether date falls inside the half-open week interval.
func (w RotationWeek) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(w.WeekStart)) && d.Before(DateOnly(w.WeekEnd))
}

// Swapped reports whether this week's ownership came from an approved swap.
func (w RotationWeek) Swapped() bool {
	return w.SwapRequestID != nil
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextRotationBoundary returns the first Wednesday on or after t.
func NextRotationBoundary(t time.Time) time.Time {
	d := DateOnly(t)
	offset := (int(time.Wednesday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}

// DaysBetween returns the whole calendar days from a to b, negative when b
// precedes a.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}
