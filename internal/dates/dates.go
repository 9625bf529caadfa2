// Package dates provides calendar-aware date stepping for the batch
// engines. All day-boundary comparisons happen on dates normalized to
// midnight in a single reference location.
package dates

import "time"

// Midnight truncates t to 00:00:00 in its own location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay clamps a day-of-month to the length of the given month.
func ClampDay(year int, month time.Month, day int) int {
	if max := DaysInMonth(year, month); day > max {
		return max
	}
	return day
}

// AddMonthsClamped steps n months from t, landing on day-of-month `day`
// clamped to the target month's length (Jan 31 + 1 month = Feb 28/29,
// never Mar 2). The result is normalized to midnight.
func AddMonthsClamped(t time.Time, n int, day int) time.Time {
	// Normalize to the first so AddDate cannot overflow into the month
	// after the one we are targeting.
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	return time.Date(first.Year(), first.Month(), ClampDay(first.Year(), first.Month(), day), 0, 0, 0, 0, t.Location())
}

// IsLastDayOfMonth reports whether t falls on the final calendar day of
// its month.
func IsLastDayOfMonth(t time.Time) bool {
	return t.Day() == DaysInMonth(t.Year(), t.Month())
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
