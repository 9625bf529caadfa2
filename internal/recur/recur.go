// Package recur computes next due dates for recurring bills and loan
// installments.
package recur

import (
	"time"

	"github.com/ledgerrun-dev/ledgerrun/internal/dates"
	"github.com/ledgerrun-dev/ledgerrun/internal/model"
)

// AdvanceOnce steps a due date forward by one period. Month-based
// frequencies land on dayOfMonth clamped to the target month's length;
// week-based frequencies ignore dayOfMonth. The result is normalized to
// midnight.
func AdvanceOnce(from time.Time, freq model.Frequency, dayOfMonth int) time.Time {
	from = dates.Midnight(from)
	if dayOfMonth <= 0 {
		dayOfMonth = from.Day()
	}
	switch freq {
	case model.FreqWeekly:
		return from.AddDate(0, 0, 7)
	case model.FreqBiweekly:
		return from.AddDate(0, 0, 14)
	case model.FreqQuarterly:
		return dates.AddMonthsClamped(from, 3, dayOfMonth)
	case model.FreqAnnual:
		return dates.AddMonthsClamped(from, 12, dayOfMonth)
	default: // MONTHLY, and the safe fallback for unknown values
		return dates.AddMonthsClamped(from, 1, dayOfMonth)
	}
}

// AdvanceUntilFuture steps from `current` until the result is strictly
// after `today`. A bill that missed any number of periods fast-forwards
// in one pass, so a run generates exactly one transaction for it while
// the stored next due date always ends up in the future.
func AdvanceUntilFuture(current time.Time, freq model.Frequency, dayOfMonth int, today time.Time) time.Time {
	next := dates.Midnight(current)
	today = dates.Midnight(today)
	for !next.After(today) {
		next = AdvanceOnce(next, freq, dayOfMonth)
	}
	return next
}
