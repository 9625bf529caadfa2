// Package accrual implements credit-card interest math: APR resolution,
// grace-period eligibility, daily periodic interest, and statement-cycle
// boundaries. Pure functions, no I/O.
package accrual

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerrun-dev/ledgerrun/internal/dates"
	"github.com/ledgerrun-dev/ledgerrun/internal/model"
	"github.com/ledgerrun-dev/ledgerrun/internal/money"
)

// Rates provides in-memory lookup over one account's APR rates.
type Rates struct {
	rates []model.AprRate
	byID  map[string]model.AprRate
}

// NewRates builds a Rates lookup from a slice of rates.
func NewRates(rates []model.AprRate) *Rates {
	byID := make(map[string]model.AprRate, len(rates))
	for _, r := range rates {
		byID[r.ID] = r
	}
	return &Rates{rates: rates, byID: byID}
}

// Get returns a rate by ID.
func (rs *Rates) Get(id string) (model.AprRate, bool) {
	r, ok := rs.byID[id]
	return r, ok
}

// ActiveStandard returns the account's active STANDARD rate, if any.
func (rs *Rates) ActiveStandard() (model.AprRate, bool) {
	for _, r := range rs.rates {
		if r.Type == model.RateStandard && r.IsActive {
			return r, true
		}
	}
	return model.AprRate{}, false
}

// EffectiveAPR resolves the rate that prices a transaction: the rate
// explicitly linked to the transaction when that rate is still active,
// otherwise the account's active STANDARD rate. The second return is
// false when neither applies; such a transaction contributes zero
// interest and is skipped.
func EffectiveAPR(txn model.Transaction, rates *Rates) (decimal.Decimal, bool) {
	if txn.AprRateID != "" {
		if r, ok := rates.Get(txn.AprRateID); ok && r.IsActive {
			return r.APR, true
		}
	}
	if r, ok := rates.ActiveStandard(); ok {
		return r.APR, true
	}
	return decimal.Zero, false
}

// LastStatementCloseDate returns the most recent statement-close date on
// or before today: this month's close day once it has passed, otherwise
// last month's.
func LastStatementCloseDate(today time.Time, closeDay int) time.Time {
	today = dates.Midnight(today)
	if today.Day() >= closeDay {
		return time.Date(today.Year(), today.Month(), dates.ClampDay(today.Year(), today.Month(), closeDay), 0, 0, 0, 0, today.Location())
	}
	return dates.AddMonthsClamped(today, -1, closeDay)
}

// ShouldAccrue reports whether a purchase posted on txnDate accrues daily
// interest. Without full payment of the last statement every outstanding
// purchase accrues. With full payment a grace period applies: purchases
// after the most recent close date belong to the current cycle and are
// exempt, purchases from any prior cycle still accrue.
func ShouldAccrue(txnDate time.Time, cc model.CreditCardDetails, today time.Time) bool {
	if !cc.LastStatementPaidFull {
		return true
	}
	closeDate := LastStatementCloseDate(today, cc.StatementCloseDay)
	return !dates.Midnight(txnDate).After(closeDate)
}

// DailyInterest is one day's interest on a single purchase: |amount| at
// the annual rate over a 365-day year, rounded to cents.
func DailyInterest(amount, annualPct decimal.Decimal) decimal.Decimal {
	return money.RoundCents(amount.Abs().Mul(money.DailyRate(annualPct)))
}

// SavingsMonthlyInterest is one month's interest on a savings balance at
// the given APY, rounded to cents.
func SavingsMonthlyInterest(balance, apyPct decimal.Decimal) decimal.Decimal {
	return money.RoundCents(balance.Mul(money.MonthlyRate(apyPct)))
}

// PrevCloseDate is the statement-close date one calendar month before
// today's close, clamped to shorter months.
func PrevCloseDate(today time.Time, closeDay int) time.Time {
	return dates.AddMonthsClamped(dates.Midnight(today), -1, closeDay)
}

// PaidInFull reports whether payments cover the amount owed at the
// previous close. A zero owed amount is trivially paid in full.
func PaidInFull(owed, payments decimal.Decimal) bool {
	return owed.IsZero() || payments.GreaterThanOrEqual(owed)
}
