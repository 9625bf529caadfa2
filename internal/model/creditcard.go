package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditCardDetails holds billing-cycle state for a credit-card account
// (1:1 with Account).
type CreditCardDetails struct {
	AccountID             string
	StatementCloseDay     int
	PaymentDueDay         int
	GracePeriodDays       int
	LastStatementBalance  decimal.Decimal
	LastStatementPaidFull bool
	MinimumPaymentPct     decimal.Decimal
	MinimumPaymentFloor   decimal.Decimal
}

// RateType classifies APR rates on a credit-card account.
type RateType string

const (
	RateStandard        RateType = "STANDARD"
	RateIntro           RateType = "INTRO"
	RateBalanceTransfer RateType = "BALANCE_TRANSFER"
	RateCashAdvance     RateType = "CASH_ADVANCE"
	RatePenalty         RateType = "PENALTY"
	RatePromotional     RateType = "PROMOTIONAL"
)

// AprRate is one APR on an account. At most one STANDARD rate is active
// per account; it drives fallback resolution for unlinked transactions.
type AprRate struct {
	ID             string
	AccountID      string
	Type           RateType
	APR            decimal.Decimal // annual percentage, 24.99 means 24.99%
	EffectiveDate  time.Time
	ExpirationDate time.Time // zero when the rate never expires
	IsActive       bool
}

// Expired reports whether the rate's expiration date has passed.
func (r AprRate) Expired(today time.Time) bool {
	return !r.ExpirationDate.IsZero() && r.ExpirationDate.Before(today)
}

// InterestLogType distinguishes charged from earned interest.
type InterestLogType string

const (
	InterestCharged InterestLogType = "CHARGED"
	InterestEarned  InterestLogType = "EARNED"
)

// InterestLog is an append-only audit record of an interest event,
// independent of whether it was also posted as a Transaction.
type InterestLog struct {
	ID        string
	UserID    string
	AccountID string
	Date      time.Time
	Amount    decimal.Decimal
	Type      InterestLogType
	Notes     string
}
