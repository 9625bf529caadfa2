package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is a recurrence cadence for bills and loan installments.
type Frequency string

const (
	FreqWeekly    Frequency = "WEEKLY"
	FreqBiweekly  Frequency = "BIWEEKLY"
	FreqMonthly   Frequency = "MONTHLY"
	FreqQuarterly Frequency = "QUARTERLY"
	FreqAnnual    Frequency = "ANNUAL"
)

// RecurringBill is a bill the engine generates transactions for on a
// schedule. NextDueDate is strictly in the future immediately after a
// run that processed the bill.
type RecurringBill struct {
	ID               string
	UserID           string
	AccountID        string
	Name             string
	Amount           decimal.Decimal
	Frequency        Frequency
	DayOfMonth       int
	IsVariableAmount bool
	Category         string
	NextDueDate      time.Time
	IsActive         bool
}

// BillPayment records that a bill-month was paid. Multiple payments per
// (bill, month, year) are allowed.
type BillPayment struct {
	ID              string
	RecurringBillID string
	Month           int
	Year            int
	Amount          decimal.Decimal
	TransactionID   string // empty until a transaction is attached
	PaidAt          time.Time
}
