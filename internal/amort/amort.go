// Package amort implements fixed-payment amortization math: splitting a
// payment into principal and interest, projecting the remaining schedule,
// and measuring the impact of extra payments. Pure functions, no I/O.
package amort

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerrun-dev/ledgerrun/internal/money"
)

// MaxScheduleMonths bounds schedule generation at 50 years.
const MaxScheduleMonths = 600

// payoffEpsilon treats sub-cent residue as fully amortized.
var payoffEpsilon = decimal.NewFromFloat(0.005)

// Split is one payment divided into principal and interest.
type Split struct {
	Principal decimal.Decimal
	Interest  decimal.Decimal
}

// SplitPayment divides a payment against an outstanding balance at the
// given annual rate. Interest is one month's accrual on |balance|, capped
// at the payment; principal is the remainder, never negative.
func SplitPayment(balance, annualPct, payment decimal.Decimal) Split {
	interest := money.RoundCents(balance.Abs().Mul(money.MonthlyRate(annualPct)))
	if interest.GreaterThan(payment) {
		interest = payment
	}
	principal := payment.Sub(interest)
	if principal.IsNegative() {
		principal = decimal.Zero
	}
	return Split{Principal: principal, Interest: interest}
}

// Row is one month of a projected schedule.
type Row struct {
	Month            int
	Payment          decimal.Decimal
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	RemainingBalance decimal.Decimal
}

// GenerateSchedule projects the remaining payments on a balance at the
// given annual rate. The final payment is capped at the remaining balance
// plus that month's interest so the loan never overpays. Generation stops
// when the balance is paid off or after maxMonths rows; pass 0 to use
// MaxScheduleMonths.
func GenerateSchedule(balance, annualPct, payment decimal.Decimal, maxMonths int) []Row {
	if maxMonths <= 0 || maxMonths > MaxScheduleMonths {
		maxMonths = MaxScheduleMonths
	}
	if balance.LessThanOrEqual(payoffEpsilon) || !payment.IsPositive() {
		return nil
	}

	rate := money.MonthlyRate(annualPct)
	remaining := balance
	var rows []Row

	for month := 1; month <= maxMonths; month++ {
		interest := money.RoundCents(remaining.Mul(rate))
		due := payment
		// Final payment: only what is left plus this month's interest.
		if due.GreaterThan(remaining.Add(interest)) {
			due = remaining.Add(interest)
		}
		principal := due.Sub(interest)
		if principal.IsNegative() {
			principal = decimal.Zero
		}
		remaining = money.RoundCents(remaining.Sub(principal))
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		rows = append(rows, Row{
			Month:            month,
			Payment:          money.RoundCents(due),
			Principal:        money.RoundCents(principal),
			Interest:         interest,
			RemainingBalance: remaining,
		})

		if remaining.LessThanOrEqual(payoffEpsilon) {
			break
		}
	}
	return rows
}

// Impact summarizes what an extra monthly payment does to a loan.
type Impact struct {
	MonthsToPayoff   int
	InterestSaved    decimal.Decimal
	NewTotalInterest decimal.Decimal
}

// ExtraPaymentImpact compares the schedule with and without `extra` added
// to each payment.
func ExtraPaymentImpact(balance, annualPct, payment, extra decimal.Decimal) Impact {
	base := GenerateSchedule(balance, annualPct, payment, 0)
	boosted := GenerateSchedule(balance, annualPct, payment.Add(extra), 0)

	baseInterest := totalInterest(base)
	boostedInterest := totalInterest(boosted)

	return Impact{
		MonthsToPayoff:   len(boosted),
		InterestSaved:    money.RoundCents(baseInterest.Sub(boostedInterest)),
		NewTotalInterest: money.RoundCents(boostedInterest),
	}
}

func totalInterest(rows []Row) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Interest)
	}
	return total
}
