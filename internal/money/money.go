// Package money holds the rounding and periodic-rate conventions used by
// every engine that touches currency. All amounts are decimal.Decimal;
// binary floating point is never used for money.
package money

import "github.com/shopspring/decimal"

var (
	hundred     = decimal.NewFromInt(100)
	twelve      = decimal.NewFromInt(12)
	daysPerYear = decimal.NewFromInt(365)
)

// RoundCents rounds to 2 decimal places, half away from zero. Statement
// math rounds at each step, not just at the end.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MonthlyRate converts an annual percentage (4.5 means 4.5%) to a monthly
// fractional rate.
func MonthlyRate(annualPct decimal.Decimal) decimal.Decimal {
	return annualPct.Div(hundred).Div(twelve)
}

// DailyRate converts an annual percentage to a daily fractional rate on a
// 365-day year.
func DailyRate(annualPct decimal.Decimal) decimal.Decimal {
	return annualPct.Div(hundred).Div(daysPerYear)
}

// PerHundred converts a fee-per-hundred figure (15 means $15 per $100) to
// a fractional rate.
func PerHundred(fee decimal.Decimal) decimal.Decimal {
	return fee.Div(hundred)
}
