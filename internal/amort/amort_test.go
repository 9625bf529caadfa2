package amort

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSplitPayment(t *testing.T) {
	// $10,000 at 12% annual: one month's interest is $100.
	split := SplitPayment(dec("10000"), dec("12"), dec("300"))
	assert.True(t, split.Interest.Equal(dec("100")), "interest %s", split.Interest)
	assert.True(t, split.Principal.Equal(dec("200")), "principal %s", split.Principal)
}

func TestSplitPayment_NegativeBalance(t *testing.T) {
	// Liability balances are negative; interest accrues on the magnitude.
	split := SplitPayment(dec("-10000"), dec("12"), dec("300"))
	assert.True(t, split.Interest.Equal(dec("100")))
	assert.True(t, split.Principal.Equal(dec("200")))
}

func TestSplitPayment_InterestExceedsPayment(t *testing.T) {
	// Payment below the interest due: interest is capped at the payment
	// and principal is never negative.
	split := SplitPayment(dec("100000"), dec("24"), dec("500"))
	assert.True(t, split.Interest.Equal(dec("500")), "interest %s", split.Interest)
	assert.True(t, split.Principal.IsZero(), "principal %s", split.Principal)
}

func TestSplitPayment_SumEqualsPayment(t *testing.T) {
	payment := dec("450.75")
	split := SplitPayment(dec("12345.67"), dec("7.25"), payment)
	assert.True(t, split.Principal.Add(split.Interest).Equal(payment))
}

func TestGenerateSchedule_FullyAmortizes(t *testing.T) {
	rows := GenerateSchedule(dec("10000"), dec("6"), dec("500"), 0)
	require.NotEmpty(t, rows)
	require.LessOrEqual(t, len(rows), MaxScheduleMonths)

	last := rows[len(rows)-1]
	assert.True(t, last.RemainingBalance.LessThanOrEqual(dec("0.005")),
		"final balance %s", last.RemainingBalance)
	// The capped final payment never exceeds the regular one.
	assert.True(t, last.Payment.LessThanOrEqual(dec("500")))
}

func TestGenerateSchedule_ZeroInterest(t *testing.T) {
	rows := GenerateSchedule(dec("1000"), dec("0"), dec("250"), 0)
	require.Len(t, rows, 4)
	for _, r := range rows {
		assert.True(t, r.Interest.IsZero())
	}
	assert.True(t, rows[3].RemainingBalance.IsZero())
}

func TestGenerateSchedule_CapsAtMaxMonths(t *testing.T) {
	// Payment barely above the interest due: the cap bounds the loop.
	rows := GenerateSchedule(dec("100000"), dec("12"), dec("1000.01"), 0)
	assert.LessOrEqual(t, len(rows), MaxScheduleMonths)
}

func TestGenerateSchedule_NoPaymentNoRows(t *testing.T) {
	assert.Nil(t, GenerateSchedule(dec("1000"), dec("5"), dec("0"), 0))
	assert.Nil(t, GenerateSchedule(dec("0"), dec("5"), dec("100"), 0))
}

func TestExtraPaymentImpact(t *testing.T) {
	impact := ExtraPaymentImpact(dec("10000"), dec("6"), dec("300"), dec("100"))

	base := GenerateSchedule(dec("10000"), dec("6"), dec("300"), 0)
	assert.Less(t, impact.MonthsToPayoff, len(base))
	assert.True(t, impact.InterestSaved.IsPositive(), "saved %s", impact.InterestSaved)

	// Saved interest plus the new total equals the original total.
	baseInterest := decimal.Zero
	for _, r := range base {
		baseInterest = baseInterest.Add(r.Interest)
	}
	sum := impact.NewTotalInterest.Add(impact.InterestSaved)
	assert.True(t, sum.Equal(baseInterest.Round(2)), "sum %s != base %s", sum, baseInterest)
}

func TestExtraPaymentImpact_NoExtra(t *testing.T) {
	impact := ExtraPaymentImpact(dec("5000"), dec("4"), dec("400"), dec("0"))
	assert.True(t, impact.InterestSaved.IsZero())
}
