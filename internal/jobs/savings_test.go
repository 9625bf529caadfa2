package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerrun-dev/ledgerrun/internal/model"
)

func TestRunSavingsInterest_PaysMonthlyInterest(t *testing.T) {
	runner, db, _ := newTestEnv(t)
	ctx := context.Background()
	today := date(2025, 3, 1)

	seedAccount(t, db, "savings", model.AccountTypeSavings, "10000")
	seedRate(t, db, model.AprRate{
		ID: "apy", AccountID: "savings", Type: model.RateStandard, APR: dec("4.5"),
		EffectiveDate: date(2024, 1, 1), IsActive: true,
	})

	s, err := runner.RunSavingsInterest(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Processed)

	// 10000 * 4.5% / 12 = 37.50.
	assert.Equal(t, "10037.50", accountBalance(t, db, "savings").StringFixed(2))

	txns, err := db.AccountTransactions(ctx, "savings")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, model.TxnInterestEarned, txns[0].Type)
	assert.Equal(t, model.SourceSystem, txns[0].Source)
	assert.Equal(t, "37.50", txns[0].Amount.StringFixed(2))

	logs, err := db.AccountInterestLogs(ctx, "savings")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.InterestEarned, logs[0].Type)
	assert.Equal(t, "37.50", logs[0].Amount.StringFixed(2))
}

func TestRunSavingsInterest_TinyBalanceRoundsToZero(t *testing.T) {
	runner, db, _ := newTestEnv(t)
	ctx := context.Background()

	seedAccount(t, db, "savings", model.AccountTypeSavings, "0.01")
	seedRate(t, db, model.AprRate{
		ID: "apy", AccountID: "savings", Type: model.RateStandard, APR: dec("0.01"),
		EffectiveDate: date(2024, 1, 1), IsActive: true,
	})

	s, err := runner.RunSavingsInterest(ctx, date(2025, 3, 1))
	require.NoError(t, err)
	assert.Zero(t, s.Processed)
	assert.Equal(t, 1, s.Skipped)

	// A zero rounded result writes nothing at all.
	assert.Equal(t, "0.01", accountBalance(t, db, "savings").StringFixed(2))
	count, err := db.CountTransactions(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	logs, err := db.AccountInterestLogs(ctx, "savings")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestRunSavingsInterest_NoRateSkips(t *testing.T) {
	runner, db, _ := newTestEnv(t)
	ctx := context.Background()

	seedAccount(t, db, "savings", model.AccountTypeSavings, "10000")

	s, err := runner.RunSavingsInterest(ctx, date(2025, 3, 1))
	require.NoError(t, err)
	assert.Zero(t, s.Processed)
	assert.Equal(t, 1, s.Skipped)
	assert.Zero(t, s.Failed, "missing rate is a skip, not a failure")

	count, err := db.CountTransactions(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
