package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerrun-dev/ledgerrun/internal/model"
	"github.com/ledgerrun-dev/ledgerrun/internal/store"
)

func seedBill(t *testing.T, db *store.DB, bill model.RecurringBill) {
	t.Helper()
	require.NoError(t, db.InsertBill(context.Background(), bill))
}

func testBill(id, accountID string, amount string, due time.Time) model.RecurringBill {
	return model.RecurringBill{
		ID:          id,
		UserID:      "user-1",
		AccountID:   accountID,
		Name:        "electric",
		Amount:      dec(amount),
		Frequency:   model.FreqMonthly,
		DayOfMonth:  due.Day(),
		Category:    "utilities",
		NextDueDate: due,
		IsActive:    true,
	}
}

func TestRunRecurringBills_FixedBill(t *testing.T) {
	runner, db, _ := newTestEnv(t)
	ctx := context.Background()
	today := date(2025, 3, 1)

	seedAccount(t, db, "checking", model.AccountTypeChecking, "500")
	seedBill(t, db, testBill("bill-1", "checking", "50.00", today))

	s, err := runner.RunRecurringBills(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Processed)
	assert.Zero(t, s.Failed)
	assert.Zero(t, s.VariablePending)

	// Balance dropped by exactly the bill amount.
	assert.Equal(t, "450.00", accountBalance(t, db, "checking").StringFixed(2))

	// The expense is stored negated.
	txns, err := db.AccountTransactions(ctx, "checking")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "-50.00", txns[0].Amount.StringFixed(2))
	assert.Equal(t, model.TxnExpense, txns[0].Type)
	assert.Equal(t, model.SourceRecurring, txns[0].Source)

	// Bill payment ledger row points at the transaction.
	payments, err := db.BillPayments(ctx, "bill-1")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, txns[0].ID, payments[0].TransactionID)
	assert.Equal(t, 3, payments[0].Month)
	assert.Equal(t, 2025, payments[0].Year)

	// The bill is no longer due.
	due, err := db.DueBills(ctx, today)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestRunRecurringBills_VariableBillLeavesBalance(t *testing.T) {
	runner, db, _ := newTestEnv(t)
	ctx := context.Background()
	today := date(2025, 3, 1)

	seedAccount(t, db, "checking", model.AccountTypeChecking, "500")
	bill := testBill("bill-1", "checking", "50.00", today)
	bill.IsVariableAmount = true
	seedBill(t, db, bill)

	s, err := runner.RunRecurringBills(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Processed)
	assert.Equal(t, 1, s.VariablePending)

	// Balance untouched until the user confirms the real amount.
	assert.Equal(t, "500.00", accountBalance(t, db, "checking").StringFixed(2))

	txns, err := db.AccountTransactions(ctx, "checking")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, model.PendingConfirmationNote, txns[0].Notes)

	payments, err := db.BillPayments(ctx, "bill-1")
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestRunRecurringBills_PastDueGeneratesOneTransaction(t *testing.T) {
	runner, db, _ := newTestEnv(t)
	ctx := context.Background()
	today := date(2025, 3, 1)

	seedAccount(t, db, "checking", model.AccountTypeChecking, "500")
	// Eight months overdue: still exactly one transaction this run.
	seedBill(t, db, testBill("bill-1", "checking", "50.00", date(2024, 7, 1)))

	s, err := runner.RunRecurringBills(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Processed)

	txns, err := db.AccountTransactions(ctx, "checking")
	require.NoError(t, err)
	assert.Len(t, txns, 1)

	due, err := db.DueBills(ctx, today)
	require.NoError(t, err)
	assert.Empty(t, due, "next due date must land strictly in the future")
}

func TestRunRecurringBills_ErrorIsolation(t *testing.T) {
	runner, db, path := newTestEnv(t)
	ctx := context.Background()
	today := date(2025, 3, 1)

	seedAccount(t, db, "bad", model.AccountTypeChecking, "500")
	seedAccount(t, db, "good", model.AccountTypeChecking, "500")
	seedBill(t, db, testBill("bill-bad", "bad", "50.00", today))
	seedBill(t, db, testBill("bill-good", "good", "50.00", today))

	// Any write against the bad account aborts its transaction.
	execSQL(t, path, `
		CREATE TRIGGER refuse_bad BEFORE INSERT ON transactions
		WHEN NEW.account_id = 'bad'
		BEGIN SELECT RAISE(ABORT, 'write refused'); END
	`)

	s, err := runner.RunRecurringBills(ctx, today)
	require.NoError(t, err, "one entity failing never aborts the run")
	assert.Equal(t, 1, s.Processed)
	assert.Equal(t, 1, s.Failed)

	// The good bill's writes are present.
	goodTxns, err := db.AccountTransactions(ctx, "good")
	require.NoError(t, err)
	assert.Len(t, goodTxns, 1)

	// The bad bill rolled back completely and stays due for the next run.
	badTxns, err := db.AccountTransactions(ctx, "bad")
	require.NoError(t, err)
	assert.Empty(t, badTxns)
	assert.Equal(t, "500.00", accountBalance(t, db, "bad").StringFixed(2))

	due, err := db.DueBills(ctx, today)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "bill-bad", due[0].ID)
}

func TestRunRecurringBills_IdempotentWhenNothingDue(t *testing.T) {
	runner, db, _ := newTestEnv(t)
	ctx := context.Background()
	today := date(2025, 3, 1)

	seedAccount(t, db, "checking", model.AccountTypeChecking, "500")
	seedBill(t, db, testBill("bill-1", "checking", "50.00", today))

	_, err := runner.RunRecurringBills(ctx, today)
	require.NoError(t, err)
	before, err := db.CountTransactions(ctx)
	require.NoError(t, err)

	// Second run the same day: nothing due, zero writes, no run recorded.
	s, err := runner.RunRecurringBills(ctx, today)
	require.NoError(t, err)
	assert.Zero(t, s.Processed)
	assert.Zero(t, s.Failed)

	after, err := db.CountTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	runs, err := db.RunsFor(ctx, JobRecurringBills)
	require.NoError(t, err)
	assert.Len(t, runs, 1, "empty selection records no run")
}
