package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerrun-dev/ledgerrun/internal/model"
	"github.com/ledgerrun-dev/ledgerrun/internal/store"
)

func ratesByID(t *testing.T, db *store.DB, accountID string) map[string]model.AprRate {
	t.Helper()
	rates, err := db.AccountRates(context.Background(), accountID)
	require.NoError(t, err)
	out := make(map[string]model.AprRate, len(rates))
	for _, r := range rates {
		out[r.ID] = r
	}
	return out
}

func TestRunAprExpiration_ReassignsToStandard(t *testing.T) {
	runner, db, _ := newTestEnv(t)
	ctx := context.Background()
	today := date(2025, 6, 1)

	seedAccount(t, db, "card", model.AccountTypeCreditCard, "-500")
	seedRate(t, db, model.AprRate{
		ID: "intro", AccountID: "card", Type: model.RateIntro, APR: dec("0"),
		EffectiveDate: date(2024, 1, 1), ExpirationDate: date(2025, 1, 1), IsActive: true,
	})
	seedRate(t, db, model.AprRate{
		ID: "std", AccountID: "card", Type: model.RateStandard, APR: dec("24.99"),
		EffectiveDate: date(2024, 1, 1), IsActive: true,
	})
	for _, id := range []string{"p-1", "p-2"} {
		seedTransaction(t, db, model.Transaction{
			ID: id, UserID: "user-1", AccountID: "card", Date: date(2024, 6, 1),
			Amount: dec("-100"), Type: model.TxnExpense, Source: model.SourceManual,
			AprRateID: "intro",
		})
	}

	s, err := runner.RunAprExpiration(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Processed)

	rates := ratesByID(t, db, "card")
	assert.False(t, rates["intro"].IsActive)
	assert.True(t, rates["std"].IsActive)

	txns, err := db.AccountTransactions(ctx, "card")
	require.NoError(t, err)
	require.Len(t, txns, 2)
	for _, txn := range txns {
		assert.Equal(t, "std", txn.AprRateID, "references move to the standard rate")
	}
}

func TestRunAprExpiration_ClearsWhenNoStandard(t *testing.T) {
	runner, db, _ := newTestEnv(t)
	ctx := context.Background()
	today := date(2025, 6, 1)

	seedAccount(t, db, "card", model.AccountTypeCreditCard, "-500")
	seedRate(t, db, model.AprRate{
		ID: "promo", AccountID: "card", Type: model.RatePromotional, APR: dec("9.99"),
		EffectiveDate: date(2024, 1, 1), ExpirationDate: date(2025, 1, 1), IsActive: true,
	})
	seedTransaction(t, db, model.Transaction{
		ID: "p-1", UserID: "user-1", AccountID: "card", Date: date(2024, 6, 1),
		Amount: dec("-100"), Type: model.TxnExpense, Source: model.SourceManual,
		AprRateID: "promo",
	})

	s, err := runner.RunAprExpiration(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Processed)

	rates := ratesByID(t, db, "card")
	assert.False(t, rates["promo"].IsActive)

	txns, err := db.AccountTransactions(ctx, "card")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Empty(t, txns[0].AprRateID, "with no fallback rate the reference is cleared")
}

func TestRunAprExpiration_NoLinkedTransactions(t *testing.T) {
	runner, db, _ := newTestEnv(t)
	ctx := context.Background()
	today := date(2025, 6, 1)

	seedAccount(t, db, "card", model.AccountTypeCreditCard, "-500")
	seedRate(t, db, model.AprRate{
		ID: "intro", AccountID: "card", Type: model.RateIntro, APR: dec("0"),
		EffectiveDate: date(2024, 1, 1), ExpirationDate: date(2025, 1, 1), IsActive: true,
	})

	s, err := runner.RunAprExpiration(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Processed)

	rates := ratesByID(t, db, "card")
	assert.False(t, rates["intro"].IsActive)

	// Second run finds nothing expired and records nothing.
	s, err = runner.RunAprExpiration(ctx, today)
	require.NoError(t, err)
	assert.Zero(t, s.Processed)
	runs, err := db.RunsFor(ctx, JobAprExpiration)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
