package jobs

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ledgerrun-dev/ledgerrun/internal/logging"
	"github.com/ledgerrun-dev/ledgerrun/internal/model"
	"github.com/ledgerrun-dev/ledgerrun/internal/store"
)

func newTestEnv(t *testing.T) (*Runner, *store.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, logging.NewWithWriter(io.Discard)), db, path
}

// execSQL runs a raw statement over a second connection, used to inject
// write failures for isolation tests.
func execSQL(t *testing.T, path, stmt string) {
	t.Helper()
	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer raw.Close()
	_, err = raw.Exec(stmt)
	require.NoError(t, err)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedAccount(t *testing.T, db *store.DB, id string, typ model.AccountType, balance string) {
	t.Helper()
	require.NoError(t, db.InsertAccount(context.Background(), model.Account{
		ID:       id,
		UserID:   "user-1",
		Name:     "account " + id,
		Type:     typ,
		Balance:  dec(balance),
		IsActive: true,
	}))
}

func seedTransaction(t *testing.T, db *store.DB, txn model.Transaction) {
	t.Helper()
	require.NoError(t, db.Atomic(context.Background(), func(tx *store.Tx) error {
		return tx.InsertTransaction(txn)
	}))
}

func accountBalance(t *testing.T, db *store.DB, id string) decimal.Decimal {
	t.Helper()
	account, err := db.GetAccount(context.Background(), id)
	require.NoError(t, err)
	return account.Balance
}
