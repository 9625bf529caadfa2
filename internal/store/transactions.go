package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ledgerrun-dev/ledgerrun/internal/model"
)

const txnCols = `id, user_id, account_id, date, description, amount, type, source,
	category, notes, linked_transaction_id, apr_rate_id`

// InsertTransaction creates one ledger record inside the atomic unit.
func (t *Tx) InsertTransaction(txn model.Transaction) error {
	var linked, rate any
	if txn.LinkedTransactionID != "" {
		linked = txn.LinkedTransactionID
	}
	if txn.AprRateID != "" {
		rate = txn.AprRateID
	}
	_, err := t.tx.Exec(`
		INSERT INTO transactions (`+txnCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, txn.ID, txn.UserID, txn.AccountID, fmtDate(txn.Date), txn.Description,
		txn.Amount.String(), string(txn.Type), string(txn.Source),
		txn.Category, txn.Notes, linked, rate)
	if err != nil {
		return fmt.Errorf("inserting transaction %s: %w", txn.ID, err)
	}
	return nil
}

// SetTransactionLink back-fills the linked-transaction reference on an
// existing row. This is the one permitted mutation of a transaction,
// used to pair transfer legs (first leg inserted unlinked, second leg
// inserted with the link, then the first leg patched).
func (t *Tx) SetTransactionLink(txnID, linkedID string) error {
	res, err := t.tx.Exec(`UPDATE transactions SET linked_transaction_id = ? WHERE id = ?`, linkedID, txnID)
	if err != nil {
		return fmt.Errorf("linking transaction %s: %w", txnID, err)
	}
	return requireRow(res, txnID)
}

// ReassignRateTransactions moves every transaction referencing fromRate
// to toRate in bulk. An empty toRate clears the reference. Returns the
// number of rows touched.
func (t *Tx) ReassignRateTransactions(fromRate, toRate string) (int64, error) {
	var to any
	if toRate != "" {
		to = toRate
	}
	res, err := t.tx.Exec(`UPDATE transactions SET apr_rate_id = ? WHERE apr_rate_id = ?`, to, fromRate)
	if err != nil {
		return 0, fmt.Errorf("reassigning rate %s: %w", fromRate, err)
	}
	return res.RowsAffected()
}

// PurchaseTransactions returns the outstanding purchases on an account
// (negative-amount expenses), oldest first.
func (db *DB) PurchaseTransactions(ctx context.Context, accountID string) ([]model.Transaction, error) {
	return db.queryTransactions(ctx, `
		SELECT `+txnCols+` FROM transactions
		WHERE account_id = ? AND type = ? AND amount < 0
		ORDER BY date, id
	`, accountID, string(model.TxnExpense))
}

// CreditTransactionsSince returns positive-amount INCOME, TRANSFER, and
// INTEREST_EARNED transactions posted on or after `since` — the payments
// counted against a closed statement.
func (db *DB) CreditTransactionsSince(ctx context.Context, accountID string, since time.Time) ([]model.Transaction, error) {
	return db.queryTransactions(ctx, `
		SELECT `+txnCols+` FROM transactions
		WHERE account_id = ? AND date >= ? AND amount > 0 AND type IN (?, ?, ?)
		ORDER BY date, id
	`, accountID, fmtDate(since),
		string(model.TxnIncome), string(model.TxnTransfer), string(model.TxnInterestEarned))
}

// CountTransactionsForRate returns how many transactions reference an
// APR rate.
func (db *DB) CountTransactionsForRate(ctx context.Context, rateID string) (int, error) {
	var n int
	err := db.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE apr_rate_id = ?`, rateID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting transactions for rate %s: %w", rateID, err)
	}
	return n, nil
}

// CountTransactions returns the total number of transactions. Used by
// operational tooling and tests to assert write boundaries.
func (db *DB) CountTransactions(ctx context.Context) (int, error) {
	var n int
	if err := db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}
	return n, nil
}

// AccountTransactions returns every transaction on an account, oldest
// first.
func (db *DB) AccountTransactions(ctx context.Context, accountID string) ([]model.Transaction, error) {
	return db.queryTransactions(ctx, `
		SELECT `+txnCols+` FROM transactions
		WHERE account_id = ?
		ORDER BY date, id
	`, accountID)
}

func (db *DB) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func scanTransaction(r rowScanner) (model.Transaction, error) {
	var (
		txn          model.Transaction
		dateStr      string
		amount       string
		typ, source  string
		linked, rate sql.NullString
	)
	if err := r.Scan(&txn.ID, &txn.UserID, &txn.AccountID, &dateStr, &txn.Description,
		&amount, &typ, &source, &txn.Category, &txn.Notes, &linked, &rate); err != nil {
		return model.Transaction{}, err
	}
	txn.Type = model.TransactionType(typ)
	txn.Source = model.TransactionSource(source)
	txn.LinkedTransactionID = linked.String
	txn.AprRateID = rate.String

	var err error
	if txn.Date, err = parseDate(dateStr); err != nil {
		return model.Transaction{}, err
	}
	if txn.Amount, err = parseDec(amount); err != nil {
		return model.Transaction{}, err
	}
	return txn, nil
}
