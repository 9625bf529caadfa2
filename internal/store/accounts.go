package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerrun-dev/ledgerrun/internal/model"
)

// ErrNotFound is returned when a looked-up entity does not exist.
var ErrNotFound = errors.New("not found")

const accountCols = `id, user_id, name, type, balance, credit_limit, is_active`

// InsertAccount creates an account row.
func (db *DB) InsertAccount(ctx context.Context, a model.Account) error {
	var limit any
	if !a.CreditLimit.IsZero() {
		limit = a.CreditLimit.String()
	}
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, name, type, balance, credit_limit, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.UserID, a.Name, string(a.Type), a.Balance.String(), limit, boolInt(a.IsActive))
	if err != nil {
		return fmt.Errorf("inserting account %s: %w", a.ID, err)
	}
	return nil
}

// GetAccount looks up one account by ID.
func (db *DB) GetAccount(ctx context.Context, accountID string) (model.Account, error) {
	row := db.db.QueryRowContext(ctx, `SELECT `+accountCols+` FROM accounts WHERE id = ?`, accountID)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, fmt.Errorf("account %s: %w", accountID, ErrNotFound)
	}
	return a, err
}

// ActiveAccountsByType returns all active accounts of the given type.
func (db *DB) ActiveAccountsByType(ctx context.Context, typ model.AccountType) ([]model.Account, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT `+accountCols+` FROM accounts
		WHERE type = ? AND is_active = 1
		ORDER BY id
	`, string(typ))
	if err != nil {
		return nil, fmt.Errorf("querying %s accounts: %w", typ, err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// UpdateAccountBalance replaces an account's balance.
func (t *Tx) UpdateAccountBalance(accountID string, balance decimal.Decimal) error {
	res, err := t.tx.Exec(`UPDATE accounts SET balance = ? WHERE id = ?`, balance.String(), accountID)
	if err != nil {
		return fmt.Errorf("updating balance of %s: %w", accountID, err)
	}
	return requireRow(res, accountID)
}

// DeactivateAccount flags an account inactive. Accounts are never deleted.
func (t *Tx) DeactivateAccount(accountID string) error {
	res, err := t.tx.Exec(`UPDATE accounts SET is_active = 0 WHERE id = ?`, accountID)
	if err != nil {
		return fmt.Errorf("deactivating account %s: %w", accountID, err)
	}
	return requireRow(res, accountID)
}

func requireRow(res sql.Result, entityID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("entity %s: %w", entityID, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(r rowScanner) (model.Account, error) {
	var (
		a         model.Account
		typ       string
		balance   string
		limit     sql.NullString
		activeInt int
	)
	if err := r.Scan(&a.ID, &a.UserID, &a.Name, &typ, &balance, &limit, &activeInt); err != nil {
		return model.Account{}, err
	}
	a.Type = model.AccountType(typ)
	a.IsActive = activeInt == 1

	var err error
	if a.Balance, err = parseDec(balance); err != nil {
		return model.Account{}, err
	}
	if limit.Valid {
		if a.CreditLimit, err = parseDec(limit.String); err != nil {
			return model.Account{}, err
		}
	}
	return a, nil
}
