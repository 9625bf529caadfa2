package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerrun-dev/ledgerrun/internal/model"
)

// CreditCard pairs an account with its billing-cycle state.
type CreditCard struct {
	Account model.Account
	Details model.CreditCardDetails
}

// InsertCreditCardDetails creates the 1:1 billing-cycle row for a
// credit-card account.
func (db *DB) InsertCreditCardDetails(ctx context.Context, d model.CreditCardDetails) error {
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO credit_card_details (account_id, statement_close_day, payment_due_day,
			grace_period_days, last_statement_balance, last_statement_paid_full,
			minimum_payment_pct, minimum_payment_floor)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, d.AccountID, d.StatementCloseDay, d.PaymentDueDay, d.GracePeriodDays,
		d.LastStatementBalance.String(), boolInt(d.LastStatementPaidFull),
		d.MinimumPaymentPct.String(), d.MinimumPaymentFloor.String())
	if err != nil {
		return fmt.Errorf("inserting card details for %s: %w", d.AccountID, err)
	}
	return nil
}

// ActiveCreditCards returns every active credit-card account joined with
// its billing-cycle state.
func (db *DB) ActiveCreditCards(ctx context.Context) ([]CreditCard, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT a.id, a.user_id, a.name, a.type, a.balance, a.credit_limit, a.is_active,
		       d.statement_close_day, d.payment_due_day, d.grace_period_days,
		       d.last_statement_balance, d.last_statement_paid_full,
		       d.minimum_payment_pct, d.minimum_payment_floor
		FROM accounts a
		JOIN credit_card_details d ON d.account_id = a.id
		WHERE a.is_active = 1
		ORDER BY a.id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying credit cards: %w", err)
	}
	defer rows.Close()

	var cards []CreditCard
	for rows.Next() {
		var (
			c                     CreditCard
			typ, balance          string
			limit                 sql.NullString
			activeInt, paidInt    int
			lastBal, pct, floor   string
		)
		if err := rows.Scan(&c.Account.ID, &c.Account.UserID, &c.Account.Name, &typ,
			&balance, &limit, &activeInt,
			&c.Details.StatementCloseDay, &c.Details.PaymentDueDay, &c.Details.GracePeriodDays,
			&lastBal, &paidInt, &pct, &floor); err != nil {
			return nil, err
		}
		c.Account.Type = model.AccountType(typ)
		c.Account.IsActive = activeInt == 1
		c.Details.AccountID = c.Account.ID
		c.Details.LastStatementPaidFull = paidInt == 1

		if c.Account.Balance, err = parseDec(balance); err != nil {
			return nil, err
		}
		if limit.Valid {
			if c.Account.CreditLimit, err = parseDec(limit.String); err != nil {
				return nil, err
			}
		}
		if c.Details.LastStatementBalance, err = parseDec(lastBal); err != nil {
			return nil, err
		}
		if c.Details.MinimumPaymentPct, err = parseDec(pct); err != nil {
			return nil, err
		}
		if c.Details.MinimumPaymentFloor, err = parseDec(floor); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// UpdateStatement snapshots the statement balance and paid-in-full flag
// at close.
func (t *Tx) UpdateStatement(accountID string, lastBalance decimal.Decimal, paidInFull bool) error {
	res, err := t.tx.Exec(`
		UPDATE credit_card_details
		SET last_statement_balance = ?, last_statement_paid_full = ?
		WHERE account_id = ?
	`, lastBalance.String(), boolInt(paidInFull), accountID)
	if err != nil {
		return fmt.Errorf("updating statement for %s: %w", accountID, err)
	}
	return requireRow(res, accountID)
}

const rateCols = `id, account_id, rate_type, apr, effective_date, expiration_date, is_active`

// InsertAprRate creates an APR rate row.
func (db *DB) InsertAprRate(ctx context.Context, r model.AprRate) error {
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO apr_rates (`+rateCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.AccountID, string(r.Type), r.APR.String(),
		fmtDate(r.EffectiveDate), fmtDatePtr(r.ExpirationDate), boolInt(r.IsActive))
	if err != nil {
		return fmt.Errorf("inserting APR rate %s: %w", r.ID, err)
	}
	return nil
}

// AccountRates returns every APR rate on an account.
func (db *DB) AccountRates(ctx context.Context, accountID string) ([]model.AprRate, error) {
	return db.queryRates(ctx, `
		SELECT `+rateCols+` FROM apr_rates WHERE account_id = ? ORDER BY effective_date, id
	`, accountID)
}

// ExpiredRates returns active rates whose expiration date has passed.
func (db *DB) ExpiredRates(ctx context.Context, today time.Time) ([]model.AprRate, error) {
	return db.queryRates(ctx, `
		SELECT `+rateCols+` FROM apr_rates
		WHERE is_active = 1 AND expiration_date IS NOT NULL AND expiration_date < ?
		ORDER BY expiration_date, id
	`, fmtDate(today))
}

// ActiveStandardRate returns the account's single active STANDARD rate,
// or ErrNotFound.
func (db *DB) ActiveStandardRate(ctx context.Context, accountID string) (model.AprRate, error) {
	rates, err := db.queryRates(ctx, `
		SELECT `+rateCols+` FROM apr_rates
		WHERE account_id = ? AND rate_type = ? AND is_active = 1
		LIMIT 1
	`, accountID, string(model.RateStandard))
	if err != nil {
		return model.AprRate{}, err
	}
	if len(rates) == 0 {
		return model.AprRate{}, fmt.Errorf("standard rate for %s: %w", accountID, ErrNotFound)
	}
	return rates[0], nil
}

// DeactivateAprRate flags a rate inactive.
func (t *Tx) DeactivateAprRate(rateID string) error {
	res, err := t.tx.Exec(`UPDATE apr_rates SET is_active = 0 WHERE id = ?`, rateID)
	if err != nil {
		return fmt.Errorf("deactivating rate %s: %w", rateID, err)
	}
	return requireRow(res, rateID)
}

func (db *DB) queryRates(ctx context.Context, query string, args ...any) ([]model.AprRate, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying APR rates: %w", err)
	}
	defer rows.Close()

	var rates []model.AprRate
	for rows.Next() {
		var (
			r            model.AprRate
			typ, apr     string
			effStr       string
			expStr       sql.NullString
			activeInt    int
		)
		if err := rows.Scan(&r.ID, &r.AccountID, &typ, &apr, &effStr, &expStr, &activeInt); err != nil {
			return nil, err
		}
		r.Type = model.RateType(typ)
		r.IsActive = activeInt == 1
		if r.APR, err = parseDec(apr); err != nil {
			return nil, err
		}
		if r.EffectiveDate, err = parseDate(effStr); err != nil {
			return nil, err
		}
		if r.ExpirationDate, err = parseDateNull(expStr); err != nil {
			return nil, err
		}
		rates = append(rates, r)
	}
	return rates, rows.Err()
}
