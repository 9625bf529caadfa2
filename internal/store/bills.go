package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerrun-dev/ledgerrun/internal/model"
)

const billCols = `id, user_id, account_id, name, amount, frequency, day_of_month,
	is_variable_amount, category, next_due_date, is_active`

// InsertBill creates a recurring bill row.
func (db *DB) InsertBill(ctx context.Context, b model.RecurringBill) error {
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO recurring_bills (`+billCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.UserID, b.AccountID, b.Name, b.Amount.String(), string(b.Frequency),
		b.DayOfMonth, boolInt(b.IsVariableAmount), b.Category, fmtDate(b.NextDueDate), boolInt(b.IsActive))
	if err != nil {
		return fmt.Errorf("inserting bill %s: %w", b.ID, err)
	}
	return nil
}

// DueBills returns active bills whose next due date is on or before
// today.
func (db *DB) DueBills(ctx context.Context, today time.Time) ([]model.RecurringBill, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT `+billCols+` FROM recurring_bills
		WHERE is_active = 1 AND next_due_date <= ?
		ORDER BY next_due_date, id
	`, fmtDate(today))
	if err != nil {
		return nil, fmt.Errorf("querying due bills: %w", err)
	}
	defer rows.Close()

	var bills []model.RecurringBill
	for rows.Next() {
		var (
			b           model.RecurringBill
			amount      string
			freq        string
			dueStr      string
			varInt, act int
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.AccountID, &b.Name, &amount, &freq,
			&b.DayOfMonth, &varInt, &b.Category, &dueStr, &act); err != nil {
			return nil, err
		}
		b.Frequency = model.Frequency(freq)
		b.IsVariableAmount = varInt == 1
		b.IsActive = act == 1
		if b.Amount, err = parseDec(amount); err != nil {
			return nil, err
		}
		if b.NextDueDate, err = parseDate(dueStr); err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// UpdateBillNextDue advances a bill's next due date.
func (t *Tx) UpdateBillNextDue(billID string, next time.Time) error {
	res, err := t.tx.Exec(`UPDATE recurring_bills SET next_due_date = ? WHERE id = ?`,
		fmtDate(next), billID)
	if err != nil {
		return fmt.Errorf("advancing bill %s: %w", billID, err)
	}
	return requireRow(res, billID)
}

// InsertBillPayment records that a bill-month was paid. Multiple payments
// per (bill, month, year) are allowed.
func (t *Tx) InsertBillPayment(p model.BillPayment) error {
	var txnID any
	if p.TransactionID != "" {
		txnID = p.TransactionID
	}
	_, err := t.tx.Exec(`
		INSERT INTO bill_payments (id, recurring_bill_id, month, year, amount, transaction_id, paid_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.RecurringBillID, p.Month, p.Year, p.Amount.String(), txnID, p.PaidAt.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("inserting bill payment %s: %w", p.ID, err)
	}
	return nil
}

// BillPayments returns the payment ledger for one bill, oldest first.
func (db *DB) BillPayments(ctx context.Context, billID string) ([]model.BillPayment, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, recurring_bill_id, month, year, amount, transaction_id, paid_at
		FROM bill_payments WHERE recurring_bill_id = ?
		ORDER BY paid_at, id
	`, billID)
	if err != nil {
		return nil, fmt.Errorf("querying bill payments: %w", err)
	}
	defer rows.Close()

	var payments []model.BillPayment
	for rows.Next() {
		var (
			p       model.BillPayment
			amount  string
			txnNull *string
			paidStr string
		)
		if err := rows.Scan(&p.ID, &p.RecurringBillID, &p.Month, &p.Year, &amount, &txnNull, &paidStr); err != nil {
			return nil, err
		}
		if txnNull != nil {
			p.TransactionID = *txnNull
		}
		if p.Amount, err = parseDec(amount); err != nil {
			return nil, err
		}
		if p.PaidAt, err = time.Parse(timeFormat, paidStr); err != nil {
			return nil, fmt.Errorf("parsing paid_at %q: %w", paidStr, err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
