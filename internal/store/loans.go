package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ledgerrun-dev/ledgerrun/internal/model"
)

const loanCols = `id, user_id, account_id, payment_account_id, loan_type,
	original_balance, interest_rate, term_months, start_date, monthly_payment,
	extra_payment_amount, completed_installments, total_installments,
	installment_frequency, next_payment_date, fee_per_hundred, due_date`

// InsertLoan creates a loan row.
func (db *DB) InsertLoan(ctx context.Context, l model.Loan) error {
	var payAcct, freq any
	if l.PaymentAccountID != "" {
		payAcct = l.PaymentAccountID
	}
	if l.InstallmentFrequency != "" {
		freq = string(l.InstallmentFrequency)
	}
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO loans (`+loanCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.UserID, l.AccountID, payAcct, string(l.Type),
		l.OriginalBalance.String(), l.InterestRate.String(), l.TermMonths,
		fmtDatePtr(l.StartDate), l.MonthlyPayment.String(),
		l.ExtraPaymentAmount.String(), l.CompletedInstallments, l.TotalInstallments,
		freq, fmtDatePtr(l.NextPaymentDate), l.FeePerHundred.String(), fmtDatePtr(l.DueDate))
	if err != nil {
		return fmt.Errorf("inserting loan %s: %w", l.ID, err)
	}
	return nil
}

// GetLoan looks up one loan by ID.
func (db *DB) GetLoan(ctx context.Context, loanID string) (model.Loan, error) {
	row := db.db.QueryRowContext(ctx, `SELECT `+loanCols+` FROM loans WHERE id = ?`, loanID)
	l, err := scanLoan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Loan{}, fmt.Errorf("loan %s: %w", loanID, ErrNotFound)
	}
	return l, err
}

// DueInstallmentLoans returns BNPL loans whose next payment date is on or
// before today and whose loan account is still active.
func (db *DB) DueInstallmentLoans(ctx context.Context, today time.Time) ([]model.Loan, error) {
	return db.queryLoans(ctx, `
		SELECT `+loanQualifiedCols+` FROM loans l
		JOIN accounts a ON a.id = l.account_id
		WHERE l.loan_type = ? AND a.is_active = 1
		  AND l.next_payment_date IS NOT NULL AND l.next_payment_date <= ?
		ORDER BY l.next_payment_date, l.id
	`, string(model.LoanBNPL), fmtDate(today))
}

// DuePaydayLoans returns payday loans whose balloon due date is on or
// before today and whose loan account is still active.
func (db *DB) DuePaydayLoans(ctx context.Context, today time.Time) ([]model.Loan, error) {
	return db.queryLoans(ctx, `
		SELECT `+loanQualifiedCols+` FROM loans l
		JOIN accounts a ON a.id = l.account_id
		WHERE l.loan_type = ? AND a.is_active = 1
		  AND l.due_date IS NOT NULL AND l.due_date <= ?
		ORDER BY l.due_date, l.id
	`, string(model.LoanPayday), fmtDate(today))
}

// UpdateLoanProgress records a processed installment: the new completed
// count and the advanced next payment date.
func (t *Tx) UpdateLoanProgress(loanID string, completed int, next time.Time) error {
	res, err := t.tx.Exec(`
		UPDATE loans SET completed_installments = ?, next_payment_date = ? WHERE id = ?
	`, completed, fmtDate(next), loanID)
	if err != nil {
		return fmt.Errorf("updating loan %s: %w", loanID, err)
	}
	return requireRow(res, loanID)
}

const loanQualifiedCols = `l.id, l.user_id, l.account_id, l.payment_account_id, l.loan_type,
	l.original_balance, l.interest_rate, l.term_months, l.start_date, l.monthly_payment,
	l.extra_payment_amount, l.completed_installments, l.total_installments,
	l.installment_frequency, l.next_payment_date, l.fee_per_hundred, l.due_date`

func (db *DB) queryLoans(ctx context.Context, query string, args ...any) ([]model.Loan, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

func scanLoan(r rowScanner) (model.Loan, error) {
	var (
		l                                  model.Loan
		payAcct, freq                      sql.NullString
		typ                                string
		origBal, rate, payment, extra, fee string
		startStr, nextStr, dueStr          sql.NullString
	)
	if err := r.Scan(&l.ID, &l.UserID, &l.AccountID, &payAcct, &typ,
		&origBal, &rate, &l.TermMonths, &startStr, &payment,
		&extra, &l.CompletedInstallments, &l.TotalInstallments,
		&freq, &nextStr, &fee, &dueStr); err != nil {
		return model.Loan{}, err
	}
	l.PaymentAccountID = payAcct.String
	l.Type = model.LoanType(typ)
	l.InstallmentFrequency = model.Frequency(freq.String)

	var err error
	if l.OriginalBalance, err = parseDec(origBal); err != nil {
		return model.Loan{}, err
	}
	if l.InterestRate, err = parseDec(rate); err != nil {
		return model.Loan{}, err
	}
	if l.MonthlyPayment, err = parseDec(payment); err != nil {
		return model.Loan{}, err
	}
	if l.ExtraPaymentAmount, err = parseDec(extra); err != nil {
		return model.Loan{}, err
	}
	if l.FeePerHundred, err = parseDec(fee); err != nil {
		return model.Loan{}, err
	}
	if l.StartDate, err = parseDateNull(startStr); err != nil {
		return model.Loan{}, err
	}
	if l.NextPaymentDate, err = parseDateNull(nextStr); err != nil {
		return model.Loan{}, err
	}
	if l.DueDate, err = parseDateNull(dueStr); err != nil {
		return model.Loan{}, err
	}
	return l, nil
}
