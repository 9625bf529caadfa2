package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ledgerrun-dev/ledgerrun/internal/dates"
	"github.com/ledgerrun-dev/ledgerrun/internal/id"
	"github.com/ledgerrun-dev/ledgerrun/internal/model"
	"github.com/ledgerrun-dev/ledgerrun/internal/recur"
	"github.com/ledgerrun-dev/ledgerrun/internal/store"
)

// RunRecurringBills generates transactions for every active bill due on
// or before today. Fixed-amount bills post the expense, decrement the
// account balance, and record a bill payment; variable-amount bills post
// the expense marked pending confirmation and leave the balance alone.
// Both branches advance the next due date strictly past today.
func (r *Runner) RunRecurringBills(ctx context.Context, today time.Time) (Summary, error) {
	today = dates.Midnight(today)
	s := Summary{Job: JobRecurringBills}

	bills, err := r.db.DueBills(ctx, today)
	if err != nil {
		return s, fmt.Errorf("selecting due bills: %w", err)
	}
	if len(bills) == 0 {
		return s, nil
	}

	started := time.Now()
	for _, bill := range bills {
		variable, err := r.processBill(ctx, bill, today)
		switch {
		case errors.Is(err, errSkip):
			s.Skipped++
			r.log.Info().Str("bill_id", bill.ID).Msg("bill skipped: account not found")
		case err != nil:
			s.Failed++
			r.log.Error().Err(err).Str("bill_id", bill.ID).Msg("bill failed")
		default:
			s.Processed++
			if variable {
				s.VariablePending++
			}
		}
	}

	r.finish(ctx, today, started, s)
	return s, nil
}

func (r *Runner) processBill(ctx context.Context, bill model.RecurringBill, today time.Time) (bool, error) {
	account, err := r.db.GetAccount(ctx, bill.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, errSkip
		}
		return false, err
	}

	next := recur.AdvanceUntilFuture(bill.NextDueDate, bill.Frequency, bill.DayOfMonth, today)

	err = r.db.Atomic(ctx, func(tx *store.Tx) error {
		txn := model.Transaction{
			ID:          id.New(),
			UserID:      bill.UserID,
			AccountID:   bill.AccountID,
			Date:        today,
			Description: bill.Name,
			Amount:      bill.Amount.Neg(),
			Type:        model.TxnExpense,
			Source:      model.SourceRecurring,
			Category:    bill.Category,
		}
		if bill.IsVariableAmount {
			// The real amount is unknown until the user confirms it, so
			// the balance stays untouched.
			txn.Notes = model.PendingConfirmationNote
			if err := tx.InsertTransaction(txn); err != nil {
				return err
			}
		} else {
			if err := tx.InsertTransaction(txn); err != nil {
				return err
			}
			if err := tx.UpdateAccountBalance(bill.AccountID, account.Balance.Sub(bill.Amount)); err != nil {
				return err
			}
			payment := model.BillPayment{
				ID:              id.New(),
				RecurringBillID: bill.ID,
				Month:           int(today.Month()),
				Year:            today.Year(),
				Amount:          bill.Amount,
				TransactionID:   txn.ID,
				PaidAt:          time.Now(),
			}
			if err := tx.InsertBillPayment(payment); err != nil {
				return err
			}
		}
		return tx.UpdateBillNextDue(bill.ID, next)
	})
	if err != nil {
		return false, err
	}
	return bill.IsVariableAmount, nil
}
