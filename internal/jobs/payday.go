package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ledgerrun-dev/ledgerrun/internal/dates"
	"github.com/ledgerrun-dev/ledgerrun/internal/id"
	"github.com/ledgerrun-dev/ledgerrun/internal/model"
	"github.com/ledgerrun-dev/ledgerrun/internal/money"
	"github.com/ledgerrun-dev/ledgerrun/internal/store"
)

// RunPaydayLoans settles payday loans due on or before today with one
// balloon payment: principal plus the flat fee. Payday loans are
// one-shot, so the loan account is always deactivated afterward. The
// loan's stored interest rate stays at 0 even though a fee was charged;
// only the fee records carry the cost.
func (r *Runner) RunPaydayLoans(ctx context.Context, today time.Time) (Summary, error) {
	today = dates.Midnight(today)
	s := Summary{Job: JobPayday}

	loans, err := r.db.DuePaydayLoans(ctx, today)
	if err != nil {
		return s, fmt.Errorf("selecting due payday loans: %w", err)
	}
	if len(loans) == 0 {
		return s, nil
	}

	started := time.Now()
	for _, loan := range loans {
		err := r.processBalloon(ctx, loan, today)
		switch {
		case errors.Is(err, errSkip):
			s.Skipped++
			r.log.Info().Str("loan_id", loan.ID).Msg("payday loan skipped: no payment account")
		case err != nil:
			s.Failed++
			r.log.Error().Err(err).Str("loan_id", loan.ID).Msg("payday loan failed")
		default:
			s.Processed++
		}
	}

	r.finish(ctx, today, started, s)
	return s, nil
}

func (r *Runner) processBalloon(ctx context.Context, loan model.Loan, today time.Time) error {
	if loan.PaymentAccountID == "" {
		return errSkip
	}
	source, err := r.db.GetAccount(ctx, loan.PaymentAccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errSkip
		}
		return err
	}
	loanAcct, err := r.db.GetAccount(ctx, loan.AccountID)
	if err != nil {
		return err
	}

	fee := money.RoundCents(loan.OriginalBalance.Mul(money.PerHundred(loan.FeePerHundred)))
	total := loan.OriginalBalance.Add(fee)
	desc := fmt.Sprintf("payday loan payoff: %s", loan.ID)

	return r.db.Atomic(ctx, func(tx *store.Tx) error {
		outgoing := model.Transaction{
			ID:          id.New(),
			UserID:      loan.UserID,
			AccountID:   loan.PaymentAccountID,
			Date:        today,
			Description: desc,
			Amount:      total.Neg(),
			Type:        model.TxnTransfer,
			Source:      model.SourceSystem,
		}
		if err := tx.InsertTransaction(outgoing); err != nil {
			return err
		}
		principal := model.Transaction{
			ID:          id.New(),
			UserID:      loan.UserID,
			AccountID:   loan.AccountID,
			Date:        today,
			Description: desc + " principal",
			Amount:      loan.OriginalBalance,
			Type:        model.TxnLoanPrincipal,
			Source:      model.SourceSystem,
		}
		if err := tx.InsertTransaction(principal); err != nil {
			return err
		}
		feeTxn := model.Transaction{
			ID:          id.New(),
			UserID:      loan.UserID,
			AccountID:   loan.AccountID,
			Date:        today,
			Description: desc + " fee",
			Amount:      fee.Neg(),
			Type:        model.TxnLoanInterest,
			Source:      model.SourceSystem,
		}
		if err := tx.InsertTransaction(feeTxn); err != nil {
			return err
		}
		if err := tx.InsertInterestLog(model.InterestLog{
			ID:        id.New(),
			UserID:    loan.UserID,
			AccountID: loan.AccountID,
			Date:      today,
			Amount:    fee,
			Type:      model.InterestCharged,
			Notes:     desc,
		}); err != nil {
			return err
		}
		if err := tx.UpdateAccountBalance(source.ID, source.Balance.Sub(total)); err != nil {
			return err
		}
		if err := tx.UpdateAccountBalance(loanAcct.ID, loanAcct.Balance.Add(loan.OriginalBalance)); err != nil {
			return err
		}
		return tx.DeactivateAccount(loan.AccountID)
	})
}
