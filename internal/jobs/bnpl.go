package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerrun-dev/ledgerrun/internal/amort"
	"github.com/ledgerrun-dev/ledgerrun/internal/dates"
	"github.com/ledgerrun-dev/ledgerrun/internal/id"
	"github.com/ledgerrun-dev/ledgerrun/internal/model"
	"github.com/ledgerrun-dev/ledgerrun/internal/money"
	"github.com/ledgerrun-dev/ledgerrun/internal/recur"
	"github.com/ledgerrun-dev/ledgerrun/internal/store"
)

// RunInstallmentLoans processes BNPL installments due on or before
// today. Zero-interest loans post a linked transfer pair; interest-
// bearing loans split the installment into principal and interest legs.
// Reaching the final installment deactivates the loan account.
func (r *Runner) RunInstallmentLoans(ctx context.Context, today time.Time) (Summary, error) {
	today = dates.Midnight(today)
	s := Summary{Job: JobBNPL}

	loans, err := r.db.DueInstallmentLoans(ctx, today)
	if err != nil {
		return s, fmt.Errorf("selecting due BNPL loans: %w", err)
	}
	if len(loans) == 0 {
		return s, nil
	}

	started := time.Now()
	for _, loan := range loans {
		err := r.processInstallment(ctx, loan, today)
		switch {
		case errors.Is(err, errSkip):
			s.Skipped++
			r.log.Info().Str("loan_id", loan.ID).Msg("installment skipped: no payment account")
		case err != nil:
			s.Failed++
			r.log.Error().Err(err).Str("loan_id", loan.ID).Msg("installment failed")
		default:
			s.Processed++
		}
	}

	r.finish(ctx, today, started, s)
	return s, nil
}

func (r *Runner) processInstallment(ctx context.Context, loan model.Loan, today time.Time) error {
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

	installment := loan.MonthlyPayment
	if loan.TotalInstallments > 0 {
		installment = money.RoundCents(loan.OriginalBalance.Div(decimal.NewFromInt(int64(loan.TotalInstallments))))
	}

	completed := loan.CompletedInstallments + 1
	next := recur.AdvanceUntilFuture(loan.NextPaymentDate, loan.InstallmentFrequency, 0, today)
	finished := loan.TotalInstallments > 0 && completed >= loan.TotalInstallments

	return r.db.Atomic(ctx, func(tx *store.Tx) error {
		if loan.InterestRate.IsZero() {
			if err := r.postTransferPair(tx, loan, today, installment); err != nil {
				return err
			}
			if err := tx.UpdateAccountBalance(source.ID, source.Balance.Sub(installment)); err != nil {
				return err
			}
			if err := tx.UpdateAccountBalance(loanAcct.ID, loanAcct.Balance.Add(installment)); err != nil {
				return err
			}
		} else {
			// Interest is computed from the loan account's current
			// balance, which may drift from the amortization table if
			// the balance was edited by hand.
			split := amort.SplitPayment(loanAcct.Balance, loan.InterestRate, installment)
			if err := r.postAmortizedLegs(tx, loan, today, installment, split); err != nil {
				return err
			}
			if err := tx.UpdateAccountBalance(source.ID, source.Balance.Sub(installment)); err != nil {
				return err
			}
			if err := tx.UpdateAccountBalance(loanAcct.ID, loanAcct.Balance.Add(split.Principal)); err != nil {
				return err
			}
		}

		if finished {
			if err := tx.DeactivateAccount(loan.AccountID); err != nil {
				return err
			}
		}
		return tx.UpdateLoanProgress(loan.ID, completed, next)
	})
}

// postTransferPair inserts the two legs of a pure transfer, linked to
// each other. The first leg is inserted unlinked, the second carries the
// link, then the first is back-filled — the two rows reference each
// other and their amounts sum to zero.
func (r *Runner) postTransferPair(tx *store.Tx, loan model.Loan, today time.Time, amount decimal.Decimal) error {
	desc := fmt.Sprintf("BNPL installment %d/%d", loan.CompletedInstallments+1, loan.TotalInstallments)
	out := model.Transaction{
		ID:          id.New(),
		UserID:      loan.UserID,
		AccountID:   loan.PaymentAccountID,
		Date:        today,
		Description: desc,
		Amount:      amount.Neg(),
		Type:        model.TxnTransfer,
		Source:      model.SourceSystem,
	}
	if err := tx.InsertTransaction(out); err != nil {
		return err
	}
	in := model.Transaction{
		ID:                  id.New(),
		UserID:              loan.UserID,
		AccountID:           loan.AccountID,
		Date:                today,
		Description:         desc,
		Amount:              amount,
		Type:                model.TxnTransfer,
		Source:              model.SourceSystem,
		LinkedTransactionID: out.ID,
	}
	if err := tx.InsertTransaction(in); err != nil {
		return err
	}
	return tx.SetTransactionLink(out.ID, in.ID)
}

func (r *Runner) postAmortizedLegs(tx *store.Tx, loan model.Loan, today time.Time, installment decimal.Decimal, split amort.Split) error {
	desc := fmt.Sprintf("BNPL installment %d/%d", loan.CompletedInstallments+1, loan.TotalInstallments)
	out := model.Transaction{
		ID:          id.New(),
		UserID:      loan.UserID,
		AccountID:   loan.PaymentAccountID,
		Date:        today,
		Description: desc,
		Amount:      installment.Neg(),
		Type:        model.TxnTransfer,
		Source:      model.SourceSystem,
	}
	if err := tx.InsertTransaction(out); err != nil {
		return err
	}
	principal := model.Transaction{
		ID:          id.New(),
		UserID:      loan.UserID,
		AccountID:   loan.AccountID,
		Date:        today,
		Description: desc + " principal",
		Amount:      split.Principal,
		Type:        model.TxnLoanPrincipal,
		Source:      model.SourceSystem,
	}
	if err := tx.InsertTransaction(principal); err != nil {
		return err
	}
	interest := model.Transaction{
		ID:          id.New(),
		UserID:      loan.UserID,
		AccountID:   loan.AccountID,
		Date:        today,
		Description: desc + " interest",
		Amount:      split.Interest.Neg(),
		Type:        model.TxnLoanInterest,
		Source:      model.SourceSystem,
	}
	if err := tx.InsertTransaction(interest); err != nil {
		return err
	}
	return tx.InsertInterestLog(model.InterestLog{
		ID:        id.New(),
		UserID:    loan.UserID,
		AccountID: loan.AccountID,
		Date:      today,
		Amount:    split.Interest,
		Type:      model.InterestCharged,
		Notes:     desc,
	})
}
