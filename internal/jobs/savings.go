package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ledgerrun-dev/ledgerrun/internal/accrual"
	"github.com/ledgerrun-dev/ledgerrun/internal/dates"
	"github.com/ledgerrun-dev/ledgerrun/internal/id"
	"github.com/ledgerrun-dev/ledgerrun/internal/model"
	"github.com/ledgerrun-dev/ledgerrun/internal/store"
)

// RunSavingsInterest pays one month's interest on every active savings
// account with an active STANDARD rate. A rounded result of exactly zero
// writes nothing; otherwise the interest log, the INTEREST_EARNED
// transaction, and the balance increment commit as one unit.
func (r *Runner) RunSavingsInterest(ctx context.Context, today time.Time) (Summary, error) {
	today = dates.Midnight(today)
	s := Summary{Job: JobSavings}

	accounts, err := r.db.ActiveAccountsByType(ctx, model.AccountTypeSavings)
	if err != nil {
		return s, fmt.Errorf("selecting savings accounts: %w", err)
	}
	if len(accounts) == 0 {
		return s, nil
	}

	started := time.Now()
	for _, account := range accounts {
		wrote, err := r.paySavingsInterest(ctx, account, today)
		switch {
		case errors.Is(err, errSkip):
			s.Skipped++
			r.log.Info().Str("account_id", account.ID).Msg("savings account skipped: no rate")
		case err != nil:
			s.Failed++
			r.log.Error().Err(err).Str("account_id", account.ID).Msg("savings interest failed")
		case !wrote:
			s.Skipped++
		default:
			s.Processed++
		}
	}

	r.finish(ctx, today, started, s)
	return s, nil
}

func (r *Runner) paySavingsInterest(ctx context.Context, account model.Account, today time.Time) (bool, error) {
	rate, err := r.db.ActiveStandardRate(ctx, account.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, errSkip
		}
		return false, err
	}

	interest := accrual.SavingsMonthlyInterest(account.Balance, rate.APR)
	if interest.IsZero() {
		return false, nil
	}

	err = r.db.Atomic(ctx, func(tx *store.Tx) error {
		if err := tx.InsertInterestLog(model.InterestLog{
			ID:        id.New(),
			UserID:    account.UserID,
			AccountID: account.ID,
			Date:      today,
			Amount:    interest,
			Type:      model.InterestEarned,
			Notes:     "monthly savings interest",
		}); err != nil {
			return err
		}
		txn := model.Transaction{
			ID:          id.New(),
			UserID:      account.UserID,
			AccountID:   account.ID,
			Date:        today,
			Description: "savings interest",
			Amount:      interest,
			Type:        model.TxnInterestEarned,
			Source:      model.SourceSystem,
		}
		if err := tx.InsertTransaction(txn); err != nil {
			return err
		}
		return tx.UpdateAccountBalance(account.ID, account.Balance.Add(interest))
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
