package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerrun-dev/ledgerrun/internal/accrual"
	"github.com/ledgerrun-dev/ledgerrun/internal/dates"
	"github.com/ledgerrun-dev/ledgerrun/internal/store"
)

// RunStatementClose reconciles every credit card whose statement closes
// today: payments since the previous close are compared against the
// amount owed at that close, the paid-in-full flag is set, and the
// current balance is snapshotted as the new statement balance.
func (r *Runner) RunStatementClose(ctx context.Context, today time.Time) (Summary, error) {
	today = dates.Midnight(today)
	s := Summary{Job: JobStatementClose}

	cards, err := r.db.ActiveCreditCards(ctx)
	if err != nil {
		return s, fmt.Errorf("selecting credit cards: %w", err)
	}

	var closing []store.CreditCard
	for _, card := range cards {
		if card.Details.StatementCloseDay == today.Day() {
			closing = append(closing, card)
		}
	}
	if len(closing) == 0 {
		return s, nil
	}

	started := time.Now()
	for _, card := range closing {
		if err := r.closeStatement(ctx, card, today); err != nil {
			s.Failed++
			r.log.Error().Err(err).Str("account_id", card.Account.ID).Msg("statement close failed")
			continue
		}
		s.Processed++
	}

	r.finish(ctx, today, started, s)
	return s, nil
}

func (r *Runner) closeStatement(ctx context.Context, card store.CreditCard, today time.Time) error {
	prevClose := accrual.PrevCloseDate(today, card.Details.StatementCloseDay)

	credits, err := r.db.CreditTransactionsSince(ctx, card.Account.ID, prevClose)
	if err != nil {
		return err
	}
	payments := decimal.Zero
	for _, txn := range credits {
		payments = payments.Add(txn.Amount)
	}

	owed := card.Details.LastStatementBalance.Abs()
	paidInFull := accrual.PaidInFull(owed, payments)

	return r.db.Atomic(ctx, func(tx *store.Tx) error {
		return tx.UpdateStatement(card.Account.ID, card.Account.Balance, paidInFull)
	})
}
