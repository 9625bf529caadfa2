package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerrun-dev/ledgerrun/internal/accrual"
	"github.com/ledgerrun-dev/ledgerrun/internal/dates"
	"github.com/ledgerrun-dev/ledgerrun/internal/id"
	"github.com/ledgerrun-dev/ledgerrun/internal/model"
	"github.com/ledgerrun-dev/ledgerrun/internal/store"
)

// RunCardInterest accrues daily periodic interest on every active
// credit card. Each qualifying purchase contributes one day's interest
// at its effective APR; the per-card total is logged once per day. On
// the last day of the month the month's charged logs are consolidated
// into a single INTEREST_CHARGED transaction and the card balance drops
// by the total.
func (r *Runner) RunCardInterest(ctx context.Context, today time.Time) (Summary, error) {
	today = dates.Midnight(today)
	s := Summary{Job: JobCardInterest}

	cards, err := r.db.ActiveCreditCards(ctx)
	if err != nil {
		return s, fmt.Errorf("selecting credit cards: %w", err)
	}
	if len(cards) == 0 {
		return s, nil
	}

	started := time.Now()
	for _, card := range cards {
		wrote, err := r.accrueCard(ctx, card, today)
		switch {
		case err != nil:
			s.Failed++
			r.log.Error().Err(err).Str("account_id", card.Account.ID).Msg("card accrual failed")
		case !wrote:
			s.Skipped++
		default:
			s.Processed++
		}
	}

	r.finish(ctx, today, started, s)
	return s, nil
}

func (r *Runner) accrueCard(ctx context.Context, card store.CreditCard, today time.Time) (bool, error) {
	rateRows, err := r.db.AccountRates(ctx, card.Account.ID)
	if err != nil {
		return false, err
	}
	rates := accrual.NewRates(rateRows)

	purchases, err := r.db.PurchaseTransactions(ctx, card.Account.ID)
	if err != nil {
		return false, err
	}

	daily := decimal.Zero
	for _, txn := range purchases {
		if !txn.IsPurchase() || !accrual.ShouldAccrue(txn.Date, card.Details, today) {
			continue
		}
		apr, ok := accrual.EffectiveAPR(txn, rates)
		if !ok {
			// No resolvable rate: the purchase contributes zero.
			r.log.Info().Str("transaction_id", txn.ID).Msg("no APR rate, purchase skipped")
			continue
		}
		daily = daily.Add(accrual.DailyInterest(txn.Amount, apr))
	}

	// Month-end consolidation sums the month's charged logs, including
	// today's accrual which has not been written yet.
	monthTotal := decimal.Zero
	monthEnd := dates.IsLastDayOfMonth(today)
	if monthEnd {
		logs, err := r.db.InterestLogsForMonth(ctx, card.Account.ID, model.InterestCharged, today.Year(), int(today.Month()))
		if err != nil {
			return false, err
		}
		for _, l := range logs {
			monthTotal = monthTotal.Add(l.Amount)
		}
		monthTotal = monthTotal.Add(daily)
	}

	if daily.IsZero() && (!monthEnd || monthTotal.IsZero()) {
		return false, nil
	}

	err = r.db.Atomic(ctx, func(tx *store.Tx) error {
		if !daily.IsZero() {
			if err := tx.InsertInterestLog(model.InterestLog{
				ID:        id.New(),
				UserID:    card.Account.UserID,
				AccountID: card.Account.ID,
				Date:      today,
				Amount:    daily,
				Type:      model.InterestCharged,
				Notes:     "daily periodic interest",
			}); err != nil {
				return err
			}
		}
		if monthEnd && !monthTotal.IsZero() {
			txn := model.Transaction{
				ID:          id.New(),
				UserID:      card.Account.UserID,
				AccountID:   card.Account.ID,
				Date:        today,
				Description: fmt.Sprintf("interest charged for %s", today.Format("January 2006")),
				Amount:      monthTotal.Neg(),
				Type:        model.TxnInterestCharged,
				Source:      model.SourceSystem,
			}
			if err := tx.InsertTransaction(txn); err != nil {
				return err
			}
			if err := tx.UpdateAccountBalance(card.Account.ID, card.Account.Balance.Sub(monthTotal)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
