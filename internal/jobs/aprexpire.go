package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ledgerrun-dev/ledgerrun/internal/dates"
	"github.com/ledgerrun-dev/ledgerrun/internal/model"
	"github.com/ledgerrun-dev/ledgerrun/internal/store"
)

// RunAprExpiration deactivates APR rates whose expiration date has
// passed. Transactions still referencing an expired rate are reassigned
// in bulk to the account's active STANDARD rate, or cleared when there
// is none. A rate with no linked transactions is simply deactivated.
func (r *Runner) RunAprExpiration(ctx context.Context, today time.Time) (Summary, error) {
	today = dates.Midnight(today)
	s := Summary{Job: JobAprExpiration}

	rates, err := r.db.ExpiredRates(ctx, today)
	if err != nil {
		return s, fmt.Errorf("selecting expired rates: %w", err)
	}
	if len(rates) == 0 {
		return s, nil
	}

	started := time.Now()
	for _, rate := range rates {
		if err := r.expireRate(ctx, rate); err != nil {
			s.Failed++
			r.log.Error().Err(err).Str("rate_id", rate.ID).Msg("rate expiration failed")
			continue
		}
		s.Processed++
	}

	r.finish(ctx, today, started, s)
	return s, nil
}

func (r *Runner) expireRate(ctx context.Context, rate model.AprRate) error {
	linked, err := r.db.CountTransactionsForRate(ctx, rate.ID)
	if err != nil {
		return err
	}

	target := ""
	if linked > 0 {
		std, err := r.db.ActiveStandardRate(ctx, rate.AccountID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			// No fallback rate: references are cleared.
		case err != nil:
			return err
		case std.ID != rate.ID:
			target = std.ID
		}
	}

	return r.db.Atomic(ctx, func(tx *store.Tx) error {
		if err := tx.DeactivateAprRate(rate.ID); err != nil {
			return err
		}
		if linked == 0 {
			return nil
		}
		moved, err := tx.ReassignRateTransactions(rate.ID, target)
		if err != nil {
			return err
		}
		r.log.Info().
			Str("rate_id", rate.ID).
			Str("target_rate_id", target).
			Int64("transactions", moved).
			Msg("reassigned rate references")
		return nil
	})
}
