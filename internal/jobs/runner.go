// Package jobs contains the batch orchestrators: recurring bills, BNPL
// and payday installments, credit-card interest accrual, statement
// close, savings interest, and APR expiration. Each job selects the
// entities due today, computes deltas with the pure engines, and writes
// each entity's records inside one atomic store unit. One entity's
// failure never aborts a run.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerrun-dev/ledgerrun/internal/id"
	"github.com/ledgerrun-dev/ledgerrun/internal/store"
)

// Job names as recorded in the run audit trail and metrics.
const (
	JobRecurringBills = "recurring-bills"
	JobBNPL           = "bnpl-payments"
	JobPayday         = "payday-payments"
	JobCardInterest   = "cc-interest"
	JobStatementClose = "statement-close"
	JobSavings        = "savings-interest"
	JobAprExpiration  = "apr-expiration"
)

// errSkip marks a missing-linkage condition. The entity contributes
// nothing to the run and is logged informationally, not counted as a
// failure.
var errSkip = errors.New("entity skipped")

// Summary accumulates one run's counts. It is returned by value; jobs
// keep no global state.
type Summary struct {
	Job             string
	Processed       int
	Failed          int
	Skipped         int
	VariablePending int
}

// Runner executes batch jobs against the ledger store.
type Runner struct {
	db  *store.DB
	log zerolog.Logger
}

// New creates a Runner.
func New(db *store.DB, log zerolog.Logger) *Runner {
	return &Runner{db: db, log: log}
}

// finish records the run audit row, bumps metrics, and logs the summary.
// Called only when at least one entity was due; an empty selection exits
// without writes.
func (r *Runner) finish(ctx context.Context, today, started time.Time, s Summary) {
	run := store.JobRun{
		ID:              id.New(),
		Job:             s.Job,
		RunDate:         today,
		Processed:       s.Processed,
		Failed:          s.Failed,
		Skipped:         s.Skipped,
		VariablePending: s.VariablePending,
		StartedAt:       started,
		FinishedAt:      time.Now(),
	}
	if err := r.db.RecordRun(ctx, run); err != nil {
		r.log.Error().Err(err).Str("job", s.Job).Msg("recording run")
	}
	observeRun(s)
	r.log.Info().
		Str("job", s.Job).
		Int("processed", s.Processed).
		Int("failed", s.Failed).
		Int("skipped", s.Skipped).
		Int("variable_pending", s.VariablePending).
		Msg("run complete")
}

// RunDaily executes the daily jobs in their fixed order. Jobs never run
// concurrently; a failed job stops nothing but itself.
func (r *Runner) RunDaily(ctx context.Context, today time.Time) []Summary {
	runs := []func(context.Context, time.Time) (Summary, error){
		r.RunRecurringBills,
		r.RunInstallmentLoans,
		r.RunPaydayLoans,
		r.RunCardInterest,
		r.RunStatementClose,
		r.RunAprExpiration,
	}
	var summaries []Summary
	for _, run := range runs {
		s, err := run(ctx, today)
		if err != nil {
			r.log.Error().Err(err).Str("job", s.Job).Msg("job aborted")
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// RunMonthly executes the monthly jobs.
func (r *Runner) RunMonthly(ctx context.Context, today time.Time) []Summary {
	s, err := r.RunSavingsInterest(ctx, today)
	if err != nil {
		r.log.Error().Err(err).Str("job", s.Job).Msg("job aborted")
	}
	return []Summary{s}
}
