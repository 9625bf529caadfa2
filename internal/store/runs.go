package store

import (
	"context"
	"fmt"
	"time"
)

// JobRun is one row of the automated-run audit trail.
type JobRun struct {
	ID              string
	Job             string
	RunDate         time.Time
	Processed       int
	Failed          int
	Skipped         int
	VariablePending int
	StartedAt       time.Time
	FinishedAt      time.Time
}

// RecordRun appends a job-run audit record. Runs are recorded outside
// the per-entity atomic units; a run row exists even when every entity
// failed.
func (db *DB) RecordRun(ctx context.Context, run JobRun) error {
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO job_runs (id, job, run_date, processed, failed, skipped, variable_pending, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Job, fmtDate(run.RunDate), run.Processed, run.Failed, run.Skipped,
		run.VariablePending, run.StartedAt.Format(timeFormat), run.FinishedAt.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("recording run %s: %w", run.Job, err)
	}
	return nil
}

// RunsFor returns the audit records for one job, newest first.
func (db *DB) RunsFor(ctx context.Context, job string) ([]JobRun, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, job, run_date, processed, failed, skipped, variable_pending, started_at, finished_at
		FROM job_runs WHERE job = ?
		ORDER BY started_at DESC
	`, job)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []JobRun
	for rows.Next() {
		var (
			r                         JobRun
			dateStr, startStr, endStr string
		)
		if err := rows.Scan(&r.ID, &r.Job, &dateStr, &r.Processed, &r.Failed, &r.Skipped,
			&r.VariablePending, &startStr, &endStr); err != nil {
			return nil, err
		}
		if r.RunDate, err = parseDate(dateStr); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(timeFormat, startStr); err != nil {
			return nil, fmt.Errorf("parsing started_at %q: %w", startStr, err)
		}
		if r.FinishedAt, err = time.Parse(timeFormat, endStr); err != nil {
			return nil, fmt.Errorf("parsing finished_at %q: %w", endStr, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
