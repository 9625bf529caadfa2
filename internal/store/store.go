// Package store is the Ledger Store: SQLite-backed persistence for
// accounts, transactions, bills, loans, credit-card state, APR rates, and
// interest logs. Batch jobs read due entities through the query methods
// and write through Atomic, which scopes an all-or-nothing unit to one
// entity.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const (
	dateFormat = "2006-01-02"
	timeFormat = time.RFC3339
)

// DB wraps the SQLite connection.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies
// migrations.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer at a time keeps per-entity transactions serialized.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	db := &DB{db: sqlDB}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("applying migration: %w", err)
		}
	}
	return nil
}

// Tx is one atomic write unit. All mutations inside the unit commit
// together or not at all.
type Tx struct {
	tx *sql.Tx
}

// Atomic runs fn inside a database transaction, committing on nil and
// rolling back on error. Jobs open one Atomic unit per entity.
func (db *DB) Atomic(ctx context.Context, fn func(*Tx) error) error {
	sqlTx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(&Tx{tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back after %v: %w", err, rbErr)
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// fmtDate stores a calendar date as YYYY-MM-DD.
func fmtDate(t time.Time) string {
	return t.Format(dateFormat)
}

// fmtDatePtr stores the zero time as NULL.
func fmtDatePtr(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(dateFormat)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

func parseDateNull(s sql.NullString) (time.Time, error) {
	if !s.Valid {
		return time.Time{}, nil
	}
	return parseDate(s.String)
}

func parseDec(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing decimal %q: %w", s, err)
	}
	return d, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
