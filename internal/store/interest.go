package store

import (
	"context"
	"fmt"

	"github.com/ledgerrun-dev/ledgerrun/internal/model"
)

// InsertInterestLog appends an interest audit record inside the atomic
// unit.
func (t *Tx) InsertInterestLog(l model.InterestLog) error {
	_, err := t.tx.Exec(`
		INSERT INTO interest_logs (id, user_id, account_id, date, amount, type, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.UserID, l.AccountID, fmtDate(l.Date), l.Amount.String(), string(l.Type), l.Notes)
	if err != nil {
		return fmt.Errorf("inserting interest log %s: %w", l.ID, err)
	}
	return nil
}

// InterestLogsForMonth returns an account's interest logs of one type
// within a calendar month, oldest first.
func (db *DB) InterestLogsForMonth(ctx context.Context, accountID string, typ model.InterestLogType, year, month int) ([]model.InterestLog, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	return db.queryInterestLogs(ctx, `
		SELECT id, user_id, account_id, date, amount, type, notes
		FROM interest_logs
		WHERE account_id = ? AND type = ? AND date LIKE ? || '%'
		ORDER BY date, id
	`, accountID, string(typ), prefix)
}

// AccountInterestLogs returns every interest log on an account, oldest
// first.
func (db *DB) AccountInterestLogs(ctx context.Context, accountID string) ([]model.InterestLog, error) {
	return db.queryInterestLogs(ctx, `
		SELECT id, user_id, account_id, date, amount, type, notes
		FROM interest_logs WHERE account_id = ?
		ORDER BY date, id
	`, accountID)
}

func (db *DB) queryInterestLogs(ctx context.Context, query string, args ...any) ([]model.InterestLog, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying interest logs: %w", err)
	}
	defer rows.Close()

	var logs []model.InterestLog
	for rows.Next() {
		var (
			l            model.InterestLog
			dateStr      string
			amount, typS string
		)
		if err := rows.Scan(&l.ID, &l.UserID, &l.AccountID, &dateStr, &amount, &typS, &l.Notes); err != nil {
			return nil, err
		}
		l.Type = model.InterestLogType(typS)
		if l.Date, err = parseDate(dateStr); err != nil {
			return nil, err
		}
		if l.Amount, err = parseDec(amount); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
