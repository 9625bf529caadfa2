package store

// Migrations returns the schema statements. Each string is one SQL
// statement (SQLite executes one at a time). Monetary columns are TEXT
// holding exact decimals; date columns are TEXT YYYY-MM-DD normalized to
// midnight.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			name          TEXT NOT NULL,
			type          TEXT NOT NULL,
			balance       TEXT NOT NULL DEFAULT '0',
			credit_limit  TEXT,
			is_active     INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_user ON accounts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_type ON accounts(type, is_active)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			account_id    TEXT NOT NULL REFERENCES accounts(id),
			date          TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			amount        TEXT NOT NULL,
			type          TEXT NOT NULL,
			source        TEXT NOT NULL,
			category      TEXT NOT NULL DEFAULT '',
			notes         TEXT NOT NULL DEFAULT '',
			linked_transaction_id TEXT,
			apr_rate_id   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_txn_account_date ON transactions(account_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_txn_apr_rate ON transactions(apr_rate_id)`,

		`CREATE TABLE IF NOT EXISTS recurring_bills (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			account_id    TEXT NOT NULL REFERENCES accounts(id),
			name          TEXT NOT NULL,
			amount        TEXT NOT NULL,
			frequency     TEXT NOT NULL,
			day_of_month  INTEGER NOT NULL DEFAULT 1,
			is_variable_amount INTEGER NOT NULL DEFAULT 0,
			category      TEXT NOT NULL DEFAULT '',
			next_due_date TEXT NOT NULL,
			is_active     INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bills_due ON recurring_bills(is_active, next_due_date)`,

		`CREATE TABLE IF NOT EXISTS bill_payments (
			id                TEXT PRIMARY KEY,
			recurring_bill_id TEXT NOT NULL REFERENCES recurring_bills(id),
			month             INTEGER NOT NULL,
			year              INTEGER NOT NULL,
			amount            TEXT NOT NULL,
			transaction_id    TEXT,
			paid_at           TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bill_payments_bill ON bill_payments(recurring_bill_id, year, month)`,

		`CREATE TABLE IF NOT EXISTS loans (
			id                 TEXT PRIMARY KEY,
			user_id            TEXT NOT NULL,
			account_id         TEXT NOT NULL REFERENCES accounts(id),
			payment_account_id TEXT,
			loan_type          TEXT NOT NULL,
			original_balance   TEXT NOT NULL,
			interest_rate      TEXT NOT NULL DEFAULT '0',
			term_months        INTEGER NOT NULL DEFAULT 0,
			start_date         TEXT,
			monthly_payment    TEXT NOT NULL DEFAULT '0',
			extra_payment_amount TEXT NOT NULL DEFAULT '0',
			completed_installments INTEGER NOT NULL DEFAULT 0,
			total_installments INTEGER NOT NULL DEFAULT 0,
			installment_frequency TEXT,
			next_payment_date  TEXT,
			fee_per_hundred    TEXT NOT NULL DEFAULT '0',
			due_date           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_loans_type_due ON loans(loan_type, next_payment_date)`,

		`CREATE TABLE IF NOT EXISTS credit_card_details (
			account_id          TEXT PRIMARY KEY REFERENCES accounts(id),
			statement_close_day INTEGER NOT NULL,
			payment_due_day     INTEGER NOT NULL,
			grace_period_days   INTEGER NOT NULL DEFAULT 21,
			last_statement_balance TEXT NOT NULL DEFAULT '0',
			last_statement_paid_full INTEGER NOT NULL DEFAULT 1,
			minimum_payment_pct  TEXT NOT NULL DEFAULT '0',
			minimum_payment_floor TEXT NOT NULL DEFAULT '0'
		)`,

		`CREATE TABLE IF NOT EXISTS apr_rates (
			id              TEXT PRIMARY KEY,
			account_id      TEXT NOT NULL REFERENCES accounts(id),
			rate_type       TEXT NOT NULL,
			apr             TEXT NOT NULL,
			effective_date  TEXT NOT NULL,
			expiration_date TEXT,
			is_active       INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE INDEX IF NOT EXISTS idx_apr_rates_account ON apr_rates(account_id, is_active)`,

		`CREATE TABLE IF NOT EXISTS interest_logs (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			account_id TEXT NOT NULL REFERENCES accounts(id),
			date       TEXT NOT NULL,
			amount     TEXT NOT NULL,
			type       TEXT NOT NULL,
			notes      TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_interest_logs_account_date ON interest_logs(account_id, type, date)`,

		// Audit trail of automated runs.
		`CREATE TABLE IF NOT EXISTS job_runs (
			id          TEXT PRIMARY KEY,
			job         TEXT NOT NULL,
			run_date    TEXT NOT NULL,
			processed   INTEGER NOT NULL DEFAULT 0,
			failed      INTEGER NOT NULL DEFAULT 0,
			skipped     INTEGER NOT NULL DEFAULT 0,
			variable_pending INTEGER NOT NULL DEFAULT 0,
			started_at  TEXT NOT NULL,
			finished_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_job_runs_job_date ON job_runs(job, run_date)`,
	}
}
