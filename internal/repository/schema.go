package repository

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE SCHEMA IF NOT EXISTS finance`,
	`CREATE TABLE IF NOT EXISTS finance.users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS finance.accounts (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES finance.users(id) ON DELETE CASCADE,
		name       TEXT NOT NULL DEFAULT '',
		balance    NUMERIC(15,2) NOT NULL DEFAULT 0,
		currency   CHAR(3) NOT NULL,
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS finance.transactions (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT NOT NULL REFERENCES finance.users(id) ON DELETE CASCADE,
		account_id  BIGINT NOT NULL REFERENCES finance.accounts(id) ON DELETE CASCADE,
		type        TEXT NOT NULL CHECK (type IN ('INCOME', 'EXPENSE')),
		category    TEXT NOT NULL DEFAULT '',
		amount      NUMERIC(15,2) NOT NULL CHECK (amount >= 0),
		date        TIMESTAMPTZ NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_user_date_idx ON finance.transactions (user_id, date)`,
	`CREATE TABLE IF NOT EXISTS finance.budgets (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL UNIQUE REFERENCES finance.users(id) ON DELETE CASCADE,
		amount     NUMERIC(15,2) NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Migrate creates the finance schema if it does not exist
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
