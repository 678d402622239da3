// internal/storage/postgres/postgres.go

// Package postgres provides lib/pq-backed repository adapters.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Statements are idempotent so startup can
// run this unconditionally.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			password_salt TEXT NOT NULL,
			active_loan_ids TEXT[] NOT NULL DEFAULT '{}',
			fine_balance NUMERIC NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS media (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			isbn TEXT NOT NULL DEFAULT '',
			artist TEXT NOT NULL DEFAULT '',
			total_copies INT NOT NULL,
			copies_available INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS loans (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			media_id TEXT NOT NULL,
			checkout_date DATE NOT NULL,
			due_date DATE NOT NULL,
			returned_date DATE
		)`,
		`CREATE INDEX IF NOT EXISTS loans_user_open ON loans (user_id) WHERE returned_date IS NULL`,
		`CREATE TABLE IF NOT EXISTS events (
			id BIGSERIAL PRIMARY KEY,
			aggregate_id TEXT NOT NULL,
			aggregate_type TEXT NOT NULL,
			event_type TEXT NOT NULL,
			event_data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS events_aggregate ON events (aggregate_id, id)`,
	}

	for _, statement := range statements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}
