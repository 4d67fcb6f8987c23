package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// migrations only ever add; each statement is safe to run again.
var migrations = []string{
	`CREATE SCHEMA IF NOT EXISTS homebid`,
	`CREATE TABLE IF NOT EXISTS homebid.users (
		id TEXT PRIMARY KEY,
		user_type TEXT CHECK (user_type IN ('buyer', 'contractor')),
		email TEXT,
		given_name TEXT,
		family_name TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS homebid.pending_bid_payments (
		id TEXT PRIMARY KEY,
		bid_id TEXT NOT NULL,
		contractor_id TEXT NOT NULL REFERENCES homebid.users (id) ON DELETE CASCADE,
		checkout_session_id TEXT NOT NULL DEFAULT '',
		fields JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		completed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS pending_bid_payments_bid_id_idx ON homebid.pending_bid_payments (bid_id)`,
	`ALTER TABLE homebid.pending_bid_payments ADD COLUMN IF NOT EXISTS checkout_session_id TEXT NOT NULL DEFAULT ''`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *logrus.Logger) error {
	for i, q := range migrations {
		if _, err := pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	logger.WithField("statements", len(migrations)).Info("database schema up to date")
	return nil
}
