package database

import (
	"database/sql"
	"fmt"
)

// migrations are idempotent and run at startup, in order.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		avatar_url TEXT,
		is_external BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_idx
		ON users (LOWER(email)) WHERE email IS NOT NULL AND NOT is_external`,

	`CREATE TABLE IF NOT EXISTS splits (
		id UUID PRIMARY KEY,
		creator_id BIGINT NOT NULL REFERENCES users(id),
		description TEXT NOT NULL,
		total_amount NUMERIC(12,2) NOT NULL,
		tax_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		tip_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		currency_code TEXT NOT NULL DEFAULT 'USD',
		strategy TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		finalized_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS participants (
		id UUID PRIMARY KEY,
		split_id UUID NOT NULL REFERENCES splits(id) ON DELETE CASCADE,
		user_id BIGINT REFERENCES users(id),
		external_name TEXT,
		external_email TEXT,
		external_phone TEXT,
		role TEXT NOT NULL DEFAULT 'ower',
		position INT NOT NULL DEFAULT 0,
		amount_owed NUMERIC(12,2) NOT NULL DEFAULT 0,
		amount_paid NUMERIC(12,2) NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending'
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS participants_split_user_idx
		ON participants (split_id, user_id) WHERE user_id IS NOT NULL`,

	`CREATE TABLE IF NOT EXISTS line_items (
		id UUID PRIMARY KEY,
		split_id UUID NOT NULL REFERENCES splits(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		unit_price NUMERIC(12,2) NOT NULL,
		quantity INT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS claims (
		id UUID PRIMARY KEY,
		item_id UUID NOT NULL REFERENCES line_items(id) ON DELETE CASCADE,
		participant_id UUID NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
		quantity_claimed INT NOT NULL CHECK (quantity_claimed >= 1),
		share_count INT NOT NULL DEFAULT 1 CHECK (share_count >= 1),
		UNIQUE (item_id, participant_id)
	)`,

	`CREATE TABLE IF NOT EXISTS payment_events (
		id UUID PRIMARY KEY,
		split_id UUID NOT NULL REFERENCES splits(id) ON DELETE CASCADE,
		payer_email TEXT,
		payer_name TEXT,
		amount NUMERIC(12,2) NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS payment_events_split_idx
		ON payment_events (split_id, occurred_at)`,
}

// runMigrations applies the schema statements in order.
func runMigrations(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
