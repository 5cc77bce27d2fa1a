package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Statements are idempotent and run in order inside one transaction.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price       BIGINT NOT NULL CHECK (price > 0),
		category    TEXT NOT NULL DEFAULT '',
		stock       INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		sizes       TEXT[] NOT NULL DEFAULT '{}',
		colors      TEXT[] NOT NULL DEFAULT '{}',
		images      TEXT[] NOT NULL DEFAULT '{}',
		featured    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,
	`CREATE INDEX IF NOT EXISTS idx_products_created_at ON products (created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS profiles (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL,
		name       TEXT NOT NULL DEFAULT '',
		role       TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
		phone      TEXT NOT NULL DEFAULT '',
		address    TEXT NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	// product_id carries no foreign key so rows of deleted products stay
	// visible as unavailable.
	`CREATE TABLE IF NOT EXISTS cart_items (
		id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id        TEXT NOT NULL,
		product_id     UUID NOT NULL,
		quantity       INTEGER NOT NULL CHECK (quantity > 0),
		selected_size  TEXT NOT NULL DEFAULT '',
		selected_color TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS cart_items_variant_key
		ON cart_items (user_id, product_id, selected_size, selected_color)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id                 UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id            TEXT NOT NULL,
		total              BIGINT NOT NULL CHECK (total >= 0),
		status             TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed', 'cancelled')),
		payment_session_id TEXT,
		idempotency_key    TEXT,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`ALTER TABLE orders DROP CONSTRAINT IF EXISTS orders_idempotency_key_key`,
	`CREATE UNIQUE INDEX IF NOT EXISTS orders_user_idempotency_key
		ON orders (user_id, idempotency_key)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders (status, created_at)`,

	`CREATE TABLE IF NOT EXISTS order_items (
		id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		order_id       UUID NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
		product_id     UUID NOT NULL,
		product_name   TEXT NOT NULL,
		product_price  BIGINT NOT NULL CHECK (product_price > 0),
		quantity       INTEGER NOT NULL CHECK (quantity > 0),
		selected_size  TEXT NOT NULL DEFAULT '',
		selected_color TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id)`,
}

func Migrate(ctx context.Context, db *sql.DB, logger *logrus.Logger) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not start migration transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d failed: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit migration: %w", err)
	}

	logger.Infof("Database schema is up to date (%d statements applied)", len(schema))
	return nil
}
