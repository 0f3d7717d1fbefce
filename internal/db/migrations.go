package db

import (
	"context"
	"fmt"
)

// Migration is a named, idempotent schema change
type Migration struct {
	Name string
	SQL  string
}

// Migrations lists the schema changes in the order they are applied.
var Migrations = []Migration{
	{
		Name: "create_pgcrypto",
		SQL:  `CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	},
	{
		Name: "create_payments",
		SQL: `CREATE TABLE IF NOT EXISTS payments (
			id                 UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id            UUID NOT NULL,
			payment_request_id TEXT NOT NULL UNIQUE,
			payment_id         TEXT,
			status             TEXT NOT NULL DEFAULT 'pending',
			amount             TEXT NOT NULL,
			purpose            TEXT NOT NULL,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			paid_at            TIMESTAMPTZ
		)`,
	},
	{
		Name: "index_payments_user",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_payments_user_status ON payments (user_id, status)`,
	},
}

// Migrate applies every migration. Each statement is idempotent, so Migrate is safe to run
// on every start.
func (db *DB) Migrate(ctx context.Context) error {
	for _, m := range Migrations {
		if _, err := db.pool.Exec(ctx, m.SQL); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.Name, err)
		}
	}
	return nil
}
