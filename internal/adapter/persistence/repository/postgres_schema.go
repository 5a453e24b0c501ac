package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS offers (
		id          TEXT PRIMARY KEY,
		seeker_id   TEXT NOT NULL,
		provider_id TEXT NOT NULL,
		status      TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS negotiations (
		offer_id                TEXT PRIMARY KEY,
		price                   TEXT,
		date                    TEXT,
		time                    TEXT,
		materials               TEXT,
		scope                   TEXT,
		seeker_confirmed        BOOLEAN NOT NULL DEFAULT FALSE,
		provider_confirmed      BOOLEAN NOT NULL DEFAULT FALSE,
		last_updated_by         TEXT NOT NULL,
		last_updated_by_user_id TEXT NOT NULL,
		status                  TEXT NOT NULL,
		version                 BIGINT NOT NULL,
		last_seq                BIGINT NOT NULL,
		created_at              TIMESTAMPTZ NOT NULL,
		updated_at              TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS negotiation_history (
		offer_id           TEXT NOT NULL,
		seq                BIGINT NOT NULL,
		id                 TEXT NOT NULL,
		field              TEXT NOT NULL DEFAULT '',
		old_value          TEXT,
		new_value          TEXT,
		changed_by         TEXT NOT NULL,
		changed_by_user_id TEXT NOT NULL,
		ts                 TIMESTAMPTZ NOT NULL,
		note               TEXT,
		PRIMARY KEY (offer_id, seq)
	)`,
}

// EnsurePostgresSchema creates the tables used by the Postgres adapters.
func EnsurePostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
