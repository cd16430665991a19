package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const Schema = `
CREATE SCHEMA IF NOT EXISTS wbs;

CREATE TABLE IF NOT EXISTS wbs.storage_items (
	namespace  TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (namespace, key)
);

CREATE TABLE IF NOT EXISTS wbs.transitions (
	event_id   BIGSERIAL PRIMARY KEY,
	ts         TIMESTAMPTZ NOT NULL DEFAULT now(),
	window_id  TEXT NOT NULL,
	from_state TEXT NOT NULL,
	from_id    TEXT,
	to_id      TEXT,
	target     TEXT NOT NULL,
	outcome    TEXT NOT NULL,
	error      TEXT
);

CREATE INDEX IF NOT EXISTS transitions_window_idx ON wbs.transitions (window_id, event_id DESC);
`

// Migrate creates the schema if it does not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
