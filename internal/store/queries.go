package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

type WbsTransition struct {
	EventID   int64
	Ts        pgtype.Timestamptz
	WindowID  string
	FromState string
	FromID    pgtype.Text
	ToID      pgtype.Text
	Target    string
	Outcome   string
	Error     pgtype.Text
}

const acquireNamespaceLock = `SELECT pg_advisory_xact_lock(hashtext($1))`

func (q *Queries) AcquireNamespaceLock(ctx context.Context, namespace string) error {
	_, err := q.db.Exec(ctx, acquireNamespaceLock, namespace)
	return err
}

const getItem = `SELECT value FROM wbs.storage_items WHERE namespace = $1 AND key = $2`

func (q *Queries) GetItem(ctx context.Context, namespace, key string) (string, error) {
	var value string
	err := q.db.QueryRow(ctx, getItem, namespace, key).Scan(&value)
	return value, err
}

const setItem = `
INSERT INTO wbs.storage_items (namespace, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

func (q *Queries) SetItem(ctx context.Context, namespace, key, value string) error {
	_, err := q.db.Exec(ctx, setItem, namespace, key, value)
	return err
}

const listItems = `SELECT key, value FROM wbs.storage_items WHERE namespace = $1 ORDER BY key`

func (q *Queries) ListItems(ctx context.Context, namespace string) (map[string]string, error) {
	rows, err := q.db.Query(ctx, listItems, namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		items[k] = v
	}
	return items, rows.Err()
}

// copyNamespace upserts every source key into the destination. Keys that only
// exist in the destination are left alone.
const copyNamespace = `
INSERT INTO wbs.storage_items (namespace, key, value, updated_at)
SELECT $2, key, value, now() FROM wbs.storage_items WHERE namespace = $1
ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

func (q *Queries) CopyNamespace(ctx context.Context, from, to string) (int64, error) {
	tag, err := q.db.Exec(ctx, copyNamespace, from, to)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const insertTransition = `
INSERT INTO wbs.transitions (ts, window_id, from_state, from_id, to_id, target, outcome, error)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING event_id`

type InsertTransitionParams struct {
	Ts        pgtype.Timestamptz
	WindowID  string
	FromState string
	FromID    pgtype.Text
	ToID      pgtype.Text
	Target    string
	Outcome   string
	Error     pgtype.Text
}

func (q *Queries) InsertTransition(ctx context.Context, arg InsertTransitionParams) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, insertTransition,
		arg.Ts, arg.WindowID, arg.FromState, arg.FromID, arg.ToID, arg.Target, arg.Outcome, arg.Error,
	).Scan(&id)
	return id, err
}

const listTransitions = `
SELECT event_id, ts, window_id, from_state, from_id, to_id, target, outcome, error
FROM wbs.transitions WHERE window_id = $1 ORDER BY event_id DESC LIMIT $2`

func (q *Queries) ListTransitions(ctx context.Context, windowID string, limit int32) ([]WbsTransition, error) {
	rows, err := q.db.Query(ctx, listTransitions, windowID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WbsTransition
	for rows.Next() {
		var i WbsTransition
		if err := rows.Scan(&i.EventID, &i.Ts, &i.WindowID, &i.FromState, &i.FromID, &i.ToID, &i.Target, &i.Outcome, &i.Error); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
