package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
)

type Postgres struct {
	pool    *pgxpool.Pool
	queries *Queries
	log     *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, log *zap.Logger) *Postgres {
	return &Postgres{pool: pool, queries: New(pool), log: log}
}

func (p *Postgres) Get(ctx context.Context, namespace, key string) (string, error) {
	v, err := p.queries.GetItem(ctx, namespace, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return v, err
}

func (p *Postgres) Set(ctx context.Context, namespace, key, value string) error {
	return p.queries.SetItem(ctx, namespace, key, value)
}

func (p *Postgres) Items(ctx context.Context, namespace string) (map[string]string, error) {
	return p.queries.ListItems(ctx, namespace)
}

// MigrateNamespace runs the copy under an advisory lock on the destination so
// two windows entering the same workspace do not interleave.
func (p *Postgres) MigrateNamespace(ctx context.Context, from, to string) error {
	if from == to {
		return nil
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := p.queries.WithTx(tx)
	if err := qtx.AcquireNamespaceLock(ctx, to); err != nil {
		return fmt.Errorf("lock namespace %s: %w", to, err)
	}
	n, err := qtx.CopyNamespace(ctx, from, to)
	if err != nil {
		return fmt.Errorf("copy namespace: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	p.log.Info("store: namespace migrated", zap.String("from", from), zap.String("to", to), zap.Int64("items", n))
	return nil
}

func (p *Postgres) RecordTransition(ctx context.Context, ev core.TransitionEvent) error {
	ts := ev.Ts
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := p.queries.InsertTransition(ctx, InsertTransitionParams{
		Ts:        pgtype.Timestamptz{Time: ts, Valid: true},
		WindowID:  ev.WindowID,
		FromState: string(ev.FromState),
		FromID:    optText(ev.FromID),
		ToID:      optText(ev.ToID),
		Target:    ev.Target.String(),
		Outcome:   ev.Outcome,
		Error:     optText(ev.Error),
	})
	return err
}

func (p *Postgres) ListTransitions(ctx context.Context, windowID string, limit int) ([]core.TransitionEvent, error) {
	rows, err := p.queries.ListTransitions(ctx, windowID, transitionLimit(limit))
	if err != nil {
		return nil, err
	}
	out := make([]core.TransitionEvent, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.TransitionEvent{
			EventID:   r.EventID,
			Ts:        r.Ts.Time,
			WindowID:  r.WindowID,
			FromState: core.WorkbenchState(r.FromState),
			FromID:    r.FromID.String,
			ToID:      r.ToID.String,
			Target:    core.Location(r.Target),
			Outcome:   r.Outcome,
			Error:     r.Error.String,
		})
	}
	return out, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func optText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
