// Package store persists window-scoped key-value storage and the identity
// transition journal.
package store

import (
	"context"
	"errors"
	"math"

	"github.com/lzjever/mbos-wbs/internal/core"
)

var ErrNotFound = errors.New("storage item not found")

type Store interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace, key, value string) error
	Items(ctx context.Context, namespace string) (map[string]string, error)
	// MigrateNamespace copies every key of from into to, overwriting
	// conflicting keys. Keys only present in to survive.
	MigrateNamespace(ctx context.Context, from, to string) error
	RecordTransition(ctx context.Context, ev core.TransitionEvent) error
	// ListTransitions returns the newest events first. A limit of zero or
	// less returns all of them.
	ListTransitions(ctx context.Context, windowID string, limit int) ([]core.TransitionEvent, error)
	Ping(ctx context.Context) error
}

// transitionLimit maps a ListTransitions limit onto a positive row count.
func transitionLimit(limit int) int32 {
	if limit <= 0 || limit > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(limit)
}
