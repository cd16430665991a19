// Package backup points a window's hot-exit backups at a directory.
package backup

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

type Service interface {
	Reinitialize(ctx context.Context, path string) error
}

// Noop keeps no backups.
type Noop struct{}

func (Noop) Reinitialize(ctx context.Context, path string) error { return nil }

// IsActive reports whether s is a concrete store that must follow the window.
func IsActive(s Service) bool {
	if s == nil {
		return false
	}
	_, noop := s.(Noop)
	return !noop
}

// Dir stores backups below a directory that moves with the workspace.
type Dir struct {
	mu   sync.RWMutex
	path string
	log  *zap.Logger
}

func NewDir(log *zap.Logger) *Dir {
	return &Dir{log: log}
}

func (d *Dir) Reinitialize(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("backup: empty path")
	}
	if err := os.MkdirAll(path, 0o700); err != nil {
		return fmt.Errorf("backup: mkdir %s: %w", path, err)
	}
	d.mu.Lock()
	prev := d.path
	d.path = path
	d.mu.Unlock()
	d.log.Info("backup: reinitialized", zap.String("from", prev), zap.String("to", path))
	return nil
}

func (d *Dir) Path() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.path
}
