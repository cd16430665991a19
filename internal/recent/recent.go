// Package recent keeps the recently opened workspaces in a YAML file.
package recent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/lzjever/mbos-wbs/internal/core"
)

type Entry struct {
	Label      string          `yaml:"label" json:"label"`
	Identifier core.Identifier `yaml:"identifier" json:"identifier"`
	OpenedAt   time.Time       `yaml:"opened_at" json:"opened_at"`
}

type document struct {
	Workspaces []Entry `yaml:"workspaces"`
}

// Registry is most-recent-first, unique by config location, and capped.
type Registry struct {
	mu    sync.Mutex
	path  string
	limit int
	p     core.Platform
	log   *zap.Logger
}

func NewRegistry(path string, limit int, p core.Platform, log *zap.Logger) *Registry {
	if limit <= 0 {
		limit = 50
	}
	return &Registry{path: path, limit: limit, p: p, log: log}
}

// Record moves e to the front of the list.
func (r *Registry) Record(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}
	if e.OpenedAt.IsZero() {
		e.OpenedAt = time.Now().UTC()
	}
	next := make([]Entry, 0, len(doc.Workspaces)+1)
	next = append(next, e)
	for _, old := range doc.Workspaces {
		if core.SameLocation(old.Identifier.ConfigLocation, e.Identifier.ConfigLocation, r.p) {
			continue
		}
		next = append(next, old)
	}
	if len(next) > r.limit {
		next = next[:r.limit]
	}
	doc.Workspaces = next
	if err := r.save(doc); err != nil {
		return err
	}
	r.log.Debug("recent: recorded", zap.String("label", e.Label), zap.String("config", e.Identifier.ConfigLocation.String()))
	return nil
}

func (r *Registry) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	return doc.Workspaces, nil
}

func (r *Registry) load() (document, error) {
	var doc document
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("recent: read %s: %w", r.path, err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("recent: parse %s: %w", r.path, err)
	}
	return doc, nil
}

func (r *Registry) save(doc document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("recent: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("recent: mkdir: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("recent: write: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("recent: rename: %w", err)
	}
	return nil
}
