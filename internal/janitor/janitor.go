// Package janitor removes untitled workspaces left behind by windows that
// went away without running the shutdown guard.
package janitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/observability"
)

type UntitledWorkspaces interface {
	List(ctx context.Context) ([]core.Identifier, error)
	Delete(ctx context.Context, id core.Identifier) error
}

type FolderReader interface {
	Folders(ctx context.Context, configLocation core.Location) ([]core.WorkspaceFolder, error)
}

type WindowLister interface {
	OpenWorkspaces(ctx context.Context) []core.OpenWorkspace
}

type Janitor struct {
	untitled UntitledWorkspaces
	folders  FolderReader
	windows  WindowLister
	p        core.Platform
	cfg      Config
	log      *zap.Logger
}

func New(untitled UntitledWorkspaces, folders FolderReader, windows WindowLister, p core.Platform, cfg Config, log *zap.Logger) *Janitor {
	return &Janitor{untitled: untitled, folders: folders, windows: windows, p: p, cfg: cfg, log: log}
}

// Run sweeps once immediately and then every Interval until ctx is done.
func (j *Janitor) Run(ctx context.Context) {
	if j.cfg.Disabled || j.cfg.Interval <= 0 {
		j.log.Info("janitor disabled")
		return
	}
	j.log.Info("janitor started", zap.Duration("interval", j.cfg.Interval))
	for {
		if _, err := j.Sweep(ctx); err != nil {
			j.log.Warn("janitor: sweep failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			j.log.Info("janitor stopping")
			return
		case <-time.After(j.cfg.Interval):
		}
	}
}

// Result reports what one sweep did.
type Result struct {
	Removed  []core.Identifier
	Orphaned []core.Identifier
}

// Sweep removes untitled workspaces that no window has open and that hold no
// folders. Orphans with folders are kept so they can still be reopened.
func (j *Janitor) Sweep(ctx context.Context) (Result, error) {
	var res Result
	ids, err := j.untitled.List(ctx)
	if err != nil {
		return res, err
	}

	open := j.windows.OpenWorkspaces(ctx)
	for _, id := range ids {
		if j.isOpen(open, id) {
			continue
		}
		log := j.log.With(zap.String("workspace_id", id.ID))
		folders, err := j.folders.Folders(ctx, id.ConfigLocation)
		if err != nil {
			log.Warn("janitor: unreadable untitled workspace kept", zap.Error(err))
			res.Orphaned = append(res.Orphaned, id)
			continue
		}
		if len(folders) > 0 {
			res.Orphaned = append(res.Orphaned, id)
			continue
		}
		if err := j.untitled.Delete(ctx, id); err != nil {
			log.Warn("janitor: delete failed", zap.Error(err))
			continue
		}
		observability.JanitorRemovedTotal.Inc()
		log.Info("janitor: removed empty untitled workspace")
		res.Removed = append(res.Removed, id)
	}
	observability.OrphanedUntitled.Set(float64(len(res.Orphaned)))
	return res, nil
}

func (j *Janitor) isOpen(open []core.OpenWorkspace, id core.Identifier) bool {
	for _, ow := range open {
		if ow.Identifier != nil && core.SameLocation(ow.Identifier.ConfigLocation, id.ConfigLocation, j.p) {
			return true
		}
	}
	return false
}
