// Package migration moves a window from one workspace identity to another.
//
// The extension runtime is stopped on its own goroutine while the window
// host, storage and settings steps run; the two are joined only when the
// runtime is restarted. Migration never touches extension-owned state.
package migration

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lzjever/mbos-wbs/internal/backup"
	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/observability"
	"github.com/lzjever/mbos-wbs/internal/session"
)

type ExtensionRuntime interface {
	Stop(ctx context.Context) error
	Start(ctx context.Context) error
}

// EnterResult is the host's answer to entering a workspace.
type EnterResult struct {
	Identifier      core.Identifier
	Folders         []core.WorkspaceFolder
	BackupPath      string
	RemoteAuthority string
}

type WindowHost interface {
	// EnterWorkspace returns nil when the host declines.
	EnterWorkspace(ctx context.Context, windowID string, loc core.Location) (*EnterResult, error)
	Reload(ctx context.Context, windowID string) error
}

type StorageMigrator interface {
	MigrateNamespace(ctx context.Context, from, to string) error
}

type Journal interface {
	RecordTransition(ctx context.Context, ev core.TransitionEvent) error
}

type ConfigurationRegistry interface {
	Keys(level core.ConfigurationLevel) []string
	Property(key string) (core.ConfigurationProperty, bool)
	Value(key string, level core.ConfigurationLevel) (any, bool)
}

type ConfigurationService interface {
	Initialize(ctx context.Context, wb core.Workbench) error
}

type SettingsWriter interface {
	WriteSettings(ctx context.Context, configLocation core.Location, values map[string]any) error
}

type Deps struct {
	Session  *session.Session
	Runtime  ExtensionRuntime
	Host     WindowHost
	Storage  StorageMigrator
	Journal  Journal
	Registry ConfigurationRegistry
	Config   ConfigurationService
	Settings SettingsWriter
	Backup   backup.Service
	Platform core.Platform
	TestMode bool
	Log      *zap.Logger
}

type Pipeline struct {
	d Deps
}

func New(d Deps) *Pipeline {
	if d.Backup == nil {
		d.Backup = backup.Noop{}
	}
	return &Pipeline{d: d}
}

// Enter moves the window to the workspace at target. Storage and settings
// copied before a later failure are not rolled back.
func (p *Pipeline) Enter(ctx context.Context, target core.Location) error {
	if p.d.TestMode {
		return core.NewAppError(core.ErrTestMode, "entering a workspace is not supported in extension test mode")
	}

	start := time.Now()
	windowID := p.d.Session.WindowID()
	prev := p.d.Session.Workbench()
	fromNS := p.d.Session.Namespace(p.d.Platform)
	log := p.d.Log.With(zap.String("window_id", windowID), zap.String("target", target.String()))

	// The stop runs detached from the caller's cancellation: once asked to
	// stop, the runtime is always asked to start again.
	var stopTask errgroup.Group
	stopCtx := context.WithoutCancel(ctx)
	stopTask.Go(func() error {
		if err := p.d.Runtime.Stop(stopCtx); err != nil {
			log.Warn("migration: runtime stop failed", zap.Error(err))
		}
		return nil
	})

	restarted := false
	restart := func(reason string) {
		if restarted {
			return
		}
		restarted = true
		_ = stopTask.Wait()
		observability.RuntimeRestartTotal.WithLabelValues(reason).Inc()
		if err := p.d.Runtime.Start(stopCtx); err != nil {
			log.Warn("migration: runtime start failed", zap.String("reason", reason), zap.Error(err))
		}
	}

	ev := core.TransitionEvent{WindowID: windowID, FromState: prev.State(), Target: target}
	if id, ok := core.WorkspaceIdentifier(prev); ok {
		ev.FromID = id.ID
	}
	finish := func(outcome string, err error) {
		ev.Outcome = outcome
		ev.Ts = time.Now().UTC()
		if err != nil {
			ev.Error = err.Error()
		}
		observability.MigrationTotal.WithLabelValues(outcome).Inc()
		observability.MigrationDuration.Observe(time.Since(start).Seconds())
		if p.d.Journal != nil {
			if jerr := p.d.Journal.RecordTransition(stopCtx, ev); jerr != nil {
				log.Warn("migration: journal write failed", zap.Error(jerr))
			}
		}
	}

	res, err := p.d.Host.EnterWorkspace(ctx, windowID, target)
	if err != nil {
		restart("rollback")
		finish(core.OutcomeFailed, err)
		return fmt.Errorf("enter workspace: %w", err)
	}
	if res == nil {
		log.Info("migration: host declined")
		restart("declined")
		finish(core.OutcomeDeclined, nil)
		return nil
	}
	ev.ToID = res.Identifier.ID

	next, err := p.apply(ctx, prev, fromNS, res, log)
	if err != nil {
		restart("rollback")
		finish(core.OutcomeFailed, err)
		return err
	}

	if res.RemoteAuthority != "" {
		_ = stopTask.Wait()
		if err := p.d.Host.Reload(ctx, windowID); err != nil {
			restart("rollback")
			finish(core.OutcomeFailed, err)
			return fmt.Errorf("reload window: %w", err)
		}
		restarted = true
	} else {
		restart("entered")
	}

	observability.WorkspaceStateTransitions.WithLabelValues(string(prev.State()), string(next.State())).Inc()
	finish(core.OutcomeEntered, nil)
	log.Info("migration: entered", zap.String("workspace_id", res.Identifier.ID), zap.Duration("took", time.Since(start)))
	return nil
}

// apply runs storage, settings, backup and configuration steps and swaps the
// session's workbench.
func (p *Pipeline) apply(ctx context.Context, prev core.Workbench, fromNS string, res *EnterResult, log *zap.Logger) (core.Workbench, error) {
	next, err := core.NewWorkbench(&res.Identifier, res.Folders)
	if err != nil {
		return nil, fmt.Errorf("build workbench: %w", err)
	}

	if err := p.d.Storage.MigrateNamespace(ctx, fromNS, res.Identifier.ID); err != nil {
		return nil, fmt.Errorf("migrate storage: %w", err)
	}

	if prev.State() == core.StateFolder {
		if err := p.CopyWorkspaceSettings(ctx, res.Identifier, WindowScopeOnly); err != nil {
			return nil, fmt.Errorf("migrate settings: %w", err)
		}
	}

	if backup.IsActive(p.d.Backup) && res.BackupPath != "" {
		if err := p.d.Backup.Reinitialize(ctx, res.BackupPath); err != nil {
			return nil, fmt.Errorf("reinitialize backups: %w", err)
		}
	}

	if err := p.d.Config.Initialize(ctx, next); err != nil {
		return nil, fmt.Errorf("initialize configuration: %w", err)
	}
	p.d.Session.Replace(next, res.RemoteAuthority)
	log.Debug("migration: workbench replaced", zap.String("state", string(next.State())))
	return next, nil
}

// WindowScopeOnly keeps settings declared with window scope.
func WindowScopeOnly(prop core.ConfigurationProperty) bool {
	return prop.Scope == core.ScopeWindow
}

// CopyWorkspaceSettings writes the current workspace-level values of declared
// keys into the settings block of to. A nil filter copies every declared key.
func (p *Pipeline) CopyWorkspaceSettings(ctx context.Context, to core.Identifier, filter func(core.ConfigurationProperty) bool) error {
	values := make(map[string]any)
	for _, key := range p.d.Registry.Keys(core.LevelWorkspace) {
		prop, ok := p.d.Registry.Property(key)
		if !ok || (filter != nil && !filter(prop)) {
			continue
		}
		if v, ok := p.d.Registry.Value(key, core.LevelWorkspace); ok {
			values[key] = v
		}
	}
	if len(values) == 0 {
		return nil
	}
	return p.d.Settings.WriteSettings(ctx, to.ConfigLocation, values)
}
