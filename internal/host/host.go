// Package host keeps the registry of live windows and assembles the services
// each window runs with.
package host

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/backup"
	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/dialog"
	"github.com/lzjever/mbos-wbs/internal/editing"
	"github.com/lzjever/mbos-wbs/internal/exthost"
	"github.com/lzjever/mbos-wbs/internal/fileio"
	"github.com/lzjever/mbos-wbs/internal/migration"
	"github.com/lzjever/mbos-wbs/internal/observability"
	"github.com/lzjever/mbos-wbs/internal/persistence"
	"github.com/lzjever/mbos-wbs/internal/recent"
	"github.com/lzjever/mbos-wbs/internal/session"
	"github.com/lzjever/mbos-wbs/internal/settings"
	"github.com/lzjever/mbos-wbs/internal/shutdown"
	"github.com/lzjever/mbos-wbs/internal/store"
	"github.com/lzjever/mbos-wbs/internal/untitled"
	"github.com/lzjever/mbos-wbs/internal/workspace"
)

var ErrWindowNotFound = errors.New("window not found")

type Options struct {
	Platform   core.Platform
	BackupRoot string
	SaveDir    string
	TestMode   bool
}

// Deps are shared by every window.
type Deps struct {
	Files    fileio.FileService
	Store    store.Store
	Registry *settings.Registry
	Dirty    *editing.DirtySet
	Untitled *untitled.Service
	Recent   *recent.Registry
	Signaler exthost.Signaler
	Dialogs  dialog.Service
}

type Host struct {
	opts   Options
	d      Deps
	editor *editing.Editor
	log    *zap.Logger

	mu      sync.RWMutex
	windows map[string]*Window
}

func New(opts Options, d Deps, log *zap.Logger) *Host {
	if d.Dialogs == nil {
		d.Dialogs = dialog.NewContextual(dialog.NewPreset(nil, nil))
	}
	return &Host{
		opts:    opts,
		d:       d,
		editor:  editing.NewEditor(d.Files, d.Dirty, d.Untitled, opts.Platform, log),
		log:     log,
		windows: make(map[string]*Window),
	}
}

type OpenRequest struct {
	Folder          *core.Location `json:"folder,omitempty"`
	Workspace       *core.Location `json:"workspace,omitempty"`
	RemoteAuthority string         `json:"remote_authority,omitempty"`
}

// Open registers a window on an empty workbench, a folder or a workspace file.
func (h *Host) Open(ctx context.Context, req OpenRequest) (Info, error) {
	if req.Folder != nil && req.Workspace != nil {
		return Info{}, core.NewAppError(core.ErrBadRequest, "open either a folder or a workspace")
	}

	var wb core.Workbench = core.EmptyWorkbench{}
	switch {
	case req.Workspace != nil:
		if h.openedElsewhere("", *req.Workspace) {
			return Info{}, core.NewAppError(core.ErrInvalidTarget, fmt.Sprintf("workspace %s is already open in another window", *req.Workspace))
		}
		folders, err := h.editor.Folders(ctx, *req.Workspace)
		if err != nil {
			return Info{}, err
		}
		id := h.identifierFor(*req.Workspace)
		wb = core.WorkspaceWorkbench{Identifier: id, Members: folders}
	case req.Folder != nil:
		wb = core.FolderWorkbench{Folder: core.NewWorkspaceFolder(*req.Folder, "")}
	}

	w := h.assemble(core.NewID(), wb, req.RemoteAuthority)
	if err := w.Settings.Initialize(ctx, wb); err != nil {
		return Info{}, fmt.Errorf("initialize configuration: %w", err)
	}
	if err := w.Runtime.Start(ctx); err != nil {
		h.log.Warn("host: runtime start failed", zap.String("window_id", w.ID), zap.Error(err))
	}

	h.mu.Lock()
	h.windows[w.ID] = w
	observability.OpenWindows.Set(float64(len(h.windows)))
	h.mu.Unlock()

	h.log.Info("host: window opened", zap.String("window_id", w.ID), zap.String("state", string(wb.State())))
	return w.info(h.d.Untitled.IsUntitled), nil
}

func (h *Host) assemble(windowID string, wb core.Workbench, remoteAuthority string) *Window {
	log := h.log.With(zap.String("window_id", windowID))
	sess := session.New(windowID, wb, remoteAuthority)
	w := &Window{
		ID:       windowID,
		Session:  sess,
		Settings: settings.NewService(h.d.Registry, h.d.Files, h.editor, log),
		Runtime:  exthost.NewRuntime(h.d.Signaler, windowID),
		OpenedAt: time.Now().UTC(),
	}

	var bk backup.Service = backup.Noop{}
	if h.opts.BackupRoot != "" {
		bk = backup.NewDir(log)
	}

	gateway := persistence.NewGateway(windowID, h.d.Files, h, h.d.Dialogs, h.opts.Platform, log)
	pipeline := migration.New(migration.Deps{
		Session:  sess,
		Runtime:  w.Runtime,
		Host:     h,
		Storage:  h.d.Store,
		Journal:  h.d.Store,
		Registry: w.Settings,
		Config:   w.Settings,
		Settings: h.editor,
		Backup:   bk,
		Platform: h.opts.Platform,
		TestMode: h.opts.TestMode,
		Log:      log,
	})
	guard := shutdown.NewGuard(shutdown.Deps{
		Session:  sess,
		Windows:  h,
		Dialogs:  h.d.Dialogs,
		Saver:    gateway,
		Untitled: h.d.Untitled,
		Recent:   h.d.Recent,
		Platform: h.opts.Platform,
		SaveDir:  h.opts.SaveDir,
		Log:      log,
	})
	w.Workspace = workspace.NewService(workspace.Deps{
		Session:    sess,
		Editor:     h.editor,
		Classifier: editing.NewClassifier(h.d.Dialogs, w, log),
		Gateway:    gateway,
		Pipeline:   pipeline,
		Guard:      guard,
		Untitled:   h.d.Untitled,
		Recent:     h.d.Recent,
		Platform:   h.opts.Platform,
		Log:        h.log,
	})
	return w
}

// Close runs the shutdown guard and unregisters the window unless vetoed.
func (h *Host) Close(ctx context.Context, windowID string, reason shutdown.Reason) (bool, error) {
	w, err := h.window(windowID)
	if err != nil {
		return false, err
	}
	veto, err := w.Workspace.OnBeforeShutdown(ctx, reason)
	if err != nil || veto {
		return veto, err
	}
	if reason == shutdown.ReasonReload {
		return false, h.Reload(ctx, windowID)
	}
	if err := w.Runtime.Stop(ctx); err != nil {
		h.log.Warn("host: runtime stop failed", zap.String("window_id", windowID), zap.Error(err))
	}

	h.mu.Lock()
	delete(h.windows, windowID)
	observability.OpenWindows.Set(float64(len(h.windows)))
	h.mu.Unlock()
	h.log.Info("host: window closed", zap.String("window_id", windowID), zap.String("reason", string(reason)))
	return false, nil
}

// Folders reads the folders of a workspace file.
func (h *Host) Folders(ctx context.Context, configLocation core.Location) ([]core.WorkspaceFolder, error) {
	return h.editor.Folders(ctx, configLocation)
}

func (h *Host) Window(windowID string) (*Window, error) { return h.window(windowID) }

func (h *Host) Info(windowID string) (Info, error) {
	w, err := h.window(windowID)
	if err != nil {
		return Info{}, err
	}
	return w.info(h.d.Untitled.IsUntitled), nil
}

// List returns windows ordered by opening time.
func (h *Host) List() []Info {
	h.mu.RLock()
	ws := make([]*Window, 0, len(h.windows))
	for _, w := range h.windows {
		ws = append(ws, w)
	}
	h.mu.RUnlock()
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].OpenedAt.Equal(ws[j].OpenedAt) {
			return ws[i].ID < ws[j].ID
		}
		return ws[i].OpenedAt.Before(ws[j].OpenedAt)
	})
	out := make([]Info, len(ws))
	for i, w := range ws {
		out[i] = w.info(h.d.Untitled.IsUntitled)
	}
	return out
}

func (h *Host) WindowCount(ctx context.Context) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.windows)
}

func (h *Host) OpenWorkspaces(ctx context.Context) []core.OpenWorkspace {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]core.OpenWorkspace, 0, len(h.windows))
	for id, w := range h.windows {
		ow := core.OpenWorkspace{WindowID: id}
		if wid, ok := core.WorkspaceIdentifier(w.Session.Workbench()); ok {
			ow.Identifier = &wid
		}
		out = append(out, ow)
	}
	return out
}

// EnterWorkspace resolves the identity of loc for a window. It declines when
// another window already has loc open.
func (h *Host) EnterWorkspace(ctx context.Context, windowID string, loc core.Location) (*migration.EnterResult, error) {
	w, err := h.window(windowID)
	if err != nil {
		return nil, err
	}
	if h.openedElsewhere(windowID, loc) {
		h.log.Info("host: enter declined, workspace open elsewhere", zap.String("window_id", windowID), zap.String("target", loc.String()))
		return nil, nil
	}
	folders, err := h.editor.Folders(ctx, loc)
	if err != nil {
		return nil, err
	}
	id := h.identifierFor(loc)
	res := &migration.EnterResult{
		Identifier:      id,
		Folders:         folders,
		RemoteAuthority: w.Session.RemoteAuthority(),
	}
	if h.opts.BackupRoot != "" {
		res.BackupPath = filepath.Join(h.opts.BackupRoot, id.ID)
	}
	return res, nil
}

// Reload restarts the window in place: configuration is re-read and the
// extension runtime started again.
func (h *Host) Reload(ctx context.Context, windowID string) error {
	w, err := h.window(windowID)
	if err != nil {
		return err
	}
	if err := w.Settings.Initialize(ctx, w.Session.Workbench()); err != nil {
		return fmt.Errorf("reload configuration: %w", err)
	}
	if err := w.Runtime.Start(ctx); err != nil {
		h.log.Warn("host: runtime start failed", zap.String("window_id", windowID), zap.Error(err))
	}
	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()
	h.log.Info("host: window reloaded", zap.String("window_id", windowID))
	return nil
}

func (h *Host) window(windowID string) (*Window, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	w, ok := h.windows[windowID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWindowNotFound, windowID)
	}
	return w, nil
}

func (h *Host) openedElsewhere(windowID string, loc core.Location) bool {
	for _, ow := range h.OpenWorkspaces(context.Background()) {
		if ow.WindowID != windowID && ow.Identifier != nil && core.SameLocation(ow.Identifier.ConfigLocation, loc, h.opts.Platform) {
			return true
		}
	}
	return false
}

// identifierFor keeps the id an untitled workspace was created with.
func (h *Host) identifierFor(loc core.Location) core.Identifier {
	if h.d.Untitled.IsUntitled(loc) {
		return core.Identifier{ID: filepath.Base(filepath.Dir(loc.String())), ConfigLocation: loc}
	}
	return core.IdentifierFor(loc, h.opts.Platform)
}
