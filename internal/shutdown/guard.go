// Package shutdown decides whether an untitled workspace must be saved,
// discarded, or keep its window open when the window goes away.
package shutdown

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/dialog"
	"github.com/lzjever/mbos-wbs/internal/observability"
	"github.com/lzjever/mbos-wbs/internal/recent"
	"github.com/lzjever/mbos-wbs/internal/session"
	"github.com/lzjever/mbos-wbs/internal/workspacefile"
)

type Reason string

const (
	ReasonClose  Reason = "close"
	ReasonQuit   Reason = "quit"
	ReasonReload Reason = "reload"
	ReasonLoad   Reason = "load"
)

func ParseReason(s string) (Reason, bool) {
	switch r := Reason(strings.ToLower(s)); r {
	case ReasonClose, ReasonQuit, ReasonReload, ReasonLoad:
		return r, true
	}
	return "", false
}

const (
	ButtonSave     = "Save"
	ButtonDontSave = "Don't Save"
	ButtonCancel   = "Cancel"
)

type WindowCounter interface {
	WindowCount(ctx context.Context) int
}

type RecentRecorder interface {
	Record(ctx context.Context, e recent.Entry) error
}

type Saver interface {
	SaveAs(ctx context.Context, current core.Identifier, target core.Location) error
}

type UntitledWorkspaces interface {
	IsUntitled(loc core.Location) bool
	Delete(ctx context.Context, id core.Identifier) error
}

type Deps struct {
	Session  *session.Session
	Windows  WindowCounter
	Dialogs  dialog.Service
	Saver    Saver
	Untitled UntitledWorkspaces
	Recent   RecentRecorder
	Platform core.Platform
	SaveDir  string
	Log      *zap.Logger
}

type Guard struct {
	d Deps
}

func NewGuard(d Deps) *Guard {
	return &Guard{d: d}
}

// Buttons orders Save, Don't Save and Cancel the way the platform expects and
// returns the index used when the prompt is dismissed.
func Buttons(p core.Platform) ([]string, int) {
	switch p {
	case core.PlatformWindows:
		return []string{ButtonSave, ButtonDontSave, ButtonCancel}, 2
	case core.PlatformLinux:
		return []string{ButtonDontSave, ButtonCancel, ButtonSave}, 1
	default:
		return []string{ButtonSave, ButtonCancel, ButtonDontSave}, 1
	}
}

// Label is the recently-opened label of a saved workspace.
func Label(id core.Identifier) string {
	name := strings.TrimSuffix(id.ConfigLocation.Base(), workspacefile.Extension)
	return name + " (Workspace)"
}

// OnBeforeShutdown reports whether the shutdown must be vetoed. A prompt
// that cannot be shown vetoes and returns the prompt error. When the untitled
// workspace is deleted the session moves off it: to EMPTY after Don't Save,
// to the saved file after Save.
func (g *Guard) OnBeforeShutdown(ctx context.Context, reason Reason) (bool, error) {
	decide := func(decision string, veto bool) (bool, error) {
		observability.ShutdownDecisionsTotal.WithLabelValues(decision).Inc()
		return veto, nil
	}

	if reason != ReasonClose && reason != ReasonReload {
		return decide("ignored", false)
	}
	wb := g.d.Session.Workbench()
	id, ok := core.WorkspaceIdentifier(wb)
	if !ok || !g.d.Untitled.IsUntitled(id.ConfigLocation) {
		return decide("ignored", false)
	}
	log := g.d.Log.With(zap.String("window_id", g.d.Session.WindowID()), zap.String("workspace_id", id.ID))

	if g.d.Platform != core.PlatformDarwin && reason == ReasonClose && g.d.Windows.WindowCount(ctx) == 1 {
		return decide("last_window", false)
	}

	buttons, cancel := Buttons(g.d.Platform)
	choice, err := g.d.Dialogs.ShowChoice(ctx, dialog.SeverityWarning,
		"Do you want to save your workspace configuration as a file?", buttons,
		dialog.ChoiceOptions{Detail: "Save your workspace if you plan to open it again.", CancelIndex: cancel})
	if err != nil {
		return true, err
	}

	if choice < 0 || choice >= len(buttons) {
		choice = cancel
	}

	switch buttons[choice] {
	case ButtonCancel:
		return decide("cancel", true)

	case ButtonDontSave:
		if err := g.d.Untitled.Delete(ctx, id); err != nil {
			log.Warn("shutdown: delete untitled workspace failed", zap.Error(err))
		}
		g.d.Session.Replace(core.EmptyWorkbench{}, g.d.Session.RemoteAuthority())
		return decide("dont_save", false)

	default:
		target, ok, err := g.d.Dialogs.ShowSaveLocationPicker(ctx, dialog.SaveOptions{
			Title:           "Save Workspace",
			Filters:         []dialog.Filter{{Name: "Workspace", Extensions: []string{strings.TrimPrefix(workspacefile.Extension, ".")}}},
			DefaultLocation: g.defaultSaveLocation(wb),
		})
		if err != nil {
			return true, err
		}
		if !ok {
			return decide("save_dismissed", true)
		}

		if err := g.d.Saver.SaveAs(ctx, id, target); err != nil {
			log.Error("shutdown: save workspace failed", zap.String("target", target.String()), zap.Error(err))
			return decide("save_failed", false)
		}
		saved := core.IdentifierFor(target, g.d.Platform)
		if err := g.d.Recent.Record(ctx, recent.Entry{Label: Label(saved), Identifier: saved}); err != nil {
			log.Warn("shutdown: record recent failed", zap.Error(err))
		}
		if err := g.d.Untitled.Delete(ctx, id); err != nil {
			log.Warn("shutdown: delete untitled workspace failed", zap.Error(err))
		}
		// A reloading window comes back on the saved file.
		if next, err := core.NewWorkbench(&saved, wb.Folders()); err == nil {
			g.d.Session.Replace(next, g.d.Session.RemoteAuthority())
		}
		log.Info("shutdown: untitled workspace saved", zap.String("target", target.String()))
		return decide("save", false)
	}
}

func (g *Guard) defaultSaveLocation(wb core.Workbench) core.Location {
	name := "workspace"
	if folders := wb.Folders(); len(folders) > 0 {
		name = folders[0].Location.Base()
	}
	return core.Location(filepath.Join(g.d.SaveDir, name+workspacefile.Extension))
}
