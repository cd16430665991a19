// Package persistence validates save targets and writes workspace files to new
// locations.
package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/dialog"
	"github.com/lzjever/mbos-wbs/internal/fileio"
	"github.com/lzjever/mbos-wbs/internal/observability"
	"github.com/lzjever/mbos-wbs/internal/workspacefile"
)

type WindowLister interface {
	OpenWorkspaces(ctx context.Context) []core.OpenWorkspace
}

type Gateway struct {
	windowID string
	files    fileio.FileService
	windows  WindowLister
	dialogs  dialog.Service
	p        core.Platform
	log      *zap.Logger
}

func NewGateway(windowID string, files fileio.FileService, windows WindowLister, dialogs dialog.Service, p core.Platform, log *zap.Logger) *Gateway {
	return &Gateway{windowID: windowID, files: files, windows: windows, dialogs: dialogs, p: p, log: log}
}

// IsValidTargetLocation rejects targets that another live window has open as
// its workspace. The file system is not consulted.
func (g *Gateway) IsValidTargetLocation(ctx context.Context, target core.Location) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	for _, w := range g.windows.OpenWorkspaces(ctx) {
		if w.WindowID == g.windowID || w.Identifier == nil {
			continue
		}
		if !core.SameLocation(w.Identifier.ConfigLocation, target, g.p) {
			continue
		}
		msg := fmt.Sprintf("Unable to save workspace '%s' because the workspace is already opened in another window.", target.Base())
		if _, err := g.dialogs.ShowChoice(ctx, dialog.SeverityWarning, msg, []string{"OK"}, dialog.ChoiceOptions{
			Detail: "Please close that window first and then try again.",
		}); err != nil {
			g.log.Warn("persistence: warning prompt failed", zap.Error(err))
		}
		return false, nil
	}
	return true, nil
}

// SaveAs copies the workspace file to target, rewriting relative folder paths
// so they resolve to the same folders. Saving onto the current location is a
// no-op. The write overwrites target; a failed write is a failed save.
func (g *Gateway) SaveAs(ctx context.Context, current core.Identifier, target core.Location) error {
	if core.SameLocation(current.ConfigLocation, target, g.p) {
		return nil
	}
	data, err := g.files.ReadFile(ctx, current.ConfigLocation)
	if err != nil {
		observability.SaveAsTotal.WithLabelValues("read_failed").Inc()
		return fmt.Errorf("read %s: %w", current.ConfigLocation, err)
	}
	rewritten, err := workspacefile.RewriteForLocation(data, current.ConfigLocation, target)
	if err != nil {
		observability.SaveAsTotal.WithLabelValues("rewrite_failed").Inc()
		return fmt.Errorf("rewrite %s: %w", current.ConfigLocation, err)
	}
	if err := g.files.WriteFile(ctx, target, rewritten, fileio.WriteOptions{Overwrite: true}); err != nil {
		observability.SaveAsTotal.WithLabelValues("write_failed").Inc()
		return fmt.Errorf("write %s: %w", target, err)
	}
	observability.SaveAsTotal.WithLabelValues("ok").Inc()
	g.log.Info("persistence: workspace saved",
		zap.String("from", current.ConfigLocation.String()),
		zap.String("to", target.String()),
	)
	return nil
}
