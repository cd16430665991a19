// Package editing applies in-place edits to workspace configuration files and
// turns edit failures into recovery prompts.
package editing

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/fileio"
	"github.com/lzjever/mbos-wbs/internal/workspacefile"
)

type DirtyChecker interface {
	IsDirty(loc core.Location) bool
}

// UntitledChecker reports workspaces that store absolute folder paths.
type UntitledChecker interface {
	IsUntitled(loc core.Location) bool
}

type Editor struct {
	files    fileio.FileService
	dirty    DirtyChecker
	untitled UntitledChecker
	p        core.Platform
	log      *zap.Logger
}

func NewEditor(files fileio.FileService, dirty DirtyChecker, untitled UntitledChecker, p core.Platform, log *zap.Logger) *Editor {
	return &Editor{files: files, dirty: dirty, untitled: untitled, p: p, log: log}
}

// Folders reads the resolved folder list of a workspace file.
func (e *Editor) Folders(ctx context.Context, configLocation core.Location) ([]core.WorkspaceFolder, error) {
	f, err := e.load(ctx, configLocation, false)
	if err != nil {
		return nil, err
	}
	return f.Resolve(configLocation), nil
}

// Settings reads the settings block of a workspace file.
func (e *Editor) Settings(ctx context.Context, configLocation core.Location) (map[string]any, error) {
	f, err := e.load(ctx, configLocation, false)
	if err != nil {
		return nil, err
	}
	return f.Settings, nil
}

func (e *Editor) AddFolders(ctx context.Context, configLocation core.Location, index int, add []core.FolderCreationRequest) error {
	return e.UpdateFolders(ctx, configLocation, index, add, nil)
}

func (e *Editor) RemoveFolders(ctx context.Context, configLocation core.Location, remove []core.Location) error {
	return e.UpdateFolders(ctx, configLocation, -1, nil, remove)
}

// UpdateFolders removes folders then inserts add at index in one write.
// Folders already present are not added twice. A negative index appends.
func (e *Editor) UpdateFolders(ctx context.Context, configLocation core.Location, index int, add []core.FolderCreationRequest, remove []core.Location) error {
	f, err := e.load(ctx, configLocation, true)
	if err != nil {
		return err
	}

	removeKeys := make(map[string]struct{}, len(remove))
	for _, l := range remove {
		removeKeys[core.ComparisonKey(l, e.p)] = struct{}{}
	}

	resolved := f.Resolve(configLocation)
	kept := make([]workspacefile.Folder, 0, len(f.Folders)+len(add))
	seen := make(map[string]struct{}, len(f.Folders)+len(add))
	for i, entry := range f.Folders {
		key := core.ComparisonKey(resolved[i].Location, e.p)
		if _, drop := removeKeys[key]; drop {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, entry)
	}

	relative := e.untitled == nil || !e.untitled.IsUntitled(configLocation)
	inserts := make([]workspacefile.Folder, 0, len(add))
	for _, req := range add {
		key := core.ComparisonKey(req.Location, e.p)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		inserts = append(inserts, workspacefile.EntryFor(req, configLocation, relative, e.p))
	}

	if index < 0 || index > len(kept) {
		index = len(kept)
	}
	next := make([]workspacefile.Folder, 0, len(kept)+len(inserts))
	next = append(next, kept[:index]...)
	next = append(next, inserts...)
	next = append(next, kept[index:]...)
	f.Folders = next

	e.log.Debug("editing: folders updated",
		zap.String("config", configLocation.String()),
		zap.Int("added", len(inserts)),
		zap.Int("removed", len(resolved)-len(kept)),
	)
	return e.save(ctx, configLocation, f)
}

// WriteSettings merges values into the settings block.
func (e *Editor) WriteSettings(ctx context.Context, configLocation core.Location, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	f, err := e.load(ctx, configLocation, true)
	if err != nil {
		return err
	}
	if f.Settings == nil {
		f.Settings = make(map[string]any, len(values))
	}
	for k, v := range values {
		f.Settings[k] = v
	}
	return e.save(ctx, configLocation, f)
}

func (e *Editor) load(ctx context.Context, configLocation core.Location, forWrite bool) (*workspacefile.File, error) {
	if forWrite && e.dirty != nil && e.dirty.IsDirty(configLocation) {
		return nil, &EditError{
			Code:     ErrConfigurationFileDirty,
			Location: configLocation,
			Message:  "Unable to write into the workspace configuration file because the file has unsaved changes.",
		}
	}
	data, err := e.files.ReadFile(ctx, configLocation)
	if err != nil {
		if errors.Is(err, fileio.ErrNotFound) {
			return nil, &EditError{Code: ErrConfigurationFileNotFound, Location: configLocation, Message: "Workspace configuration file not found", Err: err}
		}
		return nil, &EditError{Code: ErrWriteFailed, Location: configLocation, Message: "Unable to read the workspace configuration file", Err: err}
	}
	f, err := workspacefile.Parse(data)
	if err != nil {
		return nil, &EditError{
			Code:     ErrInvalidConfiguration,
			Location: configLocation,
			Message:  "Unable to write into the workspace configuration file. The file content is not valid.",
			Err:      err,
		}
	}
	return f, nil
}

func (e *Editor) save(ctx context.Context, configLocation core.Location, f *workspacefile.File) error {
	data, err := f.Marshal()
	if err != nil {
		return &EditError{Code: ErrWriteFailed, Location: configLocation, Message: "Unable to encode the workspace configuration", Err: err}
	}
	if err := e.files.WriteFile(ctx, configLocation, data, fileio.WriteOptions{Overwrite: true}); err != nil {
		return &EditError{Code: ErrWriteFailed, Location: configLocation, Message: "Unable to write into the workspace configuration file", Err: err}
	}
	return nil
}
