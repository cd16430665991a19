// Package untitled creates and removes workspaces under a reserved root that
// the user never chose.
package untitled

import (
	"context"
	"fmt"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/fileio"
	"github.com/lzjever/mbos-wbs/internal/workspacefile"
)

const fileName = "workspace" + workspacefile.Extension

type Service struct {
	root  string
	files fileio.FileService
	p     core.Platform
	log   *zap.Logger
}

func New(root string, files fileio.FileService, p core.Platform, log *zap.Logger) *Service {
	return &Service{root: filepath.Clean(root), files: files, p: p, log: log}
}

func (s *Service) Root() core.Location { return core.Location(s.root) }

// IsUntitled reports whether loc lives under the untitled root.
func (s *Service) IsUntitled(loc core.Location) bool {
	return core.IsEqualOrParent(loc, s.Root(), s.p) && !core.SameLocation(loc, s.Root(), s.p)
}

// Create writes a new untitled workspace holding folders as absolute paths.
func (s *Service) Create(ctx context.Context, folders []core.FolderCreationRequest) (core.Identifier, error) {
	id := core.NewID()
	dir, err := securejoin.SecureJoin(s.root, id)
	if err != nil {
		return core.Identifier{}, fmt.Errorf("untitled: resolve dir: %w", err)
	}
	loc := core.Location(filepath.Join(dir, fileName))

	f := &workspacefile.File{Folders: make([]workspacefile.Folder, 0, len(folders))}
	for _, req := range folders {
		f.Folders = append(f.Folders, workspacefile.EntryFor(req, loc, false, s.p))
	}
	data, err := f.Marshal()
	if err != nil {
		return core.Identifier{}, fmt.Errorf("untitled: encode: %w", err)
	}
	if err := s.files.WriteFile(ctx, loc, data, fileio.WriteOptions{}); err != nil {
		return core.Identifier{}, fmt.Errorf("untitled: write: %w", err)
	}
	s.log.Info("untitled: created", zap.String("workspace_id", id), zap.Int("folders", len(folders)))
	return core.Identifier{ID: id, ConfigLocation: loc}, nil
}

// Delete removes the untitled workspace's directory. Titled workspaces are
// refused.
func (s *Service) Delete(ctx context.Context, id core.Identifier) error {
	if !s.IsUntitled(id.ConfigLocation) {
		return fmt.Errorf("untitled: %s is not an untitled workspace", id.ConfigLocation)
	}
	dir := core.Location(filepath.Dir(id.ConfigLocation.String()))
	if core.SameLocation(dir, s.Root(), s.p) {
		return s.files.Delete(ctx, id.ConfigLocation, fileio.DeleteOptions{})
	}
	if err := s.files.Delete(ctx, dir, fileio.DeleteOptions{Recursive: true}); err != nil {
		return fmt.Errorf("untitled: delete %s: %w", dir, err)
	}
	s.log.Info("untitled: deleted", zap.String("workspace_id", id.ID))
	return nil
}

// List returns every untitled workspace under the root.
func (s *Service) List(ctx context.Context) ([]core.Identifier, error) {
	dirs, err := s.files.ListDir(ctx, s.Root())
	if err != nil {
		return nil, fmt.Errorf("untitled: list: %w", err)
	}
	out := make([]core.Identifier, 0, len(dirs))
	for _, dir := range dirs {
		loc := core.Location(filepath.Join(dir.String(), fileName))
		if _, err := s.files.ReadFile(ctx, loc); err != nil {
			continue
		}
		out = append(out, core.Identifier{ID: dir.Base(), ConfigLocation: loc})
	}
	return out, nil
}
