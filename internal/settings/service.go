package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/tailscale/hujson"
	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/fileio"
)

// FolderSettingsPath is where a single folder keeps its settings.
const FolderSettingsPath = ".wbs/settings.json"

// WorkspaceSettingsReader reads the settings block of a workspace file.
type WorkspaceSettingsReader interface {
	Settings(ctx context.Context, configLocation core.Location) (map[string]any, error)
}

// Service is the configuration view of one window: user values from the
// registry plus the workspace layer of the current workbench.
type Service struct {
	registry  *Registry
	files     fileio.FileService
	workspace WorkspaceSettingsReader
	log       *zap.Logger

	mu     sync.RWMutex
	values map[string]any
}

func NewService(registry *Registry, files fileio.FileService, workspace WorkspaceSettingsReader, log *zap.Logger) *Service {
	return &Service{registry: registry, files: files, workspace: workspace, log: log, values: map[string]any{}}
}

// Initialize reloads the workspace layer for wb.
func (s *Service) Initialize(ctx context.Context, wb core.Workbench) error {
	var values map[string]any
	switch w := wb.(type) {
	case core.WorkspaceWorkbench:
		v, err := s.workspace.Settings(ctx, w.Identifier.ConfigLocation)
		if err != nil {
			return fmt.Errorf("load workspace settings: %w", err)
		}
		values = v
	case core.FolderWorkbench:
		v, err := s.readFolderSettings(ctx, w.Folder.Location)
		if err != nil {
			return fmt.Errorf("load folder settings: %w", err)
		}
		values = v
	}
	if values == nil {
		values = map[string]any{}
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	s.log.Debug("settings: initialized", zap.String("state", string(wb.State())), zap.Int("keys", len(values)))
	return nil
}

// Keys lists keys with a value at level.
func (s *Service) Keys(level core.ConfigurationLevel) []string {
	if level == core.LevelUser {
		return s.registry.userKeys()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.values)
}

func (s *Service) Property(key string) (core.ConfigurationProperty, bool) {
	return s.registry.Property(key)
}

// Value returns the value defined at level.
func (s *Service) Value(key string, level core.ConfigurationLevel) (any, bool) {
	if level == core.LevelUser {
		return s.registry.userValue(key)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Effective resolves key with the workspace layer over the user layer.
func (s *Service) Effective(key string) (any, bool) {
	if v, ok := s.Value(key, core.LevelWorkspace); ok {
		return v, true
	}
	return s.Value(key, core.LevelUser)
}

func (s *Service) readFolderSettings(ctx context.Context, folder core.Location) (map[string]any, error) {
	loc := core.Location(filepath.Join(folder.String(), filepath.FromSlash(FolderSettingsPath)))
	data, err := s.files.ReadFile(ctx, loc)
	if errors.Is(err, fileio.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		s.log.Warn("settings: ignoring invalid folder settings", zap.String("path", loc.String()), zap.Error(err))
		return nil, nil
	}
	var values map[string]any
	if err := json.Unmarshal(std, &values); err != nil {
		s.log.Warn("settings: ignoring invalid folder settings", zap.String("path", loc.String()), zap.Error(err))
		return nil, nil
	}
	return values, nil
}
