package core

import "github.com/google/uuid"

// NewID returns a time-ordered id, used for untitled workspaces and windows.
func NewID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.New().String()
}

// StorageNamespace names the key-value storage partition of a workbench.
// Empty windows use the per-window fallback since they have no stable identity.
func StorageNamespace(w Workbench, emptyFallback string, p Platform) string {
	switch wb := w.(type) {
	case WorkspaceWorkbench:
		return wb.Identifier.ID
	case FolderWorkbench:
		return LocationHash(wb.Folder.Location, p)
	default:
		return emptyFallback
	}
}
