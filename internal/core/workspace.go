package core

import (
	"errors"
	"fmt"
)

type WorkbenchState string

const (
	StateEmpty     WorkbenchState = "EMPTY"
	StateFolder    WorkbenchState = "FOLDER"
	StateWorkspace WorkbenchState = "WORKSPACE"
)

// WorkspaceFolder is a root folder of the workbench.
type WorkspaceFolder struct {
	Location Location `json:"location"`
	Name     string   `json:"name"`
}

// NewWorkspaceFolder names the folder after its base name when name is empty.
func NewWorkspaceFolder(loc Location, name string) WorkspaceFolder {
	if name == "" {
		name = loc.Base()
	}
	return WorkspaceFolder{Location: loc, Name: name}
}

// FolderCreationRequest is a folder to be added. It is never persisted as is.
type FolderCreationRequest struct {
	Location Location `json:"path"`
	Name     string   `json:"name,omitempty"`
}

// Identifier names a workspace file. It is replaced, never mutated.
type Identifier struct {
	ID             string   `json:"id"`
	ConfigLocation Location `json:"config_location"`
}

// IdentifierFor derives the identifier of a titled workspace file.
func IdentifierFor(configLocation Location, p Platform) Identifier {
	return Identifier{ID: LocationHash(configLocation, p), ConfigLocation: configLocation}
}

// Workbench is the sealed set of workbench states. Values are created with
// NewWorkbench and are immutable.
type Workbench interface {
	State() WorkbenchState
	Folders() []WorkspaceFolder
	sealed()
}

type EmptyWorkbench struct{}

type FolderWorkbench struct {
	Folder WorkspaceFolder
}

type WorkspaceWorkbench struct {
	Identifier Identifier
	Members    []WorkspaceFolder
}

func (EmptyWorkbench) State() WorkbenchState       { return StateEmpty }
func (EmptyWorkbench) Folders() []WorkspaceFolder { return nil }
func (EmptyWorkbench) sealed()                    {}

func (w FolderWorkbench) State() WorkbenchState       { return StateFolder }
func (w FolderWorkbench) Folders() []WorkspaceFolder { return []WorkspaceFolder{w.Folder} }
func (FolderWorkbench) sealed()                      {}

func (w WorkspaceWorkbench) State() WorkbenchState { return StateWorkspace }
func (w WorkspaceWorkbench) Folders() []WorkspaceFolder {
	out := make([]WorkspaceFolder, len(w.Members))
	copy(out, w.Members)
	return out
}
func (WorkspaceWorkbench) sealed() {}

var ErrAmbiguousWorkbench = errors.New("multiple folders require a workspace identifier")

// NewWorkbench derives the state from identifier presence and folder count.
func NewWorkbench(id *Identifier, folders []WorkspaceFolder) (Workbench, error) {
	if id != nil {
		members := make([]WorkspaceFolder, len(folders))
		copy(members, folders)
		return WorkspaceWorkbench{Identifier: *id, Members: members}, nil
	}
	switch len(folders) {
	case 0:
		return EmptyWorkbench{}, nil
	case 1:
		return FolderWorkbench{Folder: folders[0]}, nil
	default:
		return nil, fmt.Errorf("%w: got %d folders", ErrAmbiguousWorkbench, len(folders))
	}
}

// WorkspaceIdentifier returns the identifier when the workbench is a workspace.
func WorkspaceIdentifier(w Workbench) (Identifier, bool) {
	ws, ok := w.(WorkspaceWorkbench)
	if !ok {
		return Identifier{}, false
	}
	return ws.Identifier, true
}

// OpenWorkspace is a live window as seen by other windows. Identifier is nil
// unless the window is in WORKSPACE state.
type OpenWorkspace struct {
	WindowID   string      `json:"window_id"`
	Identifier *Identifier `json:"identifier,omitempty"`
}
