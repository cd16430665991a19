package host

import (
	"context"
	"sync"
	"time"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/exthost"
	"github.com/lzjever/mbos-wbs/internal/session"
	"github.com/lzjever/mbos-wbs/internal/settings"
	"github.com/lzjever/mbos-wbs/internal/workspace"
)

// Window is one editor session registered with the host.
type Window struct {
	ID        string
	Session   *session.Session
	Workspace *workspace.Service
	Settings  *settings.Service
	Runtime   *exthost.Runtime
	OpenedAt  time.Time

	mu      sync.Mutex
	editors []core.Location
	reloads int
}

// OpenFile opens loc in an editor of the window.
func (w *Window) OpenFile(ctx context.Context, loc core.Location) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.editors = append(w.editors, loc)
	return nil
}

// Info is a snapshot of a window.
type Info struct {
	ID              string                 `json:"id"`
	State           core.WorkbenchState    `json:"state"`
	Identifier      *core.Identifier       `json:"identifier,omitempty"`
	Folders         []core.WorkspaceFolder `json:"folders"`
	RemoteAuthority string                 `json:"remote_authority,omitempty"`
	Untitled        bool                   `json:"untitled"`
	OpenedAt        time.Time              `json:"opened_at"`
	Editors         []core.Location        `json:"editors,omitempty"`
	Reloads         int                    `json:"reloads"`
}

func (w *Window) info(isUntitled func(core.Location) bool) Info {
	wb := w.Session.Workbench()
	in := Info{
		ID:              w.ID,
		State:           wb.State(),
		Folders:         wb.Folders(),
		RemoteAuthority: w.Session.RemoteAuthority(),
		OpenedAt:        w.OpenedAt,
	}
	if in.Folders == nil {
		in.Folders = []core.WorkspaceFolder{}
	}
	if id, ok := core.WorkspaceIdentifier(wb); ok {
		in.Identifier = &id
		in.Untitled = isUntitled(id.ConfigLocation)
	}
	w.mu.Lock()
	in.Editors = append([]core.Location(nil), w.editors...)
	in.Reloads = w.reloads
	w.mu.Unlock()
	return in
}
