package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/host"
)

type TargetRequest struct {
	Path    core.Location `json:"path"`
	Answers Answers       `json:"answers"`
}

type CreateWorkspaceRequest struct {
	Folders []core.FolderCreationRequest `json:"folders"`
	Path    *core.Location               `json:"path,omitempty"`
	Answers Answers                      `json:"answers"`
}

func (a *API) decodeTarget(w http.ResponseWriter, r *http.Request) (TargetRequest, bool) {
	var req TargetRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		WriteError(w, appErr)
		return req, false
	}
	if req.Path == "" {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "path is required"))
		return req, false
	}
	return req, true
}

// ValidateTarget reports whether path may be saved to or entered by the window.
func (a *API) ValidateTarget(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeTarget(w, r)
	if !ok {
		return
	}
	win, err := a.host.Window(chi.URLParam(r, "wid"))
	if err != nil {
		a.writeFailure(w, err, nil)
		return
	}
	ctx, preset := withAnswers(r, req.Answers)
	valid, err := win.Workspace.IsValidTargetLocation(ctx, req.Path)
	if err != nil {
		a.writeFailure(w, err, preset)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid":         valid,
		"notifications": preset.Notifications(),
		"prompts":       preset.Shown(),
	})
}

func (a *API) EnterWorkspace(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeTarget(w, r)
	if !ok {
		return
	}
	a.runOp(w, r, req.Answers, func(ctx context.Context, win *host.Window) error {
		return win.Workspace.EnterWorkspace(ctx, req.Path)
	})
}

// CreateWorkspace creates a workspace from folders and enters it, saving it
// to path first when one is given.
func (a *API) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkspaceRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		WriteError(w, appErr)
		return
	}
	a.runOp(w, r, req.Answers, func(ctx context.Context, win *host.Window) error {
		return win.Workspace.CreateAndEnterWorkspace(ctx, req.Folders, req.Path)
	})
}

func (a *API) SaveAs(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeTarget(w, r)
	if !ok {
		return
	}
	a.runOp(w, r, req.Answers, func(ctx context.Context, win *host.Window) error {
		return win.Workspace.SaveAs(ctx, req.Path)
	})
}

func (a *API) SaveAndEnter(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeTarget(w, r)
	if !ok {
		return
	}
	a.runOp(w, r, req.Answers, func(ctx context.Context, win *host.Window) error {
		return win.Workspace.SaveAndEnterWorkspace(ctx, req.Path)
	})
}

// CopySettings copies the window's workspace settings into the workspace file at path.
func (a *API) CopySettings(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeTarget(w, r)
	if !ok {
		return
	}
	a.runOp(w, r, req.Answers, func(ctx context.Context, win *host.Window) error {
		return win.Workspace.CopyWorkspaceSettings(ctx, core.IdentifierFor(req.Path, a.platform))
	})
}
