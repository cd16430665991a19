package api

import (
	"context"
	"net/http"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/host"
	"github.com/lzjever/mbos-wbs/internal/reconcile"
	"github.com/lzjever/mbos-wbs/internal/workspace"
)

type UpdateFoldersRequest struct {
	Index                 int                          `json:"index"`
	DeleteCount           *int                         `json:"delete_count,omitempty"`
	Add                   []core.FolderCreationRequest `json:"add,omitempty"`
	SkipErrorNotification bool                         `json:"skip_error_notification,omitempty"`
	Answers               Answers                      `json:"answers"`
}

type AddFoldersRequest struct {
	Folders               []core.FolderCreationRequest `json:"folders"`
	Index                 *int                         `json:"index,omitempty"`
	SkipErrorNotification bool                         `json:"skip_error_notification,omitempty"`
	Answers               Answers                      `json:"answers"`
}

type RemoveFoldersRequest struct {
	Folders               []core.Location `json:"folders"`
	SkipErrorNotification bool            `json:"skip_error_notification,omitempty"`
	Answers               Answers         `json:"answers"`
}

// UpdateFolders splices the folder list of a window.
func (a *API) UpdateFolders(w http.ResponseWriter, r *http.Request) {
	var req UpdateFoldersRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		WriteError(w, appErr)
		return
	}
	if req.DeleteCount != nil && *req.DeleteCount < 0 {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "delete_count must not be negative"))
		return
	}
	a.runOp(w, r, req.Answers, func(ctx context.Context, win *host.Window) error {
		ch := reconcile.Change{Index: req.Index, DeleteCount: req.DeleteCount, Add: req.Add}
		return win.Workspace.UpdateFolders(ctx, ch, workspace.UpdateOptions{SkipErrorNotification: req.SkipErrorNotification})
	})
}

// AddFolders inserts folders at index, or appends when index is omitted.
func (a *API) AddFolders(w http.ResponseWriter, r *http.Request) {
	var req AddFoldersRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		WriteError(w, appErr)
		return
	}
	if len(req.Folders) == 0 {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "folders are required"))
		return
	}
	index := -1
	if req.Index != nil {
		index = *req.Index
	}
	a.runOp(w, r, req.Answers, func(ctx context.Context, win *host.Window) error {
		return win.Workspace.AddFolders(ctx, req.Folders, index, workspace.UpdateOptions{SkipErrorNotification: req.SkipErrorNotification})
	})
}

func (a *API) RemoveFolders(w http.ResponseWriter, r *http.Request) {
	var req RemoveFoldersRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		WriteError(w, appErr)
		return
	}
	a.runOp(w, r, req.Answers, func(ctx context.Context, win *host.Window) error {
		return win.Workspace.RemoveFolders(ctx, req.Folders, workspace.UpdateOptions{SkipErrorNotification: req.SkipErrorNotification})
	})
}
