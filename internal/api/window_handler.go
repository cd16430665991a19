package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/host"
	"github.com/lzjever/mbos-wbs/internal/shutdown"
)

// ListWindows lists open windows.
func (a *API) ListWindows(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"windows": a.host.List(),
	})
}

// OpenWindow opens a window on nothing, a folder or a workspace file. A
// request replayed with the same Idempotency-Key returns the window it opened
// while that window is still open.
func (a *API) OpenWindow(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid request body"))
		return
	}
	var req host.OpenRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid request body"))
			return
		}
	}

	key := r.Header.Get("Idempotency-Key")
	hash := core.ComputeRequestHash(body, r.Method, r.URL.Path)
	if key != "" {
		a.mu.Lock()
		prev, seen := a.opened[key]
		a.mu.Unlock()
		if seen {
			if prev.hash != hash {
				WriteError(w, core.NewAppError(core.ErrIdempotency, "idempotency key reused with a different request"))
				return
			}
			if info, err := a.host.Info(prev.windowID); err == nil {
				WriteJSON(w, http.StatusOK, info)
				return
			}
		}
	}

	info, err := a.host.Open(r.Context(), req)
	if err != nil {
		a.writeFailure(w, err, nil)
		return
	}
	if key != "" {
		a.mu.Lock()
		a.opened[key] = openRecord{hash: hash, windowID: info.ID}
		a.mu.Unlock()
	}
	WriteJSON(w, http.StatusCreated, info)
}

func (a *API) GetWindow(w http.ResponseWriter, r *http.Request) {
	info, err := a.host.Info(chi.URLParam(r, "wid"))
	if err != nil {
		a.writeFailure(w, err, nil)
		return
	}
	WriteJSON(w, http.StatusOK, info)
}

type ShutdownRequest struct {
	Reason  string  `json:"reason"`
	Answers Answers `json:"answers"`
}

type ShutdownResponse struct {
	Vetoed bool `json:"vetoed"`
	OperationResponse
}

// Shutdown runs the save guard for a window and closes it unless vetoed.
func (a *API) Shutdown(w http.ResponseWriter, r *http.Request) {
	var req ShutdownRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		WriteError(w, appErr)
		return
	}
	if req.Reason == "" {
		req.Reason = string(shutdown.ReasonClose)
	}
	reason, ok := shutdown.ParseReason(req.Reason)
	if !ok {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "unknown shutdown reason "+req.Reason))
		return
	}

	wid := chi.URLParam(r, "wid")
	ctx, preset := withAnswers(r, req.Answers)
	veto, err := a.host.Close(ctx, wid, reason)
	if err != nil {
		a.writeFailure(w, err, preset)
		return
	}
	resp := ShutdownResponse{
		Vetoed: veto,
		OperationResponse: OperationResponse{
			Notifications: preset.Notifications(),
			Prompts:       preset.Shown(),
		},
	}
	if info, err := a.host.Info(wid); err == nil {
		resp.Window = &info
	}
	WriteJSON(w, http.StatusOK, resp)
}

// runOp runs op against the window named in the path with dialogs answered
// from ans, and reports the window state afterwards.
func (a *API) runOp(w http.ResponseWriter, r *http.Request, ans Answers, op func(ctx context.Context, win *host.Window) error) {
	wid := chi.URLParam(r, "wid")
	win, err := a.host.Window(wid)
	if err != nil {
		a.writeFailure(w, err, nil)
		return
	}
	ctx, preset := withAnswers(r, ans)
	if err := op(ctx, win); err != nil {
		a.writeFailure(w, err, preset)
		return
	}
	info, err := a.host.Info(wid)
	if err != nil {
		a.writeFailure(w, err, preset)
		return
	}
	WriteJSON(w, http.StatusOK, OperationResponse{
		Window:        &info,
		Notifications: preset.Notifications(),
		Prompts:       preset.Shown(),
	})
}
