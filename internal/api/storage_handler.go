package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
)

type SettingsResponse struct {
	Workspace map[string]any `json:"workspace"`
	User      map[string]any `json:"user"`
	Effective map[string]any `json:"effective"`
}

// GetSettings returns the window's settings per level.
func (a *API) GetSettings(w http.ResponseWriter, r *http.Request) {
	win, err := a.host.Window(chi.URLParam(r, "wid"))
	if err != nil {
		a.writeFailure(w, err, nil)
		return
	}
	resp := SettingsResponse{Workspace: map[string]any{}, User: map[string]any{}, Effective: map[string]any{}}
	for level, out := range map[core.ConfigurationLevel]map[string]any{core.LevelWorkspace: resp.Workspace, core.LevelUser: resp.User} {
		for _, k := range win.Settings.Keys(level) {
			if v, ok := win.Settings.Value(k, level); ok {
				out[k] = v
			}
			if v, ok := win.Settings.Effective(k); ok {
				resp.Effective[k] = v
			}
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}

// ListStorage lists the items of the window's storage namespace.
func (a *API) ListStorage(w http.ResponseWriter, r *http.Request) {
	win, err := a.host.Window(chi.URLParam(r, "wid"))
	if err != nil {
		a.writeFailure(w, err, nil)
		return
	}
	ns := win.Session.Namespace(a.platform)
	items, err := a.store.Items(r.Context(), ns)
	if err != nil {
		a.writeFailure(w, err, nil)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"namespace": ns,
		"items":     items,
	})
}

type PutStorageRequest struct {
	Value string `json:"value"`
}

func (a *API) PutStorage(w http.ResponseWriter, r *http.Request) {
	win, err := a.host.Window(chi.URLParam(r, "wid"))
	if err != nil {
		a.writeFailure(w, err, nil)
		return
	}
	var req PutStorageRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		WriteError(w, appErr)
		return
	}
	ns := win.Session.Namespace(a.platform)
	key := chi.URLParam(r, "key")
	if err := a.store.Set(r.Context(), ns, key, req.Value); err != nil {
		a.log.Error("api: storage write failed", zap.String("namespace", ns), zap.String("key", key), zap.Error(err))
		a.writeFailure(w, err, nil)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"namespace": ns, "key": key, "value": req.Value})
}

// ListTransitions lists the window's identity transitions, newest first.
func (a *API) ListTransitions(w http.ResponseWriter, r *http.Request) {
	wid := chi.URLParam(r, "wid")
	limit := parseLimit(r.URL.Query().Get("limit"), 20, 100)
	events, err := a.store.ListTransitions(r.Context(), wid, limit)
	if err != nil {
		a.writeFailure(w, err, nil)
		return
	}
	if events == nil {
		events = []core.TransitionEvent{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"transitions": events})
}

func (a *API) ListRecent(w http.ResponseWriter, r *http.Request) {
	entries, err := a.recent.List(r.Context())
	if err != nil {
		a.writeFailure(w, err, nil)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"workspaces": entries})
}

func (a *API) ListDirty(w http.ResponseWriter, r *http.Request) {
	files := a.dirty.List()
	if files == nil {
		files = []core.Location{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"files": files})
}

type MarkDirtyRequest struct {
	Path  core.Location `json:"path"`
	Dirty bool          `json:"dirty"`
}

// MarkDirty records whether a file has unsaved edits in some editor.
func (a *API) MarkDirty(w http.ResponseWriter, r *http.Request) {
	var req MarkDirtyRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		WriteError(w, appErr)
		return
	}
	if req.Path == "" {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "path is required"))
		return
	}
	if req.Dirty {
		a.dirty.Mark(req.Path)
	} else {
		a.dirty.Clear(req.Path)
	}
	w.WriteHeader(http.StatusNoContent)
}
