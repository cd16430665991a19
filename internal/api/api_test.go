package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/editing"
	"github.com/lzjever/mbos-wbs/internal/exthost"
	"github.com/lzjever/mbos-wbs/internal/fileio"
	"github.com/lzjever/mbos-wbs/internal/host"
	"github.com/lzjever/mbos-wbs/internal/recent"
	"github.com/lzjever/mbos-wbs/internal/settings"
	"github.com/lzjever/mbos-wbs/internal/store"
	"github.com/lzjever/mbos-wbs/internal/untitled"
)

type testServer struct {
	handler http.Handler
	files   *fileio.Memory
	dirty   *editing.DirtySet
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zap.NewNop()
	files := fileio.NewMemory()
	st := store.NewMemory()
	dirty := editing.NewDirtySet(core.PlatformLinux)
	rec := recent.NewRegistry(filepath.Join(t.TempDir(), "recent.yaml"), 0, core.PlatformLinux, log)
	h := host.New(host.Options{Platform: core.PlatformLinux, SaveDir: "/home/u"}, host.Deps{
		Files:    files,
		Store:    st,
		Registry: settings.NewRegistry(settings.DefaultProperties()...),
		Dirty:    dirty,
		Untitled: untitled.New("/tmp/wbs-untitled", files, core.PlatformLinux, log),
		Recent:   rec,
		Signaler: exthost.NewLocal(exthost.NewServer(log)),
	}, log)
	return &testServer{
		handler: NewAPI(h, st, rec, dirty, core.PlatformLinux, log).Router(),
		files:   files,
		dirty:   dirty,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) openWindow(t *testing.T, req host.OpenRequest) host.Info {
	t.Helper()
	w := s.do(t, http.MethodPost, "/v1/windows", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[host.Info](t, w)
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = s.do(t, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, core.NewAppError(core.ErrBadRequest, "test error"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, "WBS_BAD_REQUEST", resp.Code)
}

func TestAddFolders_EntersUntitledWorkspace(t *testing.T) {
	s := newTestServer(t)
	dir := core.Location("/src/a")
	win := s.openWindow(t, host.OpenRequest{Folder: &dir})

	w := s.do(t, http.MethodPost, "/v1/windows/"+win.ID+"/folders:add", AddFoldersRequest{
		Folders: []core.FolderCreationRequest{{Location: "/src/b"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[OperationResponse](t, w)
	require.NotNil(t, resp.Window)
	assert.Equal(t, core.StateWorkspace, resp.Window.State)
	assert.True(t, resp.Window.Untitled)
	assert.Len(t, resp.Window.Folders, 2)

	w = s.do(t, http.MethodGet, "/v1/windows/"+win.ID+"/transitions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tr := decode[map[string][]core.TransitionEvent](t, w)
	require.Len(t, tr["transitions"], 1)
	assert.Equal(t, core.OutcomeEntered, tr["transitions"][0].Outcome)
}

func TestAddFolders_Validation(t *testing.T) {
	s := newTestServer(t)
	win := s.openWindow(t, host.OpenRequest{})

	w := s.do(t, http.MethodPost, "/v1/windows/"+win.ID+"/folders:add", AddFoldersRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/v1/windows/missing/folders:add", AddFoldersRequest{
		Folders: []core.FolderCreationRequest{{Location: "/src/b"}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveFolders_DirtyWorkspaceReportsEditConflict(t *testing.T) {
	s := newTestServer(t)
	ws := core.Location("/home/u/team.code-workspace")
	s.files.Put(ws, []byte(`{"folders":[{"path":"a"},{"path":"b"}]}`))
	win := s.openWindow(t, host.OpenRequest{Workspace: &ws})

	w := s.do(t, http.MethodPost, "/v1/files:mark-dirty", MarkDirtyRequest{Path: ws, Dirty: true})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodPost, "/v1/windows/"+win.ID+"/folders:remove", RemoveFoldersRequest{
		Folders: []core.Location{"/home/u/a"},
		Answers: Answers{Choices: []string{editing.ButtonClose}},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, string(core.ErrEditConflict), resp.Code)
	assert.Equal(t, string(editing.ErrConfigurationFileDirty), resp.EditCode)
	require.Len(t, resp.Prompts, 1)
	assert.Equal(t, []string{editing.ButtonOpenConfiguration, editing.ButtonClose}, resp.Prompts[0].Buttons)
}

func TestEnterWorkspace_OpenElsewhereIsInvalidTarget(t *testing.T) {
	s := newTestServer(t)
	ws := core.Location("/home/u/team.code-workspace")
	s.files.Put(ws, []byte(`{"folders":[]}`))
	s.openWindow(t, host.OpenRequest{Workspace: &ws})
	other := s.openWindow(t, host.OpenRequest{})

	w := s.do(t, http.MethodPost, "/v1/windows/"+other.ID+"/workspace:validate-target", TargetRequest{Path: ws})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]interface{}](t, w)["valid"])

	w = s.do(t, http.MethodPost, "/v1/windows/"+other.ID+"/workspace:enter", TargetRequest{Path: ws})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(core.ErrInvalidTarget), decode[ErrorResponse](t, w).Code)
}

func TestShutdown_RequiresAnswerThenSaves(t *testing.T) {
	s := newTestServer(t)
	s.openWindow(t, host.OpenRequest{})
	win := s.openWindow(t, host.OpenRequest{})
	w := s.do(t, http.MethodPost, "/v1/windows/"+win.ID+"/workspace:create", CreateWorkspaceRequest{
		Folders: []core.FolderCreationRequest{{Location: "/src/a"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/v1/windows/"+win.ID+"/shutdown", ShutdownRequest{Reason: "close"})
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, string(core.ErrAnswerRequired), resp.Code)
	require.NotNil(t, resp.Prompt)
	assert.Equal(t, "choice", resp.Prompt.Kind)

	target := core.Location("/home/u/a.code-workspace")
	w = s.do(t, http.MethodPost, "/v1/windows/"+win.ID+"/shutdown", ShutdownRequest{
		Reason:  "close",
		Answers: Answers{Choices: []string{"Save"}, SaveTarget: &target},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decode[ShutdownResponse](t, w).Vetoed)
	_, saved := s.files.Get(target)
	assert.True(t, saved)

	w = s.do(t, http.MethodGet, "/v1/windows/"+win.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/v1/recent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]recent.Entry](t, w)["workspaces"], 1)
}

func TestShutdown_UnknownReason(t *testing.T) {
	s := newTestServer(t)
	win := s.openWindow(t, host.OpenRequest{})
	w := s.do(t, http.MethodPost, "/v1/windows/"+win.ID+"/shutdown", ShutdownRequest{Reason: "explode"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStorageFollowsWindowIdentity(t *testing.T) {
	s := newTestServer(t)
	win := s.openWindow(t, host.OpenRequest{})

	w := s.do(t, http.MethodPut, "/v1/windows/"+win.ID+"/storage/view.state", PutStorageRequest{Value: "open"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/v1/windows/"+win.ID+"/folders:update", UpdateFoldersRequest{
		Add: []core.FolderCreationRequest{{Location: "/src/a"}, {Location: "/src/b"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/v1/windows/"+win.ID+"/storage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Namespace string            `json:"namespace"`
		Items     map[string]string `json:"items"`
	}](t, w)
	assert.NotContains(t, body.Namespace, "empty-")
	assert.Equal(t, "open", body.Items["view.state"])
}

func TestGetSettings_ReflectsWorkspaceFile(t *testing.T) {
	s := newTestServer(t)
	ws := core.Location("/home/u/team.code-workspace")
	s.files.Put(ws, []byte(`{"folders":[], "settings": {"editor.tabSize": 2}}`))
	win := s.openWindow(t, host.OpenRequest{Workspace: &ws})

	w := s.do(t, http.MethodGet, "/v1/windows/"+win.ID+"/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[SettingsResponse](t, w)
	assert.EqualValues(t, 2, resp.Workspace["editor.tabSize"])
	assert.EqualValues(t, 2, resp.Effective["editor.tabSize"])
}

func TestOpenWindow_IdempotencyKey(t *testing.T) {
	s := newTestServer(t)
	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/windows", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "open-1")
		w := httptest.NewRecorder()
		s.handler.ServeHTTP(w, req)
		return w
	}

	first := post(`{"folder":"/src/a"}`)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	replay := post(`{ "folder": "/src/a" }`)
	require.Equal(t, http.StatusOK, replay.Code)
	assert.Equal(t, decode[host.Info](t, first).ID, decode[host.Info](t, replay).ID)

	mismatch := post(`{"folder":"/src/b"}`)
	assert.Equal(t, http.StatusConflict, mismatch.Code)
	assert.Equal(t, string(core.ErrIdempotency), decode[ErrorResponse](t, mismatch).Code)
}
