package workspace

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/editing"
	"github.com/lzjever/mbos-wbs/internal/fileio"
	"github.com/lzjever/mbos-wbs/internal/reconcile"
	"github.com/lzjever/mbos-wbs/internal/recent"
	"github.com/lzjever/mbos-wbs/internal/session"
	"github.com/lzjever/mbos-wbs/internal/shutdown"
	"github.com/lzjever/mbos-wbs/internal/untitled"
	"github.com/lzjever/mbos-wbs/internal/workspacefile"
)

const untitledRoot = "/tmp/wbs-untitled"

type MockPipeline struct {
	EnterFunc func(ctx context.Context, target core.Location) error
	Entered   []core.Location
	Copied    []core.Identifier
}

func (m *MockPipeline) Enter(ctx context.Context, target core.Location) error {
	m.Entered = append(m.Entered, target)
	return m.EnterFunc(ctx, target)
}

func (m *MockPipeline) CopyWorkspaceSettings(ctx context.Context, to core.Identifier, filter func(core.ConfigurationProperty) bool) error {
	m.Copied = append(m.Copied, to)
	return nil
}

type MockGateway struct {
	files   *fileio.Memory
	Invalid map[core.Location]bool
	Saved   []core.Location
}

func (m *MockGateway) IsValidTargetLocation(ctx context.Context, target core.Location) (bool, error) {
	return !m.Invalid[target], nil
}

func (m *MockGateway) SaveAs(ctx context.Context, current core.Identifier, target core.Location) error {
	data, ok := m.files.Get(current.ConfigLocation)
	if !ok {
		return fileio.ErrNotFound
	}
	m.files.Put(target, data)
	m.Saved = append(m.Saved, target)
	return nil
}

type MockClassifier struct{ Handled []error }

func (m *MockClassifier) Handle(ctx context.Context, err error, configLocation core.Location) {
	m.Handled = append(m.Handled, err)
}

type MockGuard struct{ Reasons []shutdown.Reason }

func (m *MockGuard) OnBeforeShutdown(ctx context.Context, reason shutdown.Reason) (bool, error) {
	m.Reasons = append(m.Reasons, reason)
	return false, nil
}

type MockRecent struct{ Entries []recent.Entry }

func (m *MockRecent) Record(ctx context.Context, e recent.Entry) error {
	m.Entries = append(m.Entries, e)
	return nil
}

// RecordingEditor counts combined edits before delegating to the real editor.
type RecordingEditor struct {
	*editing.Editor
	Updates int
}

func (r *RecordingEditor) UpdateFolders(ctx context.Context, configLocation core.Location, index int, add []core.FolderCreationRequest, remove []core.Location) error {
	r.Updates++
	return r.Editor.UpdateFolders(ctx, configLocation, index, add, remove)
}

type fixture struct {
	svc        *Service
	editor     *RecordingEditor
	sess       *session.Session
	files      *fileio.Memory
	dirty      *editing.DirtySet
	untitled   *untitled.Service
	pipeline   *MockPipeline
	gateway    *MockGateway
	classifier *MockClassifier
	guard      *MockGuard
	recent     *MockRecent
}

// newFixture wires the service to an in-memory file system. The pipeline mock
// enters a workspace by reading its folders and replacing the session.
func newFixture(t *testing.T, wb core.Workbench) *fixture {
	t.Helper()
	f := &fixture{
		sess:       session.New("w1", wb, ""),
		files:      fileio.NewMemory(),
		dirty:      editing.NewDirtySet(core.PlatformLinux),
		classifier: &MockClassifier{},
		guard:      &MockGuard{},
		recent:     &MockRecent{},
	}
	f.untitled = untitled.New(untitledRoot, f.files, core.PlatformLinux, zap.NewNop())
	editor := editing.NewEditor(f.files, f.dirty, f.untitled, core.PlatformLinux, zap.NewNop())
	f.editor = &RecordingEditor{Editor: editor}
	f.gateway = &MockGateway{files: f.files, Invalid: map[core.Location]bool{}}
	f.pipeline = &MockPipeline{EnterFunc: func(ctx context.Context, target core.Location) error {
		folders, err := editor.Folders(ctx, target)
		if err != nil {
			return err
		}
		id := core.IdentifierFor(target, core.PlatformLinux)
		if f.untitled.IsUntitled(target) {
			id.ID = filepath.Base(filepath.Dir(target.String()))
		}
		next, err := core.NewWorkbench(&id, folders)
		if err != nil {
			return err
		}
		f.sess.Replace(next, "")
		return nil
	}}
	f.svc = NewService(Deps{
		Session:    f.sess,
		Editor:     f.editor,
		Classifier: f.classifier,
		Gateway:    f.gateway,
		Pipeline:   f.pipeline,
		Guard:      f.guard,
		Untitled:   f.untitled,
		Recent:     f.recent,
		Platform:   core.PlatformLinux,
		Log:        zap.NewNop(),
	})
	return f
}

func locationsOf(folders []core.WorkspaceFolder) []core.Location {
	out := make([]core.Location, len(folders))
	for i, f := range folders {
		out[i] = f.Location
	}
	return out
}

func titledWorkspace(t *testing.T, files *fileio.Memory, loc core.Location, body string) core.Workbench {
	t.Helper()
	files.Put(loc, []byte(body))
	wf, err := workspacefile.Parse([]byte(body))
	require.NoError(t, err)
	id := core.IdentifierFor(loc, core.PlatformLinux)
	wb, err := core.NewWorkbench(&id, wf.Resolve(loc))
	require.NoError(t, err)
	return wb
}

func TestAddFolders_FolderWindowEntersUntitledWorkspace(t *testing.T) {
	f := newFixture(t, core.FolderWorkbench{Folder: core.NewWorkspaceFolder("/src/a", "")})

	err := f.svc.AddFolders(context.Background(), []core.FolderCreationRequest{{Location: "/src/b"}}, -1, UpdateOptions{})
	require.NoError(t, err)

	require.Len(t, f.pipeline.Entered, 1)
	assert.True(t, f.untitled.IsUntitled(f.pipeline.Entered[0]))
	wb := f.sess.Workbench()
	assert.Equal(t, core.StateWorkspace, wb.State())
	assert.Equal(t, []core.Location{"/src/a", "/src/b"}, locationsOf(wb.Folders()))
	assert.Empty(t, f.recent.Entries, "untitled workspaces are not recent")
}

func TestAddFolders_SameFolderIsNoop(t *testing.T) {
	f := newFixture(t, core.FolderWorkbench{Folder: core.NewWorkspaceFolder("/src/a", "")})
	require.NoError(t, f.svc.AddFolders(context.Background(), []core.FolderCreationRequest{{Location: "/src/a/"}}, 0, UpdateOptions{}))
	assert.Empty(t, f.pipeline.Entered)
	assert.Zero(t, f.files.Writes)
}

func TestUpdateFolders_EditsWorkspaceInPlace(t *testing.T) {
	f := newFixture(t, core.EmptyWorkbench{})
	wb := titledWorkspace(t, f.files, "/home/u/team.code-workspace", `{"folders":[{"path":"a"},{"path":"b"}]}`)
	f.sess.Replace(wb, "")

	del := 1
	err := f.svc.UpdateFolders(context.Background(), reconcile.Change{
		Index:       0,
		DeleteCount: &del,
		Add:         []core.FolderCreationRequest{{Location: "/home/u/c"}},
	}, UpdateOptions{})
	require.NoError(t, err)

	assert.Empty(t, f.pipeline.Entered)
	assert.Equal(t, 1, f.editor.Updates)
	assert.Equal(t, []core.Location{"/home/u/c", "/home/u/b"}, locationsOf(f.sess.Workbench().Folders()))
}

func TestRemoveFolders_DirtyWorkspaceIsClassified(t *testing.T) {
	f := newFixture(t, core.EmptyWorkbench{})
	loc := core.Location("/home/u/team.code-workspace")
	f.sess.Replace(titledWorkspace(t, f.files, loc, `{"folders":[{"path":"a"}]}`), "")
	f.dirty.Mark(loc)

	err := f.svc.RemoveFolders(context.Background(), []core.Location{"/home/u/a"}, UpdateOptions{})
	require.Error(t, err)
	code, ok := editing.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, editing.ErrConfigurationFileDirty, code)
	require.Len(t, f.classifier.Handled, 1)

	err = f.svc.RemoveFolders(context.Background(), []core.Location{"/home/u/a"}, UpdateOptions{SkipErrorNotification: true})
	require.Error(t, err)
	assert.Len(t, f.classifier.Handled, 1)
}

func TestRemoveFolders_SoleFolderEntersEmptyWorkspace(t *testing.T) {
	f := newFixture(t, core.FolderWorkbench{Folder: core.NewWorkspaceFolder("/src/a", "")})
	require.NoError(t, f.svc.RemoveFolders(context.Background(), []core.Location{"/src/a"}, UpdateOptions{}))
	wb := f.sess.Workbench()
	assert.Equal(t, core.StateWorkspace, wb.State())
	assert.Empty(t, wb.Folders())
}

func TestEnterWorkspace_InvalidTarget(t *testing.T) {
	f := newFixture(t, core.EmptyWorkbench{})
	f.gateway.Invalid["/home/u/busy.code-workspace"] = true

	err := f.svc.EnterWorkspace(context.Background(), "/home/u/busy.code-workspace")
	var appErr *core.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, core.ErrInvalidTarget, appErr.Code)
	assert.Empty(t, f.pipeline.Entered)
}

func TestEnterWorkspace_DeletesPreviousUntitledAndRecordsRecent(t *testing.T) {
	f := newFixture(t, core.FolderWorkbench{Folder: core.NewWorkspaceFolder("/src/a", "")})
	ctx := context.Background()
	require.NoError(t, f.svc.AddFolders(ctx, []core.FolderCreationRequest{{Location: "/src/b"}}, -1, UpdateOptions{}))
	prev, ok := core.WorkspaceIdentifier(f.sess.Workbench())
	require.True(t, ok)

	f.files.Put("/home/u/team.code-workspace", []byte(`{"folders":[{"path":"x"}]}`))
	require.NoError(t, f.svc.EnterWorkspace(ctx, "/home/u/team.code-workspace"))

	_, exists := f.files.Get(prev.ConfigLocation)
	assert.False(t, exists, "previous untitled workspace is removed")
	require.Len(t, f.recent.Entries, 1)
	assert.Equal(t, "team (Workspace)", f.recent.Entries[0].Label)
}

func TestEnterWorkspace_FailureKeepsPreviousUntitled(t *testing.T) {
	f := newFixture(t, core.FolderWorkbench{Folder: core.NewWorkspaceFolder("/src/a", "")})
	ctx := context.Background()
	require.NoError(t, f.svc.AddFolders(ctx, []core.FolderCreationRequest{{Location: "/src/b"}}, -1, UpdateOptions{}))
	prev, _ := core.WorkspaceIdentifier(f.sess.Workbench())

	f.pipeline.EnterFunc = func(ctx context.Context, target core.Location) error { return errors.New("boom") }
	require.Error(t, f.svc.EnterWorkspace(ctx, "/home/u/other.code-workspace"))

	_, exists := f.files.Get(prev.ConfigLocation)
	assert.True(t, exists)
}

func TestCreateAndEnterWorkspace_WithTargetEntersSavedCopy(t *testing.T) {
	f := newFixture(t, core.EmptyWorkbench{})
	target := core.Location("/home/u/new.code-workspace")

	err := f.svc.CreateAndEnterWorkspace(context.Background(), []core.FolderCreationRequest{{Location: "/src/a"}}, &target)
	require.NoError(t, err)

	assert.Equal(t, []core.Location{target}, f.pipeline.Entered)
	assert.Equal(t, []core.Location{target}, f.gateway.Saved)
	id, _ := core.WorkspaceIdentifier(f.sess.Workbench())
	assert.Equal(t, target, id.ConfigLocation)
	assert.Equal(t, 1, f.files.Deletes, "interim untitled workspace removed")
}

func TestSaveAndEnterWorkspace_SameLocationIsNoop(t *testing.T) {
	f := newFixture(t, core.EmptyWorkbench{})
	loc := core.Location("/home/u/team.code-workspace")
	f.sess.Replace(titledWorkspace(t, f.files, loc, `{"folders":[]}`), "")

	require.NoError(t, f.svc.SaveAndEnterWorkspace(context.Background(), loc))
	assert.Empty(t, f.gateway.Saved)
	assert.Empty(t, f.pipeline.Entered)
}

func TestSaveAs_RequiresWorkspace(t *testing.T) {
	f := newFixture(t, core.EmptyWorkbench{})
	err := f.svc.SaveAs(context.Background(), "/home/u/x.code-workspace")
	var appErr *core.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, core.ErrBadRequest, appErr.Code)
}

func TestOnBeforeShutdown_Delegates(t *testing.T) {
	f := newFixture(t, core.EmptyWorkbench{})
	veto, err := f.svc.OnBeforeShutdown(context.Background(), shutdown.ReasonQuit)
	require.NoError(t, err)
	assert.False(t, veto)
	assert.Equal(t, []shutdown.Reason{shutdown.ReasonQuit}, f.guard.Reasons)
}
