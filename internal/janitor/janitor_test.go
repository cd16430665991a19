package janitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/editing"
	"github.com/lzjever/mbos-wbs/internal/fileio"
	"github.com/lzjever/mbos-wbs/internal/untitled"
)

type MockWindows struct {
	Open []core.OpenWorkspace
}

func (m *MockWindows) OpenWorkspaces(ctx context.Context) []core.OpenWorkspace { return m.Open }

func setup(t *testing.T) (*untitled.Service, *editing.Editor, *fileio.Memory) {
	t.Helper()
	files := fileio.NewMemory()
	u := untitled.New("/tmp/wbs-untitled", files, core.PlatformLinux, zap.NewNop())
	ed := editing.NewEditor(files, editing.NewDirtySet(core.PlatformLinux), u, core.PlatformLinux, zap.NewNop())
	return u, ed, files
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	u, ed, files := setup(t)

	emptyOrphan, err := u.Create(ctx, nil)
	require.NoError(t, err)
	emptyOpen, err := u.Create(ctx, nil)
	require.NoError(t, err)
	withFolders, err := u.Create(ctx, []core.FolderCreationRequest{{Location: "/src/a"}})
	require.NoError(t, err)

	windows := &MockWindows{Open: []core.OpenWorkspace{
		{WindowID: "w1", Identifier: &emptyOpen},
		{WindowID: "w2"},
	}}
	j := New(u, ed, windows, core.PlatformLinux, Config{Interval: time.Minute}, zap.NewNop())

	res, err := j.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Identifier{emptyOrphan}, res.Removed)
	assert.Equal(t, []core.Identifier{withFolders}, res.Orphaned)

	_, ok := files.Get(emptyOrphan.ConfigLocation)
	assert.False(t, ok)
	_, ok = files.Get(emptyOpen.ConfigLocation)
	assert.True(t, ok)

	res, err = j.Sweep(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Removed)
}

func TestRunStopsWithContext(t *testing.T) {
	u, ed, _ := setup(t)
	j := New(u, ed, &MockWindows{}, core.PlatformLinux, Config{Interval: time.Hour}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
