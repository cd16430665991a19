package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/dialog"
	"github.com/lzjever/mbos-wbs/internal/fileio"
	"github.com/lzjever/mbos-wbs/internal/workspacefile"
)

type staticWindows []core.OpenWorkspace

func (s staticWindows) OpenWorkspaces(ctx context.Context) []core.OpenWorkspace { return s }

func ident(loc core.Location) *core.Identifier {
	id := core.IdentifierFor(loc, core.PlatformDarwin)
	return &id
}

func TestIsValidTargetLocation(t *testing.T) {
	windows := staticWindows{
		{WindowID: "self", Identifier: ident("/Users/u/mine.code-workspace")},
		{WindowID: "w2"},
		{WindowID: "w3", Identifier: ident("/Users/u/Team.code-workspace")},
	}

	tests := []struct {
		name   string
		target core.Location
		want   bool
	}{
		{"free location", "/Users/u/new.code-workspace", true},
		{"own workspace", "/Users/u/mine.code-workspace", true},
		{"other window exact", "/Users/u/Team.code-workspace", false},
		{"other window different case", "/users/U/team.code-workspace", false},
		{"other window trailing separator", "/Users/u/Team.code-workspace/", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialogs := dialog.NewPreset(nil, nil)
			files := fileio.NewMemory()
			g := NewGateway("self", files, windows, dialogs, core.PlatformDarwin, zap.NewNop())

			ok, err := g.IsValidTargetLocation(context.Background(), tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Zero(t, files.Reads+files.Writes, "validation must not touch files")
			if !tt.want {
				require.Len(t, dialogs.Shown(), 1)
				assert.Equal(t, dialog.SeverityWarning, dialogs.Shown()[0].Severity)
			}
		})
	}
}

func TestSaveAs_SameTargetDoesNoIO(t *testing.T) {
	files := fileio.NewMemory()
	g := NewGateway("self", files, staticWindows{}, dialog.NewPreset(nil, nil), core.PlatformWindows, zap.NewNop())

	cur := core.Identifier{ID: "x", ConfigLocation: `C:\Work\A.code-workspace`}
	require.NoError(t, g.SaveAs(context.Background(), cur, "c:/work/a.code-workspace"))
	assert.Zero(t, files.Reads)
	assert.Zero(t, files.Writes)
}

func TestSaveAs_RewritesRelativeFolders(t *testing.T) {
	files := fileio.NewMemory()
	src := core.Location("/home/u/proj/a.code-workspace")
	dst := core.Location("/home/u/saved/a.code-workspace")
	files.Put(src, []byte(`{"folders":[{"path":"app"},{"path":"/abs"}],"settings":{"k":1}}`))
	files.Put(dst, []byte(`old`))

	g := NewGateway("self", files, staticWindows{}, dialog.NewPreset(nil, nil), core.PlatformLinux, zap.NewNop())
	require.NoError(t, g.SaveAs(context.Background(), core.Identifier{ID: "x", ConfigLocation: src}, dst))

	data, ok := files.Get(dst)
	require.True(t, ok)
	f, err := workspacefile.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "../proj/app", f.Folders[0].Path)
	assert.Equal(t, "/abs", f.Folders[1].Path)
	assert.Equal(t, float64(1), f.Settings["k"])
}

func TestSaveAs_MissingSource(t *testing.T) {
	g := NewGateway("self", fileio.NewMemory(), staticWindows{}, dialog.NewPreset(nil, nil), core.PlatformLinux, zap.NewNop())
	err := g.SaveAs(context.Background(), core.Identifier{ConfigLocation: "/nope.code-workspace"}, "/dst.code-workspace")
	assert.ErrorIs(t, err, fileio.ErrNotFound)
}
