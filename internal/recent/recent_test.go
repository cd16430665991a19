package recent

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
)

func entry(label string, loc core.Location) Entry {
	return Entry{Label: label, Identifier: core.IdentifierFor(loc, core.PlatformDarwin)}
}

func TestRegistry_RecordOrdersAndDedupes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "recent.yaml")
	r := NewRegistry(path, 3, core.PlatformDarwin, zap.NewNop())

	require.NoError(t, r.Record(ctx, entry("a (Workspace)", "/w/a.code-workspace")))
	require.NoError(t, r.Record(ctx, entry("b (Workspace)", "/w/b.code-workspace")))
	require.NoError(t, r.Record(ctx, entry("A (Workspace)", "/W/A.code-workspace")))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A (Workspace)", list[0].Label)
	assert.Equal(t, "b (Workspace)", list[1].Label)
	assert.False(t, list[0].OpenedAt.IsZero())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "workspaces:")
}

func TestRegistry_Cap(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(filepath.Join(t.TempDir(), "recent.yaml"), 2, core.PlatformLinux, zap.NewNop())
	for _, l := range []core.Location{"/1.code-workspace", "/2.code-workspace", "/3.code-workspace"} {
		require.NoError(t, r.Record(ctx, entry(l.Base(), l)))
	}
	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, core.Location("/3.code-workspace"), list[0].Identifier.ConfigLocation)
}

func TestRegistry_EmptyFile(t *testing.T) {
	r := NewRegistry(filepath.Join(t.TempDir(), "missing.yaml"), 0, core.PlatformLinux, zap.NewNop())
	list, err := r.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
