package fileio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
)

func TestLocalFS_WriteRead(t *testing.T) {
	ctx := context.Background()
	fsvc := NewLocalFS(zap.NewNop())
	loc := core.Location(filepath.Join(t.TempDir(), "nested", "a.code-workspace"))

	if err := fsvc.WriteFile(ctx, loc, []byte(`{"folders":[]}`), WriteOptions{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := fsvc.ReadFile(ctx, loc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != `{"folders":[]}` {
		t.Errorf("unexpected contents %q", got)
	}

	entries, _ := os.ReadDir(filepath.Dir(loc.String()))
	if len(entries) != 1 {
		t.Errorf("expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestLocalFS_WriteWithoutOverwrite(t *testing.T) {
	ctx := context.Background()
	fsvc := NewLocalFS(zap.NewNop())
	loc := core.Location(filepath.Join(t.TempDir(), "a.json"))

	if err := fsvc.WriteFile(ctx, loc, []byte("1"), WriteOptions{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := fsvc.WriteFile(ctx, loc, []byte("2"), WriteOptions{})
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if err := fsvc.WriteFile(ctx, loc, []byte("2"), WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ := fsvc.ReadFile(ctx, loc)
	if string(got) != "2" {
		t.Errorf("expected overwritten contents, got %q", got)
	}
}

func TestLocalFS_DeleteMissing(t *testing.T) {
	fsvc := NewLocalFS(zap.NewNop())
	err := fsvc.Delete(context.Background(), core.Location(filepath.Join(t.TempDir(), "nope")), DeleteOptions{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalFS_DeleteRecursive(t *testing.T) {
	ctx := context.Background()
	fsvc := NewLocalFS(zap.NewNop())
	dir := filepath.Join(t.TempDir(), "untitled-1")
	loc := core.Location(filepath.Join(dir, "workspace.json"))
	if err := fsvc.WriteFile(ctx, loc, []byte("{}"), WriteOptions{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := fsvc.Delete(ctx, core.Location(dir), DeleteOptions{Recursive: true}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("expected dir removed, stat err = %v", err)
	}
}

func TestListDir(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	local := NewLocalFS(zap.NewNop())
	mem := NewMemory()
	for _, name := range []string{"a/workspace.code-workspace", "b/workspace.code-workspace", "top.txt"} {
		loc := core.Location(filepath.Join(root, name))
		if err := local.WriteFile(ctx, loc, []byte("{}"), WriteOptions{}); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		mem.Put(loc, []byte("{}"))
	}

	for name, svc := range map[string]FileService{"local": local, "memory": mem} {
		got, err := svc.ListDir(ctx, core.Location(root))
		if err != nil {
			t.Fatalf("%s: list: %v", name, err)
		}
		want := []core.Location{
			core.Location(filepath.Join(root, "a")),
			core.Location(filepath.Join(root, "b")),
			core.Location(filepath.Join(root, "top.txt")),
		}
		if len(got) != len(want) {
			t.Fatalf("%s: got %v, want %v", name, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s: entry %d = %s, want %s", name, i, got[i], want[i])
			}
		}

		missing, err := svc.ListDir(ctx, core.Location(filepath.Join(root, "nope")))
		if err != nil || len(missing) != 0 {
			t.Errorf("%s: missing dir = %v, %v", name, missing, err)
		}
	}
}
