package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestIsActive(t *testing.T) {
	if IsActive(Noop{}) {
		t.Error("noop store must not be active")
	}
	if IsActive(nil) {
		t.Error("nil store must not be active")
	}
	if !IsActive(NewDir(zap.NewNop())) {
		t.Error("dir store must be active")
	}
}

func TestDir_Reinitialize(t *testing.T) {
	d := NewDir(zap.NewNop())
	path := filepath.Join(t.TempDir(), "backups", "ws-1")
	if err := d.Reinitialize(context.Background(), path); err != nil {
		t.Fatalf("reinitialize: %v", err)
	}
	if d.Path() != path {
		t.Errorf("expected path %s, got %s", path, d.Path())
	}
	if fi, err := os.Stat(path); err != nil || !fi.IsDir() {
		t.Errorf("expected backup dir created, err=%v", err)
	}
	if err := d.Reinitialize(context.Background(), ""); err == nil {
		t.Error("expected error for empty path")
	}
}
