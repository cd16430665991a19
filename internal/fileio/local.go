package fileio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/observability"
)

// LocalFS reads and writes the local disk.
type LocalFS struct {
	log *zap.Logger
}

func NewLocalFS(log *zap.Logger) *LocalFS {
	return &LocalFS{log: log}
}

func (l *LocalFS) ReadFile(ctx context.Context, loc core.Location) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(loc.String())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, loc)
	}
	return data, err
}

// WriteFile writes through a temp file and rename(2), so readers never see a
// partially written target on POSIX.
func (l *LocalFS) WriteFile(ctx context.Context, loc core.Location, data []byte, opts WriteOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	path := loc.String()
	if !opts.Overwrite {
		if _, err := os.Lstat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, loc)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp: %w", err)
	}
	tmp = nil

	observability.FileWriteDuration.Observe(time.Since(start).Seconds())
	l.log.Debug("fileio: written", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

func (l *LocalFS) Delete(ctx context.Context, loc core.Location, opts DeleteOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := loc.String()
	var err error
	if opts.Recursive {
		if _, statErr := os.Lstat(path); errors.Is(statErr, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, loc)
		}
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, loc)
	}
	return err
}

func (l *LocalFS) ListDir(ctx context.Context, dir core.Location) ([]core.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir.String())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]core.Location, len(entries))
	for i, e := range entries {
		out[i] = core.Location(filepath.Join(dir.String(), e.Name()))
	}
	return out, nil
}
