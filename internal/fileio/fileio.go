// Package fileio is the file-system surface used by workspace persistence.
package fileio

import (
	"context"
	"errors"

	"github.com/lzjever/mbos-wbs/internal/core"
)

var (
	ErrExists   = errors.New("file exists")
	ErrNotFound = errors.New("file not found")
)

type WriteOptions struct {
	Overwrite bool
}

type DeleteOptions struct {
	Recursive bool
}

type FileService interface {
	ReadFile(ctx context.Context, loc core.Location) ([]byte, error)
	// WriteFile fails with ErrExists when Overwrite is false and loc exists.
	WriteFile(ctx context.Context, loc core.Location, data []byte, opts WriteOptions) error
	Delete(ctx context.Context, loc core.Location, opts DeleteOptions) error
	// ListDir returns the direct children of dir, sorted. A missing dir has none.
	ListDir(ctx context.Context, dir core.Location) ([]core.Location, error)
}
