package fileio

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lzjever/mbos-wbs/internal/core"
)

// Memory is an in-process FileService keyed by raw location. It counts calls
// so callers can assert that an operation did no I/O.
type Memory struct {
	mu    sync.Mutex
	files map[core.Location][]byte

	Reads   int
	Writes  int
	Deletes int
}

func NewMemory() *Memory {
	return &Memory{files: make(map[core.Location][]byte)}
}

// Put seeds a file without counting a write.
func (m *Memory) Put(loc core.Location, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[loc] = append([]byte(nil), data...)
}

// Get returns a file without counting a read.
func (m *Memory) Get(loc core.Location) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[loc]
	return data, ok
}

func (m *Memory) ReadFile(ctx context.Context, loc core.Location) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reads++
	data, ok := m.files[loc]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, loc)
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) WriteFile(ctx context.Context, loc core.Location, data []byte, opts WriteOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	if _, ok := m.files[loc]; ok && !opts.Overwrite {
		return fmt.Errorf("%w: %s", ErrExists, loc)
	}
	m.files[loc] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Delete(ctx context.Context, loc core.Location, opts DeleteOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++
	if _, ok := m.files[loc]; !ok && !opts.Recursive {
		return fmt.Errorf("%w: %s", ErrNotFound, loc)
	}
	delete(m.files, loc)
	if opts.Recursive {
		prefix := strings.TrimRight(loc.String(), "/") + "/"
		for k := range m.files {
			if strings.HasPrefix(k.String(), prefix) {
				delete(m.files, k)
			}
		}
	}
	return nil
}

// ListDir derives directories from the stored file paths.
func (m *Memory) ListDir(ctx context.Context, dir core.Location) ([]core.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimRight(dir.String(), "/") + "/"
	seen := map[core.Location]struct{}{}
	for k := range m.files {
		rest, ok := strings.CutPrefix(k.String(), prefix)
		if !ok || rest == "" {
			continue
		}
		child, _, _ := strings.Cut(rest, "/")
		seen[core.Location(prefix+child)] = struct{}{}
	}
	out := make([]core.Location, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
