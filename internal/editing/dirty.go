package editing

import (
	"sort"
	"sync"

	"github.com/lzjever/mbos-wbs/internal/core"
)

// DirtySet tracks files with unsaved changes in some editor.
type DirtySet struct {
	mu    sync.RWMutex
	p     core.Platform
	files map[string]core.Location
}

func NewDirtySet(p core.Platform) *DirtySet {
	return &DirtySet{p: p, files: make(map[string]core.Location)}
}

func (d *DirtySet) Mark(loc core.Location) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.files[core.ComparisonKey(loc, d.p)] = loc
}

func (d *DirtySet) Clear(loc core.Location) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.files, core.ComparisonKey(loc, d.p))
}

func (d *DirtySet) IsDirty(loc core.Location) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.files[core.ComparisonKey(loc, d.p)]
	return ok
}

func (d *DirtySet) List() []core.Location {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]core.Location, 0, len(d.files))
	for _, l := range d.files {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
