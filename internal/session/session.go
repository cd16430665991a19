// Package session holds the per-window workbench. The workbench value is
// immutable and swapped wholesale on every identity change.
package session

import (
	"sync"

	"github.com/lzjever/mbos-wbs/internal/core"
)

type Session struct {
	mu              sync.RWMutex
	windowID        string
	workbench       core.Workbench
	remoteAuthority string
	emptyNamespace  string
}

// New creates a session for a window. A nil workbench starts empty.
func New(windowID string, wb core.Workbench, remoteAuthority string) *Session {
	if wb == nil {
		wb = core.EmptyWorkbench{}
	}
	return &Session{
		windowID:        windowID,
		workbench:       wb,
		remoteAuthority: remoteAuthority,
		emptyNamespace:  "empty-" + core.NewID(),
	}
}

func (s *Session) WindowID() string { return s.windowID }

func (s *Session) Workbench() core.Workbench {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workbench
}

func (s *Session) RemoteAuthority() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remoteAuthority
}

// Replace swaps the workbench and returns the previous one.
func (s *Session) Replace(wb core.Workbench, remoteAuthority string) core.Workbench {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.workbench
	s.workbench = wb
	s.remoteAuthority = remoteAuthority
	return prev
}

// Namespace is the storage namespace of the current workbench.
func (s *Session) Namespace(p core.Platform) string {
	return core.StorageNamespace(s.Workbench(), s.emptyNamespace, p)
}
