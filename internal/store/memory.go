package store

import (
	"context"
	"sync"
	"time"

	"github.com/lzjever/mbos-wbs/internal/core"
)

// Memory is a process-local Store used when no database is configured.
type Memory struct {
	mu          sync.RWMutex
	items       map[string]map[string]string
	transitions []core.TransitionEvent
	nextID      int64
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]map[string]string)}
}

func (m *Memory) Get(ctx context.Context, namespace, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[namespace][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(ctx context.Context, namespace, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.items[namespace]
	if !ok {
		ns = make(map[string]string)
		m.items[namespace] = ns
	}
	ns[key] = value
	return nil
}

func (m *Memory) Items(ctx context.Context, namespace string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.items[namespace]))
	for k, v := range m.items[namespace] {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) MigrateNamespace(ctx context.Context, from, to string) error {
	if from == to {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	src := m.items[from]
	if len(src) == 0 {
		return nil
	}
	dst, ok := m.items[to]
	if !ok {
		dst = make(map[string]string, len(src))
		m.items[to] = dst
	}
	for k, v := range src {
		dst[k] = v
	}
	return nil
}

func (m *Memory) RecordTransition(ctx context.Context, ev core.TransitionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	ev.EventID = m.nextID
	if ev.Ts.IsZero() {
		ev.Ts = time.Now().UTC()
	}
	m.transitions = append(m.transitions, ev)
	return nil
}

func (m *Memory) ListTransitions(ctx context.Context, windowID string, limit int) ([]core.TransitionEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := int(transitionLimit(limit))
	var out []core.TransitionEvent
	for i := len(m.transitions) - 1; i >= 0 && len(out) < n; i-- {
		if m.transitions[i].WindowID == windowID {
			out = append(out, m.transitions[i])
		}
	}
	return out, nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }
