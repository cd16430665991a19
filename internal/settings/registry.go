// Package settings holds declared configuration properties and the layered
// values a window sees.
package settings

import (
	"sort"
	"sync"

	"github.com/lzjever/mbos-wbs/internal/core"
)

// Registry is shared by all windows: declarations and user-level values.
type Registry struct {
	mu    sync.RWMutex
	props map[string]core.ConfigurationProperty
	user  map[string]any
}

func NewRegistry(props ...core.ConfigurationProperty) *Registry {
	r := &Registry{props: make(map[string]core.ConfigurationProperty), user: make(map[string]any)}
	r.Declare(props...)
	return r
}

func (r *Registry) Declare(props ...core.ConfigurationProperty) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range props {
		r.props[p.Key] = p
	}
}

func (r *Registry) SetUser(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user[key] = value
}

func (r *Registry) Property(key string) (core.ConfigurationProperty, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.props[key]
	return p, ok
}

func (r *Registry) userValue(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.user[key]
	return v, ok
}

func (r *Registry) userKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.user)
}

// DefaultProperties declares the settings the daemon knows about.
func DefaultProperties() []core.ConfigurationProperty {
	return []core.ConfigurationProperty{
		{Key: "window.title", Scope: core.ScopeWindow},
		{Key: "window.zoomLevel", Scope: core.ScopeWindow},
		{Key: "files.exclude", Scope: core.ScopeResource},
		{Key: "files.autoSave", Scope: core.ScopeResource},
		{Key: "editor.tabSize", Scope: core.ScopeLanguageOverridable},
		{Key: "editor.fontFamily", Scope: core.ScopeLanguageOverridable},
		{Key: "terminal.integrated.shell", Scope: core.ScopeMachine},
		{Key: "remote.downloadExtensionsLocally", Scope: core.ScopeMachineOverridable},
		{Key: "update.mode", Scope: core.ScopeApplication},
		{Key: "telemetry.level", Scope: core.ScopeApplication},
	}
}

func sortedKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
