package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lzjever/mbos-wbs/internal/core"
)

func TestSession_ReplaceSwapsWholesale(t *testing.T) {
	s := New("w1", nil, "")
	assert.Equal(t, core.StateEmpty, s.Workbench().State())

	ws := core.WorkspaceWorkbench{Identifier: core.Identifier{ID: "id-1", ConfigLocation: "/a.code-workspace"}}
	prev := s.Replace(ws, "ssh-remote+box")

	assert.Equal(t, core.StateEmpty, prev.State())
	assert.Equal(t, core.StateWorkspace, s.Workbench().State())
	assert.Equal(t, "ssh-remote+box", s.RemoteAuthority())
	assert.Equal(t, "id-1", s.Namespace(core.PlatformLinux))
}

func TestSession_EmptyNamespaceIsStablePerWindow(t *testing.T) {
	s := New("w1", nil, "")
	ns := s.Namespace(core.PlatformLinux)
	assert.True(t, strings.HasPrefix(ns, "empty-"))
	assert.Equal(t, ns, s.Namespace(core.PlatformLinux))
	assert.NotEqual(t, ns, New("w2", nil, "").Namespace(core.PlatformLinux))
}
