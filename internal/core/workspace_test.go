package core

import (
	"errors"
	"testing"
)

func TestNewWorkbench_DerivesState(t *testing.T) {
	id := &Identifier{ID: "ws-1", ConfigLocation: "/tmp/a.code-workspace"}
	a := NewWorkspaceFolder("/src/a", "")
	b := NewWorkspaceFolder("/src/b", "")

	tests := []struct {
		name    string
		id      *Identifier
		folders []WorkspaceFolder
		want    WorkbenchState
	}{
		{"no folders", nil, nil, StateEmpty},
		{"single folder", nil, []WorkspaceFolder{a}, StateFolder},
		{"empty workspace", id, nil, StateWorkspace},
		{"workspace with folders", id, []WorkspaceFolder{a, b}, StateWorkspace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb, err := NewWorkbench(tt.id, tt.folders)
			if err != nil {
				t.Fatalf("NewWorkbench() error = %v", err)
			}
			if wb.State() != tt.want {
				t.Fatalf("State() = %s, want %s", wb.State(), tt.want)
			}
			if len(wb.Folders()) != len(tt.folders) {
				t.Fatalf("Folders() len = %d, want %d", len(wb.Folders()), len(tt.folders))
			}
		})
	}
}

func TestNewWorkbench_RejectsFoldersWithoutIdentifier(t *testing.T) {
	_, err := NewWorkbench(nil, []WorkspaceFolder{NewWorkspaceFolder("/a", ""), NewWorkspaceFolder("/b", "")})
	if !errors.Is(err, ErrAmbiguousWorkbench) {
		t.Fatalf("expected ErrAmbiguousWorkbench, got %v", err)
	}
}

func TestWorkspaceWorkbench_FoldersIsACopy(t *testing.T) {
	wb, _ := NewWorkbench(&Identifier{ID: "x"}, []WorkspaceFolder{NewWorkspaceFolder("/a", "")})
	folders := wb.Folders()
	folders[0].Name = "mutated"
	if wb.Folders()[0].Name != "a" {
		t.Fatal("workbench folders must not be mutable through Folders()")
	}
}

func TestWorkspaceIdentifier(t *testing.T) {
	if _, ok := WorkspaceIdentifier(EmptyWorkbench{}); ok {
		t.Fatal("empty workbench has no identifier")
	}
	wb, _ := NewWorkbench(&Identifier{ID: "ws-9"}, nil)
	id, ok := WorkspaceIdentifier(wb)
	if !ok || id.ID != "ws-9" {
		t.Fatalf("WorkspaceIdentifier() = %v, %v", id, ok)
	}
}
