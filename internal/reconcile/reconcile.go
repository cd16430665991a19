// Package reconcile computes what a folder-set change means for a workbench.
//
// A single-folder or empty window has no workspace file, so any change that
// leaves it with a different folder set is expressed as entering a freshly
// created workspace rather than as an edit. Compute is pure: it never performs
// I/O and never mutates its inputs.
package reconcile

import "github.com/lzjever/mbos-wbs/internal/core"

type PlanKind string

const (
	PlanNoop       PlanKind = "noop"
	PlanEnterNew   PlanKind = "enter_new"
	PlanEditAdd    PlanKind = "edit_add"
	PlanEditRemove PlanKind = "edit_remove"
	PlanEditUpdate PlanKind = "edit_update"
)

// Change is an updateFolders request. DeleteCount nil means no deletion.
type Change struct {
	Index       int
	DeleteCount *int
	Add         []core.FolderCreationRequest
}

// Plan is the reconciled outcome.
//
// PlanEnterNew: Folders is the full folder list of the workspace to create.
// PlanEditAdd / PlanEditUpdate: Folders are inserted at Index.
// PlanEditRemove / PlanEditUpdate: Remove lists the folders to drop.
type Plan struct {
	Kind    PlanKind
	Index   int
	Folders []core.FolderCreationRequest
	Remove  []core.Location
}

// Compute reconciles a change against the current workbench.
func Compute(wb core.Workbench, ch Change, p core.Platform) Plan {
	toDelete := foldersInRange(wb.Folders(), ch.Index, ch.DeleteCount)
	wantsDelete := len(toDelete) > 0
	wantsAdd := len(ch.Add) > 0

	switch {
	case !wantsDelete && !wantsAdd:
		return Plan{Kind: PlanNoop}
	case wantsAdd && !wantsDelete:
		return AddFolders(wb, ch.Add, ch.Index, p)
	case wantsDelete && !wantsAdd:
		return RemoveFolders(wb, toDelete, p)
	}

	// Replacing the sole folder of a single-folder window starts over with
	// exactly the added folders.
	if f, ok := wb.(core.FolderWorkbench); ok && len(toDelete) == 1 && core.SameLocation(toDelete[0], f.Folder.Location, p) {
		return Plan{Kind: PlanEnterNew, Folders: Dedupe(ch.Add, p)}
	}

	if wb.State() != core.StateWorkspace {
		return AddFolders(wb, ch.Add, -1, p)
	}

	return Plan{Kind: PlanEditUpdate, Index: ch.Index, Folders: ch.Add, Remove: toDelete}
}

// AddFolders plans adding folders at index. A negative index appends.
func AddFolders(wb core.Workbench, add []core.FolderCreationRequest, index int, p core.Platform) Plan {
	if wb.State() == core.StateWorkspace {
		return Plan{Kind: PlanEditAdd, Index: index, Folders: add}
	}

	current := wb.Folders()
	candidates := make([]core.FolderCreationRequest, 0, len(current)+len(add))
	for _, f := range current {
		candidates = append(candidates, core.FolderCreationRequest{Location: f.Location})
	}
	candidates = splice(candidates, add, index)
	candidates = Dedupe(candidates, p)

	switch s := wb.(type) {
	case core.EmptyWorkbench:
		if len(candidates) == 0 {
			return Plan{Kind: PlanNoop}
		}
	case core.FolderWorkbench:
		if len(candidates) == 1 && core.SameLocation(candidates[0].Location, s.Folder.Location, p) {
			return Plan{Kind: PlanNoop}
		}
	}
	return Plan{Kind: PlanEnterNew, Folders: candidates}
}

// RemoveFolders plans removing folders by location.
func RemoveFolders(wb core.Workbench, remove []core.Location, p core.Platform) Plan {
	switch s := wb.(type) {
	case core.WorkspaceWorkbench:
		return Plan{Kind: PlanEditRemove, Remove: remove}
	case core.FolderWorkbench:
		for _, loc := range remove {
			if core.SameLocation(loc, s.Folder.Location, p) {
				return Plan{Kind: PlanEnterNew, Folders: []core.FolderCreationRequest{}}
			}
		}
	}
	return Plan{Kind: PlanNoop}
}

// Dedupe drops folders whose comparison key was already seen, keeping order.
func Dedupe(folders []core.FolderCreationRequest, p core.Platform) []core.FolderCreationRequest {
	seen := make(map[string]struct{}, len(folders))
	out := make([]core.FolderCreationRequest, 0, len(folders))
	for _, f := range folders {
		key := core.ComparisonKey(f.Location, p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}

func foldersInRange(folders []core.WorkspaceFolder, index int, deleteCount *int) []core.Location {
	if deleteCount == nil || *deleteCount <= 0 || index < 0 || index >= len(folders) {
		return nil
	}
	end := index + *deleteCount
	if end > len(folders) {
		end = len(folders)
	}
	out := make([]core.Location, 0, end-index)
	for _, f := range folders[index:end] {
		out = append(out, f.Location)
	}
	return out
}

func splice(base, insert []core.FolderCreationRequest, index int) []core.FolderCreationRequest {
	if index < 0 || index > len(base) {
		index = len(base)
	}
	out := make([]core.FolderCreationRequest, 0, len(base)+len(insert))
	out = append(out, base[:index]...)
	out = append(out, insert...)
	return append(out, base[index:]...)
}
