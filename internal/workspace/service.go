// Package workspace is the per-window entry point for folder and workspace
// commands.
package workspace

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/observability"
	"github.com/lzjever/mbos-wbs/internal/recent"
	"github.com/lzjever/mbos-wbs/internal/reconcile"
	"github.com/lzjever/mbos-wbs/internal/session"
	"github.com/lzjever/mbos-wbs/internal/shutdown"
)

type FolderEditor interface {
	Folders(ctx context.Context, configLocation core.Location) ([]core.WorkspaceFolder, error)
	AddFolders(ctx context.Context, configLocation core.Location, index int, add []core.FolderCreationRequest) error
	RemoveFolders(ctx context.Context, configLocation core.Location, remove []core.Location) error
	UpdateFolders(ctx context.Context, configLocation core.Location, index int, add []core.FolderCreationRequest, remove []core.Location) error
}

type ErrorClassifier interface {
	Handle(ctx context.Context, err error, configLocation core.Location)
}

type Gateway interface {
	IsValidTargetLocation(ctx context.Context, target core.Location) (bool, error)
	SaveAs(ctx context.Context, current core.Identifier, target core.Location) error
}

type Pipeline interface {
	Enter(ctx context.Context, target core.Location) error
	CopyWorkspaceSettings(ctx context.Context, to core.Identifier, filter func(core.ConfigurationProperty) bool) error
}

type Guard interface {
	OnBeforeShutdown(ctx context.Context, reason shutdown.Reason) (bool, error)
}

type UntitledWorkspaces interface {
	Create(ctx context.Context, folders []core.FolderCreationRequest) (core.Identifier, error)
	Delete(ctx context.Context, id core.Identifier) error
	IsUntitled(loc core.Location) bool
}

type RecentRecorder interface {
	Record(ctx context.Context, e recent.Entry) error
}

type Deps struct {
	Session    *session.Session
	Editor     FolderEditor
	Classifier ErrorClassifier
	Gateway    Gateway
	Pipeline   Pipeline
	Guard      Guard
	Untitled   UntitledWorkspaces
	Recent     RecentRecorder
	Platform   core.Platform
	Log        *zap.Logger
}

type UpdateOptions struct {
	// SkipErrorNotification suppresses the recovery prompt for edit errors.
	// The error is returned either way.
	SkipErrorNotification bool
}

type Service struct {
	d Deps
}

func NewService(d Deps) *Service {
	return &Service{d: d}
}

func (s *Service) Session() *session.Session { return s.d.Session }

func (s *Service) log(op string) *zap.Logger {
	wsid := ""
	if id, ok := core.WorkspaceIdentifier(s.d.Session.Workbench()); ok {
		wsid = id.ID
	}
	return observability.WindowLogger(s.d.Log, s.d.Session.WindowID(), wsid, op)
}

// UpdateFolders removes deleteCount folders at index and inserts add there.
func (s *Service) UpdateFolders(ctx context.Context, ch reconcile.Change, opts UpdateOptions) error {
	plan := reconcile.Compute(s.d.Session.Workbench(), ch, s.d.Platform)
	return s.execute(ctx, plan, opts)
}

func (s *Service) AddFolders(ctx context.Context, add []core.FolderCreationRequest, index int, opts UpdateOptions) error {
	plan := reconcile.AddFolders(s.d.Session.Workbench(), add, index, s.d.Platform)
	return s.execute(ctx, plan, opts)
}

func (s *Service) RemoveFolders(ctx context.Context, remove []core.Location, opts UpdateOptions) error {
	plan := reconcile.RemoveFolders(s.d.Session.Workbench(), remove, s.d.Platform)
	return s.execute(ctx, plan, opts)
}

func (s *Service) execute(ctx context.Context, plan reconcile.Plan, opts UpdateOptions) error {
	observability.FolderUpdatesTotal.WithLabelValues(string(plan.Kind)).Inc()
	log := s.log("update_folders")
	log.Debug("workspace: plan computed", zap.String("plan", string(plan.Kind)), zap.Int("folders", len(plan.Folders)), zap.Int("remove", len(plan.Remove)))

	if plan.Kind == reconcile.PlanNoop {
		return nil
	}
	if plan.Kind == reconcile.PlanEnterNew {
		return s.CreateAndEnterWorkspace(ctx, plan.Folders, nil)
	}

	id, ok := core.WorkspaceIdentifier(s.d.Session.Workbench())
	if !ok {
		return core.NewAppError(core.ErrInternal, fmt.Sprintf("plan %s requires a workspace", plan.Kind))
	}
	var err error
	switch plan.Kind {
	case reconcile.PlanEditAdd:
		err = s.d.Editor.AddFolders(ctx, id.ConfigLocation, plan.Index, plan.Folders)
	case reconcile.PlanEditRemove:
		err = s.d.Editor.RemoveFolders(ctx, id.ConfigLocation, plan.Remove)
	case reconcile.PlanEditUpdate:
		err = s.d.Editor.UpdateFolders(ctx, id.ConfigLocation, plan.Index, plan.Folders, plan.Remove)
	}
	if err != nil {
		if !opts.SkipErrorNotification {
			s.d.Classifier.Handle(ctx, err, id.ConfigLocation)
		}
		return err
	}
	return s.refreshMembers(ctx, id)
}

// refreshMembers re-reads the folder list after an in-place edit.
func (s *Service) refreshMembers(ctx context.Context, id core.Identifier) error {
	folders, err := s.d.Editor.Folders(ctx, id.ConfigLocation)
	if err != nil {
		return fmt.Errorf("reload folders: %w", err)
	}
	wb, err := core.NewWorkbench(&id, folders)
	if err != nil {
		return err
	}
	s.d.Session.Replace(wb, s.d.Session.RemoteAuthority())
	return nil
}

// IsValidTargetLocation reports whether target can be saved to or entered.
func (s *Service) IsValidTargetLocation(ctx context.Context, target core.Location) (bool, error) {
	return s.d.Gateway.IsValidTargetLocation(ctx, target)
}

// EnterWorkspace validates target and moves the window to it.
func (s *Service) EnterWorkspace(ctx context.Context, target core.Location) error {
	ok, err := s.d.Gateway.IsValidTargetLocation(ctx, target)
	if err != nil {
		return err
	}
	if !ok {
		return core.NewAppError(core.ErrInvalidTarget, fmt.Sprintf("workspace %s is already open in another window", target))
	}
	return s.enter(ctx, target)
}

// CreateAndEnterWorkspace creates an untitled workspace with folders and
// enters it. With a target the workspace is saved there first and the saved
// copy is entered instead.
func (s *Service) CreateAndEnterWorkspace(ctx context.Context, folders []core.FolderCreationRequest, target *core.Location) error {
	if target != nil {
		ok, err := s.d.Gateway.IsValidTargetLocation(ctx, *target)
		if err != nil {
			return err
		}
		if !ok {
			return core.NewAppError(core.ErrInvalidTarget, fmt.Sprintf("workspace %s is already open in another window", *target))
		}
	}

	id, err := s.d.Untitled.Create(ctx, folders)
	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	dest := id.ConfigLocation
	if target != nil {
		saveErr := s.d.Gateway.SaveAs(ctx, id, *target)
		if err := s.d.Untitled.Delete(ctx, id); err != nil {
			s.log("create_and_enter").Warn("workspace: delete interim untitled failed", zap.Error(err))
		}
		if saveErr != nil {
			return fmt.Errorf("save workspace: %w", saveErr)
		}
		dest = *target
	}
	return s.enter(ctx, dest)
}

// SaveAndEnterWorkspace saves the current workspace, or the current folders
// when there is none, to target and enters the saved workspace.
func (s *Service) SaveAndEnterWorkspace(ctx context.Context, target core.Location) error {
	ok, err := s.d.Gateway.IsValidTargetLocation(ctx, target)
	if err != nil {
		return err
	}
	if !ok {
		return core.NewAppError(core.ErrInvalidTarget, fmt.Sprintf("workspace %s is already open in another window", target))
	}

	wb := s.d.Session.Workbench()
	id, isWorkspace := core.WorkspaceIdentifier(wb)
	if !isWorkspace {
		folders := make([]core.FolderCreationRequest, 0, len(wb.Folders()))
		for _, f := range wb.Folders() {
			folders = append(folders, core.FolderCreationRequest{Location: f.Location, Name: f.Name})
		}
		return s.CreateAndEnterWorkspace(ctx, folders, &target)
	}
	if core.SameLocation(id.ConfigLocation, target, s.d.Platform) {
		return nil
	}
	if err := s.d.Gateway.SaveAs(ctx, id, target); err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}
	return s.enter(ctx, target)
}

// SaveAs writes the current workspace to target without entering it.
func (s *Service) SaveAs(ctx context.Context, target core.Location) error {
	id, ok := core.WorkspaceIdentifier(s.d.Session.Workbench())
	if !ok {
		return core.NewAppError(core.ErrBadRequest, "window has no workspace to save")
	}
	valid, err := s.d.Gateway.IsValidTargetLocation(ctx, target)
	if err != nil {
		return err
	}
	if !valid {
		return core.NewAppError(core.ErrInvalidTarget, fmt.Sprintf("workspace %s is already open in another window", target))
	}
	return s.d.Gateway.SaveAs(ctx, id, target)
}

// CopyWorkspaceSettings copies every workspace-level setting into to.
func (s *Service) CopyWorkspaceSettings(ctx context.Context, to core.Identifier) error {
	return s.d.Pipeline.CopyWorkspaceSettings(ctx, to, nil)
}

func (s *Service) OnBeforeShutdown(ctx context.Context, reason shutdown.Reason) (bool, error) {
	return s.d.Guard.OnBeforeShutdown(ctx, reason)
}

// enter runs the migration pipeline. A previous untitled workspace is removed
// once the window has left it; titled targets are recorded as recent.
func (s *Service) enter(ctx context.Context, target core.Location) error {
	prev, hadWorkspace := core.WorkspaceIdentifier(s.d.Session.Workbench())
	if err := s.d.Pipeline.Enter(ctx, target); err != nil {
		return err
	}
	next, ok := core.WorkspaceIdentifier(s.d.Session.Workbench())
	if !ok || (hadWorkspace && next.ID == prev.ID) {
		return nil
	}
	log := s.log("enter")
	if hadWorkspace && s.d.Untitled.IsUntitled(prev.ConfigLocation) {
		if err := s.d.Untitled.Delete(ctx, prev); err != nil {
			log.Warn("workspace: delete previous untitled failed", zap.Error(err))
		}
	}
	if s.d.Recent != nil && !s.d.Untitled.IsUntitled(next.ConfigLocation) {
		if err := s.d.Recent.Record(ctx, recent.Entry{Label: shutdown.Label(next), Identifier: next}); err != nil {
			log.Warn("workspace: record recent failed", zap.Error(err))
		}
	}
	return nil
}
