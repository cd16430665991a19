package editing

import (
	"context"

	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/dialog"
	"github.com/lzjever/mbos-wbs/internal/observability"
)

const (
	ButtonOpenConfiguration = "Open Workspace Configuration"
	ButtonClose             = "Close"
)

// Opener opens a file in the window.
type Opener interface {
	OpenFile(ctx context.Context, loc core.Location) error
}

type Classifier struct {
	dialogs dialog.Service
	opener  Opener
	log     *zap.Logger
}

func NewClassifier(dialogs dialog.Service, opener Opener, log *zap.Logger) *Classifier {
	return &Classifier{dialogs: dialogs, opener: opener, log: log}
}

// Handle surfaces an edit failure. Invalid or dirty configuration files get a
// prompt offering to open the file; everything else is a plain notification.
func (c *Classifier) Handle(ctx context.Context, err error, configLocation core.Location) {
	if err == nil {
		return
	}
	code, ok := CodeOf(err)
	if !ok {
		code = "unknown"
	}
	observability.EditErrorsTotal.WithLabelValues(string(code)).Inc()

	switch code {
	case ErrInvalidConfiguration:
		c.askToOpen(ctx, configLocation, "Unable to write into the workspace configuration file. Please open the file to correct errors/warnings in it and try again.")
	case ErrConfigurationFileDirty:
		c.askToOpen(ctx, configLocation, "Unable to write into the workspace configuration file because the file has unsaved changes. Please save it and try again.")
	default:
		c.dialogs.Notify(ctx, dialog.SeverityError, err.Error())
	}
}

func (c *Classifier) askToOpen(ctx context.Context, configLocation core.Location, message string) {
	choice, err := c.dialogs.ShowChoice(ctx, dialog.SeverityError, message,
		[]string{ButtonOpenConfiguration, ButtonClose}, dialog.ChoiceOptions{CancelIndex: 1})
	if err != nil {
		c.log.Warn("editing: recovery prompt failed", zap.Error(err))
		return
	}
	if choice != 0 || c.opener == nil {
		return
	}
	if err := c.opener.OpenFile(ctx, configLocation); err != nil {
		c.log.Warn("editing: open configuration failed", zap.String("config", configLocation.String()), zap.Error(err))
	}
}
