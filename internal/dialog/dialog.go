// Package dialog is the prompt surface used by workspace flows.
package dialog

import (
	"context"
	"errors"
	"fmt"

	"github.com/lzjever/mbos-wbs/internal/core"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type ChoiceOptions struct {
	Detail string
	// CancelIndex is returned when the prompt is dismissed.
	CancelIndex int
}

type Filter struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

type SaveOptions struct {
	Title           string
	Filters         []Filter
	DefaultLocation core.Location
}

type Service interface {
	ShowChoice(ctx context.Context, sev Severity, message string, buttons []string, opts ChoiceOptions) (int, error)
	// ShowSaveLocationPicker reports ok=false when no location was chosen.
	ShowSaveLocationPicker(ctx context.Context, opts SaveOptions) (loc core.Location, ok bool, err error)
	Notify(ctx context.Context, sev Severity, message string)
}

// Prompt describes a prompt that could not be answered.
type Prompt struct {
	Kind     string        `json:"kind"`
	Severity Severity      `json:"severity,omitempty"`
	Message  string        `json:"message,omitempty"`
	Detail   string        `json:"detail,omitempty"`
	Buttons  []string      `json:"buttons,omitempty"`
	Cancel   int           `json:"cancel_index,omitempty"`
	Title    string        `json:"title,omitempty"`
	Filters  []Filter      `json:"filters,omitempty"`
	Default  core.Location `json:"default_location,omitempty"`
}

const (
	PromptChoice = "choice"
	PromptSave   = "save"
)

var ErrAnswerRequired = errors.New("answer required")

// AnswerRequiredError is returned by non-interactive surfaces when a prompt
// has no preset answer.
type AnswerRequiredError struct {
	Prompt Prompt
}

func (e *AnswerRequiredError) Error() string {
	return fmt.Sprintf("%s: %s prompt %q", ErrAnswerRequired, e.Prompt.Kind, e.Prompt.Message)
}

func (e *AnswerRequiredError) Unwrap() error { return ErrAnswerRequired }

type Notification struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}
