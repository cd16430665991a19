package dialog

import (
	"context"
	"sync"

	"github.com/lzjever/mbos-wbs/internal/core"
)

// Preset answers prompts from values supplied up front, as an HTTP request
// does. Choices are matched by button label; single-button prompts answer
// themselves. Prompts without an answer fail with AnswerRequiredError.
type Preset struct {
	mu            sync.Mutex
	choices       []string
	saveTarget    *core.Location
	notifications []Notification
	shown         []Prompt
}

// NewPreset creates a surface that answers choices in order. A nil
// saveTarget leaves the picker unanswered; an empty one means dismissed.
func NewPreset(choices []string, saveTarget *core.Location) *Preset {
	return &Preset{choices: choices, saveTarget: saveTarget}
}

func (p *Preset) ShowChoice(ctx context.Context, sev Severity, message string, buttons []string, opts ChoiceOptions) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prompt := Prompt{Kind: PromptChoice, Severity: sev, Message: message, Detail: opts.Detail, Buttons: buttons, Cancel: opts.CancelIndex}
	p.shown = append(p.shown, prompt)

	if len(buttons) == 1 {
		return 0, nil
	}
	if len(p.choices) == 0 {
		return 0, &AnswerRequiredError{Prompt: prompt}
	}
	label := p.choices[0]
	p.choices = p.choices[1:]
	for i, b := range buttons {
		if b == label {
			return i, nil
		}
	}
	return opts.CancelIndex, nil
}

func (p *Preset) ShowSaveLocationPicker(ctx context.Context, opts SaveOptions) (core.Location, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prompt := Prompt{Kind: PromptSave, Title: opts.Title, Filters: opts.Filters, Default: opts.DefaultLocation}
	p.shown = append(p.shown, prompt)

	if p.saveTarget == nil {
		return "", false, &AnswerRequiredError{Prompt: prompt}
	}
	if *p.saveTarget == "" {
		return "", false, nil
	}
	return *p.saveTarget, true, nil
}

func (p *Preset) Notify(ctx context.Context, sev Severity, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications = append(p.notifications, Notification{Severity: sev, Message: message})
}

func (p *Preset) Notifications() []Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Notification(nil), p.notifications...)
}

// Shown lists every prompt displayed, answered or not.
func (p *Preset) Shown() []Prompt {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Prompt(nil), p.shown...)
}
