package dialog

import (
	"context"

	"github.com/lzjever/mbos-wbs/internal/core"
)

type ctxKey struct{}

// WithService attaches the surface that answers prompts raised while
// handling ctx.
func WithService(ctx context.Context, s Service) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the surface attached to ctx, if any.
func FromContext(ctx context.Context) (Service, bool) {
	s, ok := ctx.Value(ctxKey{}).(Service)
	return s, ok
}

// Contextual routes each prompt to the surface attached to its context and
// falls back to a fixed surface otherwise. Long-lived components hold a
// Contextual while each request brings its own answers.
type Contextual struct {
	fallback Service
}

func NewContextual(fallback Service) *Contextual {
	return &Contextual{fallback: fallback}
}

func (c *Contextual) pick(ctx context.Context) Service {
	if s, ok := FromContext(ctx); ok {
		return s
	}
	return c.fallback
}

func (c *Contextual) ShowChoice(ctx context.Context, sev Severity, message string, buttons []string, opts ChoiceOptions) (int, error) {
	return c.pick(ctx).ShowChoice(ctx, sev, message, buttons, opts)
}

func (c *Contextual) ShowSaveLocationPicker(ctx context.Context, opts SaveOptions) (core.Location, bool, error) {
	return c.pick(ctx).ShowSaveLocationPicker(ctx, opts)
}

func (c *Contextual) Notify(ctx context.Context, sev Severity, message string) {
	c.pick(ctx).Notify(ctx, sev, message)
}
