package dialog

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lzjever/mbos-wbs/internal/core"
)

func TestPreset_ChoiceByLabel(t *testing.T) {
	ctx := context.Background()
	p := NewPreset([]string{"Don't Save"}, nil)
	idx, err := p.ShowChoice(ctx, SeverityWarning, "save?", []string{"Save", "Don't Save", "Cancel"}, ChoiceOptions{CancelIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestPreset_UnknownLabelIsCancel(t *testing.T) {
	p := NewPreset([]string{"Maybe"}, nil)
	idx, err := p.ShowChoice(context.Background(), SeverityWarning, "save?", []string{"Save", "Cancel"}, ChoiceOptions{CancelIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestPreset_MissingAnswer(t *testing.T) {
	ctx := context.Background()
	p := NewPreset(nil, nil)

	_, err := p.ShowChoice(ctx, SeverityWarning, "save?", []string{"Save", "Cancel"}, ChoiceOptions{CancelIndex: 1})
	var are *AnswerRequiredError
	require.True(t, errors.As(err, &are))
	assert.Equal(t, PromptChoice, are.Prompt.Kind)
	assert.Equal(t, []string{"Save", "Cancel"}, are.Prompt.Buttons)

	_, _, err = p.ShowSaveLocationPicker(ctx, SaveOptions{Title: "Save Workspace"})
	assert.ErrorIs(t, err, ErrAnswerRequired)

	idx, err := p.ShowChoice(ctx, SeverityWarning, "already open", []string{"OK"}, ChoiceOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Len(t, p.Shown(), 3)
}

func TestPreset_SavePicker(t *testing.T) {
	target := core.Location("/tmp/a.code-workspace")
	loc, ok, err := NewPreset(nil, &target).ShowSaveLocationPicker(context.Background(), SaveOptions{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, target, loc)

	empty := core.Location("")
	_, ok, err = NewPreset(nil, &empty).ShowSaveLocationPicker(context.Background(), SaveOptions{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTerminal_Choice(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("2\n"), &out)
	idx, err := term.ShowChoice(context.Background(), SeverityWarning, "Save workspace?", []string{"Save", "Don't Save", "Cancel"}, ChoiceOptions{CancelIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Contains(t, out.String(), "Don't Save")
}

func TestTerminal_ChoiceEOFCancels(t *testing.T) {
	term := NewTerminal(strings.NewReader(""), &bytes.Buffer{})
	idx, err := term.ShowChoice(context.Background(), SeverityWarning, "Save?", []string{"Save", "Cancel"}, ChoiceOptions{CancelIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestTerminal_SavePicker(t *testing.T) {
	ctx := context.Background()
	opts := SaveOptions{Title: "Save Workspace", DefaultLocation: "/home/u/ws.code-workspace"}

	loc, ok, err := NewTerminal(strings.NewReader("\n"), &bytes.Buffer{}).ShowSaveLocationPicker(ctx, opts)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, opts.DefaultLocation, loc)

	_, ok, err = NewTerminal(strings.NewReader("-\n"), &bytes.Buffer{}).ShowSaveLocationPicker(ctx, opts)
	require.NoError(t, err)
	assert.False(t, ok)

	loc, ok, err = NewTerminal(strings.NewReader("/x/y.code-workspace"), &bytes.Buffer{}).ShowSaveLocationPicker(ctx, opts)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, core.Location("/x/y.code-workspace"), loc)
}

func TestContextual_RoutesByContext(t *testing.T) {
	fallback := NewPreset(nil, nil)
	perRequest := NewPreset([]string{"Cancel"}, nil)
	c := NewContextual(fallback)

	ctx := WithService(context.Background(), perRequest)
	idx, err := c.ShowChoice(ctx, SeverityWarning, "q", []string{"Save", "Cancel"}, ChoiceOptions{CancelIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	c.Notify(context.Background(), SeverityInfo, "hello")
	assert.Len(t, fallback.Notifications(), 1)
	assert.Empty(t, perRequest.Notifications())
}
