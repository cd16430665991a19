package dialog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lzjever/mbos-wbs/internal/core"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	buttonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	severityStyles = map[Severity]lipgloss.Style{
		SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// Terminal prompts on a line-oriented terminal.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) ShowChoice(ctx context.Context, sev Severity, message string, buttons []string, opts ChoiceOptions) (int, error) {
	var b strings.Builder
	b.WriteString(severityStyles[sev].Render(strings.ToUpper(string(sev))) + " " + titleStyle.Render(message))
	if opts.Detail != "" {
		b.WriteString("\n" + detailStyle.Render(opts.Detail))
	}
	b.WriteString("\n")
	for i, label := range buttons {
		b.WriteString(fmt.Sprintf("\n  %s %s", buttonStyle.Render(fmt.Sprintf("[%d]", i+1)), label))
	}
	fmt.Fprintln(t.out, boxStyle.Render(b.String()))
	fmt.Fprint(t.out, "> ")

	line, err := t.readLine(ctx)
	if err != nil {
		if err == io.EOF {
			return opts.CancelIndex, nil
		}
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(buttons) {
		for i, label := range buttons {
			if strings.EqualFold(label, line) {
				return i, nil
			}
		}
		return opts.CancelIndex, nil
	}
	return n - 1, nil
}

// ShowSaveLocationPicker reads a path. An empty line accepts the default
// location when there is one; "-" or EOF dismisses.
func (t *Terminal) ShowSaveLocationPicker(ctx context.Context, opts SaveOptions) (core.Location, bool, error) {
	var b strings.Builder
	b.WriteString(titleStyle.Render(opts.Title))
	for _, f := range opts.Filters {
		b.WriteString("\n" + detailStyle.Render(fmt.Sprintf("%s (*.%s)", f.Name, strings.Join(f.Extensions, ", *."))))
	}
	if opts.DefaultLocation != "" {
		b.WriteString("\n" + detailStyle.Render("default: "+opts.DefaultLocation.String()))
	}
	fmt.Fprintln(t.out, boxStyle.Render(b.String()))
	fmt.Fprint(t.out, "path> ")

	line, err := t.readLine(ctx)
	if err != nil {
		if err == io.EOF {
			return "", false, nil
		}
		return "", false, err
	}
	switch line {
	case "-":
		return "", false, nil
	case "":
		if opts.DefaultLocation == "" {
			return "", false, nil
		}
		return opts.DefaultLocation, true, nil
	}
	return core.Location(line), true, nil
}

func (t *Terminal) Notify(ctx context.Context, sev Severity, message string) {
	fmt.Fprintln(t.out, severityStyles[sev].Render(strings.ToUpper(string(sev)))+" "+message)
}

func (t *Terminal) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
