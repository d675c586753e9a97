package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/expander/internal/core/template"
	"github.com/example/expander/internal/ports/secondary"
)

// Dialog collects field values in the terminal.
type Dialog struct {
	in     io.Reader
	out    io.Writer
	styles Styles
}

var _ secondary.Dialog = (*Dialog)(nil)

// NewDialog creates a dialog reading keys from in and drawing to out.
func NewDialog(in io.Reader, out io.Writer, theme string) *Dialog {
	return &Dialog{in: in, out: out, styles: StylesForTheme(theme)}
}

// Collect runs the form until the user submits or cancels.
func (d *Dialog) Collect(ctx context.Context, fields []template.FormField) (map[string]string, bool, error) {
	if len(fields) == 0 {
		return map[string]string{}, true, nil
	}

	prog := tea.NewProgram(
		newFormModel(fields, d.styles),
		tea.WithContext(ctx),
		tea.WithInput(d.in),
		tea.WithOutput(d.out),
	)
	final, err := prog.Run()
	if err != nil {
		return nil, false, fmt.Errorf("field dialog failed: %w", err)
	}

	m, ok := final.(formModel)
	if !ok || !m.submitted {
		return nil, false, nil
	}
	return m.Values(), true, nil
}

// Defaults submits every field at its default without asking.
type Defaults struct{}

// Collect returns no values, so every field renders its default.
func (Defaults) Collect(context.Context, []template.FormField) (map[string]string, bool, error) {
	return map[string]string{}, true, nil
}
