// Package tui implements the interactive field dialog as a bubbletea program.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/example/expander/internal/models"
)

// palette holds the colour tokens of one theme.
type palette struct {
	Text   string
	Muted  string
	Accent string
	Border string
	Error  string
}

var (
	lightPalette = palette{Text: "#1f2328", Muted: "#6e7781", Accent: "#0969da", Border: "#d0d7de", Error: "#cf222e"}
	darkPalette  = palette{Text: "#e6edf3", Muted: "#8b949e", Accent: "#58a6ff", Border: "#30363d", Error: "#f85149"}
)

// Styles are the lipgloss styles of the dialog.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Value   lipgloss.Style
	Help    lipgloss.Style
	Frame   lipgloss.Style
}

// StylesForTheme builds styles for a settings theme. The auto theme follows
// the terminal background.
func StylesForTheme(theme string) Styles {
	p := lightPalette
	switch theme {
	case models.ThemeDark:
		p = darkPalette
	case models.ThemeAuto:
		if lipgloss.HasDarkBackground() {
			p = darkPalette
		}
	}
	return buildStyles(p)
}

func buildStyles(p palette) Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text)).Bold(true),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		Focused: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)).Bold(true),
		Value:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text)),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)).Italic(true),
		Frame:   lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(p.Border)).Padding(0, 1),
	}
}
