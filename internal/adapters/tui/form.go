package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/expander/internal/core/template"
)

// formModel edits one value per field. Menu fields cycle through their
// options; every other kind is free text.
type formModel struct {
	fields    []template.FormField
	values    []string
	choices   []int
	focus     int
	submitted bool
	cancelled bool
	styles    Styles
}

func newFormModel(fields []template.FormField, styles Styles) formModel {
	m := formModel{
		fields:  fields,
		values:  make([]string, len(fields)),
		choices: make([]int, len(fields)),
		styles:  styles,
	}
	for i, f := range fields {
		m.values[i] = f.Default
		if f.Type == template.KindFormMenu && len(f.Options) > 0 {
			for j, opt := range f.Options {
				if opt == f.Default {
					m.choices[i] = j
				}
			}
			m.values[i] = f.Options[m.choices[i]]
		}
	}
	return m
}

func (m formModel) Init() tea.Cmd {
	return nil
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.fields) == 0 {
		return m, nil
	}

	switch key.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyCtrlS:
		m.submitted = true
		return m, tea.Quit
	case tea.KeyEnter:
		if key.Alt && m.current().Type == template.KindFormParagraph {
			m.values[m.focus] += "\n"
			return m, nil
		}
		if m.focus == len(m.fields)-1 {
			m.submitted = true
			return m, tea.Quit
		}
		m.focus++
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % len(m.fields)
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + len(m.fields) - 1) % len(m.fields)
	case tea.KeyLeft:
		m.cycle(-1)
	case tea.KeyRight:
		m.cycle(1)
	case tea.KeyBackspace:
		if m.current().Type != template.KindFormMenu {
			r := []rune(m.values[m.focus])
			if len(r) > 0 {
				m.values[m.focus] = string(r[:len(r)-1])
			}
		}
	case tea.KeyRunes, tea.KeySpace:
		if m.current().Type != template.KindFormMenu {
			m.values[m.focus] += string(key.Runes)
		}
	}
	return m, nil
}

func (m formModel) current() template.FormField {
	return m.fields[m.focus]
}

func (m *formModel) cycle(step int) {
	f := m.current()
	if f.Type != template.KindFormMenu || len(f.Options) == 0 {
		return
	}
	n := len(f.Options)
	m.choices[m.focus] = (m.choices[m.focus] + step + n) % n
	m.values[m.focus] = f.Options[m.choices[m.focus]]
}

// Values returns the submitted values keyed by field name.
func (m formModel) Values() map[string]string {
	out := make(map[string]string, len(m.fields))
	for i, f := range m.fields {
		out[f.Name] = m.values[i]
	}
	return out
}

func (m formModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Fill in snippet fields"))
	b.WriteString("\n\n")

	for i, f := range m.fields {
		label := f.Label
		if label == "" {
			label = f.Name
		}

		value := m.values[i]
		switch {
		case f.Type == template.KindFormMenu:
			value = fmt.Sprintf("< %s >", value)
		case value == "" && f.Placeholder != "":
			value = m.styles.Label.Render(f.Placeholder)
		}

		marker := "  "
		labelStyle := m.styles.Label
		if i == m.focus {
			marker = "> "
			labelStyle = m.styles.Focused
		}
		b.WriteString(marker + labelStyle.Render(label+":") + " " + m.styles.Value.Render(value) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("tab next • ←/→ choose • enter submit • esc cancel"))
	return m.styles.Frame.Render(b.String())
}
