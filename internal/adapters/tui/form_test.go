package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/expander/internal/core/template"
)

func send(t *testing.T, m formModel, keys ...tea.KeyMsg) (formModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(formModel)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var testFields = []template.FormField{
	{Type: template.KindFormText, Name: "who", Label: "Name", Default: "friend"},
	{Type: template.KindFormMenu, Name: "size", Options: []string{"S", "M", "L"}, Default: "M"},
	{Type: template.KindFormParagraph, Name: "body"},
}

func TestFormModel_StartsFromDefaults(t *testing.T) {
	m := newFormModel(testFields, StylesForTheme("light"))

	assert.Equal(t, map[string]string{"who": "friend", "size": "M", "body": ""}, m.Values())
}

func TestFormModel_EditAndSubmit(t *testing.T) {
	m := newFormModel(testFields, StylesForTheme("light"))

	m, cmd := send(t, m,
		tea.KeyMsg{Type: tea.KeyBackspace},
		runes("s"),
		tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyEnter},
		runes("line"),
		tea.KeyMsg{Type: tea.KeyEnter, Alt: true},
		tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}},
		runes("two"),
	)
	require.Nil(t, cmd)
	assert.False(t, m.submitted)

	m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.submitted)
	assert.Equal(t, map[string]string{"who": "friends", "size": "S", "body": "line\n two"}, m.Values())
}

func TestFormModel_MenuIgnoresTyping(t *testing.T) {
	m := newFormModel(testFields, StylesForTheme("light"))

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab}, runes("XL"), tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "M", m.Values()["size"])

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "L", m.Values()["size"])
}

func TestFormModel_FocusWraps(t *testing.T) {
	m := newFormModel(testFields, StylesForTheme("dark"))

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 2, m.focus)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, m.focus)
}

func TestFormModel_Quit(t *testing.T) {
	tests := []struct {
		name          string
		key           tea.KeyMsg
		wantSubmitted bool
	}{
		{"escape cancels", tea.KeyMsg{Type: tea.KeyEsc}, false},
		{"ctrl+c cancels", tea.KeyMsg{Type: tea.KeyCtrlC}, false},
		{"ctrl+s submits from any field", tea.KeyMsg{Type: tea.KeyCtrlS}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := send(t, newFormModel(testFields, StylesForTheme("light")), tt.key)
			require.NotNil(t, cmd)
			assert.Equal(t, tt.wantSubmitted, m.submitted)
			assert.Equal(t, !tt.wantSubmitted, m.cancelled)
			assert.Empty(t, m.View())
		})
	}
}

func TestFormModel_ViewShowsLabels(t *testing.T) {
	view := newFormModel(testFields, StylesForTheme("light")).View()

	assert.Contains(t, view, "Name:")
	assert.Contains(t, view, "size:")
	assert.Contains(t, view, "< M >")
}

func TestDialog_NoFieldsSubmitsImmediately(t *testing.T) {
	d := NewDialog(nil, nil, "light")

	values, ok, err := d.Collect(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, values)
}

func TestDefaults_SubmitsWithoutValues(t *testing.T) {
	values, ok, err := Defaults{}.Collect(context.Background(), testFields)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, values)
}
