package template

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type stubClipboard struct {
	text string
	err  error
}

func (s stubClipboard) ReadText(ctx context.Context) (string, error) {
	return s.text, s.err
}

func newTestEngine(opts ...Option) *Engine {
	return NewEngine(append([]Option{WithClock(fixedClock)}, opts...)...)
}

func TestProcess_NoCommandsReturnsContentVerbatim(t *testing.T) {
	e := newTestEngine()
	for _, content := range []string{"", "Thanks!", "multi\nline }text", "trailing {"} {
		res := e.Process(context.Background(), Snippet{Shortcut: "/x", Content: content}, nil)
		assert.Equal(t, content, res.Content)
		assert.False(t, res.NeedsUserInput)
		assert.Empty(t, res.Commands)
	}
}

func TestProcess_TimeCommand(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		content string
		want    string
	}{
		{"{time: YYYY-MM-DD}", "2024-03-05"},
		{"{time}", "2024-03-05"},
		{"{time: MMMM DD, YYYY}", "March 05, 2024"},
		{"{time:format=D/M/YY}", "5/3/24"},
		{"Today is {time: dddd}", "Today is Tuesday"},
		{"{time: hh:mm A}", "12:00 AM"},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			res := e.Process(context.Background(), Snippet{Content: tt.content}, nil)
			assert.False(t, res.NeedsUserInput)
			assert.Equal(t, tt.want, res.Content)
		})
	}
}

func TestProcess_InteractiveNeedsInput(t *testing.T) {
	e := newTestEngine()
	snippet := Snippet{Shortcut: "/hi", Content: "Hi {formtext:name=who;default=friend}"}

	res := e.Process(context.Background(), snippet, nil)
	require.True(t, res.NeedsUserInput)
	assert.Equal(t, snippet.Content, res.Content)
	require.Len(t, res.Commands, 1)

	fields := FieldsFromCommands(res.Commands)
	require.Len(t, fields, 1)
	assert.Equal(t, KindFormText, fields[0].Type)
	assert.Equal(t, "who", fields[0].Name)
	assert.Equal(t, "friend", fields[0].Default)

	final := e.Process(context.Background(), snippet, map[string]string{"who": "Sam"})
	assert.False(t, final.NeedsUserInput)
	assert.Equal(t, "Hi Sam", final.Content)
}

func TestProcess_InteractiveDetectionIsIdempotent(t *testing.T) {
	e := newTestEngine()
	snippet := Snippet{Content: "{formtext:name=a} {formmenu:name=b;options=x,y} {formtext:name=a} {time}"}

	first := e.Process(context.Background(), snippet, map[string]string{})
	second := e.Process(context.Background(), snippet, map[string]string{})

	assert.Equal(t, first.NeedsUserInput, second.NeedsUserInput)
	assert.Equal(t, first.Commands, second.Commands)
	// Duplicate raw text collapses to one command.
	assert.Len(t, first.Commands, 2)
}

func TestProcess_RepeatedCommandReplacesEveryOccurrence(t *testing.T) {
	e := newTestEngine()
	snippet := Snippet{Content: "{formtext:name=n} and {formtext:name=n}"}

	res := e.Process(context.Background(), snippet, map[string]string{"n": "Bo"})
	assert.Equal(t, "Bo and Bo", res.Content)
}

func TestProcess_BoundValuesAreNotRescanned(t *testing.T) {
	e := newTestEngine()
	snippet := Snippet{Content: "[{formtext:name=n}]"}

	res := e.Process(context.Background(), snippet, map[string]string{"n": "{time}"})
	assert.Equal(t, "[{time}]", res.Content)
}

func TestProcess_Defaults(t *testing.T) {
	e := newTestEngine()
	vars := map[string]string{"unrelated": "x"}

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"formtext default", "{formtext:name=a;default=hello}", "hello"},
		{"formtext no default", "<{formtext}>", "<>"},
		{"formdate today", "{formdate:name=d}", "2024-03-05"},
		{"formdate explicit default", "{formdate:default=tomorrow}", "tomorrow"},
		{"formmenu first option", "{formmenu:name=m;options= red , green}", "red"},
		{"formmenu no options", "<{formmenu:name=m}>", "<>"},
		{"formparagraph default", "{formparagraph:default=line}", "line"},
		{"unknown kept raw", "{bogus: x=1}", "{bogus: x=1}"},
		{"cursor sentinel", "A{cursor}B", "A" + CursorSentinel + "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Process(context.Background(), Snippet{Content: tt.content}, vars)
			assert.Equal(t, tt.want, res.Content)
		})
	}
}

func TestProcess_EmptyBindingFallsBackToDefault(t *testing.T) {
	e := newTestEngine()
	res := e.Process(context.Background(),
		Snippet{Content: "{formtext:name=who;default=friend}"},
		map[string]string{"who": ""})
	assert.Equal(t, "friend", res.Content)
}

func TestProcess_DefaultNamesPerKind(t *testing.T) {
	e := newTestEngine()
	snippet := Snippet{Content: "{formtext}|{formdate}|{formmenu:options=a,b}|{formparagraph}"}
	vars := map[string]string{"input": "t", "date": "d", "menu": "b", "paragraph": "p"}

	res := e.Process(context.Background(), snippet, vars)
	assert.Equal(t, "t|d|b|p", res.Content)

	names := []string{}
	for _, f := range GetFormFields(snippet) {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"input", "date", "menu", "paragraph"}, names)
}

func TestProcess_Clipboard(t *testing.T) {
	snippet := Snippet{Content: "pasted: {clipboard}"}

	ok := newTestEngine(WithClipboard(stubClipboard{text: "abc"}))
	assert.Equal(t, "pasted: abc", ok.Process(context.Background(), snippet, nil).Content)

	failing := newTestEngine(WithClipboard(stubClipboard{err: errors.New("denied")}))
	assert.Equal(t, "pasted: "+ClipboardFallback, failing.Process(context.Background(), snippet, nil).Content)

	none := newTestEngine()
	assert.Equal(t, "pasted: "+ClipboardFallback, none.Process(context.Background(), snippet, nil).Content)

	deferred := newTestEngine(WithDeferredClipboard(), WithClipboard(stubClipboard{text: "abc"}))
	assert.Equal(t, "pasted: "+ClipboardSentinel, deferred.Process(context.Background(), snippet, nil).Content)
}

func TestPreview_UsesDefaults(t *testing.T) {
	e := newTestEngine()
	got := e.Preview(context.Background(), Snippet{Content: "Dear {formtext:name=n;default=Sir}, {time: YYYY}"})
	assert.Equal(t, "Dear Sir, 2024", got)
}

func TestParseCommand(t *testing.T) {
	cmd := ParseCommand(" formmenu : name=size ; options=S,M,L ")
	menu, ok := cmd.(FormMenuCommand)
	require.True(t, ok)
	assert.Equal(t, "formmenu", menu.Type())
	assert.Equal(t, "{ formmenu : name=size ; options=S,M,L }", menu.Raw())
	assert.Equal(t, "size", menu.Name)
	assert.Equal(t, []string{"S", "M", "L"}, menu.Options)

	bare := ParseCommand("cursor")
	assert.Equal(t, KindCursor, bare.Kind())
	assert.Empty(t, bare.Settings())

	unknown := ParseCommand("weather: city=Oslo")
	assert.Equal(t, KindUnknown, unknown.Kind())
	assert.Equal(t, "weather", unknown.Type())
}

func TestExtractCommands_FirstBraceCloses(t *testing.T) {
	cmds := ExtractCommands("x {a{b}c} {time}")
	require.Len(t, cmds, 2)
	assert.Equal(t, "{a{b}", cmds[0].Raw())
	assert.Equal(t, "a{b", cmds[0].Type())
	assert.Equal(t, "{time}", cmds[1].Raw())
}

func TestParseSettings(t *testing.T) {
	tests := []struct {
		in   string
		want Settings
	}{
		{"", nil},
		{"YYYY-MM-DD", Settings{{"format", "YYYY-MM-DD"}}},
		{"name=a;default=x=y", Settings{{"name", "a"}, {"default", "x=y"}}},
		{"name=a;stray;label=L", Settings{{"name", "a"}, {"label", "L"}}},
		{" ; name = a ;; ", Settings{{"name", "a"}}},
		{";orphan", nil},
		{"name=a;name=b", Settings{{"name", "b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSettings(tt.in))
		})
	}
}

func TestComposeSettings_RoundTrip(t *testing.T) {
	cases := []Settings{
		{{"name", "who"}, {"default", "friend"}},
		{{"format", "YYYY"}},
		{{"options", "a,b,c"}, {"label", "Pick one"}},
	}
	for _, s := range cases {
		assert.Equal(t, s, ParseSettings(ComposeSettings(s)))
	}
}

func TestValidateSnippet(t *testing.T) {
	tests := []struct {
		name    string
		snippet Snippet
		valid   bool
		errors  []string
	}{
		{"valid", Snippet{Shortcut: "/ty", Content: "Thanks {time}"}, true, nil},
		{"blank shortcut", Snippet{Shortcut: "  ", Content: "x"}, false, []string{"Shortcut is required"}},
		{"blank content", Snippet{Shortcut: "/a", Content: "\n"}, false, []string{"Content is required"}},
		{"unknown command", Snippet{Shortcut: "/a", Content: "{nope}"}, false, []string{"Unknown command: nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateSnippet(tt.snippet)
			assert.Equal(t, tt.valid, res.IsValid)
			assert.Equal(t, tt.errors, res.Errors)
		})
	}
}

func TestGetFormFields(t *testing.T) {
	fields := GetFormFields(Snippet{Content: "{formmenu:name=size;label=Size;options=S,M} {formtext:placeholder=type here} {cursor}"})
	require.Len(t, fields, 2)

	assert.Equal(t, FormField{
		Type:    KindFormMenu,
		Name:    "size",
		Label:   "Size",
		Options: []string{"S", "M"},
	}, fields[0])
	assert.Equal(t, FormField{
		Type:        KindFormText,
		Name:        "input",
		Label:       "input",
		Placeholder: "type here",
	}, fields[1])
}

func TestFormatDate(t *testing.T) {
	at := time.Date(2023, time.December, 9, 15, 4, 7, 0, time.UTC)

	tests := []struct {
		format string
		want   string
	}{
		{"YYYY-MM-DD HH:mm:ss", "2023-12-09 15:04:07"},
		{"ddd, MMM D", "Sat, Dec 9"},
		{"h:m:s a", "3:4:7 pm"},
		{"MMMM", "December"},
		{"A", "PM"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(at, tt.format))
		})
	}
}
