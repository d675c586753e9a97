package template

import (
	"context"
	"time"
)

// Sentinels left in rendered content for the expansion controller to resolve.
const (
	CursorSentinel    = "{{CURSOR_POSITION}}"
	ClipboardSentinel = "{{CLIPBOARD_CONTENT}}"
	// ClipboardFallback replaces {clipboard} when the clipboard cannot be read.
	ClipboardFallback = "[Clipboard content]"
)

// Snippet is the engine's view of a stored snippet.
// The caller copies shortcut and content in; the engine never mutates it.
type Snippet struct {
	Shortcut string
	Content  string
}

// ClipboardReader reads the system clipboard text.
type ClipboardReader interface {
	ReadText(ctx context.Context) (string, error)
}

// ExpansionResult is the outcome of a Process call.
// Commands is only set when interactive fields are still unresolved.
type ExpansionResult struct {
	Content        string
	NeedsUserInput bool
	Commands       []Command
}

// Engine renders snippet content.
type Engine struct {
	now               func() time.Time
	clipboard         ClipboardReader
	deferredClipboard bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used by {time} and formdate defaults.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithClipboard sets the reader used to resolve {clipboard}.
func WithClipboard(r ClipboardReader) Option {
	return func(e *Engine) { e.clipboard = r }
}

// WithDeferredClipboard makes {clipboard} render as ClipboardSentinel so the
// clipboard is read at insertion time instead of render time.
func WithDeferredClipboard() Option {
	return func(e *Engine) { e.deferredClipboard = true }
}

// NewEngine creates an Engine. Without a clipboard reader {clipboard}
// renders as ClipboardFallback.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process parses snippet content and renders it with vars.
//
// When the content holds interactive commands and vars is empty, the content
// is returned unrendered with the deduplicated interactive commands; the caller
// collects bindings and calls Process again. Content is re-parsed on every
// call.
func (e *Engine) Process(ctx context.Context, snippet Snippet, vars map[string]string) ExpansionResult {
	content := snippet.Content
	commands := ExtractCommands(content)
	if len(commands) == 0 {
		return ExpansionResult{Content: content}
	}

	interactive := InteractiveCommands(commands)
	if len(interactive) > 0 && len(vars) == 0 {
		return ExpansionResult{
			Content:        content,
			NeedsUserInput: true,
			Commands:       interactive,
		}
	}

	return ExpansionResult{Content: e.render(ctx, content, vars)}
}

// Preview renders the snippet with every interactive field at its default.
func (e *Engine) Preview(ctx context.Context, snippet Snippet) string {
	return e.render(ctx, snippet.Content, nil)
}

// render substitutes every command in one pass over content. Each distinct
// raw text is resolved once, on first encounter, and all of its occurrences
// take that value. Resolved values are not scanned for further commands.
func (e *Engine) render(ctx context.Context, content string, vars map[string]string) string {
	resolved := make(map[string]string)
	return commandPattern.ReplaceAllStringFunc(content, func(raw string) string {
		if v, ok := resolved[raw]; ok {
			return v
		}
		cmd := parseCommand(raw[1:len(raw)-1], raw)
		v := e.resolve(ctx, cmd, vars)
		resolved[raw] = v
		return v
	})
}

// resolve computes the replacement text for a single command.
func (e *Engine) resolve(ctx context.Context, cmd Command, vars map[string]string) string {
	switch c := cmd.(type) {
	case TimeCommand:
		return FormatDate(e.now(), c.Format)
	case FormTextCommand:
		return bound(vars, c.Name, c.Default)
	case FormParagraphCommand:
		return bound(vars, c.Name, c.Default)
	case FormDateCommand:
		def := c.Default
		if def == "" {
			def = FormatDate(e.now(), DefaultDateFormat)
		}
		return bound(vars, c.Name, def)
	case FormMenuCommand:
		def := ""
		if len(c.Options) > 0 {
			def = c.Options[0]
		}
		return bound(vars, c.Name, def)
	case ClipboardCommand:
		return e.readClipboard(ctx)
	case CursorCommand:
		return CursorSentinel
	default:
		return cmd.Raw()
	}
}

func (e *Engine) readClipboard(ctx context.Context) string {
	if e.deferredClipboard {
		return ClipboardSentinel
	}
	if e.clipboard == nil {
		return ClipboardFallback
	}
	text, err := e.clipboard.ReadText(ctx)
	if err != nil {
		return ClipboardFallback
	}
	return text
}

// bound returns vars[name] when it is set and non-empty, def otherwise.
func bound(vars map[string]string, name, def string) string {
	if v := vars[name]; v != "" {
		return v
	}
	return def
}

// InteractiveCommands returns the interactive commands, deduplicated by raw
// text, in source order.
func InteractiveCommands(commands []Command) []Command {
	seen := make(map[string]bool)
	var out []Command
	for _, cmd := range commands {
		if !cmd.Kind().Interactive() || seen[cmd.Raw()] {
			continue
		}
		seen[cmd.Raw()] = true
		out = append(out, cmd)
	}
	return out
}
