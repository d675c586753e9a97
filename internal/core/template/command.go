// Package template contains the snippet template engine.
// This is part of the Functional Core - parsing and rendering are pure functions;
// the clock and the clipboard are injected so rendering stays deterministic in tests.
package template

// Kind identifies one of the closed set of command kinds.
type Kind string

const (
	KindTime          Kind = "time"
	KindFormText      Kind = "formtext"
	KindFormDate      Kind = "formdate"
	KindFormMenu      Kind = "formmenu"
	KindFormParagraph Kind = "formparagraph"
	KindClipboard     Kind = "clipboard"
	KindCursor        Kind = "cursor"
	// KindUnknown marks a command whose type has no processor.
	KindUnknown Kind = ""
)

// Interactive reports whether commands of this kind need a user-supplied value.
func (k Kind) Interactive() bool {
	switch k {
	case KindFormText, KindFormDate, KindFormMenu, KindFormParagraph:
		return true
	default:
		return false
	}
}

// Command is an embedded directive parsed out of snippet content.
// The set of implementations is closed: see the variants below.
type Command interface {
	// Kind returns the command kind (KindUnknown for unrecognised types).
	Kind() Kind
	// Type returns the type text exactly as written (trimmed).
	Type() string
	// Raw returns the exact braced text matched in the content.
	Raw() string
	// Settings returns the parsed settings in source order.
	Settings() Settings

	isCommand()
}

type base struct {
	typ      string
	raw      string
	settings Settings
}

func (b base) Type() string       { return b.typ }
func (b base) Raw() string        { return b.raw }
func (b base) Settings() Settings { return b.settings }
func (b base) isCommand()         {}

// TimeCommand renders the current time through the date-format tokens.
type TimeCommand struct {
	base
	Format string
}

func (TimeCommand) Kind() Kind { return KindTime }

// FormInput carries the settings shared by the interactive field kinds.
type FormInput struct {
	Name        string
	Default     string
	Label       string
	Placeholder string
}

// FormTextCommand asks for a single line of text.
type FormTextCommand struct {
	base
	FormInput
}

func (FormTextCommand) Kind() Kind { return KindFormText }

// FormDateCommand asks for a date.
type FormDateCommand struct {
	base
	FormInput
}

func (FormDateCommand) Kind() Kind { return KindFormDate }

// FormParagraphCommand asks for multi-line text.
type FormParagraphCommand struct {
	base
	FormInput
}

func (FormParagraphCommand) Kind() Kind { return KindFormParagraph }

// FormMenuCommand asks the user to pick one of Options.
type FormMenuCommand struct {
	base
	FormInput
	Options []string
}

func (FormMenuCommand) Kind() Kind { return KindFormMenu }

// ClipboardCommand inserts the system clipboard text.
type ClipboardCommand struct {
	base
}

func (ClipboardCommand) Kind() Kind { return KindClipboard }

// CursorCommand marks where the caret goes after insertion.
type CursorCommand struct {
	base
}

func (CursorCommand) Kind() Kind { return KindCursor }

// UnknownCommand is a braced directive whose type has no processor.
// It renders as its raw text.
type UnknownCommand struct {
	base
}

func (UnknownCommand) Kind() Kind { return KindUnknown }

// Default field names used when a form command has no name setting.
const (
	defaultTextName      = "input"
	defaultDateName      = "date"
	defaultMenuName      = "menu"
	defaultParagraphName = "paragraph"
)

// newCommand builds the variant matching typ from its parsed settings.
func newCommand(typ, raw string, settings Settings) Command {
	b := base{typ: typ, raw: raw, settings: settings}

	switch Kind(typ) {
	case KindTime:
		format := settings.Get("format")
		if format == "" {
			format = DefaultDateFormat
		}
		return TimeCommand{base: b, Format: format}
	case KindFormText:
		return FormTextCommand{base: b, FormInput: formInput(settings, defaultTextName)}
	case KindFormDate:
		return FormDateCommand{base: b, FormInput: formInput(settings, defaultDateName)}
	case KindFormParagraph:
		return FormParagraphCommand{base: b, FormInput: formInput(settings, defaultParagraphName)}
	case KindFormMenu:
		return FormMenuCommand{
			base:      b,
			FormInput: formInput(settings, defaultMenuName),
			Options:   splitOptions(settings.Get("options")),
		}
	case KindClipboard:
		return ClipboardCommand{base: b}
	case KindCursor:
		return CursorCommand{base: b}
	default:
		return UnknownCommand{base: b}
	}
}

func formInput(settings Settings, defaultName string) FormInput {
	name := settings.Get("name")
	if name == "" {
		name = defaultName
	}
	return FormInput{
		Name:        name,
		Default:     settings.Get("default"),
		Label:       settings.Get("label"),
		Placeholder: settings.Get("placeholder"),
	}
}

// formInputOf returns the shared form settings of an interactive command.
func formInputOf(cmd Command) (FormInput, bool) {
	switch c := cmd.(type) {
	case FormTextCommand:
		return c.FormInput, true
	case FormDateCommand:
		return c.FormInput, true
	case FormParagraphCommand:
		return c.FormInput, true
	case FormMenuCommand:
		return c.FormInput, true
	default:
		return FormInput{}, false
	}
}
