package secondary

import (
	"context"
	"time"

	"github.com/example/expander/internal/core/template"
	"github.com/example/expander/internal/models"
)

// SnippetProvider is the storage collaborator of the expansion controller.
type SnippetProvider interface {
	// GetAllSnippets returns every stored snippet keyed by ID.
	GetAllSnippets(ctx context.Context) (map[string]*models.Snippet, error)

	// GetSettings returns the current settings.
	GetSettings(ctx context.Context) (*models.Settings, error)

	// RecordUsage records one successful expansion of a snippet.
	RecordUsage(ctx context.Context, id string) error
}

// ChangeKind identifies what a change notification is about.
type ChangeKind string

const (
	SnippetsUpdated ChangeKind = "SNIPPETS_UPDATED"
	SettingsUpdated ChangeKind = "SETTINGS_UPDATED"
)

// ChangeNotifier publishes and delivers change notifications.
type ChangeNotifier interface {
	// Publish signals every subscriber. It never blocks.
	Publish(kind ChangeKind)

	// Subscribe returns a channel of notifications and a function that
	// ends the subscription and closes the channel.
	Subscribe() (<-chan ChangeKind, func())
}

// Dialog collects values for interactive fields.
type Dialog interface {
	// Collect blocks until the user submits or cancels. On cancel it
	// returns ok=false and no error.
	Collect(ctx context.Context, fields []template.FormField) (values map[string]string, ok bool, err error)
}

// ClipboardReader reads the system clipboard text.
type ClipboardReader interface {
	ReadText(ctx context.Context) (string, error)
}

// TonePlayer plays a short audible confirmation.
type TonePlayer interface {
	Play(ctx context.Context, frequencyHz int, duration time.Duration) error
}

// FieldKind distinguishes the two editable field models.
type FieldKind string

const (
	// ValueFieldKind is a plain text value with a numeric selection range.
	ValueFieldKind FieldKind = "value"
	// ContentFieldKind is a rich content tree addressed by text-node offsets.
	ContentFieldKind FieldKind = "content"
)

// Field is the uniform view over an editable field.
type Field interface {
	Kind() FieldKind
	Text() string
	SetText(text string)
	// Cursor returns the caret offset in the field's own offset space.
	Cursor() int
	// SetCursor places the caret. Offsets are runes; content fields do not
	// count line breaks.
	SetCursor(offset int)
	// DispatchInput notifies listeners that the text changed.
	DispatchInput()
}
