package primary

import (
	"context"

	"github.com/example/expander/internal/core/expansion"
	"github.com/example/expander/internal/ports/secondary"
)

// ExpansionController defines the primary port for one document's shortcut
// expansion.
type ExpansionController interface {
	// Start loads snippets and settings and begins listening for change
	// notifications until ctx is done.
	Start(ctx context.Context) error

	// Refresh reloads snippets and settings.
	Refresh(ctx context.Context) error

	// HandleKeyDown reacts to a key-down in field. In discrete-key mode a
	// matching trigger key with a known trailing shortcut expands it.
	HandleKeyDown(ctx context.Context, field secondary.Field, code string) KeyResult

	// HandleInput reacts to an input event in field. In immediate mode a
	// known trailing shortcut expands as soon as it is typed.
	HandleInput(ctx context.Context, field secondary.Field) Outcome

	// State returns the document's expansion state.
	State() expansion.State
}

// Outcome reports what an event led to.
type Outcome string

const (
	// OutcomeIgnored means the event was not a trigger or the token did not match.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeDropped means the event arrived while an expansion was in flight
	// or the document is excluded.
	OutcomeDropped Outcome = "dropped"
	// OutcomeExpanded means the field was rewritten.
	OutcomeExpanded Outcome = "expanded"
	// OutcomeCancelled means the user dismissed the dialog.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeFailed means an error ended the attempt.
	OutcomeFailed Outcome = "failed"
)

// KeyResult is the result of a key-down.
type KeyResult struct {
	// PreventDefault is set when the trigger key must not be inserted.
	PreventDefault bool
	Outcome        Outcome
}
