package expansion

import "fmt"

// State is the expansion state of one document.
type State string

const (
	StateIdle      State = "idle"
	StateExpanding State = "expanding"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// BeginContext provides context for the begin-expansion guard.
type BeginContext struct {
	State    State
	Excluded bool // document host is on the excluded list
}

// CanBeginExpansion evaluates whether an event may start an expansion.
// Rules:
// - The document must not be excluded
// - No expansion may be in flight (events are dropped, not queued)
func CanBeginExpansion(ctx BeginContext) GuardResult {
	if ctx.Excluded {
		return GuardResult{Allowed: false, Reason: "expansion disabled on this site"}
	}
	if ctx.State == StateExpanding {
		return GuardResult{Allowed: false, Reason: "expansion already in progress"}
	}
	return GuardResult{Allowed: true}
}

// LookupContext provides context for the snippet lookup guard.
type LookupContext struct {
	Shortcut string
	Found    bool
	Enabled  bool
}

// CanExpandSnippet evaluates whether a looked-up snippet may be expanded.
// Rules:
// - The shortcut must be non-empty
// - A snippet must be bound to it
// - The snippet must be enabled
func CanExpandSnippet(ctx LookupContext) GuardResult {
	if ctx.Shortcut == "" {
		return GuardResult{Allowed: false, Reason: "no shortcut"}
	}
	if !ctx.Found {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("no snippet for shortcut %q", ctx.Shortcut)}
	}
	if !ctx.Enabled {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("snippet for shortcut %q is disabled", ctx.Shortcut)}
	}
	return GuardResult{Allowed: true}
}
