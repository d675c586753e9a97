// Package snippet contains the pure business logic for snippet storage:
// shortcut indexing, search matching and import validation.
// Guards are pure functions that evaluate preconditions without side effects.
package snippet

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
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

// SaveContext provides context for the save guard.
type SaveContext struct {
	Shortcut string
	// Problems are the template validation errors of the content.
	Problems []string
}

// CanSaveSnippet evaluates whether a snippet can be saved.
// Rules:
// - The template must validate (shortcut, content, known command types)
// - The shortcut must be a single token (no whitespace)
func CanSaveSnippet(ctx SaveContext) GuardResult {
	if len(ctx.Problems) > 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("invalid snippet: %s", strings.Join(ctx.Problems, "; ")),
		}
	}
	if strings.IndexFunc(ctx.Shortcut, unicode.IsSpace) >= 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("shortcut %q must not contain whitespace", ctx.Shortcut),
		}
	}
	return GuardResult{Allowed: true}
}

// IndexEntry is the part of a snippet the shortcut index needs.
type IndexEntry struct {
	ID        string
	Shortcut  string
	Enabled   bool
	UpdatedAt time.Time
}

// BuildIndex maps shortcuts to snippet IDs over the enabled entries.
// Shortcut collisions resolve to the most recently modified snippet; equal
// modification times fall back to the greater ID so the result is stable.
func BuildIndex(entries []IndexEntry) map[string]string {
	ordered := make([]IndexEntry, 0, len(entries))
	for _, e := range entries {
		if e.Enabled && e.Shortcut != "" {
			ordered = append(ordered, e)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].UpdatedAt.Equal(ordered[j].UpdatedAt) {
			return ordered[i].UpdatedAt.Before(ordered[j].UpdatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	index := make(map[string]string, len(ordered))
	for _, e := range ordered {
		index[e.Shortcut] = e.ID
	}
	return index
}
