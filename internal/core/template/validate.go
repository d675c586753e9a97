package template

import (
	"fmt"
	"strings"
)

// ValidationResult is the outcome of ValidateSnippet.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// ValidateSnippet checks that a snippet has a shortcut and content and that
// every embedded command has a known type.
func ValidateSnippet(snippet Snippet) ValidationResult {
	var errs []string

	if strings.TrimSpace(snippet.Shortcut) == "" {
		errs = append(errs, "Shortcut is required")
	}
	if strings.TrimSpace(snippet.Content) == "" {
		errs = append(errs, "Content is required")
	}

	for _, cmd := range ExtractCommands(snippet.Content) {
		if cmd.Kind() == KindUnknown {
			errs = append(errs, fmt.Sprintf("Unknown command: %s", cmd.Type()))
		}
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}
