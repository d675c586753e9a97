package snippet

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports every structural problem found in import data.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid backup format: %s", strings.Join(e.Problems, "; "))
}

// BackupSnippet is the part of an imported snippet that is checked.
type BackupSnippet struct {
	Key      string // map key in the backup document
	Shortcut string
	Content  string
}

// BackupContext provides context for import validation.
type BackupContext struct {
	Version     string
	HasSnippets bool // the snippets member is present
	Snippets    []BackupSnippet
}

// ValidateBackup checks import data before anything is written.
// Rules:
// - A version is required
// - A snippets member is required (it may be empty)
// - Every snippet needs a non-blank shortcut and content
func ValidateBackup(ctx BackupContext) error {
	var problems []string

	if strings.TrimSpace(ctx.Version) == "" {
		problems = append(problems, "missing version")
	}
	if !ctx.HasSnippets {
		problems = append(problems, "missing snippets")
	}

	snippets := append([]BackupSnippet(nil), ctx.Snippets...)
	sort.Slice(snippets, func(i, j int) bool { return snippets[i].Key < snippets[j].Key })
	for _, s := range snippets {
		if strings.TrimSpace(s.Shortcut) == "" {
			problems = append(problems, fmt.Sprintf("snippet %s: missing shortcut", s.Key))
		}
		if strings.TrimSpace(s.Content) == "" {
			problems = append(problems, fmt.Sprintf("snippet %s: missing content", s.Key))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
