// Package cli provides thin CLI adapters that translate between CLI concerns
// and the snippet service. Adapters handle output formatting but delegate
// business logic to the service.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/expander/internal/core/template"
	"github.com/example/expander/internal/models"
	"github.com/example/expander/internal/ports/primary"
)

// SnippetAdapter translates CLI operations to SnippetService calls.
type SnippetAdapter struct {
	service primary.SnippetService
	out     io.Writer
}

// NewSnippetAdapter creates a new SnippetAdapter with the given service.
func NewSnippetAdapter(service primary.SnippetService, out io.Writer) *SnippetAdapter {
	return &SnippetAdapter{
		service: service,
		out:     out,
	}
}

var (
	okMark       = color.New(color.FgGreen).Sprint("✓")
	enabledMark  = color.New(color.FgGreen).Sprint("on")
	disabledMark = color.New(color.FgRed).Sprint("off")
)

// SnippetInput carries the fields of a new snippet.
type SnippetInput struct {
	Shortcut    string
	Content     string
	Description string
	Folder      string
	Tags        []string
	Disabled    bool
}

// Add creates a snippet.
func (a *SnippetAdapter) Add(ctx context.Context, in SnippetInput) (*models.Snippet, error) {
	saved, err := a.service.SaveSnippet(ctx, &models.Snippet{
		Shortcut:    in.Shortcut,
		Content:     in.Content,
		Description: in.Description,
		Folder:      in.Folder,
		Tags:        in.Tags,
		ContentType: models.ContentTypeText,
		Enabled:     !in.Disabled,
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "%s Created snippet %s: %s\n", okMark, saved.ID, saved.Shortcut)
	return saved, nil
}

// SnippetChanges holds the fields to replace on edit. Nil members are kept.
type SnippetChanges struct {
	Shortcut    *string
	Content     *string
	Description *string
	Folder      *string
	Tags        []string
	ReplaceTags bool
}

// Edit applies changes to the snippet named by ref.
func (a *SnippetAdapter) Edit(ctx context.Context, ref string, changes SnippetChanges) error {
	snip, err := a.Resolve(ctx, ref)
	if err != nil {
		return err
	}

	if changes.Shortcut == nil && changes.Content == nil && changes.Description == nil &&
		changes.Folder == nil && !changes.ReplaceTags {
		return fmt.Errorf("nothing to change")
	}

	if changes.Shortcut != nil {
		snip.Shortcut = *changes.Shortcut
	}
	if changes.Content != nil {
		snip.Content = *changes.Content
	}
	if changes.Description != nil {
		snip.Description = *changes.Description
	}
	if changes.Folder != nil {
		snip.Folder = *changes.Folder
	}
	if changes.ReplaceTags {
		snip.Tags = changes.Tags
	}

	if _, err := a.service.SaveSnippet(ctx, snip); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Snippet %s updated\n", okMark, snip.Shortcut)
	return nil
}

// List lists snippets.
func (a *SnippetAdapter) List(ctx context.Context, filters primary.SnippetFilters) error {
	snippets, err := a.service.ListSnippets(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list snippets: %w", err)
	}
	a.writeTable(snippets)
	return nil
}

// Search lists the enabled snippets matching query, most used first.
func (a *SnippetAdapter) Search(ctx context.Context, query string) error {
	snippets, err := a.service.SearchSnippets(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to search snippets: %w", err)
	}
	a.writeTable(snippets)
	return nil
}

func (a *SnippetAdapter) writeTable(snippets []*models.Snippet) {
	if len(snippets) == 0 {
		fmt.Fprintln(a.out, "No snippets found")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SHORTCUT\tSTATE\tFOLDER\tUSES\tCONTENT")
	fmt.Fprintln(w, "--------\t-----\t------\t----\t-------")
	for _, s := range snippets {
		state := enabledMark
		if !s.Enabled {
			state = disabledMark
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", s.Shortcut, state, s.Folder, s.UseCount, excerpt(s.Content, 40))
	}
	w.Flush()
}

// Show displays details for a single snippet.
func (a *SnippetAdapter) Show(ctx context.Context, ref string) (*models.Snippet, error) {
	s, err := a.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nSnippet: %s\n", s.ID)
	fmt.Fprintf(a.out, "Shortcut: %s\n", s.Shortcut)
	if s.Description != "" {
		fmt.Fprintf(a.out, "Description: %s\n", s.Description)
	}
	if s.Folder != "" {
		fmt.Fprintf(a.out, "Folder: %s\n", s.Folder)
	}
	if len(s.Tags) > 0 {
		fmt.Fprintf(a.out, "Tags: %s\n", strings.Join(s.Tags, ", "))
	}
	state := enabledMark
	if !s.Enabled {
		state = disabledMark
	}
	fmt.Fprintf(a.out, "Enabled: %s\n", state)
	fmt.Fprintf(a.out, "Uses: %d\n", s.UseCount)
	if s.LastUsed != nil {
		fmt.Fprintf(a.out, "Last used: %s\n", s.LastUsed.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(a.out, "Modified: %s\n", s.UpdatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(a.out, "\n%s\n\n", s.Content)

	settings, err := a.service.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings.ShowPreview {
		preview, err := a.service.PreviewSnippet(ctx, s)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(a.out, "Preview:\n%s\n\n", preview)
	}

	return s, nil
}

// Delete deletes the snippet named by ref.
func (a *SnippetAdapter) Delete(ctx context.Context, ref string) error {
	s, err := a.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	if err := a.service.DeleteSnippet(ctx, s.ID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Deleted snippet %s: %s\n", okMark, s.ID, s.Shortcut)
	return nil
}

// SetEnabled enables or disables the snippet named by ref.
func (a *SnippetAdapter) SetEnabled(ctx context.Context, ref string, enabled bool) error {
	s, err := a.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	if err := a.service.SetEnabled(ctx, s.ID, enabled); err != nil {
		return err
	}

	verb := "enabled"
	if !enabled {
		verb = "disabled"
	}
	fmt.Fprintf(a.out, "%s Snippet %s %s\n", okMark, s.Shortcut, verb)
	return nil
}

// Resolve finds a snippet by ID, then by shortcut. Disabled snippets are
// found by shortcut too; among duplicates the most recently modified wins.
func (a *SnippetAdapter) Resolve(ctx context.Context, ref string) (*models.Snippet, error) {
	s, err := a.service.GetSnippet(ctx, ref)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	all, err := a.service.ListSnippets(ctx, primary.SnippetFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list snippets: %w", err)
	}
	var found *models.Snippet
	for _, candidate := range all {
		if candidate.Shortcut != ref {
			continue
		}
		if found == nil || candidate.UpdatedAt.After(found.UpdatedAt) {
			found = candidate
		}
	}
	if found == nil {
		return nil, fmt.Errorf("snippet %s: %w", ref, models.ErrNotFound)
	}
	return found, nil
}

// Validate reports the template problems of content.
func (a *SnippetAdapter) Validate(shortcut, content string) bool {
	result := template.ValidateSnippet(template.Snippet{Shortcut: shortcut, Content: content})
	if result.IsValid {
		fmt.Fprintf(a.out, "%s Snippet is valid\n", okMark)
		return true
	}

	for _, e := range result.Errors {
		fmt.Fprintf(a.out, "%s %s\n", color.New(color.FgRed).Sprint("✗"), e)
	}
	return false
}

// Fields lists the interactive fields of content.
func (a *SnippetAdapter) Fields(content string) {
	fields := template.GetFormFields(template.Snippet{Content: content})
	if len(fields) == 0 {
		fmt.Fprintln(a.out, "No interactive fields")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tLABEL\tDEFAULT\tOPTIONS")
	fmt.Fprintln(w, "----\t----\t-----\t-------\t-------")
	for _, f := range fields {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f.Name, f.Type, f.Label, f.Default, strings.Join(f.Options, ","))
	}
	w.Flush()
}

// Render prints the expansion of the snippet named by ref.
func (a *SnippetAdapter) Render(ctx context.Context, ref string, vars map[string]string) error {
	s, err := a.Resolve(ctx, ref)
	if err != nil {
		return err
	}

	result, err := a.service.ProcessSnippet(ctx, s, vars)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, result.Content)
	return nil
}

// excerpt shortens s to one line of at most n runes.
func excerpt(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", "⏎")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
