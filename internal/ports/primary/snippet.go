package primary

import (
	"context"

	"github.com/example/expander/internal/core/template"
	"github.com/example/expander/internal/models"
)

// SnippetService defines the primary port for snippet storage operations.
type SnippetService interface {
	// GetAllSnippets returns every snippet keyed by ID.
	GetAllSnippets(ctx context.Context) (map[string]*models.Snippet, error)

	// ListSnippets lists snippets with optional filters, ordered by shortcut.
	ListSnippets(ctx context.Context, filters SnippetFilters) ([]*models.Snippet, error)

	// GetSnippet retrieves a snippet by ID. Missing snippets yield models.ErrNotFound.
	GetSnippet(ctx context.Context, id string) (*models.Snippet, error)

	// FindByShortcut returns the enabled snippet the shortcut index resolves to.
	FindByShortcut(ctx context.Context, shortcut string) (*models.Snippet, error)

	// SaveSnippet creates or replaces a snippet, assigning an ID if absent
	// and stamping the modification time.
	SaveSnippet(ctx context.Context, snippet *models.Snippet) (*models.Snippet, error)

	// DeleteSnippet deletes a snippet.
	DeleteSnippet(ctx context.Context, id string) error

	// SetEnabled enables or disables a snippet.
	SetEnabled(ctx context.Context, id string, enabled bool) error

	// SearchSnippets returns enabled snippets matching every query term,
	// most used first.
	SearchSnippets(ctx context.Context, query string) ([]*models.Snippet, error)

	// SuggestShortcuts returns stored shortcuts that fuzzily match input.
	SuggestShortcuts(ctx context.Context, input string) ([]string, error)

	// RecordUsage increments a snippet's usage counters.
	RecordUsage(ctx context.Context, id string) error

	// GetSettings returns the stored settings, or the defaults.
	GetSettings(ctx context.Context) (*models.Settings, error)

	// SaveSettings replaces the stored settings.
	SaveSettings(ctx context.Context, settings *models.Settings) error

	// ListFolders lists folders with their snippet counts.
	ListFolders(ctx context.Context) ([]*models.Folder, error)

	// CreateFolder creates a folder.
	CreateFolder(ctx context.Context, req CreateFolderRequest) (*models.Folder, error)

	// Export returns a backup of every snippet, folder and the settings.
	Export(ctx context.Context) (*models.Backup, error)

	// Import validates a backup and writes it in one transaction.
	Import(ctx context.Context, backup *models.Backup) (*ImportResult, error)

	// SeedDefaults installs the first-run snippets, folders and settings.
	SeedDefaults(ctx context.Context) error

	// ProcessSnippet renders a snippet through the template engine.
	ProcessSnippet(ctx context.Context, snippet *models.Snippet, vars map[string]string) (*template.ExpansionResult, error)

	// PreviewSnippet renders a snippet with every field at its default.
	PreviewSnippet(ctx context.Context, snippet *models.Snippet) (string, error)
}

// SnippetFilters contains filter options for listing snippets.
type SnippetFilters struct {
	Folder      string
	Tag         string
	EnabledOnly bool
}

// CreateFolderRequest contains parameters for creating a folder.
type CreateFolderRequest struct {
	Name  string
	Color string
	Icon  string
}

// ImportResult summarises an import.
type ImportResult struct {
	Snippets int
	Folders  int
	Settings bool
}
