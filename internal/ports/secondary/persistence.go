// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// SnippetRepository defines the secondary port for snippet persistence.
type SnippetRepository interface {
	// Create persists a new snippet.
	Create(ctx context.Context, snippet *SnippetRecord) error

	// GetByID retrieves a snippet by its ID.
	GetByID(ctx context.Context, id string) (*SnippetRecord, error)

	// Update replaces every mutable field of an existing snippet.
	Update(ctx context.Context, snippet *SnippetRecord) error

	// Delete removes a snippet from persistence.
	Delete(ctx context.Context, id string) error

	// List retrieves snippets matching the given filters.
	List(ctx context.Context, filters SnippetFilters) ([]*SnippetRecord, error)

	// SetEnabled enables or disables a snippet.
	SetEnabled(ctx context.Context, id string, enabled bool) error

	// IncrementUsage bumps use_count and stamps last_used without
	// touching updated_at.
	IncrementUsage(ctx context.Context, id string, usedAt string) error

	// CountByFolder returns snippet counts keyed by folder name.
	CountByFolder(ctx context.Context) (map[string]int, error)
}

// SnippetRecord represents a snippet as stored in persistence.
type SnippetRecord struct {
	ID          string
	Shortcut    string
	Content     string
	Description string
	Folder      string
	Tags        []string
	ContentType string
	Enabled     bool
	UseCount    int
	LastUsed    string
	CreatedAt   string
	UpdatedAt   string
}

// SnippetFilters contains filter options for querying snippets.
type SnippetFilters struct {
	Folder      string
	Tag         string
	EnabledOnly bool
	Limit       int
}

// SettingsRepository defines the secondary port for the settings document.
type SettingsRepository interface {
	// Get returns the stored settings document, or ("", nil) if none.
	Get(ctx context.Context) (string, error)

	// Put replaces the stored settings document.
	Put(ctx context.Context, document string) error
}

// FolderRepository defines the secondary port for folder persistence.
type FolderRepository interface {
	// Create persists a new folder.
	Create(ctx context.Context, folder *FolderRecord) error

	// List retrieves all folders ordered by position then name.
	List(ctx context.Context) ([]*FolderRecord, error)

	// GetByName retrieves a folder by its unique name.
	GetByName(ctx context.Context, name string) (*FolderRecord, error)

	// Delete removes a folder. Snippets keep their folder name.
	Delete(ctx context.Context, id string) error
}

// FolderRecord represents a folder as stored in persistence.
type FolderRecord struct {
	ID        string
	Name      string
	Color     string
	Icon      string
	Order     int
	CreatedAt string
}

// Transactor runs fn in a single database transaction. Repositories passed
// to fn are bound to that transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(repos TxRepositories) error) error
}

// TxRepositories are the repositories available inside a transaction.
type TxRepositories struct {
	Snippets SnippetRepository
	Folders  FolderRepository
	Settings SettingsRepository
}
