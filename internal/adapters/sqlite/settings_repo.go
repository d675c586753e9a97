package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/expander/internal/ports/secondary"
)

// SettingsRepository implements secondary.SettingsRepository with SQLite.
// The settings live in a single row as one JSON document.
type SettingsRepository struct {
	db querier
}

// NewSettingsRepository creates a new SQLite settings repository.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

var _ secondary.SettingsRepository = (*SettingsRepository)(nil)

// Get returns the stored settings document, or "" if none was saved.
func (r *SettingsRepository) Get(ctx context.Context) (string, error) {
	var document string
	err := r.db.QueryRowContext(ctx, "SELECT document FROM settings WHERE id = 1").Scan(&document)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	return document, nil
}

// Put replaces the stored settings document.
func (r *SettingsRepository) Put(ctx context.Context, document string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (id, document, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		document, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
