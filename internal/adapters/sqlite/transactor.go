package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/expander/internal/ports/secondary"
)

// Transactor implements secondary.Transactor with SQLite.
type Transactor struct {
	db *sql.DB
}

// NewTransactor creates a new SQLite transactor.
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

var _ secondary.Transactor = (*Transactor)(nil)

// WithTx runs fn in one transaction, committing when fn returns nil and
// rolling back otherwise.
func (t *Transactor) WithTx(ctx context.Context, fn func(repos secondary.TxRepositories) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	repos := secondary.TxRepositories{
		Snippets: &SnippetRepository{db: tx},
		Folders:  &FolderRepository{db: tx},
		Settings: &SettingsRepository{db: tx},
	}

	if err := fn(repos); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
