package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/expander/internal/models"
	"github.com/example/expander/internal/ports/secondary"
)

// FolderRepository implements secondary.FolderRepository with SQLite.
type FolderRepository struct {
	db querier
}

// NewFolderRepository creates a new SQLite folder repository.
func NewFolderRepository(db *sql.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

var _ secondary.FolderRepository = (*FolderRepository)(nil)

// Create persists a new folder.
func (r *FolderRepository) Create(ctx context.Context, folder *secondary.FolderRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO folders (id, name, color, icon, position, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		folder.ID, folder.Name, nullString(folder.Color), nullString(folder.Icon), folder.Order,
		parseTimeOr(folder.CreatedAt, time.Now().UTC()),
	)
	if err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}
	return nil
}

// List retrieves all folders ordered by position then name.
func (r *FolderRepository) List(ctx context.Context) ([]*secondary.FolderRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, color, icon, position, created_at FROM folders ORDER BY position, name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	var folders []*secondary.FolderRecord
	for rows.Next() {
		record, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, record)
	}

	return folders, rows.Err()
}

// GetByName retrieves a folder by its unique name.
func (r *FolderRepository) GetByName(ctx context.Context, name string) (*secondary.FolderRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, color, icon, position, created_at FROM folders WHERE name = ?", name,
	)

	record, err := scanFolder(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("folder %q: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}
	return record, nil
}

// Delete removes a folder.
func (r *FolderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM folders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	return requireAffected(result, "folder", id)
}

func scanFolder(s scanner) (*secondary.FolderRecord, error) {
	var (
		color     sql.NullString
		icon      sql.NullString
		createdAt time.Time
	)

	record := &secondary.FolderRecord{}
	if err := s.Scan(&record.ID, &record.Name, &color, &icon, &record.Order, &createdAt); err != nil {
		return nil, err
	}

	record.Color = color.String
	record.Icon = icon.String
	record.CreatedAt = createdAt.UTC().Format(time.RFC3339Nano)
	return record, nil
}
