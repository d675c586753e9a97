// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/expander/internal/models"
	"github.com/example/expander/internal/ports/secondary"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SnippetRepository implements secondary.SnippetRepository with SQLite.
type SnippetRepository struct {
	db querier
}

// NewSnippetRepository creates a new SQLite snippet repository.
func NewSnippetRepository(db *sql.DB) *SnippetRepository {
	return &SnippetRepository{db: db}
}

var _ secondary.SnippetRepository = (*SnippetRepository)(nil)

const snippetColumns = "id, shortcut, content, description, folder, tags, content_type, enabled, use_count, last_used, created_at, updated_at"

// Create persists a new snippet.
func (r *SnippetRepository) Create(ctx context.Context, snippet *secondary.SnippetRecord) error {
	tags, err := encodeTags(snippet.Tags)
	if err != nil {
		return err
	}

	contentType := models.ContentTypeText
	if snippet.ContentType != "" {
		contentType = snippet.ContentType
	}

	now := time.Now().UTC()
	createdAt := parseTimeOr(snippet.CreatedAt, now)
	updatedAt := parseTimeOr(snippet.UpdatedAt, now)

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO snippets ("+snippetColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		snippet.ID, snippet.Shortcut, snippet.Content, nullString(snippet.Description), nullString(snippet.Folder),
		tags, contentType, snippet.Enabled, snippet.UseCount, nullTime(snippet.LastUsed), createdAt, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create snippet: %w", err)
	}

	return nil
}

// GetByID retrieves a snippet by its ID.
func (r *SnippetRepository) GetByID(ctx context.Context, id string) (*secondary.SnippetRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+snippetColumns+" FROM snippets WHERE id = ?", id)

	record, err := scanSnippet(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snippet %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snippet: %w", err)
	}

	return record, nil
}

// Update replaces every mutable field of an existing snippet.
func (r *SnippetRepository) Update(ctx context.Context, snippet *secondary.SnippetRecord) error {
	tags, err := encodeTags(snippet.Tags)
	if err != nil {
		return err
	}

	contentType := models.ContentTypeText
	if snippet.ContentType != "" {
		contentType = snippet.ContentType
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE snippets SET shortcut = ?, content = ?, description = ?, folder = ?, tags = ?,
			content_type = ?, enabled = ?, use_count = ?, last_used = ?, updated_at = ?
		WHERE id = ?`,
		snippet.Shortcut, snippet.Content, nullString(snippet.Description), nullString(snippet.Folder), tags,
		contentType, snippet.Enabled, snippet.UseCount, nullTime(snippet.LastUsed),
		parseTimeOr(snippet.UpdatedAt, time.Now().UTC()), snippet.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update snippet: %w", err)
	}

	return requireAffected(result, "snippet", snippet.ID)
}

// Delete removes a snippet from persistence.
func (r *SnippetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM snippets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete snippet: %w", err)
	}

	return requireAffected(result, "snippet", id)
}

// List retrieves snippets matching the given filters.
func (r *SnippetRepository) List(ctx context.Context, filters secondary.SnippetFilters) ([]*secondary.SnippetRecord, error) {
	query := "SELECT " + snippetColumns + " FROM snippets WHERE 1=1"
	args := []any{}

	if filters.Folder != "" {
		query += " AND folder = ?"
		args = append(args, filters.Folder)
	}

	if filters.Tag != "" {
		query += " AND EXISTS (SELECT 1 FROM json_each(snippets.tags) WHERE json_each.value = ?)"
		args = append(args, filters.Tag)
	}

	if filters.EnabledOnly {
		query += " AND enabled = 1"
	}

	query += " ORDER BY shortcut, updated_at"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snippets: %w", err)
	}
	defer rows.Close()

	var snippets []*secondary.SnippetRecord
	for rows.Next() {
		record, err := scanSnippet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snippet: %w", err)
		}
		snippets = append(snippets, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list snippets: %w", err)
	}

	return snippets, nil
}

// SetEnabled enables or disables a snippet.
func (r *SnippetRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE snippets SET enabled = ?, updated_at = ? WHERE id = ?",
		enabled, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update snippet: %w", err)
	}

	return requireAffected(result, "snippet", id)
}

// IncrementUsage bumps use_count and stamps last_used.
func (r *SnippetRepository) IncrementUsage(ctx context.Context, id string, usedAt string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE snippets SET use_count = use_count + 1, last_used = ? WHERE id = ?",
		parseTimeOr(usedAt, time.Now().UTC()), id,
	)
	if err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}

	return requireAffected(result, "snippet", id)
}

// CountByFolder returns snippet counts keyed by folder name.
func (r *SnippetRepository) CountByFolder(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT folder, COUNT(*) FROM snippets WHERE folder IS NOT NULL AND folder != '' GROUP BY folder",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count snippets: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var folder string
		var n int
		if err := rows.Scan(&folder, &n); err != nil {
			return nil, fmt.Errorf("failed to scan folder count: %w", err)
		}
		counts[folder] = n
	}

	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnippet(s scanner) (*secondary.SnippetRecord, error) {
	var (
		description sql.NullString
		folder      sql.NullString
		tags        string
		lastUsed    sql.NullTime
		createdAt   time.Time
		updatedAt   time.Time
	)

	record := &secondary.SnippetRecord{}
	err := s.Scan(&record.ID, &record.Shortcut, &record.Content, &description, &folder, &tags,
		&record.ContentType, &record.Enabled, &record.UseCount, &lastUsed, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.Description = description.String
	record.Folder = folder.String
	if err := json.Unmarshal([]byte(tags), &record.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags of snippet %s: %w", record.ID, err)
	}
	if lastUsed.Valid {
		record.LastUsed = lastUsed.Time.UTC().Format(time.RFC3339Nano)
	}
	record.CreatedAt = createdAt.UTC().Format(time.RFC3339Nano)
	record.UpdatedAt = updatedAt.UTC().Format(time.RFC3339Nano)

	return record, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(data), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(s string) sql.NullTime {
	if s == "" {
		return sql.NullTime{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func parseTimeOr(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fallback
	}
	return t.UTC()
}

func requireAffected(result sql.Result, entity, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check %s update: %w", entity, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, models.ErrNotFound)
	}
	return nil
}
