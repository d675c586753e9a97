package db

import (
	"database/sql"
	"fmt"

	"github.com/example/expander/internal/logging"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_snippets_table",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_folders_and_settings_tables",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_usage_columns_to_snippets",
		Up:      migrationV3,
	},
}

// LatestVersion returns the version of the newest migration.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

func createVersionTable(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// RunMigrations applies every migration newer than the recorded version.
func RunMigrations(conn *sql.DB) error {
	logger := logging.Component("db")

	if err := createVersionTable(conn); err != nil {
		return err
	}

	// Get current schema version
	var currentVersion int
	err := conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	// Run pending migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		logger.Info().Int("version", migration.Version).Str("name", migration.Name).Msg("running migration")

		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id TEXT PRIMARY KEY,
			shortcut TEXT NOT NULL,
			content TEXT NOT NULL,
			description TEXT,
			folder TEXT,
			tags TEXT NOT NULL DEFAULT '[]',
			content_type TEXT NOT NULL DEFAULT 'text',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_shortcut ON snippets(shortcut);
	`)
	if err != nil {
		return fmt.Errorf("failed to create snippets table: %w", err)
	}
	return nil
}

func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS folders (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			color TEXT,
			icon TEXT,
			position INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY CHECK(id = 1),
			document TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_folder ON snippets(folder);
	`)
	if err != nil {
		return fmt.Errorf("failed to create folders and settings tables: %w", err)
	}
	return nil
}

func migrationV3(tx *sql.Tx) error {
	for _, stmt := range []string{
		"ALTER TABLE snippets ADD COLUMN use_count INTEGER NOT NULL DEFAULT 0",
		"ALTER TABLE snippets ADD COLUMN last_used DATETIME",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to add usage columns: %w", err)
		}
	}
	return nil
}
