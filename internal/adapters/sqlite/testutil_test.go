// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/expander/internal/adapters/sqlite"
	"github.com/example/expander/internal/db"
	"github.com/example/expander/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// A second pooled connection would see a different empty database.
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedSnippet inserts a test snippet and returns its record.
func seedSnippet(t *testing.T, testDB *sql.DB, id, shortcut, content string) *secondary.SnippetRecord {
	t.Helper()

	record := &secondary.SnippetRecord{
		ID:       id,
		Shortcut: shortcut,
		Content:  content,
		Enabled:  true,
	}
	if err := sqlite.NewSnippetRepository(testDB).Create(context.Background(), record); err != nil {
		t.Fatalf("failed to seed snippet: %v", err)
	}
	return record
}
