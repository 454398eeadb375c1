// Package testutil provides shared helpers for package tests.
package testutil

import (
	"database/sql"
	"testing"

	"github.com/formhive/formhive/database"
)

// OpenTestDB returns a migrated in-memory SQLite database. A single
// connection is forced because every new in-memory connection would
// otherwise see a fresh empty database.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}
