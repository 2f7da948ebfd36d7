// ABOUTME: Tests for database opening and schema initialization
// ABOUTME: Verifies WAL mode, foreign key enforcement, and idempotent re-initialization
package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Failed to open test db: %v", err)
	}
	if err := InitSchema(database); err != nil {
		t.Fatalf("Failed to init schema: %v", err)
	}
	return database
}

func TestOpenDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query tables: %v", err)
	}
	if count < 25 {
		t.Errorf("Expected at least 25 tables, got %d", count)
	}

	var mode string
	err = db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	if err != nil {
		t.Fatalf("Failed to query journal mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("Expected WAL mode, got %s", mode)
	}

	var fk int
	err = db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if err != nil {
		t.Fatalf("Failed to query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Error("Expected foreign keys to be enforced")
	}
}

func TestOpenDatabaseInvalidPath(t *testing.T) {
	// A regular file in the directory position makes MkdirAll fail no
	// matter what user the tests run as.
	blocker := filepath.Join(t.TempDir(), "not-a-directory")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create blocking file: %v", err)
	}

	dbPath := filepath.Join(blocker, "sub", "test.db")
	if _, err := OpenDatabase(dbPath); err == nil {
		t.Errorf("Expected error for invalid path, but OpenDatabase succeeded")
	}
}

func TestInitSchemaIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("Initial OpenDatabase failed: %v", err)
	}

	var before int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&before); err != nil {
		t.Fatalf("Failed to count schema objects: %v", err)
	}

	// Re-running schema creation must be a no-op
	if err := InitSchema(db); err != nil {
		t.Fatalf("Re-running InitSchema failed: %v", err)
	}

	var after int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&after); err != nil {
		t.Fatalf("Failed to count schema objects: %v", err)
	}
	if before != after {
		t.Errorf("Schema drift on re-init: %d objects before, %d after", before, after)
	}
	db.Close()

	// And the same through OpenDatabase on an existing file
	db, err = OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("Re-opening database failed: %v", err)
	}
	defer db.Close()
}
