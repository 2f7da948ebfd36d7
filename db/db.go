// ABOUTME: Database connection management and initialization
// ABOUTME: Handles opening the SQLite mirror with WAL mode and foreign keys enforced
package db

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// OpenDatabase opens (creating if needed) the local mirror at path and
// ensures the schema exists. Foreign keys are enforced so orphaned child
// rows surface as errors instead of silent corruption.
func OpenDatabase(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// Single connection avoids database-locked errors under SQLite
	db.SetMaxOpenConns(1)

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
