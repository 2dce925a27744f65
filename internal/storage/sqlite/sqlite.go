// Package sqlite provides a SQLite-backed implementation of the storage
// interfaces: the authoritative store, the identity-provider user store, and
// a read-only view of imported legacy data for the dual-read path.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/anmolsh/blockbridge/internal/checksum"
	"github.com/anmolsh/blockbridge/internal/storage"
)

// Ensure SQLiteStore implements the storage interfaces.
var (
	_ storage.Store       = (*SQLiteStore)(nil)
	_ storage.LegacyStore = (*SQLiteStore)(nil)
	_ storage.UserStore   = (*SQLiteStore)(nil)
)

// SQLiteStore implements the storage interfaces using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	sums checksum.Strategy
}

// New creates a new SQLiteStore with the given database path and checksum
// strategy for workspace integrity records. It creates the parent directories
// and runs schema setup automatically. A nil strategy selects the default.
func New(dbPath string, sums checksum.Strategy) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run schema setup
	if err := runSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run schema setup: %w", err)
	}

	if sums == nil {
		sums = checksum.Default()
	}
	return &SQLiteStore{db: db, sums: sums}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
