// Package state provides run-history state management for Lakeline using
// SQLite. It tracks pipeline runs, their gold row counts, and the
// data-quality results recorded for each run.
package state

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // sqlite driver
)

// SQLiteStore implements core.Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}
