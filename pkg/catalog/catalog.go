// Package catalog stores analysis runs in SQLite.
//
// Each saved unit keeps its content hash, the YAML-encoded script, any
// syntax error, and the routines and tables it references, so callers can
// skip unchanged sources and query the call graph across runs.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// Sentinel errors.
var (
	ErrNotOpen  = errors.New("catalog not opened")
	ErrNotFound = errors.New("not found")
)

// Store is an analysis catalog backed by SQLite. It is safe for
// concurrent use.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// New creates a store. Call Open before use. The logger may be nil.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{logger: logger}
}

// NewWithDB wraps an existing connection. Migrate is not run.
func NewWithDB(db *sql.DB, logger *slog.Logger) *Store {
	s := New(logger)
	s.db = db
	return s
}

// Open opens the database at path. Use ":memory:" for an in-memory
// catalog.
func (s *Store) Open(path string) error {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	if path == ":memory:" {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	if path == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping catalog: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("catalog opened", "path", path)
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the path passed to Open.
func (s *Store) Path() string {
	return s.path
}

func generateID() string {
	return uuid.New().String()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
