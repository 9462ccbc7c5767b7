/*
Package sqlite provides a SQLite-backed implementation of generic.Store.

PURPOSE:
  Persists the engine's JSON collections in an embedded database file.
  This is the default backend: a single file next to the binary, no
  server, one writer at a time.

SCHEMA:
  kv: key TEXT PRIMARY KEY, value TEXT, updated_at TEXT

  One row per collection ("artisan_inputs", "artisan_batches", ...).
  Each value is the whole JSON array for that collection.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety plus a single pooled connection,
  so ":memory:" databases are shared by every call instead of being
  silently re-created per connection.

WAL MODE:
  File databases are opened with WAL so readers don't block the writer.

USAGE:
  store, err := sqlite.New("./artisan.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  kv := generic.NewKV(store, logger)

SEE ALSO:
  - generic/store.go: Interface definition
  - generic/store/memory.go: In-memory implementation for testing
  - store/redis/redis.go: Shared backend
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store implements generic.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// KEY-VALUE STORE (generic.Store interface)
// =============================================================================

// Get returns the document stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return []byte(value), true, nil
}

// Set upserts the document under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, key, string(value), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}
