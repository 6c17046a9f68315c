// Package sqlite implements core.Store on a local SQLite database. It
// keeps the medium semantics of the jar: a silent per-entry capacity
// ceiling and per-entry expiry, with last-writer-wins overwrites.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.

	"github.com/aretw0/noodle/pkg/codec"
	"github.com/aretw0/noodle/pkg/core"
)

// Store wraps SQLite access for note entries.
type Store struct {
	db      *sql.DB
	ceiling int
	clock   func() time.Time
}

// Config holds the configuration for the SQLite store.
type Config struct {
	// Path is the database file location.
	Path string
	// Ceiling overrides the per-entry capacity in bytes. Zero means the
	// medium default of codec.EntryCeiling.
	Ceiling int
	// Clock overrides the expiry clock. nil means time.Now.
	Clock func() time.Time
}

// Open opens or creates the database and applies migrations.
func Open(cfg Config) (*Store, error) {
	if cfg.Ceiling <= 0 {
		cfg.Ceiling = codec.EntryCeiling
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, ceiling: cfg.Ceiling, clock: cfg.Clock}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			expires_at INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_expires_at ON entries(expires_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Initialize implements core.Store. Migrations already ran in Open; this
// sweeps expired entries so they stop occupying space.
func (s *Store) Initialize(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM entries WHERE expires_at != 0 AND expires_at <= ?`,
		s.clock().Unix())
	if err != nil {
		return fmt.Errorf("failed to sweep expired entries: %w", err)
	}
	return nil
}

// List implements core.Store.
func (s *Store) List(ctx context.Context) ([]core.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM entries WHERE expires_at = 0 OR expires_at > ?`,
		s.clock().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var out []core.Entry
	for rows.Next() {
		var e core.Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get implements core.Store.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM entries WHERE key = ? AND (expires_at = 0 OR expires_at > ?)`,
		key, s.clock().Unix()).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read entry: %w", err)
	}
	return value, true, nil
}

// Set implements core.Store. Values above the ceiling are silently
// truncated to match the medium contract.
func (s *Store) Set(ctx context.Context, key, value string, ttlDays int) error {
	if key == "" {
		return fmt.Errorf("entry has no key")
	}
	if len(value) > s.ceiling {
		value = value[:s.ceiling]
	}
	var expires int64
	if ttlDays > 0 {
		expires = s.clock().Add(time.Duration(ttlDays) * 24 * time.Hour).Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expires)
	if err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

// Delete implements core.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite-store"
}

var _ core.Store = (*Store)(nil)
