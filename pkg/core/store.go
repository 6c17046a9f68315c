package core

import "context"

// Entry is one raw key/value pair as the storage medium holds it. Keys and
// values are plain text; all encoding and decoding happens above this line.
type Entry struct {
	Key   string
	Value string
}

// Store defines the contract for the persistent medium. Adhering to this
// interface keeps the engine independent of where entries physically live
// (a jar file, SQLite, memory).
//
// The medium may be modified out-of-band at any time, so callers must treat
// List as a snapshot and must never assume a value they wrote is the value
// they will next read. Writes are idempotent overwrites; last-writer-wins
// applies at whole-entry granularity.
type Store interface {
	// List returns a snapshot of every live entry. Iteration order is not
	// guaranteed.
	List(ctx context.Context) ([]Entry, error)

	// Get retrieves the value under key. found is false when the entry is
	// absent or expired.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set persists value under key with the given lifetime. The medium may
	// silently truncate values above its per-entry capacity ceiling; it
	// never reports that as an error.
	Set(ctx context.Context, key, value string, ttlDays int) error

	// Delete removes an entry. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Initialize ensures the underlying medium is ready (create the jar
	// file, run schema migrations).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by stores that can report out-of-band changes.
// pattern is a doublestar glob matched against changed keys.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
