// Package memory provides an in-memory Store for tests and embedding. It
// enforces the same per-entry capacity ceiling and expiry semantics as the
// durable backends so callers cannot accidentally depend on an unbounded
// medium.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/noodle/pkg/codec"
	"github.com/aretw0/noodle/pkg/core"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// Store implements core.Store backed by a map.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	clock   func() time.Time
	ceiling int
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		entries: make(map[string]entry),
		clock:   time.Now,
		ceiling: codec.EntryCeiling,
	}
}

// WithClock overrides the expiry clock. Intended for tests.
func (s *Store) WithClock(clock func() time.Time) *Store {
	s.clock = clock
	return s
}

// WithCeiling overrides the per-entry capacity. Intended for tests.
func (s *Store) WithCeiling(bytes int) *Store {
	if bytes > 0 {
		s.ceiling = bytes
	}
	return s
}

// Initialize implements core.Store. Nothing to prepare.
func (s *Store) Initialize(ctx context.Context) error {
	return nil
}

// List implements core.Store.
func (s *Store) List(ctx context.Context) ([]core.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.clock()
	out := make([]core.Entry, 0, len(s.entries))
	for k, e := range s.entries {
		if e.expired(now) {
			continue
		}
		out = append(out, core.Entry{Key: k, Value: e.value})
	}
	return out, nil
}

// Get implements core.Store.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || e.expired(s.clock()) {
		return "", false, nil
	}
	return e.value, true, nil
}

// Set implements core.Store. Values over the medium ceiling are silently
// truncated, matching the physical media this store stands in for.
func (s *Store) Set(ctx context.Context, key, value string, ttlDays int) error {
	if len(value) > s.ceiling {
		value = value[:s.ceiling]
	}
	var expires time.Time
	if ttlDays > 0 {
		expires = s.clock().Add(time.Duration(ttlDays) * 24 * time.Hour)
	}
	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: expires}
	s.mu.Unlock()
	return nil
}

// Delete implements core.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	now := s.clock()
	for _, e := range s.entries {
		if !e.expired(now) {
			n++
		}
	}
	return n
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory-store"
}

var _ core.Store = (*Store)(nil)
