package noodle

import (
	"log/slog"
	"net/url"
	"time"

	"github.com/aretw0/noodle/internal/platform"
	"github.com/aretw0/noodle/pkg/core"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Configuration ---

// Option defines a functional option for configuring the engine.
type Option = platform.Option

// WithLogger sets the logger for the service and its store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore allows injecting a custom storage adapter.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithAdapter selects the storage adapter by name ("jar", "sqlite", "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithBaseURL sets the base against which relative page URLs resolve.
func WithBaseURL(base *url.URL) Option {
	return platform.WithBaseURL(base)
}

// WithTTL sets the lifetime in days for written entries.
func WithTTL(days int) Option {
	return platform.WithTTL(days)
}

// WithDebounceWindow sets the quiescence window for scheduled saves.
func WithDebounceWindow(window time.Duration) Option {
	return platform.WithDebounceWindow(window)
}

// WithClock overrides the timestamp and expiry clock. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return platform.WithClock(clock)
}

// --- Factory ---

// New creates a new note Service over the store at path.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// OpenStore builds and initializes just the storage adapter.
func OpenStore(path string, opts ...Option) (core.Store, error) {
	return platform.OpenStore(path, opts...)
}
