package platform

import (
	"log/slog"
	"net/url"
	"time"

	"github.com/aretw0/noodle/pkg/core"
)

// options holds the internal configuration for the note engine.
type options struct {
	store          core.Store
	logger         *slog.Logger
	adapter        string
	baseURL        *url.URL
	ttlDays        int
	debounceWindow time.Duration
	ceiling        int
	clock          func() time.Time
}

// Option defines a functional option for configuring the engine.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "jar",
	}
}

// WithLogger sets the logger for the service and its store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore allows injecting a custom storage adapter (e.g. mock, remote).
// If provided, the adapter selected by name is skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the storage adapter by name: "jar", "sqlite" or
// "memory". Defaults to "jar".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithBaseURL sets the base against which relative page URLs resolve.
// Without it, only absolute http/https page URLs are accepted.
func WithBaseURL(base *url.URL) Option {
	return func(o *options) {
		o.baseURL = base
	}
}

// WithTTL sets the lifetime in days for written entries.
// Zero or negative keeps the default of core.DefaultTTLDays.
func WithTTL(days int) Option {
	return func(o *options) {
		o.ttlDays = days
	}
}

// WithDebounceWindow sets the quiescence window for scheduled saves.
// Zero or negative keeps the default of core.DefaultDebounceWindow.
func WithDebounceWindow(window time.Duration) Option {
	return func(o *options) {
		o.debounceWindow = window
	}
}

// WithCeiling overrides the per-entry capacity in bytes. Intended for
// tests; real media have a fixed ceiling.
func WithCeiling(bytes int) Option {
	return func(o *options) {
		o.ceiling = bytes
	}
}

// WithClock overrides the timestamp and expiry clock. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}
