package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/noodle/pkg/adapters/jar"
	"github.com/aretw0/noodle/pkg/adapters/memory"
	"github.com/aretw0/noodle/pkg/adapters/sqlite"
	"github.com/aretw0/noodle/pkg/core"
)

// New assembles a note service on top of the store selected by the
// options. The 'uri' argument is adapter-specific: a file path for "jar"
// and "sqlite", ignored for "memory".
func New(uri string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store, err := openStore(uri, o)
	if err != nil {
		return nil, err
	}

	if err := store.Initialize(context.Background()); err != nil {
		return nil, err
	}

	return core.NewService(store, core.Config{
		Logger:         o.logger,
		BaseURL:        o.baseURL,
		TTLDays:        o.ttlDays,
		DebounceWindow: o.debounceWindow,
		Clock:          o.clock,
	}), nil
}

// OpenStore builds and initializes just the storage adapter, for callers
// that want to operate below the service layer.
func OpenStore(uri string, opts ...Option) (core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	store, err := openStore(uri, o)
	if err != nil {
		return nil, err
	}
	if err := store.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func openStore(uri string, o *options) (core.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	switch o.adapter {
	case "jar":
		return jar.New(jar.Config{
			Path:    uri,
			Logger:  o.logger,
			Ceiling: o.ceiling,
			Clock:   o.clock,
		}), nil
	case "sqlite":
		return sqlite.Open(sqlite.Config{
			Path:    uri,
			Ceiling: o.ceiling,
			Clock:   o.clock,
		})
	case "memory":
		store := memory.New()
		if o.clock != nil {
			store.WithClock(o.clock)
		}
		if o.ceiling > 0 {
			store.WithCeiling(o.ceiling)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}
