package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	StoreType        string `json:"store_type"`
	Courses          int    `json:"courses"`
	PendingSaves     int    `json:"pending_saves"`
	TTLDays          int    `json:"ttl_days"`
	DebounceWindowMS int64  `json:"debounce_window_ms"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	storeType := "none"
	if s.store != nil {
		storeType = "store"
		if comp, ok := s.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}

	return ServiceState{
		StoreType:        storeType,
		Courses:          s.registry.Len(),
		PendingSaves:     s.scheduler.pendingCount(),
		TTLDays:          s.ttlDays,
		DebounceWindowMS: s.scheduler.window.Milliseconds(),
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
