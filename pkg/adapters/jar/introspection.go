package jar

import (
	"github.com/aretw0/introspection"
)

// JarState exposes internal state for observability.
type JarState struct {
	Path          string `json:"path"`
	Entries       int    `json:"entries"`
	Ceiling       int    `json:"ceiling"`
	WatcherActive bool   `json:"watcher_active"`
}

// State implements introspection.Introspectable.
func (j *Jar) State() any {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries := 0
	if records, err := j.readAll(); err == nil {
		entries = len(records)
	}

	return JarState{
		Path:          j.config.Path,
		Entries:       entries,
		Ceiling:       j.config.Ceiling,
		WatcherActive: j.watcherActive,
	}
}

// ComponentType implements introspection.Component.
func (j *Jar) ComponentType() string {
	return "jar-store"
}

var _ introspection.Introspectable = (*Jar)(nil)
var _ introspection.Component = (*Jar)(nil)
