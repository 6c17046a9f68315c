package core

import "sync"

// Registry is the process-scoped map of course entries. It models the
// original page-session registry as an explicitly owned object held by the
// Service rather than an ambient singleton.
type Registry struct {
	mu      sync.RWMutex
	courses map[string]*CourseEntry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{courses: make(map[string]*CourseEntry)}
}

// Ensure returns the entry for courseID, creating it on first sight.
func (r *Registry) Ensure(courseID string) *CourseEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.courses[courseID]
	if !ok {
		e = &CourseEntry{}
		r.courses[courseID] = e
	}
	return e
}

// Lookup returns the entry for courseID without creating one.
func (r *Registry) Lookup(courseID string) (*CourseEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.courses[courseID]
	return e, ok
}

// Bind attaches a live form binding to a course. A binding already attached
// is not attached twice.
func (r *Registry) Bind(courseID string, b *FormBinding) *CourseEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.courses[courseID]
	if !ok {
		e = &CourseEntry{}
		r.courses[courseID] = e
	}
	for _, existing := range e.Bindings {
		if existing == b {
			return e
		}
	}
	e.Bindings = append(e.Bindings, b)
	return e
}

// FillCourseName records a display name for a course if none is known yet.
// The first observed name wins; later observations do not overwrite it.
func (r *Registry) FillCourseName(courseID, name string) {
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.courses[courseID]
	if !ok {
		e = &CourseEntry{}
		r.courses[courseID] = e
	}
	if e.CourseName == "" {
		e.CourseName = name
	}
}

// SetCourseName overwrites the display name for a course. Explicit saves
// use this; the name saved with a record is the freshest observation.
func (r *Registry) SetCourseName(courseID, name string) {
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.courses[courseID]
	if !ok {
		e = &CourseEntry{}
		r.courses[courseID] = e
	}
	e.CourseName = name
}

// CourseIDs lists every course the registry has seen.
func (r *Registry) CourseIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.courses))
	for id := range r.courses {
		ids = append(ids, id)
	}
	return ids
}

// Len reports how many courses the registry tracks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.courses)
}
