// Package core holds the domain types of the note engine and the service
// that reconciles persisted notes with live form observations. It is
// agnostic to the storage backend; anything implementing Store plugs in.
package core

// FormBinding is one live form observation: the current, possibly unsaved
// state of an input field bound to a section. The widget layer owns the
// binding and mutates it in place as the user types; the engine reads it at
// aggregation time and never copies it.
type FormBinding struct {
	SectionID    string
	SectionTitle string
	Text         string
	SavedAt      string
	PageURL      string
	AnchorID     string
}

// CourseEntry tracks the live bindings and best-known display name of one
// course. Entries are created on first sight of a section and live for the
// whole session; they are never explicitly destroyed.
type CourseEntry struct {
	Bindings   []*FormBinding
	CourseName string
}

// SectionView is the reconciled, display-ready representation of one
// section. Produced fresh on every aggregation call, never persisted.
type SectionView struct {
	ID       string
	Title    string
	Text     string
	SavedAt  string
	PageURL  string
	AnchorID string
}

// CourseBundle is the aggregation output for a course: its sections in
// canonical order plus the resolved display name. An empty Sections slice
// still carries a best-effort name for filename purposes.
type CourseBundle struct {
	CourseID   string
	CourseName string
	Sections   []SectionView
}

// EventType classifies an out-of-band change observed in the store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event reports that a stored entry changed outside this process, for
// example through another tab or another process sharing the same jar.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

// String makes Event usable as a lifecycle event.
func (e Event) String() string {
	return string(e.Type) + " " + e.Key
}
