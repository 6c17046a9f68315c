package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/noodle/pkg/codec"
)

const (
	// DefaultTTLDays is the lifetime given to saved entries.
	DefaultTTLDays = 365
	// DefaultDebounceWindow is the quiescence window for scheduled saves.
	DefaultDebounceWindow = 800 * time.Millisecond
)

// Config holds the service configuration.
type Config struct {
	// Logger receives audit and advisory messages. nil disables logging.
	Logger *slog.Logger
	// BaseURL is the location page URLs resolve against. nil means only
	// absolute http/https URLs are accepted.
	BaseURL *url.URL
	// TTLDays is the lifetime of written entries. Zero means DefaultTTLDays.
	TTLDays int
	// DebounceWindow is the quiescence window for ScheduleSave. Zero means
	// DefaultDebounceWindow.
	DebounceWindow time.Duration
	// Clock overrides the timestamp source. nil means time.Now.
	Clock func() time.Time
}

// SaveRequest carries the fields of one save operation. Everything is raw,
// untrusted input; the service validates before persisting.
type SaveRequest struct {
	Text         string
	CourseName   string
	SectionTitle string
	PageURL      string
	AnchorID     string
}

// Service is the note engine. It owns the course registry, the debounced
// save scheduler, and the aggregation algorithm, and talks to the medium
// only through the Store boundary.
type Service struct {
	store     Store
	registry  *Registry
	scheduler *saveScheduler
	logger    *slog.Logger
	baseURL   *url.URL
	ttlDays   int
	now       func() time.Time
}

// NewService creates a note engine on top of store.
func NewService(store Store, cfg Config) *Service {
	ttl := cfg.TTLDays
	if ttl <= 0 {
		ttl = DefaultTTLDays
	}
	window := cfg.DebounceWindow
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:     store,
		registry:  NewRegistry(),
		scheduler: newSaveScheduler(window),
		logger:    cfg.Logger,
		baseURL:   cfg.BaseURL,
		ttlDays:   ttl,
		now:       now,
	}
}

// Registry exposes the course registry for the widget layer.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Bind attaches a live form binding to a course and fills the course name
// if the binding carries one nobody recorded yet.
func (s *Service) Bind(courseID string, b *FormBinding) error {
	id := codec.ValidateID(courseID, codec.MaxIDLength)
	if id == "" {
		return ErrInvalidID
	}
	s.registry.Bind(id, b)
	return nil
}

// SetCourseName records the authoritative display name for a course,
// replacing whatever the registry held before.
func (s *Service) SetCourseName(courseID, name string) error {
	id := codec.ValidateID(courseID, codec.MaxIDLength)
	if id == "" {
		return ErrInvalidID
	}
	s.registry.SetCourseName(id, codec.ValidateLabel(name, codec.MaxLabelLength))
	return nil
}

// LoadNote reads and decodes the stored record for a section. A nil record
// with nil error means nothing is stored. Decoding never fails: corrupted
// or legacy payloads degrade to a plain-text record.
func (s *Service) LoadNote(ctx context.Context, courseID, sectionID string) (*codec.Record, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	key, err := s.key(courseID, sectionID)
	if err != nil {
		return nil, err
	}

	raw, found, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	if !found {
		return nil, nil
	}

	rec := codec.Unmarshal(raw)
	if rec == nil {
		return nil, nil
	}
	s.audit(key, raw, rec)
	if rec.CourseName != "" {
		s.registry.FillCourseName(codec.ValidateID(courseID, codec.MaxIDLength), rec.CourseName)
	}
	return rec, nil
}

// SaveNote validates, serializes, and persists one note, stamping it with
// the current time. It supersedes and cancels any pending debounced save
// for the same section before writing.
func (s *Service) SaveNote(ctx context.Context, courseID, sectionID string, req SaveRequest) error {
	if s.store == nil {
		return ErrNoStore
	}
	key, err := s.key(courseID, sectionID)
	if err != nil {
		return err
	}
	s.scheduler.cancel(key)
	return s.write(ctx, key, courseID, req)
}

// DeleteNote removes the stored record for a section and discards any
// pending debounced save for it.
func (s *Service) DeleteNote(ctx context.Context, courseID, sectionID string) error {
	if s.store == nil {
		return ErrNoStore
	}
	key, err := s.key(courseID, sectionID)
	if err != nil {
		return err
	}
	s.scheduler.cancel(key)
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// ScheduleSave defers a save until the quiescence window elapses, so rapid
// edits coalesce into one write. A later ScheduleSave for the same section
// re-arms the window; SaveNote cancels it.
func (s *Service) ScheduleSave(courseID, sectionID string, req SaveRequest) error {
	if s.store == nil {
		return ErrNoStore
	}
	key, err := s.key(courseID, sectionID)
	if err != nil {
		return err
	}
	s.scheduler.schedule(key, func() {
		if err := s.write(context.Background(), key, courseID, req); err != nil && s.logger != nil {
			s.logger.Error("debounced save failed", "key", key, "error", err)
		}
	})
	return nil
}

// FlushPending runs every pending debounced save immediately.
func (s *Service) FlushPending() {
	s.scheduler.flush()
}

// Estimate predicts the encoded size of a prospective save and bands it
// against the medium's per-entry ceiling. Advisory only.
func (s *Service) Estimate(req SaveRequest) codec.Usage {
	return codec.Estimate(s.buildRecord(req, s.timestamp()))
}

func (s *Service) write(ctx context.Context, key, courseID string, req SaveRequest) error {
	rec := s.buildRecord(req, s.timestamp())

	if u := codec.Estimate(rec); u.Band >= codec.BandNear && s.logger != nil {
		s.logger.Warn("note near capacity ceiling",
			"key", key, "bytes", u.Bytes, "band", u.Band.String())
	}

	if rec.CourseName != "" {
		s.registry.SetCourseName(codec.ValidateID(courseID, codec.MaxIDLength), rec.CourseName)
	}

	if err := s.store.Set(ctx, key, codec.Marshal(rec), s.ttlDays); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *Service) buildRecord(req SaveRequest, savedAt string) codec.Record {
	return codec.Record{
		Text:         codec.ValidateText(req.Text, codec.MaxTextLength),
		CourseName:   codec.ValidateLabel(req.CourseName, codec.MaxLabelLength),
		SectionTitle: codec.ValidateLabel(req.SectionTitle, codec.MaxLabelLength),
		PageURL:      codec.ValidateURL(req.PageURL, s.baseURL),
		AnchorID:     codec.ValidateAnchor(req.AnchorID),
		SavedAt:      savedAt,
	}
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// key validates both identifiers and derives the storage key. The section
// identifier is mandatory; the course identifier may be empty (section-only
// legacy form).
func (s *Service) key(courseID, sectionID string) (string, error) {
	section := codec.ValidateID(sectionID, codec.MaxIDLength)
	if section == "" {
		return "", fmt.Errorf("section: %w", ErrInvalidID)
	}
	course := codec.ValidateID(courseID, codec.MaxIDLength)
	return codec.EncodeKey(course, section), nil
}

func (s *Service) audit(key, raw string, rec *codec.Record) {
	if s.logger == nil {
		return
	}
	if rec.Legacy {
		s.logger.Debug("stored value interpreted as legacy plain text", "key", key)
	}
	if unknown := codec.UnknownKeys(raw); len(unknown) > 0 {
		s.logger.Warn("unexpected keys in stored record", "key", key, "unknown", unknown)
	}
}

// CollectCourseNotes assembles the canonical view of every section of a
// course by merging the store's snapshot with the live form bindings.
//
// Precedence: live form text always wins over stored text, because the form
// reflects what the user is looking at right now (a debounced write may not
// have flushed yet). Every other field replaces by presence.
func (s *Service) CollectCourseNotes(ctx context.Context, courseID string) (*CourseBundle, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	course := codec.ValidateID(courseID, codec.MaxIDLength)

	sections := make(map[string]*SectionView)
	var order []string
	courseName := ""

	// 1. Fold the persisted snapshot. The store holds at most one live
	// entry per section in practice, but the fold is order-independent-safe
	// regardless: later entries replace field-by-field.
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing store: %w", err)
	}
	for _, entry := range entries {
		sectionID, entryCourse, ok := codec.DecodeKey(entry.Key)
		if !ok || entryCourse != course || sectionID == "" {
			continue
		}
		rec := codec.Unmarshal(entry.Value)
		if rec == nil {
			continue
		}
		s.audit(entry.Key, entry.Value, rec)

		view, seen := sections[sectionID]
		if !seen {
			view = &SectionView{ID: sectionID, Title: sectionID}
			sections[sectionID] = view
			order = append(order, sectionID)
		}
		view.Text = rec.Text
		if rec.SavedAt != "" {
			view.SavedAt = rec.SavedAt
		}
		if rec.SectionTitle != "" {
			view.Title = rec.SectionTitle
		}
		if rec.PageURL != "" {
			view.PageURL = rec.PageURL
		}
		if rec.AnchorID != "" {
			view.AnchorID = rec.AnchorID
		}
		if rec.CourseName != "" && courseName == "" {
			courseName = rec.CourseName
		}
	}

	// 2. Overlay live form observations. Live text overwrites
	// unconditionally; metadata replaces by presence.
	entry, hasEntry := s.registry.Lookup(course)
	if hasEntry && len(entry.Bindings) > 0 {
		if courseName == "" && entry.CourseName != "" {
			courseName = entry.CourseName
		}
		for _, b := range entry.Bindings {
			if b == nil {
				continue
			}
			sectionID := codec.ValidateID(b.SectionID, codec.MaxIDLength)
			if sectionID == "" {
				continue
			}
			title := codec.ValidateLabel(b.SectionTitle, codec.MaxLabelLength)
			text := codec.ValidateText(b.Text, codec.MaxTextLength)

			view, seen := sections[sectionID]
			if !seen {
				view = &SectionView{ID: sectionID, Title: sectionID}
				sections[sectionID] = view
				order = append(order, sectionID)
			}
			view.Text = text
			if title != "" {
				view.Title = title
			}
			if b.SavedAt != "" {
				view.SavedAt = b.SavedAt
			}
			if u := codec.ValidateURL(b.PageURL, s.baseURL); u != "" {
				view.PageURL = u
			}
			if a := codec.ValidateAnchor(b.AnchorID); a != "" {
				view.AnchorID = a
			}
		}
	}

	// 3. Dedupe the ordering sequence, ignoring empty identifiers.
	seen := make(map[string]bool, len(order))
	unique := order[:0]
	for _, id := range order {
		if id != "" && !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	// 4. Most recently saved first; ties in case-insensitive label order.
	sort.SliceStable(unique, func(i, j int) bool {
		a, b := sections[unique[i]], sections[unique[j]]
		at, bt := parseSavedAt(a.SavedAt), parseSavedAt(b.SavedAt)
		if !at.Equal(bt) {
			return at.After(bt)
		}
		return sortLabel(a) < sortLabel(b)
	})

	bundle := &CourseBundle{CourseID: course}

	// 5/6. Resolve the display name; an empty result still carries one.
	if len(unique) == 0 {
		bundle.CourseName = courseName
		if bundle.CourseName == "" && hasEntry {
			bundle.CourseName = entry.CourseName
		}
		if bundle.CourseName == "" {
			bundle.CourseName = "course-" + course
		}
		return bundle, nil
	}

	bundle.CourseName = courseName
	if bundle.CourseName == "" && hasEntry {
		bundle.CourseName = entry.CourseName
	}
	if bundle.CourseName == "" {
		bundle.CourseName = "Course " + course
	}

	bundle.Sections = make([]SectionView, 0, len(unique))
	for _, id := range unique {
		bundle.Sections = append(bundle.Sections, *sections[id])
	}
	return bundle, nil
}

// parseSavedAt turns a saved-at string into a sortable instant. Missing or
// unparseable timestamps sort as the zero time, i.e. earliest.
func parseSavedAt(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if len(s) >= 19 {
		if t, err := time.Parse("2006-01-02T15:04:05", s[:19]); err == nil {
			return t
		}
	}
	return time.Time{}
}

func sortLabel(v *SectionView) string {
	label := v.Title
	if label == "" {
		label = v.ID
	}
	return strings.ToLower(label)
}
