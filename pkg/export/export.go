// Package export renders an aggregated course into a human-readable
// markdown document and a filesystem-safe filename. Every piece of user
// content is HTML-escaped before interpolation: the document may end up
// displayed as rendered markup, and the note text is untrusted.
package export

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/noodle/pkg/core"
)

// FilenameSuffix is appended to every derived filename.
const FilenameSuffix = "-notes.md"

var filenameStrip = regexp.MustCompile(`[^a-z0-9\-_]+`)
var whitespaceRun = regexp.MustCompile(`\s+`)

// Document is a rendered export.
type Document struct {
	Filename string
	Text     string
}

// Options configures rendering.
type Options struct {
	// Frontmatter prepends a YAML metadata block to the document.
	Frontmatter bool
	// Clock stamps the frontmatter export time. nil means time.Now.
	Clock func() time.Time
}

// Option is a functional option for Render.
type Option func(*Options)

// WithFrontmatter enables the YAML metadata block.
func WithFrontmatter() Option {
	return func(o *Options) { o.Frontmatter = true }
}

// WithClock overrides the export timestamp source. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(o *Options) { o.Clock = clock }
}

type frontmatter struct {
	Course   string `yaml:"course"`
	Sections int    `yaml:"sections"`
	Exported string `yaml:"exported"`
}

// Render produces the export document for an aggregated course. An empty
// bundle renders an empty text but still derives a filename, so callers can
// tell "nothing to export" apart from "failed to export".
func Render(bundle *core.CourseBundle, opts ...Option) Document {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}

	doc := Document{Filename: Filename(bundle.CourseName)}
	if len(bundle.Sections) == 0 {
		return doc
	}

	var b strings.Builder
	if o.Frontmatter {
		b.WriteString(renderFrontmatter(bundle, o.Clock()))
	}

	b.WriteString("# " + html.EscapeString(bundle.CourseName) + "\n\n")

	for i, section := range bundle.Sections {
		heading := section.Title
		if heading == "" {
			heading = section.ID
		}
		if heading == "" {
			heading = fmt.Sprintf("Section %d", i+1)
		}
		b.WriteString("## " + html.EscapeString(heading) + "\n\n")

		if section.SavedAt != "" {
			if formatted := formatTimestamp(section.SavedAt); formatted != "" {
				b.WriteString("_Last saved: " + html.EscapeString(formatted) + "_\n\n")
			}
		}

		if section.Text != "" {
			b.WriteString(html.EscapeString(section.Text) + "\n\n")
		} else {
			b.WriteString("_(no notes yet)_\n\n")
		}
	}

	doc.Text = strings.TrimSuffix(b.String(), "\n")
	return doc
}

// Filename derives a filesystem-safe name from a course display name:
// lower-cased, whitespace runs collapsed to hyphens, everything outside
// [a-z0-9-_] stripped, plus the fixed suffix.
func Filename(courseName string) string {
	base := courseName
	if base == "" {
		base = "course-notes"
	}
	base = strings.ToLower(base)
	base = whitespaceRun.ReplaceAllString(base, "-")
	base = filenameStrip.ReplaceAllString(base, "")
	if base == "" {
		base = "course-notes"
	}
	return base + FilenameSuffix
}

func renderFrontmatter(bundle *core.CourseBundle, now time.Time) string {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(frontmatter{
		Course:   bundle.CourseName,
		Sections: len(bundle.Sections),
		Exported: now.UTC().Format(time.RFC3339),
	}); err != nil {
		// Frontmatter is decoration; the document survives without it.
		return ""
	}
	encoder.Close()
	buf.WriteString("---\n\n")
	return buf.String()
}

// formatTimestamp renders a stored saved-at value for humans. Unparseable
// values yield "", which omits the last-saved line entirely.
func formatTimestamp(s string) string {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("Jan 2, 2006 15:04")
	}
	if len(s) >= 19 {
		if t, err := time.Parse("2006-01-02T15:04:05", s[:19]); err == nil {
			return t.Format("Jan 2, 2006 15:04")
		}
	}
	return ""
}
