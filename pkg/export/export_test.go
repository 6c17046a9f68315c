package export

import (
	"strings"
	"testing"
	"time"

	"github.com/aretw0/noodle/pkg/core"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestRenderBasic(t *testing.T) {
	bundle := &core.CourseBundle{
		CourseID:   "cs101",
		CourseName: "Intro to CS",
		Sections: []core.SectionView{
			{ID: "week1", Title: "Week 1", Text: "pointers hurt", SavedAt: "2026-02-01T10:00:00Z"},
		},
	}
	doc := Render(bundle)
	if doc.Filename != "intro-to-cs-notes.md" {
		t.Fatalf("filename = %q", doc.Filename)
	}
	for _, want := range []string{
		"# Intro to CS",
		"## Week 1",
		"_Last saved: Feb 1, 2026 10:00_",
		"pointers hurt",
	} {
		if !strings.Contains(doc.Text, want) {
			t.Errorf("document missing %q:\n%s", want, doc.Text)
		}
	}
}

func TestRenderEscapesContent(t *testing.T) {
	bundle := &core.CourseBundle{
		CourseID:   "x",
		CourseName: "A <b>Course</b>",
		Sections: []core.SectionView{
			{ID: "s1", Title: "<script>", Text: "1 < 2 & 3 > 2"},
		},
	}
	doc := Render(bundle)
	if strings.Contains(doc.Text, "<script>") || strings.Contains(doc.Text, "<b>") {
		t.Fatalf("unescaped markup in document:\n%s", doc.Text)
	}
	if !strings.Contains(doc.Text, "1 &lt; 2 &amp; 3 &gt; 2") {
		t.Errorf("text not escaped:\n%s", doc.Text)
	}
}

func TestRenderEmptyTextPlaceholder(t *testing.T) {
	bundle := &core.CourseBundle{
		CourseID:   "x",
		CourseName: "X",
		Sections:   []core.SectionView{{ID: "s1", Title: "S1"}},
	}
	doc := Render(bundle)
	if !strings.Contains(doc.Text, "_(no notes yet)_") {
		t.Errorf("missing placeholder:\n%s", doc.Text)
	}
}

func TestRenderUnparseableTimestampOmitted(t *testing.T) {
	bundle := &core.CourseBundle{
		CourseID:   "x",
		CourseName: "X",
		Sections:   []core.SectionView{{ID: "s1", Title: "S1", Text: "hi", SavedAt: "not-a-time"}},
	}
	doc := Render(bundle)
	if strings.Contains(doc.Text, "Last saved") {
		t.Errorf("last-saved line should be omitted:\n%s", doc.Text)
	}
}

func TestRenderEmptyBundle(t *testing.T) {
	doc := Render(&core.CourseBundle{CourseID: "ghost", CourseName: "course-ghost"})
	if doc.Text != "" {
		t.Errorf("empty bundle should render empty text, got %q", doc.Text)
	}
	if doc.Filename != "course-ghost-notes.md" {
		t.Errorf("filename = %q", doc.Filename)
	}
}

func TestRenderSectionHeadingFallbacks(t *testing.T) {
	bundle := &core.CourseBundle{
		CourseID:   "x",
		CourseName: "X",
		Sections: []core.SectionView{
			{ID: "sec9", Text: "a"},
			{Text: "b"},
		},
	}
	doc := Render(bundle)
	if !strings.Contains(doc.Text, "## sec9") {
		t.Errorf("expected ID fallback heading:\n%s", doc.Text)
	}
	if !strings.Contains(doc.Text, "## Section 2") {
		t.Errorf("expected positional fallback heading:\n%s", doc.Text)
	}
}

func TestRenderFrontmatter(t *testing.T) {
	bundle := &core.CourseBundle{
		CourseID:   "cs101",
		CourseName: "Intro to CS",
		Sections:   []core.SectionView{{ID: "s1", Title: "S1", Text: "hi"}},
	}
	doc := Render(bundle, WithFrontmatter(), WithClock(fixedClock))
	if !strings.HasPrefix(doc.Text, "---\n") {
		t.Fatalf("document should start with frontmatter:\n%s", doc.Text)
	}
	for _, want := range []string{
		"course: Intro to CS",
		"sections: 1",
		"exported: \"2026-03-14T09:26:53Z\"",
	} {
		if !strings.Contains(doc.Text, want) {
			t.Errorf("frontmatter missing %q:\n%s", want, doc.Text)
		}
	}
}

func TestFilename(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Intro to CS", "intro-to-cs-notes.md"},
		{"  spaced   out  ", "-spaced-out--notes.md"},
		{"Déjà Vu!", "dj-vu-notes.md"},
		{"", "course-notes-notes.md"},
		{"???", "course-notes-notes.md"},
	}
	for _, tc := range cases {
		if got := Filename(tc.name); got != tc.want {
			t.Errorf("Filename(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
