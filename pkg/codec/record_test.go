package codec

import (
	"strings"
	"testing"
)

func TestRecordRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{"text only", Record{Text: "remember the quiz"}},
		{"all fields", Record{
			Text:         "lecture covered chapters 3-4",
			CourseName:   "Intro to Databases",
			SavedAt:      "2024-03-01T10:15:00",
			PageURL:      "https://campus.example.org/c/db101",
			AnchorID:     "week-3",
			SectionTitle: "Week 3",
		}},
		{"empty text", Record{Text: ""}},
		{"text with braces", Record{Text: "{not: json, just notes}"}},
		{"text with unicode and newlines", Record{Text: "héllo\nwörld ✓"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Unmarshal(Marshal(tc.rec))
			if got == nil {
				t.Fatal("Unmarshal returned nil")
			}
			if got.Text != tc.rec.Text {
				t.Errorf("Text = %q, want %q", got.Text, tc.rec.Text)
			}
			if got.CourseName != tc.rec.CourseName {
				t.Errorf("CourseName = %q, want %q", got.CourseName, tc.rec.CourseName)
			}
			if got.SavedAt != tc.rec.SavedAt {
				t.Errorf("SavedAt = %q, want %q", got.SavedAt, tc.rec.SavedAt)
			}
			if got.PageURL != tc.rec.PageURL {
				t.Errorf("PageURL = %q, want %q", got.PageURL, tc.rec.PageURL)
			}
			if got.AnchorID != tc.rec.AnchorID {
				t.Errorf("AnchorID = %q, want %q", got.AnchorID, tc.rec.AnchorID)
			}
			if got.SectionTitle != tc.rec.SectionTitle {
				t.Errorf("SectionTitle = %q, want %q", got.SectionTitle, tc.rec.SectionTitle)
			}
			if got.Legacy {
				t.Error("structured round trip must not be marked legacy")
			}
		})
	}
}

func TestUnmarshalEmpty(t *testing.T) {
	if got := Unmarshal(""); got != nil {
		t.Errorf("Unmarshal(\"\") = %v, want nil", got)
	}
}

func TestUnmarshalLegacyPlainText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain prose", "just some old note", "just some old note"},
		{"json string literal", `"a quoted note"`, `"a quoted note"`},
		{"json number", "42", "42"},
		{"json array", `["a","b"]`, `["a","b"]`},
		{"percent-encoded prose", "old%20note", "old note"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Unmarshal(tc.raw)
			if got == nil {
				t.Fatal("Unmarshal returned nil for non-empty input")
			}
			if got.Text != tc.want {
				t.Errorf("Text = %q, want %q", got.Text, tc.want)
			}
			if !got.Legacy {
				t.Error("expected legacy discriminator")
			}
		})
	}
}

func TestUnmarshalLegacyTruncates(t *testing.T) {
	long := strings.Repeat("x", MaxTextLength+500)
	got := Unmarshal(long)
	if got == nil {
		t.Fatal("nil record")
	}
	if len(got.Text) != MaxTextLength {
		t.Errorf("legacy text length = %d, want %d", len(got.Text), MaxTextLength)
	}
}

func TestUnmarshalDecodeFailureUsesRaw(t *testing.T) {
	// %GG is not a valid escape; the raw value becomes the decoded value.
	got := Unmarshal("broken %GG escape")
	if got == nil {
		t.Fatal("nil record")
	}
	if got.Text != "broken %GG escape" {
		t.Errorf("Text = %q", got.Text)
	}
	if !got.Legacy {
		t.Error("expected legacy record")
	}
}

func TestUnmarshalBarePercent(t *testing.T) {
	// "%" cannot be percent-decoded; the raw value is used unchanged.
	got := Unmarshal("%")
	if got == nil {
		t.Fatal("nil record")
	}
	if got.Text != "%" {
		t.Errorf("Text = %q, want %q", got.Text, "%")
	}
}

func TestUnmarshalStructuralThreat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"__proto__", `{"text":"hi","__proto__":{"polluted":true}}`},
		{"constructor", `{"text":"hi","constructor":{}}`},
		{"prototype", `{"text":"hi","prototype":{}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Unmarshal(tc.raw)
			if got == nil {
				t.Fatal("nil record")
			}
			// Same fallback as a parse failure: the whole decoded payload
			// becomes literal note text.
			if !got.Legacy {
				t.Error("structural threat must degrade to the legacy path")
			}
			if got.Text != tc.raw {
				t.Errorf("Text = %q, want the raw payload", got.Text)
			}
			if got.CourseName != "" || got.SavedAt != "" {
				t.Error("no structured fields may survive a structural threat")
			}
		})
	}
}

func TestUnmarshalDropsWrongTypes(t *testing.T) {
	raw := `{"text":"ok","courseName":42,"savedAt":true,"pageUrl":["x"],"anchorId":7,"sectionTitle":{}}`
	got := Unmarshal(raw)
	if got == nil {
		t.Fatal("nil record")
	}
	if got.Legacy {
		t.Fatal("well-formed object must not be legacy")
	}
	if got.Text != "ok" {
		t.Errorf("Text = %q", got.Text)
	}
	if got.CourseName != "" || got.SavedAt != "" || got.PageURL != "" ||
		got.AnchorID != "" || got.SectionTitle != "" {
		t.Errorf("wrong-typed fields must be dropped: %+v", got)
	}
}

func TestUnmarshalDropsInvalidValues(t *testing.T) {
	raw := `{"text":"ok","savedAt":"last tuesday","pageUrl":"javascript:alert(1)","anchorId":"a b!c"}`
	got := Unmarshal(raw)
	if got == nil {
		t.Fatal("nil record")
	}
	if got.SavedAt != "" {
		t.Errorf("non-ISO savedAt must be dropped, got %q", got.SavedAt)
	}
	if got.PageURL != "" {
		t.Errorf("script URL must be dropped, got %q", got.PageURL)
	}
	if got.AnchorID != "abc" {
		t.Errorf("anchor must be whitelisted, got %q", got.AnchorID)
	}
}

func TestUnmarshalMissingTextDefaultsEmpty(t *testing.T) {
	got := Unmarshal(`{"courseName":"Databases"}`)
	if got == nil {
		t.Fatal("nil record")
	}
	if got.Text != "" {
		t.Errorf("Text = %q, want empty", got.Text)
	}
	if got.CourseName != "Databases" {
		t.Errorf("CourseName = %q", got.CourseName)
	}
}

func TestUnmarshalDoubleEncodedMigration(t *testing.T) {
	outer := `{"text":"{\"text\":\"hello\",\"savedAt\":\"2023-01-01T00:00:00\"}"}`
	raw := pctEscape(outer)

	got := Unmarshal(raw)
	if got == nil {
		t.Fatal("nil record")
	}
	if got.Text != "hello" {
		t.Errorf("Text = %q, want %q", got.Text, "hello")
	}
	if got.SavedAt != "2023-01-01T00:00:00" {
		t.Errorf("SavedAt = %q", got.SavedAt)
	}
}

func TestUnmarshalDoubleEncodedInnerCourseName(t *testing.T) {
	outer := `{"text":"{\"text\":\"inner\",\"courseName\":\"Real Course\"}","courseName":"Stale Course"}`
	got := Unmarshal(pctEscape(outer))
	if got == nil {
		t.Fatal("nil record")
	}
	if got.Text != "inner" {
		t.Errorf("Text = %q", got.Text)
	}
	if got.CourseName != "Real Course" {
		t.Errorf("inner courseName must supersede, got %q", got.CourseName)
	}
}

func TestUnmarshalBraceTextNotJSON(t *testing.T) {
	// Text that merely looks like an object stays literal content.
	outer := `{"text":"{this is not json}"}`
	got := Unmarshal(pctEscape(outer))
	if got == nil {
		t.Fatal("nil record")
	}
	if got.Text != "{this is not json}" {
		t.Errorf("Text = %q", got.Text)
	}
}

func TestUnmarshalInnerObjectWithoutTextKept(t *testing.T) {
	// Inner parse succeeds but has no string text field: not a migration
	// case, the outer text stays as-is.
	outer := `{"text":"{\"foo\":1}"}`
	got := Unmarshal(pctEscape(outer))
	if got == nil {
		t.Fatal("nil record")
	}
	if got.Text != `{"foo":1}` {
		t.Errorf("Text = %q", got.Text)
	}
}

func TestUnknownKeys(t *testing.T) {
	raw := `{"text":"x","surprise":1,"another":"y"}`
	keys := UnknownKeys(raw)
	if len(keys) != 2 {
		t.Fatalf("UnknownKeys = %v", keys)
	}
}

func TestMarshalOmitsAbsentFields(t *testing.T) {
	raw := Marshal(Record{Text: "only text"})
	decoded := Unmarshal(raw)
	if decoded == nil || decoded.Text != "only text" {
		t.Fatalf("round trip failed: %+v", decoded)
	}
	if strings.Contains(raw, "courseName") || strings.Contains(raw, "savedAt") {
		t.Errorf("absent fields leaked into transport form: %q", raw)
	}
}
