package codec

import "testing"

func TestEncodeKey(t *testing.T) {
	tests := []struct {
		name      string
		courseID  string
		sectionID string
		want      string
	}{
		{"both ids", "math101", "week-1", "noodle_week-1_math101"},
		{"section only", "", "week-1", "noodle_week-1"},
		{"ids pass through unencoded", "c_1", "s-2", "noodle_s-2_c_1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := EncodeKey(tc.courseID, tc.sectionID); got != tc.want {
				t.Errorf("EncodeKey(%q, %q) = %q, want %q", tc.courseID, tc.sectionID, got, tc.want)
			}
		})
	}
}

func TestKeyRoundTrip(t *testing.T) {
	pairs := []struct{ courseID, sectionID string }{
		{"math101", "week-1"},
		{"", "orientation"},
		{"c", "s"},
		{"HIST-200", "lecture-notes"},
	}
	for _, p := range pairs {
		key := EncodeKey(p.courseID, p.sectionID)
		section, course, ok := DecodeKey(key)
		if !ok {
			t.Fatalf("DecodeKey(%q) not ok", key)
		}
		if section != p.sectionID || course != p.courseID {
			t.Errorf("round trip of (%q, %q) via %q gave (%q, %q)",
				p.courseID, p.sectionID, key, course, section)
		}
	}
}

func TestDecodeKey(t *testing.T) {
	t.Run("missing prefix", func(t *testing.T) {
		if _, _, ok := DecodeKey("session_abc"); ok {
			t.Error("expected ok=false for foreign key")
		}
	})

	t.Run("empty remainder", func(t *testing.T) {
		if _, _, ok := DecodeKey("noodle_"); ok {
			t.Error("expected ok=false for empty remainder")
		}
	})

	t.Run("splits on last underscore", func(t *testing.T) {
		// The section half may itself contain underscores; only the final
		// token is the course suffix.
		section, course, ok := DecodeKey("noodle_week_one_math101")
		if !ok {
			t.Fatal("expected ok")
		}
		if section != "week_one" || course != "math101" {
			t.Errorf("got section=%q course=%q", section, course)
		}
	})

	t.Run("section-only legacy form", func(t *testing.T) {
		section, course, ok := DecodeKey("noodle_orientation")
		if !ok {
			t.Fatal("expected ok")
		}
		if section != "orientation" || course != "" {
			t.Errorf("got section=%q course=%q", section, course)
		}
	})

	t.Run("percent-decoded halves revalidated", func(t *testing.T) {
		// %2F decodes to '/', which the identifier whitelist strips.
		section, course, ok := DecodeKey("noodle_a%2Fb_math101")
		if !ok {
			t.Fatal("expected ok")
		}
		if section != "ab" || course != "math101" {
			t.Errorf("got section=%q course=%q", section, course)
		}
	})

	t.Run("malformed percent escape yields empty id", func(t *testing.T) {
		section, course, ok := DecodeKey("noodle_a%ZZ_math101")
		if !ok {
			t.Fatal("expected ok")
		}
		if section != "" {
			t.Errorf("expected empty section for undecodable half, got %q", section)
		}
		if course != "math101" {
			t.Errorf("got course=%q", course)
		}
	})
}
