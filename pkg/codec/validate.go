// Package codec implements the wire formats of the note engine: identifier
// validation, storage key derivation, the note record transport encoding with
// its legacy migration path, and capacity estimation against the medium's
// per-entry ceiling.
//
// Every untrusted string entering or leaving the engine passes through exactly
// one of the validators in this file before it is trusted. This is the
// engine's sole security boundary: stored payloads, live form attributes, and
// CLI arguments are all sanitized here.
package codec

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	// MaxIDLength caps course and section identifiers.
	MaxIDLength = 100
	// MaxTextLength caps free-form note text.
	MaxTextLength = 5000
	// MaxLabelLength caps display labels (course names, section titles).
	MaxLabelLength = 200
)

var (
	idStrip      = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	timestampPat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)
)

// scriptSchemes are URL schemes that execute code when navigated to.
// A raw value starting with one of these is never passed through, even
// when the URL parser cannot make sense of it.
var scriptSchemes = []string{"javascript:", "data:", "vbscript:"}

// ValidateID strips every character outside [A-Za-z0-9_-] and truncates to
// maxLen. It never fails; the worst case is an empty string, which callers
// treat as an absent identifier. maxLen <= 0 means the default cap of 100.
func ValidateID(raw string, maxLen int) string {
	if raw == "" {
		return ""
	}
	if maxLen <= 0 {
		maxLen = MaxIDLength
	}
	s := idStrip.ReplaceAllString(raw, "")
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// ValidateText bounds free-form note text by length only. Any character is
// allowed; notes legitimately contain markup, braces, and punctuation.
// maxLen <= 0 means the default cap of 5000.
func ValidateText(raw string, maxLen int) string {
	if raw == "" {
		return ""
	}
	if maxLen <= 0 {
		maxLen = MaxTextLength
	}
	return truncate(raw, maxLen)
}

// ValidateLabel bounds a display label (course name, section title) by
// length. No character filtering: labels are always escaped at render time.
func ValidateLabel(raw string, maxLen int) string {
	if raw == "" {
		return ""
	}
	if maxLen <= 0 {
		maxLen = MaxLabelLength
	}
	return truncate(raw, maxLen)
}

// ValidateAnchor validates a page anchor with the identifier whitelist.
func ValidateAnchor(raw string) string {
	return ValidateID(raw, MaxIDLength)
}

// ValidTimestamp reports whether s carries the canonical
// YYYY-MM-DDTHH:MM:SS prefix. Anything after the seconds field
// (fractions, zone offset) is accepted as-is.
func ValidTimestamp(s string) bool {
	return timestampPat.MatchString(s)
}

// ValidateURL resolves raw against base and accepts only http, https, or the
// base's own scheme. When raw cannot be parsed at all, values beginning with
// a script-execution scheme are rejected outright and everything else is
// passed through unchanged as a best-effort fallback. Rejection yields "".
func ValidateURL(raw string, base *url.URL) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		if hasScriptScheme(raw) {
			return ""
		}
		return raw
	}
	resolved := parsed
	if base != nil {
		resolved = base.ResolveReference(parsed)
	}
	scheme := strings.ToLower(resolved.Scheme)
	switch {
	case scheme == "http", scheme == "https":
		return raw
	case base != nil && scheme != "" && scheme == strings.ToLower(base.Scheme):
		return raw
	}
	return ""
}

func hasScriptScheme(raw string) bool {
	probe := strings.ToLower(strings.TrimSpace(raw))
	for _, s := range scriptSchemes {
		if strings.HasPrefix(probe, s) {
			return true
		}
	}
	return false
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && (s[cut]&0xC0) == 0x80 {
		cut--
	}
	return s[:cut]
}
