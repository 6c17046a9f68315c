package codec

import (
	"net/url"
	"strings"
)

// KeyPrefix namespaces every storage key owned by the engine. Entries
// written by earlier widget versions carry the same prefix, which is what
// makes the legacy migration path reachable at all.
const KeyPrefix = "noodle_"

// EncodeKey derives the storage key for a (course, section) pair. The
// section identifier comes first; a non-empty course identifier is appended
// after an underscore. Both halves are percent-encoded, so the derivation is
// a bijection over valid identifier pairs and DecodeKey can always recover
// them.
func EncodeKey(courseID, sectionID string) string {
	key := KeyPrefix + pctEscape(sectionID)
	if courseID != "" {
		key += "_" + pctEscape(courseID)
	}
	return key
}

// DecodeKey decomposes a storage key into its section and course
// identifiers. ok is false when the key lacks the namespace prefix or
// reduces to an empty remainder.
//
// The remainder splits on the LAST underscore: a percent-encoded section
// half can itself contain encoded bytes, but the course suffix is always the
// final underscore-delimited token. Keys with no underscore are the
// section-only legacy form. Percent-decode failure yields empty identifiers
// rather than an error.
func DecodeKey(key string) (sectionID, courseID string, ok bool) {
	if !strings.HasPrefix(key, KeyPrefix) {
		return "", "", false
	}
	remainder := key[len(KeyPrefix):]
	if remainder == "" {
		return "", "", false
	}

	idx := strings.LastIndex(remainder, "_")
	if idx == -1 {
		return decodeIDPart(remainder), "", true
	}

	sectionID = decodeIDPart(remainder[:idx])
	courseID = decodeIDPart(remainder[idx+1:])
	return sectionID, courseID, true
}

func decodeIDPart(part string) string {
	decoded, err := url.PathUnescape(part)
	if err != nil {
		return ""
	}
	return ValidateID(decoded, MaxIDLength)
}

// pctEscape percent-encodes s the way the original widget's
// encodeURIComponent did: unreserved marks survive, everything else becomes
// %XX. Validated identifiers pass through unchanged, but the codec must not
// rely on its inputs having been validated.
func pctEscape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0xF])
	}
	return b.String()
}

const upperhex = "0123456789ABCDEF"

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
