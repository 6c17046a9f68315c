package codec

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Record is the validated payload stored under a storage key. Text is always
// present, even when the stored payload omitted it; every other field is
// optional and silently dropped when it arrives with the wrong shape.
type Record struct {
	Text         string `json:"text"`
	CourseName   string `json:"courseName,omitempty"`
	SavedAt      string `json:"savedAt,omitempty"`
	PageURL      string `json:"pageUrl,omitempty"`
	AnchorID     string `json:"anchorId,omitempty"`
	SectionTitle string `json:"sectionTitle,omitempty"`

	// Legacy marks a record recovered through the plain-text fallback path:
	// the stored value was not a qualifying structured payload and the whole
	// decoded string became the note text. Aggregation treats legacy text as
	// stored content like any other, but the discriminator lets callers audit
	// how a note was interpreted.
	Legacy bool `json:"-"`
}

// disallowedKeys are object keys associated with prototype manipulation in
// the payloads written by the original widget. A stored object carrying one
// of these as its own property is treated as a parse failure, never as data.
var disallowedKeys = []string{"__proto__", "constructor", "prototype"}

// allowedKeys is the full schema of a structured payload. Unknown keys are
// ignored, not fatal; they only matter for audit logging in the caller.
var allowedKeys = map[string]struct{}{
	"text":         {},
	"courseName":   {},
	"savedAt":      {},
	"pageUrl":      {},
	"anchorId":     {},
	"sectionTitle": {},
}

// Marshal serializes a record to its transport form: a JSON object holding
// only the fields actually present, percent-encoded. It never fails; if the
// JSON step itself errors the text field alone is percent-encoded, which
// round-trips through Unmarshal's legacy path.
func Marshal(rec Record) string {
	payload := map[string]string{"text": ValidateText(rec.Text, MaxTextLength)}
	if rec.CourseName != "" {
		payload["courseName"] = ValidateLabel(rec.CourseName, MaxLabelLength)
	}
	if rec.SavedAt != "" {
		payload["savedAt"] = rec.SavedAt
	}
	if rec.PageURL != "" {
		payload["pageUrl"] = rec.PageURL
	}
	if rec.AnchorID != "" {
		payload["anchorId"] = rec.AnchorID
	}
	if rec.SectionTitle != "" {
		payload["sectionTitle"] = ValidateLabel(rec.SectionTitle, MaxLabelLength)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return pctEscape(payload["text"])
	}
	return pctEscape(string(data))
}

// Unmarshal parses a stored transport value into a Record. It is a total
// function: for non-empty input it always produces a usable record, falling
// back to the legacy plain-text interpretation whenever the payload is not a
// well-shaped structured object. Only an empty raw value yields nil.
func Unmarshal(raw string) *Record {
	if raw == "" {
		return nil
	}

	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	if decoded == "" {
		return &Record{Text: ""}
	}

	obj, ok := parseObject(decoded)
	if !ok {
		return legacyRecord(decoded)
	}

	rec := &Record{}

	text := ""
	if v, present := obj["text"]; present {
		if s, isStr := v.(string); isStr {
			text = s
		}
	}

	// Double-encoding migration: an earlier writer version serialized the
	// whole payload twice, leaving a JSON object inside the text field. The
	// heuristic is best-effort on purpose: a brace-delimited text is only
	// treated as a migration case when it parses AND carries a string text
	// field of its own. Otherwise the braces are legitimate note content.
	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		if inner, innerOK := parseObject(text); innerOK {
			if innerText, isStr := inner["text"].(string); isStr {
				text = innerText
				if s, isStr := inner["courseName"].(string); isStr {
					obj["courseName"] = s
				}
				if s, isStr := inner["savedAt"].(string); isStr {
					obj["savedAt"] = s
				}
			}
		}
	}

	rec.Text = ValidateText(text, MaxTextLength)

	if v, present := obj["courseName"]; present {
		if s, isStr := v.(string); isStr {
			rec.CourseName = ValidateLabel(s, MaxLabelLength)
		}
	}
	if v, present := obj["savedAt"]; present {
		if s, isStr := v.(string); isStr && ValidTimestamp(s) {
			rec.SavedAt = s
		}
	}
	if v, present := obj["pageUrl"]; present {
		if s, isStr := v.(string); isStr {
			rec.PageURL = ValidateURL(s, nil)
		}
	}
	if v, present := obj["anchorId"]; present {
		if s, isStr := v.(string); isStr {
			rec.AnchorID = ValidateAnchor(s)
		}
	}
	if v, present := obj["sectionTitle"]; present {
		if s, isStr := v.(string); isStr {
			rec.SectionTitle = ValidateLabel(s, MaxLabelLength)
		}
	}

	return rec
}

// UnknownKeys lists the keys of a structured payload that fall outside the
// record schema. Callers log them for audit; they never affect decoding.
func UnknownKeys(raw string) []string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	obj, ok := parseObject(decoded)
	if !ok {
		return nil
	}
	var unknown []string
	for k := range obj {
		if _, known := allowedKeys[k]; !known {
			unknown = append(unknown, k)
		}
	}
	return unknown
}

// parseObject attempts a structured parse of s. ok is false on parse
// failure, on any non-object top-level shape, and on objects carrying a
// disallowed own property.
func parseObject(s string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	obj, isObj := v.(map[string]any)
	if !isObj || obj == nil {
		return nil, false
	}
	for _, k := range disallowedKeys {
		if _, present := obj[k]; present {
			return nil, false
		}
	}
	return obj, true
}

func legacyRecord(decoded string) *Record {
	return &Record{Text: ValidateText(decoded, MaxTextLength), Legacy: true}
}
