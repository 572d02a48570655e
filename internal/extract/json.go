// Package extract pulls structured data out of free-form model output:
// JSON embedded in prose or code fences, fields with explicit defaults,
// and labeled sections of plain-text reports.
package extract

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
)

// Object returns the JSON object embedded in text.
//
// The slice from the first '{' to the last '}' is tried first. When that is
// not valid JSON (prose braces, two objects), each '{' is tried in turn and
// the first complete object decoded from it wins. Returns false when no
// object can be found.
func Object(text string) (json.RawMessage, bool) {
	return embedded(StripFences(text), '{', '}')
}

// Array is Object for a top-level JSON array.
func Array(text string) (json.RawMessage, bool) {
	return embedded(StripFences(text), '[', ']')
}

func embedded(text string, open, close byte) (json.RawMessage, bool) {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start < 0 || end < start {
		return nil, false
	}

	candidate := text[start : end+1]
	if json.Valid([]byte(candidate)) {
		return json.RawMessage(candidate), true
	}

	for i := start; i <= end; i++ {
		if text[i] != open {
			continue
		}
		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&raw); err != nil {
			continue
		}
		if raw = bytes.TrimSpace(raw); len(raw) > 0 && raw[0] == open {
			return raw, true
		}
	}
	return nil, false
}

// StripFences removes markdown code fence markers (``` or ```json) and
// returns the remaining text. Content sharing a line with a fence, as in
// a single-line ```json {...}``` reply, is kept.
func StripFences(text string) string {
	if !strings.Contains(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, l := range lines {
		t := strings.TrimSpace(l)
		fenced := false
		if rest, ok := strings.CutPrefix(t, "```"); ok {
			t = strings.TrimLeftFunc(rest, isFenceTag)
			fenced = true
		}
		if rest, ok := strings.CutSuffix(t, "```"); ok {
			t = rest
			fenced = true
		}
		if !fenced {
			kept = append(kept, l)
			continue
		}
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, "\n")
}

// isFenceTag reports whether r can appear in a fence language tag.
func isFenceTag(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '+'
}
