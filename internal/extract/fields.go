package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Fields reads values out of a JSON object with a default for every
// missing or mistyped field. Each getter accepts alternative key spellings
// and uses the first one present.
type Fields struct {
	raw string
}

// NewFields wraps a JSON object.
func NewFields(raw json.RawMessage) Fields {
	return Fields{raw: string(raw)}
}

func (f Fields) lookup(keys []string) (gjson.Result, bool) {
	for _, k := range keys {
		r := gjson.Get(f.raw, escapeKey(k))
		if r.Exists() && r.Type != gjson.Null {
			return r, true
		}
	}
	return gjson.Result{}, false
}

// Has reports whether any of keys is present and non-null.
func (f Fields) Has(keys ...string) bool {
	_, ok := f.lookup(keys)
	return ok
}

// String returns the first present key as a trimmed string, or def.
func (f Fields) String(def string, keys ...string) string {
	r, ok := f.lookup(keys)
	if !ok || r.IsObject() || r.IsArray() {
		return def
	}
	return strings.TrimSpace(r.String())
}

// Int returns the first present key as an integer, or def. Numeric
// strings such as "2" are accepted; fractional numbers are not.
func (f Fields) Int(def int, keys ...string) int {
	r, ok := f.lookup(keys)
	if !ok {
		return def
	}
	switch r.Type {
	case gjson.Number:
		if r.Num != float64(int64(r.Num)) {
			return def
		}
		return int(r.Int())
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(r.Str))
		if err != nil {
			return def
		}
		return n
	default:
		return def
	}
}

// Bool returns the first present key as a boolean, or def. The strings
// "true" and "false" are accepted in any case.
func (f Fields) Bool(def bool, keys ...string) bool {
	b, ok := f.OptionalBool(keys...)
	if !ok {
		return def
	}
	return b
}

// OptionalBool is Bool that reports whether a usable value was present.
func (f Fields) OptionalBool(keys ...string) (bool, bool) {
	r, ok := f.lookup(keys)
	if !ok {
		return false, false
	}
	switch r.Type {
	case gjson.True:
		return true, true
	case gjson.False:
		return false, true
	case gjson.String:
		switch strings.ToLower(strings.TrimSpace(r.Str)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// Strings returns the first present key as a list of strings. Non-string
// elements are rendered with their JSON text. Missing keys give nil.
func (f Fields) Strings(keys ...string) []string {
	r, ok := f.lookup(keys)
	if !ok || !r.IsArray() {
		return nil
	}
	var out []string
	for _, el := range r.Array() {
		out = append(out, strings.TrimSpace(el.String()))
	}
	return out
}

// escapeKey protects gjson path syntax characters in a plain key.
func escapeKey(k string) string {
	var b strings.Builder
	for _, r := range k {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
