package extract

import "strings"

// Section is one labeled field of a plain-text report.
type Section struct {
	Marker string
	Value  string
	Found  bool
}

// Sections locates each marker in text, in order and ignoring ASCII case,
// and returns the value that follows it.
//
// A value runs from the end of its marker to the end of that line or the
// start of the next found marker, whichever comes first. When that is
// blank, the first non-blank line before the next marker is used instead.
// Surrounding whitespace, markdown emphasis and quotes are trimmed. A
// marker that does not occur yields Found == false.
func Sections(text string, markers ...string) []Section {
	out := make([]Section, len(markers))
	starts := make([]int, len(markers))
	ends := make([]int, len(markers))

	from := 0
	for i, m := range markers {
		out[i].Marker = m
		starts[i] = -1
		idx := indexFold(text, m, from)
		if idx < 0 {
			// Tolerate out-of-order reports by retrying from the top.
			idx = indexFold(text, m, 0)
		}
		if idx < 0 {
			continue
		}
		starts[i] = idx
		ends[i] = idx + len(m)
		if ends[i] > from {
			from = ends[i]
		}
		out[i].Found = true
	}

	for i := range markers {
		if starts[i] < 0 {
			continue
		}
		limit := len(text)
		for j := range markers {
			if starts[j] > starts[i] && starts[j] < limit {
				limit = starts[j]
			}
		}
		body := text[ends[i]:limit]
		if limit < len(text) {
			body = trimEnumerator(strings.TrimRight(body, " \t"))
		}
		out[i].Value = sectionValue(body)
	}
	return out
}

func sectionValue(body string) string {
	line, rest, _ := strings.Cut(body, "\n")
	if v := cleanValue(line); v != "" {
		return v
	}
	for _, l := range strings.Split(rest, "\n") {
		if v := cleanValue(l); v != "" {
			return v
		}
	}
	return ""
}

const valueCutset = " \t\r*_`\"'“”"

func cleanValue(s string) string {
	return strings.Trim(s, valueCutset)
}

// trimEnumerator drops a trailing list number such as "4." that belongs to
// the marker following s.
func trimEnumerator(s string) string {
	end := len(s)
	if end == 0 || (s[end-1] != '.' && s[end-1] != ')') {
		return s
	}
	i := end - 1
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == end-1 || (i > 0 && !strings.ContainsRune(" \t\n*", rune(s[i-1]))) {
		return s
	}
	return s[:i]
}

// ContainsFold reports whether substr is within s, ignoring ASCII case.
func ContainsFold(s, substr string) bool {
	return indexFold(s, substr, 0) >= 0
}

// indexFold returns the byte index of the first match of substr in s at or
// after from, comparing ASCII letters case-insensitively. Byte offsets are
// those of s itself, so slicing s with them is always safe.
func indexFold(s, substr string, from int) int {
	n := len(substr)
	if n == 0 {
		return from
	}
	for i := from; i+n <= len(s); i++ {
		if equalFoldASCII(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
