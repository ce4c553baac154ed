package enumerated

import (
	"strings"
	"unicode"
)

// toSnake converts an attribute or field name to snake_case. Kept local
// because the output has to line up with column-style foreign-key names like
// "country_id" regardless of whether the input came from a declaration, a Go
// field name, or a struct tag.
func toSnake(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes)+len(runes)/2)

	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && boundaryBefore(runes, i) {
				out = append(out, '_')
			}
			out = append(out, unicode.ToLower(r))
		case unicode.IsLower(r):
			out = append(out, r)
		case unicode.IsDigit(r):
			if i > 0 && !unicode.IsDigit(runes[i-1]) {
				out = append(out, '_')
			}
			out = append(out, r)
		default:
			// Underscores, dashes, spaces and stray punctuation all become
			// separators; runs collapse below.
			out = append(out, '_')
		}
	}

	collapsed := out[:0]
	for _, r := range out {
		if r == '_' && (len(collapsed) == 0 || collapsed[len(collapsed)-1] == '_') {
			continue
		}
		collapsed = append(collapsed, r)
	}
	return strings.TrimRight(string(collapsed), "_")
}

// boundaryBefore reports whether a word boundary sits before the uppercase
// rune at i: a lower/digit on the left, or the end of an acronym run.
func boundaryBefore(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	next := i + 1
	return unicode.IsUpper(prev) && next < len(runes) && unicode.IsLower(runes[next])
}
