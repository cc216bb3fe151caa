package customize

import (
	"strconv"
	"strings"
)

// Normalize parses a locale-flexible decimal string (comma or dot
// separator) into a magnitude. An empty string is 0. Invalid strings
// are prevented at the input-filtering layer (ValidInput), so this
// never returns an error; anything unparsable maps to 0.
func Normalize(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return 0
	}
	return v
}

// ValidInput reports whether raw is an acceptable dimension entry:
// digits with at most one separator (comma or dot). The caller must
// refuse the edit when this returns false rather than committing the
// string to state.
func ValidInput(raw string) bool {
	separators := 0
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
		case r == ',' || r == '.':
			separators++
			if separators > 1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
