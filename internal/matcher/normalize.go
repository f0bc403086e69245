package matcher

import (
	"strings"
	"unicode"
)

// Normalize is the single text normalization used by every matching step:
// case folding, punctuation stripped, whitespace collapsed. Keeping it in
// one place guarantees step ordering is the only behavioral difference
// between steps.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	return b.String()
}

// tokens splits normalized input into words.
func tokens(s string) []string {
	return strings.Fields(Normalize(s))
}
