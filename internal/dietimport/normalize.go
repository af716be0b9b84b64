package dietimport

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes header text for alias comparison: lower case,
// NFD with combining marks removed, then only [a-z0-9] kept.
// It is never applied to cell contents.
func Normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	decomposed, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		decomposed = strings.ToLower(text)
	}

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
