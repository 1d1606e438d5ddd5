package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	multiSpaceRegex = regexp.MustCompile(`\s+`)

	// NFD-decompose, drop combining marks, recompose. Turns "Güemes" into
	// "Guemes" so keyword tables only need unaccented forms.
	foldTransformer = transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
)

// Fold lowercases s, strips diacritics and collapses runs of whitespace.
// Everything that does keyword or blacklist matching runs input through here
// first so the tables stay accent-free.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	folded = multiSpaceRegex.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}

// Slug builds a URL path segment: folded, non-alphanumerics collapsed to
// single hyphens.
func Slug(s string) string {
	folded := Fold(s)
	var b strings.Builder
	lastHyphen := true
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
