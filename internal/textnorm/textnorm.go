// Package textnorm folds free-text order descriptions into a form the keyword
// classifier can match against.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// keptLetters are accepted beyond [a-zA-Z0-9]. After mark stripping only ß can
// still appear, the rest are listed so precomposed input that slipped past NFD
// is not lost.
const keptLetters = "äöüßáéíóú"

// Normalize decomposes s, drops combining marks, deletes punctuation and
// lowercases the result. It is idempotent and never fails; empty input yields "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ReplaceAll(folded, "#", "")
	folded = strings.ReplaceAll(folded, "\u00a0", " ")

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}

func keep(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-' || unicode.IsSpace(r):
		return true
	}
	return strings.ContainsRune(keptLetters, r)
}
