// Package textnorm folds free-form text into a canonical comparable form.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold lowercases s, removes diacritics, turns hyphens and periods into
// spaces, drops all other punctuation and collapses runs of whitespace into
// single spaces. Folding an already-folded string is a no-op, and hyphenated
// and spaced spellings ("Al-Khaleej", "Al Khaleej") fold to the same string.
func Fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '-' || r == '.':
			b.WriteByte(' ')
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens splits the folded form of s into its words.
func Tokens(s string) []string {
	folded := Fold(s)
	if folded == "" {
		return nil
	}
	return strings.Fields(folded)
}
