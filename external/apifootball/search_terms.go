package apifootball

import (
	"strings"
	"unicode"
)

const minVariationLength = 3

// searchVariations expands a raw team query into ordered provider search
// terms. Punctuation is cleaned first (hyphens and periods become spaces),
// then positional variants are added: the full string; for "Al ..." names
// the second word and the first two words (Arabic club pattern); the final
// word; the final two words. Variants shorter than three characters are
// dropped and duplicates keep their first position.
func searchVariations(query string) []string {
	cleaned := cleanQuery(query)
	words := strings.Fields(cleaned)

	candidates := []string{cleaned}
	if len(words) >= 2 && strings.EqualFold(words[0], "al") {
		candidates = append(candidates, words[1], words[0]+" "+words[1])
	}
	if len(words) >= 1 {
		candidates = append(candidates, words[len(words)-1])
	}
	if len(words) >= 2 {
		candidates = append(candidates, strings.Join(words[len(words)-2:], " "))
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if len(candidate) < minVariationLength {
			continue
		}
		key := strings.ToLower(candidate)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, candidate)
	}

	return out
}

// cleanQuery keeps letters, digits and spaces, turning hyphens and periods
// into spaces first so "Al-Khaleej" searches as "Al Khaleej".
func cleanQuery(query string) string {
	var b strings.Builder
	b.Grow(len(query))
	for _, r := range query {
		switch {
		case r == '-' || r == '.':
			b.WriteByte(' ')
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
