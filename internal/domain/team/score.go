package team

import "strings"

// AcceptThreshold is the minimum score at which the top-ranked candidate is
// considered a confident match. Below it resolution still returns the best
// candidate, flagged as best-effort.
const AcceptThreshold = 0.5

// Score rates how well a candidate name matches a search term. Both inputs
// must already be folded (textnorm.Fold). Tiers are a precedence chain, not
// a maximum: exact and containment checks short-circuit before the token and
// character fallbacks.
//
//	1.0   equal
//	0.9   search contained in candidate
//	0.85  candidate contained in search
//	0.5 + 0.4*J  token Jaccard, when at least one token is shared
//	0.5 * overlap/maxLen  character overlap otherwise
//	0.0   either side empty
func Score(search, candidate string) float64 {
	if search == "" || candidate == "" {
		return 0
	}
	if search == candidate {
		return 1.0
	}
	if strings.Contains(candidate, search) {
		return 0.9
	}
	if strings.Contains(search, candidate) {
		return 0.85
	}

	searchSet := make(map[string]struct{})
	for _, tok := range strings.Fields(search) {
		searchSet[tok] = struct{}{}
	}
	candidateSet := make(map[string]struct{})
	for _, tok := range strings.Fields(candidate) {
		candidateSet[tok] = struct{}{}
	}

	// Jaccard over token sets, so repeated tokens on either side count once.
	shared := 0
	union := len(searchSet)
	for tok := range candidateSet {
		if _, ok := searchSet[tok]; ok {
			shared++
			continue
		}
		union++
	}

	if shared > 0 {
		return 0.5 + 0.4*float64(shared)/float64(union)
	}

	return 0.5 * charOverlap(search, candidate)
}

// charOverlap is the share of search characters that also occur in
// candidate, relative to the longer of the two strings.
func charOverlap(search, candidate string) float64 {
	candidateRunes := make(map[rune]struct{})
	candidateLen := 0
	for _, r := range candidate {
		candidateRunes[r] = struct{}{}
		candidateLen++
	}

	searchLen := 0
	matched := 0
	for _, r := range search {
		searchLen++
		if _, ok := candidateRunes[r]; ok {
			matched++
		}
	}

	maxLen := searchLen
	if candidateLen > maxLen {
		maxLen = candidateLen
	}
	if maxLen == 0 {
		return 0
	}

	return float64(matched) / float64(maxLen)
}
