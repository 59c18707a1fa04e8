// Package team holds the canonical team identity model and the fuzzy
// matching used to resolve free-form names against provider search results.
package team

import (
	"sort"
	"strings"

	"github.com/betfaro/betstats/internal/platform/textnorm"
)

// Team is a provider-recognized team identity. Immutable once resolved.
type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Candidate pairs a search result with its similarity score against the
// requested name. Ephemeral, produced per resolution call.
type Candidate struct {
	Team  Team
	Score float64
}

// Markers identifying youth, reserve and women's squads. A search for a bare
// club name should land on the main men's side, so results carrying any of
// these are dropped during ranking.
var youthSquadMarkers = []string{
	"women", "feminino", "u20", "u21", "u23", "reserve", "b team", "ii", "sub-",
}

func HasYouthSquadMarker(name string) bool {
	folded := textnorm.Fold(name)
	lowered := strings.ToLower(name)
	for _, marker := range youthSquadMarkers {
		if strings.Contains(folded, marker) || strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// RankCandidates filters out youth/reserve/women squads, scores the
// survivors against the folded search term and returns them ordered by
// score descending. Ties keep provider order.
func RankCandidates(search string, teams []Team) []Candidate {
	folded := textnorm.Fold(search)

	candidates := make([]Candidate, 0, len(teams))
	for _, t := range teams {
		if HasYouthSquadMarker(t.Name) {
			continue
		}
		candidates = append(candidates, Candidate{
			Team:  t,
			Score: Score(folded, textnorm.Fold(t.Name)),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates
}
