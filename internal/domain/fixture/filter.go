package fixture

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MinSampleSize is the smallest fixture count considered statistically
// usable downstream.
const MinSampleSize = 5

// League names and types carrying any of these are exhibition games and
// never enter statistics.
var friendlyKeywords = []string{
	"friendly", "amistoso", "charity", "beneficente", "test match",
	"exhibition", "testimonial", "memorial", "trophy friendly",
	"pre-season", "pre season", "preseason", "club friendly",
}

var friendlyLeagueTypes = map[string]struct{}{
	"friendly":               {},
	"club friendly":          {},
	"international friendly": {},
}

// ValidatedSample is the outcome of cleaning a raw fixture list. Fixtures
// are ordered most recent first. Valid means the sample is large enough for
// statistics; callers decide whether an invalid sample aborts the request.
type ValidatedSample struct {
	Fixtures           []Fixture
	RequestedCount     int
	ExcludedFriendlies int
	ExcludedUnfinished int
	ExcludedFuture     int
	Valid              bool
	Warnings           []string
}

// IsFriendly reports whether the fixture belongs to an exhibition
// competition, judged by league name and league type.
func IsFriendly(f Fixture) bool {
	leagueType := strings.ToLower(strings.TrimSpace(f.LeagueType))
	if _, ok := friendlyLeagueTypes[leagueType]; ok {
		return true
	}

	name := strings.ToLower(f.LeagueName)
	for _, keyword := range friendlyKeywords {
		if strings.Contains(name, keyword) || strings.Contains(leagueType, keyword) {
			return true
		}
	}

	return false
}

// Validate cleans raw fixtures into a sample usable for statistics. Rules
// apply in order: drop friendlies, drop non-final or unscored fixtures,
// drop future kickoffs, sort by kickoff descending, truncate to
// requestedCount. Exclusion counts and shortfall warnings are recorded on
// the returned sample.
func Validate(raw []Fixture, requestedCount int, now time.Time) ValidatedSample {
	sample := ValidatedSample{RequestedCount: requestedCount}

	kept := make([]Fixture, 0, len(raw))
	for _, f := range raw {
		if IsFriendly(f) {
			sample.ExcludedFriendlies++
			continue
		}
		if !f.Final() || !f.Scored() {
			sample.ExcludedUnfinished++
			continue
		}
		if f.KickoffAt.After(now) {
			sample.ExcludedFuture++
			continue
		}
		kept = append(kept, f)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].KickoffAt.After(kept[j].KickoffAt)
	})

	if requestedCount > 0 && len(kept) > requestedCount {
		kept = kept[:requestedCount]
	}
	sample.Fixtures = kept

	switch {
	case len(kept) < MinSampleSize:
		sample.Valid = false
		sample.Warnings = append(sample.Warnings, fmt.Sprintf(
			"insufficient data: only %d valid fixtures, need at least %d", len(kept), MinSampleSize))
	case len(kept) < requestedCount:
		sample.Valid = true
		sample.Warnings = append(sample.Warnings, fmt.Sprintf(
			"reduced sample: %d valid fixtures of %d requested", len(kept), requestedCount))
	default:
		sample.Valid = true
	}

	return sample
}
