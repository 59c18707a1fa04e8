// Package picks turns two teams' statistics into ranked market
// recommendations and orders a day's fixtures by league priority.
package picks

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/betfaro/betstats/internal/domain/fixture"
	"github.com/betfaro/betstats/internal/domain/stats"
)

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "LOW"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceHigh   ConfidenceLevel = "HIGH"
)

const (
	MarketOver25  = "Over 2.5"
	MarketUnder25 = "Under 2.5"
	MarketOver15  = "Over 1.5"
	MarketBTTSYes = "BTTS Yes"
	MarketBTTSNo  = "BTTS No"
)

// Pick is one market recommendation with its confidence percentage,
// coarse tier label and a short justification.
type Pick struct {
	Market        string          `json:"market"`
	Confidence    float64         `json:"confidence"`
	Level         ConfidenceLevel `json:"confidence_level"`
	Justification string          `json:"justification"`
}

// Generate evaluates the fixed rule set against both teams' stats and
// returns at most the two highest-confidence picks. Rules fire
// independently; the 45-50 band on the over-2.5 mean triggers neither the
// over nor the under market.
func Generate(a, b stats.TeamStats, nameA, nameB string) []Pick {
	meanOver25 := (a.Over25Rate + b.Over25Rate) / 2
	meanOver15 := (a.Over15Rate + b.Over15Rate) / 2
	meanBTTS := (a.BTTSRate + b.BTTSRate) / 2
	meanTotalGoals := (a.AvgGoalsFor + a.AvgGoalsAgainst + b.AvgGoalsFor + b.AvgGoalsAgainst) / 2

	var out []Pick

	if meanOver25 >= 50 {
		confidence := clampConfidence(meanOver25)
		out = append(out, Pick{
			Market:     MarketOver25,
			Confidence: round1(confidence),
			Level:      standardLevel(confidence),
			Justification: fmt.Sprintf("Over 2.5 hit %.0f%% (%s) and %.0f%% (%s) of recent games",
				a.Over25Rate, nameA, b.Over25Rate, nameB),
		})
	}

	if meanOver25 < 45 {
		confidence := clampConfidence(100 - meanOver25)
		out = append(out, Pick{
			Market:     MarketUnder25,
			Confidence: round1(confidence),
			Level:      standardLevel(confidence),
			Justification: fmt.Sprintf("Combined average of %.1f goals per game",
				meanTotalGoals),
		})
	}

	if meanOver15 >= 70 {
		confidence := clampConfidence(meanOver15)
		out = append(out, Pick{
			Market:     MarketOver15,
			Confidence: round1(confidence),
			Level:      over15Level(confidence),
			Justification: fmt.Sprintf("Over 1.5 hit %.0f%% (%s) and %.0f%% (%s) of recent games",
				a.Over15Rate, nameA, b.Over15Rate, nameB),
		})
	}

	if meanBTTS >= 55 {
		confidence := clampConfidence(meanBTTS)
		out = append(out, Pick{
			Market:     MarketBTTSYes,
			Confidence: round1(confidence),
			Level:      standardLevel(confidence),
			Justification: fmt.Sprintf("Both teams scored in %.0f%% (%s) and %.0f%% (%s) of recent games",
				a.BTTSRate, nameA, b.BTTSRate, nameB),
		})
	}

	if meanBTTS < 40 {
		confidence := clampConfidence(100 - meanBTTS)
		out = append(out, Pick{
			Market:     MarketBTTSNo,
			Confidence: round1(confidence),
			Level:      standardLevel(confidence),
			Justification: fmt.Sprintf("Clean sheets in %.0f%% (%s) and %.0f%% (%s) of recent games",
				a.CleanSheetRate, nameA, b.CleanSheetRate, nameB),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if len(out) > 2 {
		out = out[:2]
	}

	return out
}

// RankDailyFixtures keeps not-yet-played fixtures from priority leagues and
// orders them by tier ascending, then kickoff ascending, truncated to
// maxCount. Fixtures without a kickoff time cannot be ordered and are
// dropped.
func RankDailyFixtures(fixtures []fixture.Fixture, maxCount int) []fixture.Fixture {
	ranked := make([]fixture.Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		if f.KickoffAt.IsZero() {
			continue
		}
		if !notYetPlayed(f.Status) {
			continue
		}
		if LeaguePriority(f.LeagueID) == NonPriorityTier {
			continue
		}
		ranked = append(ranked, f)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := LeaguePriority(ranked[i].LeagueID), LeaguePriority(ranked[j].LeagueID)
		if pi != pj {
			return pi < pj
		}
		return ranked[i].KickoffAt.Before(ranked[j].KickoffAt)
	})

	if maxCount > 0 && len(ranked) > maxCount {
		ranked = ranked[:maxCount]
	}

	return ranked
}

// Postponed and suspended games may still be rescheduled for the day, so
// they stay in the daily pool alongside unstarted ones.
func notYetPlayed(status string) bool {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "NS", "TBD", "SUSP", "PST",
		fixture.StatusScheduled, fixture.StatusSuspended, fixture.StatusPostponed:
		return true
	default:
		return false
	}
}

func clampConfidence(v float64) float64 {
	return math.Min(v, 99)
}

func standardLevel(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= 70:
		return ConfidenceHigh
	case confidence >= 55:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Over 1.5 lands so often that its tier bar sits higher.
func over15Level(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= 80:
		return ConfidenceHigh
	case confidence >= 70:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
