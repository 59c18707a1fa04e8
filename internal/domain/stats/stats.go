// Package stats derives betting-relevant rates and averages from a
// validated fixture sample, always from the perspective of one team.
package stats

import (
	"math"
	"strings"

	"github.com/betfaro/betstats/internal/domain/fixture"
)

// TeamStats carries rate metrics as percentages (0-100, one decimal) and
// goal averages (two decimals) over the sample it was computed from.
type TeamStats struct {
	SampleSize int `json:"sample_size"`

	Wins   int `json:"wins"`
	Draws  int `json:"draws"`
	Losses int `json:"losses"`

	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`

	AvgGoalsFor     float64 `json:"avg_goals_for"`
	AvgGoalsAgainst float64 `json:"avg_goals_against"`
	AvgTotalGoals   float64 `json:"avg_total_goals"`

	Over05Rate float64 `json:"over_0_5_rate"`
	Over15Rate float64 `json:"over_1_5_rate"`
	Over25Rate float64 `json:"over_2_5_rate"`
	Over35Rate float64 `json:"over_3_5_rate"`

	BTTSRate          float64 `json:"btts_rate"`
	WinRate           float64 `json:"win_rate"`
	DrawRate          float64 `json:"draw_rate"`
	LossRate          float64 `json:"loss_rate"`
	CleanSheetRate    float64 `json:"clean_sheet_rate"`
	FailedToScoreRate float64 `json:"failed_to_score_rate"`
}

// Compute aggregates the sample for the given team. Fixtures where the team
// is not playing or no score is present are skipped. Empty input yields a
// zero-valued result.
func Compute(fixtures []fixture.Fixture, teamID int64) TeamStats {
	var (
		out                              TeamStats
		over05, over15, over25, over35   int
		btts, cleanSheets, failedToScore int
	)

	for _, f := range fixtures {
		scored, conceded, ok := f.GoalsFor(teamID)
		if !ok {
			continue
		}
		out.SampleSize++

		out.GoalsFor += scored
		out.GoalsAgainst += conceded

		switch {
		case scored > conceded:
			out.Wins++
		case scored == conceded:
			out.Draws++
		default:
			out.Losses++
		}

		total := scored + conceded
		if total > 0 {
			over05++
		}
		if total > 1 {
			over15++
		}
		if total > 2 {
			over25++
		}
		if total > 3 {
			over35++
		}
		if scored > 0 && conceded > 0 {
			btts++
		}
		if conceded == 0 {
			cleanSheets++
		}
		if scored == 0 {
			failedToScore++
		}
	}

	if out.SampleSize == 0 {
		return out
	}

	n := float64(out.SampleSize)
	out.AvgGoalsFor = round2(float64(out.GoalsFor) / n)
	out.AvgGoalsAgainst = round2(float64(out.GoalsAgainst) / n)
	out.AvgTotalGoals = round2(float64(out.GoalsFor+out.GoalsAgainst) / n)

	out.Over05Rate = rate(over05, out.SampleSize)
	out.Over15Rate = rate(over15, out.SampleSize)
	out.Over25Rate = rate(over25, out.SampleSize)
	out.Over35Rate = rate(over35, out.SampleSize)
	out.BTTSRate = rate(btts, out.SampleSize)
	out.WinRate = rate(out.Wins, out.SampleSize)
	out.DrawRate = rate(out.Draws, out.SampleSize)
	out.LossRate = rate(out.Losses, out.SampleSize)
	out.CleanSheetRate = rate(cleanSheets, out.SampleSize)
	out.FailedToScoreRate = rate(failedToScore, out.SampleSize)

	return out
}

// FormString renders the team's results as space-joined W/D/L tokens in the
// same order as the input, which callers pass most recent first.
func FormString(fixtures []fixture.Fixture, teamID int64) string {
	tokens := make([]string, 0, len(fixtures))
	for _, f := range fixtures {
		scored, conceded, ok := f.GoalsFor(teamID)
		if !ok {
			continue
		}
		switch {
		case scored > conceded:
			tokens = append(tokens, "W")
		case scored == conceded:
			tokens = append(tokens, "D")
		default:
			tokens = append(tokens, "L")
		}
	}
	return strings.Join(tokens, " ")
}

func rate(count, total int) float64 {
	return round1(float64(count) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
