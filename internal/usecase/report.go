package usecase

import (
	"fmt"
	"strings"

	"github.com/betfaro/betstats/internal/domain/fixture"
)

const (
	// recentResultsCount caps the score lines in a single-team report.
	recentResultsCount = 10
	// trendWindow is how many recent games feed each trend line.
	trendWindow = 5
)

var metricLabels = map[string]string{
	"over_0_5":             "Over 0.5",
	"over_1_5":             "Over 1.5",
	"over_2_5":             "Over 2.5",
	"over_3_5":             "Over 3.5",
	"btts":                 "BTTS",
	"win_rate":             "Win rate",
	"draw_rate":            "Draw rate",
	"loss_rate":            "Loss rate",
	"clean_sheet_rate":     "Clean sheets",
	"failed_to_score_rate": "Failed to score",
	"avg_goals_for":        "Avg goals for",
	"avg_goals_against":    "Avg goals against",
	"avg_total_goals":      "Avg total goals",
}

// Format renders the report as plain text for chat surfaces.
func (r *AnalysisReport) Format() string {
	var b strings.Builder

	switch {
	case r.TeamA != nil && r.TeamB != nil:
		fmt.Fprintf(&b, "%s x %s\n", r.TeamA.Team.Name, r.TeamB.Team.Name)
		fmt.Fprintf(&b, "Sample: %d games (%s) + %d games (%s)\n\n",
			r.TeamA.Stats.SampleSize, r.TeamA.Team.Name,
			r.TeamB.Stats.SampleSize, r.TeamB.Team.Name)
		writeTeamSection(&b, r.TeamA)
		b.WriteByte('\n')
		writeTeamSection(&b, r.TeamB)

		if len(r.Picks) > 0 {
			b.WriteString("\nPicks:\n")
			for _, p := range r.Picks {
				fmt.Fprintf(&b, "- %s (%.1f%%, %s): %s\n",
					p.Market, p.Confidence, p.Level, p.Justification)
			}
		}

		if trends := matchTrends(r.TeamA, r.TeamB); len(trends) > 0 {
			b.WriteString("\nTrends:\n")
			for _, trend := range trends {
				fmt.Fprintf(&b, "- %s\n", trend)
			}
		}
	case r.TeamA != nil:
		fmt.Fprintf(&b, "%s - last %d games\n\n", r.TeamA.Team.Name, r.TeamA.Stats.SampleSize)
		writeTeamSection(&b, r.TeamA)
		b.WriteString("\nMetrics:\n")
		for _, metric := range r.Intent.Metrics {
			if line, ok := metricLine(r.TeamA, metric); ok {
				fmt.Fprintf(&b, "- %s\n", line)
			}
		}
		writeRecentResults(&b, r.TeamA)
	}

	for _, warning := range r.Warnings {
		fmt.Fprintf(&b, "\nNote: %s", warning)
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeTeamSection(b *strings.Builder, a *TeamAnalysis) {
	fmt.Fprintf(b, "%s (%s venue)\n", a.Team.Name, a.Venue)
	if a.Form != "" {
		fmt.Fprintf(b, "Form: %s\n", a.Form)
	}
	fmt.Fprintf(b, "W/D/L: %d/%d/%d, goals %d-%d\n",
		a.Stats.Wins, a.Stats.Draws, a.Stats.Losses,
		a.Stats.GoalsFor, a.Stats.GoalsAgainst)
}

func writeRecentResults(b *strings.Builder, a *TeamAnalysis) {
	fixtures := a.Sample.Fixtures
	if len(fixtures) == 0 {
		return
	}
	if len(fixtures) > recentResultsCount {
		fixtures = fixtures[:recentResultsCount]
	}

	b.WriteString("\nRecent games:\n")
	for _, f := range fixtures {
		fmt.Fprintf(b, "- %s\n", resultLine(f, a.Team.ID))
	}
}

// resultLine renders one finished game from the analyzed team's point of
// view: its goals first, then the opponent and the outcome letter.
func resultLine(f fixture.Fixture, teamID int64) string {
	goalsFor := goalsOrZero(f.HomeGoals)
	goalsAgainst := goalsOrZero(f.AwayGoals)
	subject := f.HomeTeam.Name
	opponent := f.AwayTeam.Name
	if f.AwayTeam.ID == teamID {
		subject, opponent = f.AwayTeam.Name, f.HomeTeam.Name
		goalsFor, goalsAgainst = goalsAgainst, goalsFor
	}

	outcome := "D"
	switch {
	case goalsFor > goalsAgainst:
		outcome = "W"
	case goalsFor < goalsAgainst:
		outcome = "L"
	}

	return fmt.Sprintf("%s %d-%d %s (%s)", subject, goalsFor, goalsAgainst, opponent, outcome)
}

// matchTrends summarizes each side's last games, mirroring the two headline
// markets: over-2.5 frequency for the first team, BTTS frequency for the
// second. A side with fewer than trendWindow games contributes no line.
func matchTrends(a, b *TeamAnalysis) []string {
	var trends []string

	if recent := recentWindow(a); recent != nil {
		over := 0
		for _, f := range recent {
			if goalsOrZero(f.HomeGoals)+goalsOrZero(f.AwayGoals) > 2 {
				over++
			}
		}
		trends = append(trends, fmt.Sprintf("%s: %d/%d recent games over 2.5",
			a.Team.Name, over, trendWindow))
	}

	if recent := recentWindow(b); recent != nil {
		btts := 0
		for _, f := range recent {
			if goalsOrZero(f.HomeGoals) > 0 && goalsOrZero(f.AwayGoals) > 0 {
				btts++
			}
		}
		trends = append(trends, fmt.Sprintf("%s: %d/%d recent games with BTTS",
			b.Team.Name, btts, trendWindow))
	}

	return trends
}

func recentWindow(a *TeamAnalysis) []fixture.Fixture {
	if len(a.Sample.Fixtures) < trendWindow {
		return nil
	}
	return a.Sample.Fixtures[:trendWindow]
}

func goalsOrZero(g *int) int {
	if g == nil {
		return 0
	}
	return *g
}

func metricLine(a *TeamAnalysis, metric string) (string, bool) {
	label, ok := metricLabels[metric]
	if !ok {
		return "", false
	}

	st := a.Stats
	var value float64
	switch metric {
	case "over_0_5":
		value = st.Over05Rate
	case "over_1_5":
		value = st.Over15Rate
	case "over_2_5":
		value = st.Over25Rate
	case "over_3_5":
		value = st.Over35Rate
	case "btts":
		value = st.BTTSRate
	case "win_rate":
		value = st.WinRate
	case "draw_rate":
		value = st.DrawRate
	case "loss_rate":
		value = st.LossRate
	case "clean_sheet_rate":
		value = st.CleanSheetRate
	case "failed_to_score_rate":
		value = st.FailedToScoreRate
	case "avg_goals_for":
		return fmt.Sprintf("%s: %.2f", label, st.AvgGoalsFor), true
	case "avg_goals_against":
		return fmt.Sprintf("%s: %.2f", label, st.AvgGoalsAgainst), true
	case "avg_total_goals":
		return fmt.Sprintf("%s: %.2f", label, st.AvgTotalGoals), true
	}

	return fmt.Sprintf("%s: %.1f%%", label, value), true
}
