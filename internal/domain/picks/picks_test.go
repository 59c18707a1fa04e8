package picks

import (
	"testing"
	"time"

	"github.com/betfaro/betstats/internal/domain/fixture"
	"github.com/betfaro/betstats/internal/domain/stats"
)

func TestGenerateOverAndBTTS(t *testing.T) {
	t.Parallel()

	a := stats.TeamStats{Over25Rate: 80, Over15Rate: 90, BTTSRate: 70, AvgGoalsFor: 2.1, AvgGoalsAgainst: 1.2}
	b := stats.TeamStats{Over25Rate: 70, Over15Rate: 85, BTTSRate: 60, AvgGoalsFor: 1.8, AvgGoalsAgainst: 1.5}

	got := Generate(a, b, "Arsenal", "Chelsea")

	if len(got) != 2 {
		t.Fatalf("Generate() returned %d picks, want 2", len(got))
	}
	// Over 1.5 mean 87.5 outranks over 2.5 mean 75 and btts mean 65.
	if got[0].Market != MarketOver15 {
		t.Fatalf("top pick = %q, want %q", got[0].Market, MarketOver15)
	}
	if got[0].Confidence != 87.5 {
		t.Fatalf("top confidence = %v, want 87.5", got[0].Confidence)
	}
	if got[0].Level != ConfidenceHigh {
		t.Fatalf("top level = %q, want HIGH", got[0].Level)
	}
	if got[1].Market != MarketOver25 {
		t.Fatalf("second pick = %q, want %q", got[1].Market, MarketOver25)
	}
	if got[1].Justification == "" {
		t.Fatalf("pick missing justification")
	}
}

func TestGenerateUnderAndBTTSNo(t *testing.T) {
	t.Parallel()

	a := stats.TeamStats{Over25Rate: 20, Over15Rate: 40, BTTSRate: 30, CleanSheetRate: 60, AvgGoalsFor: 0.8, AvgGoalsAgainst: 0.6}
	b := stats.TeamStats{Over25Rate: 30, Over15Rate: 50, BTTSRate: 20, CleanSheetRate: 50, AvgGoalsFor: 1.0, AvgGoalsAgainst: 0.7}

	got := Generate(a, b, "Atletico", "Getafe")

	if len(got) != 2 {
		t.Fatalf("Generate() returned %d picks, want 2", len(got))
	}
	// Under 2.5 confidence 100-25=75 (clamped below 99), BTTS No 100-25=75.
	if got[0].Market != MarketUnder25 {
		t.Fatalf("top pick = %q, want %q", got[0].Market, MarketUnder25)
	}
	if got[0].Confidence != 75.0 {
		t.Fatalf("under confidence = %v, want 75.0", got[0].Confidence)
	}
	if got[1].Market != MarketBTTSNo {
		t.Fatalf("second pick = %q, want %q", got[1].Market, MarketBTTSNo)
	}
}

func TestGenerateNeutralBandYieldsNothing(t *testing.T) {
	t.Parallel()

	// Over 2.5 mean 47 sits in the 45-50 band, over 1.5 and btts below
	// their bars.
	a := stats.TeamStats{Over25Rate: 47, Over15Rate: 60, BTTSRate: 45}
	b := stats.TeamStats{Over25Rate: 47, Over15Rate: 65, BTTSRate: 48}

	if got := Generate(a, b, "A", "B"); len(got) != 0 {
		t.Fatalf("Generate() = %v, want no picks", got)
	}
}

func TestGenerateConfidenceClamp(t *testing.T) {
	t.Parallel()

	a := stats.TeamStats{Over25Rate: 100, Over15Rate: 100, BTTSRate: 100}
	b := stats.TeamStats{Over25Rate: 100, Over15Rate: 100, BTTSRate: 100}

	got := Generate(a, b, "A", "B")
	if len(got) == 0 {
		t.Fatalf("Generate() returned no picks")
	}
	for _, p := range got {
		if p.Confidence > 99 {
			t.Fatalf("confidence %v exceeds clamp", p.Confidence)
		}
	}
}

func TestLeaguePriority(t *testing.T) {
	t.Parallel()

	cases := map[int64]int{
		71:   1,
		39:   1,
		2:    1,
		13:   2,
		307:  2,
		475:  3,
		9999: NonPriorityTier,
	}
	for leagueID, want := range cases {
		if got := LeaguePriority(leagueID); got != want {
			t.Fatalf("LeaguePriority(%d) = %d, want %d", leagueID, got, want)
		}
	}
}

func TestRankDailyFixtures(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	upcoming := func(id, leagueID int64, hour int) fixture.Fixture {
		return fixture.Fixture{
			ID:        id,
			LeagueID:  leagueID,
			Status:    "NS",
			KickoffAt: day.Add(time.Duration(hour) * time.Hour),
		}
	}

	finished := upcoming(1, 39, 10)
	finished.Status = "FT"

	noKickoff := fixture.Fixture{ID: 7, LeagueID: 39, Status: "NS"}

	raw := []fixture.Fixture{
		finished,
		upcoming(2, 9999, 12), // unknown league
		upcoming(3, 307, 11),  // tier 2
		upcoming(4, 39, 20),   // tier 1, late kickoff
		upcoming(5, 71, 14),   // tier 1, earlier kickoff
		upcoming(6, 475, 9),   // tier 3
		noKickoff,             // kickoff failed to parse upstream
	}

	got := RankDailyFixtures(raw, 10)

	wantOrder := []int64{5, 4, 3, 6}
	if len(got) != len(wantOrder) {
		t.Fatalf("RankDailyFixtures() kept %d fixtures, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Fatalf("position %d = fixture %d, want %d", i, got[i].ID, id)
		}
	}
}

func TestRankDailyFixturesTruncates(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	raw := make([]fixture.Fixture, 0, 15)
	for i := 0; i < 15; i++ {
		raw = append(raw, fixture.Fixture{
			ID:        int64(i + 1),
			LeagueID:  39,
			Status:    "NS",
			KickoffAt: day.Add(time.Duration(i) * time.Hour),
		})
	}

	if got := RankDailyFixtures(raw, 10); len(got) != 10 {
		t.Fatalf("RankDailyFixtures() kept %d fixtures, want 10", len(got))
	}
}
