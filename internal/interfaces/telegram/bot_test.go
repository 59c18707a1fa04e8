package telegram

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/betfaro/betstats/internal/domain/picks"
	"github.com/betfaro/betstats/internal/domain/team"
	"github.com/betfaro/betstats/internal/platform/logging"
	"github.com/betfaro/betstats/internal/usecase"
)

type stubAnalysis struct {
	report *usecase.AnalysisReport
	err    error
}

func (s *stubAnalysis) AnalyzeQuery(context.Context, string) (*usecase.AnalysisReport, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

type stubDailyPicks struct {
	result   usecase.DailyPicksResult
	err      error
	gotRange string
}

func (s *stubDailyPicks) DailyPicks(_ context.Context, rangeType string, _ bool) (usecase.DailyPicksResult, error) {
	s.gotRange = rangeType
	if s.err != nil {
		return usecase.DailyPicksResult{}, s.err
	}
	return s.result, nil
}

func newTestBot(analysis AnalysisService, daily DailyPicksService) *Bot {
	return &Bot{
		analysis:   analysis,
		dailyPicks: daily,
		logger:     logging.NewNop(),
	}
}

func TestReplyForHelpCommands(t *testing.T) {
	t.Parallel()

	bot := newTestBot(&stubAnalysis{}, &stubDailyPicks{})

	for _, command := range []string{"/start", "/help", "/help@betstatsbot"} {
		reply := bot.replyFor(context.Background(), command)
		if !strings.Contains(reply, "/picks") {
			t.Fatalf("replyFor(%q) = %q, want help text", command, reply)
		}
	}
}

func TestReplyForPicksCommand(t *testing.T) {
	t.Parallel()

	daily := &stubDailyPicks{
		result: usecase.DailyPicksResult{
			Range:            usecase.RangeToday,
			FixturesScanned:  4,
			FixturesAnalyzed: 1,
			Fixtures: []usecase.FixturePicks{
				{
					HomeTeam:  "Arsenal",
					AwayTeam:  "Chelsea",
					League:    "Premier League",
					KickoffAt: time.Date(2026, 3, 1, 17, 30, 0, 0, time.UTC),
					Picks: []picks.Pick{
						{Market: "Over 2.5", Confidence: 72.5, Level: picks.ConfidenceHigh},
					},
				},
			},
		},
	}
	bot := newTestBot(&stubAnalysis{}, daily)

	reply := bot.replyFor(context.Background(), "/picks today")
	if daily.gotRange != usecase.RangeToday {
		t.Fatalf("range passed = %q, want today", daily.gotRange)
	}
	for _, want := range []string{"Arsenal x Chelsea", "Over 2.5", "72.5"} {
		if !strings.Contains(reply, want) {
			t.Fatalf("reply missing %q:\n%s", want, reply)
		}
	}
}

func TestReplyForFreeTextQuery(t *testing.T) {
	t.Parallel()

	report := &usecase.AnalysisReport{
		Intent: usecase.Intent{Type: usecase.IntentTeam, TeamA: "Arsenal", Metrics: []string{"win_rate"}},
		TeamA: &usecase.TeamAnalysis{
			Team:  team.Team{ID: 42, Name: "Arsenal"},
			Venue: usecase.VenueAll,
		},
	}
	bot := newTestBot(&stubAnalysis{report: report}, &stubDailyPicks{})

	reply := bot.replyFor(context.Background(), "Arsenal win rate")
	if !strings.Contains(reply, "Arsenal") {
		t.Fatalf("reply = %q, want formatted report", reply)
	}
}

func TestReplyForErrorsAreFriendly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: no match", usecase.ErrNotFound), "could not find"},
		{fmt.Errorf("%w: 3 games", usecase.ErrInsufficientSample), "Not enough"},
		{fmt.Errorf("%w: down", usecase.ErrDependencyUnavailable), "unavailable"},
		{usecase.ErrInvalidInput, "/help"},
	}

	for _, tc := range cases {
		bot := newTestBot(&stubAnalysis{err: tc.err}, &stubDailyPicks{})
		reply := bot.replyFor(context.Background(), "whatever")
		if !strings.Contains(reply, tc.want) {
			t.Fatalf("reply for %v = %q, want substring %q", tc.err, reply, tc.want)
		}
	}
}

func TestFormatDailyPicksEmpty(t *testing.T) {
	t.Parallel()

	out := FormatDailyPicks(usecase.DailyPicksResult{Range: usecase.RangeBoth})
	if !strings.Contains(out, "No confident picks") {
		t.Fatalf("FormatDailyPicks(empty) = %q", out)
	}
}

func TestSplitCommand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, command, args string
	}{
		{"/picks today", "/picks", "today"},
		{"/picks@betstatsbot both", "/picks", "both"},
		{"/help", "/help", ""},
		{"Arsenal x Chelsea", "", "Arsenal x Chelsea"},
	}
	for _, tc := range cases {
		command, args := splitCommand(tc.in)
		if command != tc.command || args != tc.args {
			t.Fatalf("splitCommand(%q) = (%q, %q), want (%q, %q)", tc.in, command, args, tc.command, tc.args)
		}
	}
}
