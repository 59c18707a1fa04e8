package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/betfaro/betstats/internal/domain/fixture"
	"github.com/betfaro/betstats/internal/domain/team"
	"github.com/betfaro/betstats/internal/platform/logging"
)

var analysisNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func pastFixture(id int64, daysAgo int, home, away team.Team, homeGoals, awayGoals int) fixture.Fixture {
	return fixture.Fixture{
		ID:         id,
		KickoffAt:  analysisNow.AddDate(0, 0, -daysAgo),
		Status:     "FT",
		HomeTeam:   home,
		AwayTeam:   away,
		HomeGoals:  &homeGoals,
		AwayGoals:  &awayGoals,
		LeagueID:   39,
		LeagueName: "Premier League",
		LeagueType: "League",
	}
}

func newAnalysisService(provider *stubProvider) *AnalysisService {
	logger := logging.NewNop()
	svc := NewAnalysisService(HeuristicParser{}, NewResolverService(provider, logger), provider, logger)
	svc.now = func() time.Time { return analysisNow }
	return svc
}

func matchHistory(subject, opponent team.Team, count int) []fixture.Fixture {
	fixtures := make([]fixture.Fixture, 0, count)
	for i := 0; i < count; i++ {
		// Alternate venues so both home and away splits stay populated.
		if i%2 == 0 {
			fixtures = append(fixtures, pastFixture(subject.ID*100+int64(i), i+1, subject, opponent, 2, 1))
		} else {
			fixtures = append(fixtures, pastFixture(subject.ID*100+int64(i), i+1, opponent, subject, 1, 2))
		}
	}
	return fixtures
}

func TestAnalyzeQueryMatchIntent(t *testing.T) {
	t.Parallel()

	arsenal := team.Team{ID: 42, Name: "Arsenal"}
	chelsea := team.Team{ID: 49, Name: "Chelsea"}
	filler := team.Team{ID: 99, Name: "Everton"}

	provider := &stubProvider{
		searchFn: func(query string) ([]team.Team, error) {
			if strings.Contains(strings.ToLower(query), "arsenal") {
				return []team.Team{arsenal}, nil
			}
			return []team.Team{chelsea}, nil
		},
		teamFixturesFn: func(teamID int64, last int) ([]fixture.Fixture, error) {
			if teamID == arsenal.ID {
				return matchHistory(arsenal, filler, 20), nil
			}
			return matchHistory(chelsea, filler, 20), nil
		},
	}

	report, err := newAnalysisService(provider).AnalyzeQuery(context.Background(), "Arsenal x Chelsea")
	if err != nil {
		t.Fatalf("AnalyzeQuery(): %v", err)
	}

	if report.TeamA == nil || report.TeamB == nil {
		t.Fatalf("report missing team analyses: %+v", report)
	}
	if report.TeamA.Team.ID != arsenal.ID || report.TeamB.Team.ID != chelsea.ID {
		t.Fatalf("resolved %d vs %d, want 42 vs 49", report.TeamA.Team.ID, report.TeamB.Team.ID)
	}
	if report.TeamA.Venue != VenueHome || report.TeamB.Venue != VenueAway {
		t.Fatalf("venues = %q/%q, want home/away split", report.TeamA.Venue, report.TeamB.Venue)
	}
	if report.TeamA.Stats.SampleSize == 0 || report.TeamB.Stats.SampleSize == 0 {
		t.Fatalf("stats not computed: %+v", report)
	}
	if report.TeamA.Form == "" {
		t.Fatalf("form string missing")
	}
	// Every game in the fabricated history ends 2-1 to the subject, so the
	// over 1.5 market must fire at full confidence.
	if len(report.Picks) == 0 {
		t.Fatalf("no picks generated")
	}
	if report.Format() == "" {
		t.Fatalf("formatted report is empty")
	}
}

func TestAnalyzeQueryTeamIntent(t *testing.T) {
	t.Parallel()

	flamengo := team.Team{ID: 127, Name: "Flamengo"}
	filler := team.Team{ID: 130, Name: "Gremio"}

	provider := &stubProvider{
		searchFn: func(string) ([]team.Team, error) {
			return []team.Team{flamengo}, nil
		},
		teamFixturesFn: func(int64, int) ([]fixture.Fixture, error) {
			return matchHistory(flamengo, filler, 14), nil
		},
	}

	report, err := newAnalysisService(provider).AnalyzeQuery(context.Background(), "Flamengo over 2.5")
	if err != nil {
		t.Fatalf("AnalyzeQuery(): %v", err)
	}
	if report.TeamA == nil || report.TeamB != nil {
		t.Fatalf("want single-team report, got %+v", report)
	}
	if report.TeamA.Stats.SampleSize != 10 {
		t.Fatalf("SampleSize = %d, want 10", report.TeamA.Stats.SampleSize)
	}
	if len(report.Picks) != 0 {
		t.Fatalf("single-team report should carry no picks")
	}
	if !strings.Contains(report.Format(), "Over 2.5") {
		t.Fatalf("formatted report missing requested metric:\n%s", report.Format())
	}
}

func TestAnalyzeQueryTeamNotFound(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{}

	_, err := newAnalysisService(provider).AnalyzeQuery(context.Background(), "Unknown FC x Mystery United")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("AnalyzeQuery() err = %v, want ErrNotFound", err)
	}
}

func TestAnalyzeQueryInsufficientSample(t *testing.T) {
	t.Parallel()

	vasco := team.Team{ID: 133, Name: "Vasco DA Gama"}
	filler := team.Team{ID: 134, Name: "Bahia"}

	provider := &stubProvider{
		searchFn: func(string) ([]team.Team, error) {
			return []team.Team{vasco}, nil
		},
		teamFixturesFn: func(int64, int) ([]fixture.Fixture, error) {
			return matchHistory(vasco, filler, 3), nil
		},
	}

	_, err := newAnalysisService(provider).AnalyzeQuery(context.Background(), "Vasco")
	if !errors.Is(err, ErrInsufficientSample) {
		t.Fatalf("AnalyzeQuery() err = %v, want ErrInsufficientSample", err)
	}
}

func TestAnalyzeQueryProviderFailure(t *testing.T) {
	t.Parallel()

	arsenal := team.Team{ID: 42, Name: "Arsenal"}
	provider := &stubProvider{
		searchFn: func(string) ([]team.Team, error) {
			return []team.Team{arsenal}, nil
		},
		teamFixturesFn: func(int64, int) ([]fixture.Fixture, error) {
			return nil, errors.New("gateway timeout")
		},
	}

	_, err := newAnalysisService(provider).AnalyzeQuery(context.Background(), "Arsenal")
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("AnalyzeQuery() err = %v, want ErrDependencyUnavailable", err)
	}
}

func TestAnalyzeQueryBlankInput(t *testing.T) {
	t.Parallel()

	_, err := newAnalysisService(&stubProvider{}).AnalyzeQuery(context.Background(), "  ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("AnalyzeQuery(blank) err = %v, want ErrInvalidInput", err)
	}
}

func TestAnalyzeQueryVenueFallback(t *testing.T) {
	t.Parallel()

	santos := team.Team{ID: 128, Name: "Santos"}
	filler := team.Team{ID: 129, Name: "Sport Recife"}

	// Every game away from home, so a home split must relax to all venues.
	awayOnly := make([]fixture.Fixture, 0, 12)
	for i := 0; i < 12; i++ {
		awayOnly = append(awayOnly, pastFixture(int64(i+1), i+1, filler, santos, 0, 1))
	}

	provider := &stubProvider{
		searchFn: func(string) ([]team.Team, error) {
			return []team.Team{santos}, nil
		},
		teamFixturesFn: func(int64, int) ([]fixture.Fixture, error) {
			return awayOnly, nil
		},
	}

	report, err := newAnalysisService(provider).AnalyzeQuery(context.Background(), "Santos em casa")
	if err != nil {
		t.Fatalf("AnalyzeQuery(): %v", err)
	}
	if report.TeamA.Venue != VenueAll {
		t.Fatalf("Venue = %q, want fallback to all", report.TeamA.Venue)
	}
	if len(report.Warnings) == 0 {
		t.Fatalf("want a venue-relaxation warning")
	}
}
