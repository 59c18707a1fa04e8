package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/betfaro/betstats/internal/domain/fixture"
	"github.com/betfaro/betstats/internal/domain/team"
	"github.com/betfaro/betstats/internal/platform/logging"
)

// MockFixtureProvider is a testify-backed FixtureProvider for tests that
// assert call counts, not just return values.
type MockFixtureProvider struct {
	mock.Mock
}

func (m *MockFixtureProvider) SearchTeams(ctx context.Context, query string) ([]team.Team, error) {
	args := m.Called(ctx, query)
	teams, _ := args.Get(0).([]team.Team)
	return teams, args.Error(1)
}

func (m *MockFixtureProvider) TeamFixtures(ctx context.Context, teamID int64, last int) ([]fixture.Fixture, error) {
	args := m.Called(ctx, teamID, last)
	fixtures, _ := args.Get(0).([]fixture.Fixture)
	return fixtures, args.Error(1)
}

func (m *MockFixtureProvider) FixturesByDate(ctx context.Context, day time.Time) ([]fixture.Fixture, error) {
	args := m.Called(ctx, day)
	fixtures, _ := args.Get(0).([]fixture.Fixture)
	return fixtures, args.Error(1)
}

func TestAnalyzeQueryMatchResolvesOpponentFromContext(t *testing.T) {
	t.Parallel()

	arsenal := team.Team{ID: 42, Name: "Arsenal"}
	everton := team.Team{ID: 45, Name: "Everton"}

	provider := new(MockFixtureProvider)
	provider.
		On("SearchTeams", mock.Anything, "Arsenal").
		Return([]team.Team{arsenal}, nil).
		Once()
	provider.
		On("TeamFixtures", mock.Anything, arsenal.ID, mock.AnythingOfType("int")).
		Return(matchHistory(arsenal, everton, 20), nil).
		Once()
	provider.
		On("TeamFixtures", mock.Anything, everton.ID, mock.AnythingOfType("int")).
		Return(matchHistory(everton, arsenal, 20), nil).
		Once()

	logger := logging.NewNop()
	svc := NewAnalysisService(HeuristicParser{}, NewResolverService(provider, logger), provider, logger)
	svc.now = func() time.Time { return analysisNow }

	report, err := svc.AnalyzeQuery(context.Background(), "Arsenal x Everton")
	if err != nil {
		t.Fatalf("AnalyzeQuery(): %v", err)
	}
	if report.TeamB == nil || report.TeamB.Team.ID != everton.ID {
		t.Fatalf("opponent not resolved from context: %+v", report.TeamB)
	}

	// The opponent appears in the first team's history, so only one provider
	// search may happen.
	provider.AssertExpectations(t)
	provider.AssertNumberOfCalls(t, "SearchTeams", 1)
}

func TestResolveSearchErrorFallsThroughToNextTarget(t *testing.T) {
	t.Parallel()

	gunners := team.Team{ID: 42, Name: "Arsenal"}

	provider := new(MockFixtureProvider)
	// "gunners" is an alias, so the canonical name is searched first and the
	// raw text second.
	provider.
		On("SearchTeams", mock.Anything, "Arsenal").
		Return(nil, context.DeadlineExceeded).
		Once()
	provider.
		On("SearchTeams", mock.Anything, "gunners").
		Return([]team.Team{gunners}, nil).
		Once()

	resolved, err := NewResolverService(provider, logging.NewNop()).Resolve(context.Background(), "gunners", nil)
	if err != nil {
		t.Fatalf("Resolve(): %v", err)
	}
	if resolved.ID != gunners.ID {
		t.Fatalf("resolved %+v, want Arsenal", resolved)
	}
	provider.AssertExpectations(t)
}
