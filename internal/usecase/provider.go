package usecase

import (
	"context"
	"time"

	"github.com/betfaro/betstats/internal/domain/fixture"
	"github.com/betfaro/betstats/internal/domain/team"
)

// FixtureProvider is the sports-data dependency of the analysis use cases.
// Implementations own caching, retries and search-term variation; callers
// only see clean domain types.
type FixtureProvider interface {
	// SearchTeams returns provider matches for a free-form team name.
	// An empty slice means no match, not an error.
	SearchTeams(ctx context.Context, query string) ([]team.Team, error)

	// TeamFixtures returns the team's most recent fixtures, newest last in
	// provider order, limited to the given count.
	TeamFixtures(ctx context.Context, teamID int64, last int) ([]fixture.Fixture, error)

	// FixturesByDate returns every fixture kicking off on the given UTC day.
	FixturesByDate(ctx context.Context, day time.Time) ([]fixture.Fixture, error)
}
