package usecase

import (
	"context"
	"fmt"

	"github.com/betfaro/betstats/internal/domain/fixture"
	"github.com/betfaro/betstats/internal/domain/team"
	"github.com/betfaro/betstats/internal/platform/logging"
	"github.com/betfaro/betstats/internal/platform/textnorm"
)

// ResolverService maps free-form team names onto provider identities via
// alias lookup, context matching and fuzzy-scored provider search.
type ResolverService struct {
	provider FixtureProvider
	logger   *logging.Logger
}

func NewResolverService(provider FixtureProvider, logger *logging.Logger) *ResolverService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ResolverService{provider: provider, logger: logger}
}

// Resolve finds the team behind name. When contextFixtures are supplied
// (opponent disambiguation) a side whose folded name equals the folded
// target short-circuits the provider search. Search errors are logged and
// treated as empty results; only a full miss returns ErrNotFound.
func (s *ResolverService) Resolve(ctx context.Context, name string, contextFixtures []fixture.Fixture) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "ResolverService.Resolve")
	defer span.End()

	folded := textnorm.Fold(name)
	if folded == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	// Alias becomes the preferred search target, the original text stays as
	// a secondary one.
	searchTargets := []string{name}
	if canonical, ok := team.CanonicalName(name); ok {
		searchTargets = []string{canonical, name}
		folded = textnorm.Fold(canonical)
	}

	if match, ok := matchInContext(contextFixtures, folded); ok {
		return match, nil
	}

	for _, target := range searchTargets {
		results, err := s.provider.SearchTeams(ctx, target)
		if err != nil {
			s.logger.WarnContext(ctx, "team search failed, trying next target",
				"query", target, "error", err)
			continue
		}
		if len(results) == 0 {
			continue
		}

		ranked := team.RankCandidates(target, results)
		if len(ranked) == 0 {
			// Every result was a youth/reserve/women squad.
			continue
		}

		best := ranked[0]
		if best.Score < team.AcceptThreshold {
			s.logger.InfoContext(ctx, "low-score resolution, using best effort",
				"query", name, "resolved", best.Team.Name, "score", best.Score)
		}
		return best.Team, nil
	}

	return team.Team{}, fmt.Errorf("%w: team %q", ErrNotFound, name)
}

func matchInContext(contextFixtures []fixture.Fixture, foldedTarget string) (team.Team, bool) {
	for _, f := range contextFixtures {
		if textnorm.Fold(f.HomeTeam.Name) == foldedTarget {
			return f.HomeTeam, true
		}
		if textnorm.Fold(f.AwayTeam.Name) == foldedTarget {
			return f.AwayTeam, true
		}
	}
	return team.Team{}, false
}
