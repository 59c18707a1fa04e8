package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/betfaro/betstats/internal/domain/fixture"
	"github.com/betfaro/betstats/internal/domain/picks"
	"github.com/betfaro/betstats/internal/domain/stats"
	"github.com/betfaro/betstats/internal/platform/cache"
	"github.com/betfaro/betstats/internal/platform/logging"
)

const (
	RangeToday    = "today"
	RangeTomorrow = "tomorrow"
	RangeBoth     = "both"
)

const (
	dailyPicksTTL       = 30 * time.Minute
	maxDailyFixtures    = 10
	analysisFetchCount  = 15
	analysisSampleSize  = 10
	defaultPicksWorkers = 4
)

// FixturePicks is the analysis outcome for one upcoming fixture.
type FixturePicks struct {
	FixtureID     int64           `json:"fixture_id"`
	HomeTeam      string          `json:"home_team"`
	AwayTeam      string          `json:"away_team"`
	League        string          `json:"league"`
	KickoffAt     time.Time       `json:"kickoff_at"`
	Picks         []picks.Pick    `json:"picks"`
	HomeStats     stats.TeamStats `json:"home_stats"`
	AwayStats     stats.TeamStats `json:"away_stats"`
	GamesAnalyzed int             `json:"games_analyzed"`
}

// DailyPicksResult is the unattended daily-picks aggregate, ordered by the
// strongest pick first.
type DailyPicksResult struct {
	Range            string         `json:"range"`
	GeneratedAt      time.Time      `json:"generated_at"`
	FixturesScanned  int            `json:"fixtures_scanned"`
	PriorityFixtures int            `json:"priority_fixtures"`
	FixturesAnalyzed int            `json:"fixtures_analyzed"`
	AnalyzedFailed   int            `json:"analyzed_failed"`
	Fixtures         []FixturePicks `json:"fixtures"`
}

// PickSnapshotRecorder persists generated daily picks for later audit.
// Recording is best effort and never blocks pick generation.
type PickSnapshotRecorder interface {
	SaveDailyPicks(ctx context.Context, result DailyPicksResult) error
}

// DailyPicksService scans today's and tomorrow's fixtures, ranks them by
// league priority and analyzes the top ones on a worker pool.
type DailyPicksService struct {
	provider FixtureProvider
	cache    *cache.Store
	recorder PickSnapshotRecorder
	logger   *logging.Logger
	workers  int
	now      func() time.Time
}

func NewDailyPicksService(provider FixtureProvider, store *cache.Store, recorder PickSnapshotRecorder, workers int, logger *logging.Logger) *DailyPicksService {
	if store == nil {
		store = cache.NewStore()
	}
	if workers <= 0 {
		workers = defaultPicksWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DailyPicksService{
		provider: provider,
		cache:    store,
		recorder: recorder,
		logger:   logger,
		workers:  workers,
		now:      time.Now,
	}
}

// DailyPicks returns the cached aggregate for the range, rebuilding it when
// expired or when forceRefresh is set.
func (s *DailyPicksService) DailyPicks(ctx context.Context, rangeType string, forceRefresh bool) (DailyPicksResult, error) {
	ctx, span := startUsecaseSpan(ctx, "DailyPicksService.DailyPicks")
	defer span.End()

	switch rangeType {
	case RangeToday, RangeTomorrow, RangeBoth:
	case "":
		rangeType = RangeBoth
	default:
		return DailyPicksResult{}, fmt.Errorf("%w: unknown range %q", ErrInvalidInput, rangeType)
	}

	key := "daily_picks_" + rangeType
	if forceRefresh {
		s.cache.Delete(key)
	}

	value, err := s.cache.GetOrLoad(ctx, key, dailyPicksTTL, func(ctx context.Context) (any, error) {
		return s.build(ctx, rangeType)
	})
	if err != nil {
		return DailyPicksResult{}, err
	}

	result, ok := value.(DailyPicksResult)
	if !ok {
		return DailyPicksResult{}, fmt.Errorf("%w: unexpected cache payload", ErrDependencyUnavailable)
	}
	return result, nil
}

func (s *DailyPicksService) build(ctx context.Context, rangeType string) (DailyPicksResult, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)

	var days []time.Time
	switch rangeType {
	case RangeToday:
		days = []time.Time{today}
	case RangeTomorrow:
		days = []time.Time{today.AddDate(0, 0, 1)}
	default:
		days = []time.Time{today, today.AddDate(0, 0, 1)}
	}

	seen := make(map[int64]struct{})
	var pool []fixture.Fixture
	for _, day := range days {
		fixtures, err := s.provider.FixturesByDate(ctx, day)
		if err != nil {
			s.logger.WarnContext(ctx, "fixtures by date failed",
				"date", day.Format("2006-01-02"), "error", err)
			continue
		}
		for _, f := range fixtures {
			if _, dup := seen[f.ID]; dup {
				continue
			}
			seen[f.ID] = struct{}{}
			pool = append(pool, f)
		}
	}
	if len(pool) == 0 {
		return DailyPicksResult{}, fmt.Errorf("%w: no fixtures available for %s", ErrDependencyUnavailable, rangeType)
	}

	ranked := picks.RankDailyFixtures(pool, maxDailyFixtures)

	result := DailyPicksResult{
		Range:            rangeType,
		GeneratedAt:      s.now(),
		FixturesScanned:  len(pool),
		PriorityFixtures: len(ranked),
	}

	workerPool, err := ants.NewPool(s.workers)
	if err != nil {
		return DailyPicksResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	analyzed := make([]*FixturePicks, len(ranked))
	var workers sync.WaitGroup
	for i, f := range ranked {
		i, f := i, f
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			fp, err := s.analyzeFixture(ctx, f)
			if err != nil {
				s.logger.InfoContext(ctx, "fixture skipped",
					"fixture_id", f.ID, "home", f.HomeTeam.Name, "away", f.AwayTeam.Name, "error", err)
				return
			}
			analyzed[i] = fp
		}); err != nil {
			workers.Done()
			return DailyPicksResult{}, fmt.Errorf("submit fixture analysis: %w", err)
		}
	}
	workers.Wait()

	for _, fp := range analyzed {
		if fp != nil {
			result.Fixtures = append(result.Fixtures, *fp)
		}
	}
	result.FixturesAnalyzed = len(result.Fixtures)
	result.AnalyzedFailed = len(ranked) - result.FixturesAnalyzed

	// Strongest recommendation first.
	sort.SliceStable(result.Fixtures, func(i, j int) bool {
		return topConfidence(result.Fixtures[i]) > topConfidence(result.Fixtures[j])
	})

	if s.recorder != nil {
		if err := s.recorder.SaveDailyPicks(ctx, result); err != nil {
			s.logger.WarnContext(ctx, "persist daily picks failed", "error", err)
		}
	}

	return result, nil
}

// analyzeFixture runs the regular match pipeline for one upcoming fixture.
// Fixtures without enough history or without any firing market are skipped,
// not failed.
func (s *DailyPicksService) analyzeFixture(ctx context.Context, f fixture.Fixture) (*FixturePicks, error) {
	var (
		rawHome, rawAway []fixture.Fixture
		errHome, errAway error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		rawHome, errHome = s.provider.TeamFixtures(ctx, f.HomeTeam.ID, analysisFetchCount)
	})
	wg.Go(func() {
		rawAway, errAway = s.provider.TeamFixtures(ctx, f.AwayTeam.ID, analysisFetchCount)
	})
	wg.Wait()

	if errHome != nil {
		return nil, fmt.Errorf("fixtures for %s: %w", f.HomeTeam.Name, errHome)
	}
	if errAway != nil {
		return nil, fmt.Errorf("fixtures for %s: %w", f.AwayTeam.Name, errAway)
	}

	now := s.now()
	sampleHome := fixture.Validate(rawHome, analysisSampleSize, now)
	sampleAway := fixture.Validate(rawAway, analysisSampleSize, now)
	if !sampleHome.Valid || !sampleAway.Valid {
		return nil, fmt.Errorf("%w: %d home / %d away valid fixtures",
			ErrInsufficientSample, len(sampleHome.Fixtures), len(sampleAway.Fixtures))
	}

	homeStats := stats.Compute(sampleHome.Fixtures, f.HomeTeam.ID)
	awayStats := stats.Compute(sampleAway.Fixtures, f.AwayTeam.ID)

	generated := picks.Generate(homeStats, awayStats, f.HomeTeam.Name, f.AwayTeam.Name)
	if len(generated) == 0 {
		return nil, fmt.Errorf("no market fired")
	}

	return &FixturePicks{
		FixtureID:     f.ID,
		HomeTeam:      f.HomeTeam.Name,
		AwayTeam:      f.AwayTeam.Name,
		League:        f.LeagueName,
		KickoffAt:     f.KickoffAt,
		Picks:         generated,
		HomeStats:     homeStats,
		AwayStats:     awayStats,
		GamesAnalyzed: len(sampleHome.Fixtures) + len(sampleAway.Fixtures),
	}, nil
}

func topConfidence(fp FixturePicks) float64 {
	if len(fp.Picks) == 0 {
		return 0
	}
	return fp.Picks[0].Confidence
}
