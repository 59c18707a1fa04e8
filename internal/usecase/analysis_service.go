package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/betfaro/betstats/internal/domain/fixture"
	"github.com/betfaro/betstats/internal/domain/picks"
	"github.com/betfaro/betstats/internal/domain/stats"
	"github.com/betfaro/betstats/internal/domain/team"
	"github.com/betfaro/betstats/internal/platform/logging"
)

// TeamAnalysis bundles one side's resolved identity, validated sample and
// computed statistics.
type TeamAnalysis struct {
	Team   team.Team               `json:"team"`
	Venue  VenueFilter             `json:"venue"`
	Sample fixture.ValidatedSample `json:"-"`
	Stats  stats.TeamStats         `json:"stats"`
	Form   string                  `json:"form"`
}

// AnalysisReport is the structured answer to one user query.
type AnalysisReport struct {
	Intent      Intent        `json:"intent"`
	TeamA       *TeamAnalysis `json:"team_a,omitempty"`
	TeamB       *TeamAnalysis `json:"team_b,omitempty"`
	Picks       []picks.Pick  `json:"picks,omitempty"`
	Warnings    []string      `json:"warnings,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// AnalysisService is the entry point for natural-language queries: parse,
// resolve, validate, compute, recommend.
type AnalysisService struct {
	parser   IntentParser
	resolver *ResolverService
	provider FixtureProvider
	logger   *logging.Logger
	now      func() time.Time
}

func NewAnalysisService(parser IntentParser, resolver *ResolverService, provider FixtureProvider, logger *logging.Logger) *AnalysisService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AnalysisService{
		parser:   parser,
		resolver: resolver,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// AnalyzeQuery answers a free-text query. Not-found and insufficient-sample
// conditions surface as typed errors; provider failures come back as
// ErrDependencyUnavailable.
func (s *AnalysisService) AnalyzeQuery(ctx context.Context, text string) (*AnalysisReport, error) {
	ctx, span := startUsecaseSpan(ctx, "AnalysisService.AnalyzeQuery")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: query text is required", ErrInvalidInput)
	}

	intent, err := s.parser.Parse(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if intent.SampleSize <= 0 {
		intent.SampleSize = DefaultSampleSize
	}

	if intent.Type == IntentMatch {
		return s.analyzeMatch(ctx, intent)
	}
	return s.analyzeTeam(ctx, intent)
}

func (s *AnalysisService) analyzeTeam(ctx context.Context, intent Intent) (*AnalysisReport, error) {
	resolved, err := s.resolver.Resolve(ctx, intent.TeamA, nil)
	if err != nil {
		return nil, err
	}

	raw, err := s.provider.TeamFixtures(ctx, resolved.ID, intent.SampleSize*2)
	if err != nil {
		return nil, fmt.Errorf("%w: fixtures for %s: %v", ErrDependencyUnavailable, resolved.Name, err)
	}

	analysis := s.buildTeamAnalysis(raw, resolved, intent.Venue, intent.SampleSize)
	if !analysis.Sample.Valid {
		return nil, fmt.Errorf("%w: %s has %d valid fixtures, need %d",
			ErrInsufficientSample, resolved.Name, len(analysis.Sample.Fixtures), fixture.MinSampleSize)
	}

	return &AnalysisReport{
		Intent:      intent,
		TeamA:       &analysis,
		Warnings:    analysis.Sample.Warnings,
		GeneratedAt: s.now(),
	}, nil
}

func (s *AnalysisService) analyzeMatch(ctx context.Context, intent Intent) (*AnalysisReport, error) {
	teamA, err := s.resolver.Resolve(ctx, intent.TeamA, nil)
	if err != nil {
		return nil, err
	}

	rawA, err := s.provider.TeamFixtures(ctx, teamA.ID, intent.SampleSize*2)
	if err != nil {
		return nil, fmt.Errorf("%w: fixtures for %s: %v", ErrDependencyUnavailable, teamA.Name, err)
	}

	// The opponent often appears in the first team's recent fixtures, which
	// resolves it without another provider search.
	teamB, err := s.resolver.Resolve(ctx, intent.TeamB, rawA)
	if err != nil {
		return nil, err
	}

	rawB, err := s.provider.TeamFixtures(ctx, teamB.ID, intent.SampleSize*2)
	if err != nil {
		return nil, fmt.Errorf("%w: fixtures for %s: %v", ErrDependencyUnavailable, teamB.Name, err)
	}

	// Match view: first team judged on home form, second on away form, each
	// relaxed to all venues when the split leaves too small a sample.
	var analysisA, analysisB TeamAnalysis
	var wg conc.WaitGroup
	wg.Go(func() {
		analysisA = s.buildTeamAnalysis(rawA, teamA, VenueHome, intent.SampleSize)
	})
	wg.Go(func() {
		analysisB = s.buildTeamAnalysis(rawB, teamB, VenueAway, intent.SampleSize)
	})
	wg.Wait()

	report := &AnalysisReport{
		Intent:      intent,
		TeamA:       &analysisA,
		TeamB:       &analysisB,
		GeneratedAt: s.now(),
	}
	report.Warnings = append(report.Warnings, analysisA.Sample.Warnings...)
	report.Warnings = append(report.Warnings, analysisB.Sample.Warnings...)

	switch {
	case !analysisA.Sample.Valid && !analysisB.Sample.Valid:
		return nil, fmt.Errorf("%w: neither %s nor %s has enough valid fixtures",
			ErrInsufficientSample, teamA.Name, teamB.Name)
	case !analysisA.Sample.Valid:
		return nil, fmt.Errorf("%w: %s has %d valid fixtures, need %d",
			ErrInsufficientSample, teamA.Name, len(analysisA.Sample.Fixtures), fixture.MinSampleSize)
	case !analysisB.Sample.Valid:
		return nil, fmt.Errorf("%w: %s has %d valid fixtures, need %d",
			ErrInsufficientSample, teamB.Name, len(analysisB.Sample.Fixtures), fixture.MinSampleSize)
	}

	report.Picks = picks.Generate(analysisA.Stats, analysisB.Stats, teamA.Name, teamB.Name)

	return report, nil
}

// buildTeamAnalysis applies the venue split, validates the sample and
// computes statistics. A venue split that leaves fewer than the minimum
// sample is relaxed back to all fixtures with a warning.
func (s *AnalysisService) buildTeamAnalysis(raw []fixture.Fixture, t team.Team, venue VenueFilter, sampleSize int) TeamAnalysis {
	now := s.now()

	sample := fixture.Validate(filterVenue(raw, t.ID, venue), sampleSize, now)
	if venue != VenueAll && len(sample.Fixtures) < fixture.MinSampleSize {
		sample = fixture.Validate(raw, sampleSize, now)
		sample.Warnings = append(sample.Warnings, fmt.Sprintf(
			"%s: %s-only sample too small, using all venues", t.Name, venue))
		venue = VenueAll
	}

	return TeamAnalysis{
		Team:   t,
		Venue:  venue,
		Sample: sample,
		Stats:  stats.Compute(sample.Fixtures, t.ID),
		Form:   stats.FormString(sample.Fixtures, t.ID),
	}
}

func filterVenue(fixtures []fixture.Fixture, teamID int64, venue VenueFilter) []fixture.Fixture {
	if venue == VenueAll || venue == "" {
		return fixtures
	}

	out := make([]fixture.Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		switch venue {
		case VenueHome:
			if f.HomeTeam.ID == teamID {
				out = append(out, f)
			}
		case VenueAway:
			if f.AwayTeam.ID == teamID {
				out = append(out, f)
			}
		}
	}
	return out
}
