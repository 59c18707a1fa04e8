package usecase

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

type IntentType string

const (
	IntentTeam  IntentType = "team"
	IntentMatch IntentType = "match"
)

type VenueFilter string

const (
	VenueAll  VenueFilter = "all"
	VenueHome VenueFilter = "home"
	VenueAway VenueFilter = "away"
)

// DefaultSampleSize is used when the text carries no explicit game count.
const DefaultSampleSize = 10

// Intent is the structured form of a free-text query.
type Intent struct {
	Type       IntentType  `json:"intent"`
	TeamA      string      `json:"team_a"`
	TeamB      string      `json:"team_b,omitempty"`
	SampleSize int         `json:"n"`
	Venue      VenueFilter `json:"home_away"`
	Metrics    []string    `json:"metrics"`
}

// IntentParser turns free text into an Intent. The heuristic implementation
// is total; the LLM-backed one may fail and defers to it.
type IntentParser interface {
	Parse(ctx context.Context, text string) (Intent, error)
}

// Separator patterns tried in order; the first match wins. Separators must
// be whitespace-bounded so hyphenated club names (Al-Khaleej) survive.
var separatorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(.+?)\s+x\s+(.+?)\s*$`),
	regexp.MustCompile(`(?i)^\s*(.+?)\s+vs\s+(.+?)\s*$`),
	regexp.MustCompile(`(?i)^\s*(.+?)\s+v\s+(.+?)\s*$`),
	regexp.MustCompile(`^\s*(.+?)\s+-\s+(.+?)\s*$`),
	regexp.MustCompile(`(?i)^\s*(.+?)\s+contra\s+(.+?)\s*$`),
	regexp.MustCompile(`(?i)^\s*(.+?)\s+versus\s+(.+?)\s*$`),
}

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Phrase-to-metric table scanned in order. Later duplicates of a key are
// collapsed.
var metricPhrases = []struct {
	phrase string
	metric string
}{
	{"over 0.5", "over_0_5"},
	{"over 1.5", "over_1_5"},
	{"over 2.5", "over_2_5"},
	{"over 3.5", "over_3_5"},
	{"btts", "btts"},
	{"both teams score", "btts"},
	{"win rate", "win_rate"},
	{"winrate", "win_rate"},
	{"draw rate", "draw_rate"},
	{"loss rate", "loss_rate"},
	{"clean sheet", "clean_sheet_rate"},
	{"failed to score", "failed_to_score_rate"},
	{"avg goals against", "avg_goals_against"},
	{"avg goals for", "avg_goals_for"},
	{"avg goals", "avg_goals_for"},
	{"avg total goals", "avg_total_goals"},
}

var defaultMetrics = []string{"over_2_5", "btts", "win_rate"}

// HeuristicParser is the deterministic fallback parser. It always produces
// an Intent: text without a recognizable separator becomes a single-team
// query over the whole input.
type HeuristicParser struct{}

func (HeuristicParser) Parse(_ context.Context, text string) (Intent, error) {
	intent := Intent{
		Type:       IntentTeam,
		SampleSize: extractSampleSize(text),
		Venue:      extractVenue(text),
		Metrics:    extractMetrics(text),
	}

	for _, pattern := range separatorPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		teamA := strings.TrimSpace(m[1])
		teamB := strings.TrimSpace(m[2])
		if teamA == "" || teamB == "" {
			continue
		}
		intent.Type = IntentMatch
		intent.TeamA = teamA
		intent.TeamB = teamB
		return intent, nil
	}

	intent.TeamA = strings.TrimSpace(text)
	return intent, nil
}

// ParserChain tries parsers in order and returns the first success. The
// last parser should be a HeuristicParser so the chain is total.
type ParserChain struct {
	parsers []IntentParser
}

func NewParserChain(parsers ...IntentParser) *ParserChain {
	return &ParserChain{parsers: parsers}
}

func (c *ParserChain) Parse(ctx context.Context, text string) (Intent, error) {
	var lastErr error
	for _, p := range c.parsers {
		if p == nil {
			continue
		}
		intent, err := p.Parse(ctx, text)
		if err != nil {
			lastErr = err
			continue
		}
		return intent, nil
	}
	if lastErr != nil {
		return Intent{}, lastErr
	}
	return HeuristicParser{}.Parse(ctx, text)
}

// extractSampleSize picks the last bare integer in the text. Decimal
// numbers such as market thresholds ("over 2.5") are not sample sizes.
func extractSampleSize(text string) int {
	size := DefaultSampleSize
	for _, match := range numberPattern.FindAllString(text, -1) {
		if strings.Contains(match, ".") {
			continue
		}
		if n, err := strconv.Atoi(match); err == nil && n > 0 {
			size = n
		}
	}
	return size
}

// Away keywords take precedence over home keywords.
func extractVenue(text string) VenueFilter {
	lowered := strings.ToLower(text)
	for _, kw := range []string{"away", "fora", "visitante"} {
		if strings.Contains(lowered, kw) {
			return VenueAway
		}
	}
	for _, kw := range []string{"home", "casa", "mandante"} {
		if strings.Contains(lowered, kw) {
			return VenueHome
		}
	}
	return VenueAll
}

func extractMetrics(text string) []string {
	lowered := strings.ToLower(text)

	var metrics []string
	seen := make(map[string]struct{})
	for _, entry := range metricPhrases {
		if !strings.Contains(lowered, entry.phrase) {
			continue
		}
		if _, dup := seen[entry.metric]; dup {
			continue
		}
		seen[entry.metric] = struct{}{}
		metrics = append(metrics, entry.metric)
	}

	if len(metrics) == 0 {
		return append([]string(nil), defaultMetrics...)
	}
	return metrics
}
