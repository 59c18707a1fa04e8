// Package apifootball implements the fixture provider against the
// API-Football v3 HTTP API.
package apifootball

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/betfaro/betstats/internal/domain/fixture"
	"github.com/betfaro/betstats/internal/domain/team"
	"github.com/betfaro/betstats/internal/platform/cache"
	"github.com/betfaro/betstats/internal/platform/logging"
	"github.com/betfaro/betstats/internal/platform/resilience"
	"github.com/betfaro/betstats/internal/usecase"
)

const (
	defaultBaseURL    = "https://v3.football.api-sports.io"
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 2
	defaultCacheTTL   = 5 * time.Minute
	maxResponseBytes  = 6 << 20
	apiKeyHeader      = "x-apisports-key"
)

var errAPIFootballTransient = crerr.New("api-football transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	CacheTTL       time.Duration
	Cache          *cache.Store
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to API-Football with TTL caching, bounded retries, a circuit
// breaker and in-flight request collapsing. It implements
// usecase.FixtureProvider.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	cacheTTL       time.Duration
	cache          *cache.Store
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = timeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	if cfg.MaxRetries == 0 {
		maxRetries = defaultMaxRetries
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	store := cfg.Cache
	if store == nil {
		store = cache.NewStore()
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxRetries,
		cacheTTL:       cacheTTL,
		cache:          store,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// SearchTeams tries each search-term variation in order and returns the
// first non-empty result set. Variation failures are logged and skipped; an
// error surfaces only when every variation failed outright.
func (c *Client) SearchTeams(ctx context.Context, query string) ([]team.Team, error) {
	variations := searchVariations(query)
	if len(variations) == 0 {
		return nil, nil
	}

	var lastErr error
	for _, variation := range variations {
		cacheKey := "search_teams_" + strings.ToLower(variation)
		value, err := c.cache.GetOrLoad(ctx, cacheKey, c.cacheTTL, func(ctx context.Context) (any, error) {
			var items []teamItem
			if err := c.getJSON(ctx, "/teams", map[string]string{"search": variation}, &items); err != nil {
				return nil, err
			}
			return mapTeams(items), nil
		})
		if err != nil {
			lastErr = err
			c.logger.WarnContext(ctx, "team search variation failed",
				"variation", variation, "error", err)
			continue
		}

		teams, ok := value.([]team.Team)
		if !ok {
			lastErr = fmt.Errorf("unexpected cache payload type %T", value)
			continue
		}
		if len(teams) > 0 {
			return teams, nil
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}

// TeamFixtures returns the team's last N fixtures.
func (c *Client) TeamFixtures(ctx context.Context, teamID int64, last int) ([]fixture.Fixture, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("team id must be greater than zero")
	}
	if last <= 0 {
		last = 10
	}

	cacheKey := fmt.Sprintf("fixtures_team_%d_%d", teamID, last)
	value, err := c.cache.GetOrLoad(ctx, cacheKey, c.cacheTTL, func(ctx context.Context) (any, error) {
		var items []fixtureItem
		params := map[string]string{
			"team": strconv.FormatInt(teamID, 10),
			"last": strconv.Itoa(last),
		}
		if err := c.getJSON(ctx, "/fixtures", params, &items); err != nil {
			return nil, err
		}
		return mapFixtures(items), nil
	})
	if err != nil {
		return nil, err
	}

	fixtures, ok := value.([]fixture.Fixture)
	if !ok {
		return nil, fmt.Errorf("unexpected cache payload type %T", value)
	}
	return fixtures, nil
}

// FixturesByDate returns every fixture on the given UTC day.
func (c *Client) FixturesByDate(ctx context.Context, day time.Time) ([]fixture.Fixture, error) {
	date := day.UTC().Format("2006-01-02")

	cacheKey := "fixtures_date_" + date
	value, err := c.cache.GetOrLoad(ctx, cacheKey, c.cacheTTL, func(ctx context.Context) (any, error) {
		var items []fixtureItem
		if err := c.getJSON(ctx, "/fixtures", map[string]string{"date": date}, &items); err != nil {
			return nil, err
		}
		return mapFixtures(items), nil
	})
	if err != nil {
		return nil, err
	}

	fixtures, ok := value.([]fixture.Fixture)
	if !ok {
		return nil, fmt.Errorf("unexpected cache payload type %T", value)
	}
	return fixtures, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: sports data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}

// executeRequest performs the HTTP round trip with bounded retries and
// returns the envelope's response payload. Error envelopes count as
// transient failures and are retried like 5xx statuses.
func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		payload, err := c.attemptRequest(ctx, fullURL)
		if err == nil {
			return payload, nil
		}
		lastErr = err

		if !isCircuitFailure(err) || attempt == c.maxRetries {
			break
		}

		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "api-football request failed",
		"url", fullURL, "error", sanitizeSensitiveText(fmt.Sprint(lastErr), c.apiKey))
	return nil, lastErr
}

func (c *Client) attemptRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %s", errAPIFootballTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
	}

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errAPIFootballTransient, readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isRetryableStatus(resp.StatusCode) {
			return nil, fmt.Errorf("%w: provider status=%d body=%s", errAPIFootballTransient, resp.StatusCode, abbreviateBody(raw))
		}
		return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}

	var env envelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: decode provider envelope: %v", errAPIFootballTransient, err)
	}
	if messages := env.errorMessages(); len(messages) > 0 {
		return nil, fmt.Errorf("%w: provider errors: %s", errAPIFootballTransient, strings.Join(messages, "; "))
	}
	if len(env.Response) == 0 {
		return []byte("[]"), nil
	}

	return env.Response, nil
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errAPIFootballTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" || apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, apiKey, "REDACTED")
}
