package apifootball

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/betfaro/betstats/internal/platform/logging"
	"github.com/betfaro/betstats/internal/platform/resilience"
)

const testAPIKey = "test-key-123"

func newTestClient(t *testing.T, handler http.Handler, maxRetries int) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		APIKey:     testAPIKey,
		MaxRetries: maxRetries,
	})
}

func searchPayload(id int64, name string) string {
	return fmt.Sprintf(`{"get":"teams","results":1,"errors":[],"response":[{"team":{"id":%d,"name":%q}}]}`, id, name)
}

func TestSearchTeamsReturnsMappedTeams(t *testing.T) {
	t.Parallel()

	var gotKey atomic.Value
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.Header.Get(apiKeyHeader))
		fmt.Fprint(w, searchPayload(42, "Arsenal"))
	})

	client := newTestClient(t, handler, -1)

	teams, err := client.SearchTeams(context.Background(), "Arsenal")
	if err != nil {
		t.Fatalf("SearchTeams(): %v", err)
	}
	if len(teams) != 1 || teams[0].ID != 42 || teams[0].Name != "Arsenal" {
		t.Fatalf("SearchTeams() = %+v, want Arsenal (42)", teams)
	}
	if gotKey.Load() != testAPIKey {
		t.Fatalf("api key header = %q, want %q", gotKey.Load(), testAPIKey)
	}
}

func TestSearchTeamsFallsBackToNextVariation(t *testing.T) {
	t.Parallel()

	var searches []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		search := r.URL.Query().Get("search")
		searches = append(searches, search)
		if search == "Al Khaleej FC" {
			fmt.Fprint(w, `{"get":"teams","results":0,"errors":[],"response":[]}`)
			return
		}
		fmt.Fprint(w, searchPayload(2933, "Al-Khaleej Saihat"))
	})

	client := newTestClient(t, handler, -1)

	teams, err := client.SearchTeams(context.Background(), "Al-Khaleej FC")
	if err != nil {
		t.Fatalf("SearchTeams(): %v", err)
	}
	if len(teams) != 1 || teams[0].ID != 2933 {
		t.Fatalf("SearchTeams() = %+v, want Al-Khaleej Saihat", teams)
	}
	if len(searches) < 2 || searches[0] != "Al Khaleej FC" {
		t.Fatalf("searches = %v, want full query first then variations", searches)
	}
}

func TestSearchTeamsCachesResults(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, searchPayload(49, "Chelsea"))
	})

	client := newTestClient(t, handler, -1)

	for i := 0; i < 3; i++ {
		if _, err := client.SearchTeams(context.Background(), "Chelsea"); err != nil {
			t.Fatalf("SearchTeams() call %d: %v", i+1, err)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("provider hit %d times, want 1 (cached)", hits.Load())
	}
}

func TestGetJSONRetriesOnServerError(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, searchPayload(85, "Paris Saint Germain"))
	})

	client := newTestClient(t, handler, 1)

	teams, err := client.SearchTeams(context.Background(), "PSG")
	if err != nil {
		t.Fatalf("SearchTeams(): %v", err)
	}
	if len(teams) != 1 || teams[0].ID != 85 {
		t.Fatalf("SearchTeams() = %+v, want PSG after retry", teams)
	}
	if hits.Load() != 2 {
		t.Fatalf("provider hit %d times, want 2", hits.Load())
	}
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	client := newTestClient(t, handler, 2)

	if _, err := client.TeamFixtures(context.Background(), 42, 10); err == nil {
		t.Fatalf("TeamFixtures() succeeded against a 403 provider")
	}
	if hits.Load() != 1 {
		t.Fatalf("provider hit %d times, want 1 (no retry on 403)", hits.Load())
	}
}

func TestGetJSONSurfacesEnvelopeErrors(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"get":"fixtures","results":0,"errors":{"token":"Error/Missing application key."},"response":[]}`)
	})

	client := newTestClient(t, handler, -1)

	_, err := client.TeamFixtures(context.Background(), 42, 10)
	if err == nil {
		t.Fatalf("TeamFixtures() ignored envelope errors")
	}
	if !errors.Is(err, errAPIFootballTransient) {
		t.Fatalf("envelope error not classified transient: %v", err)
	}
}

func TestTeamFixturesMapsStatusesAndGoals(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"get":"fixtures","results":2,"errors":[],"response":[
			{"fixture":{"id":101,"date":"2026-02-20T19:00:00+00:00","status":{"short":"FT"}},
			 "league":{"id":39,"name":"Premier League","type":"League"},
			 "teams":{"home":{"id":42,"name":"Arsenal"},"away":{"id":49,"name":"Chelsea"}},
			 "goals":{"home":2,"away":1}},
			{"fixture":{"id":102,"date":"2026-03-05T15:00:00+00:00","status":{"short":"NS"}},
			 "league":{"id":39,"name":"Premier League","type":"League"},
			 "teams":{"home":{"id":49,"name":"Chelsea"},"away":{"id":42,"name":"Arsenal"}},
			 "goals":{"home":null,"away":null}}
		]}`)
	})

	client := newTestClient(t, handler, -1)

	fixtures, err := client.TeamFixtures(context.Background(), 42, 10)
	if err != nil {
		t.Fatalf("TeamFixtures(): %v", err)
	}
	if len(fixtures) != 2 {
		t.Fatalf("got %d fixtures, want 2", len(fixtures))
	}

	finished := fixtures[0]
	if !finished.Final() || !finished.Scored() {
		t.Fatalf("fixture 101 not mapped as finished and scored: %+v", finished)
	}
	if *finished.HomeGoals != 2 || *finished.AwayGoals != 1 {
		t.Fatalf("fixture 101 goals = %d-%d, want 2-1", *finished.HomeGoals, *finished.AwayGoals)
	}

	upcoming := fixtures[1]
	if !upcoming.Upcoming() || upcoming.Scored() {
		t.Fatalf("fixture 102 not mapped as upcoming: %+v", upcoming)
	}
	if upcoming.KickoffAt.IsZero() {
		t.Fatalf("fixture 102 kickoff not parsed")
	}
}

func TestFixturesByDateSendsDateParam(t *testing.T) {
	t.Parallel()

	var gotDate atomic.Value
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDate.Store(r.URL.Query().Get("date"))
		fmt.Fprint(w, `{"get":"fixtures","results":0,"errors":[],"response":[]}`)
	})

	client := newTestClient(t, handler, -1)

	day := time.Date(2026, 3, 2, 23, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	if _, err := client.FixturesByDate(context.Background(), day); err != nil {
		t.Fatalf("FixturesByDate(): %v", err)
	}
	if gotDate.Load() != "2026-03-03" {
		t.Fatalf("date param = %q, want UTC day 2026-03-03", gotDate.Load())
	}
}

func TestCircuitBreakerShortCircuitsAfterFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		APIKey:     testAPIKey,
		MaxRetries: -1,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
		},
	})

	// Two distinct uncached lookups trip the two-failure breaker, the third
	// never reaches the wire.
	_, _ = client.TeamFixtures(context.Background(), 1, 10)
	_, _ = client.TeamFixtures(context.Background(), 2, 10)
	before := hits.Load()

	_, err := client.TeamFixtures(context.Background(), 3, 10)
	if err == nil {
		t.Fatalf("TeamFixtures() succeeded with breaker open")
	}
	if hits.Load() != before {
		t.Fatalf("open breaker still reached the provider")
	}
}
