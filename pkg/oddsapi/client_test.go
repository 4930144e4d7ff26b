package oddsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sharpline/sharpline/pkg/market"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(&Config{
		APIKey:            "test-key",
		BaseURL:           baseURL,
		RequestsPerSecond: 1000,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(&Config{}, zerolog.Nop()); err == nil {
		t.Fatal("NewClient without key: want error")
	}
}

func TestFetchGameLines(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("x-requests-remaining", "482")
		w.Header().Set("x-requests-used", "18")
		w.Header().Set("x-requests-last", "1")
		w.Write([]byte(`[{
			"id": "evt1",
			"sport_key": "basketball_nba",
			"commence_time": "2026-02-14T23:00:00Z",
			"home_team": "Boston Celtics",
			"away_team": "New York Knicks",
			"bookmakers": [{
				"key": "draftkings", "title": "DraftKings",
				"markets": [{"key": "h2h", "outcomes": [
					{"name": "Boston Celtics", "price": -150},
					{"name": "New York Knicks", "price": 130}
				]}]
			}]
		}]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	games, err := c.FetchGameLines(context.Background(), market.SportNBA)
	if err != nil {
		t.Fatalf("FetchGameLines: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("games = %d, want 1", len(games))
	}
	g := games[0]
	if g.ID != "evt1" || g.HomeTeam != "Boston Celtics" || len(g.Bookmakers) != 1 {
		t.Errorf("unexpected game payload: %+v", g)
	}
	if g.Bookmakers[0].Markets[0].Outcomes[0].Price != -150 {
		t.Errorf("price = %v, want -150", g.Bookmakers[0].Markets[0].Outcomes[0].Price)
	}

	if !strings.Contains(gotPath, "basketball_nba") {
		t.Errorf("path = %q, want the NBA sport key", gotPath)
	}
	for _, want := range []string{"oddsFormat=american", "regions=us", "draftkings"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}

	q := c.Quota()
	if q.Remaining != 482 || q.Used != 18 {
		t.Errorf("quota = %+v, want remaining 482 used 18", q)
	}
	if c.QuotaLow(100) {
		t.Error("QuotaLow(100) = true with 482 remaining")
	}
	if !c.QuotaLow(500) {
		t.Error("QuotaLow(500) = false with 482 remaining")
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	shortenBackoff(c)
	if _, err := c.FetchGameLines(context.Background(), market.SportNHL); err != nil {
		t.Fatalf("FetchGameLines after retries: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestFetchDoesNotRetryAuthErrors(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusUnprocessableEntity} {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(status)
		}))

		c := newTestClient(t, srv.URL)
		_, err := c.FetchGameLines(context.Background(), market.SportNHL)
		srv.Close()

		if err == nil {
			t.Errorf("status %d: want error", status)
		}
		if attempts != 1 {
			t.Errorf("status %d: attempts = %d, want 1 (no retry)", status, attempts)
		}
	}
}

func TestFetchBatchIsolatesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "icehockey_nhl") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	shortenBackoff(c)
	res := c.FetchBatch(context.Background(), []market.Sport{market.SportNBA, market.SportNHL, market.SportNFL}, 0)

	if _, ok := res.Games[market.SportNBA]; !ok {
		t.Error("NBA missing from results")
	}
	if _, ok := res.Games[market.SportNFL]; !ok {
		t.Error("NFL missing from results despite earlier NHL failure")
	}
	if res.Errs[market.SportNHL] == nil {
		t.Error("NHL error not recorded")
	}
}

func TestFetchBatchStopsOnLowQuota(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("x-requests-remaining", "3")
		w.Header().Set("x-requests-used", "497")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	res := c.FetchBatch(context.Background(), []market.Sport{market.SportNBA, market.SportNHL, market.SportNFL}, 10)

	if calls != 1 {
		t.Errorf("calls = %d, want 1 (stop after quota headers show low)", calls)
	}
	if len(res.Games) != 1 {
		t.Errorf("results = %d, want 1", len(res.Games))
	}
}

func TestTennisSportKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"key": "tennis_atp_french_open", "active": true},
			{"key": "tennis_wta_wimbledon", "active": false},
			{"key": "basketball_nba", "active": true}
		]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	keys, err := c.TennisSportKeys(context.Background())
	if err != nil {
		t.Fatalf("TennisSportKeys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "tennis_atp_french_open" {
		t.Errorf("keys = %v, want only the active tennis tournament", keys)
	}
}

func TestRestDaysFromSchedule(t *testing.T) {
	day := func(d int, hour int) time.Time {
		return time.Date(2026, 2, d, hour, 0, 0, 0, time.UTC)
	}
	games := []market.Game{
		{HomeTeam: "Celtics", AwayTeam: "Knicks", CommenceTime: day(10, 0)},
		{HomeTeam: "Knicks", AwayTeam: "Nets", CommenceTime: day(11, 0)},   // Knicks B2B (24h)
		{HomeTeam: "Celtics", AwayTeam: "Heat", CommenceTime: day(13, 12)}, // Celtics 3.5 days
		{HomeTeam: "Bucks", AwayTeam: "Bulls", CommenceTime: day(12, 0)},   // single game each
	}

	rest := RestDaysFromSchedule(games)

	if got, ok := rest["Knicks"]; !ok || got != 0 {
		t.Errorf("Knicks rest = (%v, %v), want back-to-back 0", got, ok)
	}
	if got, ok := rest["Celtics"]; !ok || got != 3 {
		t.Errorf("Celtics rest = (%v, %v), want 3", got, ok)
	}
	if _, ok := rest["Bucks"]; ok {
		t.Error("single-game team should be omitted")
	}
	if _, ok := rest["Nets"]; ok {
		t.Error("single-game team should be omitted")
	}
}

// shortenBackoff keeps retry tests fast.
func shortenBackoff(c *Client) {
	c.cfg.RetryDelay = time.Millisecond
}
