// Package oddsapi is the client for The Odds API v4: multi-book odds
// payloads, quota tracking from response headers, retry with backoff,
// and schedule-derived rest days.
package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/sharpline/sharpline/pkg/market"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api.the-odds-api.com"

// PreferredBooks are the books worth quoting: liquid, US-facing, and
// slow enough to move that stale prices actually appear.
var PreferredBooks = []string{"draftkings", "fanduel", "betmgm", "betrivers", "caesars"}

// sportKeys maps leagues to API sport keys. Tennis is absent: its
// tournament keys rotate through the season and are discovered live.
var sportKeys = map[market.Sport]string{
	market.SportNBA:        "basketball_nba",
	market.SportNFL:        "americanfootball_nfl",
	market.SportNCAAB:      "basketball_ncaab",
	market.SportNCAAF:      "americanfootball_ncaaf",
	market.SportNHL:        "icehockey_nhl",
	market.SportMLB:        "baseball_mlb",
	market.SportEPL:        "soccer_epl",
	market.SportLigue1:     "soccer_france_ligue_one",
	market.SportBundesliga: "soccer_germany_bundesliga",
	market.SportSerieA:     "soccer_italy_serie_a",
	market.SportLaLiga:     "soccer_spain_la_liga",
	market.SportMLS:        "soccer_usa_mls",
}

// SportKey returns the API key for a league.
func SportKey(s market.Sport) (string, bool) {
	key, ok := sportKeys[s]
	return key, ok
}

// marketsFor returns the market list to request per sport. Soccer skips
// spreads (three-way moneylines carry the signal), tennis quotes
// moneylines only.
func marketsFor(s market.Sport) string {
	switch {
	case s == market.SportTennis:
		return "h2h"
	case s.Soccer():
		return "h2h,totals"
	default:
		return "h2h,spreads,totals"
	}
}

const (
	maxAttempts  = 3
	initialDelay = time.Second
)

// Config holds client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond caps the call rate. The API has no hard rate
	// limit, but bursts waste quota on redundant snapshots.
	RequestsPerSecond float64
	// RetryDelay is the first backoff interval; it doubles per attempt.
	RetryDelay time.Duration
}

// DefaultConfig returns production settings minus the key.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		Timeout:           15 * time.Second,
		RequestsPerSecond: 2,
		RetryDelay:        initialDelay,
	}
}

// Client is a rate-limited Odds API client. Safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	quota   *quotaTracker
	log     zerolog.Logger
}

// NewClient builds a client. A nil config uses defaults; the API key is
// required either way.
func NewClient(cfg *Config, logger zerolog.Logger) (*Client, error) {
	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
		if c.BaseURL == "" {
			c.BaseURL = DefaultBaseURL
		}
		if c.Timeout == 0 {
			c.Timeout = 15 * time.Second
		}
		if c.RequestsPerSecond == 0 {
			c.RequestsPerSecond = 2
		}
		if c.RetryDelay == 0 {
			c.RetryDelay = initialDelay
		}
	}
	if c.APIKey == "" {
		return nil, fmt.Errorf("oddsapi: API key required")
	}
	return &Client{
		cfg:     c,
		http:    &http.Client{Timeout: c.Timeout},
		limiter: rate.NewLimiter(rate.Limit(c.RequestsPerSecond), 1),
		quota:   &quotaTracker{},
		log:     logger.With().Str("component", "oddsapi").Logger(),
	}, nil
}

// Quota returns the latest usage snapshot.
func (c *Client) Quota() Quota {
	return c.quota.snapshot()
}

// QuotaLow reports whether remaining quota is at or below threshold.
func (c *Client) QuotaLow(threshold float64) bool {
	return c.quota.isLow(threshold)
}

// FetchGameLines fetches current odds for one league from the preferred
// books.
func (c *Client) FetchGameLines(ctx context.Context, sport market.Sport) ([]market.Game, error) {
	key, ok := sportKeys[sport]
	if !ok {
		return nil, fmt.Errorf("oddsapi: no sport key for %s", sport)
	}
	return c.FetchByKey(ctx, key, marketsFor(sport))
}

// FetchByKey fetches odds for an explicit API sport key, used for the
// rotating tennis tournament keys.
func (c *Client) FetchByKey(ctx context.Context, sportKey, markets string) ([]market.Game, error) {
	q := url.Values{
		"apiKey":     {c.cfg.APIKey},
		"regions":    {"us"},
		"markets":    {markets},
		"oddsFormat": {"american"},
		"bookmakers": {strings.Join(PreferredBooks, ",")},
	}
	endpoint := fmt.Sprintf("%s/v4/sports/%s/odds/?%s", c.cfg.BaseURL, sportKey, q.Encode())

	var games []market.Game
	if err := c.getJSON(ctx, endpoint, &games); err != nil {
		return nil, fmt.Errorf("fetching %s odds: %w", sportKey, err)
	}
	c.log.Debug().Str("sport", sportKey).Int("games", len(games)).Msg("fetched lines")
	return games, nil
}

// BatchResult is the per-sport outcome of a batch fetch. Errors are
// isolated per sport so one dead league never empties the board.
type BatchResult struct {
	Games map[market.Sport][]market.Game
	Errs  map[market.Sport]error
}

// FetchBatch fetches several leagues, stopping early if quota falls to
// or below lowQuotaThreshold (0 disables the stop).
func (c *Client) FetchBatch(ctx context.Context, sports []market.Sport, lowQuotaThreshold float64) BatchResult {
	res := BatchResult{
		Games: make(map[market.Sport][]market.Game),
		Errs:  make(map[market.Sport]error),
	}
	for _, s := range sports {
		if lowQuotaThreshold > 0 && c.quota.isLow(lowQuotaThreshold) {
			c.log.Warn().Float64("remaining", c.Quota().Remaining).Msg("quota low, stopping batch")
			break
		}
		games, err := c.FetchGameLines(ctx, s)
		if err != nil {
			res.Errs[s] = err
			continue
		}
		res.Games[s] = games
	}
	return res
}

// TennisSportKeys discovers the currently active tennis tournament keys
// from the sport catalogue.
func (c *Client) TennisSportKeys(ctx context.Context) ([]string, error) {
	endpoint := fmt.Sprintf("%s/v4/sports/?apiKey=%s", c.cfg.BaseURL, c.cfg.APIKey)

	var catalogue []struct {
		Key    string `json:"key"`
		Active bool   `json:"active"`
	}
	if err := c.getJSON(ctx, endpoint, &catalogue); err != nil {
		return nil, fmt.Errorf("fetching sport catalogue: %w", err)
	}

	var keys []string
	for _, s := range catalogue {
		if s.Active && strings.HasPrefix(s.Key, "tennis") {
			keys = append(keys, s.Key)
		}
	}
	return keys, nil
}

// ProbeReport lists which books are actually quoting a sport right now.
type ProbeReport struct {
	SportKey string         `json:"sport_key"`
	Books    map[string]int `json:"books"` // book key → games quoted
}

// ProbeBookmakers fetches one sport and counts quote coverage per book.
func (c *Client) ProbeBookmakers(ctx context.Context, sportKey string) (*ProbeReport, error) {
	games, err := c.FetchByKey(ctx, sportKey, "h2h")
	if err != nil {
		return nil, err
	}
	report := &ProbeReport{SportKey: sportKey, Books: make(map[string]int)}
	for _, g := range games {
		for _, b := range g.Bookmakers {
			report.Books[b.Key]++
		}
	}
	return report, nil
}

// getJSON performs a GET with rate limiting and retry. 401 and 422 are
// terminal (bad key, bad params); 429 waits double the current delay;
// other failures back off exponentially up to maxAttempts.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	delay := c.cfg.RetryDelay
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("building request: %w", err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
		} else {
			c.quota.update(resp.Header)
			switch {
			case resp.StatusCode == http.StatusOK:
				err = json.NewDecoder(resp.Body).Decode(out)
				resp.Body.Close()
				if err != nil {
					return fmt.Errorf("decoding response: %w", err)
				}
				return nil
			case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusUnprocessableEntity:
				resp.Body.Close()
				return fmt.Errorf("status %d (not retryable)", resp.StatusCode)
			case resp.StatusCode == http.StatusTooManyRequests:
				resp.Body.Close()
				lastErr = fmt.Errorf("status 429")
				delay *= 2
			default:
				resp.Body.Close()
				lastErr = fmt.Errorf("status %d", resp.StatusCode)
			}
		}

		if attempt < maxAttempts {
			c.log.Debug().Err(lastErr).Int("attempt", attempt).Dur("delay", delay).Msg("retrying")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}
	}
	return fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}
