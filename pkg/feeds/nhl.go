package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const goalieCacheTTL = 30 * time.Minute

// GoalieStatus is one team's starting goalie situation for a game.
type GoalieStatus struct {
	StarterConfirmed bool   `json:"starter_confirmed"`
	StarterName      string `json:"starter_name,omitempty"`
}

// GoalieReport covers both nets for one game.
type GoalieReport struct {
	Away GoalieStatus `json:"away"`
	Home GoalieStatus `json:"home"`
}

// Odds-feed team names mapped to the NHL API's abbreviations.
var nhlTeamAbbrev = map[string]string{
	"Anaheim Ducks":         "ANA",
	"Boston Bruins":         "BOS",
	"Buffalo Sabres":        "BUF",
	"Calgary Flames":        "CGY",
	"Carolina Hurricanes":   "CAR",
	"Chicago Blackhawks":    "CHI",
	"Colorado Avalanche":    "COL",
	"Columbus Blue Jackets": "CBJ",
	"Dallas Stars":          "DAL",
	"Detroit Red Wings":     "DET",
	"Edmonton Oilers":       "EDM",
	"Florida Panthers":      "FLA",
	"Los Angeles Kings":     "LAK",
	"Minnesota Wild":        "MIN",
	"Montreal Canadiens":    "MTL",
	"Nashville Predators":   "NSH",
	"New Jersey Devils":     "NJD",
	"New York Islanders":    "NYI",
	"New York Rangers":      "NYR",
	"Ottawa Senators":       "OTT",
	"Philadelphia Flyers":   "PHI",
	"Pittsburgh Penguins":   "PIT",
	"San Jose Sharks":       "SJS",
	"Seattle Kraken":        "SEA",
	"St Louis Blues":        "STL",
	"St. Louis Blues":       "STL",
	"Tampa Bay Lightning":   "TBL",
	"Toronto Maple Leafs":   "TOR",
	"Utah Hockey Club":      "UTA",
	"Vancouver Canucks":     "VAN",
	"Vegas Golden Knights":  "VGK",
	"Washington Capitals":   "WSH",
	"Winnipeg Jets":         "WPG",
}

type goalieEntry struct {
	report  GoalieReport
	fetched time.Time
}

// GoalieClient resolves starting goalie confirmations from the public
// NHL API. Responses cache for half an hour; starter announcements do
// not churn faster than that.
type GoalieClient struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger

	mu    sync.Mutex
	cache map[string]goalieEntry
}

// NewGoalieClient builds a client against the public NHL API.
func NewGoalieClient(logger zerolog.Logger) *GoalieClient {
	return &GoalieClient{
		baseURL: "https://api-web.nhle.com",
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     logger.With().Str("component", "nhl").Logger(),
		cache:   make(map[string]goalieEntry),
	}
}

// Report returns the goalie report for a matchup, nil when the teams
// cannot be resolved or the API is unreachable. A nil report downgrades
// to the unconfirmed-goalie flag downstream rather than blocking.
func (c *GoalieClient) Report(ctx context.Context, awayTeam, homeTeam string) *GoalieReport {
	awayAbbrev, okA := nhlTeamAbbrev[awayTeam]
	homeAbbrev, okH := nhlTeamAbbrev[homeTeam]
	if !okA || !okH {
		c.log.Debug().Str("away", awayTeam).Str("home", homeTeam).Msg("unmapped nhl team")
		return nil
	}

	cacheKey := awayAbbrev + "@" + homeAbbrev
	c.mu.Lock()
	if e, ok := c.cache[cacheKey]; ok && time.Since(e.fetched) < goalieCacheTTL {
		c.mu.Unlock()
		report := e.report
		return &report
	}
	c.mu.Unlock()

	report, err := c.fetchReport(ctx, awayAbbrev, homeAbbrev)
	if err != nil {
		c.log.Warn().Err(err).Str("matchup", cacheKey).Msg("goalie fetch failed")
		return nil
	}

	c.mu.Lock()
	c.cache[cacheKey] = goalieEntry{report: *report, fetched: time.Now()}
	c.mu.Unlock()
	return report
}

// fetchReport pulls today's scores feed and scans the matchup for
// announced starters.
func (c *GoalieClient) fetchReport(ctx context.Context, awayAbbrev, homeAbbrev string) (*GoalieReport, error) {
	url := fmt.Sprintf("%s/v1/score/now", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching scores: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scores status %d", resp.StatusCode)
	}

	var payload struct {
		Games []struct {
			AwayTeam struct {
				Abbrev string `json:"abbrev"`
			} `json:"awayTeam"`
			HomeTeam struct {
				Abbrev string `json:"abbrev"`
			} `json:"homeTeam"`
			Matchup struct {
				Goalies []struct {
					TeamAbbrev string `json:"teamAbbrev"`
					Name       struct {
						Default string `json:"default"`
					} `json:"name"`
					Confirmed bool `json:"confirmed"`
				} `json:"goalies"`
			} `json:"matchup"`
		} `json:"games"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding scores: %w", err)
	}

	for _, g := range payload.Games {
		if !strings.EqualFold(g.AwayTeam.Abbrev, awayAbbrev) || !strings.EqualFold(g.HomeTeam.Abbrev, homeAbbrev) {
			continue
		}
		report := &GoalieReport{}
		for _, goalie := range g.Matchup.Goalies {
			status := GoalieStatus{StarterConfirmed: goalie.Confirmed, StarterName: goalie.Name.Default}
			if strings.EqualFold(goalie.TeamAbbrev, awayAbbrev) {
				report.Away = status
			} else if strings.EqualFold(goalie.TeamAbbrev, homeAbbrev) {
				report.Home = status
			}
		}
		return report, nil
	}
	return nil, fmt.Errorf("matchup %s@%s not in today's slate", awayAbbrev, homeAbbrev)
}
