package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultWindMPH is the fallback when the forecast service is down or
// the stadium is unknown: a typical calm-day reading that triggers no
// wind rule.
const DefaultWindMPH = 5.0

const weatherCacheTTL = time.Hour

// Stadium is an NFL venue. Domes and closed retractables always report
// zero wind.
type Stadium struct {
	Lat  float64
	Lon  float64
	Dome bool
}

var nflStadiums = map[string]Stadium{
	"Buffalo Bills":         {42.7738, -78.7870, false},
	"Miami Dolphins":        {25.9580, -80.2389, false},
	"New England Patriots":  {42.0909, -71.2643, false},
	"New York Jets":         {40.8135, -74.0745, false},
	"Baltimore Ravens":      {39.2780, -76.6227, false},
	"Cincinnati Bengals":    {39.0955, -84.5161, false},
	"Cleveland Browns":      {41.5061, -81.6995, false},
	"Pittsburgh Steelers":   {40.4468, -80.0158, false},
	"Houston Texans":        {29.6847, -95.4107, true},
	"Indianapolis Colts":    {39.7601, -86.1639, true},
	"Jacksonville Jaguars":  {30.3240, -81.6373, false},
	"Tennessee Titans":      {36.1665, -86.7713, false},
	"Denver Broncos":        {39.7439, -105.0201, false},
	"Kansas City Chiefs":    {39.0489, -94.4839, false},
	"Las Vegas Raiders":     {36.0909, -115.1833, true},
	"Los Angeles Chargers":  {33.9535, -118.3392, true},
	"Dallas Cowboys":        {32.7473, -97.0945, true},
	"New York Giants":       {40.8135, -74.0745, false},
	"Philadelphia Eagles":   {39.9008, -75.1675, false},
	"Washington Commanders": {38.9076, -76.8645, false},
	"Chicago Bears":         {41.8623, -87.6167, false},
	"Detroit Lions":         {42.3400, -83.0456, true},
	"Green Bay Packers":     {44.5013, -88.0622, false},
	"Minnesota Vikings":     {44.9738, -93.2575, true},
	"Atlanta Falcons":       {33.7554, -84.4010, true},
	"Carolina Panthers":     {35.2258, -80.8528, false},
	"New Orleans Saints":    {29.9511, -90.0812, true},
	"Tampa Bay Buccaneers":  {27.9759, -82.5033, false},
	"Arizona Cardinals":     {33.5276, -112.2626, true},
	"Los Angeles Rams":      {33.9535, -118.3392, true},
	"San Francisco 49ers":   {37.4030, -121.9696, false},
	"Seattle Seahawks":      {47.5952, -122.3316, false},
}

type windEntry struct {
	mph     float64
	fetched time.Time
}

// WindClient fetches home-stadium wind for NFL games from Open-Meteo,
// with an hour-level cache since forecasts do not move on poll cadence.
type WindClient struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger

	mu    sync.Mutex
	cache map[string]windEntry
}

// NewWindClient builds a client against the public Open-Meteo endpoint.
func NewWindClient(logger zerolog.Logger) *WindClient {
	return &WindClient{
		baseURL: "https://api.open-meteo.com/v1/forecast",
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     logger.With().Str("component", "weather").Logger(),
		cache:   make(map[string]windEntry),
	}
}

// StadiumWind returns the current wind in mph at a home team's stadium.
// Domes report zero; unknown teams and fetch failures report the calm
// default so a weather outage never suppresses candidate assembly.
func (c *WindClient) StadiumWind(ctx context.Context, homeTeam string) float64 {
	stadium, ok := nflStadiums[homeTeam]
	if !ok {
		return DefaultWindMPH
	}
	if stadium.Dome {
		return 0
	}

	c.mu.Lock()
	if e, ok := c.cache[homeTeam]; ok && time.Since(e.fetched) < weatherCacheTTL {
		c.mu.Unlock()
		return e.mph
	}
	c.mu.Unlock()

	mph, err := c.fetchWind(ctx, stadium)
	if err != nil {
		c.log.Warn().Err(err).Str("team", homeTeam).Msg("wind fetch failed, using default")
		return DefaultWindMPH
	}

	c.mu.Lock()
	c.cache[homeTeam] = windEntry{mph: mph, fetched: time.Now()}
	c.mu.Unlock()
	return mph
}

func (c *WindClient) fetchWind(ctx context.Context, s Stadium) (float64, error) {
	url := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&current=wind_speed_10m&wind_speed_unit=mph", c.baseURL, s.Lat, s.Lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching forecast: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("forecast status %d", resp.StatusCode)
	}

	var payload struct {
		Current struct {
			WindSpeed float64 `json:"wind_speed_10m"`
		} `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decoding forecast: %w", err)
	}
	return payload.Current.WindSpeed, nil
}
