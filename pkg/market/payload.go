package market

import (
	"fmt"
	"time"
)

// Market keys as quoted by the odds feed.
const (
	KeySpreads = "spreads"
	KeyH2H     = "h2h"
	KeyTotals  = "totals"
)

// Totals outcome names.
const (
	SideOver  = "Over"
	SideUnder = "Under"
)

// OutcomeDraw is the draw side of a soccer three-way moneyline.
const OutcomeDraw = "Draw"

// Outcome is one side of a quoted market: a team name or Over/Under,
// its American price, and the line (point) where applicable.
type Outcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Point float64 `json:"point,omitempty"`
}

// Market is one market (spreads, h2h, totals) quoted by one book.
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Bookmaker is one book's full quote set for a game.
type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

// Game is one event with quotes from every polled book.
type Game struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Matchup renders the conventional "Away @ Home" label.
func (g Game) Matchup() string {
	return fmt.Sprintf("%s @ %s", g.AwayTeam, g.HomeTeam)
}

// market returns the named market from a book, if quoted.
func (b Bookmaker) market(key string) (Market, bool) {
	for _, m := range b.Markets {
		if m.Key == key {
			return m, true
		}
	}
	return Market{}, false
}

// Name returns the display name of the book, falling back to its key.
func (b Bookmaker) Name() string {
	if b.Title != "" {
		return b.Title
	}
	return b.Key
}
