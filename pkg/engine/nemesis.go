package engine

import "github.com/sharpline/sharpline/pkg/market"

// Nemesis is the adversarial counter-thesis for a bet: the strongest
// standard argument against it. Display-only; it never removes bets or
// adjusts scores.
type Nemesis struct {
	Counter     string  `json:"counter"`
	Probability float64 `json:"probability"`
	Adjustment  int     `json:"adjustment"`
	Remove      bool    `json:"remove"`
}

type nemesisCase struct {
	counter     string
	probability float64
	adjustment  int
	markets     map[string]bool
}

var anyMarket = map[string]bool{"any": true}

func sides(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

var nemesisCases = map[string][]nemesisCase{
	"NBA": {
		{"Line movement suggests sharp money on other side", 0.30, -15, sides(market.KeySpreads, market.KeyH2H)},
		{"Team relies on 3PT shooting, opponent defends arc well", 0.25, -15, sides(market.KeySpreads, market.KeyH2H)},
		{"Total variance high: pace mismatch creates unpredictable scoring", 0.25, -15, sides(market.KeyTotals)},
		{"B2B fatigue not fully captured in ratings", 0.20, -10, anyMarket},
	},
	"NCAAB": {
		{"Road favorite in hostile environment, pressure on young team", 0.30, -15, sides(market.KeySpreads, market.KeyH2H)},
		{"3PT variance could eliminate efficiency edge", 0.25, -15, sides(market.KeySpreads, market.KeyH2H, market.KeyTotals)},
		{"Underdog at home often outperforms ratings", 0.20, -10, sides(market.KeySpreads, market.KeyH2H)},
		{"Tempo mismatch makes total unreliable", 0.25, -15, sides(market.KeyTotals)},
	},
	"NFL": {
		{"Line through key number (3, 7, 10): extra caution", 0.25, -15, sides(market.KeySpreads)},
		{"Weather variance not fully modeled", 0.25, -15, sides(market.KeyTotals)},
		{"Injury report could change within 24 hours", 0.20, -10, anyMarket},
	},
	"NHL": {
		{"Goalie variance is the dominant factor", 0.30, -15, sides(market.KeyH2H, market.KeySpreads)},
		{"PDO regression: hot team due for correction", 0.25, -15, sides(market.KeyH2H, market.KeySpreads)},
		{"Shot quality vs quantity mismatch clouds total", 0.25, -15, sides(market.KeyTotals)},
	},
	"SOCCER": {
		{"High draw probability (~28%) not fully priced in", 0.25, -15, sides(market.KeyH2H)},
		{"Must-attack team vulnerable on counter", 0.30, -15, sides(market.KeySpreads, market.KeyH2H)},
		{"Low xG variance inflates total uncertainty", 0.25, -10, sides(market.KeyTotals)},
	},
}

// RunNemesis picks the most probable counter-thesis relevant to a
// candidate's sport and market.
func RunNemesis(c BetCandidate) Nemesis {
	key := c.Sport.String()
	if c.Sport.Soccer() {
		key = "SOCCER"
	}
	cases, ok := nemesisCases[key]
	if !ok {
		cases = nemesisCases["NBA"]
	}

	var relevant []nemesisCase
	for _, nc := range cases {
		if nc.markets[c.MarketKey] || nc.markets["any"] {
			relevant = append(relevant, nc)
		}
	}
	if len(relevant) == 0 {
		relevant = cases
	}

	best := relevant[0]
	for _, nc := range relevant[1:] {
		if nc.probability > best.probability {
			best = nc
		}
	}

	adj := 0
	switch {
	case best.probability >= 0.30:
		adj = best.adjustment
	case best.probability >= 0.20:
		adj = best.adjustment / 2
	}
	return Nemesis{
		Counter:     best.counter,
		Probability: best.probability,
		Adjustment:  adj,
		Remove:      best.probability > 0.40,
	}
}
