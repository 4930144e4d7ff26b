// Package parlay builds two-leg parlays from independent graded
// candidates. Parlays multiply vig as well as payout, so legs must
// clear stricter filters than straight bets and correlated pairs are
// rejected outright.
package parlay

import (
	"fmt"
	"math"
	"sort"

	"github.com/sharpline/sharpline/pkg/engine"
	"github.com/sharpline/sharpline/pkg/odds"
)

const (
	// Leg filters: stronger than the straight-bet floor because parlay
	// EV decays with the product of the leg edges.
	MinLegScore = 40.0
	MinLegEdge  = 0.04
	MaxLegPrice = 10000.0

	// MinParlayEV is the floor on combined expected value.
	MinParlayEV = 0.02

	// KellyFraction for parlays is tighter than the 0.25 used on
	// straights; variance compounds across legs.
	KellyFraction = 0.10
	MaxKellySize  = 0.5

	// sameSportPenalty discounts joint probability for legs from the
	// same sport, a crude haircut for shared-environment correlation.
	sameSportPenalty = 0.95

	// MaxParlays caps the board.
	MaxParlays = 10
)

// Parlay is a scored two-leg ticket.
type Parlay struct {
	LegA          engine.BetCandidate `json:"leg_a"`
	LegB          engine.BetCandidate `json:"leg_b"`
	JointProb     float64             `json:"joint_prob"`
	DecimalPayout float64             `json:"decimal_payout"`
	EV            float64             `json:"ev"`
	KellySize     float64             `json:"kelly_size"`
	Score         float64             `json:"score"`
}

// Label is a short human-readable ticket description.
func (p Parlay) Label() string {
	return fmt.Sprintf("%s + %s", p.LegA.Target, p.LegB.Target)
}

// eligible reports whether a candidate qualifies as a parlay leg.
func eligible(c engine.BetCandidate) bool {
	if c.Killed() {
		return false
	}
	if c.SharpScore < MinLegScore || c.EdgePct < MinLegEdge {
		return false
	}
	return math.Abs(c.Price) <= MaxLegPrice
}

// independent rejects legs that settle on the same game.
func independent(a, b engine.BetCandidate) bool {
	return a.EventID != b.EventID && a.Matchup != b.Matchup
}

// Build pairs every eligible candidate with every other, scores the
// independent pairs, and returns the best tickets sorted by score.
func Build(candidates []engine.BetCandidate) []Parlay {
	var legs []engine.BetCandidate
	for _, c := range candidates {
		if eligible(c) {
			legs = append(legs, c)
		}
	}

	var out []Parlay
	for i := 0; i < len(legs); i++ {
		for j := i + 1; j < len(legs); j++ {
			if p, ok := combine(legs[i], legs[j]); ok {
				out = append(out, p)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > MaxParlays {
		out = out[:MaxParlays]
	}
	return out
}

func combine(a, b engine.BetCandidate) (Parlay, bool) {
	if !independent(a, b) {
		return Parlay{}, false
	}

	joint := a.WinProb * b.WinProb
	if a.SportName == b.SportName {
		joint *= sameSportPenalty
	}
	payout := odds.ToDecimal(a.Price) * odds.ToDecimal(b.Price)
	ev := joint*payout - 1

	if ev < MinParlayEV {
		return Parlay{}, false
	}

	kelly := KellyFraction * (joint*payout - 1) / (payout - 1)
	if kelly < 0 {
		kelly = 0
	}
	if kelly > MaxKellySize {
		kelly = MaxKellySize
	}

	avgSharp := (a.SharpScore + b.SharpScore) / 2
	score := 0.40*math.Min(100, ev*500) + 0.30*joint*100 + 0.30*avgSharp

	return Parlay{
		LegA:          a,
		LegB:          b,
		JointProb:     joint,
		DecimalPayout: payout,
		EV:            ev,
		KellySize:     kelly,
		Score:         score,
	}, true
}
