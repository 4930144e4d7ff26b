// Package engine turns multi-book quotes into sized, scored bet
// candidates: edge detection against the vig-free consensus, fractional
// Kelly sizing, the Sharp Score composite, and reverse line movement
// confirmation.
package engine

import "github.com/sharpline/sharpline/pkg/odds"

// DefaultKellyFraction is the conservative multiplier applied to the
// full Kelly criterion.
const DefaultKellyFraction = 0.25

// Tier ceilings in units, keyed to win probability. High-probability
// positions earn more room; anything near a coin flip stays small no
// matter what the raw Kelly says.
const (
	nuclearCapProb  = 0.60
	standardCapProb = 0.54

	nuclearCap  = 2.0
	standardCap = 1.0
	leanCap     = 0.5
)

// FractionalKelly returns the 0.25x Kelly bet size in units for a win
// probability and an American price, capped by win-probability tier.
// A negative result means the price offers no value; it is returned
// as-is so callers can see how bad the bet is, not floored at zero.
func FractionalKelly(winProb, price float64) float64 {
	return KellyWithFraction(winProb, price, DefaultKellyFraction)
}

// KellyWithFraction is FractionalKelly with an explicit fraction.
func KellyWithFraction(winProb, price, fraction float64) float64 {
	b := odds.ToDecimal(price) - 1
	if b == 0 {
		return 0
	}
	q := 1 - winProb
	fullKelly := (b*winProb - q) / b
	size := fullKelly * fraction

	switch {
	case winProb > nuclearCapProb:
		return min(size, nuclearCap)
	case winProb > standardCapProb:
		return min(size, standardCap)
	default:
		return min(size, leanCap)
	}
}
