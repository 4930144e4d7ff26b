// Package odds converts American prices to probabilities and strips
// bookmaker vig from quoted markets. All functions are pure; callers
// decide what to do with degenerate quotes.
package odds

import (
	"errors"
	"math"
)

// Price collar bounds. Outside these the juice eats any modelled edge:
// heavy favourites price in too much vig, longshots are too volatile to
// size. Soccer three-way markets quote wider by nature, so they get a
// wider collar.
const (
	CollarMin = -180.0
	CollarMax = 150.0

	SoccerCollarMin = -250.0
	SoccerCollarMax = 400.0
)

// ErrZeroOverround is returned when the quoted prices sum to zero implied
// probability, which only happens on corrupt input.
var ErrZeroOverround = errors.New("odds: zero overround")

// ImpliedProbability converts an American price to its implied win
// probability, vig included.
//
//	-110 → 0.5238
//	+150 → 0.4000
func ImpliedProbability(price float64) float64 {
	if price < 0 {
		return -price / (-price + 100)
	}
	return 100 / (price + 100)
}

// ToDecimal converts an American price to decimal (European) odds.
//
//	+150 → 2.50
//	-110 → 1.909
func ToDecimal(price float64) float64 {
	if price >= 100 {
		return 1 + price/100
	}
	return 1 + 100/math.Abs(price)
}

// WinProfit returns the profit (excluding stake) on a winning bet of
// stake units at the given American price.
func WinProfit(stake, price float64) float64 {
	if price > 0 {
		return stake * price / 100
	}
	return stake * 100 / math.Abs(price)
}

// RemoveVig strips the bookmaker margin from a two-way market. The
// returned probabilities sum to exactly 1.
func RemoveVig(priceA, priceB float64) (float64, float64, error) {
	pa := ImpliedProbability(priceA)
	pb := ImpliedProbability(priceB)
	overround := pa + pb
	if overround == 0 {
		return 0, 0, ErrZeroOverround
	}
	return pa / overround, pb / overround, nil
}

// RemoveVig3 strips the bookmaker margin from a three-way market
// (soccer home/draw/away). The returned probabilities sum to exactly 1.
func RemoveVig3(priceA, priceB, priceC float64) (float64, float64, float64, error) {
	pa := ImpliedProbability(priceA)
	pb := ImpliedProbability(priceB)
	pc := ImpliedProbability(priceC)
	overround := pa + pb + pc
	if overround == 0 {
		return 0, 0, 0, ErrZeroOverround
	}
	return pa / overround, pb / overround, pc / overround, nil
}

// PassesCollar reports whether a two-way price sits inside the playable
// band [-180, +150].
func PassesCollar(price float64) bool {
	return price >= CollarMin && price <= CollarMax
}

// PassesSoccerCollar reports whether a three-way price sits inside the
// wider soccer band [-250, +400].
func PassesSoccerCollar(price float64) bool {
	return price >= SoccerCollarMin && price <= SoccerCollarMax
}
