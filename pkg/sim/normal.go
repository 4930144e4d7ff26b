// Package sim holds the outcome simulation engines: a scenario-weighted
// Monte Carlo for margin sports and a Poisson goal matrix for soccer.
// Both are pure functions of their inputs and an injected random source,
// so runs are reproducible under a fixed seed.
package sim

import (
	"math"
	"math/rand"
)

// normal draws one sample from N(mean, stdDev) via the Box-Muller
// transform. The uniform draw is floored away from zero so the log term
// stays finite.
func normal(rng *rand.Rand, mean, stdDev float64) float64 {
	u1 := rng.Float64()
	if u1 < 1e-10 {
		u1 = 1e-10
	}
	u2 := rng.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + stdDev*z
}
