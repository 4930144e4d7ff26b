package sim

import (
	"math"
	"math/rand"
	"sort"

	"github.com/sharpline/sharpline/pkg/market"
)

// Scenario weighting: 20% of iterations run a ceiling game script, 20%
// a floor script, the remaining 60% the median script. The asymmetric
// tails are what separates this from a single-distribution sim.
const (
	ceilingCut = 0.20
	floorCut   = 0.40

	efficiencyVariance = 2.5
	paceVariance       = 3.0

	defaultIterations = 10000
)

// Per-sport base margin volatility (points). Sports missing from the
// table fall back to 8.0.
var baseVolatility = map[market.Sport]float64{
	market.SportNBA:   6.5,
	market.SportNCAAB: 8.5,
	market.SportNFL:   10.5,
	market.SportNCAAF: 12.0,
	market.SportNHL:   1.8,
	market.SportMLB:   2.2,
}

// League-average combined scores for the decoupled total sub-model.
var leagueAvgTotal = map[market.Sport]float64{
	market.SportNBA:   228,
	market.SportNCAAB: 148,
	market.SportNFL:   45,
	market.SportNHL:   6,
	market.SportMLB:   9,
}

func sportVolatility(s market.Sport) float64 {
	if s.Soccer() {
		return 1.1
	}
	if v, ok := baseVolatility[s]; ok {
		return v
	}
	return 8.0
}

func sportAvgTotal(s market.Sport) float64 {
	if s.Soccer() {
		return 2.65
	}
	if v, ok := leagueAvgTotal[s]; ok {
		return v
	}
	return 200
}

// TrinityParams are the inputs to one Monte Carlo run. MeanMargin is the
// modelled home margin before situational adjustments; RestEdge,
// TravelPenalty, and HomeAdvantage shift it additively.
type TrinityParams struct {
	MeanMargin    float64
	Sport         market.Sport
	SpreadLine    float64
	TotalLine     float64
	RestEdge      float64
	TravelPenalty float64
	HomeAdvantage float64
	Iterations    int
}

// TrinityResult summarizes a run. CoverProbability is against the spread
// line, OverProbability against the total line via the decoupled total
// sub-model.
type TrinityResult struct {
	CoverProbability float64
	OverProbability  float64
	ProjectedMargin  float64
	CI10             float64
	CI90             float64
	Volatility       float64
	Iterations       int
}

// Trinity runs the scenario-weighted Monte Carlo. Each iteration first
// rolls a game script (ceiling, floor, or median), perturbs the adjusted
// mean with script-specific efficiency and pace noise, scales volatility
// for the script, then draws the final margin. The total is simulated
// independently around the league average; totals correlate with margin
// far less than a joint draw would impose.
func Trinity(p TrinityParams, rng *rand.Rand) TrinityResult {
	iterations := p.Iterations
	if iterations <= 0 {
		iterations = defaultIterations
	}

	adjusted := p.MeanMargin + p.RestEdge + p.TravelPenalty + p.HomeAdvantage
	baseVol := sportVolatility(p.Sport)
	avgTotal := sportAvgTotal(p.Sport)

	margins := make([]float64, 0, iterations)
	covers := 0
	overs := 0

	for i := 0; i < iterations; i++ {
		var scenarioMean, vol float64
		switch roll := rng.Float64(); {
		case roll < ceilingCut:
			effNoise := math.Abs(normal(rng, 0, efficiencyVariance))
			paceNoise := math.Abs(normal(rng, 0, paceVariance)) * 0.3
			scenarioMean = adjusted + effNoise + paceNoise
			vol = baseVol * 0.85
		case roll < floorCut:
			effNoise := math.Abs(normal(rng, 0, efficiencyVariance))
			paceNoise := math.Abs(normal(rng, 0, paceVariance)) * 0.3
			scenarioMean = adjusted - effNoise - paceNoise
			vol = baseVol * 1.15
		default:
			scenarioMean = adjusted + normal(rng, 0, efficiencyVariance*0.5)
			vol = baseVol
		}

		margin := normal(rng, scenarioMean, vol)
		margins = append(margins, margin)
		if margin > -p.SpreadLine {
			covers++
		}

		if p.TotalLine > 0 {
			totalSample := avgTotal + normal(rng, 0, baseVol*0.6)
			if totalSample > p.TotalLine {
				overs++
			}
		}
	}

	sort.Float64s(margins)
	n := len(margins)

	var sumSq float64
	for _, m := range margins {
		d := m - adjusted
		sumSq += d * d
	}

	res := TrinityResult{
		CoverProbability: float64(covers) / float64(n),
		ProjectedMargin:  margins[n/2],
		CI10:             margins[int(0.10*float64(n))],
		CI90:             margins[int(0.90*float64(n))],
		Volatility:       math.Sqrt(sumSq / float64(n)),
		Iterations:       n,
	}
	if p.TotalLine > 0 {
		res.OverProbability = float64(overs) / float64(n)
	}
	return res
}
