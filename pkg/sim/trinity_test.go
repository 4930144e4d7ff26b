package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/sharpline/sharpline/pkg/market"
)

func TestTrinityEvenMatchup(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	res := Trinity(TrinityParams{
		MeanMargin: 0,
		Sport:      market.SportNBA,
		SpreadLine: 0,
		Iterations: 20000,
	}, rng)

	if math.Abs(res.CoverProbability-0.5) > 0.03 {
		t.Errorf("even matchup cover prob = %v, want ~0.5", res.CoverProbability)
	}
	if math.Abs(res.ProjectedMargin) > 1.5 {
		t.Errorf("even matchup projected margin = %v, want ~0", res.ProjectedMargin)
	}
	if res.Iterations != 20000 {
		t.Errorf("Iterations = %d, want 20000", res.Iterations)
	}
}

func TestTrinityDeterministicUnderSeed(t *testing.T) {
	p := TrinityParams{
		MeanMargin: 4.5,
		Sport:      market.SportNBA,
		SpreadLine: -3.5,
		TotalLine:  228.5,
		Iterations: 5000,
	}
	a := Trinity(p, rand.New(rand.NewSource(7)))
	b := Trinity(p, rand.New(rand.NewSource(7)))
	if a != b {
		t.Errorf("same seed produced different results:\n%+v\n%+v", a, b)
	}
}

func TestTrinityConfidenceBand(t *testing.T) {
	res := Trinity(TrinityParams{
		MeanMargin: 6,
		Sport:      market.SportNFL,
		SpreadLine: -3,
		Iterations: 10000,
	}, rand.New(rand.NewSource(1)))

	if !(res.CI10 < res.ProjectedMargin && res.ProjectedMargin < res.CI90) {
		t.Errorf("band ordering violated: CI10=%v median=%v CI90=%v", res.CI10, res.ProjectedMargin, res.CI90)
	}
	if res.Volatility <= 0 {
		t.Errorf("Volatility = %v, want > 0", res.Volatility)
	}
}

func TestTrinityFavouriteCoversShortLine(t *testing.T) {
	res := Trinity(TrinityParams{
		MeanMargin: 8,
		Sport:      market.SportNBA,
		SpreadLine: -2.5,
		Iterations: 10000,
	}, rand.New(rand.NewSource(3)))

	if res.CoverProbability <= 0.6 {
		t.Errorf("8-point-better team vs -2.5: cover prob = %v, want well above 0.6", res.CoverProbability)
	}
}

func TestTrinitySituationalAdjustmentsShiftMargin(t *testing.T) {
	base := TrinityParams{MeanMargin: 0, Sport: market.SportNBA, SpreadLine: 0, Iterations: 10000}
	flat := Trinity(base, rand.New(rand.NewSource(9)))

	boosted := base
	boosted.RestEdge = 2
	boosted.HomeAdvantage = 2.5
	up := Trinity(boosted, rand.New(rand.NewSource(9)))

	if up.ProjectedMargin <= flat.ProjectedMargin {
		t.Errorf("rest + home advantage should raise the projection: %v vs %v", up.ProjectedMargin, flat.ProjectedMargin)
	}
	if up.CoverProbability <= flat.CoverProbability {
		t.Errorf("adjusted cover prob %v should exceed flat %v", up.CoverProbability, flat.CoverProbability)
	}
}

func TestTrinityTotalSubModel(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	res := Trinity(TrinityParams{
		MeanMargin: 0,
		Sport:      market.SportNBA,
		TotalLine:  228, // league average
		Iterations: 20000,
	}, rng)

	if math.Abs(res.OverProbability-0.5) > 0.03 {
		t.Errorf("total at league average: over prob = %v, want ~0.5", res.OverProbability)
	}

	res = Trinity(TrinityParams{
		MeanMargin: 0,
		Sport:      market.SportNBA,
		TotalLine:  260,
		Iterations: 10000,
	}, rand.New(rand.NewSource(11)))
	if res.OverProbability > 0.01 {
		t.Errorf("total far above league average: over prob = %v, want ~0", res.OverProbability)
	}

	res = Trinity(TrinityParams{
		MeanMargin: 0,
		Sport:      market.SportNBA,
		Iterations: 1000,
	}, rand.New(rand.NewSource(11)))
	if res.OverProbability != 0 {
		t.Errorf("no total line: over prob = %v, want 0", res.OverProbability)
	}
}

func TestTrinityDefaultIterations(t *testing.T) {
	res := Trinity(TrinityParams{Sport: market.SportNHL}, rand.New(rand.NewSource(2)))
	if res.Iterations != 10000 {
		t.Errorf("Iterations = %d, want default 10000", res.Iterations)
	}
}

func TestSportVolatility(t *testing.T) {
	tests := []struct {
		sport market.Sport
		want  float64
	}{
		{market.SportNBA, 6.5},
		{market.SportNCAAB, 8.5},
		{market.SportNFL, 10.5},
		{market.SportNCAAF, 12.0},
		{market.SportNHL, 1.8},
		{market.SportMLB, 2.2},
		{market.SportEPL, 1.1},
		{market.SportMLS, 1.1},
		{market.SportTennis, 8.0}, // table fallback
	}
	for _, tt := range tests {
		if got := sportVolatility(tt.sport); got != tt.want {
			t.Errorf("sportVolatility(%v) = %v, want %v", tt.sport, got, tt.want)
		}
	}
}
