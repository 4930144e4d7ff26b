package sim

import "math"

// Soccer scoring environment. Home sides both score more on average and
// receive an additive boost to their expected goals.
const (
	soccerLeagueAvgGoalsHome = 1.60
	soccerLeagueAvgGoalsAway = 1.15
	soccerHomeGoalBoost      = 0.20

	// Expected goals are clamped to keep degenerate strength inputs from
	// producing an unusable goal matrix.
	lambdaMin = 0.1
	lambdaMax = 6.0

	// Goal grid runs 0..maxGoals per side; mass beyond 10 goals is
	// negligible at any playable lambda.
	maxGoals = 10
)

// PoissonParams describe team strengths as multipliers around 1.0
// (league average). Attack above 1 scores more, defense above 1
// concedes more.
type PoissonParams struct {
	HomeAttack         float64
	AwayAttack         float64
	HomeDefense        float64
	AwayDefense        float64
	TotalLine          float64
	ApplyHomeAdvantage bool
}

// PoissonResult is the full 1X2 and totals read from the goal matrix.
type PoissonResult struct {
	HomeWin           float64
	Draw              float64
	AwayWin           float64
	OverProbability   float64
	UnderProbability  float64
	ExpectedHomeGoals float64
	ExpectedAwayGoals float64
	ExpectedTotal     float64
	MaxGoals          int
}

// PoissonSoccer builds an independent-Poisson goal matrix from team
// strengths and reads match outcome and total probabilities off it.
//
// Expected goals per side:
//
//	lambda_home = leagueAvgHome * homeAttack * awayDefense (+ boost)
//	lambda_away = leagueAvgAway * awayAttack * homeDefense
func PoissonSoccer(p PoissonParams) PoissonResult {
	lambdaHome := soccerLeagueAvgGoalsHome * p.HomeAttack * p.AwayDefense
	if p.ApplyHomeAdvantage {
		lambdaHome += soccerHomeGoalBoost
	}
	lambdaAway := soccerLeagueAvgGoalsAway * p.AwayAttack * p.HomeDefense

	lambdaHome = clamp(lambdaHome, lambdaMin, lambdaMax)
	lambdaAway = clamp(lambdaAway, lambdaMin, lambdaMax)

	var homeWin, draw, awayWin, over, under float64
	for h := 0; h <= maxGoals; h++ {
		ph := poissonPMF(lambdaHome, h)
		for a := 0; a <= maxGoals; a++ {
			prob := ph * poissonPMF(lambdaAway, a)
			switch {
			case h > a:
				homeWin += prob
			case h == a:
				draw += prob
			default:
				awayWin += prob
			}
			if float64(h+a) > p.TotalLine {
				over += prob
			} else {
				under += prob
			}
		}
	}

	return PoissonResult{
		HomeWin:           homeWin,
		Draw:              draw,
		AwayWin:           awayWin,
		OverProbability:   over,
		UnderProbability:  under,
		ExpectedHomeGoals: lambdaHome,
		ExpectedAwayGoals: lambdaAway,
		ExpectedTotal:     lambdaHome + lambdaAway,
		MaxGoals:          maxGoals,
	}
}

// poissonPMF returns P(X = k) for X ~ Poisson(lambda). Zero for
// non-positive lambda or negative k.
func poissonPMF(lambda float64, k int) float64 {
	if lambda <= 0 || k < 0 {
		return 0
	}
	logFact, _ := math.Lgamma(float64(k) + 1)
	return math.Exp(-lambda + float64(k)*math.Log(lambda) - logFact)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
