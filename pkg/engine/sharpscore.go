package engine

import "math"

// SharpThreshold is the minimum Sharp Score for a candidate to be
// considered actionable by downstream consumers.
const SharpThreshold = 45.0

// Bet sizing tiers mapped from Sharp Score.
const (
	TierNuclear  = "NUCLEAR_2.0U"
	TierStandard = "STANDARD_1.0U"
	TierLean     = "LEAN_0.5U"
)

// ScoreInputs are the raw components of a Sharp Score. EfficiencyGap is
// the pre-scaled 0-20 structural advantage; the situational inputs are
// each in points and get individually capped.
type ScoreInputs struct {
	Edge          float64
	RLMConfirmed  bool
	EfficiencyGap float64
	RestEdge      float64
	InjuryLeverage float64
	Motivation    float64
	MatchupScore  float64
}

// ScoreBreakdown itemizes the composite for display, each component
// rounded to a tenth of a point.
type ScoreBreakdown struct {
	Edge        float64 `json:"edge"`
	RLM         float64 `json:"rlm"`
	Efficiency  float64 `json:"efficiency"`
	Situational float64 `json:"situational"`
}

// SharpScore computes the unified 0-100 ranking composite:
//
//	EDGE        (40): (edge / 10%) x 40, capped
//	RLM         (25): all or nothing on confirmation
//	EFFICIENCY  (20): structural gap, clamped to [0, 20]
//	SITUATIONAL (15): rest(5) + injury(5) + motivation(3) + matchup(2), capped
//
// Without RLM confirmation the realistic ceiling is ~75, so STANDARD and
// NUCLEAR tiers require the market itself to corroborate the bet.
func SharpScore(in ScoreInputs) (float64, ScoreBreakdown) {
	edgePts := math.Min(40.0, (in.Edge/0.10)*40)
	rlmPts := 0.0
	if in.RLMConfirmed {
		rlmPts = 25.0
	}
	effPts := math.Max(0.0, math.Min(20.0, in.EfficiencyGap))

	sitPts := math.Min(5.0, in.RestEdge) +
		math.Min(5.0, in.InjuryLeverage) +
		math.Min(3.0, in.Motivation) +
		math.Min(2.0, in.MatchupScore)
	sitPts = math.Min(15.0, sitPts)

	total := edgePts + rlmPts + effPts + sitPts

	breakdown := ScoreBreakdown{
		Edge:        round1(edgePts),
		RLM:         round1(rlmPts),
		Efficiency:  round1(effPts),
		Situational: round1(sitPts),
	}
	return round1(total), breakdown
}

// TierForScore maps a Sharp Score to its sizing tier label. Candidates
// that did not survive filtering never reach this, so there is no PASS.
func TierForScore(score float64) string {
	switch {
	case score >= 90:
		return TierNuclear
	case score >= 80:
		return TierStandard
	default:
		return TierLean
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
