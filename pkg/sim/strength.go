package sim

// GapToMargin converts a 0-20 efficiency gap (10 = evenly matched) to a
// projected home margin in points, one point per gap unit, plus the
// sport's home advantage in points.
func GapToMargin(efficiencyGap, homeAdvantagePts float64) float64 {
	return (efficiencyGap - 10.0) + homeAdvantagePts
}

// GapToSoccerStrength maps a 0-20 efficiency gap onto the four Poisson
// strength multipliers. A gap of 10 yields league-average 1.0 across the
// board; each gap unit shifts attack and defense by 0.05 in the home
// side's favour.
func GapToSoccerStrength(efficiencyGap float64) (homeAttack, awayAttack, homeDefense, awayDefense float64) {
	delta := (efficiencyGap - 10.0) * 0.05
	homeAttack = 1.0 + delta
	awayAttack = 1.0 - delta
	homeDefense = 1.0 - delta
	awayDefense = 1.0 + delta
	return homeAttack, awayAttack, homeDefense, awayDefense
}
