package feeds

import "strings"

// Injury leverage thresholds in points. At or beyond the kill threshold
// a missing player invalidates the model inputs outright; beyond the
// flag threshold the bet needs extra edge.
const (
	InjuryKillThreshold = 3.5
	InjuryFlagThreshold = 2.0
)

// Positional leverage in points of spread value, per sport. The numbers
// answer "how much does the line move when this slot is ruled out".
var positionLeverage = map[string]map[string]float64{
	"NFL": {
		"QB":   7.0,
		"LT":   2.0,
		"WR1":  2.5,
		"RB1":  1.5,
		"EDGE": 1.5,
		"CB1":  1.5,
	},
	"NBA": {
		"STAR":    4.5,
		"STARTER": 2.0,
		"SIXTH":   1.0,
	},
	"NHL": {
		"G1": 4.0,
		"D1": 1.5,
		"C1": 1.5,
	},
	"NCAAB": {
		"STAR":    4.0,
		"STARTER": 1.5,
	},
	"SOCCER": {
		"STRIKER":    2.0,
		"CREATOR":    2.5,
		"GOALKEEPER": 2.0,
	},
}

// InjuryLeverage returns the point value of a missing player by sport
// and positional slot, and whether that absence alone is a kill.
// Unknown sports or slots carry zero leverage.
func InjuryLeverage(sport, position string) (points float64, kill bool) {
	slots, ok := positionLeverage[strings.ToUpper(sport)]
	if !ok {
		return 0, false
	}
	points, ok = slots[strings.ToUpper(position)]
	if !ok {
		return 0, false
	}
	return points, points >= InjuryKillThreshold
}
