// Package market models the raw multi-book odds payload and builds the
// vig-free consensus probabilities the engine treats as fair value.
package market

import "strings"

// Sport identifies a supported league. The set is closed: evaluation
// policy (volatility, collars, kill rules) is defined per sport, so an
// unknown league has no policy and must not be silently scored.
type Sport int

const (
	SportUnknown Sport = iota
	SportNBA
	SportNFL
	SportNCAAB
	SportNCAAF
	SportNHL
	SportMLB
	SportTennis
	SportEPL
	SportLigue1
	SportBundesliga
	SportSerieA
	SportLaLiga
	SportMLS
)

var sportNames = map[Sport]string{
	SportNBA:        "NBA",
	SportNFL:        "NFL",
	SportNCAAB:      "NCAAB",
	SportNCAAF:      "NCAAF",
	SportNHL:        "NHL",
	SportMLB:        "MLB",
	SportTennis:     "TENNIS",
	SportEPL:        "EPL",
	SportLigue1:     "LIGUE1",
	SportBundesliga: "BUNDESLIGA",
	SportSerieA:     "SERIE_A",
	SportLaLiga:     "LA_LIGA",
	SportMLS:        "MLS",
}

func (s Sport) String() string {
	if name, ok := sportNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseSport resolves a league name (case-insensitive) to its Sport.
func ParseSport(name string) (Sport, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for s, n := range sportNames {
		if n == upper {
			return s, true
		}
	}
	return SportUnknown, false
}

// Soccer reports whether the sport is a soccer league, which quotes
// three-way moneylines and uses the wider price collar.
func (s Sport) Soccer() bool {
	switch s {
	case SportEPL, SportLigue1, SportBundesliga, SportSerieA, SportLaLiga, SportMLS:
		return true
	}
	return false
}
