package feeds

import (
	"strings"

	"github.com/sharpline/sharpline/pkg/killswitch"
)

// Tournament key fragments mapped to court surface. The odds feed
// encodes the tournament in the sport key (e.g.
// "tennis_atp_french_open"), which makes surface inference free.
var (
	clayKeywords = []string{
		"french_open", "roland_garros", "monte_carlo", "madrid",
		"rome", "italian_open", "barcelona", "hamburg", "clay",
	}
	grassKeywords = []string{
		"wimbledon", "halle", "queens", "eastbourne", "stuttgart", "grass",
	}
	hardKeywords = []string{
		"us_open", "australian_open", "indian_wells", "miami",
		"cincinnati", "canadian_open", "shanghai", "paris_masters",
		"dubai", "acapulco", "hard",
	}
)

// SurfaceFromSportKey infers the court surface from an odds-feed sport
// key. Unrecognized tournaments report unknown, which downstream rules
// treat with an edge premium rather than a guess.
func SurfaceFromSportKey(sportKey string) string {
	key := strings.ToLower(sportKey)
	for _, kw := range clayKeywords {
		if strings.Contains(key, kw) {
			return killswitch.SurfaceClay
		}
	}
	for _, kw := range grassKeywords {
		if strings.Contains(key, kw) {
			return killswitch.SurfaceGrass
		}
	}
	for _, kw := range hardKeywords {
		if strings.Contains(key, kw) {
			return killswitch.SurfaceHard
		}
	}
	return killswitch.SurfaceUnknown
}

// IsTennisSportKey reports whether a sport key names a tennis market.
func IsTennisSportKey(sportKey string) bool {
	return strings.HasPrefix(strings.ToLower(sportKey), "tennis")
}
