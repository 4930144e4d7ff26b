package oddsapi

import (
	"sort"
	"time"

	"github.com/sharpline/sharpline/pkg/market"
)

// backToBackWindow is the gap under which consecutive games count as a
// back-to-back.
const backToBackWindow = 36 * time.Hour

// RestDaysFromSchedule derives per-team rest days from the commence
// times already present in an odds snapshot, costing zero extra API
// calls. A team's rest is the gap between its two most recent listed
// games: under 36 hours is a back-to-back (0 days), otherwise whole
// days. Teams with a single listed game are omitted, which downstream
// treats as adequately rested.
func RestDaysFromSchedule(games []market.Game) map[string]int {
	times := make(map[string][]time.Time)
	for _, g := range games {
		if g.CommenceTime.IsZero() {
			continue
		}
		times[g.HomeTeam] = append(times[g.HomeTeam], g.CommenceTime)
		times[g.AwayTeam] = append(times[g.AwayTeam], g.CommenceTime)
	}

	rest := make(map[string]int)
	for team, ts := range times {
		if len(ts) < 2 {
			continue
		}
		sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
		gap := ts[len(ts)-1].Sub(ts[len(ts)-2])
		if gap < backToBackWindow {
			rest[team] = 0
		} else {
			rest[team] = int(gap.Hours()) / 24
		}
	}
	return rest
}
