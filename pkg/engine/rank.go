package engine

import "sort"

// RankBets orders candidates by Sharp Score descending and enforces the
// one-side-per-market rule: when both sides of the same market clear the
// edge floor (a sign of a wide, noisy consensus rather than two real
// edges), only the higher-scored side survives.
func RankBets(candidates []BetCandidate) []BetCandidate {
	ranked := make([]BetCandidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SharpScore > ranked[j].SharpScore
	})

	type marketID struct {
		eventID   string
		marketKey string
	}
	seen := make(map[marketID]bool)
	out := ranked[:0]
	for _, c := range ranked {
		id := marketID{c.EventID, c.MarketKey}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, c)
	}
	return out
}
