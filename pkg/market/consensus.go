package market

import (
	"math"

	"github.com/sharpline/sharpline/pkg/odds"
)

// Consensus is the vig-free fair probability for one side of a market,
// aggregated across every book quoting both sides. Books=0 means no
// usable quotes and FairProb degrades to the uninformative 0.5.
type Consensus struct {
	FairProb float64
	StdDev   float64
	Books    int
}

// ConsensusFairProb aggregates the vig-free probability of one outcome
// across all books quoting the full two-way market. Books missing the
// market, missing a side, or quoting a malformed outcome set are
// skipped, never raised.
func ConsensusFairProb(books []Bookmaker, marketKey, outcome string) Consensus {
	var fairProbs []float64

	for _, b := range books {
		m, ok := b.market(marketKey)
		if !ok || len(m.Outcomes) != 2 {
			continue
		}
		var target, opp *Outcome
		for i := range m.Outcomes {
			if m.Outcomes[i].Name == outcome {
				target = &m.Outcomes[i]
			} else {
				opp = &m.Outcomes[i]
			}
		}
		if target == nil || opp == nil {
			continue
		}
		fp, _, err := odds.RemoveVig(target.Price, opp.Price)
		if err != nil {
			continue
		}
		fairProbs = append(fairProbs, fp)
	}

	return summarize(fairProbs)
}

// ConsensusFairProb3Way aggregates the vig-free probability of one
// outcome (home team, away team, or Draw) across books quoting the full
// soccer three-way moneyline. Books with fewer than three outcomes are
// skipped.
func ConsensusFairProb3Way(books []Bookmaker, outcome string) Consensus {
	var fairProbs []float64

	for _, b := range books {
		m, ok := b.market(KeyH2H)
		if !ok || len(m.Outcomes) != 3 {
			continue
		}
		idx := -1
		for i, o := range m.Outcomes {
			if o.Name == outcome {
				idx = i
			}
		}
		if idx < 0 {
			continue
		}
		pa, pb, pc, err := odds.RemoveVig3(m.Outcomes[0].Price, m.Outcomes[1].Price, m.Outcomes[2].Price)
		if err != nil {
			continue
		}
		fairProbs = append(fairProbs, [3]float64{pa, pb, pc}[idx])
	}

	return summarize(fairProbs)
}

func summarize(fairProbs []float64) Consensus {
	n := len(fairProbs)
	if n == 0 {
		return Consensus{FairProb: 0.5, StdDev: 0, Books: 0}
	}
	var sum float64
	for _, p := range fairProbs {
		sum += p
	}
	mean := sum / float64(n)
	var variance float64
	if n > 1 {
		for _, p := range fairProbs {
			variance += (p - mean) * (p - mean)
		}
		variance /= float64(n)
	}
	return Consensus{FairProb: mean, StdDev: math.Sqrt(variance), Books: n}
}

// BestPrice finds the highest available price for an outcome across all
// books. Returns ok=false when no book quotes it.
func BestPrice(books []Bookmaker, marketKey, outcome string) (price, point float64, book string, ok bool) {
	for _, b := range books {
		m, found := b.market(marketKey)
		if !found {
			continue
		}
		for _, o := range m.Outcomes {
			if o.Name != outcome {
				continue
			}
			if !ok || o.Price > price {
				price, point, book, ok = o.Price, o.Point, b.Name(), true
			}
		}
	}
	return price, point, book, ok
}

// H2HOutcomeNames returns the distinct moneyline outcome names quoted by
// at least minBooks books. For soccer this yields home, away, and Draw.
func H2HOutcomeNames(books []Bookmaker, minBooks int) []string {
	counts := make(map[string]int)
	var order []string
	for _, b := range books {
		m, ok := b.market(KeyH2H)
		if !ok {
			continue
		}
		for _, o := range m.Outcomes {
			if o.Name == "" {
				continue
			}
			if counts[o.Name] == 0 {
				order = append(order, o.Name)
			}
			counts[o.Name]++
		}
	}
	var names []string
	for _, name := range order {
		if counts[name] >= minBooks {
			names = append(names, name)
		}
	}
	return names
}
