package engine

import (
	"sync"

	"github.com/sharpline/sharpline/pkg/market"
	"github.com/sharpline/sharpline/pkg/odds"
)

// RLM thresholds. A 3-point implied-probability drift against the
// public side is the classic book-protecting-itself signature.
const (
	RLMDriftThreshold = 0.03

	// RLMFireGate is the number of confirmed fires after which the
	// actionable threshold should be raised (45 to 50): once the market
	// is moving this often, edges shrink and selectivity has to rise.
	RLMFireGate = 20
)

// PublicOnSide is the heuristic for which side carries the public
// money: favourites shorter than -105 (and Overs, handled by callers).
func PublicOnSide(price float64) bool {
	return price < -105
}

// RLMDetector tracks opening prices and detects reverse line movement.
// The open-price store is append-only: the first price seen for an
// (event, side) pair is its open, and later quotes never overwrite it.
// Safe for concurrent use.
type RLMDetector struct {
	mu        sync.Mutex
	openPrice map[string]map[string]float64 // event ID → side → open price
	fireCount int
}

// NewRLMDetector returns an empty detector.
func NewRLMDetector() *RLMDetector {
	return &RLMDetector{openPrice: make(map[string]map[string]float64)}
}

// RecordGame caches the first-seen price of every quoted outcome in a
// game. Prices for sides already cached are ignored.
func (d *RLMDetector) RecordGame(g market.Game) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, b := range g.Bookmakers {
		for _, m := range b.Markets {
			for _, o := range m.Outcomes {
				if o.Name == "" {
					continue
				}
				d.recordLocked(g.ID, o.Name, o.Price)
			}
		}
	}
}

// RecordOpen caches the open price for one side of an event if not
// already present.
func (d *RLMDetector) RecordOpen(eventID, side string, price float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recordLocked(eventID, side, price)
}

func (d *RLMDetector) recordLocked(eventID, side string, price float64) {
	sides, ok := d.openPrice[eventID]
	if !ok {
		sides = make(map[string]float64)
		d.openPrice[eventID] = sides
	}
	if _, seen := sides[side]; !seen {
		sides[side] = price
	}
}

// Seed bulk-loads persisted open prices, typically from the line history
// store at startup so detection works from the first poll of a new
// process. Events already cached are left untouched. Returns the number
// of events seeded.
func (d *RLMDetector) Seed(openPrices map[string]map[string]float64) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	seeded := 0
	for eventID, sides := range openPrices {
		if _, ok := d.openPrice[eventID]; ok {
			continue
		}
		copied := make(map[string]float64, len(sides))
		for side, price := range sides {
			copied[side] = price
		}
		d.openPrice[eventID] = copied
		seeded++
	}
	return seeded
}

// OpenPrice returns the cached open price for one side of an event.
func (d *RLMDetector) OpenPrice(eventID, side string) (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sides, ok := d.openPrice[eventID]
	if !ok {
		return 0, false
	}
	price, ok := sides[side]
	return price, ok
}

// Compute checks one side of an event for reverse line movement: the
// implied probability drifted at least 3 points from open while the
// public sits on this side, meaning the book moved against its own
// ticket count. A cold cache returns (false, 0); a warm cache always
// returns the drift, confirmed or not.
func (d *RLMDetector) Compute(eventID, side string, currentPrice float64, publicOnSide bool) (confirmed bool, drift float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sides, ok := d.openPrice[eventID]
	if !ok {
		return false, 0
	}
	openPrice, ok := sides[side]
	if !ok {
		return false, 0
	}

	openProb := odds.ImpliedProbability(openPrice)
	currentProb := odds.ImpliedProbability(currentPrice)
	drift = currentProb - openProb
	if drift < 0 {
		drift = -drift
	}

	if drift >= RLMDriftThreshold && publicOnSide {
		d.fireCount++
		return true, drift
	}
	return false, drift
}

// FireCount returns the number of confirmed fires since construction or
// the last reset.
func (d *RLMDetector) FireCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fireCount
}

// ResetFireCount zeroes the fire counter. Test use only.
func (d *RLMDetector) ResetFireCount() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fireCount = 0
}

// CacheSize returns the number of events with cached open prices.
func (d *RLMDetector) CacheSize() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.openPrice)
}

// OpenPrices returns a copy of the full open-price cache.
func (d *RLMDetector) OpenPrices() map[string]map[string]float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]map[string]float64, len(d.openPrice))
	for eventID, sides := range d.openPrice {
		copied := make(map[string]float64, len(sides))
		for side, price := range sides {
			copied[side] = price
		}
		out[eventID] = copied
	}
	return out
}

// GateStatus reports progress toward the threshold-raise gate.
type GateStatus struct {
	FireCount   int     `json:"fire_count"`
	Gate        int     `json:"gate"`
	PctToGate   float64 `json:"pct_to_gate"`
	GateReached bool    `json:"gate_reached"`
}

// GateStatus returns the current raise-gate state.
func (d *RLMDetector) GateStatus() GateStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	pct := min(1.0, float64(d.fireCount)/float64(RLMFireGate))
	return GateStatus{
		FireCount:   d.fireCount,
		Gate:        RLMFireGate,
		PctToGate:   pct,
		GateReached: d.fireCount >= RLMFireGate,
	}
}
