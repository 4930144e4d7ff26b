package oddsapi

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Quota is a snapshot of the API plan usage, parsed from the
// x-requests-* response headers on every call.
type Quota struct {
	Remaining float64   `json:"remaining"`
	Used      float64   `json:"used"`
	LastCost  float64   `json:"last_cost"`
	UpdatedAt time.Time `json:"updated_at"`
}

// quotaTracker keeps the latest quota headers. Safe for concurrent use.
type quotaTracker struct {
	mu    sync.Mutex
	quota Quota
}

func (t *quotaTracker) update(h http.Header) {
	remaining, okR := parseHeaderFloat(h, "x-requests-remaining")
	used, okU := parseHeaderFloat(h, "x-requests-used")
	last, _ := parseHeaderFloat(h, "x-requests-last")
	if !okR && !okU {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.quota = Quota{Remaining: remaining, Used: used, LastCost: last, UpdatedAt: time.Now()}
}

func (t *quotaTracker) snapshot() Quota {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.quota
}

// isLow reports whether remaining quota has dropped to or below the
// threshold. A tracker that has never seen headers is not low.
func (t *quotaTracker) isLow(threshold float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.quota.UpdatedAt.IsZero() && t.quota.Remaining <= threshold
}

func parseHeaderFloat(h http.Header, key string) (float64, bool) {
	raw := h.Get(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
