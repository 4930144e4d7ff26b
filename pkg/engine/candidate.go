package engine

import (
	"strings"
	"time"

	"github.com/sharpline/sharpline/pkg/market"
)

// BetCandidate is one side of one market that cleared the collar and
// minimum-edge filters. Candidates carrying a KILL reason are kept in
// the output so consumers can show what was vetoed and why, rather than
// silently dropping it.
type BetCandidate struct {
	ID           string                `json:"id"`
	Sport        market.Sport          `json:"-"`
	SportName    string                `json:"sport"`
	EventID      string                `json:"event_id"`
	Matchup      string                `json:"matchup"`
	MarketKey    string                `json:"market_type"`
	Target       string                `json:"target"`
	Line         float64               `json:"line"`
	Price        float64               `json:"price"`
	Book         string                `json:"book"`
	EdgePct      float64               `json:"edge_pct"`
	WinProb      float64               `json:"win_prob"`
	MarketImplied float64              `json:"market_implied"`
	FairImplied  float64               `json:"fair_implied"`
	KellySize    float64               `json:"kelly_size"`
	SharpScore   float64               `json:"sharp_score"`
	Breakdown    ScoreBreakdown        `json:"sharp_breakdown"`
	Tier         string                `json:"tier"`
	RLMConfirmed bool                  `json:"rlm_confirmed"`
	RLMDrift     float64               `json:"rlm_drift"`
	Books        int                   `json:"n_books"`
	StdDev       float64               `json:"std_dev"`
	Signal       string                `json:"signal,omitempty"`
	KillReason   string                `json:"kill_reason,omitempty"`
	CommenceTime time.Time             `json:"commence_time"`
}

// Killed reports whether a kill rule fired on this candidate.
func (c BetCandidate) Killed() bool {
	return strings.HasPrefix(c.KillReason, "KILL:") || strings.HasPrefix(c.KillReason, "FORCE_UNDER:")
}

// Flagged reports whether a caution flag is attached.
func (c BetCandidate) Flagged() bool {
	return strings.HasPrefix(c.KillReason, "FLAG:")
}

// Actionable reports whether the candidate clears the Sharp Score
// threshold and carries no kill.
func (c BetCandidate) Actionable() bool {
	return !c.Killed() && c.SharpScore >= SharpThreshold
}
