// Package killswitch holds the per-sport veto rules that run after edge
// detection. A positive edge is necessary but not sufficient: each sport
// has known situations where the model inputs go stale or the variance
// regime changes, and the rules here kill, flag, or redirect those bets.
package killswitch

import (
	"fmt"
	"time"

	"github.com/sharpline/sharpline/pkg/market"
)

// Action is the outcome class of a rule evaluation.
type Action int

const (
	// Pass means no rule fired.
	Pass Action = iota
	// Flag keeps the bet but attaches a caution that raises the edge bar
	// or cuts sizing.
	Flag
	// Kill drops the bet.
	Kill
	// ForceUnder redirects a totals bet: only the under is playable.
	ForceUnder
)

// Verdict is the result of running a sport's rules. Reason is empty only
// when Action is Pass. Rules are ordered; the first match wins.
type Verdict struct {
	Action Action
	Reason string
}

var pass = Verdict{Action: Pass}

// Killed reports whether the verdict drops the bet outright.
func (v Verdict) Killed() bool {
	return v.Action == Kill || v.Action == ForceUnder
}

// NBAInputs feed the NBA rules. Spread is the line for the side under
// evaluation; AvgMargin is the absent star's team's average margin.
type NBAInputs struct {
	RestDisadvantage bool
	Spread           float64
	StarAbsent       bool
	AvgMargin        float64
	BackToBack       bool
	RoadBackToBack   bool
	PaceStdDev       float64
	MarketKey        string
}

// NBA evaluates the NBA rules. Road and home back-to-backs are
// deliberately asymmetric: road fatigue compounds with travel and gets
// the stricter edge requirement, home fatigue is partially offset by
// the crowd and only cuts sizing.
func NBA(in NBAInputs) Verdict {
	if in.RestDisadvantage && in.MarketKey == market.KeySpreads && abs(in.Spread) < 4 {
		return Verdict{Kill, "KILL: Rest disadvantage with spread inside -4, abort spread"}
	}
	if in.StarAbsent && abs(in.Spread) < in.AvgMargin {
		return Verdict{Kill, "KILL: Star absence with spread inside average margin"}
	}
	if in.BackToBack {
		if in.RoadBackToBack {
			return Verdict{Flag, "FLAG: Road B2B, require 8%+ edge (travel + fatigue compound)"}
		}
		return Verdict{Flag, "FLAG: Home B2B, reduce Kelly 50%"}
	}
	if in.PaceStdDev > 4 && in.MarketKey == market.KeyTotals {
		return Verdict{Kill, "KILL: High pace variance, skip total"}
	}
	return pass
}

// NFLInputs feed the NFL rules. WindMPH is measured at the home stadium;
// domes report zero.
type NFLInputs struct {
	WindMPH   float64
	Total     float64
	BackupQB  bool
	MarketKey string
}

// NFL evaluates the NFL rules. Wind over 20mph makes every total
// unplayable; between 15 and 20 with a high line only the under is.
func NFL(in NFLInputs) Verdict {
	if in.BackupQB {
		return Verdict{Kill, "KILL: Backup QB, require 10%+ edge to proceed"}
	}
	if in.WindMPH > 20 {
		return Verdict{Kill, "KILL: Wind >20mph, skip all totals"}
	}
	if in.WindMPH > 15 && in.Total > 42 && in.MarketKey == market.KeyTotals {
		return Verdict{ForceUnder, "FORCE_UNDER: Wind >15mph with high total, take under or pass"}
	}
	return pass
}

// NCAABInputs feed the college basketball rules.
type NCAABInputs struct {
	ThreePointReliance   float64
	IsAway               bool
	TempoDiff            float64
	ConferenceTournament bool
	MarketKey            string
}

// NCAAB evaluates the college basketball rules. Three-point-dependent
// teams travel badly, and large tempo mismatches make totals unmodelable.
func NCAAB(in NCAABInputs) Verdict {
	if in.ThreePointReliance > 0.40 && in.IsAway {
		return Verdict{Kill, fmt.Sprintf("KILL: 3PT reliance %.0f%% on road, fade", in.ThreePointReliance*100)}
	}
	if in.TempoDiff > 10 && in.MarketKey == market.KeyTotals {
		return Verdict{Kill, fmt.Sprintf("KILL: Tempo diff %.1f possessions, skip total", in.TempoDiff)}
	}
	if in.ConferenceTournament {
		return Verdict{Flag, "FLAG: Conference tournament, require 8%+ edge"}
	}
	return pass
}

// NCAAF rule constants. Spreads at or beyond the threshold live in the
// blowout noise zone where garbage time dominates cover outcomes.
const NCAAFSpreadKillThreshold = 28.0

// NCAAF evaluates the college football gates: season window and blowout
// spreads. SpreadAbs is the absolute spread line (0 for moneylines).
func NCAAF(spreadAbs float64, month time.Month) Verdict {
	switch month {
	case time.September, time.October, time.November, time.December, time.January:
	default:
		return Verdict{Kill, fmt.Sprintf("KILL: NCAAF off-season (month %d), no reliable model data", int(month))}
	}
	if spreadAbs >= NCAAFSpreadKillThreshold {
		return Verdict{Kill, fmt.Sprintf("KILL: NCAAF spread %g >= %.0f pts, blowout noise zone", spreadAbs, NCAAFSpreadKillThreshold)}
	}
	return pass
}

// SoccerInputs feed the soccer rules. MarketDrift is the absolute
// implied-probability move against the position since open.
type SoccerInputs struct {
	MarketDrift   float64
	DeadRubber    bool
	KeyCreatorOut bool
}

// Soccer evaluates the soccer rules.
func Soccer(in SoccerInputs) Verdict {
	if in.MarketDrift > 0.10 {
		return Verdict{Kill, fmt.Sprintf("KILL: Market drifted %.1f%% against position, abort", in.MarketDrift*100)}
	}
	if in.DeadRubber {
		return Verdict{Kill, "KILL: Dead rubber, skip"}
	}
	if in.KeyCreatorOut {
		return Verdict{Flag, "FLAG: Key creator out, downgrade significantly"}
	}
	return pass
}

// NHLInputs feed the NHL rules. GoalieConfirmed means at least one
// starter has been announced for the game.
type NHLInputs struct {
	BackupGoalie    bool
	BackToBack      bool
	GoalieConfirmed bool
}

// NHL evaluates the NHL rules. Goalie identity is the single largest
// input to any NHL line, so an unconfirmed or backup starter dominates
// everything else.
func NHL(in NHLInputs) Verdict {
	if in.BackupGoalie {
		return Verdict{Kill, "KILL: Backup goalie confirmed, require 12%+ edge to override"}
	}
	if in.BackToBack {
		return Verdict{Flag, "FLAG: B2B, reduce Kelly 50%"}
	}
	if !in.GoalieConfirmed {
		return Verdict{Flag, "FLAG: Goalie not yet confirmed, require 8%+ edge"}
	}
	return pass
}

// Tennis court surfaces as inferred from tournament keys.
const (
	SurfaceClay    = "clay"
	SurfaceGrass   = "grass"
	SurfaceHard    = "hard"
	SurfaceUnknown = "unknown"
)

// TennisInputs feed the tennis rules. FavouriteImplied is the implied
// probability of the match favourite; IsFavouriteBet is whether the bet
// under evaluation backs that favourite.
type TennisInputs struct {
	Surface         string
	FavouriteImplied float64
	IsFavouriteBet  bool
	MarketKey       string
}

// Tennis evaluates the tennis rules. Tennis never kills: surfaces shift
// upset rates enough to warrant caution on heavy favourites, but the
// market data is too thin to justify hard vetoes. Totals are left alone.
func Tennis(in TennisInputs) Verdict {
	if in.MarketKey == market.KeyTotals {
		return pass
	}
	if in.Surface == SurfaceUnknown || in.Surface == "" {
		return Verdict{Flag, "FLAG: Surface unknown, require 8%+ edge"}
	}
	if !in.IsFavouriteBet {
		return pass
	}
	pct := in.FavouriteImplied * 100
	if in.Surface == SurfaceClay && in.FavouriteImplied > 0.72 {
		return Verdict{Flag, fmt.Sprintf("FLAG: Clay court + heavy favourite (%.1f%%), upsets common, require 8%%+ edge", pct)}
	}
	if in.Surface == SurfaceGrass && in.FavouriteImplied > 0.75 {
		return Verdict{Flag, fmt.Sprintf("FLAG: Grass court + heavy favourite (%.1f%%), serve variance high, require 7%%+ edge", pct)}
	}
	return pass
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
