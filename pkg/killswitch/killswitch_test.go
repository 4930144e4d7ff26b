package killswitch

import (
	"strings"
	"testing"
	"time"

	"github.com/sharpline/sharpline/pkg/market"
)

func TestNBA(t *testing.T) {
	tests := []struct {
		name       string
		in         NBAInputs
		wantAction Action
		wantSubstr string
	}{
		{
			name:       "rest disadvantage inside short spread kills",
			in:         NBAInputs{RestDisadvantage: true, Spread: -3.5, MarketKey: market.KeySpreads},
			wantAction: Kill,
			wantSubstr: "Rest disadvantage",
		},
		{
			name:       "rest disadvantage on wide spread passes",
			in:         NBAInputs{RestDisadvantage: true, Spread: -8.5, MarketKey: market.KeySpreads},
			wantAction: Pass,
		},
		{
			name:       "rest disadvantage on total passes",
			in:         NBAInputs{RestDisadvantage: true, Spread: -3.5, MarketKey: market.KeyTotals},
			wantAction: Pass,
		},
		{
			name:       "star absent inside average margin kills",
			in:         NBAInputs{StarAbsent: true, Spread: -3, AvgMargin: 5, MarketKey: market.KeySpreads},
			wantAction: Kill,
			wantSubstr: "Star absence",
		},
		{
			name:       "road back-to-back gets the stricter flag",
			in:         NBAInputs{BackToBack: true, RoadBackToBack: true},
			wantAction: Flag,
			wantSubstr: "Road B2B",
		},
		{
			name:       "home back-to-back only cuts sizing",
			in:         NBAInputs{BackToBack: true},
			wantAction: Flag,
			wantSubstr: "Home B2B",
		},
		{
			name:       "pace variance kills totals",
			in:         NBAInputs{PaceStdDev: 4.5, MarketKey: market.KeyTotals},
			wantAction: Kill,
			wantSubstr: "pace variance",
		},
		{
			name:       "pace variance leaves spreads alone",
			in:         NBAInputs{PaceStdDev: 4.5, MarketKey: market.KeySpreads},
			wantAction: Pass,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NBA(tt.in)
			checkVerdict(t, v, tt.wantAction, tt.wantSubstr)
		})
	}
}

func TestNFL(t *testing.T) {
	tests := []struct {
		name       string
		in         NFLInputs
		wantAction Action
		wantSubstr string
	}{
		{
			name:       "backup qb kills everything",
			in:         NFLInputs{BackupQB: true, MarketKey: market.KeySpreads},
			wantAction: Kill,
			wantSubstr: "Backup QB",
		},
		{
			name:       "extreme wind kills totals",
			in:         NFLInputs{WindMPH: 22, Total: 44.5, MarketKey: market.KeyTotals},
			wantAction: Kill,
			wantSubstr: "Wind >20mph",
		},
		{
			name:       "strong wind with high total forces the under",
			in:         NFLInputs{WindMPH: 18, Total: 44.5, MarketKey: market.KeyTotals},
			wantAction: ForceUnder,
			wantSubstr: "FORCE_UNDER",
		},
		{
			name:       "strong wind with low total passes",
			in:         NFLInputs{WindMPH: 18, Total: 39.5, MarketKey: market.KeyTotals},
			wantAction: Pass,
		},
		{
			name:       "calm conditions pass",
			in:         NFLInputs{WindMPH: 12, Total: 44.5, MarketKey: market.KeyTotals},
			wantAction: Pass,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkVerdict(t, NFL(tt.in), tt.wantAction, tt.wantSubstr)
		})
	}
}

func TestNCAAB(t *testing.T) {
	tests := []struct {
		name       string
		in         NCAABInputs
		wantAction Action
		wantSubstr string
	}{
		{
			name:       "three point reliant road team kills",
			in:         NCAABInputs{ThreePointReliance: 0.43, IsAway: true, MarketKey: market.KeySpreads},
			wantAction: Kill,
			wantSubstr: "3PT reliance 43%",
		},
		{
			name:       "same reliance at home passes",
			in:         NCAABInputs{ThreePointReliance: 0.43, MarketKey: market.KeySpreads},
			wantAction: Pass,
		},
		{
			name:       "tempo mismatch kills totals",
			in:         NCAABInputs{TempoDiff: 12.5, MarketKey: market.KeyTotals},
			wantAction: Kill,
			wantSubstr: "Tempo diff 12.5",
		},
		{
			name:       "conference tournament flags",
			in:         NCAABInputs{ConferenceTournament: true, MarketKey: market.KeySpreads},
			wantAction: Flag,
			wantSubstr: "Conference tournament",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkVerdict(t, NCAAB(tt.in), tt.wantAction, tt.wantSubstr)
		})
	}
}

func TestNCAAF(t *testing.T) {
	tests := []struct {
		name       string
		spreadAbs  float64
		month      time.Month
		wantAction Action
		wantSubstr string
	}{
		{"in-season playable spread", 14, time.October, Pass, ""},
		{"january bowl season passes", 7, time.January, Pass, ""},
		{"off-season kills", 7, time.April, Kill, "off-season (month 4)"},
		{"blowout spread kills", 28, time.October, Kill, "blowout noise zone"},
		{"spread beyond threshold kills", 35, time.November, Kill, "blowout noise zone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkVerdict(t, NCAAF(tt.spreadAbs, tt.month), tt.wantAction, tt.wantSubstr)
		})
	}
}

func TestSoccer(t *testing.T) {
	tests := []struct {
		name       string
		in         SoccerInputs
		wantAction Action
		wantSubstr string
	}{
		{"big drift against position kills", SoccerInputs{MarketDrift: 0.11}, Kill, "drifted 11.0%"},
		{"small drift passes", SoccerInputs{MarketDrift: 0.05}, Pass, ""},
		{"dead rubber kills", SoccerInputs{DeadRubber: true}, Kill, "Dead rubber"},
		{"key creator out flags", SoccerInputs{KeyCreatorOut: true}, Flag, "Key creator out"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkVerdict(t, Soccer(tt.in), tt.wantAction, tt.wantSubstr)
		})
	}
}

func TestNHL(t *testing.T) {
	tests := []struct {
		name       string
		in         NHLInputs
		wantAction Action
		wantSubstr string
	}{
		{"backup goalie kills", NHLInputs{BackupGoalie: true, GoalieConfirmed: true}, Kill, "Backup goalie"},
		{"back-to-back flags", NHLInputs{BackToBack: true, GoalieConfirmed: true}, Flag, "B2B"},
		{"unconfirmed goalie flags", NHLInputs{}, Flag, "not yet confirmed"},
		{"confirmed starter passes", NHLInputs{GoalieConfirmed: true}, Pass, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkVerdict(t, NHL(tt.in), tt.wantAction, tt.wantSubstr)
		})
	}
}

func TestTennis(t *testing.T) {
	tests := []struct {
		name       string
		in         TennisInputs
		wantAction Action
		wantSubstr string
	}{
		{
			name:       "totals always pass",
			in:         TennisInputs{Surface: SurfaceUnknown, MarketKey: market.KeyTotals},
			wantAction: Pass,
		},
		{
			name:       "unknown surface flags",
			in:         TennisInputs{Surface: SurfaceUnknown, MarketKey: market.KeyH2H},
			wantAction: Flag,
			wantSubstr: "Surface unknown",
		},
		{
			name:       "clay heavy favourite flags",
			in:         TennisInputs{Surface: SurfaceClay, FavouriteImplied: 0.75, IsFavouriteBet: true, MarketKey: market.KeyH2H},
			wantAction: Flag,
			wantSubstr: "Clay court + heavy favourite (75.0%)",
		},
		{
			name:       "clay moderate favourite passes",
			in:         TennisInputs{Surface: SurfaceClay, FavouriteImplied: 0.65, IsFavouriteBet: true, MarketKey: market.KeyH2H},
			wantAction: Pass,
		},
		{
			name:       "clay underdog bet passes",
			in:         TennisInputs{Surface: SurfaceClay, FavouriteImplied: 0.80, IsFavouriteBet: false, MarketKey: market.KeyH2H},
			wantAction: Pass,
		},
		{
			name:       "grass heavy favourite flags",
			in:         TennisInputs{Surface: SurfaceGrass, FavouriteImplied: 0.78, IsFavouriteBet: true, MarketKey: market.KeyH2H},
			wantAction: Flag,
			wantSubstr: "Grass court",
		},
		{
			name:       "hard court passes",
			in:         TennisInputs{Surface: SurfaceHard, FavouriteImplied: 0.85, IsFavouriteBet: true, MarketKey: market.KeyH2H},
			wantAction: Pass,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Tennis(tt.in)
			checkVerdict(t, v, tt.wantAction, tt.wantSubstr)
			if v.Action == Kill {
				t.Error("tennis rules must never kill")
			}
		})
	}
}

func checkVerdict(t *testing.T, v Verdict, wantAction Action, wantSubstr string) {
	t.Helper()
	if v.Action != wantAction {
		t.Errorf("Action = %v, want %v (reason %q)", v.Action, wantAction, v.Reason)
	}
	if wantAction == Pass {
		if v.Reason != "" {
			t.Errorf("Reason = %q, want empty on Pass", v.Reason)
		}
		return
	}
	if !strings.Contains(v.Reason, wantSubstr) {
		t.Errorf("Reason = %q, want substring %q", v.Reason, wantSubstr)
	}
}
