package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sharpline/sharpline/pkg/killswitch"
)

func TestEfficiencyGap(t *testing.T) {
	t.Run("elite host vs worst visitor pins high", func(t *testing.T) {
		gap := EfficiencyGap("Boston Celtics", "Washington Wizards")
		if gap <= 18.0 || gap > 20.0 {
			t.Errorf("gap = %v, want in (18, 20]", gap)
		}
	})

	t.Run("mirror matchup is symmetric around neutral", func(t *testing.T) {
		a := EfficiencyGap("Boston Celtics", "Milwaukee Bucks")
		b := EfficiencyGap("Milwaukee Bucks", "Boston Celtics")
		if diff := (a - 10) + (b - 10); diff > 1e-9 || diff < -1e-9 {
			t.Errorf("gaps %v and %v are not mirrored around 10", a, b)
		}
	})

	t.Run("identical teams are exactly neutral", func(t *testing.T) {
		if gap := EfficiencyGap("Duke", "Duke"); gap != 10.0 {
			t.Errorf("gap = %v, want 10.0", gap)
		}
	})

	t.Run("unknown team degrades below neutral", func(t *testing.T) {
		if gap := EfficiencyGap("Unknown A", "Unknown B"); gap != UnknownGap {
			t.Errorf("gap = %v, want %v", gap, UnknownGap)
		}
		if gap := EfficiencyGap("Boston Celtics", "Unknown B"); gap != UnknownGap {
			t.Errorf("gap = %v, want %v when either side is unknown", gap, UnknownGap)
		}
	})
}

func TestLookupTeam(t *testing.T) {
	tests := []struct {
		name   string
		wantOK bool
	}{
		{"Boston Celtics", true},
		{"Celtics", true},   // alias
		{"celtics", true},   // case-insensitive alias
		{"BOSTON CELTICS", true},
		{"Sixers", true},
		{"Hartlepool United", false},
	}
	for _, tt := range tests {
		if _, ok := LookupTeam(tt.name); ok != tt.wantOK {
			t.Errorf("LookupTeam(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
		}
	}
}

func TestListTeams(t *testing.T) {
	nba := ListTeams("NBA")
	if len(nba) != 30 {
		t.Errorf("NBA teams = %d, want 30", len(nba))
	}
	if len(ListTeams("CURLING")) != 0 {
		t.Error("unknown league should list no teams")
	}
}

func TestSurfaceFromSportKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"tennis_atp_french_open", killswitch.SurfaceClay},
		{"tennis_wta_wimbledon", killswitch.SurfaceGrass},
		{"tennis_atp_us_open", killswitch.SurfaceHard},
		{"tennis_atp_aus_open_singles", killswitch.SurfaceHard},
		{"tennis_atp_australian_open", killswitch.SurfaceHard},
		{"tennis_atp_monte_carlo_masters", killswitch.SurfaceClay},
		{"tennis_atp_mystery_cup", killswitch.SurfaceUnknown},
		{"", killswitch.SurfaceUnknown},
	}
	for _, tt := range tests {
		if got := SurfaceFromSportKey(tt.key); got != tt.want {
			t.Errorf("SurfaceFromSportKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestIsTennisSportKey(t *testing.T) {
	if !IsTennisSportKey("tennis_atp_french_open") {
		t.Error("tennis key not recognized")
	}
	if IsTennisSportKey("basketball_nba") {
		t.Error("basketball key recognized as tennis")
	}
}

func TestInjuryLeverage(t *testing.T) {
	tests := []struct {
		sport, position string
		wantPoints      float64
		wantKill        bool
	}{
		{"NFL", "QB", 7.0, true},
		{"NFL", "RB1", 1.5, false},
		{"NBA", "STAR", 4.5, true},
		{"NBA", "SIXTH", 1.0, false},
		{"NHL", "G1", 4.0, true},
		{"nfl", "qb", 7.0, true}, // case-insensitive
		{"NFL", "PUNTER", 0, false},
		{"DARTS", "ANY", 0, false},
	}
	for _, tt := range tests {
		points, kill := InjuryLeverage(tt.sport, tt.position)
		if points != tt.wantPoints || kill != tt.wantKill {
			t.Errorf("InjuryLeverage(%q, %q) = (%v, %v), want (%v, %v)",
				tt.sport, tt.position, points, kill, tt.wantPoints, tt.wantKill)
		}
	}
}

func TestStadiumWind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current": {"wind_speed_10m": 17.4}}`))
	}))
	defer srv.Close()

	c := &WindClient{
		baseURL: srv.URL,
		http:    srv.Client(),
		log:     zerolog.Nop(),
		cache:   make(map[string]windEntry),
	}

	t.Run("open-air stadium fetches forecast", func(t *testing.T) {
		if mph := c.StadiumWind(context.Background(), "Buffalo Bills"); mph != 17.4 {
			t.Errorf("wind = %v, want 17.4", mph)
		}
	})

	t.Run("dome reports zero without fetching", func(t *testing.T) {
		if mph := c.StadiumWind(context.Background(), "Minnesota Vikings"); mph != 0 {
			t.Errorf("dome wind = %v, want 0", mph)
		}
	})

	t.Run("unknown venue uses calm default", func(t *testing.T) {
		if mph := c.StadiumWind(context.Background(), "London Monarchs"); mph != DefaultWindMPH {
			t.Errorf("wind = %v, want default %v", mph, DefaultWindMPH)
		}
	})

	t.Run("fetch failure degrades to default", func(t *testing.T) {
		broken := &WindClient{
			baseURL: "http://127.0.0.1:0",
			http:    &http.Client{},
			log:     zerolog.Nop(),
			cache:   make(map[string]windEntry),
		}
		if mph := broken.StadiumWind(context.Background(), "Buffalo Bills"); mph != DefaultWindMPH {
			t.Errorf("wind = %v, want default on failure", mph)
		}
	})
}

func TestGoalieReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"games": [{
				"awayTeam": {"abbrev": "NYR"},
				"homeTeam": {"abbrev": "BOS"},
				"matchup": {"goalies": [
					{"teamAbbrev": "NYR", "name": {"default": "Igor Shesterkin"}, "confirmed": true},
					{"teamAbbrev": "BOS", "name": {"default": "Jeremy Swayman"}, "confirmed": false}
				]}
			}]
		}`))
	}))
	defer srv.Close()

	c := &GoalieClient{
		baseURL: srv.URL,
		http:    srv.Client(),
		log:     zerolog.Nop(),
		cache:   make(map[string]goalieEntry),
	}

	report := c.Report(context.Background(), "New York Rangers", "Boston Bruins")
	if report == nil {
		t.Fatal("nil report")
	}
	if !report.Away.StarterConfirmed || report.Away.StarterName != "Igor Shesterkin" {
		t.Errorf("away = %+v, want confirmed Shesterkin", report.Away)
	}
	if report.Home.StarterConfirmed {
		t.Errorf("home = %+v, want unconfirmed", report.Home)
	}

	t.Run("unmapped team returns nil", func(t *testing.T) {
		if r := c.Report(context.Background(), "Hartford Whalers", "Boston Bruins"); r != nil {
			t.Errorf("report = %+v, want nil", r)
		}
	})

	t.Run("matchup not on slate returns nil", func(t *testing.T) {
		if r := c.Report(context.Background(), "Dallas Stars", "Seattle Kraken"); r != nil {
			t.Errorf("report = %+v, want nil", r)
		}
	})
}
