package engine

import (
	"testing"

	"github.com/sharpline/sharpline/pkg/market"
)

func TestRLMColdCache(t *testing.T) {
	d := NewRLMDetector()
	confirmed, drift := d.Compute("evt1", "Duke", -130, true)
	if confirmed || drift != 0 {
		t.Errorf("cold cache: got (%v, %v), want (false, 0)", confirmed, drift)
	}
}

func TestRLMOpenPriceIsImmutable(t *testing.T) {
	d := NewRLMDetector()
	d.RecordOpen("evt1", "Duke", -110)
	d.RecordOpen("evt1", "Duke", -150) // later quote must not overwrite

	open, ok := d.OpenPrice("evt1", "Duke")
	if !ok || open != -110 {
		t.Errorf("OpenPrice = (%v, %v), want (-110, true)", open, ok)
	}
}

func TestRLMFiresOnDriftAgainstPublic(t *testing.T) {
	d := NewRLMDetector()
	d.RecordOpen("evt1", "Duke", -110)

	// -110 → -130 is a ~3.4 point implied move with the public on Duke.
	confirmed, drift := d.Compute("evt1", "Duke", -130, true)
	if !confirmed {
		t.Fatalf("expected RLM confirmation, drift = %v", drift)
	}
	if drift < RLMDriftThreshold {
		t.Errorf("drift = %v, want >= %v", drift, RLMDriftThreshold)
	}
	if d.FireCount() != 1 {
		t.Errorf("FireCount = %d, want 1", d.FireCount())
	}
}

func TestRLMNoFireWithoutPublic(t *testing.T) {
	d := NewRLMDetector()
	d.RecordOpen("evt1", "Duke", -110)

	confirmed, drift := d.Compute("evt1", "Duke", -130, false)
	if confirmed {
		t.Error("RLM confirmed without public on side")
	}
	if drift == 0 {
		t.Error("warm cache should still report the drift")
	}
	if d.FireCount() != 0 {
		t.Errorf("FireCount = %d, want 0", d.FireCount())
	}
}

func TestRLMNoFireOnSmallDrift(t *testing.T) {
	d := NewRLMDetector()
	d.RecordOpen("evt1", "Duke", -110)

	confirmed, _ := d.Compute("evt1", "Duke", -112, true)
	if confirmed {
		t.Error("RLM confirmed on sub-threshold drift")
	}
}

func TestRLMRecordGame(t *testing.T) {
	g := market.Game{
		ID: "evt9",
		Bookmakers: []market.Bookmaker{{
			Key: "dk",
			Markets: []market.Market{{
				Key: market.KeyH2H,
				Outcomes: []market.Outcome{
					{Name: "Duke", Price: -120},
					{Name: "UNC", Price: 100},
				},
			}},
		}},
	}
	d := NewRLMDetector()
	d.RecordGame(g)

	if d.CacheSize() != 1 {
		t.Fatalf("CacheSize = %d, want 1", d.CacheSize())
	}
	if open, ok := d.OpenPrice("evt9", "UNC"); !ok || open != 100 {
		t.Errorf("OpenPrice(evt9, UNC) = (%v, %v), want (100, true)", open, ok)
	}
}

func TestRLMSeed(t *testing.T) {
	d := NewRLMDetector()
	d.RecordOpen("live", "Duke", -110)

	seeded := d.Seed(map[string]map[string]float64{
		"live":      {"Duke": -150}, // must not overwrite the live open
		"persisted": {"UNC": 120},
	})
	if seeded != 1 {
		t.Errorf("Seed = %d, want 1 (existing event skipped)", seeded)
	}
	if open, _ := d.OpenPrice("live", "Duke"); open != -110 {
		t.Errorf("seeding overwrote a live open price: %v", open)
	}
	if open, ok := d.OpenPrice("persisted", "UNC"); !ok || open != 120 {
		t.Errorf("OpenPrice(persisted, UNC) = (%v, %v), want (120, true)", open, ok)
	}
}

func TestRLMGateStatus(t *testing.T) {
	d := NewRLMDetector()
	st := d.GateStatus()
	if st.FireCount != 0 || st.Gate != RLMFireGate || st.PctToGate != 0 || st.GateReached {
		t.Errorf("fresh gate status = %+v", st)
	}

	d.RecordOpen("evt1", "Duke", -110)
	for i := 0; i < RLMFireGate; i++ {
		d.Compute("evt1", "Duke", -135, true)
	}
	st = d.GateStatus()
	if !st.GateReached {
		t.Errorf("gate not reached after %d fires: %+v", RLMFireGate, st)
	}
	if st.PctToGate != 1.0 {
		t.Errorf("PctToGate = %v, want 1.0 (capped)", st.PctToGate)
	}
}
