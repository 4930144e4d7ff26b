package odds

import (
	"math"
	"testing"
)

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  float64
	}{
		{"standard juice favourite", -110, 110.0 / 210.0},
		{"even money", 100, 0.5},
		{"plus money dog", 150, 0.4},
		{"heavy favourite", -200, 200.0 / 300.0},
		{"longshot", 400, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ImpliedProbability(tt.price)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ImpliedProbability(%v) = %v, want %v", tt.price, got, tt.want)
			}
		})
	}
}

func TestImpliedProbabilityRange(t *testing.T) {
	for _, price := range []float64{-10000, -500, -110, -105, 100, 110, 250, 10000} {
		p := ImpliedProbability(price)
		if p <= 0 || p >= 1 {
			t.Errorf("ImpliedProbability(%v) = %v, want in (0, 1)", price, p)
		}
	}
}

func TestToDecimal(t *testing.T) {
	tests := []struct {
		price float64
		want  float64
	}{
		{150, 2.5},
		{100, 2.0},
		{-110, 1 + 100.0/110.0},
		{-200, 1.5},
	}
	for _, tt := range tests {
		got := ToDecimal(tt.price)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ToDecimal(%v) = %v, want %v", tt.price, got, tt.want)
		}
	}
}

func TestWinProfit(t *testing.T) {
	tests := []struct {
		stake, price, want float64
	}{
		{100, 150, 150},
		{100, -110, 100 * 100.0 / 110.0},
		{50, -200, 25},
	}
	for _, tt := range tests {
		got := WinProfit(tt.stake, tt.price)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("WinProfit(%v, %v) = %v, want %v", tt.stake, tt.price, got, tt.want)
		}
	}
}

func TestRemoveVig(t *testing.T) {
	t.Run("symmetric market is exactly even", func(t *testing.T) {
		pa, pb, err := RemoveVig(-110, -110)
		if err != nil {
			t.Fatalf("RemoveVig: %v", err)
		}
		if pa != 0.5 || pb != 0.5 {
			t.Errorf("RemoveVig(-110, -110) = (%v, %v), want (0.5, 0.5)", pa, pb)
		}
	})

	t.Run("probabilities sum to one", func(t *testing.T) {
		pa, pb, err := RemoveVig(-145, 125)
		if err != nil {
			t.Fatalf("RemoveVig: %v", err)
		}
		if math.Abs(pa+pb-1) > 1e-12 {
			t.Errorf("sum = %v, want 1", pa+pb)
		}
		if pa <= pb {
			t.Errorf("favourite prob %v should exceed dog prob %v", pa, pb)
		}
	})

	t.Run("vig-free is below raw implied for both sides", func(t *testing.T) {
		pa, pb, _ := RemoveVig(-110, -110)
		if pa >= ImpliedProbability(-110) || pb >= ImpliedProbability(-110) {
			t.Error("vig removal should lower both implied probabilities")
		}
	})
}

func TestRemoveVig3(t *testing.T) {
	pa, pb, pc, err := RemoveVig3(120, 240, 230)
	if err != nil {
		t.Fatalf("RemoveVig3: %v", err)
	}
	if math.Abs(pa+pb+pc-1) > 1e-12 {
		t.Errorf("sum = %v, want 1", pa+pb+pc)
	}
	if pa <= pb || pa <= pc {
		t.Errorf("shortest price should carry the largest fair prob: (%v, %v, %v)", pa, pb, pc)
	}
}

func TestCollar(t *testing.T) {
	tests := []struct {
		price      float64
		twoWay     bool
		threeWay   bool
	}{
		{-110, true, true},
		{-180, true, true},
		{-181, false, true},
		{150, true, true},
		{151, false, true},
		{-250, false, true},
		{-251, false, false},
		{400, false, true},
		{401, false, false},
	}
	for _, tt := range tests {
		if got := PassesCollar(tt.price); got != tt.twoWay {
			t.Errorf("PassesCollar(%v) = %v, want %v", tt.price, got, tt.twoWay)
		}
		if got := PassesSoccerCollar(tt.price); got != tt.threeWay {
			t.Errorf("PassesSoccerCollar(%v) = %v, want %v", tt.price, got, tt.threeWay)
		}
	}
}

func TestCLV(t *testing.T) {
	t.Run("line moved toward bet", func(t *testing.T) {
		clv := CLV(-110, -125)
		if clv <= 0 {
			t.Errorf("CLV(-110, -125) = %v, want positive", clv)
		}
	})
	t.Run("line moved against bet", func(t *testing.T) {
		clv := CLV(-110, 105)
		if clv >= 0 {
			t.Errorf("CLV(-110, +105) = %v, want negative", clv)
		}
	})
	t.Run("no move", func(t *testing.T) {
		if clv := CLV(-110, -110); clv != 0 {
			t.Errorf("CLV(-110, -110) = %v, want 0", clv)
		}
	})
}

func TestGradeCLV(t *testing.T) {
	tests := []struct {
		clv  float64
		want CLVGrade
	}{
		{0.03, CLVExcellent},
		{0.02, CLVExcellent},
		{0.01, CLVGood},
		{0.005, CLVGood},
		{0.001, CLVNeutral},
		{0, CLVNeutral},
		{-0.01, CLVPoor},
	}
	for _, tt := range tests {
		if got := GradeCLV(tt.clv); got != tt.want {
			t.Errorf("GradeCLV(%v) = %v, want %v", tt.clv, got, tt.want)
		}
	}
}
