package store

import (
	"fmt"
	"math"
)

// MinBetsForCalibration is the settled-bet count below which the
// calibration report carries no verdict. Brier scores on a dozen bets
// are noise.
const MinBetsForCalibration = 30

// CalibrationBin is one decile of predicted win probability.
type CalibrationBin struct {
	Low       float64 `json:"low"`
	High      float64 `json:"high"`
	Bets      int     `json:"bets"`
	Predicted float64 `json:"predicted"` // mean model probability
	Actual    float64 `json:"actual"`    // observed win rate
}

// TierRecord is the settled record for one stake tier.
type TierRecord struct {
	Tier    string  `json:"tier"`
	Bets    int     `json:"bets"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
	Profit  float64 `json:"profit"`
}

// CalibrationReport compares model win probabilities against settled
// outcomes.
type CalibrationReport struct {
	Bets  int              `json:"bets"`
	Ready bool             `json:"ready"`
	Brier float64          `json:"brier"`
	Bins  []CalibrationBin `json:"bins"`
	Tiers []TierRecord     `json:"tiers"`
}

// Calibration builds the report from all settled bets. Below
// MinBetsForCalibration the report is returned with Ready false and no
// Brier score.
func (s *Store) Calibration() (*CalibrationReport, error) {
	bets, err := s.GradedBets()
	if err != nil {
		return nil, fmt.Errorf("building calibration report: %w", err)
	}

	report := &CalibrationReport{Bets: len(bets)}
	if len(bets) < MinBetsForCalibration {
		return report, nil
	}
	report.Ready = true

	type binAcc struct {
		n       int
		predSum float64
		wins    int
	}
	bins := make([]binAcc, 10)
	tiers := make(map[string]*TierRecord)

	brierSum := 0.0
	for _, b := range bets {
		outcome := 0.0
		if b.Result == ResultWin {
			outcome = 1.0
		}
		diff := b.WinProb - outcome
		brierSum += diff * diff

		i := int(b.WinProb * 10)
		if i > 9 {
			i = 9
		}
		if i < 0 {
			i = 0
		}
		bins[i].n++
		bins[i].predSum += b.WinProb
		bins[i].wins += int(outcome)

		t := tiers[b.Tier]
		if t == nil {
			t = &TierRecord{Tier: b.Tier}
			tiers[b.Tier] = t
		}
		t.Bets++
		t.Wins += int(outcome)
		t.Profit += b.Profit
	}
	report.Brier = brierSum / float64(len(bets))

	for i, acc := range bins {
		if acc.n == 0 {
			continue
		}
		report.Bins = append(report.Bins, CalibrationBin{
			Low:       float64(i) / 10,
			High:      float64(i+1) / 10,
			Bets:      acc.n,
			Predicted: acc.predSum / float64(acc.n),
			Actual:    float64(acc.wins) / float64(acc.n),
		})
	}

	for _, name := range []string{"NUCLEAR_2.0U", "STANDARD_1.0U", "LEAN_0.5U"} {
		if t, ok := tiers[name]; ok {
			t.WinRate = float64(t.Wins) / float64(t.Bets)
			t.Profit = math.Round(t.Profit*100) / 100
			report.Tiers = append(report.Tiers, *t)
			delete(tiers, name)
		}
	}
	for _, t := range tiers {
		t.WinRate = float64(t.Wins) / float64(t.Bets)
		t.Profit = math.Round(t.Profit*100) / 100
		report.Tiers = append(report.Tiers, *t)
	}
	return report, nil
}
