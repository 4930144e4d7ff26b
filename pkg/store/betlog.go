package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sharpline/sharpline/pkg/odds"
)

// Bet results.
const (
	ResultPending = "pending"
	ResultWin     = "win"
	ResultLoss    = "loss"
	ResultVoid    = "void"
)

// BetRecord is one ledger entry.
type BetRecord struct {
	ID         int64     `json:"id"`
	LoggedAt   time.Time `json:"logged_at"`
	Sport      string    `json:"sport"`
	Matchup    string    `json:"matchup"`
	MarketType string    `json:"market_type"`
	Target     string    `json:"target"`
	Price      float64   `json:"price"`
	EdgePct    float64   `json:"edge_pct"`
	WinProb    float64   `json:"win_prob"`
	SharpScore float64   `json:"sharp_score"`
	Tier       string    `json:"tier"`
	KellySize  float64   `json:"kelly_size"`
	Stake      float64   `json:"stake"`
	Result     string    `json:"result"`
	Profit     float64   `json:"profit"`
	CLV        float64   `json:"clv"`
	ClosePrice float64   `json:"close_price"`
	Notes      string    `json:"notes"`
}

// LogBet inserts a pending bet and returns its row id.
func (s *Store) LogBet(b BetRecord) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO bet_log
			(sport, matchup, market_type, target, price, edge_pct, win_prob,
			 sharp_score, tier, kelly_size, stake, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Sport, b.Matchup, b.MarketType, b.Target, b.Price, b.EdgePct, b.WinProb,
		b.SharpScore, b.Tier, b.KellySize, b.Stake, b.Notes)
	if err != nil {
		return 0, fmt.Errorf("logging bet: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading bet id: %w", err)
	}
	s.log.Info().Int64("id", id).Str("target", b.Target).Float64("price", b.Price).Msg("bet logged")
	return id, nil
}

// GradeBet settles a pending bet: profit from the logged stake and
// price, CLV against the closing price. closePrice of 0 skips CLV.
func (s *Store) GradeBet(id int64, result string, closePrice float64) error {
	switch result {
	case ResultWin, ResultLoss, ResultVoid:
	default:
		return fmt.Errorf("grading bet %d: bad result %q", id, result)
	}

	var stake, price float64
	var current string
	err := s.db.QueryRow(`SELECT stake, price, result FROM bet_log WHERE id = ?`, id).
		Scan(&stake, &price, &current)
	if err == sql.ErrNoRows {
		return fmt.Errorf("grading bet %d: not found", id)
	}
	if err != nil {
		return fmt.Errorf("grading bet %d: %w", id, err)
	}
	if current != ResultPending {
		return fmt.Errorf("grading bet %d: already %s", id, current)
	}

	var profit float64
	switch result {
	case ResultWin:
		profit = odds.WinProfit(stake, price)
	case ResultLoss:
		profit = -stake
	}

	var clv sql.NullFloat64
	var close_ sql.NullFloat64
	if closePrice != 0 {
		clv = sql.NullFloat64{Float64: odds.CLV(price, closePrice), Valid: true}
		close_ = sql.NullFloat64{Float64: closePrice, Valid: true}
	}

	_, err = s.db.Exec(`
		UPDATE bet_log SET result = ?, profit = ?, clv = ?, close_price = ?
		WHERE id = ?`, result, profit, clv, close_, id)
	if err != nil {
		return fmt.Errorf("grading bet %d: %w", id, err)
	}
	return nil
}

// PendingBets returns ungraded bets, oldest first.
func (s *Store) PendingBets() ([]BetRecord, error) {
	return s.queryBets(`WHERE result = ?`, ResultPending)
}

// GradedBets returns settled bets (wins and losses), oldest first.
func (s *Store) GradedBets() ([]BetRecord, error) {
	return s.queryBets(`WHERE result IN (?, ?)`, ResultWin, ResultLoss)
}

func (s *Store) queryBets(where string, args ...any) ([]BetRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, logged_at, sport, matchup, market_type, target, price,
		       edge_pct, win_prob, sharp_score, tier, kelly_size, stake,
		       result, profit, clv, close_price, notes
		FROM bet_log `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bets: %w", err)
	}
	defer rows.Close()

	var out []BetRecord
	for rows.Next() {
		var b BetRecord
		var clv, close_ sql.NullFloat64
		if err := rows.Scan(&b.ID, &b.LoggedAt, &b.Sport, &b.Matchup, &b.MarketType,
			&b.Target, &b.Price, &b.EdgePct, &b.WinProb, &b.SharpScore, &b.Tier,
			&b.KellySize, &b.Stake, &b.Result, &b.Profit, &clv, &close_, &b.Notes); err != nil {
			return nil, fmt.Errorf("scanning bet: %w", err)
		}
		b.CLV = clv.Float64
		b.ClosePrice = close_.Float64
		out = append(out, b)
	}
	return out, rows.Err()
}

// PnL summarizes settled results. Money fields are computed with
// decimal arithmetic so unit sums don't drift.
type PnL struct {
	Bets      int     `json:"bets"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	Staked    float64 `json:"staked"`
	Profit    float64 `json:"profit"`
	ROI       float64 `json:"roi"`
	WinRate   float64 `json:"win_rate"`
	AvgCLV    float64 `json:"avg_clv"`
	CLVGraded int     `json:"clv_graded"`
}

// PnLSummary aggregates all settled bets.
func (s *Store) PnLSummary() (*PnL, error) {
	bets, err := s.GradedBets()
	if err != nil {
		return nil, err
	}

	p := &PnL{}
	staked := decimal.Zero
	profit := decimal.Zero
	clvSum := decimal.Zero
	for _, b := range bets {
		p.Bets++
		if b.Result == ResultWin {
			p.Wins++
		} else {
			p.Losses++
		}
		staked = staked.Add(decimal.NewFromFloat(b.Stake))
		profit = profit.Add(decimal.NewFromFloat(b.Profit))
		if b.ClosePrice != 0 {
			p.CLVGraded++
			clvSum = clvSum.Add(decimal.NewFromFloat(b.CLV))
		}
	}

	p.Staked, _ = staked.Float64()
	p.Profit, _ = profit.Round(4).Float64()
	if !staked.IsZero() {
		p.ROI, _ = profit.Div(staked).Round(4).Float64()
	}
	if p.Bets > 0 {
		p.WinRate = float64(p.Wins) / float64(p.Bets)
	}
	if p.CLVGraded > 0 {
		p.AvgCLV, _ = clvSum.Div(decimal.NewFromInt(int64(p.CLVGraded))).Round(4).Float64()
	}
	return p, nil
}
