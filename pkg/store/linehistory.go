package store

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/sharpline/sharpline/pkg/market"
)

// MovementThreshold is the spread/total line move (in points) that
// counts as significant. Moneylines have no line, so they qualify on a
// 20-cent price move instead.
const (
	MovementThreshold      = 3.0
	PriceMovementThreshold = 20.0
)

// marketTypes maps API market keys to the names used in storage.
var marketTypes = map[string]string{
	market.KeySpreads: "spread",
	market.KeyH2H:     "moneyline",
	market.KeyTotals:  "total",
}

// LineRecord is one tracked (event, market, team) row.
type LineRecord struct {
	EventID       string    `json:"event_id"`
	Sport         string    `json:"sport"`
	Matchup       string    `json:"matchup"`
	MarketType    string    `json:"market_type"`
	Team          string    `json:"team"`
	OpenLine      float64   `json:"open_line"`
	CurrentLine   float64   `json:"current_line"`
	OpenPrice     float64   `json:"open_price"`
	CurrentPrice  float64   `json:"current_price"`
	MovementDelta float64   `json:"movement_delta"`
	PriceDelta    float64   `json:"price_delta"`
	Snapshots     int       `json:"n_snapshots"`
	CommenceTime  time.Time `json:"commence_time"`
}

// SnapshotGame records the best quoted price and line per (market, team)
// for one game. First sight of a row pins its opening number; later
// snapshots update the current side and the deltas.
func (s *Store) SnapshotGame(g market.Game, sport string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning snapshot tx: %w", err)
	}
	defer tx.Rollback()

	type best struct {
		price float64
		line  float64
	}
	// best price across books per (market, team)
	quotes := make(map[[2]string]best)
	for _, bk := range g.Bookmakers {
		for _, m := range bk.Markets {
			mt, ok := marketTypes[m.Key]
			if !ok {
				continue
			}
			for _, o := range m.Outcomes {
				k := [2]string{mt, o.Name}
				if cur, seen := quotes[k]; !seen || o.Price > cur.price {
					quotes[k] = best{price: o.Price, line: o.Point}
				}
			}
		}
	}

	for k, q := range quotes {
		if err := upsertLine(tx, g, sport, k[0], k[1], q.line, q.price); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func upsertLine(tx *sql.Tx, g market.Game, sport, marketType, team string, line, price float64) error {
	res, err := tx.Exec(`
		UPDATE line_history
		SET current_line = ?, current_price = ?,
		    movement_delta = ? - open_line,
		    price_delta = ? - open_price,
		    n_snapshots = n_snapshots + 1,
		    last_seen = CURRENT_TIMESTAMP
		WHERE event_id = ? AND market_type = ? AND team = ?`,
		line, price, line, price, g.ID, marketType, team)
	if err != nil {
		return fmt.Errorf("updating line row: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	_, err = tx.Exec(`
		INSERT INTO line_history
			(event_id, sport, matchup, market_type, team,
			 open_line, current_line, open_price, current_price, commence_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, sport, g.Matchup(), marketType, team, line, line, price, price, g.CommenceTime.UTC())
	if err != nil {
		return fmt.Errorf("inserting line row: %w", err)
	}
	return nil
}

// Movements returns rows whose line has moved at least
// MovementThreshold points, or whose moneyline price has moved at least
// PriceMovementThreshold cents.
func (s *Store) Movements() ([]LineRecord, error) {
	rows, err := s.db.Query(`
		SELECT event_id, sport, matchup, market_type, team,
		       open_line, current_line, open_price, current_price,
		       movement_delta, price_delta, n_snapshots, commence_time
		FROM line_history
		WHERE ABS(movement_delta) >= ? OR (market_type = 'moneyline' AND ABS(price_delta) >= ?)
		ORDER BY ABS(movement_delta) DESC, ABS(price_delta) DESC`,
		MovementThreshold, PriceMovementThreshold)
	if err != nil {
		return nil, fmt.Errorf("querying movements: %w", err)
	}
	defer rows.Close()
	return scanLines(rows)
}

// Lines returns every tracked row for an event.
func (s *Store) Lines(eventID string) ([]LineRecord, error) {
	rows, err := s.db.Query(`
		SELECT event_id, sport, matchup, market_type, team,
		       open_line, current_line, open_price, current_price,
		       movement_delta, price_delta, n_snapshots, commence_time
		FROM line_history
		WHERE event_id = ?
		ORDER BY market_type, team`, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying event lines: %w", err)
	}
	defer rows.Close()
	return scanLines(rows)
}

func scanLines(rows *sql.Rows) ([]LineRecord, error) {
	var out []LineRecord
	for rows.Next() {
		var r LineRecord
		var commence sql.NullTime
		if err := rows.Scan(&r.EventID, &r.Sport, &r.Matchup, &r.MarketType, &r.Team,
			&r.OpenLine, &r.CurrentLine, &r.OpenPrice, &r.CurrentPrice,
			&r.MovementDelta, &r.PriceDelta, &r.Snapshots, &commence); err != nil {
			return nil, fmt.Errorf("scanning line row: %w", err)
		}
		if commence.Valid {
			r.CommenceTime = commence.Time
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// OpenPrices returns the stored moneyline opening prices keyed by event
// then team, the shape the reverse-line-movement cache seeds from.
func (s *Store) OpenPrices() (map[string]map[string]float64, error) {
	rows, err := s.db.Query(`
		SELECT event_id, team, open_price
		FROM line_history
		WHERE market_type = 'moneyline'`)
	if err != nil {
		return nil, fmt.Errorf("querying open prices: %w", err)
	}
	defer rows.Close()

	opens := make(map[string]map[string]float64)
	for rows.Next() {
		var event, team string
		var price float64
		if err := rows.Scan(&event, &team, &price); err != nil {
			return nil, fmt.Errorf("scanning open price: %w", err)
		}
		if opens[event] == nil {
			opens[event] = make(map[string]float64)
		}
		opens[event][team] = price
	}
	return opens, rows.Err()
}

// PruneLines removes rows for events that commenced more than age ago.
func (s *Store) PruneLines(age time.Duration) (int64, error) {
	cutoff := time.Now().Add(-age).UTC()
	res, err := s.db.Exec(`DELETE FROM line_history WHERE commence_time IS NOT NULL AND commence_time < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning line history: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		s.log.Info().Int64("rows", n).Msg("pruned stale line history")
	}
	return n, nil
}

// Significant reports whether a record's movement clears the threshold
// for its market type.
func (r LineRecord) Significant() bool {
	if r.MarketType == "moneyline" {
		return math.Abs(r.PriceDelta) >= PriceMovementThreshold
	}
	return math.Abs(r.MovementDelta) >= MovementThreshold
}
