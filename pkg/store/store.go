// Package store is the SQLite persistence layer: line history snapshots
// for movement and RLM seeding, and the bet ledger with CLV grading and
// calibration reporting.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS line_history (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id       TEXT NOT NULL,
	sport          TEXT NOT NULL,
	matchup        TEXT NOT NULL,
	market_type    TEXT NOT NULL,
	team           TEXT NOT NULL,
	open_line      REAL,
	current_line   REAL,
	open_price     REAL NOT NULL,
	current_price  REAL NOT NULL,
	movement_delta REAL NOT NULL DEFAULT 0,
	price_delta    REAL NOT NULL DEFAULT 0,
	n_snapshots    INTEGER NOT NULL DEFAULT 1,
	first_seen     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_seen      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	commence_time  TIMESTAMP,
	UNIQUE(event_id, market_type, team)
);

CREATE TABLE IF NOT EXISTS bet_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	logged_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	sport       TEXT NOT NULL,
	matchup     TEXT NOT NULL,
	market_type TEXT NOT NULL,
	target      TEXT NOT NULL,
	price       REAL NOT NULL,
	edge_pct    REAL NOT NULL,
	win_prob    REAL NOT NULL,
	sharp_score REAL NOT NULL DEFAULT 0,
	tier        TEXT NOT NULL DEFAULT '',
	kelly_size  REAL NOT NULL,
	stake       REAL NOT NULL,
	result      TEXT NOT NULL DEFAULT 'pending',
	profit      REAL NOT NULL DEFAULT 0,
	clv         REAL,
	close_price REAL,
	notes       TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_line_history_event ON line_history(event_id);
CREATE INDEX IF NOT EXISTS idx_bet_log_result ON bet_log(result);
`

// Store wraps the SQLite handle. Safe for concurrent use; SQLite
// serializes writers and WAL keeps readers unblocked.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open creates or opens the database at path with WAL mode and runs the
// schema migration. Parent directories are created as needed.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db, log: logger.With().Str("component", "store").Logger()}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
