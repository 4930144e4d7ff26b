// sharplined is the line-scanning daemon. It polls multi-book odds,
// persists line history, assembles scored bet candidates, and serves
// status, metrics, and a websocket feed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sharpline/sharpline/pkg/config"
	"github.com/sharpline/sharpline/pkg/engine"
	"github.com/sharpline/sharpline/pkg/feeds"
	"github.com/sharpline/sharpline/pkg/metrics"
	"github.com/sharpline/sharpline/pkg/oddsapi"
	"github.com/sharpline/sharpline/pkg/parlay"
	"github.com/sharpline/sharpline/pkg/poller"
	"github.com/sharpline/sharpline/pkg/store"
	"github.com/sharpline/sharpline/pkg/stream"
)

var (
	// Flags
	configPath = flag.String("config", "", "Path to YAML config (optional)")
	listenAddr = flag.String("listen", "", "HTTP listen address (overrides config)")
	dbPath     = flag.String("db", "", "SQLite database path (overrides config)")
	interval   = flag.Duration("interval", 0, "Poll interval (overrides config)")
	sportsFlag = flag.String("sports", "", "Comma-separated leagues (overrides config)")
	tennis     = flag.Bool("tennis", false, "Also scan active tennis tournaments")
	verbose    = flag.Bool("verbose", false, "Debug logging")
)

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	applyFlagOverrides(&cfg)
	if cfg.APIKey == "" {
		log.Fatal().Msg("no API key: set ODDS_API_KEY or api_key in config")
	}

	d, err := newDaemon(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initializing")
	}
	defer d.store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go d.hub.Run(ctx)
	go d.poller.Run(ctx)
	go d.serveHTTP(ctx, log)

	log.Info().
		Str("listen", cfg.ListenAddr).
		Strs("sports", cfg.Sports).
		Dur("interval", cfg.PollInterval).
		Msg("sharplined running")

	<-sigCh
	log.Info().Msg("shutting down")
	cancel()
}

func applyFlagOverrides(cfg *config.Config) {
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *interval > 0 {
		cfg.PollInterval = *interval
	}
	if *sportsFlag != "" {
		cfg.Sports = strings.Split(*sportsFlag, ",")
		for i := range cfg.Sports {
			cfg.Sports[i] = strings.TrimSpace(cfg.Sports[i])
		}
	}
}

type daemon struct {
	cfg     config.Config
	store   *store.Store
	client  *oddsapi.Client
	asm     *engine.Assembler
	hub     *stream.Hub
	metrics *metrics.Metrics
	poller  *poller.Poller
}

func newDaemon(cfg config.Config, log zerolog.Logger) (*daemon, error) {
	d := &daemon{
		cfg:     cfg,
		hub:     stream.NewHub(log),
		metrics: metrics.Default(),
	}

	var err error
	d.store, err = store.Open(cfg.DBPath, log)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	d.client, err = oddsapi.NewClient(&oddsapi.Config{APIKey: cfg.APIKey}, log)
	if err != nil {
		return nil, fmt.Errorf("building odds client: %w", err)
	}

	rlm := engine.NewRLMDetector()
	opens, err := d.store.OpenPrices()
	if err != nil {
		return nil, fmt.Errorf("loading opening prices: %w", err)
	}
	if n := rlm.Seed(opens); n > 0 {
		log.Info().Int("events", n).Msg("seeded opening-price cache from line history")
	}

	d.asm = engine.NewAssembler(&engine.Config{
		MinEdge:  cfg.MinEdge,
		MinBooks: cfg.MinBooks,
	}, rlm)

	d.poller = poller.New(
		d.client, d.asm, d.store, d.hub, d.metrics,
		feeds.NewWindClient(log), feeds.NewGoalieClient(log),
		poller.Options{
			Interval:          cfg.PollInterval,
			Sports:            cfg.Sports,
			IncludeTennis:     *tennis,
			LowQuotaThreshold: cfg.LowQuotaThreshold,
		}, log)

	return d, nil
}

func (d *daemon) serveHTTP(ctx context.Context, log zerolog.Logger) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, d.poller.Status())
	})

	mux.HandleFunc("/board", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, d.poller.Board())
	})

	mux.HandleFunc("/parlays", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, parlay.Build(d.poller.Board()))
	})

	mux.HandleFunc("/movements", func(w http.ResponseWriter, r *http.Request) {
		moves, err := d.store.Movements()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, moves)
	})

	mux.HandleFunc("/pnl", func(w http.ResponseWriter, r *http.Request) {
		pnl, err := d.store.PnLSummary()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, pnl)
	})

	mux.HandleFunc("/calibration", func(w http.ResponseWriter, r *http.Request) {
		report, err := d.store.Calibration()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, report)
	})

	mux.HandleFunc("/ws", d.hub.ServeWS)
	mux.Handle("/metrics", d.metrics.Handler())

	srv := &http.Server{Addr: d.cfg.ListenAddr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
