// Package poller drives the scan loop: fetch odds per league, persist
// line snapshots, assemble and rank candidates, and push the results
// to metrics and websocket subscribers.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sharpline/sharpline/pkg/engine"
	"github.com/sharpline/sharpline/pkg/feeds"
	"github.com/sharpline/sharpline/pkg/market"
	"github.com/sharpline/sharpline/pkg/metrics"
	"github.com/sharpline/sharpline/pkg/oddsapi"
	"github.com/sharpline/sharpline/pkg/store"
	"github.com/sharpline/sharpline/pkg/stream"
)

// DefaultInterval between scans.
const DefaultInterval = 5 * time.Minute

// Fetcher is the odds feed surface the poller needs. *oddsapi.Client
// satisfies it.
type Fetcher interface {
	FetchGameLines(ctx context.Context, sport market.Sport) ([]market.Game, error)
	FetchByKey(ctx context.Context, sportKey, markets string) ([]market.Game, error)
	TennisSportKeys(ctx context.Context) ([]string, error)
	Quota() oddsapi.Quota
	QuotaLow(threshold float64) bool
}

// LineStore is the persistence surface. *store.Store satisfies it.
type LineStore interface {
	SnapshotGame(g market.Game, sport string) error
	Movements() ([]store.LineRecord, error)
}

// WindSource resolves home-stadium wind for NFL games.
type WindSource interface {
	StadiumWind(ctx context.Context, homeTeam string) float64
}

// GoalieSource resolves NHL starting goalies.
type GoalieSource interface {
	Report(ctx context.Context, awayTeam, homeTeam string) *feeds.GoalieReport
}

// Broadcaster pushes events to subscribers. *stream.Hub satisfies it.
type Broadcaster interface {
	Broadcast(eventType string, payload interface{})
}

// Options configure the loop.
type Options struct {
	Interval time.Duration
	// Sports are league names as accepted by market.ParseSport.
	Sports []string
	// IncludeTennis adds the rotating tennis tournament keys to each
	// scan.
	IncludeTennis bool
	// LowQuotaThreshold aborts a scan when API quota drops this low.
	// 0 disables the check.
	LowQuotaThreshold float64
}

// Status is a snapshot of loop health.
type Status struct {
	Running        time.Time `json:"running_since"`
	LastScan       time.Time `json:"last_scan"`
	NextScan       time.Time `json:"next_scan"`
	Scans          int       `json:"scans"`
	Errors         int       `json:"errors"`
	LastCandidates int       `json:"last_candidates"`
	QuotaRemaining float64   `json:"quota_remaining"`
}

// Poller owns the scan loop.
type Poller struct {
	fetcher   Fetcher
	store     LineStore
	assembler *engine.Assembler
	hub       Broadcaster
	metrics   *metrics.Metrics
	wind      WindSource
	goalies   GoalieSource
	opts      Options
	log       zerolog.Logger

	mu            sync.Mutex
	status        Status
	lastBoard     []engine.BetCandidate
	lastFireCount int
}

// New wires a poller. store, hub, wind, and goalies may be nil; the
// corresponding step is skipped.
func New(fetcher Fetcher, assembler *engine.Assembler, st LineStore, hub Broadcaster,
	m *metrics.Metrics, wind WindSource, goalies GoalieSource, opts Options, logger zerolog.Logger) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if m == nil {
		m = metrics.Default()
	}
	return &Poller{
		fetcher:   fetcher,
		store:     st,
		assembler: assembler,
		hub:       hub,
		metrics:   m,
		wind:      wind,
		goalies:   goalies,
		opts:      opts,
		log:       logger.With().Str("component", "poller").Logger(),
	}
}

// Run scans immediately, then on every tick until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.mu.Lock()
	p.status.Running = time.Now().UTC()
	p.mu.Unlock()

	p.Scan(ctx)

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.Scan(ctx)
		case <-ctx.Done():
			p.log.Info().Msg("scan loop stopped")
			return
		}
	}
}

// Status returns a snapshot of loop health.
func (p *Poller) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.status
	s.QuotaRemaining = p.fetcher.Quota().Remaining
	return s
}

// Board returns the ranked candidates from the most recent scan.
func (p *Poller) Board() []engine.BetCandidate {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]engine.BetCandidate, len(p.lastBoard))
	copy(out, p.lastBoard)
	return out
}

// Scan runs one full cycle and returns the ranked board.
func (p *Poller) Scan(ctx context.Context) []engine.BetCandidate {
	start := time.Now()
	var board []engine.BetCandidate
	errs := 0

	for _, name := range p.opts.Sports {
		sport, ok := market.ParseSport(name)
		if !ok {
			p.log.Warn().Str("sport", name).Msg("unknown sport in config, skipping")
			continue
		}
		if p.quotaLow() {
			p.log.Warn().Msg("quota low, aborting scan early")
			break
		}

		games, err := p.fetcher.FetchGameLines(ctx, sport)
		if err != nil {
			errs++
			p.metrics.RecordError("fetch")
			p.log.Error().Err(err).Str("sport", sport.String()).Msg("fetch failed")
			continue
		}
		board = append(board, p.processSlate(ctx, sport, games, "", &errs)...)
	}

	if p.opts.IncludeTennis && !p.quotaLow() {
		board = append(board, p.scanTennis(ctx, &errs)...)
	}

	ranked := engine.RankBets(board)
	p.mu.Lock()
	p.lastBoard = ranked
	p.mu.Unlock()
	p.publish(ranked)
	p.finishScan(start, len(ranked), errs)
	return ranked
}

// processSlate snapshots, seeds RLM, and assembles one league's games.
// surface is non-empty only for tennis slates.
func (p *Poller) processSlate(ctx context.Context, sport market.Sport, games []market.Game, surface string, errs *int) []engine.BetCandidate {
	var restDays map[string]int
	if sport == market.SportNBA || sport == market.SportNCAAB || sport == market.SportNHL {
		restDays = oddsapi.RestDaysFromSchedule(games)
	}

	var out []engine.BetCandidate
	for _, g := range games {
		if p.store != nil {
			if err := p.store.SnapshotGame(g, sport.String()); err != nil {
				*errs++
				p.metrics.RecordError("store")
				p.log.Error().Err(err).Str("event", g.ID).Msg("snapshot failed")
			}
		}
		p.assembler.RLM().RecordGame(g)

		gctx := engine.GameContext{
			EfficiencyGap: feeds.EfficiencyGap(g.HomeTeam, g.AwayTeam),
			RestDays:      restDays,
			TennisSurface: surface,
		}
		if sport == market.SportNFL && p.wind != nil {
			gctx.WindMPH = p.wind.StadiumWind(ctx, g.HomeTeam)
		}
		if sport == market.SportNHL && p.goalies != nil {
			if r := p.goalies.Report(ctx, g.AwayTeam, g.HomeTeam); r != nil {
				gctx.Goalies = &engine.GoalieStatus{
					AwayConfirmed: r.Away.StarterConfirmed,
					HomeConfirmed: r.Home.StarterConfirmed,
					AwayStarter:   r.Away.StarterName,
					HomeStarter:   r.Home.StarterName,
				}
			}
		}

		out = append(out, p.assembler.Assemble(g, sport, gctx)...)
	}
	return out
}

// scanTennis discovers the active tournament keys and scans each.
func (p *Poller) scanTennis(ctx context.Context, errs *int) []engine.BetCandidate {
	keys, err := p.fetcher.TennisSportKeys(ctx)
	if err != nil {
		*errs++
		p.metrics.RecordError("fetch")
		p.log.Error().Err(err).Msg("tennis key discovery failed")
		return nil
	}

	var out []engine.BetCandidate
	for _, key := range keys {
		if p.quotaLow() {
			break
		}
		games, err := p.fetcher.FetchByKey(ctx, key, "h2h")
		if err != nil {
			*errs++
			p.metrics.RecordError("fetch")
			p.log.Error().Err(err).Str("sport", key).Msg("fetch failed")
			continue
		}
		surface := feeds.SurfaceFromSportKey(key)
		out = append(out, p.processSlate(ctx, market.SportTennis, games, surface, errs)...)
	}
	return out
}

// publish pushes the ranked board to metrics and subscribers.
func (p *Poller) publish(ranked []engine.BetCandidate) {
	for _, c := range ranked {
		p.metrics.RecordCandidate(c.SportName, c.Tier)
		if c.Killed() {
			p.metrics.RecordKill(c.SportName)
			continue
		}
		if p.hub != nil {
			p.hub.Broadcast(stream.EventCandidate, c)
		}
	}

	rlm := p.assembler.RLM()
	p.mu.Lock()
	fires := rlm.FireCount()
	for i := p.lastFireCount; i < fires; i++ {
		p.metrics.RecordRLMFire()
	}
	p.lastFireCount = fires
	p.mu.Unlock()
	p.metrics.SetOpenPriceCacheSize(rlm.CacheSize())

	if p.store != nil && p.hub != nil {
		moves, err := p.store.Movements()
		if err != nil {
			p.metrics.RecordError("store")
			p.log.Error().Err(err).Msg("movement query failed")
			return
		}
		for _, mv := range moves {
			p.hub.Broadcast(stream.EventMovement, mv)
		}
	}
}

func (p *Poller) finishScan(start time.Time, candidates, errs int) {
	elapsed := time.Since(start)
	p.metrics.RecordScan(elapsed.Seconds())
	p.metrics.SetQuotaRemaining(p.fetcher.Quota().Remaining)

	p.mu.Lock()
	p.status.LastScan = start.UTC()
	p.status.NextScan = start.Add(p.opts.Interval).UTC()
	p.status.Scans++
	p.status.Errors += errs
	p.status.LastCandidates = candidates
	st := p.status
	p.mu.Unlock()

	if p.hub != nil {
		p.hub.Broadcast(stream.EventStatus, st)
	}
	p.log.Info().
		Int("candidates", candidates).
		Int("errors", errs).
		Dur("elapsed", elapsed).
		Msg("scan complete")
}

func (p *Poller) quotaLow() bool {
	return p.opts.LowQuotaThreshold > 0 && p.fetcher.QuotaLow(p.opts.LowQuotaThreshold)
}
