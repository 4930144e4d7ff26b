// Package metrics exposes Prometheus instrumentation for the scan
// loop, the candidate pipeline, and the odds feed quota.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector on a private registry so tests can
// build isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	scans        prometheus.Counter
	scanDuration prometheus.Histogram
	candidates   *prometheus.CounterVec
	kills        *prometheus.CounterVec
	rlmFires     prometheus.Counter
	errors       *prometheus.CounterVec

	quotaRemaining prometheus.Gauge
	openPriceCache prometheus.Gauge
	wsClients      prometheus.Gauge
}

// New builds a Metrics instance with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sharpline_scans_total",
			Help: "Completed scan cycles.",
		}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sharpline_scan_duration_seconds",
			Help:    "Wall time per scan cycle.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sharpline_candidates_total",
			Help: "Bet candidates produced, by sport and stake tier.",
		}, []string{"sport", "tier"}),
		kills: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sharpline_kills_total",
			Help: "Candidates killed by situational rules, by sport.",
		}, []string{"sport"}),
		rlmFires: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sharpline_rlm_fires_total",
			Help: "Reverse line movement confirmations.",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sharpline_errors_total",
			Help: "Pipeline errors, by stage.",
		}, []string{"stage"}),
		quotaRemaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sharpline_api_quota_remaining",
			Help: "Odds API requests remaining on the current plan.",
		}),
		openPriceCache: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sharpline_open_price_cache_size",
			Help: "Events tracked in the opening-price cache.",
		}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sharpline_ws_clients",
			Help: "Connected websocket subscribers.",
		}),
	}
	m.registerAll()
	return m
}

func (m *Metrics) registerAll() {
	m.registry.MustRegister(
		m.scans,
		m.scanDuration,
		m.candidates,
		m.kills,
		m.rlmFires,
		m.errors,
		m.quotaRemaining,
		m.openPriceCache,
		m.wsClients,
	)
}

var (
	defaultOnce sync.Once
	defaultInst *Metrics
)

// Default returns the process-wide instance.
func Default() *Metrics {
	defaultOnce.Do(func() { defaultInst = New() })
	return defaultInst
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordScan counts one completed cycle and its duration.
func (m *Metrics) RecordScan(seconds float64) {
	m.scans.Inc()
	m.scanDuration.Observe(seconds)
}

// RecordCandidate counts one produced candidate.
func (m *Metrics) RecordCandidate(sport, tier string) {
	m.candidates.WithLabelValues(sport, tier).Inc()
}

// RecordKill counts one candidate killed by a situational rule.
func (m *Metrics) RecordKill(sport string) {
	m.kills.WithLabelValues(sport).Inc()
}

// RecordRLMFire counts one reverse line movement confirmation.
func (m *Metrics) RecordRLMFire() {
	m.rlmFires.Inc()
}

// RecordError counts one pipeline error for a stage.
func (m *Metrics) RecordError(stage string) {
	m.errors.WithLabelValues(stage).Inc()
}

// SetQuotaRemaining publishes the latest API quota headroom.
func (m *Metrics) SetQuotaRemaining(v float64) {
	m.quotaRemaining.Set(v)
}

// SetOpenPriceCacheSize publishes the opening-price cache size.
func (m *Metrics) SetOpenPriceCacheSize(n int) {
	m.openPriceCache.Set(float64(n))
}

// SetWSClients publishes the connected subscriber count.
func (m *Metrics) SetWSClients(n int) {
	m.wsClients.Set(float64(n))
}
