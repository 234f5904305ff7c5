// Package metrics provides Prometheus metrics for the feed cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds counters describing feed cache behavior. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// Registry is the Prometheus registry for this metrics instance
	Registry *prometheus.Registry

	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CacheEvictions *prometheus.CounterVec
	FetchFailures  prometheus.Counter
}

// New creates and registers all feed cache metrics with a new registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "traintrack_feed_cache_hits_total",
		Help: "Feed requests served from cache",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "traintrack_feed_cache_misses_total",
		Help: "Feed requests that required a network fetch",
	})

	cacheEvictions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traintrack_feed_cache_evictions_total",
			Help: "Cache entries evicted, by reason",
		},
		[]string{"reason"},
	)

	fetchFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "traintrack_feed_fetch_failures_total",
		Help: "Feed fetches that failed",
	})

	registry.MustRegister(cacheHits, cacheMisses, cacheEvictions, fetchFailures)

	return &Metrics{
		Registry:       registry,
		CacheHits:      cacheHits,
		CacheMisses:    cacheMisses,
		CacheEvictions: cacheEvictions,
		FetchFailures:  fetchFailures,
	}
}

func (m *Metrics) Hit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) Miss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

func (m *Metrics) Evicted(reason string) {
	if m != nil {
		m.CacheEvictions.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) FetchFailed() {
	if m != nil {
		m.FetchFailures.Inc()
	}
}
