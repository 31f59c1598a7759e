// Package metrics exposes the Prometheus instruments of the analyzer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "patchmeta"

// Metrics owns its registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	SnapshotFetches  *prometheus.CounterVec
	FetchDuration    prometheus.Histogram
	TierCache        *prometheus.CounterVec
	BackfillPatches  *prometheus.CounterVec
	StoreErrors      *prometheus.CounterVec
	LastFetchSuccess prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SnapshotFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_fetches_total",
			Help:      "Remote snapshot fetches by result (success, error).",
		}, []string{"result"}),
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_fetch_duration_seconds",
			Help:      "Time spent assembling a snapshot from remote sources.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		TierCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tier_cache_lookups_total",
			Help:      "Tier list memo lookups by result (hit, miss).",
		}, []string{"result"}),
		BackfillPatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backfill_patches_total",
			Help:      "Patches handled by history backfill by result (fetched, failed, skipped).",
		}, []string{"result"}),
		StoreErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Snapshot store failures by operation.",
		}, []string{"op"}),
		LastFetchSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_fetch_success_timestamp_seconds",
			Help:      "Unix time of the last successful snapshot fetch.",
		}),
	}
}

// ObserveFetch records one snapshot fetch that started at start.
func (m *Metrics) ObserveFetch(start time.Time, err error) {
	m.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.SnapshotFetches.WithLabelValues("error").Inc()
		return
	}
	m.SnapshotFetches.WithLabelValues("success").Inc()
	m.LastFetchSuccess.SetToCurrentTime()
}

// ObserveTierCache records a tier list memo lookup.
func (m *Metrics) ObserveTierCache(hit bool) {
	if hit {
		m.TierCache.WithLabelValues("hit").Inc()
		return
	}
	m.TierCache.WithLabelValues("miss").Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
