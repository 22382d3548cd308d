// Package prom exports diskcache metrics to Prometheus.
//
// The adapter implements diskcache.Metrics and registers its collectors on
// construction:
//
//	reg := prometheus.NewRegistry()
//	cache, err := diskcache.New(ctx, cfg,
//		diskcache.WithMetrics(prom.New(reg, "myapp", "cache", nil)),
//	)
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jmgilman/go/diskcache"
)

// Adapter bridges diskcache metrics events to Prometheus collectors.
type Adapter struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions *prometheus.CounterVec
	entries   prometheus.Gauge
	sizeBytes prometheus.Gauge
}

// New creates an adapter and registers its collectors with reg. A nil reg
// uses the default registerer. Namespace, subsystem, and constLabels are
// applied to every collector; registration panics on conflicts, matching
// prometheus.MustRegister.
func New(reg prometheus.Registerer, namespace, subsystem string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "hits_total",
			Help:        "Number of cache gets that returned a live value.",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "misses_total",
			Help:        "Number of cache gets for absent or expired keys.",
			ConstLabels: constLabels,
		}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "evictions_total",
			Help:        "Number of cache entries removed, by reason.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "entries",
			Help:        "Current number of cached entries.",
			ConstLabels: constLabels,
		}),
		sizeBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "size_bytes",
			Help:        "Current total serialized size of cached entries.",
			ConstLabels: constLabels,
		}),
	}

	reg.MustRegister(a.hits, a.misses, a.evictions, a.entries, a.sizeBytes)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() {
	a.hits.Inc()
}

// Miss increments the miss counter.
func (a *Adapter) Miss() {
	a.misses.Inc()
}

// Evict increments the eviction counter labeled with the reason.
func (a *Adapter) Evict(reason diskcache.EvictReason) {
	a.evictions.WithLabelValues(reason.String()).Inc()
}

// Size sets the entry count and size gauges.
func (a *Adapter) Size(entries int, bytes int64) {
	a.entries.Set(float64(entries))
	a.sizeBytes.Set(float64(bytes))
}

var _ diskcache.Metrics = (*Adapter)(nil)
