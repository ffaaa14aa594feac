package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Skip reasons.
const (
	SkipMalformed = "malformed"
	SkipLoop      = "loop"
)

// Collector holds the Prometheus metrics for the enhancement pipeline and the
// read API. A nil *Collector records nothing.
type Collector struct {
	registry *prometheus.Registry

	Outcomes     *prometheus.CounterVec
	Skipped      *prometheus.CounterVec
	ItemDuration prometheus.Histogram
	Indexed      *prometheus.CounterVec
	CacheHits    prometheus.Counter
	CacheMisses  prometheus.Counter
}

// NewCollector creates a collector registered on its own registry.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	outcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Processed notifications by outcome status",
		},
		[]string{"status"},
	)

	skipped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_total",
			Help:      "Notifications skipped before processing",
		},
		[]string{"reason"},
	)

	itemDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "item_duration_seconds",
			Help:      "Time spent enhancing one notification",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	indexed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indexed_total",
			Help:      "Metadata records written by the indexer",
		},
		[]string{"result"},
	)

	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Outcome cache hits",
		},
	)

	cacheMisses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Outcome cache misses",
		},
	)

	registry.MustRegister(
		outcomes,
		skipped,
		itemDuration,
		indexed,
		cacheHits,
		cacheMisses,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		registry:     registry,
		Outcomes:     outcomes,
		Skipped:      skipped,
		ItemDuration: itemDuration,
		Indexed:      indexed,
		CacheHits:    cacheHits,
		CacheMisses:  cacheMisses,
	}
}

// ObserveOutcome counts one outcome and its processing time.
func (c *Collector) ObserveOutcome(status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Outcomes.WithLabelValues(status).Inc()
	c.ItemDuration.Observe(elapsed.Seconds())
}

// ObserveSkip counts one skipped notification.
func (c *Collector) ObserveSkip(reason string) {
	if c == nil {
		return
	}
	c.Skipped.WithLabelValues(reason).Inc()
}

// ObserveIndexed counts one indexer write attempt.
func (c *Collector) ObserveIndexed(ok bool) {
	if c == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	c.Indexed.WithLabelValues(result).Inc()
}

// ObserveCache counts a cache lookup.
func (c *Collector) ObserveCache(hit bool) {
	if c == nil {
		return
	}
	if hit {
		c.CacheHits.Inc()
		return
	}
	c.CacheMisses.Inc()
}

// Registry returns the Prometheus registry for this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
