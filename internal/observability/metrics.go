package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hotspots"

// Facet cache lookup results.
const (
	FacetMemoryHit = "memory_hit"
	FacetRedisHit  = "redis_hit"
	FacetMiss      = "miss"
)

// Metrics holds the Prometheus collectors of the hotspot explorer. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	QueryDuration *prometheus.HistogramVec // labels: operation={aggregate,summary,detail,count,facet,schema}
	QueryErrors   *prometheus.CounterVec   // labels: operation
	FacetCache    *prometheus.CounterVec   // labels: result={memory_hit,redis_hit,miss}
	RankedRows    prometheus.Histogram

	RadiusRejected  prometheus.Counter
	RefreshesServed prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Record store query duration by operation.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		QueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_errors_total",
			Help:      "Failed record store queries by operation.",
		}, []string{"operation"}),
		FacetCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "facet_cache_total",
			Help:      "Facet cache lookups by result.",
		}, []string{"result"}),
		RankedRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ranked_rows",
			Help:      "Rows returned per ranking request.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200},
		}),
		RadiusRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "radius_not_confirmed_total",
			Help:      "Ranking requests refused because the radius was not confirmed.",
		}),
		RefreshesServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "facet_refreshes_total",
			Help:      "Facet lists reloaded through an explicit refresh.",
		}),
	}
}

// NewMetrics creates the metrics and registers them with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.QueryDuration,
		m.QueryErrors,
		m.FacetCache,
		m.RankedRows,
		m.RadiusRejected,
		m.RefreshesServed,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics so tests can build as
// many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// ObserveQuery records the duration and outcome of one store query.
func (m *Metrics) ObserveQuery(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.QueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		m.QueryErrors.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) FacetLookup(result string) {
	if m == nil {
		return
	}
	m.FacetCache.WithLabelValues(result).Inc()
}

func (m *Metrics) Ranked(rows int) {
	if m == nil {
		return
	}
	m.RankedRows.Observe(float64(rows))
}

func (m *Metrics) RadiusRejection() {
	if m == nil {
		return
	}
	m.RadiusRejected.Inc()
}

func (m *Metrics) FacetRefreshed() {
	if m == nil {
		return
	}
	m.RefreshesServed.Inc()
}
