package metrics

import (
	"github.com/guttosm/graph-guard/internal/cache"
	"github.com/guttosm/graph-guard/internal/circuitbreaker"
	"github.com/prometheus/client_golang/prometheus"
)

// StateValue maps a breaker state name to the exported gauge value.
func StateValue(state string) float64 {
	switch state {
	case circuitbreaker.StateClosed.String():
		return 0
	case circuitbreaker.StateOpen.String():
		return 1
	case circuitbreaker.StateHalfOpen.String():
		return 2
	default:
		return -1
	}
}

// MetricsSource yields breaker snapshots keyed by name.
type MetricsSource interface {
	AllMetrics() map[string]circuitbreaker.Metrics
}

// BreakerCollector exports registry snapshots at scrape time.
type BreakerCollector struct {
	source      MetricsSource
	state       *prometheus.Desc
	calls       *prometheus.Desc
	transitions *prometheus.Desc
}

// NewBreakerCollector creates a collector over source.
func NewBreakerCollector(source MetricsSource) *BreakerCollector {
	return &BreakerCollector{
		source: source,
		state: prometheus.NewDesc(
			"circuit_breaker_state",
			"Circuit breaker state (0=closed, 1=open, 2=half_open)",
			[]string{"breaker"}, nil,
		),
		calls: prometheus.NewDesc(
			"circuit_breaker_calls_total",
			"Circuit breaker calls by outcome",
			[]string{"breaker", "status"}, nil,
		),
		transitions: prometheus.NewDesc(
			"circuit_breaker_transitions_total",
			"Circuit breaker state transitions",
			[]string{"breaker", "transition"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *BreakerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.state
	ch <- c.calls
	ch <- c.transitions
}

// Collect implements prometheus.Collector.
func (c *BreakerCollector) Collect(ch chan<- prometheus.Metric) {
	for name, m := range c.source.AllMetrics() {
		ch <- prometheus.MustNewConstMetric(c.state, prometheus.GaugeValue, StateValue(m.State), name)
		ch <- prometheus.MustNewConstMetric(c.calls, prometheus.CounterValue, float64(m.SuccessfulCalls), name, "success")
		ch <- prometheus.MustNewConstMetric(c.calls, prometheus.CounterValue, float64(m.FailedCalls), name, "failed")
		ch <- prometheus.MustNewConstMetric(c.calls, prometheus.CounterValue, float64(m.RejectedCalls), name, "rejected")
		for transition, n := range m.StateTransitions {
			ch <- prometheus.MustNewConstMetric(c.transitions, prometheus.CounterValue, float64(n), name, transition)
		}
	}
}

// StatsSource yields cache statistics.
type StatsSource interface {
	Stats() cache.Stats
}

// CacheCollector exports cache statistics at scrape time.
type CacheCollector struct {
	source      StatsSource
	size        *prometheus.Desc
	capacity    *prometheus.Desc
	utilization *prometheus.Desc
	hits        *prometheus.Desc
	misses      *prometheus.Desc
	evictions   *prometheus.Desc
	hitRate     *prometheus.Desc
}

// NewCacheCollector creates a collector for the cache named name.
func NewCacheCollector(name string, source StatsSource) *CacheCollector {
	labels := prometheus.Labels{"cache": name}
	return &CacheCollector{
		source:      source,
		size:        prometheus.NewDesc("cache_size", "Current cache size", nil, labels),
		capacity:    prometheus.NewDesc("cache_capacity", "Cache capacity", nil, labels),
		utilization: prometheus.NewDesc("cache_utilization_ratio", "Cache size divided by capacity", nil, labels),
		hits:        prometheus.NewDesc("cache_hits_total", "Cache hits", nil, labels),
		misses:      prometheus.NewDesc("cache_misses_total", "Cache misses", nil, labels),
		evictions:   prometheus.NewDesc("cache_evictions_total", "Cache LRU evictions", nil, labels),
		hitRate:     prometheus.NewDesc("cache_hit_rate", "Cache hit rate", nil, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.capacity
	ch <- c.utilization
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.hitRate
}

// Collect implements prometheus.Collector.
func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(s.Size))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.MaxSize))
	ch <- prometheus.MustNewConstMetric(c.utilization, prometheus.GaugeValue, s.Utilization)
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Metrics.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Metrics.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Metrics.Evictions))
	ch <- prometheus.MustNewConstMetric(c.hitRate, prometheus.GaugeValue, s.HitRate)
}
