package infrastructure

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// prometheusCollectors holds the process-wide metric vectors. promauto
// registers on the default registry, so creation must happen exactly once.
type prometheusCollectors struct {
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	CacheHitRatio    prometheus.Gauge
	UpstreamRequests *prometheus.CounterVec
}

var (
	collectors     *prometheusCollectors
	collectorsOnce sync.Once
)

func getCollectors() *prometheusCollectors {
	collectorsOnce.Do(func() {
		collectors = &prometheusCollectors{
			CacheHits: promauto.NewCounter(prometheus.CounterOpts{
				Name: "forecast_cache_hits_total",
				Help: "The total number of forecast cache hits",
			}),
			CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
				Name: "forecast_cache_misses_total",
				Help: "The total number of forecast cache misses",
			}),
			CacheHitRatio: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "forecast_cache_hit_ratio",
				Help: "Forecast cache hit ratio (hits/total requests)",
			}),
			UpstreamRequests: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "forecast_upstream_requests_total",
				Help: "Upstream forecast requests by provider and outcome",
			}, []string{"provider", "outcome"}),
		}
	})
	return collectors
}

// PrometheusMetricsCollector implements the MetricsCollector port
type PrometheusMetricsCollector struct {
	collectors *prometheusCollectors
	mu         sync.Mutex
	hits       int64
	misses     int64
}

// NewPrometheusMetricsCollector creates the process-wide metrics collector
func NewPrometheusMetricsCollector() *PrometheusMetricsCollector {
	return &PrometheusMetricsCollector{
		collectors: getCollectors(),
	}
}

// RecordCacheHit increments hit counters and refreshes the hit ratio gauge
func (m *PrometheusMetricsCollector) RecordCacheHit(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hits++
	m.collectors.CacheHits.Inc()
	m.updateHitRatio()
}

// RecordCacheMiss increments miss counters and refreshes the hit ratio gauge
func (m *PrometheusMetricsCollector) RecordCacheMiss(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.misses++
	m.collectors.CacheMisses.Inc()
	m.updateHitRatio()
}

// RecordUpstreamCall counts an upstream request by outcome
func (m *PrometheusMetricsCollector) RecordUpstreamCall(ctx context.Context, provider string, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.collectors.UpstreamRequests.WithLabelValues(provider, outcome).Inc()
}

// updateHitRatio must be called while holding the mutex
func (m *PrometheusMetricsCollector) updateHitRatio() {
	total := m.hits + m.misses
	if total > 0 {
		m.collectors.CacheHitRatio.Set(float64(m.hits) / float64(total))
	}
}
