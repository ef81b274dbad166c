package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrometheusMetricsCollector_SharedCollectors(t *testing.T) {
	// promauto registers on the process-wide default registry, so repeated
	// construction must reuse the same collectors instead of re-registering
	first := NewPrometheusMetricsCollector()
	second := NewPrometheusMetricsCollector()

	assert.Same(t, first.collectors, second.collectors)
}

func TestPrometheusMetricsCollector_Record(t *testing.T) {
	collector := NewPrometheusMetricsCollector()
	ctx := context.Background()

	assert.NotPanics(t, func() {
		collector.RecordCacheHit(ctx)
		collector.RecordCacheMiss(ctx)
		collector.RecordUpstreamCall(ctx, "open-meteo", true)
		collector.RecordUpstreamCall(ctx, "open-meteo", false)
	})

	assert.Equal(t, int64(1), collector.hits)
	assert.Equal(t, int64(1), collector.misses)
}
