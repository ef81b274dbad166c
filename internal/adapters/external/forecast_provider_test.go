package external

import (
	"context"
	"sync"
	"testing"
	"time"

	"climacast.app/internal/ports"
	apperrors "climacast.app/pkg/errors"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, fields ...ports.Field) {}
func (nopLogger) Info(msg string, fields ...ports.Field)  {}
func (nopLogger) Warn(msg string, fields ...ports.Field)  {}
func (nopLogger) Error(msg string, fields ...ports.Field) {}

type countingMetrics struct {
	mu               sync.Mutex
	hits             int
	misses           int
	upstreamSuccess  int
	upstreamFailures int
}

func (m *countingMetrics) RecordCacheHit(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits++
}

func (m *countingMetrics) RecordCacheMiss(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses++
}

func (m *countingMetrics) RecordUpstreamCall(ctx context.Context, provider string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.upstreamSuccess++
	} else {
		m.upstreamFailures++
	}
}

// fakeUpstreamClient serves scripted per-call errors, then canned series
type fakeUpstreamClient struct {
	mu      sync.Mutex
	calls   int
	script  []error
	failLat float64
	failErr error
}

func (f *fakeUpstreamClient) FetchSeries(ctx context.Context, lat, lon float64, kind ports.SeriesKind, window ports.Window) (*ports.ForecastSeries, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()

	if ctx.Err() != nil {
		return nil, apperrors.NewUpstreamError("request aborted", ctx.Err())
	}
	if f.failErr != nil && lat == f.failLat {
		return nil, f.failErr
	}
	if call <= len(f.script) && f.script[call-1] != nil {
		return nil, f.script[call-1]
	}

	return &ports.ForecastSeries{
		Kind: kind,
		Hourly: []ports.HourlySample{
			{Timestamp: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC), TempC: 20},
		},
	}, nil
}

func (f *fakeUpstreamClient) ProviderName() string {
	return "fake"
}

func (f *fakeUpstreamClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func retryableStatusErr() error {
	return apperrors.NewUpstreamError("upstream returned status 429", ErrRetryableStatus)
}

type providerFixture struct {
	provider *CachedForecastProvider
	client   *fakeUpstreamClient
	cache    ports.ForecastCache
	metrics  *countingMetrics
}

func newProviderFixture(t *testing.T, client *fakeUpstreamClient, config ports.ForecastConfig) *providerFixture {
	t.Helper()

	cache := NewSeriesCacheAdapter(NewMemoryCacheProvider(clockwork.NewRealClock()))
	metrics := &countingMetrics{}

	provider, err := NewCachedForecastProvider(CachedForecastProviderParams{
		Client:  client,
		Cache:   cache,
		Config:  config,
		Retry:   RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond},
		Logger:  nopLogger{},
		Metrics: metrics,
	})
	require.NoError(t, err)

	return &providerFixture{provider: provider, client: client, cache: cache, metrics: metrics}
}

func providerPoint(id string, lat float64) ports.Point {
	return ports.Point{ID: id, Name: id, StateCode: "KV", Latitude: lat, Longitude: 30.52}
}

func TestNewCachedForecastProvider_Validation(t *testing.T) {
	cache := NewSeriesCacheAdapter(NewMemoryCacheProvider(nil))

	_, err := NewCachedForecastProvider(CachedForecastProviderParams{Cache: cache, Logger: nopLogger{}})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = NewCachedForecastProvider(CachedForecastProviderParams{Client: &fakeUpstreamClient{}, Logger: nopLogger{}})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = NewCachedForecastProvider(CachedForecastProviderParams{Client: &fakeUpstreamClient{}, Cache: cache})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestCachedForecastProvider_WriteThrough(t *testing.T) {
	client := &fakeUpstreamClient{}
	fx := newProviderFixture(t, client, ports.ForecastConfig{EnableCache: true, HourlyTTL: time.Hour})
	ctx := context.Background()
	point := providerPoint("kyiv", 50.45)

	first, err := fx.provider.Fetch(ctx, point, ports.SeriesHourly, ports.Window{Hours: 24})
	require.NoError(t, err)
	assert.Equal(t, "kyiv", first.PointID)
	assert.Equal(t, 1, client.callCount())

	second, err := fx.provider.Fetch(ctx, point, ports.SeriesHourly, ports.Window{Hours: 24})
	require.NoError(t, err)
	assert.Equal(t, first.PointID, second.PointID)
	assert.Equal(t, 1, client.callCount(), "second fetch must come from cache")

	assert.Equal(t, 1, fx.metrics.hits)
	assert.Equal(t, 1, fx.metrics.misses)
	assert.Equal(t, 1, fx.metrics.upstreamSuccess)
}

func TestCachedForecastProvider_CacheDisabled(t *testing.T) {
	client := &fakeUpstreamClient{}
	fx := newProviderFixture(t, client, ports.ForecastConfig{EnableCache: false})
	ctx := context.Background()
	point := providerPoint("kyiv", 50.45)

	_, err := fx.provider.Fetch(ctx, point, ports.SeriesHourly, ports.Window{Hours: 24})
	require.NoError(t, err)
	_, err = fx.provider.Fetch(ctx, point, ports.SeriesHourly, ports.Window{Hours: 24})
	require.NoError(t, err)

	assert.Equal(t, 2, client.callCount())
	assert.Equal(t, 0, fx.metrics.hits)
}

func TestCachedForecastProvider_RetriesTransientFailures(t *testing.T) {
	client := &fakeUpstreamClient{
		script: []error{retryableStatusErr(), retryableStatusErr(), nil},
	}
	fx := newProviderFixture(t, client, ports.ForecastConfig{})

	series, err := fx.provider.Fetch(context.Background(), providerPoint("kyiv", 50.45), ports.SeriesHourly, ports.Window{Hours: 24})
	require.NoError(t, err)
	assert.NotNil(t, series)
	assert.Equal(t, 3, client.callCount(), "two transient failures then success")
	assert.Equal(t, 1, fx.metrics.upstreamSuccess)
}

func TestCachedForecastProvider_NonRetryableFailsImmediately(t *testing.T) {
	client := &fakeUpstreamClient{
		script: []error{apperrors.NewUpstreamError("upstream returned status 500", nil)},
	}
	fx := newProviderFixture(t, client, ports.ForecastConfig{})

	_, err := fx.provider.Fetch(context.Background(), providerPoint("kyiv", 50.45), ports.SeriesHourly, ports.Window{Hours: 24})
	assert.True(t, apperrors.IsUpstreamError(err))
	assert.Equal(t, 1, client.callCount())
	assert.Equal(t, 1, fx.metrics.upstreamFailures)
}

func TestCachedForecastProvider_ExhaustedRetries(t *testing.T) {
	client := &fakeUpstreamClient{
		script: []error{retryableStatusErr(), retryableStatusErr(), retryableStatusErr()},
	}
	fx := newProviderFixture(t, client, ports.ForecastConfig{})

	_, err := fx.provider.Fetch(context.Background(), providerPoint("kyiv", 50.45), ports.SeriesHourly, ports.Window{Hours: 24})
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstreamError(err))
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, client.callCount())
}

func TestCachedForecastProvider_ValidationErrors(t *testing.T) {
	fx := newProviderFixture(t, &fakeUpstreamClient{}, ports.ForecastConfig{})
	ctx := context.Background()
	point := providerPoint("kyiv", 50.45)

	_, err := fx.provider.Fetch(ctx, point, ports.SeriesKind("weekly"), ports.Window{Hours: 24})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = fx.provider.Fetch(ctx, point, ports.SeriesHourly, ports.Window{Hours: 1000})
	assert.True(t, apperrors.IsValidationError(err))

	assert.Equal(t, 0, fx.client.callCount())
}

// failingSeriesCache always rejects writes but reports a miss on reads
type failingSeriesCache struct{}

func (failingSeriesCache) Get(ctx context.Context, key string) (*ports.ForecastSeries, error) {
	return nil, apperrors.NewNotFoundError("cache miss")
}

func (failingSeriesCache) Set(ctx context.Context, key string, series *ports.ForecastSeries, ttl time.Duration) error {
	return apperrors.NewCacheWriteError("redis write failed", nil)
}

func TestCachedForecastProvider_CacheWriteFailureIsSwallowed(t *testing.T) {
	client := &fakeUpstreamClient{}
	provider, err := NewCachedForecastProvider(CachedForecastProviderParams{
		Client: client,
		Cache:  failingSeriesCache{},
		Config: ports.ForecastConfig{EnableCache: true},
		Logger: nopLogger{},
	})
	require.NoError(t, err)

	series, err := provider.Fetch(context.Background(), providerPoint("kyiv", 50.45), ports.SeriesHourly, ports.Window{Hours: 24})
	require.NoError(t, err)
	assert.NotNil(t, series)
}

func TestCachedForecastProvider_FetchMany_PerPointIsolation(t *testing.T) {
	client := &fakeUpstreamClient{
		failLat: 3.0,
		failErr: apperrors.NewUpstreamError("upstream returned status 500", nil),
	}
	fx := newProviderFixture(t, client, ports.ForecastConfig{MaxConcurrentFetches: 2})

	points := []ports.Point{
		providerPoint("p1", 1.0),
		providerPoint("p2", 2.0),
		providerPoint("p3", 3.0),
		providerPoint("p4", 4.0),
		providerPoint("p5", 5.0),
	}

	results := fx.provider.FetchMany(context.Background(), points, ports.SeriesHourly, ports.Window{Hours: 24})
	require.Len(t, results, 5)

	failures := 0
	for id, result := range results {
		if id == "p3" {
			assert.True(t, apperrors.IsUpstreamError(result.Err))
			failures++
			continue
		}
		assert.NoError(t, result.Err, "point %s", id)
		assert.NotNil(t, result.Series)
	}
	assert.Equal(t, 1, failures)
}

func TestCachedForecastProvider_FetchMany_DeadlineYieldsTimeouts(t *testing.T) {
	client := &fakeUpstreamClient{}
	fx := newProviderFixture(t, client, ports.ForecastConfig{MaxConcurrentFetches: 2})

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	points := []ports.Point{providerPoint("p1", 1.0), providerPoint("p2", 2.0)}
	results := fx.provider.FetchMany(ctx, points, ports.SeriesHourly, ports.Window{Hours: 24})

	require.Len(t, results, 2)
	for id, result := range results {
		assert.True(t, apperrors.IsTimeoutError(result.Err), "point %s", id)
	}
}
