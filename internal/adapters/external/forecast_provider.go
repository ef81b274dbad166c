package external

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"climacast.app/internal/ports"
	apperrors "climacast.app/pkg/errors"
	"github.com/jonboulle/clockwork"
)

// RetryConfig controls exponential backoff on transient upstream failures
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      bool
}

// DefaultRetryConfig matches the documented retry contract: three attempts
// with a doubling base delay and jitter
var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	Jitter:      true,
}

// CachedForecastProvider implements the ForecastProvider port. It consults
// the cache first, falls back to the upstream client with retries on
// transient failures, and writes successful fetches through to the cache.
// A failed cache write is logged and swallowed.
type CachedForecastProvider struct {
	client  ports.UpstreamForecastClient
	cache   ports.ForecastCache
	config  ports.ForecastConfig
	retry   RetryConfig
	clock   clockwork.Clock
	logger  ports.Logger
	metrics ports.MetricsCollector
}

// CachedForecastProviderParams holds parameters for creating the provider
type CachedForecastProviderParams struct {
	Client  ports.UpstreamForecastClient
	Cache   ports.ForecastCache
	Config  ports.ForecastConfig
	Retry   RetryConfig
	Clock   clockwork.Clock
	Logger  ports.Logger
	Metrics ports.MetricsCollector
}

// NewCachedForecastProvider creates a caching, retrying forecast provider
func NewCachedForecastProvider(params CachedForecastProviderParams) (*CachedForecastProvider, error) {
	if params.Client == nil {
		return nil, apperrors.NewValidationError("upstream client is required")
	}
	if params.Cache == nil {
		return nil, apperrors.NewValidationError("forecast cache is required")
	}
	if params.Logger == nil {
		return nil, apperrors.NewValidationError("logger is required")
	}

	retry := params.Retry
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryConfig
	}

	clock := params.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &CachedForecastProvider{
		client:  params.Client,
		cache:   params.Cache,
		config:  params.Config,
		retry:   retry,
		clock:   clock,
		logger:  params.Logger,
		metrics: params.Metrics,
	}, nil
}

// Fetch returns the raw series for one point, serving from cache when a
// fresh entry exists
func (p *CachedForecastProvider) Fetch(ctx context.Context, point ports.Point, kind ports.SeriesKind, window ports.Window) (*ports.ForecastSeries, error) {
	if !kind.IsValid() {
		return nil, apperrors.NewValidationError("unknown series kind: " + string(kind))
	}
	if err := validateWindow(kind, window); err != nil {
		return nil, err
	}

	key := ports.CacheKey(point.ID, kind)

	if p.config.EnableCache {
		if cached, err := p.cache.Get(ctx, key); err == nil && cached != nil {
			p.logger.Debug("Forecast cache hit", ports.F("key", key))
			if p.metrics != nil {
				p.metrics.RecordCacheHit(ctx)
			}
			return cached, nil
		}
		p.logger.Debug("Forecast cache miss", ports.F("key", key))
		if p.metrics != nil {
			p.metrics.RecordCacheMiss(ctx)
		}
	}

	series, err := p.fetchWithRetry(ctx, point, kind, window)
	if p.metrics != nil {
		p.metrics.RecordUpstreamCall(ctx, p.client.ProviderName(), err == nil)
	}
	if err != nil {
		return nil, err
	}

	series.PointID = point.ID

	if p.config.EnableCache {
		if cacheErr := p.cache.Set(ctx, key, series, p.ttlFor(kind)); cacheErr != nil {
			p.logger.Warn("Failed to cache forecast series",
				ports.F("key", key),
				ports.F("error", cacheErr))
		}
	}

	return series, nil
}

// fetchWithRetry calls the upstream source, retrying transient failures with
// exponential backoff before surfacing an upstream error
func (p *CachedForecastProvider) fetchWithRetry(ctx context.Context, point ports.Point, kind ports.SeriesKind, window ports.Window) (*ports.ForecastSeries, error) {
	var lastErr error

	for attempt := 0; attempt < p.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := p.waitBackoff(ctx, attempt); err != nil {
				return nil, err
			}
		}

		series, err := p.client.FetchSeries(ctx, point.Latitude, point.Longitude, kind, window)
		if err == nil {
			return series, nil
		}
		if !errors.Is(err, ErrRetryableStatus) {
			return nil, err
		}

		lastErr = err
		p.logger.Warn("Transient upstream failure, will retry",
			ports.F("pointId", point.ID),
			ports.F("attempt", attempt+1),
			ports.F("error", err))
	}

	return nil, apperrors.NewUpstreamError(
		fmt.Sprintf("upstream unavailable after %d attempts", p.retry.MaxAttempts), lastErr)
}

// waitBackoff sleeps for the attempt's backoff delay, doubling each attempt
// with optional jitter, honoring context cancellation
func (p *CachedForecastProvider) waitBackoff(ctx context.Context, attempt int) error {
	delay := p.retry.BaseDelay << (attempt - 1)
	if p.retry.Jitter {
		delay += time.Duration(rand.Int63n(int64(delay)/2 + 1))
	}

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return apperrors.NewTimeoutError("deadline elapsed while backing off")
		}
		return ctx.Err()
	case <-p.clock.After(delay):
		return nil
	}
}

// FetchMany fetches one series per point under a bounded concurrency limit.
// One point's failure never aborts the others; the returned map always has
// an entry per requested point.
func (p *CachedForecastProvider) FetchMany(ctx context.Context, points []ports.Point, kind ports.SeriesKind, window ports.Window) map[string]ports.SeriesResult {
	limit := p.config.MaxConcurrentFetches
	if limit <= 0 {
		limit = 10
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]ports.SeriesResult, len(points))
	)
	sem := make(chan struct{}, limit)

	record := func(id string, result ports.SeriesResult) {
		mu.Lock()
		results[id] = result
		mu.Unlock()
	}

	for _, point := range points {
		wg.Add(1)
		go func(point ports.Point) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				record(point.ID, ports.SeriesResult{Err: apperrors.NewTimeoutError(
					"batch deadline elapsed before fetch started")})
				return
			}

			series, err := p.Fetch(ctx, point, kind, window)
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = apperrors.NewTimeoutError("batch deadline elapsed before fetch completed")
			}
			record(point.ID, ports.SeriesResult{Series: series, Err: err})
		}(point)
	}

	wg.Wait()
	return results
}

func (p *CachedForecastProvider) ttlFor(kind ports.SeriesKind) time.Duration {
	if kind == ports.SeriesDaily {
		if p.config.DailyTTL > 0 {
			return p.config.DailyTTL
		}
		return 4 * time.Hour
	}
	if p.config.HourlyTTL > 0 {
		return p.config.HourlyTTL
	}
	return time.Hour
}
