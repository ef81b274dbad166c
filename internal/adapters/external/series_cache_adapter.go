package external

import (
	"context"
	"encoding/json"
	"time"

	"climacast.app/internal/ports"
	"climacast.app/pkg/errors"
)

// SeriesCacheAdapter bridges the generic CacheProvider to the series-level
// ForecastCache port, serializing whole series payloads as JSON
type SeriesCacheAdapter struct {
	cacheProvider ports.CacheProvider
}

// NewSeriesCacheAdapter creates a forecast series cache over a generic
// cache provider
func NewSeriesCacheAdapter(cacheProvider ports.CacheProvider) ports.ForecastCache {
	return &SeriesCacheAdapter{
		cacheProvider: cacheProvider,
	}
}

// Get retrieves a cached series. A miss surfaces as a not-found error.
func (a *SeriesCacheAdapter) Get(ctx context.Context, key string) (*ports.ForecastSeries, error) {
	data, err := a.cacheProvider.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var series ports.ForecastSeries
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, errors.NewCacheWriteError("failed to deserialize cached series", err)
	}

	return &series, nil
}

// Set stores a whole series under the key. Entries are replaced, never
// patched.
func (a *SeriesCacheAdapter) Set(ctx context.Context, key string, series *ports.ForecastSeries, ttl time.Duration) error {
	if series == nil {
		return errors.NewValidationError("series cannot be nil")
	}

	data, err := json.Marshal(series)
	if err != nil {
		return errors.NewCacheWriteError("failed to serialize series", err)
	}

	return a.cacheProvider.Set(ctx, key, data, ttl)
}
