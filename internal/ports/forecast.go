package ports

import (
	"context"
	"fmt"
	"time"
)

// SeriesKind identifies the resolution of a forecast series
type SeriesKind string

const (
	SeriesHourly SeriesKind = "hourly"
	SeriesDaily  SeriesKind = "daily"
)

// Granularity returns the cache-key granularity token for the kind
func (k SeriesKind) Granularity() string {
	if k == SeriesDaily {
		return "1d"
	}
	return "1h"
}

// IsValid checks if the series kind is known
func (k SeriesKind) IsValid() bool {
	return k == SeriesHourly || k == SeriesDaily
}

// Window is the requested forecast length. Hours applies to hourly series,
// Days to daily series.
type Window struct {
	Hours int
	Days  int
}

// HourlySample is one hourly step of a raw forecast series
type HourlySample struct {
	Timestamp         time.Time `json:"timestamp"`
	TempC             float64   `json:"tempC"`
	HumidityPct       float64   `json:"humidityPct"`
	PrecipProbability float64   `json:"precipProbability"`
	PrecipVolumeMm    float64   `json:"precipVolumeMm"`
	WindSpeedKmh      float64   `json:"windSpeedKmh"`
	WindDirectionDeg  float64   `json:"windDirectionDeg"`
	CloudCoverPct     float64   `json:"cloudCoverPct"`
	VisibilityM       float64   `json:"visibilityM"`
	UVIndex           float64   `json:"uvIndex"`
}

// DailyAggregate is one daily step of a raw forecast series
type DailyAggregate struct {
	Date        time.Time `json:"date"`
	TempMin     float64   `json:"tempMin"`
	TempMax     float64   `json:"tempMax"`
	PrecipSumMm float64   `json:"precipSumMm"`
	UVIndexMax  float64   `json:"uvIndexMax"`
}

// ForecastSeries is the raw forecast payload for one point and one kind.
// A fetch always replaces the whole series; entries are never patched.
type ForecastSeries struct {
	PointID   string           `json:"pointId"`
	Kind      SeriesKind       `json:"kind"`
	Hourly    []HourlySample   `json:"hourly,omitempty"`
	Daily     []DailyAggregate `json:"daily,omitempty"`
	FetchedAt time.Time        `json:"fetchedAt"`
}

// SeriesResult is a per-point outcome of a batch fetch
type SeriesResult struct {
	Series *ForecastSeries
	Err    error
}

// CacheKey builds the cache key for a point and series kind,
// laid out as {pointId}#{seriesKind}#{granularity}
func CacheKey(pointID string, kind SeriesKind) string {
	return fmt.Sprintf("%s#%s#%s", pointID, kind, kind.Granularity())
}

// UpstreamForecastClient fetches a raw series from the external source
type UpstreamForecastClient interface {
	FetchSeries(ctx context.Context, lat, lon float64, kind SeriesKind, window Window) (*ForecastSeries, error)
	ProviderName() string
}

// ForecastProvider serves raw series with caching and retries applied
type ForecastProvider interface {
	Fetch(ctx context.Context, point Point, kind SeriesKind, window Window) (*ForecastSeries, error)
	FetchMany(ctx context.Context, points []Point, kind SeriesKind, window Window) map[string]SeriesResult
}

// ForecastCache stores raw series payloads keyed per point and kind
type ForecastCache interface {
	Get(ctx context.Context, key string) (*ForecastSeries, error)
	Set(ctx context.Context, key string, series *ForecastSeries, ttl time.Duration) error
}
