package aggregate

import (
	"context"
	"time"

	"climacast.app/internal/core/alerts"
	"climacast.app/internal/core/forecast"
	"climacast.app/internal/ports"
	"climacast.app/pkg/errors"
)

// Default window applied when the caller does not constrain one
const (
	defaultWindowHours = 48
	defaultWindowDays  = 7
)

// Result is the aggregated outcome for one point
type Result struct {
	Point    ports.Point
	Snapshot *forecast.Snapshot
	Alerts   []alerts.Alert
}

// Outcome wraps a per-point result or error for batch responses
type Outcome struct {
	Result *Result
	Err    error
}

// UseCase orchestrates fetch → classify → alerts for one or many points
type UseCase struct {
	provider ports.ForecastProvider
	config   ports.ForecastConfig
	logger   ports.Logger
}

type UseCaseDependencies struct {
	Provider ports.ForecastProvider
	Config   ports.ForecastConfig
	Logger   ports.Logger
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.Provider == nil {
		return nil, errors.NewValidationError("forecast provider is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}

	return &UseCase{
		provider: deps.Provider,
		config:   deps.Config,
		logger:   deps.Logger,
	}, nil
}

// Resolve runs the pipeline for a single point
func (uc *UseCase) Resolve(ctx context.Context, point ports.Point, atTime time.Time, window ports.Window) (*Result, error) {
	window = withDefaults(window)

	hourly, err := uc.provider.Fetch(ctx, point, ports.SeriesHourly, window)
	if err != nil {
		return nil, err
	}

	snapshot, err := forecast.Classify(hourly, atTime)
	if err != nil {
		return nil, err
	}

	// A failed daily fetch degrades alerts to hourly-only coverage instead
	// of failing the whole request.
	var dailySamples []ports.DailyAggregate
	daily, err := uc.provider.Fetch(ctx, point, ports.SeriesDaily, window)
	if err != nil {
		uc.logger.Warn("Daily series unavailable, generating alerts from hourly data only",
			ports.F("pointId", point.ID),
			ports.F("error", err))
	} else {
		dailySamples = daily.Daily
	}

	return &Result{
		Point:    point,
		Snapshot: snapshot,
		Alerts:   alerts.Generate(hourly.Hourly, dailySamples, snapshot),
	}, nil
}

// ResolveMany runs the pipeline for a batch of points. A single point's
// failure never aborts its siblings; callers receive a per-point outcome map
// keyed by point id.
func (uc *UseCase) ResolveMany(ctx context.Context, points []ports.Point, atTime time.Time, window ports.Window) map[string]Outcome {
	window = withDefaults(window)

	if uc.config.BatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.config.BatchTimeout)
		defer cancel()
	}

	hourlyResults := uc.provider.FetchMany(ctx, points, ports.SeriesHourly, window)
	dailyResults := uc.provider.FetchMany(ctx, points, ports.SeriesDaily, window)

	outcomes := make(map[string]Outcome, len(points))
	for _, point := range points {
		hourly := hourlyResults[point.ID]
		if hourly.Err != nil {
			outcomes[point.ID] = Outcome{Err: hourly.Err}
			continue
		}

		snapshot, err := forecast.Classify(hourly.Series, atTime)
		if err != nil {
			outcomes[point.ID] = Outcome{Err: err}
			continue
		}

		var dailySamples []ports.DailyAggregate
		if daily := dailyResults[point.ID]; daily.Err == nil && daily.Series != nil {
			dailySamples = daily.Series.Daily
		}

		outcomes[point.ID] = Outcome{Result: &Result{
			Point:    point,
			Snapshot: snapshot,
			Alerts:   alerts.Generate(hourly.Series.Hourly, dailySamples, snapshot),
		}}
	}
	return outcomes
}

func withDefaults(window ports.Window) ports.Window {
	if window.Hours <= 0 {
		window.Hours = defaultWindowHours
	}
	if window.Days <= 0 {
		window.Days = defaultWindowDays
	}
	return window
}
