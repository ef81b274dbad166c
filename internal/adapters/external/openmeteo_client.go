package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"climacast.app/internal/ports"
	apperrors "climacast.app/pkg/errors"
	"github.com/sony/gobreaker"
)

// ErrRetryableStatus marks upstream failures the provider may retry
// (rate limiting and temporary unavailability). Every other non-2xx status
// indicates a non-transient problem and fails immediately.
var ErrRetryableStatus = errors.New("retryable upstream status")

// HTTPClient abstracts the HTTP transport for testing
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// OpenMeteoClient implements the UpstreamForecastClient port against an
// Open-Meteo style forecast endpoint
type OpenMeteoClient struct {
	baseURL string
	client  HTTPClient
	breaker *gobreaker.CircuitBreaker
	logger  ports.Logger
}

// OpenMeteoClientParams holds parameters for creating the upstream client
type OpenMeteoClientParams struct {
	BaseURL string
	Client  HTTPClient
	Logger  ports.Logger
}

// Forecast horizons supported by the upstream source
const (
	maxHourlyWindowHours = 168
	maxDailyWindowDays   = 16
)

const (
	hourlyTimeLayout = "2006-01-02T15:04"
	dailyTimeLayout  = "2006-01-02"
)

// NewOpenMeteoClient creates a new upstream forecast client
func NewOpenMeteoClient(params OpenMeteoClientParams) ports.UpstreamForecastClient {
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com/v1/forecast"
	}

	client := params.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "open-meteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenMeteoClient{
		baseURL: baseURL,
		client:  client,
		breaker: breaker,
		logger:  params.Logger,
	}
}

// ProviderName returns the upstream source identifier
func (c *OpenMeteoClient) ProviderName() string {
	return "open-meteo"
}

// FetchSeries retrieves one raw series from the upstream source. It fails
// with a validation error when the window exceeds the forecast horizon.
func (c *OpenMeteoClient) FetchSeries(ctx context.Context, lat, lon float64, kind ports.SeriesKind, window ports.Window) (*ports.ForecastSeries, error) {
	if !kind.IsValid() {
		return nil, apperrors.NewValidationError("unknown series kind: " + string(kind))
	}
	if err := validateWindow(kind, window); err != nil {
		return nil, err
	}

	requestURL := c.buildURL(lat, lon, kind, window)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, apperrors.NewUpstreamError("failed to build upstream request", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.client.Do(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, apperrors.NewUpstreamError("upstream circuit breaker open", err)
		}
		return nil, apperrors.NewUpstreamError("failed to call upstream forecast source", err)
	}

	resp := result.(*http.Response)
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && c.logger != nil {
			c.logger.Warn("Failed to close upstream response body", ports.F("error", closeErr))
		}
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decoding
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
		return nil, apperrors.NewUpstreamError(
			fmt.Sprintf("upstream returned status %d", resp.StatusCode), ErrRetryableStatus)
	default:
		return nil, apperrors.NewUpstreamError(
			fmt.Sprintf("upstream returned status %d", resp.StatusCode), nil)
	}

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewUpstreamError("failed to decode upstream response", err)
	}

	series, err := payload.toSeries(kind)
	if err != nil {
		return nil, err
	}
	series.FetchedAt = time.Now().UTC()
	return series, nil
}

func (c *OpenMeteoClient) buildURL(lat, lon float64, kind ports.SeriesKind, window ports.Window) string {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%.4f", lat))
	values.Set("longitude", fmt.Sprintf("%.4f", lon))
	values.Set("timezone", "UTC")

	if kind == ports.SeriesHourly {
		values.Set("hourly", "temperature_2m,relativehumidity_2m,precipitation_probability,precipitation,windspeed_10m,winddirection_10m,cloudcover,visibility,uv_index")
		values.Set("forecast_hours", fmt.Sprintf("%d", window.Hours))
	} else {
		values.Set("daily", "temperature_2m_min,temperature_2m_max,precipitation_sum,uv_index_max")
		values.Set("forecast_days", fmt.Sprintf("%d", window.Days))
	}

	return fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
}

func validateWindow(kind ports.SeriesKind, window ports.Window) error {
	if kind == ports.SeriesHourly {
		if window.Hours < 1 || window.Hours > maxHourlyWindowHours {
			return apperrors.NewValidationError(
				fmt.Sprintf("hourly window must be between 1 and %d hours", maxHourlyWindowHours))
		}
		return nil
	}
	if window.Days < 1 || window.Days > maxDailyWindowDays {
		return apperrors.NewValidationError(
			fmt.Sprintf("daily window must be between 1 and %d days", maxDailyWindowDays))
	}
	return nil
}

// openMeteoResponse mirrors the per-timestep array layout of the upstream
// response
type openMeteoResponse struct {
	Hourly struct {
		Time              []string  `json:"time"`
		Temperature       []float64 `json:"temperature_2m"`
		Humidity          []float64 `json:"relativehumidity_2m"`
		PrecipProbability []float64 `json:"precipitation_probability"`
		Precipitation     []float64 `json:"precipitation"`
		WindSpeed         []float64 `json:"windspeed_10m"`
		WindDirection     []float64 `json:"winddirection_10m"`
		CloudCover        []float64 `json:"cloudcover"`
		Visibility        []float64 `json:"visibility"`
		UVIndex           []float64 `json:"uv_index"`
	} `json:"hourly"`
	Daily struct {
		Time       []string  `json:"time"`
		TempMin    []float64 `json:"temperature_2m_min"`
		TempMax    []float64 `json:"temperature_2m_max"`
		PrecipSum  []float64 `json:"precipitation_sum"`
		UVIndexMax []float64 `json:"uv_index_max"`
	} `json:"daily"`
}

func (r *openMeteoResponse) toSeries(kind ports.SeriesKind) (*ports.ForecastSeries, error) {
	series := &ports.ForecastSeries{Kind: kind}

	if kind == ports.SeriesHourly {
		samples := make([]ports.HourlySample, 0, len(r.Hourly.Time))
		for i, raw := range r.Hourly.Time {
			ts, err := time.Parse(hourlyTimeLayout, raw)
			if err != nil {
				return nil, apperrors.NewUpstreamError("malformed hourly timestamp in upstream response", err)
			}
			samples = append(samples, ports.HourlySample{
				Timestamp:         ts.UTC(),
				TempC:             at(r.Hourly.Temperature, i),
				HumidityPct:       at(r.Hourly.Humidity, i),
				PrecipProbability: at(r.Hourly.PrecipProbability, i) / 100,
				PrecipVolumeMm:    at(r.Hourly.Precipitation, i),
				WindSpeedKmh:      at(r.Hourly.WindSpeed, i),
				WindDirectionDeg:  at(r.Hourly.WindDirection, i),
				CloudCoverPct:     at(r.Hourly.CloudCover, i),
				VisibilityM:       at(r.Hourly.Visibility, i),
				UVIndex:           at(r.Hourly.UVIndex, i),
			})
		}
		series.Hourly = samples
		return series, nil
	}

	days := make([]ports.DailyAggregate, 0, len(r.Daily.Time))
	for i, raw := range r.Daily.Time {
		date, err := time.Parse(dailyTimeLayout, raw)
		if err != nil {
			return nil, apperrors.NewUpstreamError("malformed daily date in upstream response", err)
		}
		days = append(days, ports.DailyAggregate{
			Date:        date.UTC(),
			TempMin:     at(r.Daily.TempMin, i),
			TempMax:     at(r.Daily.TempMax, i),
			PrecipSumMm: at(r.Daily.PrecipSum, i),
			UVIndexMax:  at(r.Daily.UVIndexMax, i),
		})
	}
	series.Daily = days
	return series, nil
}

// at tolerates ragged upstream arrays instead of panicking on short columns
func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
