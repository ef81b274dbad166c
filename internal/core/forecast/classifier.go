package forecast

import (
	"math"
	"time"

	"climacast.app/internal/ports"
	"climacast.app/pkg/errors"
)

// ToleranceWindow is the maximum distance between the requested time and
// the nearest hourly sample before classification refuses to answer.
const ToleranceWindow = 90 * time.Minute

// Rainfall intensity blend constants. The sigmoid inflection sits at the
// volume where rain stops feeling light; the steepness is tuned so that
// ~0.5mm drizzle scores low and 8mm+ downpours saturate near 100.
const (
	intensityInflectionMm = 3.0
	intensitySteepness    = 0.9
)

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// RainfallIntensity combines precipitation probability [0,1] and volume in
// mm into a single [0,100] score. The blend is non-linear: a high chance of
// drizzle must not score like a lower chance of a downpour.
func RainfallIntensity(probability, volumeMm float64) float64 {
	probability = math.Max(0, math.Min(1, probability))
	volumeMm = math.Max(0, volumeMm)

	intensity := 100 * probability * sigmoid(intensitySteepness*(volumeMm-intensityInflectionMm))
	return math.Max(0, math.Min(100, intensity))
}

// RainBand returns the intensity band index used by the composite code table
func RainBand(intensity float64) int {
	return bandOf(intensity, rainBandBounds)
}

// Classify derives a snapshot from the raw series at the requested time.
// It fails with a no-data error when no hourly sample falls within the
// tolerance window of atTime.
func Classify(series *ports.ForecastSeries, atTime time.Time) (*Snapshot, error) {
	if series == nil || len(series.Hourly) == 0 {
		return nil, errors.NewNoDataError("forecast series has no hourly samples")
	}

	sample, err := nearestSample(series.Hourly, atTime)
	if err != nil {
		return nil, err
	}

	intensity := RainfallIntensity(sample.PrecipProbability, sample.PrecipVolumeMm)

	code := compositeCode(
		bandOf(intensity, rainBandBounds),
		bandOf(sample.WindSpeedKmh, windBandBounds),
		bandOf(sample.CloudCoverPct, cloudBandBounds),
		visBandOf(sample.VisibilityM),
	)

	return &Snapshot{
		CompositeCode:     code,
		Temperature:       roundDisplay(sample.TempC),
		Humidity:          roundDisplay(sample.HumidityPct),
		WindSpeed:         roundDisplay(sample.WindSpeedKmh),
		RainfallIntensity: math.Round(intensity),
		Timestamp:         sample.Timestamp,
	}, nil
}

// nearestSample picks the hourly sample closest to atTime within the
// tolerance window
func nearestSample(hourly []ports.HourlySample, atTime time.Time) (*ports.HourlySample, error) {
	best := -1
	bestDelta := time.Duration(math.MaxInt64)
	for i := range hourly {
		delta := atTime.Sub(hourly[i].Timestamp)
		if delta < 0 {
			delta = -delta
		}
		if delta < bestDelta {
			bestDelta = delta
			best = i
		}
	}

	if best < 0 || bestDelta > ToleranceWindow {
		return nil, errors.NewNoDataError("no forecast sample within tolerance of requested time")
	}
	return &hourly[best], nil
}

// roundDisplay rounds a passthrough value to one decimal for display
func roundDisplay(v float64) float64 {
	return math.Round(v*10) / 10
}
