package alerts

import (
	"fmt"
	"time"

	"climacast.app/internal/core/forecast"
	"climacast.app/internal/ports"
)

// Rule thresholds are business-defined data. Each category rule below reads
// from this block only, so tuning never touches detection logic.
var thresholds = struct {
	RainIntensity    float64 // minimum rainfall intensity for a RAIN alert
	RainHigh         float64
	RainExtreme      float64
	StormIntensity   float64 // STORM is a stricter superset of RAIN
	StormWindKmh     float64
	StormExtreme     float64
	WindStrongKmh    float64
	WindExtremeKmh   float64
	VisibilityM      float64 // VISIBILITY triggers below this
	VisCloudPct      float64
	VisRainIntensity float64
	ColdTempC        float64
	FreezeTempC      float64
	SnowPrecipProb   float64
	UVExtreme        float64
	TrendDeltaC      float64 // day-over-day min/max deviation
	TrendDeltaHighC  float64
	AccumulationMm   float64 // daily cumulative rainfall
	SustainedSamples int     // consecutive hourly samples for RAIN/STORM
	TrendWindowDays  int
}{
	RainIntensity:    40,
	RainHigh:         60,
	RainExtreme:      90,
	StormIntensity:   70,
	StormWindKmh:     50,
	StormExtreme:     90,
	WindStrongKmh:    60,
	WindExtremeKmh:   90,
	VisibilityM:      1000,
	VisCloudPct:      80,
	VisRainIntensity: 30,
	ColdTempC:        3,
	FreezeTempC:      0,
	SnowPrecipProb:   0.3,
	UVExtreme:        11,
	TrendDeltaC:      8,
	TrendDeltaHighC:  12,
	AccumulationMm:   50,
	SustainedSamples: 2,
	TrendWindowDays:  7,
}

// Generate evaluates every category rule over the full forecast window and
// returns the merged, ordered alert list. It is deterministic and pure:
// the same series and snapshot always yield the same alerts.
func Generate(hourly []ports.HourlySample, daily []ports.DailyAggregate, classified *forecast.Snapshot) []Alert {
	candidates := make([]Alert, 0, 8)
	candidates = append(candidates, rainAlerts(hourly)...)
	candidates = append(candidates, stormAlerts(hourly)...)
	candidates = append(candidates, windAlerts(hourly)...)
	candidates = append(candidates, visibilityAlerts(hourly)...)
	candidates = append(candidates, coldAlerts(hourly)...)
	candidates = append(candidates, snowAlerts(hourly)...)
	candidates = append(candidates, uvAlerts(daily)...)

	trendStart := time.Time{}
	if classified != nil {
		trendStart = classified.Timestamp
	}
	candidates = append(candidates, tempTrendAlerts(daily, trendStart)...)
	candidates = append(candidates, accumulationAlerts(daily)...)

	return Merge(candidates)
}

// run is a contiguous stretch of matching hourly samples [start, end]
type run struct {
	start int
	end   int
}

// scanRuns finds contiguous runs of at least minLen samples matching pred
func scanRuns(hourly []ports.HourlySample, minLen int, pred func(ports.HourlySample) bool) []run {
	var runs []run
	start := -1
	for i, sample := range hourly {
		if pred(sample) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start >= minLen {
			runs = append(runs, run{start: start, end: i - 1})
		}
		start = -1
	}
	if start >= 0 && len(hourly)-start >= minLen {
		runs = append(runs, run{start: start, end: len(hourly) - 1})
	}
	return runs
}

// spanOf converts a run of hourly samples into a half-open time span,
// extending one step past the last matching sample
func spanOf(hourly []ports.HourlySample, r run) (time.Time, time.Time) {
	return hourly[r.start].Timestamp, hourly[r.end].Timestamp.Add(time.Hour)
}

func intensityOf(s ports.HourlySample) float64 {
	return forecast.RainfallIntensity(s.PrecipProbability, s.PrecipVolumeMm)
}

func peakIntensity(hourly []ports.HourlySample, r run) float64 {
	peak := 0.0
	for i := r.start; i <= r.end; i++ {
		if v := intensityOf(hourly[i]); v > peak {
			peak = v
		}
	}
	return peak
}

func rainAlerts(hourly []ports.HourlySample) []Alert {
	runs := scanRuns(hourly, thresholds.SustainedSamples, func(s ports.HourlySample) bool {
		return intensityOf(s) >= thresholds.RainIntensity
	})

	alerts := make([]Alert, 0, len(runs))
	for _, r := range runs {
		peak := peakIntensity(hourly, r)
		severity := SeverityModerate
		switch {
		case peak >= thresholds.RainExtreme:
			severity = SeverityExtreme
		case peak >= thresholds.RainHigh:
			severity = SeverityHigh
		}
		starts, ends := spanOf(hourly, r)
		alerts = append(alerts, Alert{
			Type:     TypeRain,
			Severity: severity,
			StartsAt: starts,
			EndsAt:   ends,
			Message:  fmt.Sprintf("Sustained rain expected, intensity up to %.0f", peak),
		})
	}
	return alerts
}

func stormAlerts(hourly []ports.HourlySample) []Alert {
	runs := scanRuns(hourly, thresholds.SustainedSamples, func(s ports.HourlySample) bool {
		return intensityOf(s) >= thresholds.StormIntensity && s.WindSpeedKmh >= thresholds.StormWindKmh
	})

	alerts := make([]Alert, 0, len(runs))
	for _, r := range runs {
		severity := SeverityHigh
		for i := r.start; i <= r.end; i++ {
			if intensityOf(hourly[i]) >= thresholds.StormExtreme || hourly[i].WindSpeedKmh >= thresholds.WindExtremeKmh {
				severity = SeverityExtreme
				break
			}
		}
		starts, ends := spanOf(hourly, r)
		alerts = append(alerts, Alert{
			Type:     TypeStorm,
			Severity: severity,
			StartsAt: starts,
			EndsAt:   ends,
			Message:  "Storm conditions: heavy rain combined with strong wind",
		})
	}
	return alerts
}

func windAlerts(hourly []ports.HourlySample) []Alert {
	runs := scanRuns(hourly, 1, func(s ports.HourlySample) bool {
		return s.WindSpeedKmh >= thresholds.WindStrongKmh
	})

	alerts := make([]Alert, 0, len(runs))
	for _, r := range runs {
		peak := 0.0
		for i := r.start; i <= r.end; i++ {
			if hourly[i].WindSpeedKmh > peak {
				peak = hourly[i].WindSpeedKmh
			}
		}
		severity := SeverityModerate
		if peak >= thresholds.WindExtremeKmh {
			severity = SeverityExtreme
		}
		starts, ends := spanOf(hourly, r)
		alerts = append(alerts, Alert{
			Type:     TypeWind,
			Severity: severity,
			StartsAt: starts,
			EndsAt:   ends,
			Message:  fmt.Sprintf("Strong wind expected, gusts up to %.0f km/h", peak),
		})
	}
	return alerts
}

func visibilityAlerts(hourly []ports.HourlySample) []Alert {
	runs := scanRuns(hourly, 1, func(s ports.HourlySample) bool {
		if s.VisibilityM >= thresholds.VisibilityM {
			return false
		}
		return s.CloudCoverPct >= thresholds.VisCloudPct || intensityOf(s) >= thresholds.VisRainIntensity
	})

	alerts := make([]Alert, 0, len(runs))
	for _, r := range runs {
		starts, ends := spanOf(hourly, r)
		alerts = append(alerts, Alert{
			Type:     TypeVisibility,
			Severity: SeverityModerate,
			StartsAt: starts,
			EndsAt:   ends,
			Message:  "Reduced visibility below 1 km",
		})
	}
	return alerts
}

func coldAlerts(hourly []ports.HourlySample) []Alert {
	runs := scanRuns(hourly, 1, func(s ports.HourlySample) bool {
		return s.TempC <= thresholds.ColdTempC
	})

	alerts := make([]Alert, 0, len(runs))
	for _, r := range runs {
		severity := SeverityLow
		for i := r.start; i <= r.end; i++ {
			if hourly[i].TempC <= thresholds.FreezeTempC {
				severity = SeverityModerate
				break
			}
		}
		starts, ends := spanOf(hourly, r)
		alerts = append(alerts, Alert{
			Type:     TypeCold,
			Severity: severity,
			StartsAt: starts,
			EndsAt:   ends,
			Message:  "Near-freezing temperatures expected",
		})
	}
	return alerts
}

func snowAlerts(hourly []ports.HourlySample) []Alert {
	runs := scanRuns(hourly, 1, func(s ports.HourlySample) bool {
		if s.TempC > thresholds.FreezeTempC {
			return false
		}
		return s.PrecipProbability >= thresholds.SnowPrecipProb || s.PrecipVolumeMm > 0
	})

	alerts := make([]Alert, 0, len(runs))
	for _, r := range runs {
		starts, ends := spanOf(hourly, r)
		alerts = append(alerts, Alert{
			Type:     TypeSnow,
			Severity: SeverityHigh,
			StartsAt: starts,
			EndsAt:   ends,
			Message:  "Snowfall likely: sub-zero temperatures with precipitation",
		})
	}
	return alerts
}

func uvAlerts(daily []ports.DailyAggregate) []Alert {
	var alerts []Alert
	for _, day := range daily {
		if day.UVIndexMax < thresholds.UVExtreme {
			continue
		}
		alerts = append(alerts, Alert{
			Type:     TypeUV,
			Severity: SeverityExtreme,
			StartsAt: day.Date,
			EndsAt:   day.Date.AddDate(0, 0, 1),
			Message:  fmt.Sprintf("Extreme UV index of %.0f", day.UVIndexMax),
		})
	}
	return alerts
}

// tempTrendAlerts compares rolling daily min/max over the trend window and
// flags day-over-day deviations beyond the threshold
func tempTrendAlerts(daily []ports.DailyAggregate, from time.Time) []Alert {
	var alerts []Alert
	window := daily
	if len(window) > thresholds.TrendWindowDays {
		window = window[:thresholds.TrendWindowDays]
	}

	for i := 1; i < len(window); i++ {
		prev, day := window[i-1], window[i]
		if !from.IsZero() && day.Date.Before(from.Truncate(24*time.Hour)) {
			continue
		}

		deltaMax := day.TempMax - prev.TempMax
		deltaMin := day.TempMin - prev.TempMin
		delta := deltaMax
		if absFloat(deltaMin) > absFloat(deltaMax) {
			delta = deltaMin
		}
		if absFloat(delta) <= thresholds.TrendDeltaC {
			continue
		}

		severity := SeverityModerate
		if absFloat(delta) > thresholds.TrendDeltaHighC {
			severity = SeverityHigh
		}
		direction := "Warming"
		if delta < 0 {
			direction = "Cooling"
		}
		alerts = append(alerts, Alert{
			Type:     TypeTempTrend,
			Severity: severity,
			StartsAt: day.Date,
			EndsAt:   day.Date.AddDate(0, 0, 1),
			Message:  fmt.Sprintf("%s trend: %.1f°C swing versus the previous day", direction, delta),
		})
	}
	return alerts
}

// accumulationAlerts flags days whose cumulative rainfall crosses the
// accumulation threshold
func accumulationAlerts(daily []ports.DailyAggregate) []Alert {
	var alerts []Alert
	for _, day := range daily {
		if day.PrecipSumMm < thresholds.AccumulationMm {
			continue
		}
		alerts = append(alerts, Alert{
			Type:     TypeRain,
			Severity: SeverityHigh,
			StartsAt: day.Date,
			EndsAt:   day.Date.AddDate(0, 0, 1),
			Message:  fmt.Sprintf("Rain accumulation of %.0f mm expected over the day", day.PrecipSumMm),
		})
	}
	return alerts
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
