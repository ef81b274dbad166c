package alerts

import (
	"testing"
	"time"

	"climacast.app/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rulesBase = time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

// calmSample is an hour that triggers no rule at all
func calmSample(hour int) ports.HourlySample {
	return ports.HourlySample{
		Timestamp:   rulesBase.Add(time.Duration(hour) * time.Hour),
		TempC:       15,
		HumidityPct: 50,
		VisibilityM: 20000,
	}
}

func calmHours(n int) []ports.HourlySample {
	samples := make([]ports.HourlySample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, calmSample(i))
	}
	return samples
}

func alertsOfType(list []Alert, alertType Type) []Alert {
	var out []Alert
	for _, a := range list {
		if a.Type == alertType {
			out = append(out, a)
		}
	}
	return out
}

func TestGenerate_CalmWindowYieldsNoAlerts(t *testing.T) {
	alerts := Generate(calmHours(24), nil, nil)
	assert.Empty(t, alerts)
}

func TestGenerate_SustainedRainAndStorm(t *testing.T) {
	hourly := calmHours(6)
	for i := 1; i <= 3; i++ {
		hourly[i].PrecipProbability = 0.95
		hourly[i].PrecipVolumeMm = 8
		hourly[i].WindSpeedKmh = 55
	}

	alerts := Generate(hourly, nil, nil)

	rain := alertsOfType(alerts, TypeRain)
	require.Len(t, rain, 1)
	assert.Equal(t, SeverityExtreme, rain[0].Severity)
	assert.Equal(t, rulesBase.Add(1*time.Hour), rain[0].StartsAt)
	assert.Equal(t, rulesBase.Add(4*time.Hour), rain[0].EndsAt)

	storm := alertsOfType(alerts, TypeStorm)
	require.Len(t, storm, 1)
	assert.Equal(t, SeverityExtreme, storm[0].Severity)
	assert.Equal(t, rain[0].StartsAt, storm[0].StartsAt)
	assert.Equal(t, rain[0].EndsAt, storm[0].EndsAt)

	// Wind stayed below its own threshold, the storm rule owns this span
	assert.Empty(t, alertsOfType(alerts, TypeWind))
}

func TestGenerate_SingleWetHourIsNotSustained(t *testing.T) {
	hourly := calmHours(6)
	hourly[2].PrecipProbability = 0.95
	hourly[2].PrecipVolumeMm = 10

	alerts := Generate(hourly, nil, nil)
	assert.Empty(t, alertsOfType(alerts, TypeRain))
}

func TestGenerate_WindSeverity(t *testing.T) {
	hourly := calmHours(8)
	hourly[1].WindSpeedKmh = 65
	hourly[2].WindSpeedKmh = 70

	hourly[6].WindSpeedKmh = 95

	alerts := Generate(hourly, nil, nil)
	wind := alertsOfType(alerts, TypeWind)
	require.Len(t, wind, 2)
	assert.Equal(t, SeverityModerate, wind[0].Severity)
	assert.Equal(t, SeverityExtreme, wind[1].Severity)
}

func TestGenerate_VisibilityNeedsACause(t *testing.T) {
	// Low visibility alone is not enough; it must coincide with heavy cloud
	// or meaningful rain
	lowVisOnly := calmHours(3)
	lowVisOnly[1].VisibilityM = 600

	alerts := Generate(lowVisOnly, nil, nil)
	assert.Empty(t, alertsOfType(alerts, TypeVisibility))

	foggy := calmHours(3)
	foggy[1].VisibilityM = 600
	foggy[1].CloudCoverPct = 85

	alerts = Generate(foggy, nil, nil)
	vis := alertsOfType(alerts, TypeVisibility)
	require.Len(t, vis, 1)
	assert.Equal(t, SeverityModerate, vis[0].Severity)
}

func TestGenerate_ColdAndSnow(t *testing.T) {
	hourly := calmHours(6)
	hourly[1].TempC = 2
	hourly[2].TempC = -1
	hourly[2].PrecipProbability = 0.4

	alerts := Generate(hourly, nil, nil)

	cold := alertsOfType(alerts, TypeCold)
	require.Len(t, cold, 1)
	assert.Equal(t, SeverityModerate, cold[0].Severity)

	snow := alertsOfType(alerts, TypeSnow)
	require.Len(t, snow, 1)
	assert.Equal(t, SeverityHigh, snow[0].Severity)
	assert.Equal(t, rulesBase.Add(2*time.Hour), snow[0].StartsAt)
}

func TestGenerate_NoSnowAboveFreezing(t *testing.T) {
	hourly := calmHours(4)
	hourly[1].TempC = 2
	hourly[1].PrecipProbability = 0.9
	hourly[1].PrecipVolumeMm = 3

	alerts := Generate(hourly, nil, nil)
	assert.Empty(t, alertsOfType(alerts, TypeSnow))
}

func TestGenerate_UVExtreme(t *testing.T) {
	daily := []ports.DailyAggregate{
		{Date: rulesBase, TempMin: 18, TempMax: 30, UVIndexMax: 10.9},
		{Date: rulesBase.AddDate(0, 0, 1), TempMin: 19, TempMax: 31, UVIndexMax: 11.2},
	}

	alerts := Generate(nil, daily, nil)
	uv := alertsOfType(alerts, TypeUV)
	require.Len(t, uv, 1)
	assert.Equal(t, SeverityExtreme, uv[0].Severity)
	assert.Equal(t, rulesBase.AddDate(0, 0, 1), uv[0].StartsAt)
	assert.Equal(t, rulesBase.AddDate(0, 0, 2), uv[0].EndsAt)
}

func TestGenerate_TemperatureTrend(t *testing.T) {
	daily := []ports.DailyAggregate{
		{Date: rulesBase, TempMin: 10, TempMax: 20},
		{Date: rulesBase.AddDate(0, 0, 1), TempMin: 12, TempMax: 30},
		{Date: rulesBase.AddDate(0, 0, 2), TempMin: 2, TempMax: 16},
	}

	alerts := Generate(nil, daily, nil)
	trend := alertsOfType(alerts, TypeTempTrend)
	require.Len(t, trend, 2)

	assert.Equal(t, SeverityModerate, trend[0].Severity)
	assert.Contains(t, trend[0].Message, "Warming")

	assert.Equal(t, SeverityHigh, trend[1].Severity)
	assert.Contains(t, trend[1].Message, "Cooling")
}

func TestGenerate_AccumulationMergesWithHourlyRain(t *testing.T) {
	hourly := calmHours(6)
	for i := 1; i <= 3; i++ {
		hourly[i].PrecipProbability = 0.95
		hourly[i].PrecipVolumeMm = 10
	}
	daily := []ports.DailyAggregate{
		{Date: rulesBase, TempMin: 12, TempMax: 18, PrecipSumMm: 60},
	}

	alerts := Generate(hourly, daily, nil)
	rain := alertsOfType(alerts, TypeRain)
	require.Len(t, rain, 1)

	// The day-long accumulation span absorbs the hourly run and keeps the
	// higher severity
	assert.Equal(t, rulesBase, rain[0].StartsAt)
	assert.Equal(t, rulesBase.AddDate(0, 0, 1), rain[0].EndsAt)
	assert.Equal(t, SeverityExtreme, rain[0].Severity)
}

func TestGenerate_Deterministic(t *testing.T) {
	hourly := calmHours(12)
	for i := 2; i <= 5; i++ {
		hourly[i].PrecipProbability = 0.9
		hourly[i].PrecipVolumeMm = 6
		hourly[i].WindSpeedKmh = 62
	}
	daily := []ports.DailyAggregate{
		{Date: rulesBase, TempMin: 10, TempMax: 20, PrecipSumMm: 55, UVIndexMax: 11.5},
	}

	first := Generate(hourly, daily, nil)
	second := Generate(hourly, daily, nil)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}
