package forecast

// Composite code assembly is table-driven: bucket boundaries and code rules
// are business-defined data, reviewable and changeable without touching the
// classification algorithm.

const (
	MinCompositeCode = 100
	MaxCompositeCode = 999
)

// Bucket boundaries. Each slice lists the lower bound of bands 1..n; a value
// below the first bound falls into band 0.
var (
	// rainfall intensity bands over [0,100]: none, light, moderate, high, extreme
	rainBandBounds = []float64{10, 35, 60, 90}

	// wind speed bands in km/h: calm, breezy, strong, extreme
	windBandBounds = []float64{20, 40, 70}

	// cloud cover bands in percent: clear, scattered, broken, overcast
	cloudBandBounds = []float64{25, 50, 85}

	// visibility bands in meters, inverted: good, reduced, poor, very poor
	visBandBounds = []float64{10000, 4000, 1000}
)

// bandOf returns the band index for a value against ascending lower bounds
func bandOf(value float64, bounds []float64) int {
	band := 0
	for _, bound := range bounds {
		if value >= bound {
			band++
		}
	}
	return band
}

// visBandOf returns the visibility band; lower visibility means a higher band
func visBandOf(visibilityM float64) int {
	band := 0
	for _, bound := range visBandBounds {
		if visibilityM < bound {
			band++
		}
	}
	return band
}

// codeRule matches bucketed sub-scores to a base code range. Rules are
// evaluated in order; the first rule whose minimum bands are all met wins.
// Zero minimums mean the dimension does not constrain the rule.
type codeRule struct {
	name     string
	minRain  int
	minWind  int
	minCloud int
	minVis   int
	base     int
}

// codeRules is ordered most severe first so that, for example, heavy rain
// with storm winds never lands in a plain rain range.
var codeRules = []codeRule{
	{name: "storm", minRain: 3, minWind: 2, base: 900},
	{name: "heavy_rain", minRain: 3, base: 800},
	{name: "rain", minRain: 2, base: 600},
	{name: "drizzle", minRain: 1, base: 500},
	{name: "fog", minVis: 2, base: 400},
	{name: "windy", minWind: 2, base: 300},
	{name: "overcast", minCloud: 2, base: 200},
	{name: "clear", base: 100},
}

// Per-band offsets within a rule's code range. The maximum offset is
// 3*20 + 3*6 + 3*2 = 84, which keeps every code inside [base, base+84].
const (
	windOffsetStep  = 20
	cloudOffsetStep = 6
	visOffsetStep   = 2
)

// compositeCode assembles the final code from bucketed sub-scores
func compositeCode(rainBand, windBand, cloudBand, visBand int) int {
	for _, rule := range codeRules {
		if rainBand >= rule.minRain && windBand >= rule.minWind &&
			cloudBand >= rule.minCloud && visBand >= rule.minVis {
			code := rule.base + windBand*windOffsetStep + cloudBand*cloudOffsetStep + visBand*visOffsetStep
			if code > MaxCompositeCode {
				code = MaxCompositeCode
			}
			return code
		}
	}
	return MinCompositeCode
}
