package geo

import "math"

// earthRadiusKm is the mean Earth radius used for great-circle distances
const earthRadiusKm = 6371.0

// Haversine computes the great-circle distance in kilometers between two
// coordinate pairs given in degrees. The result is symmetric and zero iff
// both points coincide.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
