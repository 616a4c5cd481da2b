package utils

import (
	"math"
	"strconv"
)

const earthRadiusMeters = 6371000.0

// ParseCoordinate converts stringified decimal degrees into floats. The
// second return is false when either value is empty or non-numeric.
func ParseCoordinate(latitude, longitude string) (float64, float64, bool) {
	lat, err := strconv.ParseFloat(latitude, 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(longitude, 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// DistanceMeters returns the great-circle distance between two coordinates
// using the haversine formula.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
