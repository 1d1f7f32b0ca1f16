package utils

import "github.com/golang/geo/s2"

// EarthRadiusMiles is the mean Earth radius used for great-circle distances.
const EarthRadiusMiles = 3958.8

// DistanceMiles returns the haversine great-circle distance in miles.
// Points are put in a canonical order first so the result is bit-for-bit
// symmetric.
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 > lat2 || (lat1 == lat2 && lon1 > lon2) {
		lat1, lon1, lat2, lon2 = lat2, lon2, lat1, lon1
	}
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMiles
}

// ValidateCoordinates checks that lat/lon are within WGS84 bounds
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateRadius checks the radius bounds (0.1 - 100 miles)
func ValidateRadius(radiusMiles float64) bool {
	return radiusMiles >= 0.1 && radiusMiles <= 100
}
