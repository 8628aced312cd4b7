package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers
)

// HaversineDistance calculates the great-circle distance between two points
// in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// DegreeDistance returns the planar distance between two points in degrees.
// Lookup radii for the speed-limit index are specified in degrees, so
// radius membership is decided in degree space.
func DegreeDistance(lat1, lon1, lat2, lon2 float64) float64 {
	return math.Hypot(lat2-lat1, lon2-lon1)
}

// DegreeBox returns the bounding box (minLat, maxLat, minLon, maxLon) of a
// square with half-side radiusDeg centered on the given point. Used to
// prefilter index range scans before distance ranking.
func DegreeBox(lat, lon, radiusDeg float64) (float64, float64, float64, float64) {
	return lat - radiusDeg, lat + radiusDeg, lon - radiusDeg, lon + radiusDeg
}

// RoundCoordinate rounds a coordinate to the given number of decimal digits.
func RoundCoordinate(v float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(v*scale) / scale
}
