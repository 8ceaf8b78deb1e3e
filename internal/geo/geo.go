// Package geo provides great-circle distance calculations.
package geo

import (
	"math"

	"github.com/aroundme/aroundme/internal/model"
)

// EarthRadiusMeters is the mean Earth radius used by the Haversine formula.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two
// coordinate pairs using the Haversine formula.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlng1 := lng1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	rlng2 := lng2 * math.Pi / 180

	dlat := rlat2 - rlat1
	dlng := rlng2 - rlng1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return c * EarthRadiusMeters
}

// Between returns the distance in meters between two coordinate pairs,
// or false when either is missing.
func Between(a, b *model.Coordinates) (float64, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	return Distance(a.Lat, a.Lng, b.Lat, b.Lng), true
}
