package geospatial

import (
	"math"
	"time"

	"github.com/samirrijal/skysurvey/internal/core/coverage"
)

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// PathLength sums the haversine length of consecutive legs of a path whose
// points are (lon, lat). Used for display estimates only.
func PathLength(path coverage.Path) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		total += Haversine(a.Y, a.X, b.Y, b.X)
	}
	return total
}

// FlightDuration estimates the time to fly distanceMeters at speed m/s.
// A non-positive speed yields zero.
func FlightDuration(distanceMeters, speed float64) time.Duration {
	if speed <= 0 {
		return 0
	}
	return time.Duration(distanceMeters / speed * float64(time.Second))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
