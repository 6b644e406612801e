// Package geo holds the great-circle distance math and the home-city registry.
package geo

import (
	"fmt"
	"math"
	"strconv"
)

const earthRadiusKm = 6371.0

// Distance returns the haversine distance in kilometers between two points given
// in degrees, rounded to the nearest whole kilometer. Filters and sort keys work
// on this rounded value.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push a past 1 for antipodal points
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return math.Round(earthRadiusKm * c)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceLabel bands a distance for display.
func DistanceLabel(km float64) string {
	switch {
	case km < 1:
		return "Less than 1 km"
	case km < 10:
		return strconv.FormatFloat(km, 'f', -1, 64) + " km"
	case km < 50:
		return fmt.Sprintf("~%d km", roundTo(km, 5))
	case km < 100:
		return fmt.Sprintf("~%d km", roundTo(km, 10))
	default:
		return fmt.Sprintf("%d km", int64(math.Round(km)))
	}
}

func roundTo(km float64, step int64) int64 {
	return int64(math.Round(km/float64(step))) * step
}
