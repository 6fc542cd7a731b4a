package matching

import (
	"math"

	"github.com/debnit/MsmeBazaar-sub003/internal/refdata"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two coordinates in
// kilometres.
func HaversineKm(a, b refdata.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// proximityScore converts a distance between two resolved places into the
// [0,1] locationProximity factor.  Distance bands widen with the practical
// reach of an on-site acquisition.
func proximityScore(distanceKm float64) float64 {
	switch {
	case distanceKm <= 50:
		return 1.0
	case distanceKm <= 100:
		return 0.8
	case distanceKm <= 200:
		return 0.6
	case distanceKm <= 300:
		return 0.4
	default:
		return 0.2
	}
}
