package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/debnit/MsmeBazaar-sub003/internal/refdata"
)

func TestHaversineKm(t *testing.T) {
	mumbai := refdata.Coordinates{Lat: 19.0760, Lon: 72.8777}
	pune := refdata.Coordinates{Lat: 18.5204, Lon: 73.8567}
	delhi := refdata.Coordinates{Lat: 28.7041, Lon: 77.1025}

	assert.Zero(t, HaversineKm(mumbai, mumbai))
	assert.InDelta(t, 120, HaversineKm(mumbai, pune), 15)
	assert.InDelta(t, 1150, HaversineKm(mumbai, delhi), 50)

	// Symmetric in its arguments.
	assert.InDelta(t, HaversineKm(mumbai, pune), HaversineKm(pune, mumbai), 1e-9)
}

func TestProximityScoreBands(t *testing.T) {
	tests := []struct {
		distanceKm float64
		want       float64
	}{
		{0, 1.0},
		{50, 1.0},
		{50.1, 0.8},
		{100, 0.8},
		{150, 0.6},
		{200, 0.6},
		{250, 0.4},
		{300, 0.4},
		{301, 0.2},
		{2000, 0.2},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, proximityScore(tt.distanceKm), "distance %.1f km", tt.distanceKm)
	}
}
