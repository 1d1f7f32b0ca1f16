package utils

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// haversine is an independent reference implementation of the formula.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Pow(math.Sin(dLon/2), 2)
	return EarthRadiusMiles * 2 * math.Asin(math.Sqrt(a))
}

func TestDistanceMiles_KnownPairs(t *testing.T) {
	// London -> Manchester is roughly 163 miles on a sphere
	d := DistanceMiles(51.5074, -0.1278, 53.4808, -2.2426)
	assert.InDelta(t, 163, d, 2)

	// one degree of latitude
	assert.InDelta(t, EarthRadiusMiles*math.Pi/180, DistanceMiles(10, 20, 11, 20), 1e-9)
}

func TestDistanceMiles_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		lat1, lon1 := rng.Float64()*180-90, rng.Float64()*360-180
		lat2, lon2 := rng.Float64()*180-90, rng.Float64()*360-180

		ab := DistanceMiles(lat1, lon1, lat2, lon2)
		ba := DistanceMiles(lat2, lon2, lat1, lon1)

		assert.Equal(t, ab, ba, "distance must be symmetric")
		assert.Zero(t, DistanceMiles(lat1, lon1, lat1, lon1))
		assert.InDelta(t, haversine(lat1, lon1, lat2, lon2), ab, 1e-6)
		assert.LessOrEqual(t, ab, EarthRadiusMiles*math.Pi+1e-9)
	}
}

func TestDistanceMiles_Monotonic(t *testing.T) {
	prev := 0.0
	for step := 1; step <= 180; step++ {
		d := DistanceMiles(0, 0, 0, float64(step))
		assert.Greater(t, d, prev, "step %d", step)
		prev = d
	}
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(51.5, -0.12))
	assert.True(t, ValidateCoordinates(-90, 180))
	assert.False(t, ValidateCoordinates(91, 0))
	assert.False(t, ValidateCoordinates(0, -181))
}

func TestValidateRadius(t *testing.T) {
	assert.True(t, ValidateRadius(0.1))
	assert.True(t, ValidateRadius(100))
	assert.False(t, ValidateRadius(0.05))
	assert.False(t, ValidateRadius(100.5))
}
