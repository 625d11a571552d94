package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldtour/internal/geo"
)

type point struct{ lat, lng float64 }

var samples = []point{
	{51.5072, 0},
	{35.6897, 139.6922},
	{-33.8688, 151.2093},
	{40.7128, -74.0060},
	{90, 0},
	{-90, 180},
	{0, 359.9},
}

func TestDistance_SamePointIsZero(t *testing.T) {
	for _, p := range samples {
		assert.InDelta(t, 0, geo.Distance(p.lat, p.lng, p.lat, p.lng), 1e-9, "%+v", p)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	for _, a := range samples {
		for _, b := range samples {
			ab := geo.Distance(a.lat, a.lng, b.lat, b.lng)
			ba := geo.Distance(b.lat, b.lng, a.lat, a.lng)
			assert.InDelta(t, ab, ba, 1e-6, "%+v -> %+v", a, b)
		}
	}
}

func TestDistance_BoundedByHalfCircumference(t *testing.T) {
	for _, a := range samples {
		for _, b := range samples {
			d := geo.Distance(a.lat, a.lng, b.lat, b.lng)
			require.GreaterOrEqual(t, d, 0.0)
			require.LessOrEqual(t, d, geo.HalfCircumferenceKm+1e-6)
		}
	}
	// antipodes hit the bound
	assert.InDelta(t, geo.HalfCircumferenceKm, geo.Distance(0, 0, 0, 180), 1e-6)
	assert.InDelta(t, 20015.0, geo.HalfCircumferenceKm, 1)
}

func TestDistance_KnownPair(t *testing.T) {
	// London -> Paris is roughly 344 km
	d := geo.Distance(51.5072, -0.1275, 48.8566, 2.3522)
	assert.InDelta(t, 344, d, 3)
}

func TestBearing(t *testing.T) {
	assert.InDelta(t, 90, geo.Bearing(0, 0, 0, 10), 1e-9)
	assert.InDelta(t, 0, geo.Bearing(0, 0, 10, 0), 1e-9)
	assert.InDelta(t, 270, geo.Bearing(0, 10, 0, 0), 1e-9)
}
