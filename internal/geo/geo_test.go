package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_KnownPairs(t *testing.T) {
	t.Parallel()

	paris := Point{Lat: 48.8566, Lng: 2.3522}
	london := Point{Lat: 51.5074, Lng: -0.1278}

	d := Distance(paris, london)
	require.InDelta(t, 343.5, d, 2.0, "Paris-London should be ~343.5 km")

	// Distance is symmetric.
	assert.InDelta(t, d, Distance(london, paris), 1e-9)
}

func TestDistance_SamePoint(t *testing.T) {
	t.Parallel()

	p := Point{Lat: 40.7128, Lng: -74.0060}
	assert.Zero(t, Distance(p, p))
}

func TestWithinRadius_InclusiveBound(t *testing.T) {
	t.Parallel()

	center := Point{Lat: 0, Lng: 0}

	// ~111.19 km per degree of longitude at the equator.
	oneDegreeEast := Point{Lat: 0, Lng: 1}
	d := Distance(center, oneDegreeEast)

	assert.True(t, WithinRadius(center, oneDegreeEast, d), "exact distance is within radius")
	assert.True(t, WithinRadius(center, oneDegreeEast, d+0.1))
	assert.False(t, WithinRadius(center, oneDegreeEast, d-0.1))
}

func TestWithinRadius_FarPoint(t *testing.T) {
	t.Parallel()

	center := Point{Lat: 52.52, Lng: 13.405}   // Berlin
	far := Point{Lat: 52.2297, Lng: 21.0122}   // Warsaw, ~516 km away
	near := Point{Lat: 52.3906, Lng: 13.0645}  // Potsdam, ~26 km away

	assert.False(t, WithinRadius(center, far, 100))
	assert.True(t, WithinRadius(center, near, 30))
}
