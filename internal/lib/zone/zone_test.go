package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/trailfire/server/internal/lib/geo"
	"github.com/dpup/trailfire/server/internal/lib/trail"
)

func testTrail(t *testing.T) *trail.Trail {
	t.Helper()
	tr, err := trail.Build([]geo.Point{
		{Latitude: 38, Longitude: -106},
		{Latitude: 39, Longitude: -106},
		{Latitude: 40, Longitude: -106},
	}, trail.Definition{Code: "CT"})
	require.NoError(t, err)
	return tr
}

// square returns a ring of half-width h degrees centred on (lat, lon)
func square(lat, lon, h float64) []geo.Point {
	return []geo.Point{
		{Latitude: lat - h, Longitude: lon - h},
		{Latitude: lat - h, Longitude: lon + h},
		{Latitude: lat + h, Longitude: lon + h},
		{Latitude: lat + h, Longitude: lon - h},
	}
}

func TestNewBuffer_InvalidRadius(t *testing.T) {
	tr := testTrail(t)
	for _, r := range []float64{0, -5} {
		_, err := NewBuffer(tr, r)
		assert.ErrorIs(t, err, ErrInvalidRadius)
	}
}

func TestBuffer_Contains(t *testing.T) {
	// 69 miles is one degree
	b, err := NewBuffer(testTrail(t), 69)
	require.NoError(t, err)

	assert.Equal(t, 69.0, b.RadiusMiles())
	assert.True(t, b.Contains(geo.Point{Latitude: 39, Longitude: -106}))
	assert.True(t, b.Contains(geo.Point{Latitude: 39, Longitude: -105.1}))
	assert.False(t, b.Contains(geo.Point{Latitude: 39, Longitude: -104.5}))
	assert.True(t, b.Contains(geo.Point{Latitude: 40.9, Longitude: -106}), "Capsule extends past the end")
	assert.False(t, b.Contains(geo.Point{Latitude: 40.8, Longitude: -105.2}), "Capsule ends are rounded")
}

func TestBuffer_Bound(t *testing.T) {
	b, err := NewBuffer(testTrail(t), 69)
	require.NoError(t, err)
	bound := b.Bound()
	assert.InDelta(t, -107.0, bound.Min[0], 1e-9)
	assert.InDelta(t, 37.0, bound.Min[1], 1e-9)
	assert.InDelta(t, -105.0, bound.Max[0], 1e-9)
	assert.InDelta(t, 41.0, bound.Max[1], 1e-9)
}

func TestBuffer_Intersects(t *testing.T) {
	b, err := NewBuffer(testTrail(t), 50)
	require.NoError(t, err)

	tests := []struct {
		name string
		ring []geo.Point
		want bool
	}{
		{"straddles the trail", square(39, -106, 0.1), true},
		{"within radius", square(39, -105.5, 0.1), true},
		{"just outside radius", square(39, -104.8, 0.1), false},
		{"far away", square(45, -120, 0.5), false},
		{"encloses the whole trail", square(39, -106, 5), true},
		{"empty ring", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Intersects(tt.ring))
		})
	}
}
