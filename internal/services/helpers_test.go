package services

import (
	"math"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/dpup/trailfire/server/internal/config"
	"github.com/dpup/trailfire/server/internal/lib/fire"
	"github.com/dpup/trailfire/server/internal/lib/geo"
	"github.com/dpup/trailfire/server/internal/lib/trail"
)

// degreesPerMile along a meridian on the haversine sphere
var degreesPerMile = 180 / (math.Pi * geo.EarthRadiusMiles)

// latAtMile is the latitude of mile m on the test trail
func latAtMile(m float64) float64 {
	return 38 + m*degreesPerMile
}

var colorado = fire.Border{
	Name: "Colorado",
	Polygon: orb.Polygon{{
		{-109.05, 37}, {-102.05, 37}, {-102.05, 41}, {-109.05, 41}, {-109.05, 37},
	}},
}

func testFiresConfig() config.FiresConfig {
	return config.FiresConfig{
		RefreshInterval: time.Hour,
		RetryDelay:      time.Millisecond,
		RadiusMiles:     50,
		Workers:         2,
	}
}

// testTrail runs 200 miles north along -106 from latitude 38 with a vertex
// every 0.2 miles
func testTrail(t *testing.T) *TrackedTrail {
	t.Helper()
	points := make([]geo.Point, 1001)
	for i := range points {
		points[i] = geo.Point{Latitude: latAtMile(float64(i) * 0.2), Longitude: -106}
	}
	tr, err := trail.Build(points, trail.Definition{Code: "CT", Name: "Colorado Trail", States: []string{"Colorado"}})
	require.NoError(t, err)

	tt, err := NewTrackedTrail(tr, fire.Borders{colorado}, 50)
	require.NoError(t, err)
	return tt
}

func testTracker(t *testing.T) *FireTracker {
	t.Helper()
	return NewFireTracker([]*TrackedTrail{testTrail(t)}, testFiresConfig())
}

func testResolver() *trail.Resolver {
	return trail.NewResolver(map[string]string{"Colorado Trail": "CT"})
}

func ptr(v float64) *float64 { return &v }

func rectRecord(name string, minLat, minLon, maxLat, maxLon float64) fire.RawFireRecord {
	return fire.RawFireRecord{
		Name: name,
		Rings: [][][2]float64{{
			{minLon, minLat}, {maxLon, minLat}, {maxLon, maxLat}, {minLon, maxLat}, {minLon, minLat},
		}},
	}
}

// testFires holds one crossing, one proximate and one distant fire
func testFires() []fire.RawFireRecord {
	crossing := rectRecord("Spring Creek", latAtMile(103.25), -106.1, latAtMile(120.75), -105.9)
	crossing.Acres = ptr(12450.4)
	crossing.Containment = ptr(35)

	nearby := rectRecord("Nearby", latAtMile(50), -105.6, latAtMile(52), -105.5)
	nearby.Acres = ptr(880)

	distant := rectRecord("Distant", latAtMile(100), -100.2, latAtMile(110), -100)

	return []fire.RawFireRecord{crossing, nearby, distant}
}
