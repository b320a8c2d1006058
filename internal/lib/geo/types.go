package geo

import "github.com/paulmach/orb"

// Point represents a geographic coordinate in (latitude, longitude) order
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Orb converts the point to an orb.Point, which is ordered (longitude, latitude)
func (p Point) Orb() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// FromOrb converts an orb.Point (longitude, latitude) to a Point
func FromOrb(p orb.Point) Point {
	return Point{Latitude: p.Lat(), Longitude: p.Lon()}
}

// Interval is a parameter range [Start, End] along a single segment, 0 <= t <= 1
type Interval struct {
	Start float64
	End   float64
}
