package trail

import (
	"math"
	"slices"

	"github.com/dpup/trailfire/server/internal/lib/geo"
)

// Marker pairs a trail coordinate with its cumulative distance from mile 0
type Marker struct {
	Point geo.Point `json:"point"`
	Mile  float64   `json:"mile"`
}

// MileMarkerTable maps each trail coordinate except the first to its
// cumulative mileage. A coordinate that appears more than once keeps its
// first position in the table and takes the latest mileage.
type MileMarkerTable struct {
	markers []Marker
	index   map[geo.Point]int
}

// MileMarkers walks consecutive coordinate pairs accumulating haversine
// distance
func MileMarkers(t *Trail) *MileMarkerTable {
	table := &MileMarkerTable{
		markers: make([]Marker, 0, len(t.points)-1),
		index:   make(map[geo.Point]int, len(t.points)-1),
	}

	var distance float64
	for i := 1; i < len(t.points); i++ {
		distance += geo.Distance(t.points[i-1], t.points[i])
		table.set(t.points[i], distance)
	}
	return table
}

func (m *MileMarkerTable) set(p geo.Point, mile float64) {
	if i, ok := m.index[p]; ok {
		m.markers[i].Mile = mile
		return
	}
	m.index[p] = len(m.markers)
	m.markers = append(m.markers, Marker{Point: p, Mile: mile})
}

// Len returns the number of markers
func (m *MileMarkerTable) Len() int { return len(m.markers) }

// Markers returns a copy of the table in trail order
func (m *MileMarkerTable) Markers() []Marker { return slices.Clone(m.markers) }

// Lookup returns the mileage stored for an exact trail coordinate
func (m *MileMarkerTable) Lookup(p geo.Point) (float64, bool) {
	i, ok := m.index[p]
	if !ok {
		return 0, false
	}
	return m.markers[i].Mile, true
}

// Total returns the mileage of the last marker
func (m *MileMarkerTable) Total() float64 {
	if len(m.markers) == 0 {
		return 0
	}
	return m.markers[len(m.markers)-1].Mile
}

// Nearest performs an exhaustive scan for the marker closest to p. Ties are
// resolved in favour of the first marker found.
func (m *MileMarkerTable) Nearest(p geo.Point) (Marker, bool) {
	if len(m.markers) == 0 {
		return Marker{}, false
	}

	best := 0
	least := math.Inf(1)
	for i, marker := range m.markers {
		if d := geo.Distance(p, marker.Point); d < least {
			least = d
			best = i
		}
	}
	return m.markers[best], true
}

// ApproxMarker maps an arbitrary coordinate to the mileage of the nearest
// marker
func (m *MileMarkerTable) ApproxMarker(p geo.Point) float64 {
	marker, _ := m.Nearest(p)
	return marker.Mile
}
