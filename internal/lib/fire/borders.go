package fire

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/dpup/trailfire/server/internal/lib/geo"
)

// Border is a named state boundary in (lon, lat) coordinates
type Border struct {
	Name    string
	Polygon orb.Polygon
}

// Contains reports whether the border encloses p
func (b Border) Contains(p geo.Point) bool {
	return planar.PolygonContains(b.Polygon, p.Orb())
}

// Borders is an ordered set of state borders
type Borders []Border

// Select returns the borders named in states, in the order given. Unknown
// names are ignored.
func (b Borders) Select(states []string) Borders {
	byName := make(map[string]Border, len(b))
	for _, border := range b {
		byName[border.Name] = border
	}

	selected := make(Borders, 0, len(states))
	for _, name := range states {
		if border, ok := byName[name]; ok {
			selected = append(selected, border)
		}
	}
	return selected
}

// Names lists border names in order
func (b Borders) Names() []string {
	names := make([]string, len(b))
	for i, border := range b {
		names[i] = border.Name
	}
	return names
}
