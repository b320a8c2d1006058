// Package proximity classifies filtered fires as crossing or proximate and
// locates them on the trail by mile marker.
package proximity

import (
	"math"

	"github.com/dpup/trailfire/server/internal/lib/fire"
	"github.com/dpup/trailfire/server/internal/lib/geo"
	"github.com/dpup/trailfire/server/internal/lib/trail"
)

// CrossingResult describes a fire perimeter that intersects the trail
type CrossingResult struct {
	FireID int `json:"fire_id"`

	// Points is every piece of the trail inside the fire, flattened in the
	// order the clip produced them
	Points []geo.Point `json:"points"`

	StartMile float64 `json:"start_mile"`
	EndMile   float64 `json:"end_mile"`
}

// IsRange is true when the crossing spans more than one mile
func (c *CrossingResult) IsRange() bool {
	return math.Abs(c.EndMile-c.StartMile) > 1
}

// Start returns the first intersection point
func (c *CrossingResult) Start() geo.Point { return c.Points[0] }

// End returns the last intersection point
func (c *CrossingResult) End() geo.Point { return c.Points[len(c.Points)-1] }

// Detect clips the trail against the fire perimeter. Start and end are the
// first and last points of the clip output, which for a fire crossing more
// than once need not be the lowest and highest miles. Trails that only touch
// the perimeter do not cross it.
func Detect(t *trail.Trail, markers *trail.MileMarkerTable, f fire.FirePolygon) (*CrossingResult, bool) {
	parts := geo.ClipPolyline(t.Points(), f.Ring)
	if len(parts) == 0 {
		return nil, false
	}

	var points []geo.Point
	for _, part := range parts {
		points = append(points, part...)
	}

	return &CrossingResult{
		FireID:    f.ID,
		Points:    points,
		StartMile: markers.ApproxMarker(points[0]),
		EndMile:   markers.ApproxMarker(points[len(points)-1]),
	}, true
}
