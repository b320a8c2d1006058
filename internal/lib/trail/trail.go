// Package trail models a long-distance hiking trail as an immutable polyline
// with a cumulative mile-marker table.
package trail

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dpup/trailfire/server/internal/lib/geo"
)

// ErrInvalidTrailData is returned when a trail source yields fewer than two
// usable points. No report can be produced for such a trail.
var ErrInvalidTrailData = errors.New("invalid trail data")

// Definition describes how raw track points become a Trail
type Definition struct {
	Code   string
	Name   string
	States []string

	// Reverse flips source order so that mile 0 is the canonical terminus
	Reverse bool

	// MaxGapMiles drops any point further than this from the last kept point.
	// Zero disables the check.
	MaxGapMiles float64
}

// Trail is an ordered, immutable polyline plus its identifying attributes
type Trail struct {
	code   string
	name   string
	states []string
	points []geo.Point
}

// Build validates and normalizes track points into a Trail
func Build(points []geo.Point, def Definition) (*Trail, error) {
	coords := slices.Clone(points)
	if def.Reverse {
		slices.Reverse(coords)
	}
	if def.MaxGapMiles > 0 {
		coords = removeDistantPoints(coords, def.MaxGapMiles)
	}

	if len(coords) < 2 {
		return nil, fmt.Errorf("%w: trail %s has %d usable points, need at least 2", ErrInvalidTrailData, def.Code, len(coords))
	}

	return &Trail{
		code:   def.Code,
		name:   def.Name,
		states: slices.Clone(def.States),
		points: coords,
	}, nil
}

// removeDistantPoints skips points that jump more than maxGap miles from the
// previously kept point, which filters stray waypoints in track exports
func removeDistantPoints(coords []geo.Point, maxGap float64) []geo.Point {
	kept := make([]geo.Point, 0, len(coords))
	for _, p := range coords {
		if len(kept) > 0 && geo.Distance(kept[len(kept)-1], p) > maxGap {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// Code returns the short trail code, e.g. "CT"
func (t *Trail) Code() string { return t.code }

// Name returns the display name, e.g. "Colorado Trail"
func (t *Trail) Name() string { return t.name }

// States returns the states within reach of the trail, in configured order
func (t *Trail) States() []string { return slices.Clone(t.states) }

// Len returns the number of coordinates
func (t *Trail) Len() int { return len(t.points) }

// Points returns a copy of the trail coordinates from mile 0 onward
func (t *Trail) Points() []geo.Point { return slices.Clone(t.points) }

// Start returns the mile 0 coordinate
func (t *Trail) Start() geo.Point { return t.points[0] }

// End returns the final coordinate
func (t *Trail) End() geo.Point { return t.points[len(t.points)-1] }
