// Package zone builds the proximity zone around a trail: the set of points
// within a fixed radius of any trail segment.
package zone

import (
	"errors"
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/dpup/trailfire/server/internal/lib/geo"
	"github.com/dpup/trailfire/server/internal/lib/trail"
)

// ErrInvalidRadius is returned for a non-positive or non-finite radius
var ErrInvalidRadius = errors.New("radius must be a positive number of miles")

// epsilon keeps query rectangles for degenerate geometry non-empty
const epsilon = 1e-9

// Buffer is the trail inflated by RadiusMiles/69 degrees in every direction.
// The union of per-segment capsules is held implicitly and indexed with an
// R-tree so intersection tests only visit nearby segments.
type Buffer struct {
	points  []geo.Point
	radius  float64
	degrees float64
	index   *rtreego.Rtree
	bound   orb.Bound
}

type segment struct {
	i    int
	rect rtreego.Rect
}

func (s *segment) Bounds() rtreego.Rect { return s.rect }

// NewBuffer indexes every trail segment for radius queries
func NewBuffer(t *trail.Trail, radiusMiles float64) (*Buffer, error) {
	if radiusMiles <= 0 || math.IsNaN(radiusMiles) || math.IsInf(radiusMiles, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRadius, radiusMiles)
	}

	b := &Buffer{
		points:  t.Points(),
		radius:  radiusMiles,
		degrees: radiusMiles / geo.MilesPerDegree,
		index:   rtreego.NewTree(2, 25, 50),
	}

	for i := 0; i < len(b.points)-1; i++ {
		rect, err := b.inflate(geo.Bound(b.points[i:i+2]), b.degrees)
		if err != nil {
			return nil, fmt.Errorf("indexing segment %d of %s: %w", i, t.Code(), err)
		}
		b.index.Insert(&segment{i: i, rect: rect})
	}

	bound := geo.Bound(b.points)
	b.bound = orb.Bound{
		Min: orb.Point{bound.Min[0] - b.degrees, bound.Min[1] - b.degrees},
		Max: orb.Point{bound.Max[0] + b.degrees, bound.Max[1] + b.degrees},
	}
	return b, nil
}

func (b *Buffer) inflate(bound orb.Bound, by float64) (rtreego.Rect, error) {
	origin := rtreego.Point{bound.Min[0] - by, bound.Min[1] - by}
	lengths := []float64{
		bound.Max[0] - bound.Min[0] + 2*by + epsilon,
		bound.Max[1] - bound.Min[1] + 2*by + epsilon,
	}
	return rtreego.NewRect(origin, lengths)
}

// RadiusMiles returns the configured radius
func (b *Buffer) RadiusMiles() float64 { return b.radius }

// Bound returns the bounding box of the whole zone in (lon, lat) order
func (b *Buffer) Bound() orb.Bound { return b.bound }

// candidates returns the indices of segments whose inflated box meets bound
func (b *Buffer) candidates(bound orb.Bound) []int {
	rect, err := b.inflate(bound, 0)
	if err != nil {
		return nil
	}
	hits := b.index.SearchIntersect(rect)
	out := make([]int, 0, len(hits))
	for _, hit := range hits {
		out = append(out, hit.(*segment).i)
	}
	return out
}

// Contains reports whether p lies within the zone
func (b *Buffer) Contains(p geo.Point) bool {
	for _, i := range b.candidates(geo.Bound([]geo.Point{p})) {
		if geo.PointToSegmentDegrees(p, b.points[i], b.points[i+1]) <= b.degrees {
			return true
		}
	}
	return false
}

// Intersects reports whether the polygon ring overlaps the zone. A ring overlaps
// when any edge comes within the radius of a trail segment, or when it
// encloses part of the trail.
func (b *Buffer) Intersects(ring []geo.Point) bool {
	if len(ring) == 0 {
		return false
	}

	closed := geo.Ring(ring)
	ringBound := closed.Bound()
	if !ringBound.Intersects(b.bound) {
		return false
	}

	candidates := b.candidates(ringBound)
	if len(candidates) == 0 {
		return false
	}

	for _, i := range candidates {
		a, c := b.points[i], b.points[i+1]
		if geo.RingContains(closed, a) || geo.RingContains(closed, c) {
			return true
		}
		for j := 0; j < len(closed)-1; j++ {
			p, q := geo.FromOrb(closed[j]), geo.FromOrb(closed[j+1])
			if geo.SegmentDistanceDegrees(a, c, p, q) <= b.degrees {
				return true
			}
		}
	}
	return false
}
