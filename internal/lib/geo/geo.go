package geo

import (
	"errors"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/twpayne/go-polyline"
)

// EarthRadiusMiles is the sphere radius used for every distance in the system.
// Report rounding depends on this exact value.
const EarthRadiusMiles = 3959.87433

// MilesPerDegree approximates one degree of arc when inflating geometry
const MilesPerDegree = 69.0

// Distance calculates the great-circle distance in miles between two points
// using the haversine formula
func Distance(a, b Point) float64 {
	return DistanceFromCoords(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// DistanceFromCoords calculates distance in miles between two coordinate pairs
func DistanceFromCoords(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)
	rLat1 := radians(lat1)
	rLat2 := radians(lat2)

	a := math.Pow(math.Sin(dLat/2), 2) + math.Cos(rLat1)*math.Cos(rLat2)*math.Pow(math.Sin(dLon/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))
	return EarthRadiusMiles * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// NewPoint creates a Point from latitude and longitude values with validation
func NewPoint(latitude, longitude float64) (Point, error) {
	point := Point{Latitude: latitude, Longitude: longitude}
	if !IsValidCoordinate(point) {
		return Point{}, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}
	return point, nil
}

// IsValidCoordinate validates latitude and longitude values
func IsValidCoordinate(point Point) bool {
	return point.Latitude >= -90 && point.Latitude <= 90 &&
		point.Longitude >= -180 && point.Longitude <= 180 &&
		!math.IsNaN(point.Latitude) && !math.IsNaN(point.Longitude)
}

// DecodePolyline decodes a Google polyline string to a point sequence
func DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.New("failed to decode polyline: " + err.Error())
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{Latitude: coord[0], Longitude: coord[1]}
		if !IsValidCoordinate(points[i]) {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}
	return points, nil
}

// Bound returns the planar bounding box of the points
func Bound(points []Point) orb.Bound {
	if len(points) == 0 {
		return orb.Bound{}
	}
	b := orb.Bound{Min: points[0].Orb(), Max: points[0].Orb()}
	for _, p := range points[1:] {
		b = b.Extend(p.Orb())
	}
	return b
}

// Ring converts points to an orb.Ring. The ring is closed if it is not already.
func Ring(points []Point) orb.Ring {
	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, p.Orb())
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// RingContains reports whether the point lies inside the closed ring.
// Points on the boundary are treated as inside.
func RingContains(ring orb.Ring, p Point) bool {
	return planar.RingContains(ring, p.Orb())
}

// Lerp interpolates linearly between a and b in degree space. The endpoints
// are returned exactly for t == 0 and t == 1.
func Lerp(a, b Point, t float64) Point {
	switch t {
	case 0:
		return a
	case 1:
		return b
	}
	return Point{
		Latitude:  a.Latitude + t*(b.Latitude-a.Latitude),
		Longitude: a.Longitude + t*(b.Longitude-a.Longitude),
	}
}

// SegmentIntersection returns the parameter t along segment a->b at which it
// meets segment c->d, treating coordinates as planar. Parallel segments do not
// intersect.
func SegmentIntersection(a, b, c, d Point) (float64, bool) {
	rx, ry := b.Longitude-a.Longitude, b.Latitude-a.Latitude
	sx, sy := d.Longitude-c.Longitude, d.Latitude-c.Latitude

	denom := rx*sy - ry*sx
	if denom == 0 {
		return 0, false
	}

	qx, qy := c.Longitude-a.Longitude, c.Latitude-a.Latitude
	t := (qx*sy - qy*sx) / denom
	u := (qx*ry - qy*rx) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return 0, false
	}
	return t, true
}

// SegmentsIntersect reports whether segments a->b and c->d touch or cross
func SegmentsIntersect(a, b, c, d Point) bool {
	o1 := orientation(a, b, c)
	o2 := orientation(a, b, d)
	o3 := orientation(c, d, a)
	o4 := orientation(c, d, b)

	if o1 != o2 && o3 != o4 {
		return true
	}

	// Collinear special cases
	if o1 == 0 && onSegment(a, c, b) {
		return true
	}
	if o2 == 0 && onSegment(a, d, b) {
		return true
	}
	if o3 == 0 && onSegment(c, a, d) {
		return true
	}
	if o4 == 0 && onSegment(c, b, d) {
		return true
	}
	return false
}

func orientation(a, b, c Point) int {
	v := (b.Latitude-a.Latitude)*(c.Longitude-b.Longitude) - (b.Longitude-a.Longitude)*(c.Latitude-b.Latitude)
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// onSegment reports whether q lies within the bounding box of p->r
func onSegment(p, q, r Point) bool {
	return q.Longitude <= math.Max(p.Longitude, r.Longitude) && q.Longitude >= math.Min(p.Longitude, r.Longitude) &&
		q.Latitude <= math.Max(p.Latitude, r.Latitude) && q.Latitude >= math.Min(p.Latitude, r.Latitude)
}

// PointToSegmentDegrees returns the planar distance, in degrees, from p to the
// segment a->b
func PointToSegmentDegrees(p, a, b Point) float64 {
	dx, dy := b.Longitude-a.Longitude, b.Latitude-a.Latitude
	if dx == 0 && dy == 0 {
		return math.Hypot(p.Longitude-a.Longitude, p.Latitude-a.Latitude)
	}

	t := ((p.Longitude-a.Longitude)*dx + (p.Latitude-a.Latitude)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))
	proj := Lerp(a, b, t)
	return math.Hypot(p.Longitude-proj.Longitude, p.Latitude-proj.Latitude)
}

// SegmentDistanceDegrees returns the planar distance, in degrees, between two
// segments. Intersecting segments are 0 apart.
func SegmentDistanceDegrees(a, b, c, d Point) float64 {
	if SegmentsIntersect(a, b, c, d) {
		return 0
	}
	return math.Min(
		math.Min(PointToSegmentDegrees(a, c, d), PointToSegmentDegrees(b, c, d)),
		math.Min(PointToSegmentDegrees(c, a, b), PointToSegmentDegrees(d, a, b)),
	)
}

// ClipPolyline returns the parts of the polyline that lie inside the ring, in
// polyline order. Each part starts at its entry point, carries every interior
// vertex and ends at its exit point. A polyline only touching the ring
// boundary produces no parts.
func ClipPolyline(line []Point, ring []Point) [][]Point {
	if len(line) < 2 || len(ring) < 3 {
		return nil
	}

	closed := Ring(ring)
	ringBound := closed.Bound()

	var parts [][]Point
	var current []Point

	flush := func() {
		if len(current) >= 2 {
			parts = append(parts, current)
		}
		current = nil
	}

	for i := 0; i < len(line)-1; i++ {
		a, b := line[i], line[i+1]

		segBound := Bound([]Point{a, b})
		if !segBound.Intersects(ringBound) {
			flush()
			continue
		}

		for _, in := range insideIntervals(a, b, closed) {
			start := Lerp(a, b, in.Start)
			end := Lerp(a, b, in.End)

			// A part continues across a vertex only when the previous
			// interval ended exactly where this one starts.
			if len(current) > 0 && !(in.Start == 0 && current[len(current)-1] == start) {
				flush()
			}
			if len(current) == 0 {
				current = append(current, start)
			}
			current = append(current, end)
			if in.End < 1 {
				flush()
			}
		}
		if len(current) > 0 && current[len(current)-1] != b {
			flush()
		}
	}
	flush()

	return parts
}

// insideIntervals splits segment a->b at every crossing with the ring and
// returns the sub-intervals whose midpoints fall inside it
func insideIntervals(a, b Point, ring orb.Ring) []Interval {
	ts := []float64{0, 1}
	for j := 0; j < len(ring)-1; j++ {
		c, d := FromOrb(ring[j]), FromOrb(ring[j+1])
		if t, ok := SegmentIntersection(a, b, c, d); ok {
			ts = append(ts, t)
		}
	}
	sort.Float64s(ts)

	var intervals []Interval
	for k := 0; k < len(ts)-1; k++ {
		t0, t1 := ts[k], ts[k+1]
		if t1-t0 <= 1e-12 {
			continue
		}
		mid := Lerp(a, b, (t0+t1)/2)
		if !planar.RingContains(ring, mid.Orb()) {
			continue
		}
		// Merge with the previous interval when contiguous
		if n := len(intervals); n > 0 && intervals[n-1].End == t0 {
			intervals[n-1].End = t1
			continue
		}
		intervals = append(intervals, Interval{Start: t0, End: t1})
	}
	return intervals
}
