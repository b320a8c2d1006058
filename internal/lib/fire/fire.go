// Package fire normalizes wildfire perimeters and filters them against a
// trail's proximity zone and state borders.
package fire

import (
	"errors"
	"fmt"
	"slices"

	"github.com/paulmach/orb"

	"github.com/dpup/trailfire/server/internal/lib/geo"
)

// ErrMalformedGeometry is returned for a fire whose outer ring is degenerate.
// The fire is skipped and the remaining fires are still processed.
var ErrMalformedGeometry = errors.New("malformed fire geometry")

// NonUS labels fires that fall inside none of the configured state borders
const NonUS = "Non U.S."

// RawFireRecord is a fire as delivered by the wildfire data source. Ring
// coordinates are [longitude, latitude] pairs and Rings[0] is the outer ring.
type RawFireRecord struct {
	Name        string         `json:"name"`
	Acres       *float64       `json:"acres,omitempty"`
	Containment *float64       `json:"containment,omitempty"`
	Rings       [][][2]float64 `json:"rings"`
}

// Attributes describe a fire for reporting
type Attributes struct {
	Name        string   `json:"name"`
	Acres       *float64 `json:"acres,omitempty"`
	Containment *float64 `json:"containment,omitempty"`
	States      []string `json:"states,omitempty"`
}

// FirePolygon is a closed, counter-clockwise perimeter in (lat, lon) order
type FirePolygon struct {
	ID         int         `json:"id"`
	Attributes Attributes  `json:"attributes"`
	Ring       []geo.Point `json:"ring"`
}

// Clone returns a deep copy
func (f FirePolygon) Clone() FirePolygon {
	f.Ring = slices.Clone(f.Ring)
	f.Attributes.States = slices.Clone(f.Attributes.States)
	return f
}

// Normalize converts a raw record into a FirePolygon. Only the outer ring is
// used; holes and additional parts are discarded.
func Normalize(id int, raw RawFireRecord) (FirePolygon, error) {
	if len(raw.Rings) == 0 {
		return FirePolygon{}, fmt.Errorf("%w: %q has no rings", ErrMalformedGeometry, raw.Name)
	}

	outer := raw.Rings[0]
	ring := make(orb.Ring, 0, len(outer)+1)
	for _, coord := range outer {
		ring = append(ring, orb.Point{coord[0], coord[1]})
	}

	// orb's Closed needs four points, so compare the endpoints directly
	closed := len(ring) > 1 && ring[0] == ring[len(ring)-1]
	distinct := len(ring)
	if closed {
		distinct--
	}
	if distinct < 3 {
		return FirePolygon{}, fmt.Errorf("%w: %q outer ring has %d points", ErrMalformedGeometry, raw.Name, distinct)
	}

	if !closed {
		ring = append(ring, ring[0])
	}
	if ring.Orientation() == orb.CW {
		ring.Reverse()
	}

	points := make([]geo.Point, len(ring))
	for i, p := range ring {
		points[i] = geo.FromOrb(p)
	}

	return FirePolygon{
		ID: id,
		Attributes: Attributes{
			Name:        raw.Name,
			Acres:       raw.Acres,
			Containment: raw.Containment,
		},
		Ring: points,
	}, nil
}

// NormalizeAll normalizes every record, skipping malformed ones. IDs are the
// record's index in raws.
func NormalizeAll(raws []RawFireRecord) ([]FirePolygon, []error) {
	fires := make([]FirePolygon, 0, len(raws))
	var errs []error
	for i, raw := range raws {
		f, err := Normalize(i, raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fires = append(fires, f)
	}
	return fires, errs
}
