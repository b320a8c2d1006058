// Package borders loads U.S. state boundaries from GeoJSON
package borders

import (
	"fmt"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/dpup/trailfire/server/internal/lib/fire"
)

// NameProperty is the feature property holding the state name, matching the
// Census TIGER state files
const NameProperty = "NAME"

// LoadFile reads a GeoJSON feature collection of state borders in WGS84
func LoadFile(path string) (fire.Borders, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read borders %s: %w", path, err)
	}
	return Parse(data)
}

// Parse converts state features to borders. A multi-part state keeps only its
// largest part. Features without a name or polygon geometry are skipped.
func Parse(data []byte) (fire.Borders, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse borders: %w", err)
	}

	borders := make(fire.Borders, 0, len(fc.Features))
	seen := make(map[string]bool)
	for _, f := range fc.Features {
		name := f.Properties.MustString(NameProperty, "")
		if name == "" {
			continue
		}
		if seen[name] {
			return nil, fmt.Errorf("state %s has multiple borders", name)
		}

		var polygon orb.Polygon
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			polygon = g
		case orb.MultiPolygon:
			polygon = largest(g)
		default:
			continue
		}
		if len(polygon) == 0 {
			continue
		}

		seen[name] = true
		borders = append(borders, fire.Border{Name: name, Polygon: polygon})
	}
	return borders, nil
}

func largest(mp orb.MultiPolygon) orb.Polygon {
	var best orb.Polygon
	bestArea := -1.0
	for _, p := range mp {
		if area := math.Abs(planar.Area(p)); area > bestArea {
			bestArea = area
			best = p
		}
	}
	return best
}
