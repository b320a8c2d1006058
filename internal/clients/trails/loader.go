// Package trails loads trail track geometry from local files
package trails

import (
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tkrajina/gpxgo/gpx"

	"github.com/dpup/trailfire/server/internal/lib/geo"
)

// Supported track formats
const (
	FormatGPX      = "gpx"
	FormatPolyline = "polyline"
	FormatGeoJSON  = "geojson"
)

// Source locates one trail's track data
type Source struct {
	Path   string
	Format string
}

// Load reads the track points of a trail in file order. The format defaults
// to the file extension.
func Load(src Source) ([]geo.Point, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trail data %s: %w", src.Path, err)
	}

	format := src.Format
	if format == "" {
		format = formatFromPath(src.Path)
	}

	var points []geo.Point
	switch format {
	case FormatGPX:
		points, err = ParseGPX(data)
	case FormatPolyline:
		points, err = geo.DecodePolyline(strings.TrimSpace(string(data)))
	case FormatGeoJSON:
		points, err = ParseGeoJSON(data)
	default:
		return nil, fmt.Errorf("unsupported trail format %q for %s", format, src.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse trail data %s: %w", src.Path, err)
	}
	return points, nil
}

func formatFromPath(path string) string {
	switch {
	case strings.HasSuffix(path, ".gpx"):
		return FormatGPX
	case strings.HasSuffix(path, ".json"), strings.HasSuffix(path, ".geojson"):
		return FormatGeoJSON
	default:
		return FormatPolyline
	}
}

// ParseGPX returns every track point, falling back to route points when the
// file has no tracks
func ParseGPX(data []byte) ([]geo.Point, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, err
	}

	var gpxPoints []gpx.GPXPoint
	for _, track := range g.Tracks {
		for _, segment := range track.Segments {
			gpxPoints = append(gpxPoints, segment.Points...)
		}
	}
	if len(gpxPoints) == 0 {
		for _, route := range g.Routes {
			gpxPoints = append(gpxPoints, route.Points...)
		}
	}

	points := make([]geo.Point, 0, len(gpxPoints))
	for _, p := range gpxPoints {
		point, err := geo.NewPoint(p.Latitude, p.Longitude)
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, nil
}

// ParseGeoJSON concatenates every LineString and MultiLineString in a feature
// collection
func ParseGeoJSON(data []byte) ([]geo.Point, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}

	var lines []orb.LineString
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.LineString:
			lines = append(lines, g)
		case orb.MultiLineString:
			lines = append(lines, g...)
		}
	}

	var points []geo.Point
	for _, ls := range lines {
		for _, p := range ls {
			point, err := geo.NewPoint(p.Lat(), p.Lon())
			if err != nil {
				return nil, err
			}
			points = append(points, point)
		}
	}
	return points, nil
}
