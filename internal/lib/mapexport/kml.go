// Package mapexport renders a trail analysis as a KML document for viewing in
// Google Earth or any other KML client
package mapexport

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/twpayne/go-kml"

	"github.com/dpup/trailfire/server/internal/lib/geo"
	"github.com/dpup/trailfire/server/internal/lib/proximity"
)

// KML colors are written aabbggrr by go-kml from these RGBA values
var (
	trailColor     = color.RGBA{R: 0x1f, G: 0x5f, B: 0xbf, A: 0xff}
	zoneColor      = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	crossingColor  = color.RGBA{R: 0xd0, G: 0x10, B: 0x10, A: 0xff}
	proximateColor = color.RGBA{R: 0xf0, G: 0x90, B: 0x10, A: 0xff}
)

// Write encodes the analysis as indented KML
func Write(w io.Writer, a *proximity.Analysis) error {
	if a == nil || a.Trail == nil {
		return errors.New("mapexport: no analysis to render")
	}
	if err := document(a).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("mapexport: writing kml: %w", err)
	}
	return nil
}

func document(a *proximity.Analysis) *kml.CompoundElement {
	trailStyle := kml.SharedStyle("trail", kml.LineStyle(kml.Color(trailColor), kml.Width(3)))
	zoneStyle := kml.SharedStyle("zone",
		kml.LineStyle(kml.Color(zoneColor), kml.Width(1)),
		kml.PolyStyle(kml.Color(color.RGBA{A: 0}), kml.Fill(false)),
	)
	crossingStyle := kml.SharedStyle("crossing",
		kml.LineStyle(kml.Color(crossingColor), kml.Width(4)),
		kml.PolyStyle(kml.Color(withAlpha(crossingColor, 0x80))),
	)
	proximateStyle := kml.SharedStyle("proximate",
		kml.LineStyle(kml.Color(proximateColor), kml.Width(2)),
		kml.PolyStyle(kml.Color(withAlpha(proximateColor, 0x80))),
	)

	t := a.Trail
	children := []kml.Element{
		kml.Name(fmt.Sprintf("%s fire map", t.Code())),
		trailStyle, zoneStyle, crossingStyle, proximateStyle,
		kml.Placemark(
			kml.Name(t.Name()),
			kml.StyleURL(trailStyle.URL()),
			kml.LineString(kml.Tessellate(true), kml.Coordinates(coordinates(t.Points())...)),
		),
		kml.Placemark(
			kml.Name("Proximity zone bounds"),
			kml.StyleURL(zoneStyle.URL()),
			kml.Polygon(kml.OuterBoundaryIs(kml.LinearRing(kml.Coordinates(boundCoordinates(a)...)))),
		),
	}

	for _, r := range a.Results {
		children = append(children, fireFolder(r, crossingStyle.URL(), proximateStyle.URL()))
	}

	return kml.KML(kml.Document(children...))
}

func fireFolder(r proximity.Result, crossingURL, proximateURL string) kml.Element {
	name := r.Fire.Attributes.Name + " Fire"
	style := proximateURL
	if r.Class() == proximity.Crossing {
		style = crossingURL
	}

	elements := []kml.Element{
		kml.Name(name),
		kml.Placemark(
			kml.Name(name),
			kml.Description(r.Class().String()),
			kml.StyleURL(style),
			kml.Polygon(kml.OuterBoundaryIs(kml.LinearRing(kml.Coordinates(coordinates(r.Fire.Ring)...)))),
		),
	}

	switch {
	case r.Crossing != nil:
		elements = append(elements, kml.Placemark(
			kml.Name(fmt.Sprintf("%s crossing", name)),
			kml.StyleURL(crossingURL),
			kml.LineString(kml.Coordinates(coordinates(r.Crossing.Points)...)),
		))
	case r.Closest != nil:
		elements = append(elements, kml.Placemark(
			kml.Name(fmt.Sprintf("%s closest approach", name)),
			kml.Description(fmt.Sprintf("%.1f mi at mile %.1f", r.Closest.Distance, r.Closest.Mile)),
			kml.StyleURL(proximateURL),
			kml.LineString(kml.Coordinates(coordinates([]geo.Point{r.Closest.TrailPoint, r.Closest.FirePoint})...)),
		))
	}

	return kml.Folder(elements...)
}

func coordinates(points []geo.Point) []kml.Coordinate {
	coords := make([]kml.Coordinate, len(points))
	for i, p := range points {
		coords[i] = kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
	}
	return coords
}

func boundCoordinates(a *proximity.Analysis) []kml.Coordinate {
	b := a.ZoneBound
	return []kml.Coordinate{
		{Lon: b.Min[0], Lat: b.Min[1]},
		{Lon: b.Max[0], Lat: b.Min[1]},
		{Lon: b.Max[0], Lat: b.Max[1]},
		{Lon: b.Min[0], Lat: b.Max[1]},
		{Lon: b.Min[0], Lat: b.Min[1]},
	}
}

func withAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}
