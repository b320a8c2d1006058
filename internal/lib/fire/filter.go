package fire

import "github.com/dpup/trailfire/server/internal/lib/geo"

// Zone is the coarse relevance filter a fire must overlap to be kept
type Zone interface {
	Intersects(ring []geo.Point) bool
}

// Filter keeps fires overlapping the zone and tags each with the states whose
// borders contain at least one of its vertices. Fires in no state are tagged
// NonUS. Only the given borders are checked, normally the trail's configured
// states, so a fire lying wholly in an unconfigured neighbouring state is also
// tagged NonUS. Inputs are not modified.
func Filter(zone Zone, borders Borders, fires []FirePolygon) []FirePolygon {
	var kept []FirePolygon
	for _, f := range fires {
		if !zone.Intersects(f.Ring) {
			continue
		}

		out := f.Clone()
		out.Attributes.States = statesFor(borders, f.Ring)
		kept = append(kept, out)
	}
	return kept
}

func statesFor(borders Borders, ring []geo.Point) []string {
	var states []string
	for _, border := range borders {
		for _, p := range ring {
			if border.Contains(p) {
				states = append(states, border.Name)
				break
			}
		}
	}
	if len(states) == 0 {
		return []string{NonUS}
	}
	return states
}
