package proximity

import (
	"time"

	"github.com/paulmach/orb"

	"github.com/dpup/trailfire/server/internal/lib/trail"
)

// Analysis is everything computed for one trail in one refresh cycle
type Analysis struct {
	Trail     *trail.Trail
	Markers   *trail.MileMarkerTable
	ZoneBound orb.Bound
	Results   []Result

	// Considered counts fire records received, before normalization
	Considered int
	CreatedAt  time.Time
}

// Count returns how many results fall in class c
func (a *Analysis) Count(c Class) int {
	n := 0
	for _, r := range a.Results {
		if r.Class() == c {
			n++
		}
	}
	return n
}
