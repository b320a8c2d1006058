package proximity

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dpup/trailfire/server/internal/lib/fire"
	"github.com/dpup/trailfire/server/internal/lib/geo"
	"github.com/dpup/trailfire/server/internal/lib/trail"
)

// Class is the outcome of analysing one fire against a trail
type Class int

const (
	Excluded Class = iota
	Proximate
	Crossing
)

func (c Class) String() string {
	switch c {
	case Crossing:
		return "crossing"
	case Proximate:
		return "proximate"
	default:
		return "excluded"
	}
}

// Result pairs a fire with exactly one of a crossing or closest-point result
type Result struct {
	Fire     fire.FirePolygon    `json:"fire"`
	Crossing *CrossingResult     `json:"crossing,omitempty"`
	Closest  *ClosestPointResult `json:"closest,omitempty"`
}

// Class reports which analysis produced the result
func (r Result) Class() Class {
	switch {
	case r.Crossing != nil:
		return Crossing
	case r.Closest != nil:
		return Proximate
	default:
		return Excluded
	}
}

// Options bound the cost of classification
type Options struct {
	TrailSampleCap int
	FireSampleCap  int

	// Workers limits how many fires are analysed at once. Values below 1 mean
	// one at a time.
	Workers int
}

func (o Options) withDefaults() Options {
	if o.TrailSampleCap <= 0 {
		o.TrailSampleCap = DefaultTrailSampleCap
	}
	if o.FireSampleCap <= 0 {
		o.FireSampleCap = DefaultFireSampleCap
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o
}

// Classify runs crossing detection on every fire and the closest-point search
// on those that do not cross. Results keep the order of fires. Each fire is
// independent so they are analysed concurrently.
func Classify(ctx context.Context, t *trail.Trail, markers *trail.MileMarkerTable, fires []fire.FirePolygon, opts Options) ([]Result, error) {
	opts = opts.withDefaults()
	trailSample := ReduceIfGreater(t.Points(), opts.TrailSampleCap)

	results := make([]Result, len(fires))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, f := range fires {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = classifyOne(t, markers, trailSample, f, opts.FireSampleCap)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func classifyOne(t *trail.Trail, markers *trail.MileMarkerTable, trailSample []geo.Point, f fire.FirePolygon, fireCap int) Result {
	result := Result{Fire: f}
	if crossing, ok := Detect(t, markers, f); ok {
		result.Crossing = crossing
		return result
	}

	closest, ok := closestPair(trailSample, ReduceIfGreater(f.Ring, fireCap))
	if !ok {
		return result
	}
	closest.FireID = f.ID
	closest.Mile = markers.ApproxMarker(closest.TrailPoint)
	result.Closest = &closest
	return result
}
