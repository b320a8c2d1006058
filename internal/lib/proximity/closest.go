package proximity

import (
	"math"

	"github.com/dpup/trailfire/server/internal/lib/geo"
)

// Default sample caps bounding the pairwise scan
const (
	DefaultTrailSampleCap = 2000
	DefaultFireSampleCap  = 5000
)

// ClosestPointResult is the nearest trail/perimeter pair found for a fire that
// does not cross the trail
type ClosestPointResult struct {
	FireID     int       `json:"fire_id"`
	Distance   float64   `json:"distance"`
	TrailPoint geo.Point `json:"trail_point"`
	FirePoint  geo.Point `json:"fire_point"`
	Mile       float64   `json:"mile"`
}

// ReduceIfGreater returns list unchanged if it has at most n elements.
// Otherwise it takes every len/n-th element until n are collected.
func ReduceIfGreater[T any](list []T, n int) []T {
	if len(list) <= n {
		return list
	}
	if n <= 0 {
		return []T{}
	}

	step := len(list) / n
	reduced := make([]T, 0, n)
	for i := 0; i < len(list) && len(reduced) < n; i += step {
		reduced = append(reduced, list[i])
	}
	return reduced
}

// Closest scans every pair after sampling both lists down to their caps. Fire
// coordinates form the outer loop; the first strict minimum wins. Mile is not
// filled in.
func Closest(trailCoords, fireCoords []geo.Point, trailCap, fireCap int) (ClosestPointResult, bool) {
	trailSample := ReduceIfGreater(trailCoords, trailCap)
	fireSample := ReduceIfGreater(fireCoords, fireCap)
	return closestPair(trailSample, fireSample)
}

func closestPair(trailSample, fireSample []geo.Point) (ClosestPointResult, bool) {
	if len(trailSample) == 0 || len(fireSample) == 0 {
		return ClosestPointResult{}, false
	}

	result := ClosestPointResult{Distance: math.Inf(1)}
	for _, fp := range fireSample {
		for _, tp := range trailSample {
			if d := geo.Distance(fp, tp); d < result.Distance {
				result.Distance = d
				result.TrailPoint = tp
				result.FirePoint = fp
			}
		}
	}
	return result, true
}
