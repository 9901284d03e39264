package sampler

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DefaultRetryMultiplier bounds rejection sampling at multiplier * count
// candidate draws per parcel.
const DefaultRetryMultiplier = 1000

var ErrInvalidRequest = errors.New("invalid sampling request")

// Request configures one sampling run. The same request is applied to
// every parcel.
type Request struct {
	Points            int     // requested samples per parcel
	MinDistanceMeters float64 // minimum pairwise spacing, 0 disables the constraint
	Seed              *int64  // base seed, nil draws a random one for the run
	RetryMultiplier   int     // candidate budget per requested point, DefaultRetryMultiplier when 0
}

// Validate rejects requests no parcel could ever satisfy. Everything else
// degrades to per-parcel outcomes instead of failing the run.
func (r Request) Validate() error {
	if r.Points < 1 {
		return fmt.Errorf("%w: points per parcel must be at least 1, got %d", ErrInvalidRequest, r.Points)
	}
	if r.MinDistanceMeters < 0 {
		return fmt.Errorf("%w: min distance must not be negative, got %v", ErrInvalidRequest, r.MinDistanceMeters)
	}
	if r.RetryMultiplier < 0 {
		return fmt.Errorf("%w: retry multiplier must not be negative, got %d", ErrInvalidRequest, r.RetryMultiplier)
	}
	return nil
}

func (r Request) retryBudget() int {
	multiplier := r.RetryMultiplier
	if multiplier == 0 {
		multiplier = DefaultRetryMultiplier
	}
	return multiplier * r.Points
}

// sampleRing draws uniform candidates in the ring envelope and keeps the
// ones strictly inside the ring and at least spacing degrees away from
// every point kept before. It stops after count accepted points or budget
// candidate draws, whichever comes first.
func sampleRing(ring orb.Ring, count int, spacing float64, rng *rand.Rand, budget int) []orb.Point {
	bound := ring.Bound()
	spanX := bound.Max.X() - bound.Min.X()
	spanY := bound.Max.Y() - bound.Min.Y()
	minSq := spacing * spacing

	points := make([]orb.Point, 0, count)
	for attempts := 0; len(points) < count && attempts < budget; attempts++ {
		candidate := orb.Point{
			bound.Min.X() + rng.Float64()*spanX,
			bound.Min.Y() + rng.Float64()*spanY,
		}

		if !StrictContains(ring, candidate) {
			continue
		}

		tooClose := false
		for _, p := range points {
			if distSq(candidate, p) < minSq {
				tooClose = true
				break
			}
		}
		if !tooClose {
			points = append(points, candidate)
		}
	}
	return points
}

func distSq(a, b orb.Point) float64 {
	dx := a.X() - b.X()
	dy := a.Y() - b.Y()
	return dx*dx + dy*dy
}

// validRing reports whether the ring outlines a sampleable area: at least
// three distinct vertices and a non-zero planar area.
func validRing(ring orb.Ring) bool {
	distinct := make(map[orb.Point]struct{}, len(ring))
	for _, p := range ring {
		distinct[p] = struct{}{}
	}
	if len(distinct) < 3 {
		return false
	}
	return math.Abs(planar.Area(orb.Polygon{ring})) > 0
}
