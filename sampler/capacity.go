package sampler

import (
	"math/rand"

	"github.com/fogleman/poissondisc"
	"github.com/paulmach/orb"
)

// EstimateCapacity fills the ring envelope with a Poisson disc pattern at
// the given spacing in degrees and counts the points strictly inside the
// ring. The result approximates the largest sample count the parcel can
// hold at that spacing, which makes it an upper bound for what rejection
// sampling can achieve.
func EstimateCapacity(ring orb.Ring, spacing float64, rng *rand.Rand) int {
	if spacing <= 0 || !validRing(ring) {
		return 0
	}

	bound := ring.Bound()
	points := poissondisc.Sample(bound.Min.X(), bound.Min.Y(), bound.Max.X(), bound.Max.Y(), spacing, 10, rng)

	inside := 0
	for _, p := range points {
		if StrictContains(ring, orb.Point{p.X, p.Y}) {
			inside++
		}
	}
	return inside
}
