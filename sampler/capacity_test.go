package sampler_test

import (
	"math/rand"
	"testing"

	"github.com/paulmach/orb"

	"github.com/regs08/random-sampling-generator-from-kml/sampler"
)

func TestEstimateCapacity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	got := sampler.EstimateCapacity(unitSquare(), 0.3, rng)
	if got < 1 || got > 25 {
		t.Fatalf("capacity = %d, want a plausible count for 0.3 spacing in a unit square", got)
	}
}

func TestEstimateCapacityShrinksWithSpacing(t *testing.T) {
	tight := sampler.EstimateCapacity(unitSquare(), 0.05, rand.New(rand.NewSource(2)))
	loose := sampler.EstimateCapacity(unitSquare(), 0.3, rand.New(rand.NewSource(2)))

	if tight <= loose {
		t.Fatalf("capacity at 0.05 spacing (%d) should exceed capacity at 0.3 (%d)", tight, loose)
	}
}

func TestEstimateCapacityDegenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	if got := sampler.EstimateCapacity(unitSquare(), 0, rng); got != 0 {
		t.Fatalf("capacity with no spacing = %d, want 0", got)
	}
	if got := sampler.EstimateCapacity(orb.Ring{{0, 0}, {1, 1}}, 0.1, rng); got != 0 {
		t.Fatalf("capacity of a two-vertex ring = %d, want 0", got)
	}
}
