package sampler

import (
	"math"

	"github.com/paulmach/orb"
)

// StrictContains reports whether p lies strictly inside ring. Points on an
// edge or coincident with a vertex count as outside, so accepted samples
// never sit on a border shared with a neighbouring parcel. The ring may be
// open or closed, winding does not matter.
func StrictContains(ring orb.Ring, p orb.Point) bool {
	if len(ring) < 3 {
		return false
	}
	if !ring.Bound().Contains(p) {
		return false
	}

	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		a, b := ring[j], ring[i]
		j = i

		if onSegment(a, b, p) {
			return false
		}
		if (a.Y() > p.Y()) == (b.Y() > p.Y()) {
			continue
		}
		cross := a.X() + (b.X()-a.X())*(p.Y()-a.Y())/(b.Y()-a.Y())
		if p.X() < cross {
			inside = !inside
		}
	}
	return inside
}

// onSegment reports whether p lies on the closed segment ab.
func onSegment(a, b, p orb.Point) bool {
	cross := (b.X()-a.X())*(p.Y()-a.Y()) - (b.Y()-a.Y())*(p.X()-a.X())
	if cross != 0 {
		return false
	}
	if p.X() < math.Min(a.X(), b.X()) || p.X() > math.Max(a.X(), b.X()) {
		return false
	}
	return p.Y() >= math.Min(a.Y(), b.Y()) && p.Y() <= math.Max(a.Y(), b.Y())
}
