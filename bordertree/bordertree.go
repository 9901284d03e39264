// Package bordertree answers point-in-parcel lookups over a set of
// parcel rings.
//
// A quadtree over ring bounds narrows the candidates and the strict
// ray cast settles them, so boundary points count as outside. That is
// the same rule the sampler applies when placing points.
package bordertree

import (
	"sync"

	"github.com/paulmach/orb"
	"github.com/tidwall/qtree"

	"github.com/regs08/random-sampling-generator-from-kml/sampler"
)

type parcel[D any] struct {
	data D
	ring orb.Ring
}

// BorderTree maps points to the parcel ring containing them. Inserts
// and queries may interleave from multiple goroutines.
type BorderTree[Data any] struct {
	mu      sync.RWMutex
	count   uint64
	parcels []parcel[Data]
	qt      qtree.QTree
}

func New[Data any]() *BorderTree[Data] {
	return &BorderTree[Data]{}
}

// Insert registers a parcel ring with its payload.
func (bt *BorderTree[Data]) Insert(data Data, ring orb.Ring) {
	bound := ring.Bound()

	bt.mu.Lock()
	defer bt.mu.Unlock()

	bt.parcels = append(bt.parcels, parcel[Data]{data: data, ring: ring})
	bt.qt.Insert(bound.Min, bound.Max, bt.count)
	bt.count++
}

// Query returns the payload of a parcel strictly containing point. When
// parcels overlap, which of them wins is unspecified.
func (bt *BorderTree[Data]) Query(point orb.Point) (Data, bool) {
	bt.mu.RLock()
	defer bt.mu.RUnlock()

	var out Data
	found := false

	bt.qt.Search(point, point, func(_, _ [2]float64, data any) bool {
		id := data.(uint64)
		if sampler.StrictContains(bt.parcels[id].ring, point) {
			out = bt.parcels[id].data
			found = true
			return false
		}
		return true
	})

	return out, found
}

// Len reports how many parcels are indexed.
func (bt *BorderTree[Data]) Len() int {
	bt.mu.RLock()
	defer bt.mu.RUnlock()

	return len(bt.parcels)
}
