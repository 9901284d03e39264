// Package planquery serves point lookups over a finished sampling plan:
// which sample is nearest to a device, and which parcel the device is
// standing in.
package planquery

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/regs08/random-sampling-generator-from-kml/bordertree"
	"github.com/regs08/random-sampling-generator-from-kml/exporter"
	"github.com/regs08/random-sampling-generator-from-kml/kdtree"
	"github.com/regs08/random-sampling-generator-from-kml/planmodel"
)

// SampleRef is a sample point dressed with the names field crews see in
// the exported files.
type SampleRef struct {
	planmodel.SamplePoint
	SampleName string `json:"sample_name"`
	ParcelName string `json:"parcel_name,omitempty"`
}

// ParcelInfo reports a parcel together with how its sampling went.
type ParcelInfo struct {
	Parcel    int                  `json:"parcel"`
	Name      string               `json:"name,omitempty"`
	Attrs     planmodel.Attributes `json:"attributes,omitempty"`
	Requested int                  `json:"requested"`
	Achieved  int                  `json:"achieved"`
	Status    planmodel.Status     `json:"status"`
	Reason    planmodel.Reason     `json:"reason,omitempty"`
}

const defaultSearchRadius = 0.01

// Index answers spatial queries over one plan. Build it once and share
// it; all queries are read-only.
type Index struct {
	plan    *planmodel.Plan
	tree    *kdtree.Tree[SampleRef]
	borders *bordertree.BorderTree[int]

	searchRadius float64
}

// NewIndex builds the lookup structures for plan.
func NewIndex(plan *planmodel.Plan, opts ...Option) *Index {
	o := loadOptions(opts...)

	names := make(map[int]string, len(plan.Boundaries))
	for _, b := range plan.Boundaries {
		names[b.Index] = b.Attrs.Name()
	}

	prefix := exporter.SamplePrefix(plan.Prefix, plan.Filter, plan.PointsPerParcel, plan.MinDistanceMeters)
	refs := make([]kdtree.Point[SampleRef], 0, plan.TotalPoints())
	n := 0
	for _, out := range plan.Outcomes {
		for _, p := range out.Points {
			n++
			refs = append(refs, kdtree.Point[SampleRef]{
				X: p.Lon,
				Y: p.Lat,
				Data: SampleRef{
					SamplePoint: p,
					SampleName:  exporter.SampleName(prefix, n),
					ParcelName:  names[p.Parcel],
				},
			})
		}
	}

	borders := bordertree.New[int]()
	for i, b := range plan.Boundaries {
		borders.Insert(i, b.Ring)
	}

	o.log.Info("indexed sampling plan", "points", len(refs), "parcels", borders.Len())

	return &Index{
		plan:         plan,
		tree:         kdtree.New(refs, 256),
		borders:      borders,
		searchRadius: o.searchRadius,
	}
}

// Plan returns the indexed plan.
func (i *Index) Plan() *planmodel.Plan {
	return i.plan
}

// Points reports how many sample points are indexed.
func (i *Index) Points() int {
	return i.tree.Len()
}

// Nearest returns the sample point closest to (lat, lon) within the
// index search radius.
func (i *Index) Nearest(lat, lon float64) (SampleRef, bool) {
	return i.NearestInRadius(lat, lon, i.searchRadius)
}

// NearestInRadius is Nearest with an explicit radius in degrees.
func (i *Index) NearestInRadius(lat, lon, radius float64) (SampleRef, bool) {
	var best SampleRef
	bestDist := math.Inf(1)

	i.tree.Within(lon, lat, radius, func(p kdtree.Point[SampleRef]) bool {
		dx := p.X - lon
		dy := p.Y - lat
		if d := dx*dx + dy*dy; d < bestDist {
			best = p.Data
			bestDist = d
		}
		return true
	})

	if math.IsInf(bestDist, 1) {
		return SampleRef{}, false
	}
	return best, true
}

// Parcel reports which parcel (lat, lon) falls in. Standing exactly on
// a boundary counts as outside, same as the sampler's containment rule.
func (i *Index) Parcel(lat, lon float64) (ParcelInfo, bool) {
	pos, ok := i.borders.Query(orb.Point{lon, lat})
	if !ok {
		return ParcelInfo{}, false
	}

	b := i.plan.Boundaries[pos]
	info := ParcelInfo{
		Parcel: b.Index,
		Name:   b.Attrs.Name(),
		Attrs:  b.Attrs,
	}

	// Boundaries and outcomes line up by position.
	if pos < len(i.plan.Outcomes) {
		out := i.plan.Outcomes[pos]
		info.Requested = out.Requested
		info.Achieved = out.Achieved
		info.Status = out.Status
		info.Reason = out.Reason
	}
	return info, true
}
