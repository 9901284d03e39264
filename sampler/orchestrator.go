package sampler

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/regs08/random-sampling-generator-from-kml/planmodel"
)

// Orchestrator runs the per-parcel sampling loop over a whole boundary
// set. Each parcel samples from its own PRNG so one parcel's draws never
// disturb another's.
type Orchestrator struct {
	log      *slog.Logger
	progress func(done, total int)
}

func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt.apply(o)
	}
	return o
}

// Result is the output of a run: the resolved base seed and one outcome
// per input boundary, in input order.
type Result struct {
	BaseSeed int64
	Outcomes []planmodel.Outcome
}

// Run samples every boundary, parcel i with seed base+i. Geometry problems
// degrade to skipped or partial outcomes; only an invalid request fails
// the run, before any parcel is touched.
func (o *Orchestrator) Run(boundaries []planmodel.Boundary, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	var base int64
	if req.Seed != nil {
		base = *req.Seed
	} else {
		var err error
		base, err = randomSeed()
		if err != nil {
			return Result{}, err
		}
		o.log.Info("no seed given, drew a random base seed", "seed", base)
	}

	res := Result{
		BaseSeed: base,
		Outcomes: make([]planmodel.Outcome, 0, len(boundaries)),
	}
	for i, b := range boundaries {
		res.Outcomes = append(res.Outcomes, o.sampleBoundary(b, req, base+int64(i)))
		if o.progress != nil {
			o.progress(i+1, len(boundaries))
		}
	}
	return res, nil
}

func (o *Orchestrator) sampleBoundary(b planmodel.Boundary, req Request, seed int64) planmodel.Outcome {
	out := planmodel.Outcome{
		Parcel:    b.Index,
		Requested: req.Points,
		Status:    planmodel.StatusSkipped,
	}

	if !validRing(b.Ring) {
		out.Reason = planmodel.ReasonInvalidGeometry
		o.log.Warn("parcel skipped, unusable geometry", "parcel", b.Index, "vertices", len(b.Ring))
		return out
	}

	spacing, err := MetersToDegrees(req.MinDistanceMeters, MeanLatitude(b.Ring))
	if err != nil {
		out.Reason = planmodel.ReasonDegenerateLatitude
		o.log.Warn("parcel skipped, distance conversion failed", "parcel", b.Index, "error", err)
		return out
	}

	rng := rand.New(rand.NewSource(seed))
	accepted := sampleRing(b.Ring, req.Points, spacing, rng, req.retryBudget())

	out.Achieved = len(accepted)
	out.Points = make([]planmodel.SamplePoint, 0, len(accepted))
	for j, p := range accepted {
		out.Points = append(out.Points, planmodel.SamplePoint{
			Lon:    p.X(),
			Lat:    p.Y(),
			Seq:    j + 1,
			Parcel: b.Index,
		})
	}

	switch {
	case out.Achieved == req.Points:
		out.Status = planmodel.StatusComplete
	case out.Achieved > 0:
		out.Status = planmodel.StatusPartial
		out.Reason = planmodel.ReasonBudgetExhausted
		o.log.Warn("parcel sampled partially",
			"parcel", b.Index, "requested", req.Points, "achieved", out.Achieved)
	default:
		out.Points = nil
		out.Reason = planmodel.ReasonBudgetExhausted
		o.log.Warn("parcel skipped, no candidate accepted",
			"parcel", b.Index, "attempts", req.retryBudget())
	}
	return out
}

func randomSeed() (int64, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("drawing random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}
