package planquery_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"github.com/regs08/random-sampling-generator-from-kml/planmodel"
	"github.com/regs08/random-sampling-generator-from-kml/planquery"
	"github.com/regs08/random-sampling-generator-from-kml/plansaver"
)

func indexedPlan() *planmodel.Plan {
	return &planmodel.Plan{
		CreatedAt:         time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC),
		InputFiles:        []string{"fields.kml"},
		Prefix:            "SAMPLE",
		PointsPerParcel:   2,
		MinDistanceMeters: 5,
		BaseSeed:          7,
		Boundaries: []planmodel.Boundary{
			{
				Index: 0,
				Ring:  orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}},
				Attrs: planmodel.Attributes{"name": "North Field"},
			},
			{
				Index: 1,
				Ring:  orb.Ring{{10, 20}, {11, 20}, {11, 21}, {10, 21}, {10, 20}},
				Attrs: planmodel.Attributes{"data_crop": "vines"},
			},
		},
		Outcomes: []planmodel.Outcome{
			{
				Parcel: 0, Requested: 2, Achieved: 2, Status: planmodel.StatusComplete,
				Points: []planmodel.SamplePoint{
					{Lon: 0.25, Lat: 0.5, Seq: 1, Parcel: 0},
					{Lon: 0.75, Lat: 0.5, Seq: 2, Parcel: 0},
				},
			},
			{
				Parcel: 1, Requested: 2, Achieved: 1, Status: planmodel.StatusPartial,
				Reason: planmodel.ReasonBudgetExhausted,
				Points: []planmodel.SamplePoint{
					{Lon: 10.1, Lat: 20.2, Seq: 1, Parcel: 1},
				},
			},
		},
	}
}

func TestNearest(t *testing.T) {
	idx := planquery.NewIndex(indexedPlan())

	ref, ok := idx.Nearest(0.5, 0.255)
	if !ok {
		t.Fatal("no sample found next to a known point")
	}
	if ref.SampleName != "SAMPLE_P2_0001" {
		t.Fatalf("SampleName = %q", ref.SampleName)
	}
	if ref.ParcelName != "North Field" || ref.Parcel != 0 || ref.Seq != 1 {
		t.Fatalf("ref = %+v", ref)
	}

	if _, ok := idx.Nearest(45, 45); ok {
		t.Fatal("hit far away from every sample")
	}
}

func TestNearestPicksClosest(t *testing.T) {
	idx := planquery.NewIndex(indexedPlan())

	ref, ok := idx.NearestInRadius(0.5, 0.6, 1.0)
	if !ok || ref.SampleName != "SAMPLE_P2_0002" {
		t.Fatalf("ref = %+v, ok = %v, want the closer sample", ref, ok)
	}
}

func TestNearestInRadius(t *testing.T) {
	idx := planquery.NewIndex(indexedPlan())

	// Default radius misses by 0.1 degrees, a wider one connects.
	if _, ok := idx.Nearest(20.2, 10.0); ok {
		t.Fatal("default radius should not reach 0.1 degrees out")
	}
	ref, ok := idx.NearestInRadius(20.2, 10.0, 0.2)
	if !ok || ref.SampleName != "SAMPLE_P2_0003" {
		t.Fatalf("ref = %+v, ok = %v", ref, ok)
	}
}

func TestWithSearchRadius(t *testing.T) {
	idx := planquery.NewIndex(indexedPlan(), planquery.WithSearchRadius(1e-9))

	if _, ok := idx.Nearest(0.5, 0.255); ok {
		t.Fatal("shrunk radius still reached a sample 0.005 degrees away")
	}
	if _, ok := idx.Nearest(0.5, 0.25); !ok {
		t.Fatal("exact hit missed")
	}
}

func TestParcel(t *testing.T) {
	idx := planquery.NewIndex(indexedPlan())

	info, ok := idx.Parcel(0.5, 0.5)
	if !ok {
		t.Fatal("no parcel at an interior point")
	}
	if info.Parcel != 0 || info.Name != "North Field" {
		t.Fatalf("info = %+v", info)
	}
	if info.Requested != 2 || info.Achieved != 2 || info.Status != planmodel.StatusComplete {
		t.Fatalf("outcome fields = %+v", info)
	}

	info, ok = idx.Parcel(20.5, 10.5)
	if !ok || info.Parcel != 1 || info.Status != planmodel.StatusPartial {
		t.Fatalf("info = %+v, ok = %v", info, ok)
	}
	if info.Name != "" || info.Attrs["data_crop"] != "vines" {
		t.Fatalf("attrs = %+v", info.Attrs)
	}

	// Standing on the fence line is outside.
	if _, ok := idx.Parcel(0.5, 0); ok {
		t.Fatal("boundary point reported inside")
	}
	if _, ok := idx.Parcel(-5, -5); ok {
		t.Fatal("far point reported inside")
	}
}

func TestPoints(t *testing.T) {
	idx := planquery.NewIndex(indexedPlan())
	if idx.Points() != 3 {
		t.Fatalf("Points = %d, want 3", idx.Points())
	}
}

func TestLoadIndexFromFile(t *testing.T) {
	plan := indexedPlan()
	path := filepath.Join(t.TempDir(), "field.plan.zst")
	if err := plansaver.SaveFile(path, plan); err != nil {
		t.Fatal(err)
	}

	idx, err := planquery.LoadIndexFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Points() != 3 {
		t.Fatalf("Points = %d, want 3", idx.Points())
	}
	if _, ok := idx.Nearest(0.5, 0.25); !ok {
		t.Fatal("loaded index misses a known sample")
	}
}

func TestLoadIndexFromFileMissing(t *testing.T) {
	if _, err := planquery.LoadIndexFromFile("/does/not/exist.plan"); err == nil {
		t.Fatal("expected an error for a missing plan file")
	}
}
