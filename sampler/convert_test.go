package sampler_test

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/regs08/random-sampling-generator-from-kml/sampler"
)

func TestMetersToDegrees(t *testing.T) {
	tests := []struct {
		name     string
		meters   float64
		latitude float64
		want     float64
	}{
		{"one meter at the equator", 1, 0, 8.983152841195214e-06},
		{"one degree of ground at the equator", 111319.49079327358, 0, 1},
		{"zero distance", 0, 43.5, 0},
		{"negative latitude mirrors positive", 10, -45, 10 / (111319.49079327358 * math.Cos(-45*math.Pi/180))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sampler.MetersToDegrees(tt.meters, tt.latitude)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("MetersToDegrees(%v, %v) = %v, want %v", tt.meters, tt.latitude, got, tt.want)
			}
		})
	}
}

func TestMetersToDegreesGrowsTowardPoles(t *testing.T) {
	atEquator, err := sampler.MetersToDegrees(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	atSixty, err := sampler.MetersToDegrees(1, 60)
	if err != nil {
		t.Fatal(err)
	}

	// cos(60) halves the meters per degree, so degrees double.
	if ratio := atSixty / atEquator; math.Abs(ratio-2) > 1e-9 {
		t.Fatalf("degree span ratio at 60N = %v, want 2", ratio)
	}
}

func TestMetersToDegreesDegenerateLatitude(t *testing.T) {
	for _, lat := range []float64{89.9, -89.9, 89.95, 90, -90} {
		if _, err := sampler.MetersToDegrees(5, lat); !errors.Is(err, sampler.ErrDegenerateLatitude) {
			t.Errorf("MetersToDegrees(5, %v) error = %v, want ErrDegenerateLatitude", lat, err)
		}
	}

	if _, err := sampler.MetersToDegrees(5, 89.89); err != nil {
		t.Errorf("MetersToDegrees(5, 89.89) unexpected error: %v", err)
	}
}

func TestDegreesToMetersRoundtrip(t *testing.T) {
	const meters = 25.0
	const latitude = 43.7

	degrees, err := sampler.MetersToDegrees(meters, latitude)
	if err != nil {
		t.Fatal(err)
	}
	back, err := sampler.DegreesToMeters(degrees, latitude)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(back-meters) > 1e-9 {
		t.Fatalf("roundtrip of %vm came back as %vm", meters, back)
	}
}

func TestDegreesToMetersDegenerateLatitude(t *testing.T) {
	if _, err := sampler.DegreesToMeters(0.001, 90); !errors.Is(err, sampler.ErrDegenerateLatitude) {
		t.Fatalf("error = %v, want ErrDegenerateLatitude", err)
	}
}

func TestMeanLatitude(t *testing.T) {
	ring := orb.Ring{{0, 10}, {2, 20}, {4, 30}, {0, 10}}
	if got := sampler.MeanLatitude(ring); math.Abs(got-17.5) > 1e-12 {
		t.Fatalf("MeanLatitude = %v, want 17.5", got)
	}

	if got := sampler.MeanLatitude(nil); got != 0 {
		t.Fatalf("MeanLatitude(nil) = %v, want 0", got)
	}
}
