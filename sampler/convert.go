// Package sampler generates random sampling points inside parcel
// boundaries with a minimum pairwise spacing, one seeded PRNG per parcel.
package sampler

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// metersPerDegree is the ground length of one degree of latitude on the
// WGS84 sphere, 6378137 * pi / 180.
const metersPerDegree = 6378137.0 * math.Pi / 180.0

// degenerateLatitude bounds the usable reference latitude. Any closer to a
// pole cos(lat) vanishes and the conversion result is useless for spacing.
const degenerateLatitude = 89.9

var ErrDegenerateLatitude = errors.New("latitude too close to a pole for distance conversion")

// MetersToDegrees converts a ground distance in meters to decimal degrees
// at the given reference latitude, using a local equirectangular
// approximation. Accuracy is local to the parcel the latitude came from.
func MetersToDegrees(meters, latitude float64) (float64, error) {
	if math.Abs(latitude) >= degenerateLatitude {
		return 0, fmt.Errorf("%w: %.4f", ErrDegenerateLatitude, latitude)
	}
	return meters / (metersPerDegree * math.Cos(latitude*math.Pi/180)), nil
}

// DegreesToMeters is the inverse of MetersToDegrees.
func DegreesToMeters(degrees, latitude float64) (float64, error) {
	if math.Abs(latitude) >= degenerateLatitude {
		return 0, fmt.Errorf("%w: %.4f", ErrDegenerateLatitude, latitude)
	}
	return degrees * metersPerDegree * math.Cos(latitude*math.Pi/180), nil
}

// MeanLatitude returns the mean latitude of the ring vertices, the
// reference latitude for distance conversion on that parcel.
func MeanLatitude(ring orb.Ring) float64 {
	if len(ring) == 0 {
		return 0
	}

	sum := 0.0
	for _, p := range ring {
		sum += p.Lat()
	}
	return sum / float64(len(ring))
}
