package wormhole

import (
	"fmt"
	"math"
)

// Region classifies an axial position relative to the throat.
type Region int

const (
	// RegionThroat is the cylindrical part between the two mouths, |l| <= L/2.
	RegionThroat Region = iota
	// RegionNear is beyond the mouth on the positive side of the axis, l > L/2.
	RegionNear
	// RegionFar is beyond the mouth on the negative side of the axis, l < -L/2.
	RegionFar
)

// String returns the region name.
func (r Region) String() string {
	switch r {
	case RegionThroat:
		return "throat"
	case RegionNear:
		return "near"
	case RegionFar:
		return "far"
	default:
		return fmt.Sprintf("Region(%d)", int(r))
	}
}

// Space describes the analytic embedding of the wormhole: a cylindrical
// throat of the given radius and length joining two asymptotically flat
// regions. A Space is immutable once constructed and safe to share.
//
// The embedding radius as a function of the signed axial distance l is
//
//	r(l) = radius                          for |l| <= L/2
//	r(l) = sqrt((|l| - L/2)² + radius²)    otherwise
//
// which is continuous with a continuous first derivative at both mouths.
type Space struct {
	radius        float64
	radiusSquared float64
	throatLength  float64
}

// NewSpace validates the parameters and returns the wormhole space.
// radius must be positive and finite; throatLength must be non-negative
// and finite.
func NewSpace(radius, throatLength float64) (Space, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return Space{}, fmt.Errorf("%w: got %v", ErrInvalidRadius, radius)
	}
	if !(throatLength >= 0) || math.IsInf(throatLength, 0) {
		return Space{}, fmt.Errorf("%w: got %v", ErrInvalidThroatLength, throatLength)
	}
	return Space{
		radius:        radius,
		radiusSquared: radius * radius,
		throatLength:  throatLength,
	}, nil
}

// MustSpace is like NewSpace but panics on invalid parameters.
// Use only with constant parameters.
func MustSpace(radius, throatLength float64) Space {
	s, err := NewSpace(radius, throatLength)
	if err != nil {
		panic(err)
	}
	return s
}

// Radius returns the radius of each throat mouth.
func (s Space) Radius() float64 { return s.radius }

// RadiusSquared returns radius², precomputed at construction.
func (s Space) RadiusSquared() float64 { return s.radiusSquared }

// ThroatLength returns the length of the throat along the travel axis.
func (s Space) ThroatLength() float64 { return s.throatLength }

// IsZero reports whether s is the zero value (never a valid space).
func (s Space) IsZero() bool { return s.radius == 0 }

// Classify returns the region that contains the axial position l.
// The mouths themselves belong to the throat.
func (s Space) Classify(l float64) Region {
	half := s.throatLength / 2
	switch {
	case l > half:
		return RegionNear
	case l < -half:
		return RegionFar
	default:
		return RegionThroat
	}
}

// MouthDistance returns how far l lies beyond the nearest mouth,
// or 0 inside the throat.
func (s Space) MouthDistance(l float64) float64 {
	return math.Max(0, math.Abs(l)-s.throatLength/2)
}

// EmbeddingRadius returns r(l), the radius of the sphere of constant l.
func (s Space) EmbeddingRadius(l float64) float64 {
	x := s.MouthDistance(l)
	if x == 0 {
		return s.radius
	}
	return math.Sqrt(x*x + s.radiusSquared)
}

// EmbeddingSlope returns dr/dl at l. It is zero in the throat and tends
// to ±1 far from the mouths, where the space becomes flat.
func (s Space) EmbeddingSlope(l float64) float64 {
	x := s.MouthDistance(l)
	if x == 0 {
		return 0
	}
	slope := x / math.Sqrt(x*x+s.radiusSquared)
	if l < 0 {
		return -slope
	}
	return slope
}

// String implements fmt.Stringer.
func (s Space) String() string {
	return fmt.Sprintf("Space{radius: %g, throatLength: %g}", s.radius, s.throatLength)
}
