package wormhole

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Pose is a camera position and orientation in wormhole coordinates.
//
// Position holds (l, θ, φ): the signed axial distance from the throat
// centre (positive toward the near universe), the polar angle and the
// azimuth on the sphere of radius r(l) around the axis.
//
// Orientation maps camera-local axes onto the orthonormal frame at the
// position: local +X is -e_φ, local +Y is -e_θ and local +Z is +e_l.
// The camera looks down local -Z, so the identity orientation at l > 0
// looks toward the throat. Orientation must be a unit quaternion; the
// renderer does not normalize it.
type Pose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// NewPose returns a pose at (l, θ, φ) with the given orientation.
func NewPose(l, theta, phi float32, orientation mgl32.Quat) Pose {
	return Pose{
		Position:    mgl32.Vec3{l, theta, phi},
		Orientation: orientation,
	}
}

// Axial returns the signed axial distance l.
func (p Pose) Axial() float32 { return p.Position[0] }

// Polar returns the polar angle θ.
func (p Pose) Polar() float32 { return p.Position[1] }

// Azimuth returns the azimuth φ.
func (p Pose) Azimuth() float32 { return p.Position[2] }

// sphereFrame returns the unit point on the direction sphere for (θ, φ)
// and the unit tangents along increasing θ and φ. The polar axis is +Y.
func sphereFrame(theta, phi float32) (point, eTheta, ePhi mgl32.Vec3) {
	st, ct := math32.Sincos(theta)
	sp, cp := math32.Sincos(phi)
	point = mgl32.Vec3{st * cp, ct, st * sp}
	eTheta = mgl32.Vec3{ct * cp, -st, ct * sp}
	ePhi = mgl32.Vec3{-sp, 0, cp}
	return point, eTheta, ePhi
}
