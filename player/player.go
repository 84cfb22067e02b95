// Package player moves a camera through a wormhole space.
//
// A Player keeps a position in wormhole coordinates (l, θ, φ) and an
// orientation quaternion expressed in the local orthonormal frame at that
// position, the same convention wormhole.Pose uses. Movement is applied
// as small steps in the local frame and converted into coordinate
// changes using the embedding radius r(l).
package player

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/wormhole"
)

// minSinTheta keeps azimuthal steps finite close to the poles.
const minSinTheta = 1e-4

// Player is a camera that lives in a wormhole space.
// It is not safe for concurrent use.
type Player struct {
	space       wormhole.Space
	position    mgl32.Vec3
	orientation mgl32.Quat
	maxAxial    float32
}

// New returns a player at the start position of space, looking toward
// the throat.
func New(space wormhole.Space) *Player {
	return &Player{
		space:       space,
		position:    StartPosition(space),
		orientation: mgl32.QuatIdent(),
		maxAxial:    MaxAxial(space),
	}
}

// StartPosition is (2·radius + throatLength, π/2, 0): on the equator,
// two radii outside the near mouth.
func StartPosition(space wormhole.Space) mgl32.Vec3 {
	l := 2*space.Radius() + space.ThroatLength()
	return mgl32.Vec3{float32(l), math32.Pi / 2, 0}
}

// MaxAxial is the largest |l| the player may reach: 4·radius + throatLength.
func MaxAxial(space wormhole.Space) float32 {
	return float32(4*space.Radius() + space.ThroatLength())
}

// Space returns the space the player moves in.
func (p *Player) Space() wormhole.Space { return p.space }

// Pose returns the camera pose for rendering.
func (p *Player) Pose() wormhole.Pose {
	return wormhole.Pose{Position: p.position, Orientation: p.orientation}
}

// Position returns (l, θ, φ).
func (p *Player) Position() mgl32.Vec3 { return p.position }

// Orientation returns the local-frame orientation.
func (p *Player) Orientation() mgl32.Quat { return p.orientation }

// SetPosition moves the player to (l, θ, φ) without clamping.
func (p *Player) SetPosition(pos mgl32.Vec3) { p.position = pos }

// SetOrientation replaces the orientation. q is normalized.
func (p *Player) SetOrientation(q mgl32.Quat) { p.orientation = q.Normalize() }

// Move translates the player by a camera-local displacement: right along
// local +X, up along local +Y and forward along local -Z.
func (p *Player) Move(right, up, forward float32) {
	if right == 0 && up == 0 && forward == 0 {
		return
	}
	d := p.orientation.Rotate(mgl32.Vec3{right, up, -forward})

	l, theta, phi := p.position[0], p.position[1], p.position[2]
	r := float32(p.space.EmbeddingRadius(float64(l)))

	// Local +X is -e_φ, +Y is -e_θ, +Z is +e_l.
	l += d[2]
	mid := theta - d[1]/(2*r)
	theta -= d[1] / r
	st := math32.Sin(theta)
	if math32.Abs(st) < minSinTheta {
		st = math32.Copysign(minSinTheta, st)
	}
	dphi := -d[0] / (r * st)
	phi += dphi

	// e_θ and e_φ turn by cos θ·Δφ about e_l along a parallel; turning
	// the view with them keeps it parallel transported.
	if twist := math32.Cos(mid) * dphi; twist != 0 {
		p.orientation = mgl32.QuatRotate(twist, mgl32.Vec3{0, 0, 1}).Mul(p.orientation).Normalize()
	}

	// Crossing a pole flips e_θ and e_φ; a half turn about e_l keeps the
	// view direction continuous.
	switch {
	case theta < 0:
		theta = -theta
		phi += math32.Pi
		p.orientation = halfTurnZ().Mul(p.orientation)
	case theta > math32.Pi:
		theta = 2*math32.Pi - theta
		phi += math32.Pi
		p.orientation = halfTurnZ().Mul(p.orientation)
	}

	p.position = mgl32.Vec3{l, theta, wrapAngle(phi)}
}

// Turn rotates the view about its local axes: yaw about +Y (positive
// turns left), pitch about +X (positive looks up) and roll about -Z
// (positive rolls right).
func (p *Player) Turn(yaw, pitch, roll float32) {
	if yaw == 0 && pitch == 0 && roll == 0 {
		return
	}
	q := p.orientation
	if yaw != 0 {
		q = q.Mul(mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0}))
	}
	if pitch != 0 {
		q = q.Mul(mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0}))
	}
	if roll != 0 {
		q = q.Mul(mgl32.QuatRotate(roll, mgl32.Vec3{0, 0, -1}))
	}
	p.orientation = q.Normalize()
}

// Clamp limits l to ±MaxAxial.
func (p *Player) Clamp() {
	p.position[0] = mgl32.Clamp(p.position[0], -p.maxAxial, p.maxAxial)
}

// Reset levels the player: it returns to the equator and drops the
// pitch and roll parts of the orientation. l and φ are kept.
func (p *Player) Reset() {
	p.position[1] = math32.Pi / 2
	q := p.orientation
	q.V[0] = 0
	q.V[2] = 0
	p.orientation = q.Normalize()
}

func halfTurnZ() mgl32.Quat {
	return mgl32.Quat{W: 0, V: mgl32.Vec3{0, 0, 1}}
}

// wrapAngle maps a to [0, 2π).
func wrapAngle(a float32) float32 {
	a = math32.Mod(a, 2*math32.Pi)
	if a < 0 {
		a += 2 * math32.Pi
	}
	return a
}
