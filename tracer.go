package wormhole

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Integration constants shared with the WGSL program in
// internal/gpu/shaders/wormhole.wgsl. Changing one requires changing both.
const (
	// StepScale is the geodesic step length as a fraction of r(l).
	// Each step turns the ray by at most StepScale radians.
	StepScale = 0.05

	// EscapeRadii is how many throat radii past a mouth a ray must
	// travel outward before it is treated as having reached flat space.
	EscapeRadii = 16

	// MaxSteps bounds the integration loop. The constant-radius throat
	// is crossed in a single step whatever its length.
	MaxSteps = 256

	// TangentEpsilon is the speed below which a ray component is treated
	// as zero: a ray is purely axial when its tangential speed is below
	// it, and a ray in the throat with axial speed below it never leaves.
	TangentEpsilon = 1e-6
)

// Side is the universe a traced ray ends in.
type Side int

const (
	// SideNear is the universe at l > 0, sampled from skybox 1.
	SideNear Side = iota
	// SideFar is the universe at l < 0, sampled from skybox 2.
	SideFar
)

func (s Side) String() string {
	if s == SideFar {
		return "far"
	}
	return "near"
}

// TraceResult is the outcome of tracing one ray through the wormhole.
type TraceResult struct {
	// Direction is the unit sky direction used to sample the cubemap.
	Direction mgl32.Vec3

	// Side selects the cubemap.
	Side Side

	// Axial is l where integration stopped.
	Axial float32

	// Steps is the number of integration steps taken.
	Steps int

	// Escaped is false when the step budget ran out first.
	Escaped bool
}

// Tracer is the host-side reference evaluator of the per-pixel shader
// algorithm. It uses float32 arithmetic throughout to track the GPU.
// The zero value is not usable; build one with NewTracer.
type Tracer struct {
	radiusSquared float32
	halfThroat    float32
	escape        float32
}

// NewTracer returns a tracer for the given space.
func NewTracer(space Space) Tracer {
	return NewTracerFromUniforms(float32(space.RadiusSquared()), float32(space.ThroatLength()))
}

// NewTracerFromUniforms builds a tracer from the two geometry uniforms,
// exactly as the fragment shader sees them.
func NewTracerFromUniforms(radiusSquared, throatLength float32) Tracer {
	return Tracer{
		radiusSquared: radiusSquared,
		halfThroat:    throatLength / 2,
		escape:        EscapeRadii * math32.Sqrt(radiusSquared),
	}
}

// Embedding returns r(l) and dr/dl. See Space for the profile.
func (t Tracer) Embedding(l float32) (r, slope float32) {
	x := math32.Max(0, math32.Abs(l)-t.halfThroat)
	r = math32.Sqrt(x*x + t.radiusSquared)
	slope = x / r
	if l < 0 {
		slope = -slope
	}
	return r, slope
}

// RayDirection returns the unit view direction for a pixel at normalized
// device coordinates (x, y), given the aspect-corrected orientation
// matrix uploaded as uCameraOrientation.
func RayDirection(orientation mgl32.Mat4, x, y float32) mgl32.Vec3 {
	return orientation.Mul4x1(mgl32.Vec4{x, y, -1, 0}).Vec3().Normalize()
}

// TracePixel traces the ray through pixel (x, y) in normalized device
// coordinates using the uniform set of one frame.
func (t Tracer) TracePixel(u *Uniforms, x, y float32) TraceResult {
	return t.Trace(u.CameraPosition, RayDirection(u.CameraOrientation, x, y))
}

// Trace follows a ray that starts at position (l, θ, φ) with the unit
// direction dir, given in the camera's local frame (+Z along +e_l), until
// it reaches the flat region of one universe.
//
// The ray stays on the great circle through the start point, so it is
// integrated in the 2D metric ds² = dl² + r(l)² dψ² with conserved
// angular momentum h = r·|tangential speed|. Inside the throat r is
// constant and the ray is a straight line in (l, ψ), so it is advanced
// to the mouth it is heading for in one step.
func (t Tracer) Trace(position, dir mgl32.Vec3) TraceResult {
	l := position[0]
	p := dir[2]
	tangent := math32.Hypot(dir[0], dir[1])

	r, _ := t.Embedding(l)
	h := r * tangent

	var psi float32
	steps := 0
	escaped := false
	for ; steps < MaxSteps; steps++ {
		if t.escaping(l, p) {
			escaped = true
			break
		}
		if math32.Abs(l) < t.halfThroat && math32.Abs(p) > TangentEpsilon {
			mouth := t.halfThroat
			if p < 0 {
				mouth = -mouth
			}
			psi += (mouth - l) / p * h / t.radiusSquared
			l = mouth
			continue
		}
		var slope float32
		r, slope = t.Embedding(l)
		ds := StepScale * r
		p += ds * h * h * slope / (r * r * r)
		l += ds * p
		psi += ds * h / (r * r)
	}
	if !escaped {
		escaped = t.escaping(l, p)
	}

	r, _ = t.Embedding(l)
	outward := p
	side := SideNear
	if l < 0 {
		outward = -p
		side = SideFar
	}
	if !escaped && l*p < 0 && h*h < t.radiusSquared {
		// Still falling toward a throat wide enough for its momentum:
		// the ray passes through and ends on the side it is heading for.
		outward = math32.Abs(p)
		side = SideNear
		if p < 0 {
			side = SideFar
		}
	}
	psi += math32.Atan2(h/r, outward)

	return TraceResult{
		Direction: skyDirection(position[1], position[2], dir, tangent, psi),
		Side:      side,
		Axial:     l,
		Steps:     steps,
		Escaped:   escaped,
	}
}

// escaping reports whether a ray at l moving with axial speed p is
// heading outward beyond the escape distance of its mouth.
func (t Tracer) escaping(l, p float32) bool {
	return l*p > 0 && math32.Abs(l)-t.halfThroat > t.escape
}

// skyDirection rotates the start point on the direction sphere by psi
// along the great circle that the ray's tangential component points to.
func skyDirection(theta, phi float32, dir mgl32.Vec3, tangent, psi float32) mgl32.Vec3 {
	point, eTheta, ePhi := sphereFrame(theta, phi)
	along := eTheta
	if tangent > TangentEpsilon {
		along = eTheta.Mul(-dir[1] / tangent).Add(ePhi.Mul(-dir[0] / tangent))
	}
	s, c := math32.Sincos(psi)
	return point.Mul(c).Add(along.Mul(s)).Normalize()
}
