package player

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/wormhole"
)

const eps = 1e-4

func near(a, b float32) bool { return math32.Abs(a-b) <= eps }

func testSpace() wormhole.Space { return wormhole.MustSpace(1.4, 5) }

func TestNewPlayer(t *testing.T) {
	p := New(testSpace())

	pos := p.Position()
	if !near(pos[0], 7.8) || !near(pos[1], math32.Pi/2) || pos[2] != 0 {
		t.Errorf("start position = %v, want (7.8, π/2, 0)", pos)
	}
	if p.Orientation() != mgl32.QuatIdent() {
		t.Errorf("orientation = %v, want identity", p.Orientation())
	}
	if got := MaxAxial(testSpace()); !near(got, 10.6) {
		t.Errorf("MaxAxial = %v, want 10.6", got)
	}

	pose := p.Pose()
	if pose.Position != pos || pose.Orientation != p.Orientation() {
		t.Errorf("Pose() = %+v does not match the player", pose)
	}
}

func TestPlayerMove(t *testing.T) {
	space := testSpace()
	r := float32(space.EmbeddingRadius(7.8))

	tests := []struct {
		name                string
		right, up, forward  float32
		wantL, wantT, wantP float32
	}{
		{"forward", 0, 0, 1, 6.8, math32.Pi / 2, 0},
		{"back", 0, 0, -1, 8.8, math32.Pi / 2, 0},
		{"up", 0, 0.1, 0, 7.8, math32.Pi/2 - 0.1/r, 0},
		{"left", -0.1, 0, 0, 7.8, math32.Pi / 2, 0.1 / r},
		{"right", 0.1, 0, 0, 7.8, math32.Pi / 2, 2*math32.Pi - 0.1/r},
		{"none", 0, 0, 0, 7.8, math32.Pi / 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(space)
			p.Move(tt.right, tt.up, tt.forward)
			pos := p.Position()
			if !near(pos[0], tt.wantL) || !near(pos[1], tt.wantT) || !near(pos[2], tt.wantP) {
				t.Errorf("position = %v, want (%v, %v, %v)", pos, tt.wantL, tt.wantT, tt.wantP)
			}
		})
	}
}

func TestPlayerMoveThroughThroat(t *testing.T) {
	p := New(testSpace())
	for i := 0; i < 50; i++ {
		p.Move(0, 0, 0.25)
	}
	if l := p.Position()[0]; !near(l, -4.7) {
		t.Errorf("l = %v, want -4.7", l)
	}
	if p.Pose().Axial() >= 0 {
		t.Error("player did not reach the far side")
	}
	p.Clamp()
	if l := p.Position()[0]; !near(l, -10.6) {
		t.Errorf("clamped l = %v, want -10.6", l)
	}
}

func TestPlayerMoveAcrossPole(t *testing.T) {
	space := testSpace()
	p := New(space)
	r := float32(space.EmbeddingRadius(7.8))
	p.SetPosition(mgl32.Vec3{7.8, 0.01, 0})

	p.Move(0, 0.03*r, 0)

	pos := p.Position()
	if !near(pos[1], 0.02) {
		t.Errorf("θ = %v, want 0.02", pos[1])
	}
	if !near(pos[2], math32.Pi) {
		t.Errorf("φ = %v, want π", pos[2])
	}
	// Local up now points along +e_θ of the new chart.
	up := p.Orientation().Rotate(mgl32.Vec3{0, 1, 0})
	if !up.ApproxEqualThreshold(mgl32.Vec3{0, -1, 0}, eps) {
		t.Errorf("local up = %v, want (0, -1, 0)", up)
	}
}

func TestPlayerMoveFollowsGreatCircle(t *testing.T) {
	space := testSpace()
	r := float32(space.Radius())
	p := New(space)
	p.SetPosition(mgl32.Vec3{0, math32.Pi / 4, 0})

	// Strafing right for half a great circle ends at the antipode,
	// which a walk along the parallel θ = π/4 would never reach.
	const steps = 2000
	for i := 0; i < steps; i++ {
		p.Move(math32.Pi*r/steps, 0, 0)
	}

	const tol = 0.01
	pos := p.Position()
	if math32.Abs(pos[1]-3*math32.Pi/4) > tol {
		t.Errorf("θ = %v, want 3π/4", pos[1])
	}
	if c := math32.Cos(pos[2]); math32.Abs(c+1) > tol {
		t.Errorf("φ = %v, want π", pos[2])
	}
	right := p.Orientation().Rotate(mgl32.Vec3{1, 0, 0})
	if !right.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 2*tol) {
		t.Errorf("local right = %v, want (1, 0, 0)", right)
	}
	if l := p.Orientation().Len(); !near(l, 1) {
		t.Errorf("|q| = %v", l)
	}
}

func TestPlayerTurn(t *testing.T) {
	space := testSpace()
	r := float32(space.EmbeddingRadius(7.8))
	p := New(space)

	p.Turn(math32.Pi/2, 0, 0)
	fwd := p.Orientation().Rotate(mgl32.Vec3{0, 0, -1})
	if !fwd.ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, eps) {
		t.Fatalf("forward after left turn = %v, want (-1, 0, 0)", fwd)
	}

	p.Move(0, 0, 0.1)
	pos := p.Position()
	if !near(pos[0], 7.8) || !near(pos[2], 0.1/r) {
		t.Errorf("position = %v, want l unchanged and φ = %v", pos, 0.1/r)
	}

	p.Turn(0, 0.4, 0.3)
	if l := p.Orientation().Len(); !near(l, 1) {
		t.Errorf("|q| = %v after turning", l)
	}
}

func TestPlayerClamp(t *testing.T) {
	tests := []struct {
		l, want float32
	}{
		{20, 10.6},
		{-20, -10.6},
		{3, 3},
		{-10.6, -10.6},
	}
	for _, tt := range tests {
		p := New(testSpace())
		p.SetPosition(mgl32.Vec3{tt.l, 1, 2})
		p.Clamp()
		pos := p.Position()
		if !near(pos[0], tt.want) || pos[1] != 1 || pos[2] != 2 {
			t.Errorf("Clamp(%v) = %v, want l = %v", tt.l, pos, tt.want)
		}
	}
}

func TestPlayerReset(t *testing.T) {
	p := New(testSpace())
	p.SetPosition(mgl32.Vec3{-3, 1, 2})
	p.Turn(0.7, 0.5, 0.2)

	p.Reset()

	pos := p.Position()
	if pos[0] != -3 || !near(pos[1], math32.Pi/2) || pos[2] != 2 {
		t.Errorf("position after reset = %v", pos)
	}
	q := p.Orientation()
	if q.V[0] != 0 || q.V[2] != 0 {
		t.Errorf("orientation after reset = %v, want no x/z part", q)
	}
	if !near(q.Len(), 1) {
		t.Errorf("|q| = %v after reset", q.Len())
	}
}

func TestPlayerResetDegenerate(t *testing.T) {
	p := New(testSpace())
	p.SetOrientation(mgl32.Quat{W: 0, V: mgl32.Vec3{1, 0, 0}})
	p.Reset()
	if p.Orientation() != mgl32.QuatIdent() {
		t.Errorf("orientation = %v, want identity", p.Orientation())
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{1, 1},
		{-0.5, 2*math32.Pi - 0.5},
		{7, 7 - 2*math32.Pi},
	}
	for _, tt := range tests {
		if got := wrapAngle(tt.in); !near(got, tt.want) {
			t.Errorf("wrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
