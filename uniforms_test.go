package wormhole

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func readFloat32(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestUniformsLayout(t *testing.T) {
	var orientation mgl32.Mat4
	for i := range orientation {
		orientation[i] = float32(i + 1)
	}
	u := Uniforms{
		RadiusSquared:     1.96,
		ThroatLength:      5,
		CameraPosition:    mgl32.Vec3{7.8, 1.5, -0.25},
		CameraOrientation: orientation,
	}
	buf := u.Bytes()
	if len(buf) != UniformBufferSize {
		t.Fatalf("len(Bytes()) = %d, want %d", len(buf), UniformBufferSize)
	}

	// column-major, as mgl32 stores it
	for i := range 16 {
		if got := readFloat32(buf, i*4); got != orientation[i] {
			t.Errorf("orientation[%d] at offset %d = %v, want %v", i, i*4, got, orientation[i])
		}
	}
	checks := []struct {
		name string
		off  int
		want float32
	}{
		{"position.l", 64, 7.8},
		{"position.theta", 68, 1.5},
		{"position.phi", 72, -0.25},
		{"radiusSquared", 76, 1.96},
		{"throatLength", 80, 5},
		{"padding", 84, 0},
		{"padding", 92, 0},
	}
	for _, c := range checks {
		if got := readFloat32(buf, c.off); got != c.want {
			t.Errorf("%s at offset %d = %v, want %v", c.name, c.off, got, c.want)
		}
	}
}

func TestUniformsPutClearsPadding(t *testing.T) {
	buf := make([]byte, UniformBufferSize)
	for i := range buf {
		buf[i] = 0xff
	}
	u := Uniforms{CameraOrientation: mgl32.Ident4()}
	u.Put(buf)
	for i := 84; i < UniformBufferSize; i++ {
		if buf[i] != 0 {
			t.Fatalf("padding byte %d = %#x, want 0", i, buf[i])
		}
	}
}

func TestNewUniforms(t *testing.T) {
	near, far := solidCubemap(t, 2, red), solidCubemap(t, 2, blue)
	space := MustSpace(1.4, 5)
	u := newUniforms(space, near, far)
	if u.RadiusSquared != float32(space.RadiusSquared()) {
		t.Errorf("RadiusSquared = %v, want %v", u.RadiusSquared, space.RadiusSquared())
	}
	if u.ThroatLength != 5 {
		t.Errorf("ThroatLength = %v, want 5", u.ThroatLength)
	}
	if u.Skybox1 != near || u.Skybox2 != far {
		t.Error("skyboxes not bound in order")
	}
	if u.CameraOrientation != mgl32.Ident4() {
		t.Error("initial orientation should be identity")
	}
}

func TestQuad(t *testing.T) {
	v := QuadVertices()
	if len(v) != QuadVertexCount*2 {
		t.Fatalf("len(QuadVertices()) = %d, want %d", len(v), QuadVertexCount*2)
	}
	for i, c := range v {
		if c != 1 && c != -1 {
			t.Errorf("vertex component %d = %v, want ±1", i, c)
		}
	}
	v[0] = 42
	if QuadVertices()[0] != -1 {
		t.Error("QuadVertices returned shared storage")
	}

	// the orthographic camera maps the NDC square onto itself
	cam := OrthoCamera()
	for i := 0; i < len(v); i += 2 {
		x, y := quadVertices[i], quadVertices[i+1]
		p := cam.Mul4x1(mgl32.Vec4{x, y, 0, 1})
		if !mgl32.FloatEqual(p[0], x) || !mgl32.FloatEqual(p[1], y) {
			t.Errorf("OrthoCamera moved (%v, %v) to (%v, %v)", x, y, p[0], p[1])
		}
	}
}
