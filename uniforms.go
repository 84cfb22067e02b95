package wormhole

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Shader-side names of the uniform set. These form the fixed contract
// between the host and the GPU program.
const (
	UniformRadiusSquared     = "uRadiusSquared"
	UniformThroatLength      = "uThroatLength"
	UniformSkybox1           = "uSkybox1"
	UniformSkybox2           = "uSkybox2"
	UniformCameraPosition    = "uCameraPosition"
	UniformCameraOrientation = "uCameraOrientation"
)

// UniformBufferSize is the size in bytes of the packed uniform block:
//
//	uCameraOrientation mat4x4<f32>  offset  0, 64 bytes
//	uCameraPosition    vec3<f32>    offset 64, 12 bytes
//	uRadiusSquared     f32          offset 76
//	uThroatLength      f32          offset 80
//	padding                         offset 84, 12 bytes
const UniformBufferSize = 96

// Uniforms is the complete parameter set of the wormhole shader.
// The skyboxes are bound once at construction; position and orientation
// are rewritten every frame.
type Uniforms struct {
	RadiusSquared     float32
	ThroatLength      float32
	Skybox1           *Cubemap
	Skybox2           *Cubemap
	CameraPosition    mgl32.Vec3
	CameraOrientation mgl32.Mat4
}

// newUniforms binds the space constants and both skyboxes.
func newUniforms(space Space, near, far *Cubemap) Uniforms {
	return Uniforms{
		RadiusSquared:     float32(space.RadiusSquared()),
		ThroatLength:      float32(space.ThroatLength()),
		Skybox1:           near,
		Skybox2:           far,
		CameraOrientation: mgl32.Ident4(),
	}
}

// Bytes packs the buffer-backed uniforms in the GPU layout.
func (u *Uniforms) Bytes() []byte {
	buf := make([]byte, UniformBufferSize)
	u.Put(buf)
	return buf
}

// Put writes the packed uniform block into buf, which must hold at least
// UniformBufferSize bytes.
func (u *Uniforms) Put(buf []byte) {
	_ = buf[UniformBufferSize-1]
	for i, v := range u.CameraOrientation {
		putFloat32(buf[i*4:], v)
	}
	putFloat32(buf[64:], u.CameraPosition[0])
	putFloat32(buf[68:], u.CameraPosition[1])
	putFloat32(buf[72:], u.CameraPosition[2])
	putFloat32(buf[76:], u.RadiusSquared)
	putFloat32(buf[80:], u.ThroatLength)
	clear(buf[84:UniformBufferSize])
}

func putFloat32(buf []byte, v float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
}
