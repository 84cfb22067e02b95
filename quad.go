package wormhole

import "github.com/go-gl/mathgl/mgl32"

// QuadVertexCount is the number of vertices of the screen quad.
const QuadVertexCount = 6

// quadVertices are two triangles covering normalized device coordinates.
var quadVertices = [QuadVertexCount * 2]float32{
	-1.0, -1.0,
	-1.0, +1.0,
	+1.0, +1.0,
	-1.0, -1.0,
	+1.0, +1.0,
	+1.0, -1.0,
}

// QuadVertices returns a copy of the screen quad as x,y pairs.
func QuadVertices() []float32 {
	v := quadVertices
	return v[:]
}

// OrthoCamera returns the projection of the fixed full-screen camera:
// an orthographic box spanning exactly the NDC square (left -1, right 1,
// bottom -1, top 1, near 0, far 1). The camera never moves.
func OrthoCamera() mgl32.Mat4 {
	return mgl32.Ortho(-1, 1, -1, 1, 0, 1)
}
