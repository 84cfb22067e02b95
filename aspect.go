package wormhole

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// aspectDepth is the fixed (2,2) entry of the aspect correction matrix.
// It becomes the z component of every pinhole ray, (x·vx, y·vy, -2).
const aspectDepth = 2

// AspectFix returns the aspect-ratio correction matrix for a viewport:
//
//	| vx  0  0  0 |
//	|  0 vy  0  0 |
//	|  0  0  2  0 |
//	|  0  0  0  1 |
//
// with (vx, vy) = (w/h, 1) when width > height and (1, h/w) otherwise,
// so the shorter side of the viewport always spans [-1, 1].
func AspectFix(width, height float64) (mgl32.Mat4, error) {
	if !validExtent(width) || !validExtent(height) {
		return mgl32.Mat4{}, fmt.Errorf("%w: %vx%v", ErrInvalidViewport, width, height)
	}
	vx, vy := AspectScale(width, height)
	return mgl32.Mat4{
		vx, 0, 0, 0,
		0, vy, 0, 0,
		0, 0, aspectDepth, 0,
		0, 0, 0, 1,
	}, nil
}

// AspectScale returns the (vx, vy) scale for a viewport. Callers must
// pass positive dimensions.
func AspectScale(width, height float64) (vx, vy float32) {
	if width > height {
		return float32(width / height), 1
	}
	return 1, float32(height / width)
}

func validExtent(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
