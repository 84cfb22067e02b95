package wormhole

import (
	"image"
	"image/color"
	"testing"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func solidFace(size int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func solidCubemap(t testing.TB, size int, c color.RGBA) *Cubemap {
	t.Helper()
	var faces [FaceCount]image.Image
	for i := range faces {
		faces[i] = solidFace(size, c)
	}
	cm, err := NewCubemap(faces)
	if err != nil {
		t.Fatalf("NewCubemap: %v", err)
	}
	return cm
}

// newTestRenderer builds a software renderer with a red near skybox and a
// blue far skybox.
func newTestRenderer(t testing.TB, width, height float64) *SceneRenderer {
	t.Helper()
	r, err := NewSceneRenderer(MustSpace(1.4, 5), width, height,
		WithBackend(NewSoftwareBackend(2)),
		WithCubemaps(solidCubemap(t, 4, red), solidCubemap(t, 4, blue)))
	if err != nil {
		t.Fatalf("NewSceneRenderer: %v", err)
	}
	return r
}
