package wormhole

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // skybox faces are usually JPEG
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Face indexes a cubemap face in +X, -X, +Y, -Y, +Z, -Z order,
// which is also the layer order of the GPU cube texture.
type Face int

// Cubemap faces.
const (
	FacePosX Face = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// FaceCount is the number of faces of a cubemap.
const FaceCount = 6

// faceNames are the file base names of the six faces.
var faceNames = [FaceCount]string{
	"sky_pos_x", "sky_neg_x",
	"sky_pos_y", "sky_neg_y",
	"sky_pos_z", "sky_neg_z",
}

// String returns the file base name of the face, e.g. "sky_pos_x".
func (f Face) String() string {
	if f < 0 || f >= FaceCount {
		return fmt.Sprintf("Face(%d)", int(f))
	}
	return faceNames[f]
}

// Default skybox locations, relative to the working directory.
const (
	DefaultSkybox1Dir = "textures/skybox1"
	DefaultSkybox2Dir = "textures/skybox2"
	DefaultExtension  = "jpg"
)

// Cubemap is a loaded skybox: six square RGBA faces of equal size.
// A Cubemap is read-only after construction.
type Cubemap struct {
	// Name identifies the cubemap in logs, usually its directory.
	Name  string
	Size  int
	Faces [FaceCount]*image.RGBA
}

// NewCubemap combines six decoded faces, given in Face order. Every face
// must be square and all faces must have the same size.
func NewCubemap(faces [FaceCount]image.Image) (*Cubemap, error) {
	c := &Cubemap{}
	for i, img := range faces {
		if img == nil {
			return nil, fmt.Errorf("%w: %s is nil", ErrInvalidCubemap, Face(i))
		}
		b := img.Bounds()
		if b.Dx() != b.Dy() || b.Dx() == 0 {
			return nil, fmt.Errorf("%w: %s is %dx%d, want square", ErrInvalidCubemap, Face(i), b.Dx(), b.Dy())
		}
		if i == 0 {
			c.Size = b.Dx()
		} else if b.Dx() != c.Size {
			return nil, fmt.Errorf("%w: %s is %d pixels, want %d", ErrInvalidCubemap, Face(i), b.Dx(), c.Size)
		}
		c.Faces[i] = toRGBA(img)
	}
	return c, nil
}

// toRGBA returns img as a zero-origin *image.RGBA, converting if needed.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

// ImageLoader decodes one skybox face image.
type ImageLoader interface {
	// LoadImage loads dir/base.ext.
	LoadImage(dir, base, ext string) (image.Image, error)
}

// FileLoader loads faces from a file system. With a nil FS it reads the
// host file system through the os package.
type FileLoader struct {
	FS fs.FS
}

// LoadImage implements ImageLoader.
func (l FileLoader) LoadImage(dir, base, ext string) (image.Image, error) {
	var (
		f   fs.File
		err error
	)
	if l.FS == nil {
		f, err = os.Open(filepath.Join(dir, base+"."+ext))
	} else {
		f, err = l.FS.Open(path.Join(dir, base+"."+ext))
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// LoadCubemap loads the six faces dir/sky_pos_x.ext ... dir/sky_neg_z.ext.
// Any missing, undecodable or mismatched face fails with a *ResourceError
// naming the file.
func LoadCubemap(loader ImageLoader, dir, ext string) (*Cubemap, error) {
	if loader == nil {
		loader = FileLoader{}
	}
	var faces [FaceCount]image.Image
	for i := range faces {
		img, err := loader.LoadImage(dir, faceNames[i], ext)
		if err == nil && img == nil {
			err = fmt.Errorf("%w: loader returned no image", ErrInvalidCubemap)
		}
		if err != nil {
			return nil, &ResourceError{Path: facePath(dir, i, ext), Err: err}
		}
		faces[i] = img
	}
	c, err := NewCubemap(faces)
	if err != nil {
		return nil, &ResourceError{Path: facePath(dir, failingFace(faces), ext), Err: err}
	}
	c.Name = dir
	Logger().Debug("wormhole: cubemap loaded", "dir", dir, "size", c.Size)
	return c, nil
}

func facePath(dir string, face int, ext string) string {
	return path.Join(filepath.ToSlash(dir), faceNames[face]+"."+ext)
}

// failingFace returns the first face that NewCubemap rejects.
func failingFace(faces [FaceCount]image.Image) int {
	size := faces[0].Bounds().Dx()
	for i, img := range faces {
		b := img.Bounds()
		if b.Dx() != b.Dy() || b.Dx() == 0 || b.Dx() != size {
			return i
		}
	}
	return 0
}

// faceCoords projects a direction onto the cube and returns the face and
// the texture coordinates (u, v) in [0, 1]. It follows the cube texture
// addressing used by the GPU: u grows to the right, v grows downward.
func faceCoords(dir mgl32.Vec3) (face Face, u, v float32) {
	x, y, z := dir[0], dir[1], dir[2]
	ax, ay, az := math32.Abs(x), math32.Abs(y), math32.Abs(z)

	var sc, tc, ma float32
	switch {
	case ax >= ay && ax >= az:
		ma = ax
		if x > 0 {
			face, sc, tc = FacePosX, -z, -y
		} else {
			face, sc, tc = FaceNegX, z, -y
		}
	case ay >= az:
		ma = ay
		if y > 0 {
			face, sc, tc = FacePosY, x, z
		} else {
			face, sc, tc = FaceNegY, x, -z
		}
	default:
		ma = az
		if z > 0 {
			face, sc, tc = FacePosZ, x, -y
		} else {
			face, sc, tc = FaceNegZ, -x, -y
		}
	}
	if ma == 0 {
		return FacePosZ, 0.5, 0.5
	}
	return face, (sc/ma + 1) / 2, (tc/ma + 1) / 2
}

// Sample returns the bilinearly filtered colour of the cubemap in
// direction dir, which need not be normalized. Samples do not cross
// face edges; they clamp to the face like a clamp-to-edge sampler.
func (c *Cubemap) Sample(dir mgl32.Vec3) color.RGBA {
	face, u, v := faceCoords(dir)
	img := c.Faces[face]
	n := float32(c.Size)

	fx := clampf(u*n-0.5, 0, n-1)
	fy := clampf(v*n-0.5, 0, n-1)
	x0, y0 := int(fx), int(fy)
	x1, y1 := min(x0+1, c.Size-1), min(y0+1, c.Size-1)
	tx, ty := fx-float32(x0), fy-float32(y0)

	var out [4]float32
	p00 := img.PixOffset(x0, y0)
	p10 := img.PixOffset(x1, y0)
	p01 := img.PixOffset(x0, y1)
	p11 := img.PixOffset(x1, y1)
	for k := range out {
		top := lerp(float32(img.Pix[p00+k]), float32(img.Pix[p10+k]), tx)
		bottom := lerp(float32(img.Pix[p01+k]), float32(img.Pix[p11+k]), tx)
		out[k] = lerp(top, bottom, ty)
	}
	return color.RGBA{
		R: uint8(out[0] + 0.5),
		G: uint8(out[1] + 0.5),
		B: uint8(out[2] + 0.5),
		A: uint8(out[3] + 0.5),
	}
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func clampf(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(v, hi))
}
