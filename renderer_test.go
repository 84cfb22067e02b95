package wormhole

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestNewSceneRendererErrors(t *testing.T) {
	cubes := WithCubemaps(solidCubemap(t, 2, red), solidCubemap(t, 2, blue))
	tests := []struct {
		name    string
		space   Space
		w, h    float64
		opts    []Option
		wantErr error
	}{
		{"zero space", Space{}, 800, 600, []Option{cubes}, ErrInvalidRadius},
		{"zero width", MustSpace(1.4, 5), 0, 600, []Option{cubes}, ErrInvalidViewport},
		{"negative height", MustSpace(1.4, 5), 800, -1, []Option{cubes}, ErrInvalidViewport},
		{"unknown backend", MustSpace(1.4, 5), 800, 600, []Option{cubes, WithBackendName("nope")}, ErrUnknownBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewSceneRenderer(tt.space, tt.w, tt.h, tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if r != nil {
				t.Error("renderer returned alongside an error")
			}
		})
	}
}

func TestNewSceneRendererMissingSkybox(t *testing.T) {
	fsys := skyboxFS(t, "near", 2, red)
	_, err := NewSceneRenderer(MustSpace(1.4, 5), 800, 600,
		WithBackend(&mockBackend{}),
		WithImageLoader(FileLoader{FS: fsys}),
		WithSkyboxDirs("near", "far"),
		WithExtension("png"))
	var re *ResourceError
	if !errors.As(err, &re) {
		t.Fatalf("error = %v, want *ResourceError", err)
	}
	if re.Path != "far/sky_pos_x.png" {
		t.Errorf("Path = %q, want far/sky_pos_x.png", re.Path)
	}
}

func TestNewSceneRendererLoadsSkyboxes(t *testing.T) {
	fsys := fstest.MapFS{}
	for name, f := range skyboxFS(t, "a", 2, red) {
		fsys[name] = f
	}
	for name, f := range skyboxFS(t, "b", 2, blue) {
		fsys[name] = f
	}
	mock := &mockBackend{}
	r, err := NewSceneRenderer(MustSpace(1.4, 5), 800, 600,
		WithBackend(mock),
		WithImageLoader(FileLoader{FS: fsys}),
		WithSkyboxDirs("a", "b"),
		WithExtension("png"))
	if err != nil {
		t.Fatalf("NewSceneRenderer: %v", err)
	}
	defer r.Close()

	if mock.scene == nil {
		t.Fatal("backend not initialized")
	}
	if mock.scene.Skybox1.Name != "a" || mock.scene.Skybox2.Name != "b" {
		t.Errorf("skyboxes = %q, %q; want a, b", mock.scene.Skybox1.Name, mock.scene.Skybox2.Name)
	}
	if len(mock.scene.Quad) != QuadVertexCount*2 {
		t.Errorf("scene quad has %d floats", len(mock.scene.Quad))
	}
	if mock.scene.Camera != OrthoCamera() {
		t.Error("scene camera is not the orthographic camera")
	}
	u := r.Uniforms()
	if u.Skybox1 != mock.scene.Skybox1 || u.Skybox2 != mock.scene.Skybox2 {
		t.Error("uniform skyboxes differ from the scene")
	}
}

func TestRenderSetsCameraUniforms(t *testing.T) {
	mock := &mockBackend{}
	r, err := NewSceneRenderer(MustSpace(1.4, 5), 800, 600,
		WithBackend(mock),
		WithCubemaps(solidCubemap(t, 2, red), solidCubemap(t, 2, blue)))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	t.Run("identity orientation is the aspect matrix", func(t *testing.T) {
		pose := NewPose(7.8, math32.Pi/2, 0, mgl32.QuatIdent())
		if err := r.Render(pose, nil); err != nil {
			t.Fatal(err)
		}
		if mock.last.CameraOrientation != r.AspectFix() {
			t.Errorf("orientation = %v, want %v", mock.last.CameraOrientation, r.AspectFix())
		}
		if mock.last.CameraPosition != pose.Position {
			t.Errorf("position = %v, want %v", mock.last.CameraPosition, pose.Position)
		}
	})

	t.Run("rotation is applied before aspect", func(t *testing.T) {
		q := mgl32.QuatRotate(0.7, mgl32.Vec3{0, 1, 0})
		if err := r.Render(NewPose(3, 1, 2, q), nil); err != nil {
			t.Fatal(err)
		}
		want := q.Mat4().Mul4(r.AspectFix())
		if !mock.last.CameraOrientation.ApproxEqual(want) {
			t.Errorf("orientation = %v, want %v", mock.last.CameraOrientation, want)
		}
	})

	t.Run("uniforms are idempotent", func(t *testing.T) {
		pose := NewPose(-4, 0.3, 5, mgl32.QuatRotate(1, mgl32.Vec3{1, 0, 0}))
		_ = r.Render(pose, nil)
		first := mock.last
		_ = r.Render(pose, nil)
		if mock.last.CameraOrientation != first.CameraOrientation || mock.last.CameraPosition != first.CameraPosition {
			t.Error("same pose produced different uniforms")
		}
	})

	t.Run("resize is seen by the next frame", func(t *testing.T) {
		if err := r.SetSize(600, 800); err != nil {
			t.Fatal(err)
		}
		if err := r.Render(NewPose(7.8, math32.Pi/2, 0, mgl32.QuatIdent()), nil); err != nil {
			t.Fatal(err)
		}
		m := mock.last.CameraOrientation
		if m[0] != 1 || !mgl32.FloatEqual(m[5], 800.0/600.0) || m[10] != 2 {
			t.Errorf("diag = (%v, %v, %v), want (1, 1.333, 2)", m[0], m[5], m[10])
		}
	})

	t.Run("target is forwarded", func(t *testing.T) {
		pm := NewPixmap(4, 4)
		_ = r.Render(NewPose(7.8, 1, 0, mgl32.QuatIdent()), pm)
		if mock.target != pm {
			t.Errorf("target = %v, want the pixmap", mock.target)
		}
	})
}

func TestSetSizeInvalidKeepsPrevious(t *testing.T) {
	r := newTestRenderer(t, 800, 600)
	defer r.Close()

	before := r.AspectFix()
	if err := r.SetSize(0, 600); !errors.Is(err, ErrInvalidViewport) {
		t.Errorf("SetSize(0, 600) error = %v, want ErrInvalidViewport", err)
	}
	if r.AspectFix() != before {
		t.Error("failed SetSize changed the aspect matrix")
	}
	if w, h := r.Size(); w != 800 || h != 600 {
		t.Errorf("Size() = %v x %v, want 800 x 600", w, h)
	}
}

func TestRendererClose(t *testing.T) {
	mock := &mockBackend{}
	r, err := NewSceneRenderer(MustSpace(1.4, 5), 64, 64,
		WithBackend(mock),
		WithCubemaps(solidCubemap(t, 2, red), solidCubemap(t, 2, blue)))
	if err != nil {
		t.Fatal(err)
	}
	r.Close()
	r.Close()
	if mock.closes != 1 {
		t.Errorf("backend closed %d times, want 1", mock.closes)
	}
	if err := r.Render(NewPose(7.8, 1, 0, mgl32.QuatIdent()), nil); !errors.Is(err, ErrRendererClosed) {
		t.Errorf("Render after Close error = %v, want ErrRendererClosed", err)
	}
}

func TestRendererAccessors(t *testing.T) {
	r := newTestRenderer(t, 800, 600)
	defer r.Close()

	if r.Space().Radius() != 1.4 {
		t.Errorf("Space().Radius() = %v", r.Space().Radius())
	}
	if r.OrthoCamera() != OrthoCamera() {
		t.Error("OrthoCamera() differs from the package camera")
	}
	q := r.Quad()
	q[0] = 9
	if r.Quad()[0] != -1 {
		t.Error("Quad() exposes internal storage")
	}
}

func TestSoftwareRenderThroughThroat(t *testing.T) {
	r := newTestRenderer(t, 64, 64)
	defer r.Close()

	pm := NewPixmap(64, 64)
	pose := NewPose(2*1.4+5, math32.Pi/2, 0, mgl32.QuatIdent())
	if err := r.Render(pose, pm); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if got := pm.GetPixel(32, 32); got != blue {
		t.Errorf("centre pixel = %v, want far skybox (blue)", got)
	}
	for _, c := range [][2]int{{0, 0}, {63, 0}, {0, 63}, {63, 63}} {
		if got := pm.GetPixel(c[0], c[1]); got != red {
			t.Errorf("corner %v = %v, want near skybox (red)", c, got)
		}
	}
}

func TestSoftwareRenderLookingAway(t *testing.T) {
	r := newTestRenderer(t, 16, 16)
	defer r.Close()

	pm := NewPixmap(16, 16)
	away := mgl32.QuatRotate(math32.Pi, mgl32.Vec3{0, 1, 0})
	if err := r.Render(NewPose(7.8, math32.Pi/2, 0, away), pm); err != nil {
		t.Fatal(err)
	}
	for y := range 16 {
		for x := range 16 {
			if got := pm.GetPixel(x, y); got != red {
				t.Fatalf("pixel (%d, %d) = %v, want red", x, y, got)
			}
		}
	}
}
