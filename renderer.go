package wormhole

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// SceneRenderer draws the wormhole view. It owns the uniform set, the
// aspect correction matrix, the screen quad, the orthographic camera and
// the backend that runs the shader program.
//
// A SceneRenderer is not safe for concurrent use: Render and SetSize must
// be called from one goroutine, normally the frame loop.
type SceneRenderer struct {
	space    Space
	uniforms Uniforms
	aspect   mgl32.Mat4
	ortho    mgl32.Mat4
	quad     []float32
	backend  Backend
	width    float64
	height   float64
	closed   bool
}

// NewSceneRenderer loads both skyboxes, binds them and the space constants
// into the uniform set, builds the screen quad and orthographic camera,
// initializes the backend and computes the aspect matrix for width×height.
//
// Errors: ErrInvalidRadius for a zero Space, ErrInvalidViewport for bad
// dimensions, *ResourceError for a skybox face that cannot be loaded and
// *ShaderError when the GPU program cannot be built.
func NewSceneRenderer(space Space, width, height float64, opts ...Option) (*SceneRenderer, error) {
	if space.IsZero() {
		return nil, fmt.Errorf("%w: zero Space", ErrInvalidRadius)
	}
	if !validExtent(width) || !validExtent(height) {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidViewport, width, height)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	near, far, err := o.loadCubemaps()
	if err != nil {
		return nil, err
	}

	r := &SceneRenderer{
		space:    space,
		uniforms: newUniforms(space, near, far),
		ortho:    OrthoCamera(),
		quad:     QuadVertices(),
	}

	scene := &Scene{
		Space:   space,
		Skybox1: near,
		Skybox2: far,
		Quad:    r.quad,
		Camera:  r.ortho,
	}
	r.backend, err = o.initBackend(scene)
	if err != nil {
		return nil, err
	}

	if err := r.SetSize(width, height); err != nil {
		r.backend.Close()
		return nil, err
	}
	Logger().Info("wormhole: renderer ready",
		"backend", r.backend.Name(), "radius", space.Radius(), "throatLength", space.ThroatLength())
	return r, nil
}

// loadCubemaps returns the supplied cubemaps, loading the missing ones.
func (o *options) loadCubemaps() (near, far *Cubemap, err error) {
	near, far = o.skybox1, o.skybox2
	if near == nil {
		if near, err = o.loadCubemap(o.skybox1Dir); err != nil {
			return nil, nil, err
		}
	}
	if far == nil {
		if far, err = o.loadCubemap(o.skybox2Dir); err != nil {
			return nil, nil, err
		}
	}
	return near, far, nil
}

func (o *options) loadCubemap(dir string) (*Cubemap, error) {
	if o.cubemaps != nil {
		return o.cubemaps.Load(o.loader, dir, o.ext)
	}
	return LoadCubemap(o.loader, dir, o.ext)
}

// initBackend creates and initializes the configured backend. A backend
// picked by default that fails for reasons other than its shader falls
// back to the software backend.
func (o *options) initBackend(scene *Scene) (Backend, error) {
	b := o.backend
	explicit := b != nil || o.backendName != ""
	if b == nil {
		name := o.backendName
		if name == "" {
			name = DefaultBackend()
		}
		var err error
		if b, err = NewBackend(name); err != nil {
			return nil, err
		}
	}
	if b == nil {
		return nil, ErrNilBackend
	}
	propagateLogger(b)

	err := b.Init(scene)
	if err == nil {
		return b, nil
	}
	b.Close()

	var shaderErr *ShaderError
	if explicit || errors.As(err, &shaderErr) || b.Name() == SoftwareBackendName {
		return nil, fmt.Errorf("wormhole: init %s backend: %w", b.Name(), err)
	}
	Logger().Warn("wormhole: backend unavailable, using software", "backend", b.Name(), "err", err)
	sw := NewSoftwareBackend(0)
	propagateLogger(sw)
	if err := sw.Init(scene); err != nil {
		return nil, fmt.Errorf("wormhole: init software backend: %w", err)
	}
	return sw, nil
}

// Render draws one frame for the given camera pose into target, or into
// the backend's default surface when target is nil. The pose is not
// validated; its orientation must be a unit quaternion.
func (r *SceneRenderer) Render(pose Pose, target Target) error {
	if r.closed {
		return ErrRendererClosed
	}
	r.uniforms.CameraPosition = pose.Position
	r.uniforms.CameraOrientation = pose.Orientation.Mat4().Mul4(r.aspect)
	return r.backend.Draw(&r.uniforms, target)
}

// SetSize recomputes the aspect correction matrix for a new viewport.
// Invalid dimensions fail with ErrInvalidViewport and keep the previous
// matrix. The output surface itself is not resized.
func (r *SceneRenderer) SetSize(width, height float64) error {
	m, err := AspectFix(width, height)
	if err != nil {
		return err
	}
	r.aspect = m
	r.width, r.height = width, height
	Logger().Debug("wormhole: viewport", "width", width, "height", height, "vx", m[0], "vy", m[5])
	return nil
}

// Size returns the viewport set by the last successful SetSize.
func (r *SceneRenderer) Size() (width, height float64) {
	return r.width, r.height
}

// Space returns the wormhole space the renderer was built for.
func (r *SceneRenderer) Space() Space { return r.space }

// Uniforms returns a copy of the current uniform set.
func (r *SceneRenderer) Uniforms() Uniforms { return r.uniforms }

// AspectFix returns the current aspect correction matrix.
func (r *SceneRenderer) AspectFix() mgl32.Mat4 { return r.aspect }

// OrthoCamera returns the fixed orthographic projection of the quad.
func (r *SceneRenderer) OrthoCamera() mgl32.Mat4 { return r.ortho }

// Quad returns a copy of the screen quad vertices.
func (r *SceneRenderer) Quad() []float32 {
	return append([]float32(nil), r.quad...)
}

// Backend returns the backend executing the draws.
func (r *SceneRenderer) Backend() Backend { return r.backend }

// Close releases the backend. Render fails with ErrRendererClosed afterwards.
// Close is safe to call multiple times.
func (r *SceneRenderer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.backend.Close()
}
