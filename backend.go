package wormhole

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnknownBackend is returned by NewBackend for a name nobody registered.
var ErrUnknownBackend = errors.New("wormhole: unknown backend")

// ErrNoTarget is returned by Draw when the target is nil and the backend
// has no default surface.
var ErrNoTarget = errors.New("wormhole: no render target")

// Target is a render destination. Its size is the viewport of the draw.
type Target interface {
	TargetSize() (width, height int)
}

// Scene is what a backend receives once, at renderer construction: the
// static part of the frame that never changes while the renderer lives.
type Scene struct {
	Space   Space
	Skybox1 *Cubemap
	Skybox2 *Cubemap

	// Quad holds QuadVertexCount (x, y) pairs in NDC.
	Quad []float32

	// Camera is the orthographic projection of the quad. The quad already
	// lies in NDC, so backends may ignore it.
	Camera mgl32.Mat4
}

// Backend executes the wormhole shader program.
//
// Implementations: the software backend in this package and the GPU
// backend registered by importing github.com/gogpu/wormhole/gpu.
type Backend interface {
	// Name returns the backend identifier (e.g., "software", "gpu").
	Name() string

	// Init builds the shader program and uploads the static scene.
	// Shader build failures are returned as *ShaderError.
	Init(scene *Scene) error

	// Draw issues one full-screen draw with the given uniforms into
	// target. A nil target selects the backend's default surface.
	Draw(u *Uniforms, target Target) error

	// Close releases all resources held by the backend.
	Close()
}

// DeviceProviderAware is implemented by backends that can render with a
// GPU device owned by someone else, such as a gogpu window.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

// BackendFactory creates a fresh, uninitialized backend.
type BackendFactory func() Backend

var (
	backendMu      sync.RWMutex
	backends       = map[string]BackendFactory{}
	defaultBackend string
)

// RegisterBackend makes a backend available under name and makes it the
// default for renderers built without WithBackend. Registering a name
// again replaces the factory.
//
// Backend packages call this from init:
//
//	func init() {
//	    wormhole.RegisterBackend("gpu", func() wormhole.Backend { return gpuimpl.NewBackend() })
//	}
func RegisterBackend(name string, factory BackendFactory) {
	if name == "" || factory == nil {
		panic("wormhole: RegisterBackend needs a name and a factory")
	}
	backendMu.Lock()
	defer backendMu.Unlock()
	backends[name] = factory
	defaultBackend = name
}

// NewBackend creates an uninitialized backend by name.
func NewBackend(name string) (Backend, error) {
	backendMu.RLock()
	factory, ok := backends[name]
	backendMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return factory(), nil
}

// Backends returns the registered backend names in sorted order.
func Backends() []string {
	backendMu.RLock()
	defer backendMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultBackend returns the name of the most recently registered backend.
func DefaultBackend() string {
	backendMu.RLock()
	defer backendMu.RUnlock()
	return defaultBackend
}
