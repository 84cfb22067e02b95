//go:build !nogpu

// Package gpu registers the GPU backend of the wormhole renderer.
//
// Import this package to make "gpu" the default backend of renderers built
// without WithBackend. If the GPU cannot be initialized (no Vulkan device),
// the renderer logs a warning and falls back to the software backend.
//
// Usage:
//
//	import _ "github.com/gogpu/wormhole/gpu" // enable GPU rendering
//
// To render into a gogpu window, create the backend explicitly and share
// the window's device:
//
//	b := gpu.NewBackend()
//	if err := b.SetDeviceProvider(app.GPUContextProvider()); err != nil {
//	    // fall back to an own device
//	}
//	r, err := wormhole.NewSceneRenderer(space, w, h, wormhole.WithBackend(b))
package gpu

import (
	"github.com/gogpu/wormhole"
	gpuimpl "github.com/gogpu/wormhole/internal/gpu"
)

// BackendName is the registry name of the GPU backend.
const BackendName = gpuimpl.BackendName

// Backend is the GPU backend. See NewBackend.
type Backend = gpuimpl.Backend

func init() {
	wormhole.RegisterBackend(BackendName, func() wormhole.Backend { return gpuimpl.NewBackend() })
}

// NewBackend creates an uninitialized GPU backend. Pass it to
// wormhole.WithBackend; the renderer initializes and closes it.
func NewBackend() *Backend {
	return gpuimpl.NewBackend()
}

// NewSharedBackend creates a GPU backend that renders with the device of
// provider, typically gogpu's App.GPUContextProvider(). The provider must
// expose its HAL device and queue.
func NewSharedBackend(provider any) (*Backend, error) {
	b := gpuimpl.NewBackend()
	if err := b.SetDeviceProvider(provider); err != nil {
		return nil, err
	}
	return b, nil
}

// ShaderSource returns the WGSL source of the wormhole program.
func ShaderSource() string {
	return gpuimpl.ShaderSource()
}
