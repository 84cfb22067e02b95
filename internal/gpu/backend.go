//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan" // register Vulkan HAL backend

	"github.com/gogpu/wormhole"
)

// BackendName is the registry name of the GPU backend.
const BackendName = "gpu"

// GPU backend errors.
var (
	// ErrNoGPU is returned by Init when no adapter could be opened.
	ErrNoGPU = errors.New("gpu: no GPU available")

	// ErrInvalidProvider is returned by SetDeviceProvider for a provider
	// that does not expose HAL device and queue.
	ErrInvalidProvider = errors.New("gpu: provider does not expose HAL device and queue")

	// ErrInvalidSurface is returned by SetSurface for a view that is not a
	// HAL texture view or an empty size.
	ErrInvalidSurface = errors.New("gpu: invalid surface")
)

// halProvider is implemented by device providers that hand out their HAL
// objects, such as a gogpu window.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// surfaceTarget is the window surface a nil Draw target renders into.
type surfaceTarget struct {
	view   hal.TextureView
	format gputypes.TextureFormat
	width  uint32
	height uint32
}

// Backend executes the wormhole program on a wgpu HAL device. It renders
// either into a window surface supplied per frame with SetSurface, or
// offscreen with readback into a *wormhole.Pixmap.
//
// Without a device provider, Init opens its own Vulkan device.
type Backend struct {
	mu sync.Mutex

	instance       hal.Instance
	device         hal.Device
	queue          hal.Queue
	adapterName    string
	surfaceFormat  gputypes.TextureFormat
	externalDevice bool // shared device, not destroyed on Close

	res       *sceneResources
	pipelines map[gputypes.TextureFormat]*WormholePipeline
	offscreen *offscreenTarget
	surface   surfaceTarget
	ready     bool
}

var (
	_ wormhole.Backend             = (*Backend)(nil)
	_ wormhole.DeviceProviderAware = (*Backend)(nil)
)

// NewBackend creates an uninitialized GPU backend.
func NewBackend() *Backend {
	return &Backend{pipelines: make(map[gputypes.TextureFormat]*WormholePipeline)}
}

// Name implements wormhole.Backend.
func (b *Backend) Name() string { return BackendName }

// SetLogger sets the logger of the GPU package.
func (b *Backend) SetLogger(l *slog.Logger) { setLogger(l) }

// SetDeviceProvider makes the backend render with a device owned by
// provider. The provider must implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue. A provider that also implements
// gpucontext.DeviceProvider supplies the surface format.
//
// It must be called before Init.
func (b *Backend) SetDeviceProvider(provider any) error {
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("%w: %T", ErrInvalidProvider, provider)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("%w: HalDevice is not hal.Device", ErrInvalidProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("%w: HalQueue is not hal.Queue", ErrInvalidProvider)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseLocked()
	b.destroyDeviceLocked()
	b.device = device
	b.queue = queue
	b.externalDevice = true
	if dp, ok := provider.(gpucontext.DeviceProvider); ok {
		b.surfaceFormat = dp.SurfaceFormat()
		b.adapterName = dp.AdapterInfo().Name
	}
	slogger().Info("gpu: using shared device", "adapter", b.adapterName, "surface_format", b.surfaceFormat)
	return nil
}

// Init implements wormhole.Backend. It opens a device if none was
// provided, builds the offscreen pipeline and uploads the scene.
func (b *Backend) Init(scene *wormhole.Scene) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if scene == nil || scene.Skybox1 == nil || scene.Skybox2 == nil {
		return fmt.Errorf("%w: scene needs both skyboxes", wormhole.ErrInvalidCubemap)
	}
	if b.device == nil {
		if err := b.openDevice(); err != nil {
			return err
		}
	}

	// Shader problems surface here rather than on the first frame.
	if _, err := b.pipelineLocked(offscreenFormat); err != nil {
		return err
	}
	b.res.destroy()
	b.res = nil
	b.ready = false
	res, err := newSceneResources(b.device, b.queue, scene)
	if err != nil {
		return fmt.Errorf("gpu: upload scene: %w", err)
	}
	b.res = res
	b.ready = true
	slogger().Info("gpu: backend ready", "adapter", b.adapterName, "shared", b.externalDevice)
	return nil
}

// openDevice creates an instance on the Vulkan backend and opens the first
// discrete or integrated adapter, falling back to whatever is listed first.
func (b *Backend) openDevice() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: vulkan backend not available", ErrNoGPU)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("%w: create instance: %w", ErrNoGPU, err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return fmt.Errorf("%w: no adapters found", ErrNoGPU)
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("%w: open device: %w", ErrNoGPU, err)
	}
	b.instance = instance
	b.device = openDev.Device
	b.queue = openDev.Queue
	b.adapterName = selected.Info.Name
	b.externalDevice = false
	return nil
}

// pipelineLocked returns the pipeline for format, building it on first use.
func (b *Backend) pipelineLocked(format gputypes.TextureFormat) (*WormholePipeline, error) {
	if p, ok := b.pipelines[format]; ok {
		return p, nil
	}
	p, err := NewWormholePipeline(b.device, format)
	if err != nil {
		return nil, err
	}
	b.pipelines[format] = p
	return p, nil
}

// SurfaceFormat returns the surface format reported by the device
// provider, or the offscreen format when there is none.
func (b *Backend) SurfaceFormat() gputypes.TextureFormat {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.surfaceFormat == gputypes.TextureFormatUndefined {
		return offscreenFormat
	}
	return b.surfaceFormat
}

// SetSurface sets the texture view a nil Draw target renders into. view
// must be a hal.TextureView of the given format, valid until the next
// SetSurface; window integrations call this once per frame with the
// current swapchain view. A zero format selects SurfaceFormat.
func (b *Backend) SetSurface(view any, format gputypes.TextureFormat, width, height int) error {
	v, ok := view.(hal.TextureView)
	if !ok || v == nil {
		return fmt.Errorf("%w: %T is not a texture view", ErrInvalidSurface, view)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidSurface, width, height)
	}
	if format == gputypes.TextureFormatUndefined {
		format = b.SurfaceFormat()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.surface = surfaceTarget{
		view:   v,
		format: format,
		width:  uint32(width),  //nolint:gosec // checked positive
		height: uint32(height), //nolint:gosec // checked positive
	}
	return nil
}

// Draw implements wormhole.Backend. A *wormhole.Pixmap target is rendered
// offscreen and read back; a nil target renders into the surface set by
// SetSurface.
func (b *Backend) Draw(u *wormhole.Uniforms, target wormhole.Target) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.ready {
		return wormhole.ErrNotInitialized
	}
	switch t := target.(type) {
	case nil:
		if b.surface.view == nil {
			return wormhole.ErrNoTarget
		}
		return b.drawSurfaceLocked(u)
	case *wormhole.Pixmap:
		if t == nil {
			return wormhole.ErrNoTarget
		}
		return b.drawPixmapLocked(u, t)
	default:
		return fmt.Errorf("%w: gpu backend cannot draw to %T", wormhole.ErrUnsupportedTarget, target)
	}
}

func (b *Backend) drawSurfaceLocked(u *wormhole.Uniforms) error {
	p, err := b.pipelineLocked(b.surface.format)
	if err != nil {
		return err
	}
	bg, err := b.res.bindGroupFor(p)
	if err != nil {
		return err
	}
	if err := b.res.writeUniforms(u); err != nil {
		return err
	}
	return submitFrame(b.device, b.queue, &frame{
		pipeline:  p,
		bindGroup: bg,
		quad:      b.res.quadBuf,
		view:      b.surface.view,
		width:     b.surface.width,
		height:    b.surface.height,
	})
}

func (b *Backend) drawPixmapLocked(u *wormhole.Uniforms, dst *wormhole.Pixmap) error {
	if dst.Width() == 0 || dst.Height() == 0 {
		return nil
	}
	w, h := uint32(dst.Width()), uint32(dst.Height()) //nolint:gosec // pixmap sizes are non-negative
	if !b.offscreen.matches(w, h) {
		b.offscreen.destroy()
		b.offscreen = nil
		off, err := newOffscreenTarget(b.device, w, h)
		if err != nil {
			return err
		}
		b.offscreen = off
		slogger().Debug("gpu: offscreen target", "width", w, "height", h)
	}

	p, err := b.pipelineLocked(offscreenFormat)
	if err != nil {
		return err
	}
	bg, err := b.res.bindGroupFor(p)
	if err != nil {
		return err
	}
	if err := b.res.writeUniforms(u); err != nil {
		return err
	}
	err = submitFrame(b.device, b.queue, &frame{
		pipeline:  p,
		bindGroup: bg,
		quad:      b.res.quadBuf,
		view:      b.offscreen.view,
		width:     w,
		height:    h,
		readback:  b.offscreen,
	})
	if err != nil {
		return err
	}
	return b.offscreen.readInto(dst)
}

// Close implements wormhole.Backend. A shared device is left alive.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.releaseLocked()
	b.destroyDeviceLocked()
}

// destroyDeviceLocked drops the device, destroying it only if the backend
// opened it.
func (b *Backend) destroyDeviceLocked() {
	if !b.externalDevice {
		if b.device != nil {
			b.device.Destroy()
		}
		if b.instance != nil {
			b.instance.Destroy()
		}
	}
	b.device = nil
	b.queue = nil
	b.instance = nil
	b.externalDevice = false
}

// releaseLocked destroys everything created on the current device, in
// reverse creation order, and leaves the device itself alone.
func (b *Backend) releaseLocked() {
	if b.device != nil && b.ready {
		if err := b.device.WaitIdle(); err != nil {
			slogger().Warn("gpu: wait idle before release", "err", err)
		}
	}
	b.offscreen.destroy()
	b.offscreen = nil
	b.res.destroy()
	b.res = nil
	for format, p := range b.pipelines {
		p.Destroy()
		delete(b.pipelines, format)
	}
	b.surface = surfaceTarget{}
	b.ready = false
}
