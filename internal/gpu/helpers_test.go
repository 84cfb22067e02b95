//go:build !nogpu

package gpu

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/wormhole"
)

func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func solidCubemap(t *testing.T, size int, c color.RGBA) *wormhole.Cubemap {
	t.Helper()
	var faces [wormhole.FaceCount]image.Image
	for i := range faces {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p+0], img.Pix[p+1], img.Pix[p+2], img.Pix[p+3] = c.R, c.G, c.B, c.A
		}
		faces[i] = img
	}
	cm, err := wormhole.NewCubemap(faces)
	if err != nil {
		t.Fatalf("NewCubemap: %v", err)
	}
	return cm
}

func testScene(t *testing.T) *wormhole.Scene {
	t.Helper()
	return &wormhole.Scene{
		Space:   wormhole.MustSpace(1.4, 5),
		Skybox1: solidCubemap(t, 4, color.RGBA{R: 255, A: 255}),
		Skybox2: solidCubemap(t, 4, color.RGBA{B: 255, A: 255}),
		Quad:    wormhole.QuadVertices(),
		Camera:  wormhole.OrthoCamera(),
	}
}

func testUniforms(scene *wormhole.Scene) *wormhole.Uniforms {
	u := &wormhole.Uniforms{
		RadiusSquared:     float32(scene.Space.RadiusSquared()),
		ThroatLength:      float32(scene.Space.ThroatLength()),
		Skybox1:           scene.Skybox1,
		Skybox2:           scene.Skybox2,
		CameraPosition:    mgl32.Vec3{7.8, math32.Pi / 2, 0},
		CameraOrientation: mgl32.Ident4(),
	}
	return u
}

var errInjected = errors.New("injected failure")

// failingDevice wraps a device and fails the selected creation calls.
type failingDevice struct {
	hal.Device
	failShader     bool
	failBindLayout bool
	failPipeLayout bool
	failPipeline   bool
	failTexture    bool
	failBuffer     bool
}

func (d *failingDevice) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	if d.failShader {
		return nil, errInjected
	}
	return d.Device.CreateShaderModule(desc)
}

func (d *failingDevice) CreateBindGroupLayout(desc *hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error) {
	if d.failBindLayout {
		return nil, errInjected
	}
	return d.Device.CreateBindGroupLayout(desc)
}

func (d *failingDevice) CreatePipelineLayout(desc *hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error) {
	if d.failPipeLayout {
		return nil, errInjected
	}
	return d.Device.CreatePipelineLayout(desc)
}

func (d *failingDevice) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	if d.failPipeline {
		return nil, errInjected
	}
	return d.Device.CreateRenderPipeline(desc)
}

func (d *failingDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	if d.failTexture {
		return nil, errInjected
	}
	return d.Device.CreateTexture(desc)
}

func (d *failingDevice) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	if d.failBuffer {
		return nil, errInjected
	}
	return d.Device.CreateBuffer(desc)
}

// fakeProvider mimics a gogpu window's device provider.
type fakeProvider struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
}

func (p *fakeProvider) HalDevice() any                        { return p.device }
func (p *fakeProvider) HalQueue() any                         { return p.queue }
func (p *fakeProvider) Device() gpucontext.Device             { return p.device }
func (p *fakeProvider) Queue() gpucontext.Queue               { return p.queue }
func (p *fakeProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }
func (p *fakeProvider) Adapter() gpucontext.Adapter           { return nil }
func (p *fakeProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "noop"}
}

var _ gpucontext.DeviceProvider = (*fakeProvider)(nil)
