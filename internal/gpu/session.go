//go:build !nogpu

package gpu

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wormhole"
)

// copyRowAlignment is the required BytesPerRow alignment of texture to
// buffer copies.
const copyRowAlignment = 256

// offscreenFormat is the color format of readback targets. It matches the
// RGBA byte order of wormhole.Pixmap so no swizzle is needed.
const offscreenFormat = gputypes.TextureFormatRGBA8Unorm

// offscreenTarget is a render texture plus the staging buffer its pixels
// are copied into for readback. It is reused while the size is unchanged.
type offscreenTarget struct {
	device hal.Device

	width, height uint32
	rowPitch      uint32

	tex     hal.Texture
	view    hal.TextureView
	staging hal.Buffer
}

func alignedRowPitch(width uint32) uint32 {
	row := width * 4
	return (row + copyRowAlignment - 1) / copyRowAlignment * copyRowAlignment
}

func newOffscreenTarget(device hal.Device, w, h uint32) (*offscreenTarget, error) {
	t := &offscreenTarget{device: device, width: w, height: h, rowPitch: alignedRowPitch(w)}

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "wormhole_offscreen",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        offscreenFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create offscreen texture: %w", err)
	}
	t.tex = tex

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "wormhole_offscreen_view",
		Format:        offscreenFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.destroy()
		return nil, fmt.Errorf("create offscreen view: %w", err)
	}
	t.view = view

	staging, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "wormhole_staging",
		Size:  t.stagingSize(),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		t.destroy()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	t.staging = staging
	return t, nil
}

func (t *offscreenTarget) stagingSize() uint64 {
	return uint64(t.rowPitch) * uint64(t.height)
}

func (t *offscreenTarget) matches(w, h uint32) bool {
	return t != nil && t.width == w && t.height == h
}

// encodeCopy records the transition and copy of the rendered texture into
// the staging buffer.
func (t *offscreenTarget) encodeCopy(encoder hal.CommandEncoder) {
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Range:   hal.TextureRange{Aspect: gputypes.TextureAspectAll, MipLevelCount: 1, ArrayLayerCount: 1},
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(t.tex, t.staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: t.rowPitch, RowsPerImage: t.height},
		TextureBase:  hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0, Aspect: gputypes.TextureAspectAll},
		Size:         hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
	}})
}

// readInto maps the staging buffer and copies the unpadded rows into dst.
// The GPU must be idle.
func (t *offscreenTarget) readInto(dst *wormhole.Pixmap) error {
	size := t.stagingSize()
	mapping, err := t.device.MapBuffer(t.staging, 0, size)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	src := unsafe.Slice((*byte)(mapping.Ptr), size)
	row := int(t.width) * 4
	data := dst.Data()
	for y := 0; y < int(t.height); y++ {
		off := y * int(t.rowPitch)
		copy(data[y*dst.Stride():y*dst.Stride()+row], src[off:off+row])
	}
	if err := t.device.UnmapBuffer(t.staging); err != nil {
		return fmt.Errorf("unmap staging buffer: %w", err)
	}
	return nil
}

func (t *offscreenTarget) destroy() {
	if t == nil {
		return
	}
	if t.staging != nil {
		t.device.DestroyBuffer(t.staging)
		t.staging = nil
	}
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// frame is one submission of the wormhole draw.
type frame struct {
	pipeline  *WormholePipeline
	bindGroup hal.BindGroup
	quad      hal.Buffer
	view      hal.TextureView
	width     uint32
	height    uint32
	readback  *offscreenTarget
}

// submitFrame encodes a cleared render pass with the full-screen draw and
// submits it. With a readback target the pixels are copied to staging and
// the call waits for the device to go idle.
func submitFrame(device hal.Device, queue hal.Queue, f *frame) error {
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "wormhole_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("wormhole_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "wormhole_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       f.view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	})
	rp.SetViewport(0, 0, float32(f.width), float32(f.height), 0, 1)
	f.pipeline.RecordDraw(rp, f.bindGroup, f.quad)
	rp.End()

	if f.readback != nil {
		f.readback.encodeCopy(encoder)
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	if _, err := queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if f.readback != nil {
		if err := device.WaitIdle(); err != nil {
			return fmt.Errorf("wait for GPU: %w", err)
		}
	}
	return nil
}
