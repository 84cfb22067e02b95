//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wormhole"
)

// sceneResources holds everything the wormhole draw binds: the quad vertex
// buffer, the uniform buffer, both skybox cube textures and their sampler.
// They are created once per scene and shared by every target format.
type sceneResources struct {
	device hal.Device
	queue  hal.Queue

	quadBuf     hal.Buffer
	uniformBuf  hal.Buffer
	uniformData []byte
	sampler     hal.Sampler
	sky1        *cubeTexture
	sky2        *cubeTexture
	bindGroups  map[gputypes.TextureFormat]hal.BindGroup
}

// newSceneResources uploads the static scene.
func newSceneResources(device hal.Device, queue hal.Queue, scene *wormhole.Scene) (*sceneResources, error) {
	if scene == nil || scene.Skybox1 == nil || scene.Skybox2 == nil {
		return nil, fmt.Errorf("%w: scene needs both skyboxes", wormhole.ErrInvalidCubemap)
	}
	r := &sceneResources{
		device:      device,
		queue:       queue,
		uniformData: make([]byte, wormhole.UniformBufferSize),
		bindGroups:  make(map[gputypes.TextureFormat]hal.BindGroup),
	}
	if err := r.create(scene); err != nil {
		r.destroy()
		return nil, err
	}
	return r, nil
}

func (r *sceneResources) create(scene *wormhole.Scene) error {
	quad := scene.Quad
	if len(quad) == 0 {
		quad = wormhole.QuadVertices()
	}
	quadBuf, err := r.createAndUploadBuffer("wormhole_quad", float32Bytes(quad),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.quadBuf = quadBuf

	uniformBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "wormhole_uniforms",
		Size:  wormhole.UniformBufferSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create wormhole_uniforms: %w", err)
	}
	r.uniformBuf = uniformBuf

	sampler, err := r.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "wormhole_sky_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMinClamp:  0,
		LodMaxClamp:  0,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}
	r.sampler = sampler

	if r.sky1, err = uploadCubemap(r.device, r.queue, scene.Skybox1, wormhole.UniformSkybox1); err != nil {
		return err
	}
	if r.sky2, err = uploadCubemap(r.device, r.queue, scene.Skybox2, wormhole.UniformSkybox2); err != nil {
		return err
	}

	return nil
}

// bindGroupFor returns the bind group of the scene for p, creating it on
// first use. Bind groups are cached per pipeline format.
func (r *sceneResources) bindGroupFor(p *WormholePipeline) (hal.BindGroup, error) {
	if bg, ok := r.bindGroups[p.Format()]; ok {
		return bg, nil
	}
	bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "wormhole_bind_group",
		Layout: p.BindGroupLayout(),
		Entries: []gputypes.BindGroupEntry{
			{
				Binding: bindingUniforms,
				Resource: gputypes.BufferBinding{
					Buffer: r.uniformBuf.NativeHandle(),
					Offset: 0,
					Size:   wormhole.UniformBufferSize,
				},
			},
			{Binding: bindingSkybox1, Resource: gputypes.TextureViewBinding{TextureView: r.sky1.view.NativeHandle()}},
			{Binding: bindingSkybox2, Resource: gputypes.TextureViewBinding{TextureView: r.sky2.view.NativeHandle()}},
			{Binding: bindingSampler, Resource: gputypes.SamplerBinding{Sampler: r.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	r.bindGroups[p.Format()] = bg
	return bg, nil
}

// writeUniforms packs u and uploads it for the next submission.
func (r *sceneResources) writeUniforms(u *wormhole.Uniforms) error {
	u.Put(r.uniformData)
	if err := r.queue.WriteBuffer(r.uniformBuf, 0, r.uniformData); err != nil {
		return fmt.Errorf("write uniforms: %w", err)
	}
	return nil
}

func (r *sceneResources) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if err := r.queue.WriteBuffer(buf, 0, data); err != nil {
		r.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("upload %s: %w", label, err)
	}
	return buf, nil
}

// destroy releases the resources in reverse creation order.
func (r *sceneResources) destroy() {
	if r == nil || r.device == nil {
		return
	}
	for format, bg := range r.bindGroups {
		r.device.DestroyBindGroup(bg)
		delete(r.bindGroups, format)
	}
	r.sky2.destroy()
	r.sky2 = nil
	r.sky1.destroy()
	r.sky1 = nil
	if r.sampler != nil {
		r.device.DestroySampler(r.sampler)
		r.sampler = nil
	}
	if r.uniformBuf != nil {
		r.device.DestroyBuffer(r.uniformBuf)
		r.uniformBuf = nil
	}
	if r.quadBuf != nil {
		r.device.DestroyBuffer(r.quadBuf)
		r.quadBuf = nil
	}
}

func float32Bytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
