//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wormhole"
)

// Bind group slots of the wormhole program.
const (
	bindingUniforms = 0
	bindingSkybox1  = 1
	bindingSkybox2  = 2
	bindingSampler  = 3
)

// quadVertexStride is the byte size of one vec2<f32> quad vertex.
const quadVertexStride = 8

// WormholePipeline is the compiled wormhole program: shader module, bind
// group layout, pipeline layout and render pipeline for one color format.
// It holds no per-frame state.
type WormholePipeline struct {
	device hal.Device
	format gputypes.TextureFormat

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

// NewWormholePipeline validates and compiles the wormhole shader and links
// it into a render pipeline writing format. Failures are returned as
// *wormhole.ShaderError naming the stage that failed.
func NewWormholePipeline(device hal.Device, format gputypes.TextureFormat) (*WormholePipeline, error) {
	return newPipelineFromSource(device, format, wormholeShaderSource)
}

func newPipelineFromSource(device hal.Device, format gputypes.TextureFormat, source string) (*WormholePipeline, error) {
	if err := ValidateShader(source); err != nil {
		return nil, err
	}
	p := &WormholePipeline{device: device, format: format}
	if err := p.create(source); err != nil {
		p.Destroy()
		return nil, err
	}
	slogger().Debug("wormhole pipeline created", "format", format)
	return p, nil
}

func (p *WormholePipeline) create(source string) error {
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "wormhole_shader",
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return &wormhole.ShaderError{Stage: wormhole.StageModule, Err: err}
	}
	p.shader = shader

	fragment := gputypes.ShaderStageFragment
	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "wormhole_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    bindingUniforms,
				Visibility: fragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    bindingSkybox1,
				Visibility: fragment,
				Texture:    cubeTextureLayout(),
			},
			{
				Binding:    bindingSkybox2,
				Visibility: fragment,
				Texture:    cubeTextureLayout(),
			},
			{
				Binding:    bindingSampler,
				Visibility: fragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return &wormhole.ShaderError{Stage: wormhole.StageLayout, Err: fmt.Errorf("bind group layout: %w", err)}
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "wormhole_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return &wormhole.ShaderError{Stage: wormhole.StageLayout, Err: fmt.Errorf("pipeline layout: %w", err)}
	}
	p.pipeLayout = pipeLayout

	replace := gputypes.BlendStateReplace()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "wormhole_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: vertexEntryPoint,
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: fragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					Blend:     &replace,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return &wormhole.ShaderError{Stage: wormhole.StagePipeline, Err: err}
	}
	p.pipeline = pipeline
	return nil
}

func cubeTextureLayout() *gputypes.TextureBindingLayout {
	return &gputypes.TextureBindingLayout{
		SampleType:    gputypes.TextureSampleTypeFloat,
		ViewDimension: gputypes.TextureViewDimensionCube,
	}
}

// quadVertexLayout describes the screen quad: one vec2<f32> per vertex
// at shader location 0.
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		},
	}
}

// Format returns the color format the pipeline renders to.
func (p *WormholePipeline) Format() gputypes.TextureFormat { return p.format }

// BindGroupLayout returns the layout scene resources are bound with.
func (p *WormholePipeline) BindGroupLayout() hal.BindGroupLayout { return p.bindLayout }

// RecordDraw records the single full-screen draw into an open render pass.
// bindGroup must have been created against BindGroupLayout.
func (p *WormholePipeline) RecordDraw(rp hal.RenderPassEncoder, bindGroup hal.BindGroup, quad hal.Buffer) {
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.SetVertexBuffer(0, quad, 0)
	rp.Draw(wormhole.QuadVertexCount, 1, 0, 0)
}

// Destroy releases the pipeline objects in reverse creation order. It is
// safe to call on a partially created pipeline and more than once.
func (p *WormholePipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
