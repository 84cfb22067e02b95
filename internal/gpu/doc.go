//go:build !nogpu

// Package gpu implements the wormhole GPU backend on gogpu/wgpu HAL.
//
// The backend compiles one WGSL program (shaders/wormhole.wgsl): a vertex
// stage passing the screen quad through, and a fragment stage that traces
// the pixel's ray across the wormhole embedding and samples the skybox of
// the side the ray ends on. The integration constants of the shader match
// the CPU tracer in the root package so both backends agree.
//
// # Resources
//
//   - WormholePipeline: shader module, bind group layout, pipeline layout
//     and render pipeline, one per target color format
//   - sceneResources: quad vertex buffer, uniform buffer, both skyboxes as
//     cube textures and their sampler, uploaded once at Init
//   - offscreenTarget: RGBA8 texture plus staging buffer for readback into
//     a wormhole.Pixmap
//
// # Bindings
//
//	@group(0) @binding(0) uniforms    (96 bytes, see wormhole.UniformBufferSize)
//	@group(0) @binding(1) uSkybox1    texture_cube<f32>
//	@group(0) @binding(2) uSkybox2    texture_cube<f32>
//	@group(0) @binding(3) uSampler    sampler
//
// # Device
//
// Without a device provider the backend opens its own Vulkan device. With
// SetDeviceProvider it renders on a shared device, typically a gogpu
// window's, and never destroys it.
package gpu

