// Package gpu wraps the wgpu HAL calls shared by the sample programs.
//
// It builds render pipelines from loaded shaders, uploads vertex data to
// device-local buffers through a staging buffer, manages depth targets and
// records a single render pass per frame:
//
//	vertex shader + fragment shader -> Pipeline
//	[]byte -> staging buffer -> copy command -> device buffer
//	Pass{color view, depth view} -> RenderPass -> submit -> fence wait
//
// Every call that submits work blocks on a fence until the GPU is done, so
// callers never have to track in-flight command buffers.
package gpu
