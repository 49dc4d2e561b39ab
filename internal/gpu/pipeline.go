package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/hellogpu"
	"github.com/gogpu/hellogpu/internal/shader"
	"github.com/gogpu/wgpu/hal"
)

// DepthFormat is the format of every depth target created by this package.
const DepthFormat = gputypes.TextureFormatDepth24PlusStencil8

// ErrMissingShader is returned when a pipeline is built without a vertex
// or fragment shader.
var ErrMissingShader = errors.New("gpu: pipeline needs a vertex and a fragment shader")

// PipelineConfig describes a render pipeline with one color target.
type PipelineConfig struct {
	Label string

	Vertex   *shader.Shader
	Fragment *shader.Shader

	// VertexBuffers describes the vertex buffer slots.
	VertexBuffers []gputypes.VertexBufferLayout

	// ColorFormat is the format of the color target, normally the surface
	// format.
	ColorFormat gputypes.TextureFormat

	// Depth enables a DepthFormat depth test with less-than compare and
	// depth writes.
	Depth bool

	// UniformSize, when non-zero, adds a uniform buffer binding of that many
	// bytes at group 0, binding 0, visible to the vertex stage.
	UniformSize uint64
}

// Pipeline owns a render pipeline and its layouts.
type Pipeline struct {
	label         string
	uniformLayout hal.BindGroupLayout
	layout        hal.PipelineLayout
	pipeline      hal.RenderPipeline
	uniformSize   uint64
}

// NewPipeline creates the layouts and render pipeline described by cfg.
// Partially created objects are released on error.
func NewPipeline(device hal.Device, cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Vertex == nil || cfg.Fragment == nil {
		return nil, ErrMissingShader
	}

	p := &Pipeline{label: cfg.Label, uniformSize: cfg.UniformSize}

	var groups []hal.BindGroupLayout
	if cfg.UniformSize > 0 {
		uniformLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label: cfg.Label + "_uniform_layout",
			Entries: []gputypes.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: cfg.Vertex.Stage.Visibility(),
					Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
				},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("gpu: create %s uniform layout: %w", cfg.Label, err)
		}
		p.uniformLayout = uniformLayout
		groups = append(groups, uniformLayout)
	}

	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            cfg.Label + "_pipe_layout",
		BindGroupLayouts: groups,
	})
	if err != nil {
		p.Destroy(device)
		return nil, fmt.Errorf("gpu: create %s pipeline layout: %w", cfg.Label, err)
	}
	p.layout = layout

	desc := &hal.RenderPipelineDescriptor{
		Label:  cfg.Label,
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     cfg.Vertex.Module,
			EntryPoint: cfg.Vertex.EntryPoint,
			Buffers:    cfg.VertexBuffers,
		},
		Fragment: &hal.FragmentState{
			Module:     cfg.Fragment.Module,
			EntryPoint: cfg.Fragment.EntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    cfg.ColorFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if cfg.Depth {
		desc.DepthStencil = depthState()
	}

	pipeline, err := device.CreateRenderPipeline(desc)
	if err != nil {
		p.Destroy(device)
		return nil, fmt.Errorf("gpu: create %s pipeline: %w", cfg.Label, err)
	}
	p.pipeline = pipeline

	hellogpu.Logger().Debug("pipeline created",
		"label", cfg.Label,
		"vertex", cfg.Vertex.EntryPoint,
		"fragment", cfg.Fragment.EntryPoint,
		"format", cfg.Vertex.Format,
		"depth", cfg.Depth,
		"uniform_bytes", cfg.UniformSize)

	return p, nil
}

// depthState tests and writes depth; the stencil aspect is left untouched.
func depthState() *hal.DepthStencilState {
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	return &hal.DepthStencilState{
		Format:            DepthFormat,
		DepthWriteEnabled: true,
		DepthCompare:      gputypes.CompareFunctionLess,
		StencilFront:      keep,
		StencilBack:       keep,
		StencilReadMask:   0x00,
		StencilWriteMask:  0x00,
	}
}

// Bind sets the pipeline on rp.
func (p *Pipeline) Bind(rp hal.RenderPassEncoder) {
	rp.SetPipeline(p.pipeline)
}

// Label returns the label the pipeline was created with.
func (p *Pipeline) Label() string { return p.label }

// Destroy releases all pipeline resources in reverse creation order.
// Safe on nil and after a partial NewPipeline.
func (p *Pipeline) Destroy(device hal.Device) {
	if p == nil {
		return
	}
	if p.pipeline != nil {
		device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.layout != nil {
		device.DestroyPipelineLayout(p.layout)
		p.layout = nil
	}
	if p.uniformLayout != nil {
		device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
}
