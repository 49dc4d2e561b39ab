// Package cube draws a depth-tested cube that spins about all three axes.
package cube

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/hellogpu"
	"github.com/gogpu/hellogpu/internal/app"
	"github.com/gogpu/hellogpu/internal/gpu"
	"github.com/gogpu/hellogpu/mat4"
	"github.com/gogpu/wgpu/hal"
)

// ClearColor is the background behind the cube.
var ClearColor = gputypes.Color{R: 0.1, G: 0.1, B: 0.1, A: 1}

// Program owns every GPU object of the cube and its animation state.
type Program struct {
	Spin Spin

	dev      *app.Device
	pipeline *gpu.Pipeline
	uniform  *gpu.Uniform
	vertices hal.Buffer
	count    uint32
	depth    gpu.DepthTarget
}

// New returns a cube program with all angles at zero.
func New() *Program {
	return &Program{depth: gpu.DepthTarget{Label: "cube_depth"}}
}

// Init loads the shaders, builds the pipeline and uploads the vertices.
func (p *Program) Init(dev *app.Device) error {
	p.dev = dev

	vs, err := dev.Shaders.Load(dev.Device, "cube.vert")
	if err != nil {
		return err
	}
	defer vs.Release(dev.Device)

	fs, err := dev.Shaders.Load(dev.Device, "cube.frag")
	if err != nil {
		return err
	}
	defer fs.Release(dev.Device)

	p.pipeline, err = gpu.NewPipeline(dev.Device, gpu.PipelineConfig{
		Label:         "cube",
		Vertex:        vs,
		Fragment:      fs,
		VertexBuffers: vertexLayout(),
		ColorFormat:   dev.Format,
		Depth:         true,
		UniformSize:   mat4.Size,
	})
	if err != nil {
		return err
	}

	p.uniform, err = gpu.NewUniform(dev.Device, p.pipeline)
	if err != nil {
		return err
	}

	p.vertices, err = gpu.Upload(dev.Device, dev.Queue, "cube_vertices",
		EncodeVertices(Vertices), gputypes.BufferUsageVertex)
	if err != nil {
		return fmt.Errorf("cube: upload vertices: %w", err)
	}
	p.count = uint32(len(Vertices))

	hellogpu.Logger().Debug("cube ready", "vertices", p.count)
	return nil
}

// Iterate draws one frame and advances the animation. Frames without a
// surface view or with an empty surface are skipped.
func (p *Program) Iterate(f app.Frame) error {
	if f.View == nil || f.Width == 0 || f.Height == 0 {
		return nil
	}

	created, err := p.depth.Ensure(p.dev.Device, f.Width, f.Height)
	if err != nil {
		return err
	}
	if created {
		hellogpu.Logger().Debug("depth target resized", "width", f.Width, "height", f.Height)
	}

	mvp := p.Spin.Transform(f.Aspect())
	if err := p.uniform.Write(p.dev.Queue, mvp.Bytes()); err != nil {
		return err
	}

	err = gpu.RenderPass(p.dev.Device, p.dev.Queue, gpu.Pass{
		Label:      "cube_frame",
		Color:      f.View,
		ClearColor: ClearColor,
		Depth:      p.depth.View(),
	}, func(rp hal.RenderPassEncoder) {
		p.pipeline.Bind(rp)
		p.uniform.Bind(rp)
		rp.SetVertexBuffer(0, p.vertices, 0)
		rp.Draw(p.count, 1, 0, 0)
	})
	if err != nil {
		return err
	}

	p.Spin.Advance()
	return nil
}

// Quit releases everything Init and Iterate created, in reverse order.
func (p *Program) Quit(app.Result) {
	if p.dev == nil {
		return
	}
	device := p.dev.Device

	p.depth.Destroy(device)
	if p.vertices != nil {
		device.DestroyBuffer(p.vertices)
		p.vertices = nil
	}
	p.uniform.Destroy(device)
	p.uniform = nil
	p.pipeline.Destroy(device)
	p.pipeline = nil
}
