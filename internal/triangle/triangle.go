// Package triangle draws a single triangle with red, green and blue
// corners on a black background.
package triangle

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/hellogpu"
	"github.com/gogpu/hellogpu/internal/app"
	"github.com/gogpu/hellogpu/internal/gpu"
	"github.com/gogpu/wgpu/hal"
)

// vertexStride is 3 float32 position + 4 normalized bytes of color.
const vertexStride = 16

// ClearColor is the background.
var ClearColor = gputypes.Color{R: 0, G: 0, B: 0, A: 1}

// Vertex is a position with an 8-bit RGBA color.
type Vertex struct {
	X, Y, Z    float32
	R, G, B, A uint8
}

// Vertices are the triangle corners, counter-clockwise from bottom left.
var Vertices = []Vertex{
	{-0.5, -0.5, 0, 255, 0, 0, 255},
	{0.5, -0.5, 0, 0, 255, 0, 255},
	{0, 0.5, 0, 0, 0, 255, 255},
}

// EncodeVertices packs vs into 16-byte records.
func EncodeVertices(vs []Vertex) []byte {
	buf := make([]byte, len(vs)*vertexStride)
	for i, v := range vs {
		off := i * vertexStride
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v.X))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(v.Y))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(v.Z))
		buf[off+12] = v.R
		buf[off+13] = v.G
		buf[off+14] = v.B
		buf[off+15] = v.A
	}
	return buf
}

func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatUnorm8x4, Offset: 12, ShaderLocation: 1}, // color
			},
		},
	}
}

// Program owns the triangle's pipeline and vertex buffer.
type Program struct {
	dev      *app.Device
	pipeline *gpu.Pipeline
	vertices hal.Buffer
	count    uint32
}

// New returns an uninitialized triangle program.
func New() *Program {
	return &Program{}
}

// Init loads the shaders, builds the pipeline and uploads the vertices.
func (p *Program) Init(dev *app.Device) error {
	p.dev = dev

	vs, err := dev.Shaders.Load(dev.Device, "triangle.vert")
	if err != nil {
		return err
	}
	defer vs.Release(dev.Device)

	fs, err := dev.Shaders.Load(dev.Device, "triangle.frag")
	if err != nil {
		return err
	}
	defer fs.Release(dev.Device)

	p.pipeline, err = gpu.NewPipeline(dev.Device, gpu.PipelineConfig{
		Label:         "triangle",
		Vertex:        vs,
		Fragment:      fs,
		VertexBuffers: vertexLayout(),
		ColorFormat:   dev.Format,
	})
	if err != nil {
		return err
	}

	p.vertices, err = gpu.Upload(dev.Device, dev.Queue, "triangle_vertices",
		EncodeVertices(Vertices), gputypes.BufferUsageVertex)
	if err != nil {
		return fmt.Errorf("triangle: upload vertices: %w", err)
	}
	p.count = uint32(len(Vertices))

	hellogpu.Logger().Debug("triangle ready", "vertices", p.count)
	return nil
}

// Iterate clears the frame and draws the triangle.
func (p *Program) Iterate(f app.Frame) error {
	if f.View == nil {
		return nil
	}
	return gpu.RenderPass(p.dev.Device, p.dev.Queue, gpu.Pass{
		Label:      "triangle_frame",
		Color:      f.View,
		ClearColor: ClearColor,
	}, func(rp hal.RenderPassEncoder) {
		p.pipeline.Bind(rp)
		rp.SetVertexBuffer(0, p.vertices, 0)
		rp.Draw(p.count, 1, 0, 0)
	})
}

// Quit releases the vertex buffer and pipeline.
func (p *Program) Quit(app.Result) {
	if p.dev == nil {
		return
	}
	if p.vertices != nil {
		p.dev.Device.DestroyBuffer(p.vertices)
		p.vertices = nil
	}
	p.pipeline.Destroy(p.dev.Device)
	p.pipeline = nil
}
