package cube

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// vertexStride is 3 float32 position + 3 float32 color.
const vertexStride = 24

// Vertex is a position with an RGB color.
type Vertex struct {
	Pos   [3]float32
	Color [3]float32
}

// face colors, one per cube side.
var (
	red     = [3]float32{1, 0, 0}
	green   = [3]float32{0, 1, 0}
	blue    = [3]float32{0, 0, 1}
	yellow  = [3]float32{1, 1, 0}
	cyan    = [3]float32{0, 1, 1}
	magenta = [3]float32{1, 0, 1}
)

// Vertices lists the 12 triangles of a unit cube centered on the origin,
// each side in its own color.
var Vertices = buildVertices()

func buildVertices() []Vertex {
	// Corners of the cube, indexed by bit pattern zyx.
	var c [8][3]float32
	for i := range c {
		c[i] = [3]float32{
			float32(i&1) - 0.5,
			float32(i>>1&1) - 0.5,
			float32(i>>2&1) - 0.5,
		}
	}

	faces := []struct {
		quad  [4]int
		color [3]float32
	}{
		{[4]int{4, 5, 7, 6}, red},     // +z
		{[4]int{1, 0, 2, 3}, green},   // -z
		{[4]int{5, 1, 3, 7}, blue},    // +x
		{[4]int{0, 4, 6, 2}, yellow},  // -x
		{[4]int{6, 7, 3, 2}, cyan},    // +y
		{[4]int{0, 1, 5, 4}, magenta}, // -y
	}

	vs := make([]Vertex, 0, len(faces)*6)
	for _, f := range faces {
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			vs = append(vs, Vertex{Pos: c[f.quad[i]], Color: f.color})
		}
	}
	return vs
}

// EncodeVertices packs vs as little-endian float32 records.
func EncodeVertices(vs []Vertex) []byte {
	buf := make([]byte, len(vs)*vertexStride)
	for i, v := range vs {
		off := i * vertexStride
		for j, f := range v.Pos {
			binary.LittleEndian.PutUint32(buf[off+j*4:], math.Float32bits(f))
		}
		for j, f := range v.Color {
			binary.LittleEndian.PutUint32(buf[off+12+j*4:], math.Float32bits(f))
		}
	}
	return buf
}

// vertexLayout matches @location(0) position and @location(1) color in
// cube.vert.
func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1}, // color
			},
		},
	}
}
