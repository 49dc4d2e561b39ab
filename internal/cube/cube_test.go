package cube

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/hellogpu/internal/app"
	"github.com/gogpu/hellogpu/internal/gpu"
	"github.com/gogpu/hellogpu/internal/shader"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFormat = gputypes.TextureFormatBGRA8Unorm

func noopDevice(t *testing.T, dir string) *app.Device {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	require.NoError(t, err)
	adapters := instance.EnumerateAdapters(nil)
	require.NotEmpty(t, adapters)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	require.NoError(t, err)
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return &app.Device{
		Device:  openDev.Device,
		Queue:   openDev.Queue,
		Format:  testFormat,
		Backend: "noop",
		Shaders: &shader.Loader{Dir: dir, Formats: shader.FormatWGSL},
	}
}

func TestVertices(t *testing.T) {
	require.Len(t, Vertices, 36)

	colors := map[[3]float32]int{}
	for _, v := range Vertices {
		for _, c := range v.Pos {
			assert.True(t, c == -0.5 || c == 0.5, "corner coordinate %v", c)
		}
		colors[v.Color]++
	}
	assert.Len(t, colors, 6, "one color per side")
	for c, n := range colors {
		assert.Equal(t, 6, n, "color %v", c)
	}

	// Every side lies in one plane.
	for face := 0; face < 6; face++ {
		tri := Vertices[face*6 : face*6+6]
		shared := 0
		for axis := 0; axis < 3; axis++ {
			same := true
			for _, v := range tri {
				same = same && v.Pos[axis] == tri[0].Pos[axis]
			}
			if same {
				shared++
			}
		}
		assert.Equal(t, 1, shared, "face %d", face)
	}
}

func TestEncodeVertices(t *testing.T) {
	vs := []Vertex{
		{Pos: [3]float32{1, 2, 3}, Color: [3]float32{0.25, 0.5, 1}},
		{Pos: [3]float32{-1, -2, -3}, Color: [3]float32{0, 0, 0}},
	}
	b := EncodeVertices(vs)
	require.Len(t, b, 2*vertexStride)

	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b[off:])) }
	assert.Equal(t, float32(1), f(0))
	assert.Equal(t, float32(3), f(8))
	assert.Equal(t, float32(0.25), f(12))
	assert.Equal(t, float32(1), f(20))
	assert.Equal(t, float32(-1), f(24))
	assert.Equal(t, float32(0), f(36))
}

func TestProgramLifecycle(t *testing.T) {
	dev := noopDevice(t, "../../resources")
	p := New()

	require.NoError(t, p.Init(dev))
	assert.Equal(t, uint32(36), p.count)

	color := &gpu.ColorTarget{Label: "offscreen", Format: testFormat}
	require.NoError(t, color.Create(dev.Device, 320, 240))
	defer color.Destroy(dev.Device)

	for i := 0; i < 3; i++ {
		require.NoError(t, p.Iterate(app.Frame{View: color.View(), Width: 320, Height: 240, Index: uint64(i)}))
	}
	assert.Equal(t, Spin{X: 1.5, Y: 1.5, Z: 1.5}, p.Spin)

	w, h := p.depth.Size()
	assert.Equal(t, uint32(320), w)
	assert.Equal(t, uint32(240), h)

	p.Quit(app.Success)
	assert.Nil(t, p.pipeline)
	assert.Nil(t, p.uniform)
	assert.Nil(t, p.vertices)
	assert.Nil(t, p.depth.View())

	// A second Quit is harmless.
	p.Quit(app.Success)
}

func TestIterateWithoutSurface(t *testing.T) {
	dev := noopDevice(t, "../../resources")
	p := New()
	require.NoError(t, p.Init(dev))
	defer p.Quit(app.Success)

	require.NoError(t, p.Iterate(app.Frame{Width: 320, Height: 240}))
	assert.Equal(t, Spin{}, p.Spin, "no animation without a frame")
	assert.Nil(t, p.depth.View())
}

func TestInitMissingShaders(t *testing.T) {
	dev := noopDevice(t, t.TempDir())
	p := New()

	assert.Error(t, p.Init(dev))
	assert.Nil(t, p.pipeline)

	// Quit after a failed Init releases what exists and does not panic.
	p.Quit(app.Failure)
}

func TestQuitWithoutInit(t *testing.T) {
	New().Quit(app.Success)
}
