package mat4

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func assertMatrixInDelta(t *testing.T, want, got Mat4, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "element %d (row %d, col %d)", i, i%4, i/4)
	}
}

var axes = []struct {
	name    string
	x, y, z float32
}{
	{"x", 1, 0, 0},
	{"y", 0, 1, 0},
	{"z", 0, 0, 1},
	{"diagonal", 1, 1, 1},
	{"unnormalized", 3, -4, 12},
	{"tiny", 1e-3, 2e-3, -1e-3},
}

var angles = []float32{0, 0.5, 30, 45, 90, 137.25, 180, 270, 359.5, -60}

func TestRotateOrthogonal(t *testing.T) {
	for _, ax := range axes {
		for _, angle := range angles {
			r := Rotate(angle, ax.x, ax.y, ax.z)

			// R × Rᵀ must be the identity.
			assertMatrixInDelta(t, Identity(), r.Mul(r.Transpose()), tol)
			assert.InDelta(t, 1, r.Determinant(), tol, "axis %s, angle %v", ax.name, angle)
		}
	}
}

func TestRotateFullTurn(t *testing.T) {
	for _, ax := range axes {
		t.Run(ax.name, func(t *testing.T) {
			assertMatrixInDelta(t, Rotate(0, ax.x, ax.y, ax.z), Rotate(360, ax.x, ax.y, ax.z), tol)
			assertMatrixInDelta(t, Identity(), Rotate(360, ax.x, ax.y, ax.z), tol)
		})
	}
}

func TestRotateAxisNormalization(t *testing.T) {
	assertMatrixInDelta(t, Rotate(33, 0, 0, 1), Rotate(33, 0, 0, 7.5), tol)
	assertMatrixInDelta(t, Rotate(33, 1, 2, 3), Rotate(33, 2, 4, 6), tol)
}

func TestRotateZQuarterTurn(t *testing.T) {
	// Column-major: the first column is where the x axis lands.
	r := Rotate(90, 0, 0, 1)
	want := Mat4{
		0, 1, 0, 0,
		-1, 0, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	assertMatrixInDelta(t, want, r, tol)
}

func TestPerspectiveClosedForm(t *testing.T) {
	p := Perspective(math.Pi/2, 1, 1, 2)

	assert.InDelta(t, 1, p[0], 1e-6, "f/aspect")
	assert.InDelta(t, 1, p[5], 1e-6, "f")
	assert.Equal(t, float32(-3), p[10], "(near+far)/(near-far)")
	assert.Equal(t, float32(-1), p[11], "perspective divide")
	assert.Equal(t, float32(-4), p[14], "2*near*far/(near-far)")
	assert.Equal(t, float32(0), p[15])

	for _, i := range []int{1, 2, 3, 4, 6, 7, 8, 9, 12, 13} {
		assert.Equal(t, float32(0), p[i], "element %d", i)
	}
}

func TestPerspectiveAspect(t *testing.T) {
	p := Perspective(math.Pi/3, 2, 0.5, 10)
	f := float32(1 / math.Tan(math.Pi/6))
	assert.InDelta(t, f/2, p[0], 1e-5)
	assert.InDelta(t, f, p[5], 1e-5)
	assert.InDelta(t, (0.5+10)/(0.5-10), p[10], 1e-6)
	assert.InDelta(t, 2*0.5*10/(0.5-10), p[14], 1e-6)
}

func sample() Mat4 {
	return Mat4{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
}

func TestMultiplyIdentity(t *testing.T) {
	inputs := []Mat4{
		sample(),
		Rotate(42, 1, 2, 3),
		Perspective(1, 1.5, 0.1, 50),
		Translate(1, -2, 3),
	}
	id := Identity()
	for _, a := range inputs {
		var out Mat4
		Multiply(&out, &a, &id)
		assert.Equal(t, a, out, "A × I")
		Multiply(&out, &id, &a)
		assert.Equal(t, a, out, "I × A")
	}
}

func TestMultiplyInPlace(t *testing.T) {
	a := Rotate(30, 0, 1, 0)
	b := Translate(0, 0, -2.5)

	var fresh Mat4
	Multiply(&fresh, &a, &b)

	lhsAlias := a
	Multiply(&lhsAlias, &lhsAlias, &b)
	assert.Equal(t, fresh, lhsAlias, "out aliases lhs")

	rhsAlias := b
	Multiply(&rhsAlias, &a, &rhsAlias)
	assert.Equal(t, fresh, rhsAlias, "out aliases rhs")

	sq := sample()
	var sqFresh Mat4
	Multiply(&sqFresh, &sq, &sq)
	Multiply(&sq, &sq, &sq)
	assert.Equal(t, sqFresh, sq, "out aliases both")
}

func TestMultiplyOrder(t *testing.T) {
	// Translate after rotating: the rotation must not move the offset.
	m := Translate(0, 0, -5).Mul(Rotate(90, 0, 1, 0))
	assert.InDelta(t, -5, m.At(2, 3), tol)

	// Rotating after translating swings the offset onto the x axis.
	m = Rotate(90, 0, 1, 0).Mul(Translate(0, 0, -5))
	assert.InDelta(t, -5, m.At(0, 3), tol)
	assert.InDelta(t, 0, m.At(2, 3), tol)
}

func TestDeterminant(t *testing.T) {
	assert.Equal(t, float32(1), Identity().Determinant())
	assert.Equal(t, float32(0), sample().Determinant())

	scale := Identity()
	scale[0], scale[5], scale[10] = 2, 3, 4
	assert.Equal(t, float32(24), scale.Determinant())
}

func TestBytes(t *testing.T) {
	m := sample()
	b := m.Bytes()
	require.Len(t, b, Size)
	for i := range m {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		assert.Equal(t, m[i], got, "element %d", i)
	}
}
