// Package mat4 implements the 4x4 float32 matrices used to place geometry
// on screen: rotation about an arbitrary axis, perspective projection,
// translation and multiplication.
//
// Matrices are column-major: element (row r, column c) lives at index
// c*4+r, so the 16 floats can be copied into a WGSL mat4x4<f32> uniform
// without reordering. Vectors are columns and transforms compose right to
// left:
//
//	// scale first, then rotate, then project
//	m := proj.Mul(rot.Mul(scale))
package mat4

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
)

// Size is the number of bytes in an encoded matrix.
const Size = 16 * 4

// Mat4 is a column-major 4x4 matrix.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At returns the element at row r, column c.
func (m *Mat4) At(r, c int) float32 {
	return m[c*4+r]
}

// Translate returns a matrix that moves points by (x, y, z).
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[12] = x
	m[13] = y
	m[14] = z
	return m
}

// Rotate returns a rotation of angle degrees about the axis (x, y, z)
// using Rodrigues' formula. The axis is normalized here, so any non-zero
// length works. A zero-length axis produces NaNs.
func Rotate(angle, x, y, z float32) Mat4 {
	rad := angle * math32.Pi / 180
	c := math32.Cos(rad)
	s := math32.Sin(rad)
	c1 := 1 - c

	length := math32.Sqrt(x*x + y*y + z*z)
	u0, u1, u2 := x/length, y/length, z/length

	return Mat4{
		u0*u0*c1 + c, u0*u1*c1 + u2*s, u0*u2*c1 - u1*s, 0,
		u0*u1*c1 - u2*s, u1*u1*c1 + c, u1*u2*c1 + u0*s, 0,
		u0*u2*c1 + u1*s, u1*u2*c1 - u0*s, u2*u2*c1 + c, 0,
		0, 0, 0, 1,
	}
}

// Perspective returns a symmetric perspective projection. fovy is the
// vertical field of view in radians and must lie in (0, π); near must be
// positive and differ from far.
func Perspective(fovy, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovy/2)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (near + far) / (near - far), -1,
		0, 0, 2 * near * far / (near - far), 0,
	}
}

// Multiply stores lhs × rhs in out, so rhs is applied first. out may alias
// lhs or rhs.
func Multiply(out, lhs, rhs *Mat4) {
	var tmp Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += lhs[k*4+r] * rhs[c*4+k]
			}
			tmp[c*4+r] = sum
		}
	}
	*out = tmp
}

// Mul returns m × o.
func (m Mat4) Mul(o Mat4) Mat4 {
	Multiply(&m, &m, &o)
	return m
}

// Transpose returns the transpose of m.
func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			t[r*4+c] = m[c*4+r]
		}
	}
	return t
}

// Determinant returns the determinant of m, expanded along 2x2 minors.
func (m Mat4) Determinant() float32 {
	a := func(r, c int) float32 { return m[c*4+r] }

	s0 := a(0, 0)*a(1, 1) - a(1, 0)*a(0, 1)
	s1 := a(0, 0)*a(1, 2) - a(1, 0)*a(0, 2)
	s2 := a(0, 0)*a(1, 3) - a(1, 0)*a(0, 3)
	s3 := a(0, 1)*a(1, 2) - a(1, 1)*a(0, 2)
	s4 := a(0, 1)*a(1, 3) - a(1, 1)*a(0, 3)
	s5 := a(0, 2)*a(1, 3) - a(1, 2)*a(0, 3)

	c5 := a(2, 2)*a(3, 3) - a(3, 2)*a(2, 3)
	c4 := a(2, 1)*a(3, 3) - a(3, 1)*a(2, 3)
	c3 := a(2, 1)*a(3, 2) - a(3, 1)*a(2, 2)
	c2 := a(2, 0)*a(3, 3) - a(3, 0)*a(2, 3)
	c1 := a(2, 0)*a(3, 2) - a(3, 0)*a(2, 2)
	c0 := a(2, 0)*a(3, 1) - a(3, 0)*a(2, 1)

	return s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
}

// Bytes encodes m as 16 little-endian float32 values in column order,
// ready for a uniform buffer write.
func (m *Mat4) Bytes() []byte {
	buf := make([]byte, Size)
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
