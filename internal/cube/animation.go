package cube

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/hellogpu/mat4"
)

// Animation and camera constants.
const (
	// Step is the per-frame increment of every angle, in degrees.
	Step = 0.5

	// PullBack moves the cube away from the camera along -z.
	PullBack = 2.5

	// FieldOfView is the vertical field of view in degrees.
	FieldOfView = 45

	Near = 0.01
	Far  = 100
)

// Spin holds the rotation angles about x, y and z in degrees. Advance keeps
// them in [0, 360).
type Spin struct {
	X, Y, Z float32
}

// Wrap maps any finite angle into [0, 360).
func Wrap(deg float32) float32 {
	deg = math32.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// -tiny + 360 rounds to 360 in float32.
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// Advance steps every angle by Step and wraps it.
func (s *Spin) Advance() {
	s.X = Wrap(s.X + Step)
	s.Y = Wrap(s.Y + Step)
	s.Z = Wrap(s.Z + Step)
}

// Rotation returns rotateZ × (rotateY × rotateX).
func (s Spin) Rotation() mat4.Mat4 {
	rx := mat4.Rotate(s.X, 1, 0, 0)
	ry := mat4.Rotate(s.Y, 0, 1, 0)
	rz := mat4.Rotate(s.Z, 0, 0, 1)

	var m mat4.Mat4
	mat4.Multiply(&m, &ry, &rx)
	mat4.Multiply(&m, &rz, &m)
	return m
}

// Transform returns the model-view-projection matrix for the current
// angles: perspective × rotation × translate(0, 0, -PullBack).
func (s Spin) Transform(aspect float32) mat4.Mat4 {
	proj := mat4.Perspective(FieldOfView*math32.Pi/180, aspect, Near, Far)
	back := mat4.Translate(0, 0, -PullBack)
	rot := s.Rotation()

	var m mat4.Mat4
	mat4.Multiply(&m, &rot, &back)
	mat4.Multiply(&m, &proj, &m)
	return m
}
