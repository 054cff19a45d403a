package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a node's local transform. Rotation is an XYZ Euler triple in radians,
// the same convention the bounce wobble writes into.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.Vec3{0, 0, 0},
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t Transform) Quat() mgl32.Quat {
	return EulerToQuat(t.Rotation)
}

func (t Transform) ObjectToWorld() mgl32.Mat4 {
	// M = T * R * S
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Quat().Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	return translate.Mul4(rotate).Mul4(scale)
}

// EulerToQuat builds Rx * Ry * Rz.
func EulerToQuat(e mgl32.Vec3) mgl32.Quat {
	qx := mgl32.QuatRotate(e.X(), mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(e.Y(), mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(e.Z(), mgl32.Vec3{0, 0, 1})
	return qx.Mul(qy).Mul(qz)
}

// QuatToEuler is the inverse of EulerToQuat. Near gimbal lock Z is pinned to zero.
func QuatToEuler(q mgl32.Quat) mgl32.Vec3 {
	m := q.Normalize().Mat4()
	m11, m12, m13 := float64(m.At(0, 0)), float64(m.At(0, 1)), float64(m.At(0, 2))
	m22, m23 := float64(m.At(1, 1)), float64(m.At(1, 2))
	m32, m33 := float64(m.At(2, 1)), float64(m.At(2, 2))

	y := math.Asin(math.Max(-1, math.Min(1, m13)))
	var x, z float64
	if math.Abs(m13) < 0.9999999 {
		x = math.Atan2(-m23, m33)
		z = math.Atan2(-m12, m11)
	} else {
		x = math.Atan2(m32, m22)
		z = 0
	}
	return mgl32.Vec3{float32(x), float32(y), float32(z)}
}
