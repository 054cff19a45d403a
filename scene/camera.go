package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera. Fov is the vertical field of view in degrees.
type Camera struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Fov         float32
	Aspect      float32
	Near        float32
	Far         float32
}

func NewPerspectiveCamera(fov, aspect, near, far float32) *Camera {
	if aspect <= 0 {
		aspect = 1
	}
	return &Camera{
		Orientation: mgl32.QuatIdent(),
		Fov:         fov,
		Aspect:      aspect,
		Near:        near,
		Far:         far,
	}
}

// SetRotationEuler takes radians in XYZ order.
func (c *Camera) SetRotationEuler(e mgl32.Vec3) {
	c.Orientation = EulerToQuat(e)
}

func (c *Camera) LookAt(target mgl32.Vec3) {
	view := mgl32.LookAtV(c.Position, target, mgl32.Vec3{0, 1, 0})
	c.Orientation = mgl32.Mat4ToQuat(view.Inv()).Normalize()
}

func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

func (c *Camera) WorldMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(c.Position.X(), c.Position.Y(), c.Position.Z()).Mul4(c.Orientation.Mat4())
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return c.WorldMatrix().Inv()
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

// Forward is the world-space viewing direction (-Z in camera space).
func (c *Camera) Forward() mgl32.Vec3 {
	return c.Orientation.Rotate(mgl32.Vec3{0, 0, -1})
}
