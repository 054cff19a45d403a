package picking

import (
	"github.com/gekko3d/springview/scene"
	"github.com/go-gl/mathgl/mgl32"
)

type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ScreenToRay builds the world-space ray through a pointer position given in normalized
// device coordinates (x right, y up, both in [-1, 1]).
func ScreenToRay(camera *scene.Camera, ndc mgl32.Vec2) Ray {
	origin := camera.Position
	invViewProj := camera.ProjectionMatrix().Mul4(camera.ViewMatrix()).Inv()

	p := invViewProj.Mul4x1(mgl32.Vec4{ndc.X(), ndc.Y(), 0.5, 1})
	if p.W() != 0 {
		p = p.Mul(1.0 / p.W())
	}
	dir := p.Vec3().Sub(origin)
	if dir.Len() < 1e-12 {
		dir = camera.Forward()
	}

	return Ray{Origin: origin, Direction: dir.Normalize()}
}

// PointerToNDC converts window pixel coordinates (origin top-left) to NDC.
func PointerToNDC(x, y float64, width, height int) mgl32.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl32.Vec2{}
	}
	nx := float32(x/float64(width))*2 - 1
	ny := -float32(y/float64(height))*2 + 1
	return mgl32.Vec2{nx, ny}
}

// IntersectPlane returns the ray parameter where the ray meets the plane through point
// with the given normal. Rays parallel to the plane or pointing away from it miss.
func IntersectPlane(ray Ray, point, normal mgl32.Vec3) (float32, bool) {
	denom := normal.Dot(ray.Direction)
	if denom > -1e-6 && denom < 1e-6 {
		return 0, false
	}
	t := point.Sub(ray.Origin).Dot(normal) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}
