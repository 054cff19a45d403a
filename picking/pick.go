package picking

import (
	"math"

	"github.com/gekko3d/springview/scene"
	"github.com/go-gl/mathgl/mgl32"
)

type Hit struct {
	Node     *scene.Node
	Point    mgl32.Vec3
	Distance float32
	Face     int
}

// Pick returns the closest intersected mesh under root. Every visible mesh in the
// hierarchy is considered, including meshes nested in groups. When two surfaces are hit
// at exactly the same distance the one visited first wins.
func Pick(root *scene.Node, ray Ray) (Hit, bool) {
	best := Hit{Distance: float32(math.MaxFloat32)}
	found := false

	root.Walk(mgl32.Ident4(), func(n *scene.Node, world mgl32.Mat4) {
		if n.Mesh == nil || !n.Visible {
			return
		}

		// 1. Broad phase: world AABB
		box := n.Mesh.Bounds().Transform(world)
		tMin, tMax, ok := intersectAABB(ray, box)
		if !ok || tMax < 0 || tMin > best.Distance {
			return
		}

		// 2. Narrow phase: triangles
		hit, ok := intersectMesh(ray, n, world)
		if ok && hit.Distance < best.Distance {
			best = hit
			found = true
		}
	})

	if !found {
		return Hit{}, false
	}
	return best, true
}

func intersectAABB(ray Ray, box scene.AABB) (float32, float32, bool) {
	if box.IsEmpty() {
		return 0, 0, false
	}
	tMin := float32(math.Inf(-1))
	tMax := float32(math.Inf(1))
	for i := 0; i < 3; i++ {
		d := ray.Direction[i]
		o := ray.Origin[i]
		if d > -1e-12 && d < 1e-12 {
			if o < box.Min[i] || o > box.Max[i] {
				return 0, 0, false
			}
			continue
		}
		inv := 1.0 / d
		t1 := (box.Min[i] - o) * inv
		t2 := (box.Max[i] - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}

func intersectMesh(ray Ray, n *scene.Node, world mgl32.Mat4) (Hit, bool) {
	mesh := n.Mesh
	closest := Hit{Distance: float32(math.MaxFloat32)}
	found := false

	for i := 0; i < mesh.TriangleCount(); i++ {
		a, b, c := mesh.Triangle(i)
		v0 := mgl32.TransformCoordinate(a, world)
		v1 := mgl32.TransformCoordinate(b, world)
		v2 := mgl32.TransformCoordinate(c, world)

		t, ok := mollerTrumbore(ray, v0, v1, v2)
		if ok && t < closest.Distance {
			closest = Hit{Node: n, Point: ray.At(t), Distance: t, Face: i}
			found = true
		}
	}
	return closest, found
}

// mollerTrumbore is double-sided: back faces are hit as well.
func mollerTrumbore(ray Ray, v0, v1, v2 mgl32.Vec3) (float32, bool) {
	const epsilon = 1e-7

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return 0, false // parallel
	}

	f := 1.0 / a
	s := ray.Origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	return t, t > epsilon
}
