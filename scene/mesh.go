package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func EmptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

func (b AABB) IsEmpty() bool {
	return b.Min.X() > b.Max.X() || b.Min.Y() > b.Max.Y() || b.Min.Z() > b.Max.Z()
}

func (b AABB) Extend(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
	return b
}

func (b AABB) Union(o AABB) AABB {
	if o.IsEmpty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Transform returns the AABB enclosing the 8 transformed corners of b.
func (b AABB) Transform(m mgl32.Mat4) AABB {
	if b.IsEmpty() {
		return b
	}
	out := EmptyAABB()
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{b.Min.X(), b.Min.Y(), b.Min.Z()}
		if i&1 != 0 {
			corner[0] = b.Max.X()
		}
		if i&2 != 0 {
			corner[1] = b.Max.Y()
		}
		if i&4 != 0 {
			corner[2] = b.Max.Z()
		}
		out = out.Extend(mgl32.TransformCoordinate(corner, m))
	}
	return out
}

// Mesh is the CPU-side geometry of a surface: enough to pick against, nothing more.
// Indices may be empty, in which case every three positions form a triangle.
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Indices   []uint32
	bounds    AABB
}

func NewMesh(name string, positions []mgl32.Vec3, indices []uint32) *Mesh {
	m := &Mesh{Name: name, Positions: positions, Indices: indices}
	m.bounds = EmptyAABB()
	for _, p := range positions {
		m.bounds = m.bounds.Extend(p)
	}
	return m
}

func (m *Mesh) Bounds() AABB {
	return m.bounds
}

func (m *Mesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Positions) / 3
}

func (m *Mesh) Triangle(i int) (mgl32.Vec3, mgl32.Vec3, mgl32.Vec3) {
	if len(m.Indices) > 0 {
		return m.Positions[m.Indices[3*i]], m.Positions[m.Indices[3*i+1]], m.Positions[m.Indices[3*i+2]]
	}
	return m.Positions[3*i], m.Positions[3*i+1], m.Positions[3*i+2]
}

// Box is an axis-aligned cuboid centred on the origin.
func Box(name string, size mgl32.Vec3) *Mesh {
	h := size.Mul(0.5)
	positions := []mgl32.Vec3{
		{-h.X(), -h.Y(), -h.Z()}, {h.X(), -h.Y(), -h.Z()}, {h.X(), h.Y(), -h.Z()}, {-h.X(), h.Y(), -h.Z()},
		{-h.X(), -h.Y(), h.Z()}, {h.X(), -h.Y(), h.Z()}, {h.X(), h.Y(), h.Z()}, {-h.X(), h.Y(), h.Z()},
	}
	indices := []uint32{
		0, 2, 1, 0, 3, 2, // -Z
		4, 5, 6, 4, 6, 7, // +Z
		0, 1, 5, 0, 5, 4, // -Y
		3, 6, 2, 3, 7, 6, // +Y
		0, 4, 7, 0, 7, 3, // -X
		1, 2, 6, 1, 6, 5, // +X
	}
	return NewMesh(name, positions, indices)
}

// Plane lies in XZ (y = 0), centred on the origin.
func Plane(name string, width, depth float32) *Mesh {
	hw, hd := width/2, depth/2
	positions := []mgl32.Vec3{
		{-hw, 0, -hd}, {hw, 0, -hd}, {hw, 0, hd}, {-hw, 0, hd},
	}
	return NewMesh(name, positions, []uint32{0, 2, 1, 0, 3, 2})
}
