package picking

import (
	"testing"

	"github.com/gekko3d/springview/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(name string, pos mgl32.Vec3) *scene.Node {
	n := scene.NewMeshNode(name, scene.Box(name, mgl32.Vec3{1, 1, 1}))
	n.Transform.Position = pos
	return n
}

func TestPickReturnsClosestSurface(t *testing.T) {
	root := scene.NewNode("root")
	far := box("far", mgl32.Vec3{0, 0, -5})
	near := box("near", mgl32.Vec3{0, 0, 0})
	root.AddChild(far)
	root.AddChild(near)

	ray := Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{0, 0, -1}}
	hit, ok := Pick(root, ray)
	require.True(t, ok)
	assert.Same(t, near, hit.Node)
	assert.InDelta(t, 9.5, hit.Distance, 1e-4)
	assert.InDelta(t, 0.5, hit.Point.Z(), 1e-4)
}

func TestPickTraversesNestedGroups(t *testing.T) {
	root := scene.NewNode("root")
	group := scene.NewNode("group")
	group.Transform.Position = mgl32.Vec3{3, 0, 0}
	inner := scene.NewNode("inner")
	leaf := box("leaf", mgl32.Vec3{0, 0, 0})
	inner.AddChild(leaf)
	group.AddChild(inner)
	root.AddChild(group)

	ray := Ray{Origin: mgl32.Vec3{3, 0, 10}, Direction: mgl32.Vec3{0, 0, -1}}
	hit, ok := Pick(root, ray)
	require.True(t, ok)
	assert.Same(t, leaf, hit.Node)
	assert.InDelta(t, 3, hit.Point.X(), 1e-4)
}

func TestPickMiss(t *testing.T) {
	root := scene.NewNode("root")
	root.AddChild(box("box", mgl32.Vec3{0, 0, 0}))

	_, ok := Pick(root, Ray{Origin: mgl32.Vec3{5, 5, 10}, Direction: mgl32.Vec3{0, 0, -1}})
	assert.False(t, ok)

	_, ok = Pick(root, Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{0, 0, 1}})
	assert.False(t, ok, "boxes behind the ray origin are not hit")
}

func TestPickSkipsInvisible(t *testing.T) {
	root := scene.NewNode("root")
	hidden := box("hidden", mgl32.Vec3{0, 0, 0})
	hidden.Visible = false
	behind := box("behind", mgl32.Vec3{0, 0, -3})
	root.AddChild(hidden)
	root.AddChild(behind)

	hit, ok := Pick(root, Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{0, 0, -1}})
	require.True(t, ok)
	assert.Same(t, behind, hit.Node)
}

func TestScreenToRayCentreIsForward(t *testing.T) {
	cam := scene.NewPerspectiveCamera(75, 16.0/9.0, 0.1, 1000)
	cam.Position = mgl32.Vec3{0, 0, 10}

	ray := ScreenToRay(cam, mgl32.Vec2{0, 0})
	assert.InDelta(t, 0, ray.Direction.X(), 1e-4)
	assert.InDelta(t, 0, ray.Direction.Y(), 1e-4)
	assert.InDelta(t, -1, ray.Direction.Z(), 1e-4)

	right := ScreenToRay(cam, mgl32.Vec2{1, 0})
	assert.Greater(t, right.Direction.X(), float32(0))
	up := ScreenToRay(cam, mgl32.Vec2{0, 1})
	assert.Greater(t, up.Direction.Y(), float32(0))
}

func TestPointerToNDC(t *testing.T) {
	assert.Equal(t, mgl32.Vec2{-1, 1}, PointerToNDC(0, 0, 800, 600))
	assert.Equal(t, mgl32.Vec2{1, -1}, PointerToNDC(800, 600, 800, 600))
	assert.Equal(t, mgl32.Vec2{0, 0}, PointerToNDC(400, 300, 800, 600))
	assert.Equal(t, mgl32.Vec2{}, PointerToNDC(10, 10, 0, 0))
}

func TestIntersectPlane(t *testing.T) {
	ray := Ray{Origin: mgl32.Vec3{0, 10, 0}, Direction: mgl32.Vec3{0, -1, 0}}
	d, ok := IntersectPlane(ray, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	require.True(t, ok)
	assert.InDelta(t, 10, d, 1e-5)

	_, ok = IntersectPlane(Ray{Origin: mgl32.Vec3{0, 10, 0}, Direction: mgl32.Vec3{1, 0, 0}}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assert.False(t, ok)
}
