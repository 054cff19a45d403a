package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEulerRoundTrip(t *testing.T) {
	for _, e := range []mgl32.Vec3{
		{0, 0, 0},
		{0.3, -0.2, 1.1},
		{mgl32.DegToRad(81), mgl32.DegToRad(-2.3), mgl32.DegToRad(144)},
	} {
		got := QuatToEuler(EulerToQuat(e))
		assert.InDelta(t, e.X(), got.X(), 1e-4)
		assert.InDelta(t, e.Y(), got.Y(), 1e-4)
		assert.InDelta(t, e.Z(), got.Z(), 1e-4)
	}
}

func TestGraphIndexesNestedNodes(t *testing.T) {
	g := NewGraph()
	group := NewNode("group")
	child := NewMeshNode("Box_01", Box("box", mgl32.Vec3{1, 1, 1}))
	group.AddChild(child)
	g.Add(group)

	assert.Same(t, child, g.Lookup(child.ID))
	assert.Same(t, group, g.Lookup(group.ID))
	assert.Len(t, g.Meshes(), 1)

	g.Remove(group)
	assert.Nil(t, g.Lookup(child.ID))
	assert.Empty(t, g.Root.Children)
}

func TestObjectIDsAreUnique(t *testing.T) {
	a := NewNode("same")
	b := NewNode("same")
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, NilObjectID, a.ID)
}

func TestWorldPositionFollowsParents(t *testing.T) {
	parent := NewNode("parent")
	parent.Transform.Position = mgl32.Vec3{10, 0, 0}
	parent.Transform.Scale = mgl32.Vec3{2, 2, 2}
	child := NewNode("child")
	child.Transform.Position = mgl32.Vec3{1, 0, 0}
	parent.AddChild(child)

	p := child.WorldPosition()
	assert.InDelta(t, 12, p.X(), 1e-5)
	assert.InDelta(t, 0, p.Y(), 1e-5)
}

func TestWorldBoundsOfRotatedBox(t *testing.T) {
	n := NewMeshNode("box", Box("box", mgl32.Vec3{2, 2, 2}))
	n.Transform.Position = mgl32.Vec3{0, 5, 0}
	n.Transform.Rotation = mgl32.Vec3{0, mgl32.DegToRad(45), 0}

	b := n.WorldBounds()
	require.False(t, b.IsEmpty())
	assert.InDelta(t, 1.4142, b.Max.X(), 1e-3)
	assert.InDelta(t, 6, b.Max.Y(), 1e-5)
	assert.InDelta(t, 5, b.Center().Y(), 1e-5)
}

func TestStaticClassification(t *testing.T) {
	root := NewNode("root")
	floor := NewMeshNode("Main_FLOOR", Box("f", mgl32.Vec3{1, 1, 1}))
	wall := NewMeshNode("wall.001", Box("w", mgl32.Vec3{1, 1, 1}))
	chair := NewMeshNode("Chair", Box("c", mgl32.Vec3{1, 1, 1}))
	wallGroup := NewNode("WallGroup")
	root.AddChild(floor)
	root.AddChild(wall)
	root.AddChild(chair)
	root.AddChild(wallGroup)

	ClassifyStatic(root, DefaultStaticKeywords)
	assert.True(t, floor.Static)
	assert.True(t, wall.Static)
	assert.False(t, chair.Static)
	assert.False(t, wallGroup.Static, "groups are never classified")

	touched := ApplyStaticOverride(root, DefaultStaticKeywords, false)
	assert.Len(t, touched, 2)
	assert.False(t, floor.Static)
	assert.False(t, wall.Static)
}

func TestCameraLookAt(t *testing.T) {
	c := NewPerspectiveCamera(60, 1, 0.1, 1000)
	c.Position = mgl32.Vec3{0, 15, 20}
	c.LookAt(mgl32.Vec3{0, 0, 0})

	want := mgl32.Vec3{0, -15, -20}.Normalize()
	got := c.Forward()
	assert.InDelta(t, want.X(), got.X(), 1e-4)
	assert.InDelta(t, want.Y(), got.Y(), 1e-4)
	assert.InDelta(t, want.Z(), got.Z(), 1e-4)
}
