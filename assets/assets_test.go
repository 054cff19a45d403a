package assets

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gekko3d/springview/animation"
	"github.com/gekko3d/springview/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cubePositions = [][3]float32{
	{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
	{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
}

var cubeIndices = []uint16{
	0, 2, 1, 0, 3, 2,
	4, 5, 6, 4, 6, 7,
	0, 1, 5, 0, 5, 4,
	3, 7, 6, 3, 6, 2,
	0, 4, 7, 0, 7, 3,
	1, 2, 6, 1, 6, 5,
}

// writeRoom saves a binary glTF with a floor, a box under a group and a clip sliding
// the box along x.
func writeRoom(t *testing.T) string {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, cubePositions)
	idx := modeler.WriteIndices(doc, cubeIndices)
	doc.Meshes = []*gltf.Mesh{{
		Name: "cube",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "Group", Children: []int{1}, Translation: [3]float64{10, 0, 0}},
		{Name: "Box_01", Mesh: gltf.Index(0), Translation: [3]float64{0, 1, 0}},
		{Name: "Floor_Main", Mesh: gltf.Index(0), Scale: [3]float64{10, 0.1, 10}},
	}
	doc.Scenes[0].Nodes = []int{0, 2}

	input := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 1})
	output := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{0, 1, 0}, {2, 1, 0}})
	doc.Animations = []*gltf.Animation{{
		Name: "slide",
		Samplers: []*gltf.AnimationSampler{{
			Input:         input,
			Output:        output,
			Interpolation: gltf.InterpolationLinear,
		}},
		Channels: []*gltf.AnimationChannel{{
			Sampler: 0,
			Target:  gltf.AnimationChannelTarget{Node: gltf.Index(1), Path: gltf.TRSTranslation},
		}},
	}}

	path := filepath.Join(t.TempDir(), "room.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func byName(root *scene.Node, name string) *scene.Node {
	var found *scene.Node
	root.Traverse(func(n *scene.Node) {
		if n.Name == name {
			found = n
		}
	})
	return found
}

func TestGLTFLoaderBuildsHierarchy(t *testing.T) {
	l := NewGLTFLoader(nil)
	l.Center = false
	m, err := l.Load(context.Background(), writeRoom(t))
	require.NoError(t, err)

	box := byName(m.Root, "Box_01")
	require.NotNil(t, box)
	require.NotNil(t, box.Parent)
	assert.Equal(t, "Group", box.Parent.Name)
	assert.Equal(t, mgl32.Vec3{10, 1, 0}, box.WorldPosition())
	assert.Equal(t, 12, box.Mesh.TriangleCount())
	assert.False(t, box.Static)

	floor := byName(m.Root, "Floor_Main")
	require.NotNil(t, floor)
	assert.True(t, floor.Static)
	assert.False(t, byName(m.Root, "Group").Static)

	assert.Len(t, m.Meshes(), 2)
}

func TestGLTFLoaderReadsClips(t *testing.T) {
	l := NewGLTFLoader(nil)
	l.Center = false
	m, err := l.Load(context.Background(), writeRoom(t))
	require.NoError(t, err)
	require.Len(t, m.Clips, 1)

	clip := m.Clips[0]
	assert.Equal(t, "slide", clip.Name)
	assert.InDelta(t, 1, clip.Duration, 1e-6)
	require.Len(t, clip.Tracks, 1)
	box := byName(m.Root, "Box_01")
	assert.Equal(t, box.ID, clip.Tracks[0].Target)
	assert.Equal(t, animation.PathTranslation, clip.Tracks[0].Path)
	assert.InDelta(t, 1, clip.Tracks[0].Sample(0.5).X(), 1e-6)
}

func TestGLTFLoaderCentersModel(t *testing.T) {
	m, err := NewGLTFLoader(nil).Load(context.Background(), writeRoom(t))
	require.NoError(t, err)
	c := m.Root.WorldBounds().Center()
	assert.InDelta(t, 0, c.X(), 1e-4)
	assert.InDelta(t, 0, c.Y(), 1e-4)
	assert.InDelta(t, 0, c.Z(), 1e-4)
}

func TestGLTFLoaderMissingFile(t *testing.T) {
	_, err := NewGLTFLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "nope.glb"))
	assert.Error(t, err)
}

func TestGLTFLoaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGLTFLoader(nil).Load(ctx, "ignored.glb")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGLTFLoaderRejectsEmptyDocument(t *testing.T) {
	_, err := NewGLTFLoader(nil).Build(gltf.NewDocument())
	assert.ErrorIs(t, err, ErrNoGeometry)
}

func TestProceduralDemo(t *testing.T) {
	p := NewProcedural()
	m, err := p.Load(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", m.Source)

	assert.True(t, byName(m.Root, "Floor").Static)
	assert.True(t, byName(m.Root, "Wall_Back").Static)
	assert.False(t, byName(m.Root, "Box_02").Static)
	require.Len(t, m.Clips, 2)
	assert.Equal(t, "bob", m.Clips[0].Name)

	_, err = p.Load(context.Background(), "missing")
	assert.ErrorContains(t, err, "(have demo)")

	p.Register("arena", DemoRoom)
	assert.Equal(t, []string{"arena", "demo"}, p.Names())
	_, err = p.Load(context.Background(), "missing")
	assert.ErrorContains(t, err, "(have arena, demo)")
}

func TestCenter(t *testing.T) {
	root := scene.NewNode("root")
	b := scene.NewMeshNode("b", scene.Box("b", mgl32.Vec3{2, 2, 2}))
	b.Transform.Position = mgl32.Vec3{5, 5, 5}
	root.AddChild(b)

	Center(root)
	assert.Equal(t, mgl32.Vec3{-5, -5, -5}, root.Transform.Position)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, b.WorldPosition())

	empty := scene.NewNode("empty")
	Center(empty)
	assert.Equal(t, mgl32.Vec3{}, empty.Transform.Position)
}
