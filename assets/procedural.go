package assets

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gekko3d/springview/animation"
	"github.com/gekko3d/springview/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Procedural serves models built in code, keyed by name. It is used when no model file
// is given and in tests.
type Procedural struct {
	StaticKeywords []string
	builders       map[string]func() *Model
}

func NewProcedural() *Procedural {
	p := &Procedural{
		StaticKeywords: scene.DefaultStaticKeywords,
		builders:       make(map[string]func() *Model),
	}
	p.Register("demo", DemoRoom)
	return p
}

func (p *Procedural) Register(name string, build func() *Model) {
	p.builders[name] = build
}

func (p *Procedural) Names() []string {
	names := make([]string, 0, len(p.builders))
	for n := range p.builders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (p *Procedural) Load(ctx context.Context, name string) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	build, ok := p.builders[name]
	if !ok {
		return nil, fmt.Errorf("procedural model %q: not registered (have %s)", name, strings.Join(p.Names(), ", "))
	}
	m := build()
	if m == nil || len(m.Meshes()) == 0 {
		return nil, ErrNoGeometry
	}
	m.Source = name
	scene.ClassifyStatic(m.Root, p.StaticKeywords)
	return m, nil
}

// DemoRoom is a floor, a back wall and a row of boxes with a looping "bob" clip on the
// middle box and a "spin" clip on the last one.
func DemoRoom() *Model {
	root := scene.NewNode("demo")

	floor := scene.NewMeshNode("Floor", scene.Plane("Floor", 20, 20))
	root.AddChild(floor)

	wall := scene.NewMeshNode("Wall_Back", scene.Box("Wall_Back", mgl32.Vec3{20, 6, 0.5}))
	wall.Transform.Position = mgl32.Vec3{0, 3, -10}
	root.AddChild(wall)

	boxes := make([]*scene.Node, 3)
	for i := range boxes {
		name := fmt.Sprintf("Box_%02d", i+1)
		b := scene.NewMeshNode(name, scene.Box(name, mgl32.Vec3{1, 1, 1}))
		b.Transform.Position = mgl32.Vec3{float32(i-1) * 3, 0.5, 0}
		root.AddChild(b)
		boxes[i] = b
	}

	bob := animation.NewClip("bob", animation.Track{
		Target: boxes[1].ID,
		Path:   animation.PathTranslation,
		Times:  []float32{0, 0.5, 1},
		Values: []mgl32.Vec4{{0, 0.5, 0, 0}, {0, 1.5, 0, 0}, {0, 0.5, 0, 0}},
	})

	spinKeys := make([]mgl32.Vec4, 5)
	spinTimes := make([]float32, 5)
	for i := range spinKeys {
		q := mgl32.QuatRotate(mgl32.DegToRad(float32(i)*90), mgl32.Vec3{0, 1, 0})
		spinKeys[i] = mgl32.Vec4{q.V.X(), q.V.Y(), q.V.Z(), q.W}
		spinTimes[i] = float32(i) * 0.5
	}
	spin := animation.NewClip("spin", animation.Track{
		Target: boxes[2].ID,
		Path:   animation.PathRotation,
		Times:  spinTimes,
		Values: spinKeys,
	})

	return &Model{Root: root, Clips: []*animation.Clip{bob, spin}}
}
