package physics

import (
	"math"
	"testing"
	"time"

	"github.com/gekko3d/springview/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
func newFakeClock() *fakeClock               { return &fakeClock{now: time.Unix(1000, 0)} }
func boxNode(name string) *scene.Node {
	return scene.NewMeshNode(name, scene.Box(name, mgl32.Vec3{1, 1, 1}))
}
func newEngine(clock *fakeClock) *Engine {
	e := NewEngine(DefaultParams())
	e.Now = clock.Now
	return e
}

func TestIntegrateFixedPoint(t *testing.T) {
	e := newEngine(newFakeClock())
	n := boxNode("box")
	n.Transform.Position = mgl32.Vec3{1, 2, 3}
	n.Transform.Rotation = mgl32.Vec3{0.1, 0.2, 0.3}
	e.Register(n)

	for i := 0; i < 100; i++ {
		e.Integrate(n, 0.016)
	}
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, n.Transform.Position)
	assert.Equal(t, mgl32.Vec3{0.1, 0.2, 0.3}, n.Transform.Rotation)
}

func TestBounceScenario(t *testing.T) {
	e := newEngine(newFakeClock())
	n := boxNode("Box_01")
	e.Register(n)

	require.True(t, e.ApplyImpulse(n, mgl32.Vec3{1, 0, 0}))
	b, ok := e.Body(n.ID)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, b.Velocity)

	e.Integrate(n, 0.016)
	assert.InDelta(t, -0.016, n.Transform.Position.X(), 1e-6)
	assert.InDelta(t, -0.95+50*0.016*0.016, b.Velocity.X(), 1e-5)
	assert.InDelta(t, -0.9372, b.Velocity.X(), 1e-4)
	assert.Equal(t, float32(0), n.Transform.Position.Y())
	assert.Equal(t, float32(0), n.Transform.Position.Z())

	// rotation.y tracks velocity.x
	assert.InDelta(t, b.Velocity.X()*0.1, n.Transform.Rotation.Y(), 1e-6)
	assert.Equal(t, float32(0), n.Transform.Rotation.X())
}

func TestImpulseCooldown(t *testing.T) {
	clock := newFakeClock()
	e := newEngine(clock)
	n := boxNode("box")
	e.Register(n)
	b, _ := e.Body(n.ID)

	assert.True(t, e.ApplyImpulse(n, mgl32.Vec3{1, 0, 0}))
	clock.Advance(100 * time.Millisecond)
	assert.False(t, e.ApplyImpulse(n, mgl32.Vec3{1, 0, 0}))
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, b.Velocity, "second call inside the window is ignored")

	clock.Advance(400 * time.Millisecond)
	assert.True(t, e.ApplyImpulse(n, mgl32.Vec3{1, 0, 0}))
	assert.Equal(t, mgl32.Vec3{-2, 0, 0}, b.Velocity, "impulses stack")
}

func TestImpulseCooldownIsPerObject(t *testing.T) {
	e := newEngine(newFakeClock())
	a := boxNode("a")
	b := boxNode("b")
	e.Register(a)
	e.Register(b)

	assert.True(t, e.ApplyImpulse(a, mgl32.Vec3{0, 1, 0}))
	assert.True(t, e.ApplyImpulse(b, mgl32.Vec3{0, 1, 0}))
}

func TestStaticObjectsIgnoreImpulse(t *testing.T) {
	clock := newFakeClock()
	e := newEngine(clock)
	floor := boxNode("Floor")
	floor.Static = true
	e.Register(floor)
	b, _ := e.Body(floor.ID)

	for i := 0; i < 3; i++ {
		assert.False(t, e.ApplyImpulse(floor, mgl32.Vec3{0, 1, 0}))
		clock.Advance(time.Second)
	}
	assert.Equal(t, mgl32.Vec3{}, b.Velocity)
	assert.True(t, b.LastImpulse.IsZero())
}

func TestStaticObjectsAreNotIntegrated(t *testing.T) {
	e := newEngine(newFakeClock())
	n := boxNode("wall")
	e.Register(n)
	e.ApplyImpulse(n, mgl32.Vec3{1, 0, 0})
	n.Static = true

	e.Integrate(n, 0.016)
	assert.Equal(t, mgl32.Vec3{}, n.Transform.Position)
}

func TestUntrackedObjectsAreNoOps(t *testing.T) {
	e := newEngine(newFakeClock())
	n := boxNode("late")
	n.Transform.Position = mgl32.Vec3{1, 1, 1}

	assert.False(t, e.ApplyImpulse(n, mgl32.Vec3{}))
	e.Integrate(n, 0.016)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, n.Transform.Position)
	assert.False(t, e.ApplyImpulse(nil, mgl32.Vec3{}))
}

func TestZeroLengthImpulseDirection(t *testing.T) {
	e := newEngine(newFakeClock())
	n := boxNode("box")
	e.Register(n)

	assert.True(t, e.ApplyImpulse(n, mgl32.Vec3{}))
	b, _ := e.Body(n.ID)
	assert.Equal(t, mgl32.Vec3{}, b.Velocity)
}

func TestImpulseUnderRotatedParent(t *testing.T) {
	e := newEngine(newFakeClock())
	parent := scene.NewNode("turntable")
	parent.Transform.Rotation = mgl32.Vec3{0, math.Pi / 2, 0}
	parent.Transform.Scale = mgl32.Vec3{2, 2, 2}
	n := boxNode("box")
	parent.AddChild(n)
	e.Register(n)

	// pushed along world +X, which is the parent's local +Z
	require.True(t, e.ApplyImpulse(n, mgl32.Vec3{-1, 0, 0}))
	b, _ := e.Body(n.ID)
	strength := e.Params.ImpulseStrength
	assert.InDelta(t, 0, b.Velocity.X(), 1e-5)
	assert.InDelta(t, 0, b.Velocity.Y(), 1e-5)
	assert.InDelta(t, strength, b.Velocity.Z(), 1e-5)

	e.Integrate(n, 0.016)
	world := n.WorldPosition()
	assert.Greater(t, world.X(), float32(0), "the node moves away from the hit point in world space")
	assert.InDelta(t, 0, world.Z(), 1e-5)
}

func TestDampingIsAppliedPerTick(t *testing.T) {
	e := newEngine(newFakeClock())
	n := boxNode("box")
	e.Register(n)
	e.ApplyImpulse(n, mgl32.Vec3{1, 0, 0})
	b, _ := e.Body(n.ID)

	// With dt = 0 neither position nor spring move, yet damping still bites every call.
	e.Integrate(n, 0)
	e.Integrate(n, 0)
	assert.InDelta(t, -0.95*0.95, b.Velocity.X(), 1e-6)
	assert.Equal(t, mgl32.Vec3{}, n.Transform.Position)
}

func TestSpringReturnsToRest(t *testing.T) {
	e := newEngine(newFakeClock())
	n := boxNode("box")
	n.Transform.Position = mgl32.Vec3{0, 1, 0}
	e.Register(n)
	e.ApplyImpulse(n, mgl32.Vec3{0, 1, 1})

	g := scene.NewGraph()
	g.Add(n)
	for i := 0; i < 600; i++ {
		e.Step(g, 1.0/60.0)
	}
	assert.InDelta(t, 0, n.Transform.Position.X(), 1e-3)
	assert.InDelta(t, 1, n.Transform.Position.Y(), 1e-3)
	assert.InDelta(t, 0, n.Transform.Position.Z(), 1e-3)
	assert.InDelta(t, 0, n.Transform.Rotation.Len(), 1e-3)
}

func TestStepSkipsStaleBodies(t *testing.T) {
	e := newEngine(newFakeClock())
	g := scene.NewGraph()
	kept := boxNode("kept")
	gone := boxNode("gone")
	g.Add(kept)
	g.Add(gone)
	assert.Equal(t, 2, e.RegisterTree(g.Root))
	assert.Equal(t, 0, e.RegisterTree(g.Root), "registration is idempotent")

	e.ApplyImpulse(kept, mgl32.Vec3{1, 0, 0})
	e.ApplyImpulse(gone, mgl32.Vec3{1, 0, 0})
	g.Remove(gone)

	e.Step(g, 0.016)
	assert.NotEqual(t, mgl32.Vec3{}, kept.Transform.Position)
	assert.Equal(t, mgl32.Vec3{}, gone.Transform.Position)
}

func TestStepIsDeterministic(t *testing.T) {
	run := func() []mgl32.Vec3 {
		clock := newFakeClock()
		e := newEngine(clock)
		g := scene.NewGraph()
		var nodes []*scene.Node
		for i := 0; i < 3; i++ {
			n := boxNode("box")
			n.Transform.Position = mgl32.Vec3{float32(i) * 2, 0, 0}
			g.Add(n)
			e.Register(n)
			nodes = append(nodes, n)
		}
		dts := []float32{0.016, 0.017, 0.033, 0.008, 0.016}
		hits := []mgl32.Vec3{{0.5, 0, 0}, {2, 0.5, 0}, {4, 0, 0.5}}
		for i, dt := range dts {
			if i < len(hits) {
				e.ApplyImpulse(nodes[i], hits[i])
			}
			e.Step(g, dt)
			clock.Advance(time.Duration(dt * float32(time.Second)))
		}
		out := make([]mgl32.Vec3, len(nodes))
		for i, n := range nodes {
			out[i] = n.Transform.Position
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestResetForgetsBodies(t *testing.T) {
	e := newEngine(newFakeClock())
	n := boxNode("box")
	e.Register(n)
	e.Reset()
	assert.Equal(t, 0, e.Len())
	_, ok := e.Body(n.ID)
	assert.False(t, ok)
}
