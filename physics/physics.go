package physics

import (
	"math"
	"time"

	"github.com/gekko3d/springview/scene"
	"github.com/go-gl/mathgl/mgl32"
)

type Params struct {
	ImpulseStrength float32
	SpringStrength  float32
	// Damping multiplies the velocity once per tick. It is deliberately not scaled by the
	// frame delta, unlike the spring term.
	Damping  float32
	Cooldown time.Duration
	// Wobble couples velocity into rotation: rot = rest + (v.z, v.x, v.y) * Wobble.
	Wobble float32
}

func DefaultParams() Params {
	return Params{
		ImpulseStrength: 1.0,
		SpringStrength:  50.0,
		Damping:         0.95,
		Cooldown:        500 * time.Millisecond,
		Wobble:          0.1,
	}
}

// Body is the physics record of one tracked object. Rest pose, velocity and cooldown
// timestamp share a record so they can never disagree about which objects are tracked.
type Body struct {
	ID           scene.ObjectID
	RestPosition mgl32.Vec3
	RestRotation mgl32.Vec3
	Velocity     mgl32.Vec3
	LastImpulse  time.Time
}

// Resolver maps identifiers back to live nodes. *scene.Graph implements it.
type Resolver interface {
	Lookup(id scene.ObjectID) *scene.Node
}

// Engine owns the body table (a slice of records plus an id -> slot index).
type Engine struct {
	Params Params
	Now    func() time.Time

	bodies []Body
	slots  map[scene.ObjectID]int
}

func NewEngine(params Params) *Engine {
	return &Engine{
		Params: params,
		Now:    time.Now,
		slots:  make(map[scene.ObjectID]int),
	}
}

// Register starts tracking n and captures its current local pose as the rest pose.
// Registering an already tracked object returns the existing body untouched.
func (e *Engine) Register(n *scene.Node) *Body {
	if slot, ok := e.slots[n.ID]; ok {
		return &e.bodies[slot]
	}
	e.bodies = append(e.bodies, Body{
		ID:           n.ID,
		RestPosition: n.Transform.Position,
		RestRotation: n.Transform.Rotation,
	})
	e.slots[n.ID] = len(e.bodies) - 1
	return &e.bodies[len(e.bodies)-1]
}

// RegisterTree registers every mesh under root and returns how many were added.
func (e *Engine) RegisterTree(root *scene.Node) int {
	before := len(e.bodies)
	root.Traverse(func(n *scene.Node) {
		if n.Mesh != nil {
			e.Register(n)
		}
	})
	return len(e.bodies) - before
}

func (e *Engine) Body(id scene.ObjectID) (*Body, bool) {
	slot, ok := e.slots[id]
	if !ok {
		return nil, false
	}
	return &e.bodies[slot], true
}

func (e *Engine) Len() int {
	return len(e.bodies)
}

// Reset forgets every body.
func (e *Engine) Reset() {
	e.bodies = nil
	e.slots = make(map[scene.ObjectID]int)
}

// ApplyImpulse pushes n away from the hit point, towards its own centre. It returns false
// when the impulse was ignored: static or untracked objects, or a repeat within the
// cooldown window.
func (e *Engine) ApplyImpulse(n *scene.Node, point mgl32.Vec3) bool {
	if n == nil || n.Static {
		return false
	}
	b, ok := e.Body(n.ID)
	if !ok {
		return false
	}

	now := e.Now()
	if !b.LastImpulse.IsZero() && now.Sub(b.LastImpulse) < e.Params.Cooldown {
		return false
	}
	b.LastImpulse = now

	dir := n.WorldPosition().Sub(point)
	// Velocity integrates into the local position, so push in the parent's frame.
	if n.Parent != nil {
		if local := n.Parent.WorldMatrix().Mat3().Inv().Mul3x1(dir); local.Len() > 0 {
			dir = local
		}
	}
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1.0 / l)
	}
	// Additive so impulses stack under rapid interaction.
	b.Velocity = b.Velocity.Add(dir.Mul(e.Params.ImpulseStrength))
	return true
}

// Integrate advances one object by dt seconds. The caller bounds dt; explicit Euler with
// this spring is only stable while SpringStrength*dt stays small.
func (e *Engine) Integrate(n *scene.Node, dt float32) {
	if n == nil || n.Static || dt < 0 {
		return
	}
	b, ok := e.Body(n.ID)
	if !ok {
		return
	}
	e.integrate(n, b, dt)
}

func (e *Engine) integrate(n *scene.Node, b *Body, dt float32) {
	p := e.Params

	// 1. Integrate position
	displacement := b.Velocity.Mul(dt)
	if l := float64(displacement.Len()); math.IsNaN(l) || math.IsInf(l, 0) {
		b.Velocity = mgl32.Vec3{0, 0, 0}
		return
	}
	n.Transform.Position = n.Transform.Position.Add(displacement)

	// 2. Damping, once per tick
	b.Velocity = b.Velocity.Mul(p.Damping)

	// 3-4. Spring back towards the rest position
	toRest := b.RestPosition.Sub(n.Transform.Position)
	b.Velocity = b.Velocity.Add(toRest.Mul(p.SpringStrength * dt))

	// 5. Cosmetic wobble derived from velocity, axes crossed on purpose
	n.Transform.Rotation = mgl32.Vec3{
		b.RestRotation.X() + b.Velocity.Z()*p.Wobble,
		b.RestRotation.Y() + b.Velocity.X()*p.Wobble,
		b.RestRotation.Z() + b.Velocity.Y()*p.Wobble,
	}
}

// Step integrates every tracked, non-static object, selected or not. Bodies whose node
// is no longer in the graph are skipped.
func (e *Engine) Step(r Resolver, dt float32) {
	if dt < 0 {
		return
	}
	for i := range e.bodies {
		b := &e.bodies[i]
		n := r.Lookup(b.ID)
		if n == nil || n.Static {
			continue
		}
		e.integrate(n, b, dt)
	}
}
