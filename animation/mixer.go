package animation

import (
	"github.com/gekko3d/springview/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Resolver finds the node a track targets. scene.Graph satisfies it.
type Resolver interface {
	Lookup(id scene.ObjectID) *scene.Node
}

type bindingKey struct {
	id   scene.ObjectID
	path Path
}

// binding accumulates the weighted contributions of all running actions for one node
// property and remembers the value the property had before any action touched it.
type binding struct {
	node     *scene.Node
	path     Path
	original mgl32.Vec4
	acc      mgl32.Vec4
	cum      float32
	driven   bool
}

// Mixer owns the actions of one animated hierarchy.
type Mixer struct {
	// Time is the accumulated mixer time in seconds. Fades are scheduled against it.
	Time float32

	resolver Resolver
	actions  map[*Clip]*Action
	active   []*Action
	bindings map[bindingKey]*binding
	order    []*binding
}

func NewMixer(resolver Resolver) *Mixer {
	return &Mixer{
		resolver: resolver,
		actions:  make(map[*Clip]*Action),
		bindings: make(map[bindingKey]*binding),
	}
}

// ClipAction returns the action for clip, creating it on first use.
func (m *Mixer) ClipAction(clip *Clip) *Action {
	if a, ok := m.actions[clip]; ok {
		return a
	}
	a := newAction(m, clip)
	m.actions[clip] = a
	return a
}

// Scheduled returns the number of actions currently on the mixer.
func (m *Mixer) Scheduled() int { return len(m.active) }

func (m *Mixer) isActive(a *Action) bool {
	for _, x := range m.active {
		if x == a {
			return true
		}
	}
	return false
}

func (m *Mixer) activate(a *Action) {
	if !m.isActive(a) {
		m.active = append(m.active, a)
	}
}

func (m *Mixer) deactivate(a *Action) {
	for i, x := range m.active {
		if x == a {
			m.active = append(m.active[:i], m.active[i+1:]...)
			return
		}
	}
}

// Update advances mixer time by dt, samples every scheduled action and writes the
// blended result onto the target nodes. Properties no action drives any more return to
// their original value. Actions that have been disabled are unscheduled.
func (m *Mixer) Update(dt float32) {
	if dt < 0 {
		dt = 0
	}
	m.Time += dt

	for _, b := range m.order {
		b.acc = mgl32.Vec4{}
		b.cum = 0
	}

	kept := m.active[:0]
	for _, a := range m.active {
		w := a.update(m.Time, dt)
		if w > 0 {
			m.accumulate(a, w)
		}
		if a.enabled {
			kept = append(kept, a)
		}
	}
	for i := len(kept); i < len(m.active); i++ {
		m.active[i] = nil
	}
	m.active = kept

	for _, b := range m.order {
		m.apply(b)
	}
}

func (m *Mixer) accumulate(a *Action, w float32) {
	for i := range a.clip.Tracks {
		tr := &a.clip.Tracks[i]
		b := m.binding(tr)
		if b == nil {
			continue
		}
		v := tr.Sample(a.time)
		if b.cum == 0 {
			b.acc = v
		} else {
			b.acc = mix(b.path, b.acc, v, w/(b.cum+w))
		}
		b.cum += w
	}
}

func (m *Mixer) binding(tr *Track) *binding {
	key := bindingKey{tr.Target, tr.Path}
	if b, ok := m.bindings[key]; ok {
		return b
	}
	if m.resolver == nil {
		return nil
	}
	n := m.resolver.Lookup(tr.Target)
	if n == nil {
		return nil
	}
	b := &binding{node: n, path: tr.Path, original: read(n, tr.Path)}
	m.bindings[key] = b
	m.order = append(m.order, b)
	return b
}

func (m *Mixer) apply(b *binding) {
	if b.cum == 0 {
		if b.driven {
			write(b.node, b.path, b.original)
			b.driven = false
		}
		return
	}
	v := b.acc
	if b.cum < 1 {
		v = mix(b.path, v, b.original, 1-b.cum)
	}
	write(b.node, b.path, v)
	b.driven = true
}

// RestoreAll writes every bound property back to its original value.
func (m *Mixer) RestoreAll() {
	for _, b := range m.order {
		write(b.node, b.path, b.original)
		b.driven = false
	}
}

// StopAll unschedules every action and restores the bound properties.
func (m *Mixer) StopAll() {
	for _, a := range m.active {
		a.Reset()
	}
	m.active = m.active[:0]
	m.RestoreAll()
}

// Reset restores the bound properties and forgets every action and binding, releasing
// the nodes and clips the mixer had picked up.
func (m *Mixer) Reset() {
	m.StopAll()
	clear(m.actions)
	clear(m.bindings)
	for i := range m.order {
		m.order[i] = nil
	}
	m.order = m.order[:0]
	m.active = nil
	m.Time = 0
}

// Bindings returns the number of node properties the mixer is tracking.
func (m *Mixer) Bindings() int { return len(m.order) }

func mix(p Path, a, b mgl32.Vec4, t float32) mgl32.Vec4 {
	if p == PathRotation {
		return quatToVec(mgl32.QuatSlerp(vecToQuat(a), vecToQuat(b), t))
	}
	return a.Add(b.Sub(a).Mul(t))
}

func read(n *scene.Node, p Path) mgl32.Vec4 {
	switch p {
	case PathTranslation:
		return n.Transform.Position.Vec4(0)
	case PathRotation:
		return quatToVec(n.Transform.Quat())
	default:
		return n.Transform.Scale.Vec4(0)
	}
}

func write(n *scene.Node, p Path, v mgl32.Vec4) {
	switch p {
	case PathTranslation:
		n.Transform.Position = v.Vec3()
	case PathRotation:
		n.Transform.Rotation = scene.QuatToEuler(vecToQuat(v).Normalize())
	default:
		n.Transform.Scale = v.Vec3()
	}
}
