// Package interaction holds the per-scene pointer interaction state: what the pointer is
// over, what it was over last tick, which objects to outline, and the bounce physics
// driven by selection changes.
package interaction

import (
	"github.com/gekko3d/springview/physics"
	"github.com/gekko3d/springview/picking"
	"github.com/gekko3d/springview/scene"
	"github.com/go-gl/mathgl/mgl32"
)

type State struct {
	// Pointer is in normalized device coordinates, both axes in [-1, 1].
	Pointer mgl32.Vec2

	Selected *scene.Node
	Previous *scene.Node
	Hit      picking.Hit

	HighlightEnabled bool
	Highlight        []*scene.Node

	Physics *physics.Engine
}

func NewState(params physics.Params) *State {
	return &State{
		Physics: physics.NewEngine(params),
	}
}

func (s *State) SetPointer(ndc mgl32.Vec2) {
	s.Pointer = mgl32.Vec2{
		mgl32.Clamp(ndc.X(), -1, 1),
		mgl32.Clamp(ndc.Y(), -1, 1),
	}
}

// Observe shifts the current selection into Previous and records the new pick. It reports
// a bounce trigger: the pointer moved onto an object it was not over on the previous tick.
// Clearing the selection or keeping it never triggers.
func (s *State) Observe(hit picking.Hit, ok bool) bool {
	s.Previous = s.Selected
	if ok {
		s.Selected = hit.Node
		s.Hit = hit
	} else {
		s.Selected = nil
		s.Hit = picking.Hit{}
	}
	return s.Selected != nil && s.Selected != s.Previous
}

// Pick casts the pointer ray from camera into root and feeds the result to Observe.
func (s *State) Pick(camera *scene.Camera, root *scene.Node) bool {
	ray := picking.ScreenToRay(camera, s.Pointer)
	hit, ok := picking.Pick(root, ray)
	return s.Observe(hit, ok)
}

// Bounce applies the impulse for the current selection at the last hit point.
func (s *State) Bounce() bool {
	if s.Selected == nil {
		return false
	}
	return s.Physics.ApplyImpulse(s.Selected, s.Hit.Point)
}

// Reset drops selection, highlight and every physics body.
func (s *State) Reset() {
	s.Selected = nil
	s.Previous = nil
	s.Hit = picking.Hit{}
	s.Highlight = nil
	s.Physics.Reset()
}
