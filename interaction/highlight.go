package interaction

import "github.com/gekko3d/springview/scene"

// UpdateHighlight recomputes the outline set: the current selection when highlighting is
// enabled, nothing otherwise.
func (s *State) UpdateHighlight() []*scene.Node {
	s.Highlight = s.Highlight[:0]
	if s.HighlightEnabled && s.Selected != nil {
		s.Highlight = append(s.Highlight, s.Selected)
	}
	return s.Highlight
}
