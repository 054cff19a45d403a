// Package render defines what a frame hands to a renderer and provides the desktop
// window and GPU presenter used by the host program.
package render

import (
	"github.com/gekko3d/springview/grid"
	"github.com/gekko3d/springview/scene"
)

type Outline struct {
	Color       [3]float32
	HiddenColor [3]float32
	Thickness   float32
	Strength    float32
	Glow        float32
}

// Frame is everything a renderer needs for one tick. Outlined is empty whenever
// highlighting is off.
type Frame struct {
	Index      uint64
	Camera     *scene.Camera
	Root       *scene.Node
	Outlined   []*scene.Node
	Outline    Outline
	Background [3]float32
	Grid       *grid.Uniforms
	GridMesh   *scene.Mesh
}

type Renderer interface {
	Render(f *Frame) error
}

// Recorder keeps copies of the most recent frames. It is the renderer for headless runs.
type Recorder struct {
	Limit  int
	Frames []Frame
}

func (r *Recorder) Render(f *Frame) error {
	c := *f
	c.Outlined = append([]*scene.Node(nil), f.Outlined...)
	r.Frames = append(r.Frames, c)
	if r.Limit > 0 && len(r.Frames) > r.Limit {
		r.Frames = r.Frames[len(r.Frames)-r.Limit:]
	}
	return nil
}

func (r *Recorder) Last() (Frame, bool) {
	if len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}
