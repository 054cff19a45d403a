// Package assets turns model files into scene hierarchies and animation clips.
package assets

import (
	"context"
	"errors"

	"github.com/gekko3d/springview/animation"
	"github.com/gekko3d/springview/scene"
)

var ErrNoGeometry = errors.New("assets: model has no geometry")

type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

// Model is a loaded hierarchy under a single root plus the clips that animate it.
// Node IDs are assigned once at load and never change.
type Model struct {
	Source string
	Root   *scene.Node
	Clips  []*animation.Clip
}

// Meshes returns every mesh node of the model in depth-first order.
func (m *Model) Meshes() []*scene.Node {
	var out []*scene.Node
	m.Root.Traverse(func(n *scene.Node) {
		if n.IsMesh() {
			out = append(out, n)
		}
	})
	return out
}

// Loader resolves a path into a model. Implementations classify static meshes before
// returning and honour ctx cancellation.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}

// Center moves root so the centre of its world bounds lands on the origin.
func Center(root *scene.Node) {
	b := root.WorldBounds()
	if b.IsEmpty() {
		return
	}
	root.Transform.Position = root.Transform.Position.Sub(b.Center())
}
