package springview

import (
	"github.com/gekko3d/springview/assets"
	"github.com/gekko3d/springview/config"
	"github.com/gekko3d/springview/scene"
)

// SceneState is the world the tick operates on. Ready flips once a model is installed
// (or immediately in grid mode); interaction systems skip ticks until then.
type SceneState struct {
	Graph  *scene.Graph
	Camera *scene.Camera
	Model  *assets.Model
	Ready  bool

	StaticKeywords []string
	StaticEnabled  bool
}

type SceneModule struct {
	Camera config.Camera
	Static config.Static
}

func (mod SceneModule) Install(app *App, cmd *Commands) {
	keywords := mod.Static.Keywords
	if len(keywords) == 0 {
		keywords = scene.DefaultStaticKeywords
	}
	sc := &SceneState{
		Graph:          scene.NewGraph(),
		Camera:         mod.Camera.Build(1),
		StaticKeywords: keywords,
		StaticEnabled:  mod.Static.Enabled,
	}
	cmd.AddResources(sc)
	cmd.UseSystem(System(cameraSystem).InStage(PreUpdate))
	cmd.OnTeardown(func() {
		sc.Ready = false
		sc.Model = nil
		sc.Graph.Clear()
	})
}

func cameraSystem(p *Pointer, sc *SceneState) {
	sc.Camera.SetViewport(p.Width, p.Height)
}
