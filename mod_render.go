package springview

import (
	"github.com/gekko3d/springview/config"
	"github.com/gekko3d/springview/grid"
	"github.com/gekko3d/springview/interaction"
	"github.com/gekko3d/springview/render"
)

// RenderTarget holds the renderer the Render stage hands each frame to.
type RenderTarget struct {
	Renderer render.Renderer
}

type RenderModule struct {
	Renderer   render.Renderer
	Background config.Color
}

func (mod RenderModule) Install(app *App, cmd *Commands) {
	r := mod.Renderer
	if r == nil {
		r = &render.Recorder{Limit: 1}
	}
	ensureSingleRenderer(app, rendererName(r))
	app.Logger().Debugf("renderer: %s", rendererName(r))
	cmd.AddResources(
		&render.Frame{Background: mod.Background.Floats()},
		&RenderTarget{Renderer: r},
	)
	cmd.UseSystem(System(frameSystem).InStage(PreRender))
	cmd.UseSystem(System(renderSystem).InStage(Render))
}

func frameSystem(f *render.Frame, sc *SceneState, st *interaction.State, outline *OutlineConfig, cmd *Commands) {
	f.Index++
	f.Camera = sc.Camera
	f.Root = sc.Graph.Root
	f.Outlined = append(f.Outlined[:0], st.Highlight...)
	f.Outline = outline.style()
	if g, ok := Resource[grid.State](cmd.app); ok {
		f.Grid = &g.Uniforms
		f.GridMesh = g.Mesh()
	}
}

func renderSystem(f *render.Frame, sc *SceneState, target *RenderTarget) error {
	if !sc.Ready || target.Renderer == nil {
		return nil
	}
	return target.Renderer.Render(f)
}
