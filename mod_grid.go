package springview

import (
	"github.com/gekko3d/springview/config"
	"github.com/gekko3d/springview/grid"
)

// GridModule switches the viewer to the animated grid: the scene camera is replaced by
// the grid camera and the grid uniforms are updated from the pointer every tick.
type GridModule struct {
	Config config.Grid
}

func (mod GridModule) Install(app *App, cmd *Commands) {
	g := grid.New(mod.Config)
	cmd.AddResources(g)
	if sc, ok := Resource[SceneState](app); ok {
		sc.Camera = mod.Config.Camera.Build(sc.Camera.Aspect)
		sc.Ready = true
	}
	cmd.UseSystem(System(gridSystem).InStage(Update))
}

func gridSystem(g *grid.State, sc *SceneState, p *Pointer, t *Time) {
	g.Update(t.ElapsedSeconds(), t.DtSeconds(), sc.Camera, p.NDC)
}
