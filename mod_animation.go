package springview

import (
	"github.com/gekko3d/springview/animation"
)

type AnimationModule struct {
	FadeTime float32
}

func (mod AnimationModule) Install(app *App, cmd *Commands) {
	sc, ok := Resource[SceneState](app)
	if !ok {
		panic("AnimationModule needs SceneModule installed first")
	}
	ctrl := animation.NewController(animation.NewMixer(sc.Graph))
	if mod.FadeTime > 0 {
		ctrl.FadeTime = mod.FadeTime
	}
	ctrl.Log = app.Logger()
	cmd.AddResources(ctrl)
	cmd.UseSystem(System(animationSystem).InStage(Animate))
	cmd.OnTeardown(ctrl.Clear)
}

func animationSystem(sc *SceneState, ctrl *animation.Controller, t *Time) {
	if !sc.Ready {
		return
	}
	ctrl.Advance(t.DtSeconds())
}
