package springview

import (
	"time"

	"github.com/gekko3d/springview/interaction"
	"github.com/gekko3d/springview/physics"
)

// InteractionModule picks under the pointer every tick, bounces newly hovered objects
// and keeps the outline set current. Integration of every body runs in PostUpdate.
type InteractionModule struct {
	Physics   physics.Params
	Highlight bool
}

func (mod InteractionModule) Install(app *App, cmd *Commands) {
	st := interaction.NewState(mod.Physics)
	st.HighlightEnabled = mod.Highlight
	if clock, ok := Resource[Time](app); ok {
		st.Physics.Now = func() time.Time { return clock.Time }
	}
	cmd.AddResources(st)
	cmd.UseSystem(System(interactionSystem).InStage(Update))
	cmd.UseSystem(System(bounceSystem).InStage(PostUpdate))
	cmd.OnTeardown(st.Reset)
}

func interactionSystem(sc *SceneState, p *Pointer, st *interaction.State) {
	if !sc.Ready {
		return
	}
	st.SetPointer(p.NDC)
	if st.Pick(sc.Camera, sc.Graph.Root) {
		st.Bounce()
	}
	st.UpdateHighlight()
}

func bounceSystem(sc *SceneState, st *interaction.State, t *Time) {
	if !sc.Ready {
		return
	}
	st.Physics.Step(sc.Graph, t.DtSeconds())
}
