package springview

import (
	"fmt"
	"time"

	"github.com/gekko3d/springview/animation"
	"github.com/gekko3d/springview/control"
	"github.com/gekko3d/springview/interaction"
	"github.com/gekko3d/springview/scene"
)

// Controls are the user-facing operations of the viewer. They run on the tick goroutine,
// either called directly by the host or through queued control commands.
type Controls struct {
	scene       *SceneState
	interaction *interaction.State
	animation   *animation.Controller
	log         Logger
}

func (c *Controls) SetHighlight(enabled bool) {
	c.interaction.HighlightEnabled = enabled
	c.interaction.UpdateHighlight()
}

func (c *Controls) HighlightEnabled() bool {
	return c.interaction.HighlightEnabled
}

// SetStaticObjects sets the static flag of every keyword-matching mesh and returns how
// many meshes it touched.
func (c *Controls) SetStaticObjects(static bool) int {
	c.scene.StaticEnabled = static
	touched := scene.ApplyStaticOverride(c.scene.Graph.Root, c.scene.StaticKeywords, static)
	for _, n := range touched {
		if static {
			c.log.Infof("object %s set static", n.Name)
		} else {
			c.log.Infof("object %s set dynamic", n.Name)
		}
	}
	return len(touched)
}

func (c *Controls) Play(name string) error { return c.animation.Play(name) }

func (c *Controls) Pause() { c.animation.Pause() }

func (c *Controls) Resume() { c.animation.Resume() }

func (c *Controls) Stop() { c.animation.Stop() }

func (c *Controls) Animations() []string { return c.animation.List() }

func (c *Controls) AnimationState() animation.State { return c.animation.State() }

// Set changes one physics or animation tunable at runtime.
func (c *Controls) Set(key string, value float64) error {
	p := &c.interaction.Physics.Params
	switch key {
	case "impulse":
		if value < 0 {
			return fmt.Errorf("impulse %v is negative", value)
		}
		p.ImpulseStrength = float32(value)
	case "spring":
		if value < 0 {
			return fmt.Errorf("spring %v is negative", value)
		}
		p.SpringStrength = float32(value)
	case "damping":
		if value < 0 || value > 1 {
			return fmt.Errorf("damping %v outside [0, 1]", value)
		}
		p.Damping = float32(value)
	case "cooldown":
		if value < 0 {
			return fmt.Errorf("cooldown %v is negative", value)
		}
		p.Cooldown = time.Duration(value * float64(time.Millisecond))
	case "wobble":
		p.Wobble = float32(value)
	case "fade":
		if value <= 0 {
			return fmt.Errorf("fade %v must be positive", value)
		}
		c.animation.FadeTime = float32(value)
	default:
		return fmt.Errorf("%w: set %q", ErrUnknownCommand, key)
	}
	c.log.Debugf("set %s = %v", key, value)
	return nil
}

// Exec runs one control command and describes the outcome.
func (c *Controls) Exec(cmd control.Command) control.Reply {
	ok := control.Reply{OK: true}
	switch cmd.Cmd {
	case "highlight":
		if cmd.Enabled == nil {
			return control.Fail(fmt.Errorf("highlight: missing enabled"))
		}
		c.SetHighlight(*cmd.Enabled)
	case "static":
		if cmd.Enabled == nil {
			return control.Fail(fmt.Errorf("static: missing enabled"))
		}
		c.SetStaticObjects(*cmd.Enabled)
	case "play":
		if err := c.Play(cmd.Name); err != nil {
			return control.Fail(err)
		}
	case "pause":
		c.Pause()
	case "resume":
		c.Resume()
	case "stop":
		c.Stop()
	case "list":
		ok.Clips = c.Animations()
	case "set":
		if err := c.Set(cmd.Key, cmd.Value); err != nil {
			return control.Fail(err)
		}
	default:
		return control.Fail(fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Cmd))
	}
	ok.State = c.AnimationState().String()
	return ok
}

// ControlModule installs Controls and drains the command queue at the start of each
// tick. It must come after the scene, interaction and animation modules.
type ControlModule struct {
	QueueSize int
}

func (mod ControlModule) Install(app *App, cmd *Commands) {
	sc, ok1 := Resource[SceneState](app)
	st, ok2 := Resource[interaction.State](app)
	anim, ok3 := Resource[animation.Controller](app)
	if !ok1 || !ok2 || !ok3 {
		panic("ControlModule needs the scene, interaction and animation modules")
	}
	cmd.AddResources(
		&Controls{scene: sc, interaction: st, animation: anim, log: app.Logger()},
		control.NewQueue(mod.QueueSize),
	)
	cmd.UseSystem(System(controlSystem).InStage(PreUpdate))
}

func controlSystem(q *control.Queue, c *Controls) {
	q.Drain(c.Exec)
}
