package animation

import (
	"errors"
	"fmt"
)

var ErrClipNotFound = errors.New("animation: clip not found")

// DefaultFadeTime is the crossfade used by Play and Stop, in seconds.
const DefaultFadeTime float32 = 0.5

type State int

const (
	Idle State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Logger interface {
	Warnf(format string, args ...any)
}

// Controller drives a single active action over a mixer: one clip plays at a time and
// switching clips crossfades from the old one.
type Controller struct {
	Mixer    *Mixer
	FadeTime float32
	Log      Logger

	names   []string
	actions map[string]*Action
	active  *Action
}

func NewController(mixer *Mixer, clips ...*Clip) *Controller {
	c := &Controller{
		Mixer:    mixer,
		FadeTime: DefaultFadeTime,
		actions:  make(map[string]*Action),
	}
	for _, clip := range clips {
		c.Register(clip)
	}
	return c
}

// Register adds clip under its name. Re-registering a name replaces the action but keeps
// its original position in List.
func (c *Controller) Register(clip *Clip) {
	if clip == nil {
		return
	}
	if _, ok := c.actions[clip.Name]; !ok {
		c.names = append(c.names, clip.Name)
	}
	c.actions[clip.Name] = c.Mixer.ClipAction(clip)
}

func (c *Controller) Play(name string) error {
	a, ok := c.actions[name]
	if !ok {
		if c.Log != nil {
			c.Log.Warnf("animation %q not found", name)
		}
		return fmt.Errorf("%w: %q", ErrClipNotFound, name)
	}
	if c.active != nil && c.active != a {
		c.active.FadeOut(c.FadeTime)
	}
	a.Reset().SetLoop(LoopRepeat, Infinite).FadeIn(c.FadeTime).Play()
	c.active = a
	return nil
}

func (c *Controller) Pause() {
	if c.active != nil {
		c.active.Paused = true
	}
}

func (c *Controller) Resume() {
	if c.active != nil {
		c.active.Paused = false
	}
}

// Stop fades the active action out and clears the active slot immediately.
func (c *Controller) Stop() {
	if c.active != nil {
		c.active.FadeOut(c.FadeTime)
		c.active = nil
	}
}

func (c *Controller) Advance(dt float32) {
	if c == nil || c.Mixer == nil {
		return
	}
	c.Mixer.Update(dt)
}

func (c *Controller) List() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func (c *Controller) Action(name string) (*Action, bool) {
	a, ok := c.actions[name]
	return a, ok
}

func (c *Controller) Active() *Action { return c.active }

// ActiveName returns the clip name of the active action, or "" when idle.
func (c *Controller) ActiveName() string {
	if c.active == nil {
		return ""
	}
	return c.active.clip.Name
}

func (c *Controller) State() State {
	switch {
	case c.active == nil:
		return Idle
	case c.active.Paused:
		return Paused
	default:
		return Playing
	}
}

// Clear stops everything and forgets all registered clips.
func (c *Controller) Clear() {
	c.Mixer.Reset()
	c.names = nil
	c.actions = make(map[string]*Action)
	c.active = nil
}
