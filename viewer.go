package springview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gekko3d/springview/animation"
	"github.com/gekko3d/springview/assets"
	"github.com/gekko3d/springview/config"
	"github.com/gekko3d/springview/control"
	"github.com/gekko3d/springview/interaction"
	"github.com/gekko3d/springview/render"
	"github.com/gekko3d/springview/scene"
)

type options struct {
	renderer render.Renderer
	logger   Logger
	now      func() time.Time
	grid     bool
	window   PlatformWindow
}

type Option func(*options)

func WithRenderer(r render.Renderer) Option { return func(o *options) { o.renderer = r } }

func WithLogger(l Logger) Option { return func(o *options) { o.logger = l } }

// WithClock replaces the wall clock for the frame time and the bounce cooldown.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// WithWindow feeds the window's cursor and resize events to the viewer until Close.
func WithWindow(w PlatformWindow) Option { return func(o *options) { o.window = w } }

// WithGridMode shows the animated grid instead of a model. No load is needed.
func WithGridMode() Option { return func(o *options) { o.grid = true } }

// Viewer wires the modules into a ready App and owns model installation and teardown.
// Load, SetPointer, Resize, Reload and the control queue are safe from any goroutine;
// everything else belongs to the goroutine that calls Tick.
type Viewer struct {
	app *App
	cfg config.Config

	mu      sync.Mutex
	pending *assets.Model
	closed  bool

	scene       *SceneState
	interaction *interaction.State
	animation   *animation.Controller
	controls    *Controls
	pointer     *Pointer
	frame       *render.Frame
	queue       *control.Queue
	inbox       *ConfigInbox
	clock       *Time
}

func NewViewer(cfg config.Config, opts ...Option) *Viewer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logging := LoggingModule{Prefix: cfg.Log.Prefix, Debug: cfg.Log.Debug, Logger: o.logger}
	modules := []Module{
		logging,
		TimeModule{Now: o.now},
		ConfigModule{Config: cfg},
		InputModule{Width: cfg.Window.Width, Height: cfg.Window.Height},
		PlatformWindowModule{Window: o.window},
		SceneModule{Camera: cfg.Camera, Static: cfg.Static},
		InteractionModule{Physics: cfg.Physics.Params(), Highlight: cfg.Highlight.Enabled},
		AnimationModule{FadeTime: cfg.Animation.FadeTime},
		HighlightModule{Config: cfg.Highlight},
		ControlModule{},
	}
	if o.grid {
		modules = append(modules, GridModule{Config: cfg.Grid})
	}
	modules = append(modules, RenderModule{Renderer: o.renderer, Background: cfg.Window.Background})

	app := NewAppBuilder().UseModule(modules...).Build()
	v := &Viewer{app: app, cfg: cfg}
	v.scene, _ = Resource[SceneState](app)
	v.interaction, _ = Resource[interaction.State](app)
	v.animation, _ = Resource[animation.Controller](app)
	v.controls, _ = Resource[Controls](app)
	v.pointer, _ = Resource[Pointer](app)
	v.frame, _ = Resource[render.Frame](app)
	v.queue, _ = Resource[control.Queue](app)
	v.inbox, _ = Resource[ConfigInbox](app)
	v.clock, _ = Resource[Time](app)
	return v
}

func (v *Viewer) App() *App { return v.app }

func (v *Viewer) Logger() Logger { return v.app.Logger() }

// Load resolves path with loader and queues the model for the next tick. Load failures
// are returned. A load that finishes after Close is dropped without error.
func (v *Viewer) Load(ctx context.Context, loader assets.Loader, path string) error {
	m, err := loader.Load(ctx, path)
	if err != nil {
		v.Logger().Errorf("load %s: %v", path, err)
		return fmt.Errorf("load %s: %w", path, err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		v.Logger().Debugf("load %s finished after close, dropped", path)
		return nil
	}
	v.pending = m
	return nil
}

// LoadAsync runs Load on its own goroutine. The channel receives its result.
func (v *Viewer) LoadAsync(ctx context.Context, loader assets.Loader, path string) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- v.Load(ctx, loader, path)
	}()
	return done
}

// Tick installs a freshly loaded model if there is one and runs a frame. It returns
// ErrNotInitialized until a model is installed and ErrClosed after Close.
func (v *Viewer) Tick() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	m := v.pending
	v.pending = nil
	v.mu.Unlock()

	if m != nil {
		v.install(m)
	}
	if !v.scene.Ready {
		return ErrNotInitialized
	}
	return v.app.Tick()
}

func (v *Viewer) install(m *assets.Model) {
	if v.scene.Model != nil {
		v.unload()
	}
	sc := v.scene
	sc.Graph.Add(m.Root)
	sc.Model = m
	scene.ApplyStaticOverride(m.Root, sc.StaticKeywords, sc.StaticEnabled)
	bodies := v.interaction.Physics.RegisterTree(m.Root)
	for _, clip := range m.Clips {
		v.animation.Register(clip)
	}
	sc.Ready = true
	v.Logger().Infof("model %s: %d bodies, %d clips", m.Source, bodies, len(m.Clips))

	if name := v.cfg.Animation.Autoplay; name != "" {
		if err := v.animation.Play(name); err != nil {
			v.Logger().Warnf("autoplay: %v", err)
		}
	}
}

func (v *Viewer) unload() {
	v.animation.Clear()
	v.interaction.Reset()
	v.scene.Graph.Clear()
	v.scene.Model = nil
	v.scene.Ready = false
}

// Close stops ticking and releases the scene, bodies and clips. It is idempotent.
func (v *Viewer) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.pending = nil
	v.mu.Unlock()
	v.app.Close()
}

func (v *Viewer) SetPointer(x, y float64) { v.pointer.Move(x, y) }

func (v *Viewer) Resize(width, height int) { v.pointer.Resize(width, height) }

// Reload hands a new config to the next tick. An invalid config is logged and dropped;
// the running settings stay in place.
func (v *Viewer) Reload(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		v.Logger().Warnf("config rejected: %v", err)
		return err
	}
	v.inbox.Submit(cfg)
	return nil
}

// Queue is where control commands are submitted from other goroutines.
func (v *Viewer) Queue() *control.Queue { return v.queue }

func (v *Viewer) Controls() *Controls { return v.controls }

func (v *Viewer) SetHighlight(enabled bool) { v.controls.SetHighlight(enabled) }

func (v *Viewer) SetStaticObjects(static bool) int { return v.controls.SetStaticObjects(static) }

func (v *Viewer) Play(name string) error { return v.controls.Play(name) }

func (v *Viewer) Pause() { v.controls.Pause() }

func (v *Viewer) Resume() { v.controls.Resume() }

func (v *Viewer) Stop() { v.controls.Stop() }

func (v *Viewer) Animations() []string { return v.controls.Animations() }

func (v *Viewer) AnimationState() animation.State { return v.controls.AnimationState() }

func (v *Viewer) Scene() *SceneState { return v.scene }

func (v *Viewer) Interaction() *interaction.State { return v.interaction }

func (v *Viewer) Frame() *render.Frame { return v.frame }

func (v *Viewer) Clock() *Time { return v.clock }
