package springview

import (
	"sync"

	"github.com/gekko3d/springview/animation"
	"github.com/gekko3d/springview/config"
	"github.com/gekko3d/springview/grid"
	"github.com/gekko3d/springview/interaction"
)

// ConfigInbox accepts reloaded configs from any goroutine; the next tick applies the
// latest one.
type ConfigInbox struct {
	mu      sync.Mutex
	pending *config.Config

	Current config.Config
}

func (in *ConfigInbox) Submit(cfg config.Config) {
	in.mu.Lock()
	in.pending = &cfg
	in.mu.Unlock()
}

func (in *ConfigInbox) take() (config.Config, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.pending == nil {
		return config.Config{}, false
	}
	cfg := *in.pending
	in.pending = nil
	return cfg, true
}

type ConfigModule struct {
	Config config.Config
}

func (mod ConfigModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&ConfigInbox{Current: mod.Config})
	cmd.UseSystem(System(configSystem).InStage(Prelude))
}

// configSystem applies the runtime-tunable parts of a reloaded config. Window, model
// and listen address changes need a restart.
func configSystem(in *ConfigInbox, cmd *Commands, log Logger) {
	cfg, ok := in.take()
	if !ok {
		return
	}
	app := cmd.app
	if st, ok := Resource[interaction.State](app); ok {
		st.Physics.Params = cfg.Physics.Params()
		st.HighlightEnabled = cfg.Highlight.Enabled
	}
	if anim, ok := Resource[animation.Controller](app); ok {
		anim.FadeTime = cfg.Animation.FadeTime
	}
	if o, ok := Resource[OutlineConfig](app); ok {
		o.Apply(cfg.Highlight)
	}
	if g, ok := Resource[grid.State](app); ok {
		g.Configure(cfg.Grid)
	}
	if c, ok := Resource[Controls](app); ok && cfg.Static.Enabled != in.Current.Static.Enabled {
		c.SetStaticObjects(cfg.Static.Enabled)
	}
	in.Current = cfg
	log.Infof("config applied")
}
