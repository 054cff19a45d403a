package springview

import (
	"github.com/gekko3d/springview/config"
	"github.com/gekko3d/springview/render"
)

// OutlineConfig is the outline style handed to the renderer with the outline set.
type OutlineConfig struct {
	Color       config.Color
	HiddenColor config.Color
	Thickness   float32
	Strength    float32
	Glow        float32
}

func NewOutlineConfig(h config.Highlight) *OutlineConfig {
	o := &OutlineConfig{}
	o.Apply(h)
	return o
}

func (o *OutlineConfig) Apply(h config.Highlight) {
	o.Color = h.Color
	o.HiddenColor = h.HiddenColor
	o.Thickness = h.Thickness
	o.Strength = h.Strength
	o.Glow = h.Glow
}

func (o *OutlineConfig) style() render.Outline {
	return render.Outline{
		Color:       o.Color.Floats(),
		HiddenColor: o.HiddenColor.Floats(),
		Thickness:   o.Thickness,
		Strength:    o.Strength,
		Glow:        o.Glow,
	}
}

type HighlightModule struct {
	Config config.Highlight
}

func (mod HighlightModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewOutlineConfig(mod.Config))
}
