// Package config loads the viewer settings from YAML and watches the file for edits.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gekko3d/springview/physics"
	"github.com/gekko3d/springview/scene"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Model     string    `yaml:"model"`
	Window    Window    `yaml:"window"`
	Camera    Camera    `yaml:"camera"`
	Physics   Physics   `yaml:"physics"`
	Animation Animation `yaml:"animation"`
	Highlight Highlight `yaml:"highlight"`
	Static    Static    `yaml:"static"`
	Grid      Grid      `yaml:"grid"`
	Control   Control   `yaml:"control"`
	Log       Log       `yaml:"log"`
}

type Window struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background Color  `yaml:"background"`
}

// Camera angles are in degrees. When LookAt is set it wins over Rotation.
type Camera struct {
	Position [3]float32  `yaml:"position"`
	Rotation [3]float32  `yaml:"rotation"`
	LookAt   *[3]float32 `yaml:"look_at,omitempty"`
	Fov      float32     `yaml:"fov"`
	Near     float32     `yaml:"near"`
	Far      float32     `yaml:"far"`
}

type Physics struct {
	ImpulseStrength float32       `yaml:"impulse_strength"`
	SpringStrength  float32       `yaml:"spring_strength"`
	Damping         float32       `yaml:"damping"`
	Cooldown        time.Duration `yaml:"cooldown"`
	Wobble          float32       `yaml:"wobble"`
}

type Animation struct {
	// FadeTime is the crossfade in seconds.
	FadeTime float32 `yaml:"fade_time"`
	Autoplay string  `yaml:"autoplay"`
}

type Highlight struct {
	Enabled     bool    `yaml:"enabled"`
	Color       Color   `yaml:"color"`
	HiddenColor Color   `yaml:"hidden_color"`
	Thickness   float32 `yaml:"thickness"`
	Strength    float32 `yaml:"strength"`
	Glow        float32 `yaml:"glow"`
}

type Static struct {
	Enabled  bool     `yaml:"enabled"`
	Keywords []string `yaml:"keywords"`
}

type Grid struct {
	Size                int     `yaml:"size"`
	Subdivisions        int     `yaml:"subdivisions"`
	Color               Color   `yaml:"color"`
	BaseColor           Color   `yaml:"base_color"`
	Width               float32 `yaml:"width"`
	FadeStart           float32 `yaml:"fade_start"`
	FadeEnd             float32 `yaml:"fade_end"`
	MouseRadius         float32 `yaml:"mouse_radius"`
	MouseStrength       float32 `yaml:"mouse_strength"`
	Speed               float32 `yaml:"speed"`
	GlobalNoiseScale    float32 `yaml:"global_noise_scale"`
	GlobalNoiseStrength float32 `yaml:"global_noise_strength"`
	// Smoothing is the angular frequency of the spring that follows the pointer.
	// Zero snaps to the pointer.
	Smoothing float32 `yaml:"smoothing"`
	Camera    Camera  `yaml:"camera"`
}

type Control struct {
	Listen string `yaml:"listen"`
}

type Log struct {
	Prefix string `yaml:"prefix"`
	Debug  bool   `yaml:"debug"`
}

func Default() Config {
	origin := [3]float32{0, 0, 0}
	return Config{
		Window: Window{
			Title:      "springview",
			Width:      1280,
			Height:     720,
			Background: MustColor("#f0f0f0"),
		},
		Camera: Camera{
			Position: [3]float32{23.6, 2.98, -22.7},
			Rotation: [3]float32{81, -2.3, 144},
			Fov:      75,
			Near:     0.1,
			Far:      1000,
		},
		Physics: Physics{
			ImpulseStrength: 1,
			SpringStrength:  50,
			Damping:         0.95,
			Cooldown:        500 * time.Millisecond,
			Wobble:          0.1,
		},
		Animation: Animation{FadeTime: 0.5},
		Highlight: Highlight{
			Enabled:     false,
			Color:       MustColor("#ffffff"),
			HiddenColor: MustColor("#190a05"),
			Thickness:   1,
			Strength:    3,
			Glow:        0.5,
		},
		Static: Static{
			Enabled:  true,
			Keywords: append([]string(nil), scene.DefaultStaticKeywords...),
		},
		Grid: Grid{
			Size:                100,
			Subdivisions:        100,
			Color:               MustColor("#4080ff"),
			BaseColor:           MustColor("#000010"),
			Width:               1,
			FadeStart:           40,
			FadeEnd:             90,
			MouseRadius:         10,
			MouseStrength:       1.5,
			Speed:               5,
			GlobalNoiseScale:    0.05,
			GlobalNoiseStrength: 0.5,
			Camera: Camera{
				Position: [3]float32{0, 15, 20},
				LookAt:   &origin,
				Fov:      60,
				Near:     0.1,
				Far:      1000,
			},
		},
		Log: Log{Prefix: "springview"},
	}
}

// Load reads path over the defaults, so a file only needs the keys it changes.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	p := c.Physics
	if p.Damping < 0 || p.Damping > 1 {
		errs = append(errs, fmt.Errorf("physics.damping %v outside [0, 1]", p.Damping))
	}
	if p.ImpulseStrength < 0 {
		errs = append(errs, fmt.Errorf("physics.impulse_strength %v is negative", p.ImpulseStrength))
	}
	if p.SpringStrength < 0 {
		errs = append(errs, fmt.Errorf("physics.spring_strength %v is negative", p.SpringStrength))
	}
	if p.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("physics.cooldown %v is negative", p.Cooldown))
	}
	if c.Animation.FadeTime <= 0 {
		errs = append(errs, fmt.Errorf("animation.fade_time %v must be positive", c.Animation.FadeTime))
	}
	if err := c.Camera.validate("camera"); err != nil {
		errs = append(errs, err)
	}
	if err := c.Grid.Camera.validate("grid.camera"); err != nil {
		errs = append(errs, err)
	}
	if c.Grid.Size <= 0 || c.Grid.Subdivisions <= 0 {
		errs = append(errs, fmt.Errorf("grid size and subdivisions must be positive"))
	}
	if c.Grid.FadeEnd < c.Grid.FadeStart {
		errs = append(errs, fmt.Errorf("grid.fade_end %v before fade_start %v", c.Grid.FadeEnd, c.Grid.FadeStart))
	}
	if c.Grid.MouseRadius < 0 {
		errs = append(errs, fmt.Errorf("grid.mouse_radius %v is negative", c.Grid.MouseRadius))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func (c Camera) validate(section string) error {
	if c.Fov <= 0 || c.Fov >= 180 {
		return fmt.Errorf("%s.fov %v outside (0, 180)", section, c.Fov)
	}
	if c.Near <= 0 || c.Far <= c.Near {
		return fmt.Errorf("%s: need 0 < near < far, got %v and %v", section, c.Near, c.Far)
	}
	return nil
}

func (p Physics) Params() physics.Params {
	return physics.Params{
		ImpulseStrength: p.ImpulseStrength,
		SpringStrength:  p.SpringStrength,
		Damping:         p.Damping,
		Cooldown:        p.Cooldown,
		Wobble:          p.Wobble,
	}
}

// Build makes a scene camera from the section. Rotation is applied in XYZ order.
func (c Camera) Build(aspect float32) *scene.Camera {
	cam := scene.NewPerspectiveCamera(c.Fov, aspect, c.Near, c.Far)
	cam.Position = mgl32.Vec3(c.Position)
	if c.LookAt != nil {
		cam.LookAt(mgl32.Vec3(*c.LookAt))
	} else {
		cam.SetRotationEuler(mgl32.Vec3{
			mgl32.DegToRad(c.Rotation[0]),
			mgl32.DegToRad(c.Rotation[1]),
			mgl32.DegToRad(c.Rotation[2]),
		})
	}
	return cam
}
