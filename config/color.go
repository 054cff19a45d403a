package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Color is an opaque RGB colour. In YAML it is written as "#rrggbb" or as an SVG colour
// name such as "steelblue".
type Color struct {
	R, G, B uint8
}

func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return Color{}, fmt.Errorf("color %q: want #rrggbb", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("color %q: %w", s, err)
		}
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return Color{R: c.R, G: c.G, B: c.B}, nil
	}
	return Color{}, fmt.Errorf("color %q: unknown name", s)
}

func MustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Floats returns the colour as linear 0..1 components.
func (c Color) Floats() [3]float32 {
	return [3]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}
