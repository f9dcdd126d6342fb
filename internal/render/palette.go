package render

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/breath-visualization/internal/config"
)

// Palette blends particle colour between the dissolved and formed states.
type Palette struct {
	Formed     colorful.Color
	Dissolved  colorful.Color
	Background colorful.Color
	MinAlpha   float64
	MaxAlpha   float64
}

// NewPalette parses hex colours, falling back to the defaults.
func NewPalette(formed, dissolved, background string) Palette {
	return Palette{
		Formed:     hexOr(formed, config.DefaultFormedColor),
		Dissolved:  hexOr(dissolved, config.DefaultDissolvedColor),
		Background: hexOr(background, config.DefaultBackground),
		MinAlpha:   config.MinAlpha,
		MaxAlpha:   config.MaxAlpha,
	}
}

func hexOr(s, fallback string) colorful.Color {
	if c, err := colorful.Hex(s); err == nil {
		return c
	}
	c, _ := colorful.Hex(fallback)
	return c
}

// Alpha rises with tri: particles are most opaque when formed.
func (p Palette) Alpha(tri float64) float64 {
	return p.MinAlpha + (p.MaxAlpha-p.MinAlpha)*clamp01(tri)
}

// Particle returns the particle colour at tri.
func (p Palette) Particle(tri float64) color.NRGBA {
	c := p.Dissolved.BlendLab(p.Formed, clamp01(tri)).Clamped()
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(p.Alpha(tri)*255 + 0.5)}
}

func (p Palette) BackgroundNRGBA() color.NRGBA {
	r, g, b := p.Background.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
