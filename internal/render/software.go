package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/iburimskiy/breath-visualization/internal/config"
)

// circle approximation constant for four cubic Bézier arcs
const kappa = 0.5522847498

// Software draws frames into an *image.RGBA with anti-aliased circles.
type Software struct {
	z *vector.Rasterizer
	// HUDFace draws the countdown; nil skips it.
	HUDFace font.Face
}

func NewSoftware(hudFace font.Face) *Software {
	return &Software{z: vector.NewRasterizer(0, 0), HUDFace: hudFace}
}

// Draw renders f into a new image of the frame's size.
func (s *Software) Draw(f Frame) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(f.Width, 0), max(f.Height, 0)))
	s.DrawInto(dst, f)
	return dst
}

func (s *Software) DrawInto(dst *image.RGBA, f Frame) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(f.Background), image.Point{}, draw.Src)

	src := image.NewUniform(f.Color)
	for _, d := range f.Dots {
		s.circle(dst, d, src)
	}

	if f.Countdown != "" && s.HUDFace != nil {
		s.countdown(dst, f.Countdown)
	}
}

func (s *Software) circle(dst *image.RGBA, d Dot, src image.Image) {
	if d.Radius <= 0 || math.IsNaN(d.X) || math.IsNaN(d.Y) {
		return
	}
	bbox := image.Rect(
		int(math.Floor(d.X-d.Radius)), int(math.Floor(d.Y-d.Radius)),
		int(math.Ceil(d.X+d.Radius)), int(math.Ceil(d.Y+d.Radius)),
	).Intersect(dst.Bounds())
	if bbox.Empty() {
		return
	}

	// the rasterizer mask origin is aligned with bbox.Min
	cx := float32(d.X - float64(bbox.Min.X))
	cy := float32(d.Y - float64(bbox.Min.Y))
	r := float32(d.Radius)
	k := r * kappa

	z := s.z
	z.Reset(bbox.Dx(), bbox.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
	z.Draw(dst, bbox, src, image.Point{})
}

func (s *Software) countdown(dst *image.RGBA, label string) {
	width := font.MeasureString(s.HUDFace, label)
	ascent := s.HUDFace.Metrics().Ascent
	x := fixed.I(dst.Bounds().Dx()-config.HUDInset) - width
	y := fixed.I(config.HUDInset) + ascent

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: uint8(math.Round(config.HUDAlpha * 255))}),
		Face: s.HUDFace,
		Dot:  fixed.Point26_6{X: x, Y: y},
	}
	d.DrawString(label)
}
