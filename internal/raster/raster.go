// Package raster draws the display string into an offscreen buffer sized to
// the viewport.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/iburimskiy/breath-visualization/internal/config"
)

// Rasterizer renders white text on black with the embedded Go Regular font.
type Rasterizer struct {
	font *opentype.Font

	TextHeightFraction float64
	Margin             int
	MinFontSize        float64
}

func New() (*Rasterizer, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "parse goregular")
	}
	return &Rasterizer{
		font:               fnt,
		TextHeightFraction: config.TextHeightFraction,
		Margin:             config.Margin,
		MinFontSize:        config.MinFontSize,
	}, nil
}

// Face returns a face at size pixels. The caller closes it.
func (r *Rasterizer) Face(size float64) (font.Face, error) {
	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, errors.Wrapf(err, "face at %.1fpx", size)
}

// FitSize returns the font size used for text on a w x h canvas.
func (r *Rasterizer) FitSize(text string, w, h int) float64 {
	size := r.TextHeightFraction * float64(min(w, h))
	if size < r.MinFontSize {
		return r.MinFontSize
	}

	avail := float64(w - 2*r.Margin)
	width, err := r.measure(text, size)
	if err == nil && width > avail && width > 0 {
		size *= math.Max(avail, 0) / width
	}
	return math.Max(size, r.MinFontSize)
}

func (r *Rasterizer) measure(text string, size float64) (float64, error) {
	face, err := r.Face(size)
	if err != nil {
		return 0, err
	}
	defer face.Close()
	return fixedToFloat(font.MeasureString(face, text)), nil
}

// Rasterize draws text centred in a new w x h buffer. A non-positive
// dimension yields an empty image.
func (r *Rasterizer) Rasterize(text string, w, h int) *image.RGBA {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rectangle{})
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	if text == "" {
		return img
	}

	face, err := r.Face(r.FitSize(text, w, h))
	if err != nil {
		return img
	}
	defer face.Close()

	width := font.MeasureString(face, text)
	m := face.Metrics()
	// centre the ascent/descent box on the canvas midline
	baseline := (fixed.I(h) + m.Ascent - m.Descent) / 2

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.Point26_6{X: (fixed.I(w) - width) / 2, Y: baseline},
	}
	d.DrawString(text)
	return img
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
