// Package particle samples a text raster into particles.
package particle

import (
	"image"
	"math"

	"github.com/iburimskiy/breath-visualization/internal/config"
)

// Rand is the random source used while sampling. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec             { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec             { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(k float64) Vec       { return Vec{v.X * k, v.Y * k} }
func (v Vec) Len() float64              { return math.Hypot(v.X, v.Y) }
func (v Vec) Lerp(o Vec, k float64) Vec { return v.Add(o.Sub(v).Scale(k)) }

type Particle struct {
	Home  Vec
	Pos   Vec
	Size  float64 // diameter
	Theta float64 // drift direction seed
	Rand  float64 // drift magnitude modulation in [0,1)
}

// Sampler holds the sampling thresholds.
type Sampler struct {
	Stride              int
	AlphaThreshold      uint8
	BrightnessThreshold int
	Jitter              float64
	MinSize, MaxSize    float64
}

func DefaultSampler() Sampler {
	return Sampler{
		Stride:              config.SampleStride,
		AlphaThreshold:      config.AlphaThreshold,
		BrightnessThreshold: config.BrightnessThreshold,
		Jitter:              config.InitialJitter,
		MinSize:             config.MinParticleSize,
		MaxSize:             config.MaxParticleSize,
	}
}

// Sample emits one particle for every lit pixel on the stride grid.
func Sample(img image.Image, rng Rand) []Particle {
	return DefaultSampler().Sample(img, rng)
}

func (s Sampler) Sample(img image.Image, rng Rand) []Particle {
	stride := max(s.Stride, 1)
	b := img.Bounds()
	out := make([]Particle, 0, b.Dx()*b.Dy()/(stride*stride)/8)

	for y := b.Min.Y; y < b.Max.Y; y += stride {
		for x := b.Min.X; x < b.Max.X; x += stride {
			if !s.lit(img, x, y) {
				continue
			}
			home := Vec{float64(x), float64(y)}
			jitter := Vec{
				(rng.Float64()*2 - 1) * s.Jitter,
				(rng.Float64()*2 - 1) * s.Jitter,
			}
			out = append(out, Particle{
				Home:  home,
				Pos:   home.Add(jitter),
				Size:  s.MinSize + rng.Float64()*(s.MaxSize-s.MinSize),
				Theta: rng.Float64() * 2 * math.Pi,
				Rand:  rng.Float64(),
			})
		}
	}
	return out
}

func (s Sampler) lit(img image.Image, x, y int) bool {
	var r, g, b, a uint8
	if rgba, ok := img.(*image.RGBA); ok {
		c := rgba.RGBAAt(x, y)
		r, g, b, a = c.R, c.G, c.B, c.A
	} else {
		cr, cg, cb, ca := img.At(x, y).RGBA()
		r, g, b, a = uint8(cr>>8), uint8(cg>>8), uint8(cb>>8), uint8(ca>>8)
	}
	return a > s.AlphaThreshold && int(r)+int(g)+int(b) > s.BrightnessThreshold
}
