// Package flow provides the coherent-noise vector field that pushes
// dissolved particles around.
package flow

import (
	"math"

	perlin "github.com/aquilax/go-perlin"

	"github.com/iburimskiy/breath-visualization/internal/config"
)

// Noise is a coherent noise source. *perlin.Perlin satisfies it.
type Noise interface {
	Noise3D(x, y, z float64) float64
}

const (
	perlinAlpha   = 2
	perlinBeta    = 2
	perlinOctaves = 3

	// decorrelation offset of the magnitude sample
	magnitudeOffset = 100
)

// NewPerlin returns a seeded Perlin noise source.
func NewPerlin(seed int64) *perlin.Perlin {
	return perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)
}

// Field maps a point and time to a push vector.
type Field struct {
	Noise        Noise
	Scale        float64
	TimeScale    float64
	MinMagnitude float64
	MaxMagnitude float64
}

func NewField(n Noise) *Field {
	return &Field{
		Noise:        n,
		Scale:        config.FlowScale,
		TimeScale:    config.FlowTimeScale,
		MinMagnitude: config.FlowMinMagnitude,
		MaxMagnitude: config.FlowMaxMagnitude,
	}
}

// At returns the field vector at (x, y) and time t in seconds.
// The angle lies in [-π, π] and the length in [MinMagnitude, MaxMagnitude].
func (f *Field) At(x, y, t float64) (float64, float64) {
	sx, sy, st := x*f.Scale, y*f.Scale, t*f.TimeScale
	a := clampUnit(f.Noise.Noise3D(sx, sy, st))
	m := clampUnit(f.Noise.Noise3D(sx+magnitudeOffset, sy+magnitudeOffset, st))

	angle := a * math.Pi
	mag := f.MinMagnitude + (f.MaxMagnitude-f.MinMagnitude)*(m+1)/2
	return math.Cos(angle) * mag, math.Sin(angle) * mag
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}
