package flow

import (
	"math"
	"testing"
)

type constNoise struct{ v float64 }

func (n constNoise) Noise3D(x, y, z float64) float64 { return n.v }

func TestFieldMagnitudeBounds(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"lowest", -1, 0.35},
		{"middle", 0, 0.675},
		{"highest", 1, 1.0},
		{"clamped above", 7, 1.0},
		{"clamped below", -3, 0.35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewField(constNoise{tt.v})
			dx, dy := f.At(10, 20, 3)
			if got := math.Hypot(dx, dy); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Expected magnitude %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFieldAngleFromNoise(t *testing.T) {
	f := NewField(constNoise{0.5})
	dx, dy := f.At(0, 0, 0)
	if got := math.Atan2(dy, dx); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("Expected angle π/2, got %v", got)
	}
}

func TestPerlinDeterministic(t *testing.T) {
	a := NewField(NewPerlin(42))
	b := NewField(NewPerlin(42))

	for i := 0; i < 50; i++ {
		x, y, tm := float64(i*13), float64(i*7), float64(i)*0.1
		ax, ay := a.At(x, y, tm)
		bx, by := b.At(x, y, tm)
		if ax != bx || ay != by {
			t.Fatalf("Expected identical vectors for the same seed at %d", i)
		}
		if m := math.Hypot(ax, ay); m < a.MinMagnitude-1e-9 || m > a.MaxMagnitude+1e-9 {
			t.Fatalf("magnitude %v out of range", m)
		}
	}
}
