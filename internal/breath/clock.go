// Package breath turns elapsed time into the inhale/exhale phase that drives
// the particle field.
package breath

import (
	"math"
	"time"

	"github.com/iburimskiy/breath-visualization/internal/config"
)

// Phase is the breath state at one instant.
type Phase struct {
	// Tri rises 0 -> 1 over the first half period and falls back to 0.
	Tri float64
	// Exhale is 1 - Tri: 1 is fully dissolved, 0 fully formed.
	Exhale float64
}

// Clock is a triangle-wave oscillator with a configurable half period.
type Clock struct {
	HalfPeriod time.Duration
}

func (c Clock) period() time.Duration {
	half := c.HalfPeriod
	if half <= 0 {
		half = config.MinHalfPeriod
	}
	return 2 * half
}

// At returns the phase after elapsed time.
func (c Clock) At(elapsed time.Duration) Phase {
	if elapsed < 0 {
		elapsed = 0
	}
	period := c.period()
	phase := float64(elapsed%period) / float64(period)

	var tri float64
	if phase < 0.5 {
		tri = 2 * phase
	} else {
		tri = 2 * (1 - phase)
	}
	tri = math.Max(0, math.Min(1, tri))
	return Phase{Tri: tri, Exhale: 1 - tri}
}
