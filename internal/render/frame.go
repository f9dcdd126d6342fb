// Package render holds the backend-neutral draw commands produced by the
// simulation and a software renderer for them.
package render

import (
	"image/color"

	"github.com/iburimskiy/breath-visualization/internal/breath"
)

// Dot is one filled circle.
type Dot struct {
	X, Y   float64
	Radius float64
}

// Frame is everything a backend needs to draw one frame. Dots aliases
// simulation memory and is only valid until the next update.
type Frame struct {
	Width, Height int
	Phase         breath.Phase

	Background color.NRGBA
	Color      color.NRGBA
	Dots       []Dot

	// Countdown is the HUD label, empty when no duration is configured.
	Countdown string
}
