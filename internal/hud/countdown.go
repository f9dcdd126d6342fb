// Package hud formats the optional countdown overlay.
package hud

import (
	"fmt"
	"time"
)

// Countdown counts down from Total. A zero Total disables it.
type Countdown struct {
	Total time.Duration
}

func (c Countdown) Enabled() bool { return c.Total > 0 }

// Remaining never goes below zero.
func (c Countdown) Remaining(elapsed time.Duration) time.Duration {
	return max(0, c.Total-elapsed)
}

// Label returns the remaining time as MM:SS, or "" when disabled.
func (c Countdown) Label(elapsed time.Duration) string {
	if !c.Enabled() {
		return ""
	}
	// round up so the display reaches 00:00 only when time is up
	return formatDuration(c.Remaining(elapsed) + time.Second - 1)
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
