package soundscape

import (
	"sync"

	"github.com/faiface/beep"
)

// breathGain wraps a beep.Streamer and scales it by a gain that the frame
// loop updates while the speaker goroutine is streaming.
type breathGain struct {
	Source beep.Streamer
	gain   float64
	mu     sync.RWMutex
}

func newBreathGain(src beep.Streamer, gain float64) *breathGain {
	return &breathGain{Source: src, gain: gain}
}

func (g *breathGain) Stream(samples [][2]float64) (int, bool) {
	n, ok := g.Source.Stream(samples)
	if n > 0 {
		g.mu.RLock()
		gain := g.gain
		g.mu.RUnlock()
		for i := 0; i < n; i++ {
			samples[i][0] *= gain
			samples[i][1] *= gain
		}
	}
	return n, ok
}

func (g *breathGain) Err() error { return g.Source.Err() }

func (g *breathGain) set(v float64) {
	g.mu.Lock()
	g.gain = v
	g.mu.Unlock()
}

func (g *breathGain) get() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.gain
}
