// Package term draws the particle field into terminal cells with tcell.
package term

import (
	"context"
	"image/color"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/iburimskiy/breath-visualization/internal/config"
	"github.com/iburimskiy/breath-visualization/internal/render"
	"github.com/iburimskiy/breath-visualization/internal/sim"
)

// ramp maps cell coverage to a glyph, sparse to dense.
var ramp = []rune{' ', '.', ':', '-', '=', '+', '*', '#', '%', '@'}

type action int

const (
	actionNone action = iota
	actionExit
	actionResize
)

type viewer struct {
	screen tcell.Screen
	sim    *sim.Simulation
	log    *slog.Logger

	cols, rows int
	coverage   []float64

	events    chan tcell.Event
	polling   bool
	pollDone  chan struct{}
	quit      chan struct{}
	closeOnce sync.Once
}

func newViewer(screen tcell.Screen, s *sim.Simulation, log *slog.Logger) *viewer {
	v := &viewer{
		screen:   screen,
		sim:      s,
		log:      log,
		events:   make(chan tcell.Event, 10),
		pollDone: make(chan struct{}),
		quit:     make(chan struct{}),
	}
	v.resize()
	return v
}

// Run takes over the terminal until ctx is done or the user quits.
func Run(ctx context.Context, s *sim.Simulation, log *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "creating screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "initializing screen")
	}

	v := newViewer(screen, s, log)
	defer v.close()
	return v.run(ctx)
}

// close is safe to call more than once.
func (v *viewer) close() {
	v.closeOnce.Do(func() {
		close(v.quit)
		v.screen.Fini()
		if !v.polling {
			return
		}
		select {
		case <-v.pollDone:
		case <-time.After(100 * time.Millisecond):
		}
	})
}

func (v *viewer) resize() {
	v.cols, v.rows = v.screen.Size()
	v.coverage = make([]float64, max(v.cols*v.rows, 0))
	v.sim.Resize(v.cols*config.CellWidth, v.rows*config.CellHeight)
}

func (v *viewer) run(ctx context.Context) error {
	v.screen.HideCursor()
	v.screen.Clear()
	v.startPolling()

	start := time.Now()
	ticker := time.NewTicker(config.FrameDelay)
	defer ticker.Stop()

	for {
		if v.processEvents() {
			return nil
		}
		v.draw(v.sim.Update(time.Since(start)))
		v.screen.Show()

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (v *viewer) startPolling() {
	v.polling = true
	go v.pollEvents()
}

// pollEvents ends when the viewer is closed, even with a full queue.
func (v *viewer) pollEvents() {
	defer close(v.pollDone)
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case v.events <- ev:
		case <-v.quit:
			return
		}
	}
}

func (v *viewer) processEvents() bool {
	for {
		select {
		case ev := <-v.events:
			if v.handleEvent(ev) == actionExit {
				return true
			}
		default:
			return false
		}
	}
}

func (v *viewer) handleEvent(ev tcell.Event) action {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.resize()
		v.screen.Sync()
		return actionResize
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return actionExit
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			return actionExit
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'r' || ev.Rune() == 'R'):
			v.log.Info("randomized text", "text", v.sim.RandomizeText())
		}
	}
	return actionNone
}

// draw rasterizes the frame's dots into per-cell coverage.
func (v *viewer) draw(f render.Frame) {
	for i := range v.coverage {
		v.coverage[i] = 0
	}
	cellArea := float64(config.CellWidth * config.CellHeight)
	for _, d := range f.Dots {
		cx := int(math.Floor(d.X / config.CellWidth))
		cy := int(math.Floor(d.Y / config.CellHeight))
		if cx < 0 || cy < 0 || cx >= v.cols || cy >= v.rows {
			continue
		}
		v.coverage[cy*v.cols+cx] += math.Pi * d.Radius * d.Radius / cellArea
	}

	bg := toTcell(f.Background)
	fg := toTcell(over(f.Color, f.Background))
	base := tcell.StyleDefault.Background(bg)
	style := base.Foreground(fg)

	for y := 0; y < v.rows; y++ {
		for x := 0; x < v.cols; x++ {
			c := v.coverage[y*v.cols+x]
			if c <= 0 {
				v.screen.SetContent(x, y, ' ', nil, base)
				continue
			}
			idx := 1 + int(math.Min(c, 1)*float64(len(ramp)-2)+0.5)
			v.screen.SetContent(x, y, ramp[min(idx, len(ramp)-1)], nil, style)
		}
	}

	v.drawCountdown(f.Countdown, base)
}

func (v *viewer) drawCountdown(label string, base tcell.Style) {
	if label == "" {
		return
	}
	col := v.cols - len(label) - 1
	if col < 0 || v.rows == 0 {
		return
	}
	style := base.Foreground(tcell.ColorWhite).Dim(true)
	for i, r := range label {
		v.screen.SetContent(col+i, 0, r, nil, style)
	}
}

// over composites c onto an opaque background.
func over(c, bg color.NRGBA) color.NRGBA {
	a := float64(c.A) / 255
	mix := func(f, b uint8) uint8 {
		return uint8(float64(b) + (float64(f)-float64(b))*a + 0.5)
	}
	return color.NRGBA{R: mix(c.R, bg.R), G: mix(c.G, bg.G), B: mix(c.B, bg.B), A: 0xff}
}

func toTcell(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
