package term

import (
	"image/color"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/breath-visualization/internal/config"
	"github.com/iburimskiy/breath-visualization/internal/flow"
	"github.com/iburimskiy/breath-visualization/internal/raster"
	"github.com/iburimskiy/breath-visualization/internal/render"
	"github.com/iburimskiy/breath-visualization/internal/sim"
)

func newTestViewer(t *testing.T, cols, rows int) (*viewer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen.SetSize(cols, rows)

	r, err := raster.New()
	if err != nil {
		t.Fatalf("raster.New: %v", err)
	}
	cfg := config.Default()
	cfg.Text = "8"
	cfg.Duration = 10 * time.Second
	s := sim.New(cfg, r, rand.New(rand.NewSource(5)), flow.NewPerlin(5))
	v := newViewer(screen, s, slog.New(slog.DiscardHandler))
	t.Cleanup(v.close)
	return v, screen
}

func TestViewerSizesSimulation(t *testing.T) {
	v, _ := newTestViewer(t, 60, 20)
	w, h := v.sim.Size()
	if w != 60*config.CellWidth || h != 20*config.CellHeight {
		t.Errorf("Expected canvas %dx%d, got %dx%d", 60*config.CellWidth, 20*config.CellHeight, w, h)
	}
}

func TestDrawFormedText(t *testing.T) {
	v, screen := newTestViewer(t, 60, 20)

	// fully formed after one half period
	for e := time.Duration(0); e <= config.DefaultHalfPeriod; e += 100 * time.Millisecond {
		v.draw(v.sim.Update(e))
	}

	filled := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 60; x++ {
			r, _, _, _ := screen.GetContent(x, y)
			if r != ' ' && y > 0 {
				filled++
			}
		}
	}
	if filled == 0 {
		t.Error("Expected particles drawn into cells")
	}

	label := ""
	for x := 60 - len("00:06") - 1; x < 59; x++ {
		r, _, _, _ := screen.GetContent(x, 0)
		label += string(r)
	}
	if label != "00:06" {
		t.Errorf("Expected countdown 00:06 in the corner, got %q", label)
	}
}

func TestHandleEvents(t *testing.T) {
	v, screen := newTestViewer(t, 40, 12)
	v.sim.Update(0)
	builds := v.sim.Builds()

	if a := v.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone)); a != actionNone {
		t.Errorf("Expected randomize to continue, got %v", a)
	}
	v.sim.Update(time.Millisecond)
	if v.sim.Builds() != builds+1 {
		t.Errorf("Expected one rebuild after randomize, got %d", v.sim.Builds()-builds)
	}

	screen.SetSize(50, 14)
	if a := v.handleEvent(tcell.NewEventResize(50, 14)); a != actionResize {
		t.Errorf("Expected resize action, got %v", a)
	}
	if w, _ := v.sim.Size(); w != 50*config.CellWidth {
		t.Errorf("Expected canvas width %d after resize, got %d", 50*config.CellWidth, w)
	}

	tests := []struct {
		name string
		ev   *tcell.EventKey
	}{
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if a := v.handleEvent(tt.ev); a != actionExit {
				t.Errorf("Expected exit, got %v", a)
			}
		})
	}
}

func TestOver(t *testing.T) {
	bg := color.NRGBA{A: 0xff}
	if got := over(color.NRGBA{R: 200, G: 100, B: 0, A: 0xff}, bg); got.R != 200 || got.G != 100 {
		t.Errorf("Expected opaque colour unchanged, got %v", got)
	}
	if got := over(color.NRGBA{R: 200, A: 0}, bg); got.R != 0 {
		t.Errorf("Expected transparent colour to show background, got %v", got)
	}
}

func TestDrawEmptyFrame(t *testing.T) {
	v, _ := newTestViewer(t, 10, 4)
	v.draw(render.Frame{Background: color.NRGBA{A: 0xff}})
}

func TestCloseStopsPollingWithFullQueue(t *testing.T) {
	v, screen := newTestViewer(t, 20, 6)
	v.startPolling()

	// fill the viewer queue and leave the poller blocked on one more event
	for i := 0; i < cap(v.events)+3; i++ {
		screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	}
	deadline := time.Now().Add(2 * time.Second)
	for len(v.events) < cap(v.events) {
		if time.Now().After(deadline) {
			t.Fatalf("Expected a full event queue, got %d", len(v.events))
		}
		time.Sleep(time.Millisecond)
	}

	v.close()
	select {
	case <-v.pollDone:
	default:
		t.Error("Expected event polling to stop on close")
	}
	v.close()
}
