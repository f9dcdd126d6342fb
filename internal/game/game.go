// Package game is the ebiten window front end.
package game

import (
	"bytes"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/iburimskiy/breath-visualization/internal/config"
	"github.com/iburimskiy/breath-visualization/internal/render"
	"github.com/iburimskiy/breath-visualization/internal/sim"
	"github.com/iburimskiy/breath-visualization/internal/soundscape"
)

const (
	helpText     = "R: random number  T: text  O: soundscape  Space: pause sound  Esc/Q: quit"
	helpDuration = 6 * time.Second
	statusX      = 12
	statusY      = 12
)

type game struct {
	log   *slog.Logger
	sim   *sim.Simulation
	sound *soundscape.Player

	start time.Time
	frame render.Frame

	hudFace *text.GoTextFace

	status      string
	statusUntil time.Time
	lastErr     error
}

func newGame(s *sim.Simulation, log *slog.Logger) (*game, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, errors.Wrap(err, "load HUD font")
	}
	now := time.Now()
	return &game{
		log:         log,
		sim:         s,
		sound:       soundscape.New(log.With("component", "soundscape")),
		start:       now,
		hudFace:     &text.GoTextFace{Source: src, Size: config.HUDSize},
		status:      helpText,
		statusUntil: now.Add(helpDuration),
	}, nil
}

func (g *game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyQ):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.log.Info("randomized text", "text", g.sim.RandomizeText())
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		g.promptText()
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		g.openSoundscape()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.sound.TogglePause()
	}

	g.frame = g.sim.Update(time.Since(g.start))
	g.sound.Follow(g.frame.Phase.Tri)
	return nil
}

func (g *game) promptText() {
	s, ok, err := promptText(g.sim.Text())
	if err != nil {
		g.fail(err)
		return
	}
	if ok {
		g.sim.SetText(s)
		g.log.Info("display text set", "text", s)
	}
}

func (g *game) openSoundscape() {
	path, ok, err := pickSoundFile()
	if err != nil {
		g.fail(err)
		return
	}
	if !ok {
		return
	}
	if err := g.sound.Load(path); err != nil {
		g.fail(err)
	}
}

func (g *game) fail(err error) {
	g.lastErr = err
	g.log.Warn("action failed", "err", err)
}

func (g *game) Draw(screen *ebiten.Image) {
	f := g.frame
	screen.Fill(f.Background)

	for _, d := range f.Dots {
		vector.DrawFilledCircle(screen, float32(d.X), float32(d.Y), float32(d.Radius), f.Color, true)
	}

	g.drawCountdown(screen, f.Countdown)
	g.drawStatus(screen)
}

func (g *game) drawCountdown(screen *ebiten.Image, label string) {
	if label == "" {
		return
	}
	w, _ := text.Measure(label, g.hudFace, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(screen.Bounds().Dx()-config.HUDInset)-w, config.HUDInset)
	op.ColorScale.ScaleAlpha(config.HUDAlpha)
	text.Draw(screen, label, g.hudFace, op)
}

func (g *game) drawStatus(screen *ebiten.Image) {
	status := ""
	if time.Now().Before(g.statusUntil) {
		status = g.status
	}
	if g.sound.Paused() {
		status = "Soundscape paused - Space to resume"
	}
	if g.lastErr != nil {
		if status != "" {
			status += " | "
		}
		status += "Error: " + g.lastErr.Error()
	}
	if status != "" {
		ebitenutil.DebugPrintAt(screen, status, statusX, statusY)
	}
}

// Layout follows the window so a resize changes the particle build key.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.sim.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it closes.
func Run(cfg config.Config, s *sim.Simulation, log *slog.Logger) error {
	g, err := newGame(s, log)
	if err != nil {
		return err
	}
	defer g.sound.Close()

	if cfg.SoundPath != "" {
		if err := g.sound.Load(cfg.SoundPath); err != nil {
			g.fail(err)
		}
	}

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("Breath - " + helpText)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.TargetTPS)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return errors.Wrap(err, "run window")
	}
	return nil
}
