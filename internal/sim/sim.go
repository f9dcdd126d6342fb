// Package sim owns the particle field and advances it one frame at a time.
package sim

import (
	"image"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/iburimskiy/breath-visualization/internal/breath"
	"github.com/iburimskiy/breath-visualization/internal/config"
	"github.com/iburimskiy/breath-visualization/internal/flow"
	"github.com/iburimskiy/breath-visualization/internal/hud"
	"github.com/iburimskiy/breath-visualization/internal/particle"
	"github.com/iburimskiy/breath-visualization/internal/render"
)

// BuildKey identifies the inputs of the current particle set.
type BuildKey struct {
	Text          string
	Width, Height int
}

// Rasterizer draws text into an offscreen buffer.
type Rasterizer interface {
	Rasterize(text string, w, h int) *image.RGBA
}

// Simulation is the explicit context of the animation: particles, build
// key and timing. It is not safe for concurrent use.
type Simulation struct {
	raster  Rasterizer
	sampler particle.Sampler
	rng     *rand.Rand
	log     *slog.Logger

	clock      breath.Clock
	countdown  hud.Countdown
	integrator Integrator
	palette    render.Palette

	text          string
	width, height int

	built     BuildKey
	hasBuilt  bool
	dirty     bool
	builds    int
	particles []particle.Particle
	dots      []render.Dot
}

// Option customises a Simulation.
type Option func(*Simulation)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

func WithSampler(sm particle.Sampler) Option {
	return func(s *Simulation) { s.sampler = sm }
}

func New(cfg config.Config, r Rasterizer, rng *rand.Rand, noise flow.Noise, opts ...Option) *Simulation {
	s := &Simulation{
		raster:    r,
		sampler:   particle.DefaultSampler(),
		rng:       rng,
		log:       slog.New(slog.DiscardHandler),
		clock:     breath.Clock{HalfPeriod: cfg.HalfPeriod},
		countdown: hud.Countdown{Total: cfg.Duration},
		integrator: Integrator{
			Field:  flow.NewField(noise),
			Noise:  noise,
			Motion: cfg.Motion,
		},
		palette: render.NewPalette(cfg.FormedColor, cfg.DissolvedColor, cfg.Background),
		text:    cfg.Text,
		width:   cfg.Width,
		height:  cfg.Height,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Simulation) Text() string                   { return s.text }
func (s *Simulation) Size() (int, int)               { return s.width, s.height }
func (s *Simulation) Builds() int                    { return s.builds }
func (s *Simulation) Particles() []particle.Particle { return s.particles }
func (s *Simulation) Integrator() *Integrator        { return &s.integrator }

// Key is the build key for the current text and canvas size.
func (s *Simulation) Key() BuildKey {
	return BuildKey{Text: s.text, Width: s.width, Height: s.height}
}

// Resize sets the canvas size used by the next update.
func (s *Simulation) Resize(w, h int) {
	s.width, s.height = w, h
}

func (s *Simulation) SetText(text string) {
	s.text = text
}

// RandomizeText substitutes a random small integer and forces a rebuild,
// even when the draw repeats the current text.
func (s *Simulation) RandomizeText() string {
	n := config.RandomTextMin + s.rng.Intn(config.RandomTextMax-config.RandomTextMin+1)
	s.text = strconv.Itoa(n)
	s.Invalidate()
	return s.text
}

// Invalidate forces a rebuild on the next update.
func (s *Simulation) Invalidate() {
	s.dirty = true
}

func (s *Simulation) needsBuild() bool {
	return s.dirty || !s.hasBuilt || s.built != s.Key()
}

func (s *Simulation) rebuild() {
	key := s.Key()
	img := s.raster.Rasterize(key.Text, key.Width, key.Height)
	s.particles = s.sampler.Sample(img, s.rng)
	s.built = key
	s.hasBuilt = true
	s.dirty = false
	s.builds++
	s.log.Debug("particles rebuilt", "text", key.Text, "width", key.Width, "height", key.Height, "count", len(s.particles))
}

// Update advances the field to elapsed and returns the frame to draw.
func (s *Simulation) Update(elapsed time.Duration) render.Frame {
	if s.needsBuild() {
		s.rebuild()
	}

	phase := s.clock.At(elapsed)
	t := elapsed.Seconds()

	s.dots = s.dots[:0]
	for i := range s.particles {
		p := &s.particles[i]
		s.integrator.Step(p, t, phase.Exhale)
		s.dots = append(s.dots, render.Dot{X: p.Pos.X, Y: p.Pos.Y, Radius: p.Size / 2})
	}

	return render.Frame{
		Width:      s.width,
		Height:     s.height,
		Phase:      phase,
		Background: s.palette.BackgroundNRGBA(),
		Color:      s.palette.Particle(phase.Tri),
		Dots:       s.dots,
		Countdown:  s.countdown.Label(elapsed),
	}
}
