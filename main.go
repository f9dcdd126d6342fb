package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/pkg/errors"

	"github.com/iburimskiy/breath-visualization/internal/config"
	"github.com/iburimskiy/breath-visualization/internal/flow"
	"github.com/iburimskiy/breath-visualization/internal/game"
	"github.com/iburimskiy/breath-visualization/internal/raster"
	"github.com/iburimskiy/breath-visualization/internal/render"
	"github.com/iburimskiy/breath-visualization/internal/sim"
	"github.com/iburimskiy/breath-visualization/internal/term"
)

const envPrefix = "BREATH"

// snapshotStep integrates motion at the window's tick rate before the
// captured frame.
const snapshotStep = time.Second / config.TargetTPS

// snapshotWarmup is how much motion history a snapshot replays. Easing
// keeps at least ExhaleEase per tick, so older positions have decayed
// well below a pixel.
const snapshotWarmup = 2 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return buildCLI().ParseAndRun(ctx, args)
}

func buildCLI() *ffcli.Command {
	options := []ff.Option{ff.WithEnvVarPrefix(envPrefix)}

	termCfg := config.Default()
	termFlagSet := flag.NewFlagSet("breathviz term", flag.ContinueOnError)
	termCfg.RegisterFlags(termFlagSet)
	termCmd := &ffcli.Command{
		Name:       "term",
		ShortUsage: "breathviz term [flags]",
		ShortHelp:  "Draw the particle field in the terminal",
		LongHelp:   "Controls:\n  r           Random number\n  q, Esc      Quit",
		FlagSet:    termFlagSet,
		Options:    options,
		Exec: func(ctx context.Context, _ []string) error {
			return execTerm(ctx, termCfg)
		},
	}

	snapCfg := config.Default()
	snapFlagSet := flag.NewFlagSet("breathviz snapshot", flag.ContinueOnError)
	snapCfg.RegisterFlags(snapFlagSet)
	snapCfg.RegisterSnapshotFlags(snapFlagSet)
	snapCmd := &ffcli.Command{
		Name:       "snapshot",
		ShortUsage: "breathviz snapshot [flags]",
		ShortHelp:  "Render one frame to a PNG file",
		FlagSet:    snapFlagSet,
		Options:    options,
		Exec: func(_ context.Context, _ []string) error {
			return execSnapshot(snapCfg)
		},
	}

	winCfg := config.Default()
	winFlagSet := flag.NewFlagSet("breathviz", flag.ContinueOnError)
	winCfg.RegisterFlags(winFlagSet)
	winCfg.RegisterWindowFlags(winFlagSet)
	return &ffcli.Command{
		ShortUsage:  "breathviz [flags] <subcommand>",
		ShortHelp:   "A number or word that dissolves and reforms with your breath",
		LongHelp:    "Controls:\n  R           Random number\n  T           Enter display text\n  O           Open a soundscape (wav, mp3, flac)\n  Space       Pause or resume the soundscape\n  Esc, Q      Quit",
		FlagSet:     winFlagSet,
		Options:     options,
		Subcommands: []*ffcli.Command{termCmd, snapCmd},
		Exec: func(_ context.Context, _ []string) error {
			return execWindow(winCfg)
		},
	}
}

func execWindow(cfg config.Config) error {
	log, closeLog, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := newSimulation(cfg, log)
	if err != nil {
		return err
	}
	return game.Run(cfg, s, log.With("component", "window"))
}

func execTerm(ctx context.Context, cfg config.Config) error {
	// stderr would tear the terminal display
	log, closeLog, err := newLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := newSimulation(cfg, log)
	if err != nil {
		return err
	}
	return term.Run(ctx, s, log.With("component", "term"))
}

func execSnapshot(cfg config.Config) error {
	log, closeLog, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	r, err := raster.New()
	if err != nil {
		return err
	}
	s := newSimulationWith(cfg, r, log)

	frame, steps := settle(s, cfg.At)

	face, err := r.Face(config.HUDSize)
	if err != nil {
		return err
	}
	defer face.Close()

	if err := render.WritePNG(cfg.Out, render.NewSoftware(face).Draw(frame)); err != nil {
		return err
	}
	log.Info("wrote snapshot", "file", cfg.Out, "at", cfg.At, "steps", steps, "particles", len(frame.Dots))
	return nil
}

// settle steps s on the window's tick grid through the warm-up window
// ending at at, and returns the frame at at with the number of steps taken.
func settle(s *sim.Simulation, at time.Duration) (render.Frame, int) {
	start := max(at-snapshotWarmup, 0) / snapshotStep * snapshotStep
	steps := 0
	for e := start; e < at; e += snapshotStep {
		s.Update(e)
		steps++
	}
	return s.Update(at), steps
}

func newSimulation(cfg config.Config, log *slog.Logger) (*sim.Simulation, error) {
	r, err := raster.New()
	if err != nil {
		return nil, err
	}
	return newSimulationWith(cfg, r, log), nil
}

func newSimulationWith(cfg config.Config, r *raster.Rasterizer, log *slog.Logger) *sim.Simulation {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Debug("starting", "text", cfg.Text, "breath", cfg.HalfPeriod, "duration", cfg.Duration, "seed", seed)

	return sim.New(cfg, r,
		rand.New(rand.NewSource(seed)),
		flow.NewPerlin(seed),
		sim.WithLogger(log.With("component", "sim")),
	)
}

// newLogger builds the process logger and reports rejected parameters.
func newLogger(cfg config.Config, fallback io.Writer) (*slog.Logger, func(), error) {
	out, closeFn := fallback, func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open log file")
		}
		out, closeFn = f, func() { _ = f.Close() }
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	for _, w := range cfg.Warnings {
		log.Warn("parameter ignored", "reason", w)
	}
	return log, closeFn, nil
}
