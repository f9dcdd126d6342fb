package main

import (
	"bytes"
	"flag"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/iburimskiy/breath-visualization/internal/config"
	"github.com/iburimskiy/breath-visualization/internal/raster"
)

func TestSnapshotCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.png")
	args := []string{"snapshot",
		"-out", out,
		"-text", "3",
		"-at", "2",
		"-width", "160",
		"-height", "100",
		"-seed", "11",
		"-duration", "10",
		"-log-level", "error",
	}
	if err := run(args); err != nil {
		t.Fatalf("run %v: %v", args, err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 100 {
		t.Errorf("Expected 160x100 snapshot, got %v", b)
	}
}

func TestSnapshotEnvironment(t *testing.T) {
	out := filepath.Join(t.TempDir(), "env.png")
	t.Setenv("BREATH_OUT", out)
	t.Setenv("BREATH_WIDTH", "80")
	t.Setenv("BREATH_HEIGHT", "60")
	t.Setenv("BREATH_LOG_LEVEL", "error")

	if err := run([]string{"snapshot"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("Expected snapshot from environment config: %v", err)
	}
}

func TestHelp(t *testing.T) {
	err := buildCLI().Parse([]string{"-h"})
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("Expected flag.ErrHelp, got %v", err)
	}
}

func TestNewLoggerReportsWarnings(t *testing.T) {
	cfg := config.Default()
	cfg.Warnings = []string{"invalid breath \"x\""}

	var buf bytes.Buffer
	log, closeLog, err := newLogger(cfg, &buf)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	defer closeLog()
	log.Debug("hidden")

	got := buf.String()
	if !strings.Contains(got, "parameter ignored") || !strings.Contains(got, "invalid breath") {
		t.Errorf("Expected warning in log output, got %q", got)
	}
	if strings.Contains(got, "hidden") {
		t.Errorf("Expected debug records filtered at info level, got %q", got)
	}
}

func TestSettleMatchesFullReplay(t *testing.T) {
	r, err := raster.New()
	if err != nil {
		t.Fatalf("raster.New: %v", err)
	}
	cfg := config.Default()
	cfg.Text = "4"
	cfg.Width, cfg.Height = 160, 100
	cfg.Seed = 5
	log := slog.New(slog.DiscardHandler)
	at := 20*time.Second + 250*time.Millisecond

	full := newSimulationWith(cfg, r, log)
	for e := time.Duration(0); e < at; e += snapshotStep {
		full.Update(e)
	}
	want := full.Update(at)

	got, steps := settle(newSimulationWith(cfg, r, log), at)
	if limit := int(snapshotWarmup/snapshotStep) + 1; steps > limit {
		t.Errorf("Expected at most %d warm-up steps, got %d", limit, steps)
	}
	if len(got.Dots) == 0 || len(got.Dots) != len(want.Dots) {
		t.Fatalf("Expected %d dots, got %d", len(want.Dots), len(got.Dots))
	}
	for i := range want.Dots {
		dx := got.Dots[i].X - want.Dots[i].X
		dy := got.Dots[i].Y - want.Dots[i].Y
		if d := math.Hypot(dx, dy); d > 0.1 {
			t.Fatalf("dot %d: expected %v, got %v (off by %v)", i, want.Dots[i], got.Dots[i], d)
		}
	}
	if got.Countdown != want.Countdown || got.Phase != want.Phase {
		t.Errorf("Expected matching HUD and phase, got %q %v vs %q %v", got.Countdown, got.Phase, want.Countdown, want.Phase)
	}
}

func TestSettleLongElapsedIsBounded(t *testing.T) {
	r, err := raster.New()
	if err != nil {
		t.Fatalf("raster.New: %v", err)
	}
	cfg := config.Default()
	cfg.Width, cfg.Height = 160, 100
	cfg.Seed = 9
	s := newSimulationWith(cfg, r, slog.New(slog.DiscardHandler))

	f, steps := settle(s, 24*time.Hour)
	if limit := int(snapshotWarmup/snapshotStep) + 1; steps > limit {
		t.Errorf("Expected at most %d warm-up steps for a day, got %d", limit, steps)
	}
	if len(f.Dots) == 0 {
		t.Error("Expected particles in the settled frame")
	}
}
