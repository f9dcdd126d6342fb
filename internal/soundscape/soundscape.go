// Package soundscape loops an audio file whose volume swells and fades
// with the breath.
package soundscape

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"

	"github.com/iburimskiy/breath-visualization/internal/config"
)

// Patterns lists the file types Load accepts, for file dialogs.
var Patterns = []string{"*.wav", "*.mp3", "*.flac"}

// output is the part of the speaker package a Player drives.
type output interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Clear()
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
}

type speakerOutput struct{}

func (speakerOutput) Init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}
func (speakerOutput) Clear()                  { speaker.Clear() }
func (speakerOutput) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerOutput) Lock()                   { speaker.Lock() }
func (speakerOutput) Unlock()                 { speaker.Unlock() }

// Player owns the speaker and the current looping track.
type Player struct {
	log *slog.Logger
	out output

	currentFile *os.File
	streamer    beep.StreamSeekCloser
	format      beep.Format
	ctrl        *beep.Ctrl
	gain        *breathGain

	spring   harmonica.Spring
	level    float64
	velocity float64

	paused   bool
	initDone bool
}

func New(log *slog.Logger) *Player {
	return newPlayer(log, speakerOutput{})
}

func newPlayer(log *slog.Logger, out output) *Player {
	return &Player{
		log:    log,
		out:    out,
		spring: harmonica.NewSpring(harmonica.FPS(config.TargetTPS), config.SoundSpringFreq, config.SoundSpringDamp),
		level:  config.SoundMinGain,
	}
}

func (p *Player) Loaded() bool { return p.ctrl != nil }
func (p *Player) Paused() bool { return p.paused }

// Level is the smoothed gain applied to the track.
func (p *Player) Level() float64 { return p.level }

// Follow moves the gain one frame toward the level for tri.
func (p *Player) Follow(tri float64) {
	target := config.SoundMinGain + (1-config.SoundMinGain)*tri
	p.level, p.velocity = p.spring.Update(p.level, p.velocity, target)
	p.level = max(0, min(1, p.level))
	if p.gain != nil {
		p.gain.set(p.level)
	}
}

func (p *Player) TogglePause() {
	if p.ctrl == nil {
		return
	}
	p.out.Lock()
	p.paused = !p.paused
	p.ctrl.Paused = p.paused
	p.out.Unlock()
}

// decode opens path and picks a decoder from its extension.
func decode(path string) (*os.File, beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, beep.Format{}, errors.Wrap(err, "open soundscape")
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, nil, beep.Format{}, errors.Errorf("unsupported file type: %q", ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, nil, beep.Format{}, errors.Wrapf(err, "decode %s", filepath.Base(path))
	}
	return f, streamer, format, nil
}

// Load replaces the current track with path, looped forever.
func (p *Player) Load(path string) error {
	f, streamer, format, err := decode(path)
	if err != nil {
		return err
	}

	// streamer -> loop -> gain -> ctrl
	g := newBreathGain(beep.Loop(-1, streamer), p.level)
	ctrl := &beep.Ctrl{Streamer: g, Paused: false}

	bufferSize := format.SampleRate.N(config.SoundBufferSlice)
	if !p.initDone || p.format.SampleRate != format.SampleRate {
		// Init also stops whatever was playing
		if err := p.out.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			p.drop()
			p.initDone = false
			return errors.Wrap(err, "init speaker")
		}
		p.initDone = true
	} else {
		p.out.Clear()
	}

	p.closeCurrent()
	p.currentFile = f
	p.streamer = streamer
	p.format = format
	p.ctrl = ctrl
	p.gain = g
	p.paused = false

	length := time.Duration(streamer.Len()) * time.Second / time.Duration(format.SampleRate.N(time.Second))
	p.log.Info("loaded soundscape", "file", path, "sample_rate", int(format.SampleRate), "length", length.Round(time.Second))

	p.out.Play(ctrl)
	return nil
}

func (p *Player) closeCurrent() {
	if p.streamer != nil {
		_ = p.streamer.Close()
		p.streamer = nil
	}
	if p.currentFile != nil {
		_ = p.currentFile.Close()
		p.currentFile = nil
	}
}

// drop forgets the current track once the speaker no longer plays it.
func (p *Player) drop() {
	p.closeCurrent()
	p.ctrl = nil
	p.gain = nil
	p.paused = false
}

// Close stops playback and releases the track.
func (p *Player) Close() {
	if p.initDone {
		p.out.Clear()
	}
	p.drop()
}
