package config

import (
	"flag"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Flag values below never fail to parse. A rejected value leaves the
// default in place and appends a warning to the owning Config.

type textValue struct {
	cfg *Config
	p   *string
}

func (v textValue) String() string {
	if v.p == nil {
		return ""
	}
	return *v.p
}

func (v textValue) Set(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		v.cfg.warn("empty text, using %q", *v.p)
		return nil
	}
	*v.p = s
	return nil
}

// secondsValue accepts fractional seconds ("4", "2.5") or a Go duration ("1m").
type secondsValue struct {
	cfg  *Config
	name string
	p    *time.Duration
	min  time.Duration
	// optional values reset to zero instead of clamping
	optional bool
}

func (v secondsValue) String() string {
	if v.p == nil {
		return ""
	}
	return strconv.FormatFloat(v.p.Seconds(), 'f', -1, 64)
}

func (v secondsValue) Set(s string) error {
	d, ok := parseSeconds(s)
	switch {
	case !ok:
		v.cfg.warn("invalid %s %q, keeping %s", v.name, s, *v.p)
	case v.optional && d <= 0:
		*v.p = 0
	case d < v.min:
		v.cfg.warn("%s %s below minimum, clamped to %s", v.name, d, v.min)
		*v.p = v.min
	default:
		*v.p = d
	}
	return nil
}

func parseSeconds(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		// values past the time.Duration range are rejected, not wrapped
		ns := f * float64(time.Second)
		if math.IsNaN(ns) || math.Abs(ns) >= math.MaxInt64 {
			return 0, false
		}
		return time.Duration(ns), true
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, true
	}
	return 0, false
}

type intValue struct {
	cfg  *Config
	name string
	p    *int64
	min  int64
}

func (v intValue) String() string {
	if v.p == nil {
		return ""
	}
	return strconv.FormatInt(*v.p, 10)
}

func (v intValue) Set(s string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < v.min {
		v.cfg.warn("invalid %s %q, keeping %d", v.name, s, *v.p)
		return nil
	}
	*v.p = n
	return nil
}

type colorValue struct {
	cfg  *Config
	name string
	p    *string
}

func (v colorValue) String() string {
	if v.p == nil {
		return ""
	}
	return *v.p
}

func (v colorValue) Set(s string) error {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if _, err := colorful.Hex(s); err != nil {
		v.cfg.warn("invalid %s %q, keeping %s", v.name, s, *v.p)
		return nil
	}
	*v.p = s
	return nil
}

type sizeValue struct {
	cfg  *Config
	name string
	p    *int
}

func (v sizeValue) String() string {
	if v.p == nil {
		return ""
	}
	return strconv.Itoa(*v.p)
}

func (v sizeValue) Set(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		v.cfg.warn("invalid %s %q, keeping %d", v.name, s, *v.p)
		return nil
	}
	*v.p = n
	return nil
}

func (c *Config) warn(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// RegisterFlags binds the parameters shared by every front end.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(textValue{cfg: c, p: &c.Text}, "text", "number or short string to display")
	fs.Var(secondsValue{cfg: c, name: "duration", p: &c.Duration, optional: true}, "duration", "total run time in seconds for the countdown (0 = none)")
	fs.Var(secondsValue{cfg: c, name: "breath", p: &c.HalfPeriod, min: MinHalfPeriod}, "breath", "breath half period in seconds")
	fs.Var(intValue{cfg: c, name: "seed", p: &c.Seed}, "seed", "random seed (0 = time based)")
	fs.Var(colorValue{cfg: c, name: "color", p: &c.FormedColor}, "color", "particle colour when formed (hex)")
	fs.Var(colorValue{cfg: c, name: "dissolve", p: &c.DissolvedColor}, "dissolve", "particle colour when dissolved (hex)")
	fs.Var(colorValue{cfg: c, name: "background", p: &c.Background}, "background", "background colour (hex)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "write logs to this file instead of stderr")
}

// RegisterWindowFlags binds the parameters of the window front end.
func (c *Config) RegisterWindowFlags(fs *flag.FlagSet) {
	c.registerSize(fs)
	fs.StringVar(&c.SoundPath, "sound", c.SoundPath, "audio file (wav, mp3, flac) looped as a soundscape")
}

// RegisterSnapshotFlags binds the parameters of the snapshot front end.
func (c *Config) RegisterSnapshotFlags(fs *flag.FlagSet) {
	c.registerSize(fs)
	fs.StringVar(&c.Out, "out", c.Out, "PNG file to write")
	fs.Var(secondsValue{cfg: c, name: "at", p: &c.At, optional: true}, "at", "elapsed seconds of the rendered frame")
}

func (c *Config) registerSize(fs *flag.FlagSet) {
	fs.Var(sizeValue{cfg: c, name: "width", p: &c.Width}, "width", "canvas width in pixels")
	fs.Var(sizeValue{cfg: c, name: "height", p: &c.Height}, "height", "canvas height in pixels")
}
