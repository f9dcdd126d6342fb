package config

import "time"

const (
	WindowWidth  = 1024
	WindowHeight = 640

	DefaultText       = "7"
	DefaultHalfPeriod = 4 * time.Second
	MinHalfPeriod     = 500 * time.Millisecond

	// Text raster
	TextHeightFraction = 0.62
	Margin             = 48
	MinFontSize        = 24.0

	// Sampling
	SampleStride        = 5
	AlphaThreshold      = 128
	BrightnessThreshold = 200
	InitialJitter       = 2.0
	MinParticleSize     = 1.6
	MaxParticleSize     = 3.6

	// Random text substitution range, inclusive
	RandomTextMin = 1
	RandomTextMax = 99

	// Motion
	MaxSpread       = 140.0
	JitterStrength  = 0.6
	FieldStrength   = 55.0
	ExhaleEase      = 0.08
	InhaleTightness = 0.78
	DriftNoiseScale = 0.006
	DriftTimeScale  = 0.12
	DriftWobble     = 1.1

	// Flow field
	FlowScale        = 0.004
	FlowTimeScale    = 0.15
	FlowMinMagnitude = 0.35
	FlowMaxMagnitude = 1.0

	// Rendering
	MinAlpha = 0.28
	MaxAlpha = 1.0
	HUDAlpha = 0.35
	HUDSize  = 20.0
	HUDInset = 16

	DefaultFormedColor    = "#f4f1ea"
	DefaultDissolvedColor = "#6b8cff"
	DefaultBackground     = "#07080c"

	// Soundscape
	SoundMinGain     = 0.25
	SoundSpringFreq  = 4.0
	SoundSpringDamp  = 1.0
	SoundBufferSlice = time.Second / 20

	// Terminal
	CellWidth  = 4
	CellHeight = 8
	FrameDelay = 33 * time.Millisecond
	TargetTPS  = 60
)

// Motion holds the integrator tunables. Defaults come from the constants
// above; tests override individual fields.
type Motion struct {
	MaxSpread       float64
	JitterStrength  float64
	FieldStrength   float64
	ExhaleEase      float64
	InhaleTightness float64
	DriftNoiseScale float64
	DriftTimeScale  float64
	DriftWobble     float64
}

func DefaultMotion() Motion {
	return Motion{
		MaxSpread:       MaxSpread,
		JitterStrength:  JitterStrength,
		FieldStrength:   FieldStrength,
		ExhaleEase:      ExhaleEase,
		InhaleTightness: InhaleTightness,
		DriftNoiseScale: DriftNoiseScale,
		DriftTimeScale:  DriftTimeScale,
		DriftWobble:     DriftWobble,
	}
}

// Config is the startup configuration. It is not modified after parsing.
type Config struct {
	Text       string
	Duration   time.Duration // zero means unbounded
	HalfPeriod time.Duration
	Seed       int64

	FormedColor    string
	DissolvedColor string
	Background     string

	Width  int
	Height int

	SoundPath string
	LogLevel  string
	LogFile   string

	// Snapshot only
	Out string
	At  time.Duration

	Motion Motion

	// Warnings collects values that were rejected and replaced by defaults.
	Warnings []string
}

func Default() Config {
	return Config{
		Text:           DefaultText,
		HalfPeriod:     DefaultHalfPeriod,
		FormedColor:    DefaultFormedColor,
		DissolvedColor: DefaultDissolvedColor,
		Background:     DefaultBackground,
		Width:          WindowWidth,
		Height:         WindowHeight,
		LogLevel:       "info",
		Out:            "frame.png",
		Motion:         DefaultMotion(),
	}
}
