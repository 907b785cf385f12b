package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Canvas geometry (normalized units)
	CanvasMargin = 0.05 // Painters never leave [margin, 1-margin]
	BounceBand   = 0.02 // Depth of the band a rebounding painter is clamped into
	ZoneMargin   = 0.02 // Inset applied when re-clamping into a target zone
	ZonePull     = 0.30 // Fraction of the distance to zone center applied when outside

	// Drift
	DriftScale      = 0.010  // Step at 200 km/h
	CrawlStep       = 0.0008 // Step below CrawlSpeedKmh so painters never freeze
	CrawlSpeedKmh   = 10.0
	ThrottleDrift   = 0.004 // Extra step at full throttle
	ClusterSpread   = 0.002 // Amplitude of the position-derived anti-cluster term
	BrakeJitter     = 0.003 // Amplitude of the brake wobble at full brake
	BrakeJitterFrom = 0.2
	MaxSpeedKmh     = 200.0
	MaxRPM          = 8000.0

	// Rebound and escape
	BounceSpeedFactor = 3.0  // Bounce step relative to the normal step
	MinBounceStep     = 0.01 // Floor so a crawling painter still visibly rebounds
	CornerVariation   = 0.35 // Max angular variation (radians) when steering out of a corner
	StagnationEpsilon = 0.0015
	StagnationTicks   = 3 // Escape once the counter exceeds this
	EscapeStep        = 0.03
	MinEscapeDistance = 0.02
	CornerRegion      = 0.15
	CornerPull        = 0.05

	// Color
	BaseHueStart = 200.0
	BaseHueStep  = 72.0 // 360 / PainterSlots
	PainterSlots = 5
	SpeedHueMax  = 60.0
	RPMHueMax    = 30.0

	// Personas
	SessionDuration = 5*time.Minute + 30*time.Second

	// Painting cadence
	PaintJitter  = 25 * time.Millisecond
	PathCapacity = 64

	// Brushes (pixels)
	MinBrushSize = 1.0
	MaxBrushSize = 30.0

	// Transport
	ReconnectDelay = 3 * time.Second
	DemoInterval   = 100 * time.Millisecond

	// App
	AppName        = "DRIVE-CANVAS"
	AppVersion     = "1.0"
	EnvPrefix      = "DRIVE_CANVAS_"
	ReportInterval = 30 * time.Second // Period of the stats log line
)

// RenderMode selects the ordinary mark strategy.
type RenderMode string

const (
	ModeMarks RenderMode = "marks" // Discrete lines, spots and dots
	ModeLines RenderMode = "lines" // Continuous linework between consecutive points
)

// Config holds the runtime knobs. Fixed tuning stays in the constants above.
type Config struct {
	Width          int
	Height         int
	Mode           RenderMode
	PaintInterval  time.Duration
	FadeRate       float64 // Alpha of the white overlay per frame
	FPS            int
	GenerationSeed int64
	SourceURL      string
	Demo           bool
	Headless       bool
	Duration       time.Duration
	ExportDir      string
	ExportOnExit   bool
	LogFile        string
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Width:          2560,
		Height:         1440,
		Mode:           ModeMarks,
		PaintInterval:  time.Second,
		FadeRate:       0.0002,
		FPS:            30,
		GenerationSeed: time.Now().UnixMilli(),
		SourceURL:      "ws://localhost:8000/ws",
		ExportDir:      ".",
		LogFile:        "drive-canvas.log",
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Mode != ModeMarks && c.Mode != ModeLines {
		return fmt.Errorf("unknown render mode %q (want %q or %q)", c.Mode, ModeMarks, ModeLines)
	}
	if c.PaintInterval < 0 {
		return fmt.Errorf("paint interval must not be negative, got %s", c.PaintInterval)
	}
	if c.FadeRate < 0 || c.FadeRate > 1 {
		return fmt.Errorf("fade rate must be in [0,1], got %g", c.FadeRate)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if !c.Demo && c.SourceURL == "" {
		return errors.New("a source url is required outside demo mode")
	}
	return nil
}

// LoadEnv loads .env.local and .env from the working directory without
// overriding variables that are already set, then applies DRIVE_CANVAS_*
// variables on top of cfg.
func LoadEnv(cfg *Config) error {
	for _, p := range []string{".env.local", ".env"} {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	var errs []error
	setInt := func(key string, dst *int) {
		if v, ok := get(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v, ok := get(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = d
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := get(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}

	setInt("WIDTH", &cfg.Width)
	setInt("HEIGHT", &cfg.Height)
	setInt("FPS", &cfg.FPS)
	setDuration("PAINT_INTERVAL", &cfg.PaintInterval)
	setDuration("DURATION", &cfg.Duration)
	setBool("DEMO", &cfg.Demo)
	setBool("HEADLESS", &cfg.Headless)
	setBool("EXPORT_ON_EXIT", &cfg.ExportOnExit)

	if v, ok := get("MODE"); ok {
		cfg.Mode = RenderMode(strings.ToLower(v))
	}
	if v, ok := get("FADE_RATE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sFADE_RATE: %w", EnvPrefix, err))
		} else {
			cfg.FadeRate = f
		}
	}
	if v, ok := get("SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSEED: %w", EnvPrefix, err))
		} else {
			cfg.GenerationSeed = n
		}
	}
	if v, ok := get("SOURCE_URL"); ok {
		cfg.SourceURL = v
	}
	if v, ok := get("EXPORT_DIR"); ok {
		cfg.ExportDir = v
	}
	if v, ok := get("LOG_FILE"); ok {
		cfg.LogFile = v
	}

	return errors.Join(errs...)
}
