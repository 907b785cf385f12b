package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ModeMarks, cfg.Mode)
	assert.Equal(t, 2560, cfg.Width)
	assert.Equal(t, 1440, cfg.Height)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"unknown mode", func(c *Config) { c.Mode = "splash" }},
		{"negative interval", func(c *Config) { c.PaintInterval = -time.Second }},
		{"fade above one", func(c *Config) { c.FadeRate = 1.5 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"no source", func(c *Config) { c.SourceURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateDemoNeedsNoSource(t *testing.T) {
	cfg := Default()
	cfg.SourceURL = ""
	cfg.Demo = true
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DRIVE_CANVAS_WIDTH":          "800",
		"DRIVE_CANVAS_HEIGHT":         "600",
		"DRIVE_CANVAS_MODE":           "Lines",
		"DRIVE_CANVAS_PAINT_INTERVAL": "250ms",
		"DRIVE_CANVAS_FADE_RATE":      "0.01",
		"DRIVE_CANVAS_SEED":           "42",
		"DRIVE_CANVAS_DEMO":           "true",
		"DRIVE_CANVAS_SOURCE_URL":     "ws://example:9000/ws",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, applyEnv(&cfg, lookup))

	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
	assert.Equal(t, ModeLines, cfg.Mode)
	assert.Equal(t, 250*time.Millisecond, cfg.PaintInterval)
	assert.InDelta(t, 0.01, cfg.FadeRate, 1e-12)
	assert.Equal(t, int64(42), cfg.GenerationSeed)
	assert.True(t, cfg.Demo)
	assert.Equal(t, "ws://example:9000/ws", cfg.SourceURL)
}

func TestApplyEnvReportsBadValues(t *testing.T) {
	env := map[string]string{
		"DRIVE_CANVAS_WIDTH": "wide",
		"DRIVE_CANVAS_SEED":  "x",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	err := applyEnv(&cfg, lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DRIVE_CANVAS_WIDTH")
	assert.Contains(t, err.Error(), "DRIVE_CANVAS_SEED")
	assert.Equal(t, 2560, cfg.Width)
}
