package paint

import (
	"image/color"
	"math"

	"drive-canvas.klederson.com/internal/config"
	"drive-canvas.klederson.com/internal/telemetry"
	"github.com/lucasb-eyer/go-colorful"
)

// ColorVariant selects the saturation and luminance ranges.
type ColorVariant int

const (
	VariantMark ColorVariant = iota // Discrete marks, darker
	VariantLine                     // Continuous linework, brighter
)

type tone struct {
	satLo, satHi float64
	lumLo, lumHi float64
}

var tones = map[ColorVariant]tone{
	VariantMark: {satLo: 0.60, satHi: 0.90, lumLo: 0.30, lumHi: 0.45},
	VariantLine: {satLo: 0.70, satHi: 0.95, lumLo: 0.40, lumHi: 0.55},
}

const (
	// maxLightness is the CIE L* (0..1) above which a colour is considered
	// too close to the paper.
	maxLightness = 0.82
	lumStep      = 0.03
	minLuminance = 0.15
)

// Color is an HSL colour. Hue is in degrees [0, 360), the rest in [0, 1].
type Color struct {
	Hue        float64
	Saturation float64
	Luminance  float64
}

// DeriveColor computes a painter's colour for one sample. control is the
// control index and hueOffset the painter's cumulative bounce hue.
func DeriveColor(slot int, s telemetry.Sample, control, hueOffset float64, v ColorVariant) (Color, error) {
	hue := BaseHue(slot) +
		math.Min(s.SpeedKmh/config.MaxSpeedKmh, 1)*config.SpeedHueMax +
		math.Min(s.RPM/config.MaxRPM, 1)*config.RPMHueMax +
		hueOffset
	if !finite(hue) || !finite(control) {
		return Color{}, ErrNonFinite
	}

	tn, ok := tones[v]
	if !ok {
		tn = tones[VariantMark]
	}
	k := clamp01(control / 100)
	c := Color{
		Hue:        wrapDegrees(hue),
		Saturation: tn.satLo + (tn.satHi-tn.satLo)*k,
		Luminance:  tn.lumLo + (tn.lumHi-tn.lumLo)*k,
	}
	return c.legible(), nil
}

// legible darkens c until it stands out against the paper.
func (c Color) legible() Color {
	for c.Luminance > minLuminance {
		l, _, _ := c.hsl().Lab()
		if l <= maxLightness {
			break
		}
		c.Luminance = math.Max(minLuminance, c.Luminance-lumStep)
	}
	return c
}

// Shift rotates the hue by deg degrees.
func (c Color) Shift(deg float64) Color {
	c.Hue = wrapDegrees(c.Hue + deg)
	return c
}

func (c Color) hsl() colorful.Color {
	return colorful.Hsl(c.Hue, c.Saturation, c.Luminance).Clamped()
}

// NRGBA converts c to an opaque 8-bit colour.
func (c Color) NRGBA() color.NRGBA {
	r, g, b := c.hsl().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}
}

// Hex returns c as #rrggbb.
func (c Color) Hex() string {
	return c.hsl().Hex()
}
