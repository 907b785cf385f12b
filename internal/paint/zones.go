package paint

import "drive-canvas.klederson.com/internal/config"

// Zone is an axis-aligned target region in normalized canvas units.
type Zone struct {
	MinX, MinY, MaxX, MaxY float64
}

// zones are the five non-overlapping target regions: the four corners and a
// tall centre strip that sits between them.
var zones = [config.PainterSlots]Zone{
	{MinX: 0.05, MinY: 0.05, MaxX: 0.35, MaxY: 0.45}, // top left
	{MinX: 0.37, MinY: 0.20, MaxX: 0.63, MaxY: 0.80}, // centre
	{MinX: 0.65, MinY: 0.05, MaxX: 0.95, MaxY: 0.45}, // top right
	{MinX: 0.05, MinY: 0.55, MaxX: 0.35, MaxY: 0.95}, // bottom left
	{MinX: 0.65, MinY: 0.55, MaxX: 0.95, MaxY: 0.95}, // bottom right
}

// palette names the base hue of each slot.
var palette = [config.PainterSlots]string{
	"Serenity Blue",
	"Mystic Violet",
	"Passion Rose",
	"Solar Gold",
	"Nature Green",
}

// ZoneFor returns the target zone of a painter slot.
func ZoneFor(slot int) Zone {
	return zones[slot%config.PainterSlots]
}

// BaseHue returns the base hue of a painter slot in degrees. Slots are spread
// evenly around the colour wheel.
func BaseHue(slot int) float64 {
	return wrapDegrees(config.BaseHueStart + float64(slot%config.PainterSlots)*config.BaseHueStep)
}

// PaletteName returns the display name of a slot's base colour.
func PaletteName(slot int) string {
	return palette[slot%config.PainterSlots]
}

// Center returns the midpoint of the zone.
func (z Zone) Center() Vec {
	return Vec{(z.MinX + z.MaxX) / 2, (z.MinY + z.MaxY) / 2}
}

// Contains reports whether v lies inside the zone, edges included.
func (z Zone) Contains(v Vec) bool {
	return v.X >= z.MinX && v.X <= z.MaxX && v.Y >= z.MinY && v.Y <= z.MaxY
}

// Overlaps reports whether two zones share any interior area.
func (z Zone) Overlaps(o Zone) bool {
	return z.MinX < o.MaxX && o.MinX < z.MaxX && z.MinY < o.MaxY && o.MinY < z.MaxY
}

// Clamp moves v inside the zone shrunk by margin on every side.
func (z Zone) Clamp(v Vec, margin float64) Vec {
	return Vec{
		X: clamp(v.X, z.MinX+margin, z.MaxX-margin),
		Y: clamp(v.Y, z.MinY+margin, z.MaxY-margin),
	}
}

// Settle applies zone attraction: a point outside the zone is pulled part of
// the way towards its centre and then clamped inside the zone margins.
func (z Zone) Settle(v Vec) Vec {
	if z.Contains(v) {
		return v
	}
	v = v.Lerp(z.Center(), config.ZonePull)
	return z.Clamp(v, config.ZoneMargin)
}
