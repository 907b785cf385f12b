// Package canvas defines the drawing capability the painting core talks to and
// the backends that implement it.
//
// Every call carries its complete style. A backend never carries colour, width,
// opacity or blend state from one call to the next, so a recorded command list
// fully describes what reached the surface.
package canvas

import (
	"image/color"
	"math"
)

// Point is a position in surface pixels.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Polar returns the point at distance r from p along angle a (radians, 0 = +X,
// increasing towards +Y).
func (p Point) Polar(a, r float64) Point {
	return Point{p.X + math.Cos(a)*r, p.Y + math.Sin(a)*r}
}

// Finite reports whether both coordinates are finite.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Rect is an axis-aligned rectangle in surface pixels.
type Rect struct {
	Min, Max Point
}

// BlendMode selects how a mark combines with what is already on the surface.
type BlendMode int

const (
	BlendOver     BlendMode = iota // Source-over compositing
	BlendMultiply                  // Darkens: dst * src, weighted by alpha
)

func (b BlendMode) String() string {
	switch b {
	case BlendMultiply:
		return "multiply"
	default:
		return "over"
	}
}

// Style is the complete visual state of one draw call.
type Style struct {
	Color color.NRGBA // Opaque colour; Alpha carries the opacity
	Alpha float64     // [0, 1]
	Width float64     // Stroke width in pixels, ignored for fills
	Blend BlendMode
}

// Renderer receives self-contained draw commands.
type Renderer interface {
	Stroke(p Path, s Style)
	FillCircle(center Point, radius float64, s Style)
	FillRect(r Rect, s Style)
}
