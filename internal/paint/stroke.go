package paint

import (
	"math"
	"math/rand/v2"

	"drive-canvas.klederson.com/internal/canvas"
	"drive-canvas.klederson.com/internal/config"
	"drive-canvas.klederson.com/internal/telemetry"
)

// MarkKind is the shape an ordinary stroke resolved to.
type MarkKind int

const (
	MarkNone MarkKind = iota
	MarkCurve
	MarkStraight
	MarkJittered
	MarkSpot
	MarkDot
)

func (k MarkKind) String() string {
	switch k {
	case MarkCurve:
		return "curve"
	case MarkStraight:
		return "straight"
	case MarkJittered:
		return "jittered"
	case MarkSpot:
		return "spot"
	case MarkDot:
		return "dot"
	default:
		return "-"
	}
}

const (
	pedalDominance = 0.05 // Pedal input below this does not drive a mark
	smoothCalm     = 85.0
	jitterCalm     = 40.0
	lineCurveCalm  = 80.0
	splatterSpeed  = 80.0
	splashBrake    = 0.7
	extraThrottle  = 0.7
)

// Brush carries everything a mark needs for one painter tick. Positions and
// lengths are in surface pixels.
type Brush struct {
	At      canvas.Point
	Prev    canvas.Point
	HasPrev bool
	Heading float64
	Color   Color
	Size    float64
	Sample  telemetry.Sample
	Calm    float64
	Control float64
	State   DrivingState
	Persona Persona
	Time    float64 // Seconds, for time-based motion
	Rand    *rand.Rand
}

func (b Brush) style(alpha, width float64) canvas.Style {
	return canvas.Style{Color: b.Color.NRGBA(), Alpha: clamp01(alpha), Width: width}
}

func (b Brush) speedMul() float64 { return multiplier(b.Persona.SpeedMultiplier) }
func (b Brush) chaosMul() float64 { return multiplier(b.Persona.ChaosMultiplier) }
func (b Brush) brushMul() float64 { return multiplier(b.Persona.BrushMultiplier) }

func multiplier(m float64) float64 {
	if m <= 0 || !finite(m) {
		return 1
	}
	return m
}

// BrushSize maps gear and speed to a mark size in pixels, scaled by the
// persona's brush multiplier.
func BrushSize(s telemetry.Sample, p Persona) float64 {
	base := clamp(2+float64(s.Gear)*2+s.SpeedKmh/100*8, 1, 20)
	return clamp(base*multiplier(p.BrushMultiplier), config.MinBrushSize, config.MaxBrushSize)
}

// Strategy draws the ordinary mark for one tick.
type Strategy interface {
	Paint(r canvas.Renderer, b Brush) MarkKind
}

// StrategyFor returns the mark strategy of a render mode.
func StrategyFor(mode config.RenderMode) Strategy {
	if mode == config.ModeLines {
		return ContinuousLines{}
	}
	return DiscreteMarks{}
}

// DiscreteMarks branches on the dominant pedal: throttle strokes, brake spots
// or a neutral dot.
type DiscreteMarks struct{}

func (DiscreteMarks) Paint(r canvas.Renderer, b Brush) MarkKind {
	switch {
	case b.Sample.Throttle > pedalDominance:
		return throttleStroke(r, b)
	case b.Sample.Brake > pedalDominance:
		brakeSpot(r, b)
		return MarkSpot
	default:
		neutralDot(r, b)
		return MarkDot
	}
}

// ShapeFor picks the stroke shape for a calm index.
func ShapeFor(calm float64) MarkKind {
	switch {
	case calm > smoothCalm:
		return MarkCurve
	case calm >= jitterCalm:
		return MarkStraight
	default:
		return MarkJittered
	}
}

func throttleStroke(r canvas.Renderer, b Brush) MarkKind {
	s := b.Sample
	length := (15 + s.Throttle*40 + s.SpeedKmh/15) * b.speedMul()
	width := (1 + s.Throttle*2.5) * b.brushMul()
	alpha := 0.6 + b.Control/100*0.3
	end := b.At.Polar(b.Heading, length)

	kind := ShapeFor(b.Calm)
	r.Stroke(shapedPath(kind, b.At, end, jitterAmp(b), b), b.style(alpha, width))

	if s.Throttle > extraThrottle {
		normal := b.Heading + math.Pi/2
		for i := 1; i < int(s.Throttle*3); i++ {
			off := float64(i) * width * 1.5
			a, e := b.At.Polar(normal, off), end.Polar(normal, off)
			r.Stroke(shapedPath(kind, a, e, jitterAmp(b), b), b.style(alpha*0.4, width*0.6))
		}
	}

	if s.SpeedKmh > splatterSpeed {
		n := 2 + min(3, int((s.SpeedKmh-splatterSpeed)/40))
		for i := 0; i < n; i++ {
			at := end.Polar(b.Rand.Float64()*2*math.Pi, b.Rand.Float64()*b.Size*2)
			r.FillCircle(at, 1+b.Rand.Float64()*2, b.style(0.5, 0))
		}
	}
	return kind
}

func jitterAmp(b Brush) float64 {
	return math.Min(12, 120/math.Max(b.Calm, 1)) * b.chaosMul()
}

// shapedPath builds a path from a to end in the given shape.
func shapedPath(kind MarkKind, a, end canvas.Point, amp float64, b Brush) canvas.Path {
	switch kind {
	case MarkCurve:
		return curve(a, end, sign(b.Sample.SteeringAngle))
	case MarkJittered:
		return jittered(a, end, amp, b.Rand)
	default:
		return canvas.Line(a, end)
	}
}

// curve bends the segment a-b to one side by a quarter of its length.
func curve(a, b canvas.Point, side float64) canvas.Path {
	dx, dy := b.X-a.X, b.Y-a.Y
	mid := canvas.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	ctrl := canvas.Point{X: mid.X - dy*0.25*side, Y: mid.Y + dx*0.25*side}
	var p canvas.Path
	p.MoveTo(a).QuadTo(ctrl, b)
	return p
}

const jitterSegments = 5

// jittered splits a-b into segments whose inner vertices wander sideways by
// up to amp pixels.
func jittered(a, b canvas.Point, amp float64, rng *rand.Rand) canvas.Path {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	nx, ny := 0.0, 0.0
	if l > 0 {
		nx, ny = -dy/l, dx/l
	}
	pts := make([]canvas.Point, jitterSegments+1)
	for i := 0; i <= jitterSegments; i++ {
		t := float64(i) / jitterSegments
		off := 0.0
		if i > 0 && i < jitterSegments {
			off = (rng.Float64()*2 - 1) * amp
		}
		pts[i] = canvas.Point{X: a.X + dx*t + nx*off, Y: a.Y + dy*t + ny*off}
	}
	return canvas.Polyline(pts)
}

// BrakeDrops returns the number of drops around a brake spot.
func BrakeDrops(brake float64) int {
	return int(brake*8) + 2
}

// BrakeSplashes returns the number of splash lines for a hard brake, or zero.
func BrakeSplashes(brake float64) int {
	if brake <= splashBrake {
		return 0
	}
	return min(6, 3+int((brake-splashBrake)/0.3*3))
}

func brakeSpot(r canvas.Renderer, b Brush) {
	brake := b.Sample.Brake
	radius := 3 + brake*12 + b.Size*0.8
	r.FillCircle(b.At, radius, b.style(0.6+brake*0.4, 0))

	for i := 0; i < BrakeDrops(brake); i++ {
		at := b.At.Polar(b.Rand.Float64()*2*math.Pi, radius*(1.2+b.Rand.Float64()))
		r.FillCircle(at, 1+b.Rand.Float64()*radius*0.2, b.style(0.4, 0))
	}

	n := BrakeSplashes(brake)
	kind := MarkStraight
	if b.Calm < jitterCalm {
		kind = MarkJittered
	}
	for i := 0; i < n; i++ {
		a := b.Heading + (float64(i)-float64(n-1)/2)*0.35
		from := b.At.Polar(a, radius)
		to := b.At.Polar(a, radius+10+brake*20)
		r.Stroke(shapedPath(kind, from, to, jitterAmp(b)*0.5, b), b.style(0.5, 1+brake))
	}
}

func neutralDot(r canvas.Renderer, b Brush) {
	r.FillCircle(b.At, math.Max(2, b.Size*0.7), b.style(0.3+b.Control/100*0.5, 0))
}

// ContinuousLines joins consecutive points into persistent linework and
// overlays accents for the driving state.
type ContinuousLines struct{}

const speedLines = 3

func (ContinuousLines) Paint(r canvas.Renderer, b Brush) MarkKind {
	if !b.HasPrev {
		neutralDot(r, b)
		return MarkDot
	}

	kind := MarkStraight
	switch {
	case b.Calm > lineCurveCalm:
		kind = MarkCurve
	case b.Calm < jitterCalm:
		kind = MarkJittered
	}
	width := math.Max(1, b.Size*0.4)
	r.Stroke(shapedPath(kind, b.Prev, b.At, jitterAmp(b), b), b.style(0.7, width))

	accent := b
	accent.Color = b.Color.Shift(b.Persona.HueShift)
	switch b.State {
	case StateBraking:
		ring := 6 + b.Sample.Brake*10
		r.Stroke(canvas.Circle(b.At, ring), accent.style(0.6, 1.5))
		for i := 0; i < 6; i++ {
			at := b.At.Polar(float64(i)*math.Pi/3, ring+4+b.Rand.Float64()*6)
			r.FillCircle(at, 1.5, accent.style(0.5, 0))
		}
	case StateAccelerating:
		back := b.Heading + math.Pi
		side := b.Heading + math.Pi/2
		for i := 0; i < speedLines; i++ {
			from := b.At.Polar(back, 6).Polar(side, float64(i-1)*4)
			to := from.Polar(back, 10+b.Sample.Throttle*15)
			r.Stroke(canvas.Line(from, to), accent.style(0.4, 1))
		}
	case StateTurning:
		at := b.At.Polar(b.Heading+sign(b.Sample.SteeringAngle)*math.Pi/2, b.Size)
		r.FillCircle(at, 2, accent.style(0.5, 0))
	}
	return kind
}
