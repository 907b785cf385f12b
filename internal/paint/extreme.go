package paint

import (
	"math"

	"drive-canvas.klederson.com/internal/canvas"
	"drive-canvas.klederson.com/internal/telemetry"
)

// Effect draws the overlay for one kind of extreme event in place of the
// ordinary mark.
type Effect interface {
	Render(r canvas.Renderer, b Brush, ev telemetry.ExtremeEvent) EffectResult
}

// EffectResult reports what an overlay did.
type EffectResult struct {
	Marks int // Draw calls issued
	Nudge Vec // Normalized displacement to apply to the painter afterwards
}

var effects = map[telemetry.EventType]Effect{
	telemetry.EventSpin:           spinEffect{},
	telemetry.EventCrash:          crashEffect{},
	telemetry.EventEmergencyBrake: skidEffect{},
	telemetry.EventCorrection:     correctionEffect{},
	telemetry.EventErratic:        erraticEffect{},
}

// EffectFor returns the overlay for an event type. Unknown and normal types
// have none.
func EffectFor(t telemetry.EventType) (Effect, bool) {
	fx, ok := effects[t]
	return fx, ok
}

// Overlay element counts as a function of intensity.
func SpinSplatters(i float64) int { return 3 + int(i*8) }
func CrashFragments(i float64) int { return 8 + int(i*15) }
func SkidLines(i float64) int { return 2 + int(i*4) }
func SkidParticles(i float64) int { return 5 + int(i*10) }
func ErraticSegments(i float64) int { return 5 + int(i*8) }
func TensionDots(i float64) int { return 3 + int(i*5) }

const shockRings = 3

type spinEffect struct{}

func (spinEffect) Render(r canvas.Renderer, b Brush, ev telemetry.ExtremeEvent) EffectResult {
	i := clamp01(ev.Intensity)
	dir := 1.0
	if ev.Direction == "left" {
		dir = -1
	}

	turns := 2 + i
	steps := int(turns * 24)
	maxR := 20 + i*30
	pts := make([]canvas.Point, steps+1)
	for k := 0; k <= steps; k++ {
		f := float64(k) / float64(steps)
		pts[k] = b.At.Polar(b.Heading+dir*f*turns*2*math.Pi, 2+f*maxR)
	}
	r.Stroke(canvas.Polyline(pts), b.style(0.7, 1+b.Size*0.3))

	n := SpinSplatters(i)
	for k := 0; k < n; k++ {
		a := float64(k)*2*math.Pi/float64(n) + ev.Speed*0.01
		d := maxR + 5 + ev.Speed*0.2 + float64(k)*5
		r.FillCircle(b.At.Polar(a, d), 1.5+i*2, b.style(0.6, 0))
	}

	return EffectResult{
		Marks: 1 + n,
		Nudge: Vec{math.Cos(b.Time * 1.3), math.Sin(b.Time * 1.3)}.Scale(0.01 * (0.5 + i)),
	}
}

type crashEffect struct{}

func (crashEffect) Render(r canvas.Renderer, b Brush, ev telemetry.ExtremeEvent) EffectResult {
	i := clamp01(ev.Intensity)
	ring := 10 + i*20
	r.Stroke(canvas.Circle(b.At, ring), b.style(0.9, 2+i*3))

	n := CrashFragments(i)
	for k := 0; k < n; k++ {
		a := float64(k)*2*math.Pi/float64(n) + ev.ImpactSpeed*0.01
		length := 15 + ev.ImpactSpeed*0.3*(0.5+0.5*math.Abs(math.Sin(float64(k)*1.7)))
		r.Stroke(canvas.Line(b.At.Polar(a, ring), b.At.Polar(a, ring+length)), b.style(0.8, 1+i*2))
	}

	for k := 0; k < shockRings; k++ {
		s := b.style(0.3-float64(k)*0.1, 1.5)
		s.Blend = canvas.BlendMultiply
		r.Stroke(canvas.Circle(b.At, ring*(1.5+float64(k)*0.6)), s)
	}
	return EffectResult{Marks: 1 + n + shockRings}
}

const skidPoints = 16

type skidEffect struct{}

func (skidEffect) Render(r canvas.Renderer, b Brush, ev telemetry.ExtremeEvent) EffectResult {
	i := clamp01(ev.Intensity)
	back := b.Heading + math.Pi
	side := b.Heading + math.Pi/2
	length := 40 + ev.Speed*0.5

	lines := SkidLines(i)
	for k := 0; k < lines; k++ {
		start := b.At.Polar(side, (float64(k)-float64(lines-1)/2)*5)
		pts := make([]canvas.Point, skidPoints+1)
		for j := 0; j <= skidPoints; j++ {
			d := float64(j) / skidPoints * length
			pts[j] = start.Polar(back, d).Polar(side, math.Sin(float64(j)*0.8)*2)
		}
		r.Stroke(canvas.Polyline(pts), b.style(0.7, 1.5+i))
	}

	particles := SkidParticles(i)
	for k := 0; k < particles; k++ {
		f := float64(k) / float64(particles)
		at := b.At.Polar(back, f*length).Polar(side, math.Sin(float64(k)*2.3)*6)
		r.FillCircle(at, 1+i*1.5, b.style(0.5*(1-f)+0.05, 0))
	}
	return EffectResult{Marks: lines + particles}
}

const (
	zigzagSegments = 7
	zigzagSpacing  = 8.0
	zigzagOffset   = 6.0
)

type correctionEffect struct{}

func (correctionEffect) Render(r canvas.Renderer, b Brush, ev telemetry.ExtremeEvent) EffectResult {
	i := clamp01(ev.Intensity)
	amp := 14 * i
	side := b.Heading + math.Pi/2

	zigzag := func(offset float64) canvas.Path {
		pts := make([]canvas.Point, zigzagSegments+1)
		for k := range pts {
			swing := amp
			if k%2 == 1 {
				swing = -amp
			}
			pts[k] = b.At.Polar(b.Heading, float64(k)*zigzagSpacing).Polar(side, swing+offset)
		}
		return canvas.Polyline(pts)
	}

	r.Stroke(zigzag(0), b.style(0.8, 1.5+i*2))
	marks := 1
	if ev.Severity == "violent" {
		r.Stroke(zigzag(zigzagOffset), b.style(0.5, 1))
		r.Stroke(zigzag(-zigzagOffset), b.style(0.5, 1))
		marks += 2
	}
	return EffectResult{Marks: marks}
}

type erraticEffect struct{}

func (erraticEffect) Render(r canvas.Renderer, b Brush, ev telemetry.ExtremeEvent) EffectResult {
	i := clamp01(ev.Intensity)
	chaos := ev.ChaosLevel

	n := ErraticSegments(i)
	from := b.At
	for k := 0; k < n; k++ {
		a := b.Heading + math.Sin(chaos*0.1+float64(k)*1.3)*math.Pi
		to := from.Polar(a, 6+math.Mod(chaos*0.7+float64(k)*3, 12))
		r.Stroke(canvas.Line(from, to), b.style(0.6, 1+i))
		from = to
	}

	dots := TensionDots(i)
	for k := 0; k < dots; k++ {
		a := math.Cos(chaos+float64(k)*2.1) * 2 * math.Pi
		r.FillCircle(b.At.Polar(a, 8+float64(k)*4), 2, b.style(0.5, 0))
	}
	return EffectResult{Marks: n + dots}
}
