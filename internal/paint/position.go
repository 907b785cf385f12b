package paint

import (
	"errors"
	"math"
	"time"

	"drive-canvas.klederson.com/internal/config"
	"drive-canvas.klederson.com/internal/telemetry"
)

// ErrNonFinite is returned when a computation produces NaN or an infinity.
var ErrNonFinite = errors.New("non-finite result")

// Edge identifies which canvas margin a rebound was triggered by.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeLeft
	EdgeRight
	EdgeTop
	EdgeBottom
	EdgeCorner
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeCorner:
		return "corner"
	default:
		return "none"
	}
}

// Move is the outcome of one integration step. It is computed without
// touching the painter so a failed tick leaves no trace.
type Move struct {
	Pos        Vec
	Heading    float64 // Canvas angle the painter travelled along
	Edge       Edge
	Escaped    bool
	HueDelta   float64 // Added to the painter's cumulative hue offset
	Stagnation int     // Counter value after this step
}

// Bounced reports whether the step rebounded off a margin.
func (m Move) Bounced() bool {
	return m.Edge != EdgeNone
}

var canvasCenter = Vec{0.5, 0.5}

// Step computes the painter's next normalized position from a telemetry
// sample. The result always lies within [CanvasMargin, 1-CanvasMargin]².
func Step(p *PainterState, s telemetry.Sample, now time.Time) (Move, error) {
	if !sampleFinite(s) {
		return Move{}, ErrNonFinite
	}
	t := seconds(now)
	var m Move
	if p.Stagnation > config.StagnationTicks {
		m = escape(p, s, t)
	} else {
		m = drift(p, s, t)
		if p.Pos.Dist(m.Pos) < config.StagnationEpsilon {
			m.Stagnation = p.Stagnation + 1
		}
	}
	if !m.Pos.Finite() || !finite(m.Heading) || !finite(m.HueDelta) {
		return Move{}, ErrNonFinite
	}
	return m, nil
}

func sampleFinite(s telemetry.Sample) bool {
	return finite(s.SteeringAngle) && finite(s.SpeedKmh) && finite(s.RPM) &&
		finite(s.Throttle) && finite(s.Brake)
}

func drift(p *PainterState, s telemetry.Sample, t float64) Move {
	prev := p.Pos
	heading := Heading(s.SteeringAngle)

	step := config.CrawlStep
	if s.SpeedKmh > config.CrawlSpeedKmh {
		step = s.SpeedKmh / config.MaxSpeedKmh * config.DriftScale
	}
	move := Dir(heading).Scale(step + s.Throttle*config.ThrottleDrift)

	spread := Vec{math.Sin(prev.Y * 4 * math.Pi), math.Cos(prev.X * 4 * math.Pi)}.Scale(config.ClusterSpread)

	var jitter Vec
	if s.Brake > config.BrakeJitterFrom {
		jitter = Vec{math.Sin(t * 7.3), math.Cos(t * 5.1)}.Scale(config.BrakeJitter * s.Brake)
	}

	cand := prev.Add(move).Add(spread).Add(jitter)
	m := Move{Heading: heading}

	lo, hi := config.CanvasMargin, 1-config.CanvasMargin
	outX := cand.X < lo || cand.X > hi
	outY := cand.Y < lo || cand.Y > hi
	switch {
	case outX && outY:
		m.Edge = EdgeCorner
		toCenter := canvasCenter.Sub(cand)
		m.Heading = math.Atan2(toCenter.Y, toCenter.X) + config.CornerVariation*math.Sin(t*1.7+float64(p.Key%1000))
		cand = reflectIntoBand(cand)
		cand = cand.Add(Dir(m.Heading).Scale(bounceStep(step, 1)))
	case outX || outY:
		edge, factor := crossedEdge(cand)
		m.Edge = edge
		m.Heading = InwardHeading(edge)
		cand = reflectIntoBand(cand)
		cand = cand.Add(Dir(m.Heading).Scale(bounceStep(step, factor)))
	}
	if m.Bounced() {
		m.HueDelta = bounceHue(s)
	}

	m.Pos = place(p.Zone, cand)
	return m
}

// InwardHeading returns the canvas angle pointing away from a margin into the
// interior. Corner rebounds have no fixed heading and return 0.
func InwardHeading(e Edge) float64 {
	switch e {
	case EdgeRight:
		return math.Pi
	case EdgeTop:
		return math.Pi / 2
	case EdgeBottom:
		return 3 * math.Pi / 2
	default:
		return 0
	}
}

// InwardNormal returns the unit vector pointing from an edge into the canvas.
func InwardNormal(e Edge) Vec {
	switch e {
	case EdgeLeft:
		return Vec{1, 0}
	case EdgeRight:
		return Vec{-1, 0}
	case EdgeTop:
		return Vec{0, 1}
	case EdgeBottom:
		return Vec{0, -1}
	default:
		return Vec{}
	}
}

func crossedEdge(v Vec) (Edge, float64) {
	lo, hi := config.CanvasMargin, 1-config.CanvasMargin
	switch {
	case v.X < lo:
		return EdgeLeft, 1.0
	case v.X > hi:
		return EdgeRight, 1.0
	case v.Y < lo:
		return EdgeTop, 1.25
	default:
		return EdgeBottom, 1.25
	}
}

// reflectIntoBand mirrors any overshoot back across the margin, limited to
// the rebound band.
func reflectIntoBand(v Vec) Vec {
	lo, hi := config.CanvasMargin, 1-config.CanvasMargin
	reflect := func(c float64) float64 {
		switch {
		case c < lo:
			return lo + math.Min(lo-c, config.BounceBand)
		case c > hi:
			return hi - math.Min(c-hi, config.BounceBand)
		}
		return c
	}
	return Vec{reflect(v.X), reflect(v.Y)}
}

func bounceStep(step, edgeFactor float64) float64 {
	return math.Max(step, config.MinBounceStep/config.BounceSpeedFactor) * config.BounceSpeedFactor * edgeFactor
}

// bounceHue maps the sample to a hue shift in [30, 90].
func bounceHue(s telemetry.Sample) float64 {
	energy := math.Min(s.SpeedKmh/config.MaxSpeedKmh, 1)*0.5 +
		s.Throttle*0.3 +
		math.Min(math.Abs(s.SteeringAngle)/180, 1)*0.2
	return 30 + 60*clamp01(energy)
}

// escape moves a stagnating painter by at least MinEscapeDistance. The
// direction mixes time, speed, RPM and identity.
func escape(p *PainterState, s telemetry.Sample, t float64) Move {
	prev := p.Pos
	mix := t*0.618 + s.SpeedKmh*0.013 + s.RPM*0.00071 + float64(p.Key%1000)/1000
	base := (mix - math.Floor(mix)) * 2 * math.Pi

	m := Move{
		Escaped:  true,
		HueDelta: 45 + 45*clamp01(s.RPM/config.MaxRPM),
	}

	center := p.Zone.Center()
	headings := []float64{
		base,
		base + math.Pi/2,
		base + math.Pi,
		base + 3*math.Pi/2,
		math.Atan2(center.Y-prev.Y, center.X-prev.X),
	}
	for _, h := range headings {
		cand := prev.Add(Dir(h).Scale(config.EscapeStep))
		if inCorner(cand) {
			cand = cand.Add(canvasCenter.Sub(cand).Scale(config.CornerPull))
		}
		cand = place(p.Zone, cand)
		if cand.Dist(prev) >= config.MinEscapeDistance {
			m.Pos = cand
			m.Heading = h
			return m
		}
	}

	// Step along x towards the roomier side of the zone; zones are far wider
	// than one escape step so this always stays inside.
	h := 0.0
	if prev.X > center.X {
		h = math.Pi
	}
	m.Pos = place(p.Zone, prev.Add(Dir(h).Scale(config.EscapeStep)))
	m.Heading = h
	return m
}

func inCorner(v Vec) bool {
	nearX := v.X < config.CornerRegion || v.X > 1-config.CornerRegion
	nearY := v.Y < config.CornerRegion || v.Y > 1-config.CornerRegion
	return nearX && nearY
}

// place clamps v to the canvas margins and applies zone attraction.
func place(z Zone, v Vec) Vec {
	lo, hi := config.CanvasMargin, 1-config.CanvasMargin
	v = Vec{clamp(v.X, lo, hi), clamp(v.Y, lo, hi)}
	return z.Settle(v)
}

// apply commits a successful step to the painter.
func (p *PainterState) apply(m Move) {
	p.LastPos = p.Pos
	p.Pos = m.Pos
	p.Heading = m.Heading
	p.Stagnation = m.Stagnation
	p.HueOffset += m.HueDelta
}

// nudge displaces the painter after an overlay, keeping every positional
// invariant.
func (p *PainterState) nudge(d Vec) {
	if d == (Vec{}) || !d.Finite() {
		return
	}
	p.Pos = place(p.Zone, p.Pos.Add(d))
}
