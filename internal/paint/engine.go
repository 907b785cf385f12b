// Package paint is the painting state machine: it turns telemetry frames into
// draw commands on a shared surface.
package paint

import (
	"math"
	"sync"
	"time"

	"drive-canvas.klederson.com/internal/canvas"
	"drive-canvas.klederson.com/internal/config"
	"drive-canvas.klederson.com/internal/monitoring"
	"drive-canvas.klederson.com/internal/telemetry"
)

// Options are the runtime knobs of an Engine.
type Options struct {
	Width         int
	Height        int
	Mode          config.RenderMode
	PaintInterval time.Duration // Minimum time between marks of one painter
	FadeRate      float64       // Overlay alpha added per Fade call
	Seed          int64         // Generation seed for personas and variation
}

// OptionsFrom extracts engine options from the runtime config.
func OptionsFrom(cfg config.Config) Options {
	return Options{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Mode:          cfg.Mode,
		PaintInterval: cfg.PaintInterval,
		FadeRate:      cfg.FadeRate,
		Seed:          cfg.GenerationSeed,
	}
}

// Stats summarises the engine for the status bar.
type Stats struct {
	Painting bool
	Mode     config.RenderMode
	Painters int
	Strokes  int
	Events   int
	Skipped  int
	Fades    int
}

// Engine owns all painter state and is the only writer to the surface. Update
// and Fade hold the same lock, so the draw calls of one painter tick never
// interleave with another writer.
type Engine struct {
	mu       sync.Mutex
	opts     Options
	clock    Clock
	surface  canvas.Renderer
	store    *Store
	personas PersonaManager
	strategy Strategy
	painting bool
	fadeDebt float64
	stats    Stats
}

// NewEngine creates an engine drawing on surface. Painting starts enabled.
func NewEngine(opts Options, clock Clock, surface canvas.Renderer) *Engine {
	if opts.Mode == "" {
		opts.Mode = config.ModeMarks
	}
	return &Engine{
		opts:     opts,
		clock:    clock,
		surface:  surface,
		store:    NewStore(),
		personas: NewPersonaManager(opts.Seed),
		strategy: StrategyFor(opts.Mode),
		painting: true,
	}
}

// Update feeds one frame into the engine.
func (e *Engine) Update(f telemetry.Frame) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if f.Kind == telemetry.FrameHandshake {
		monitoring.Logf("source connected: %s", f.Message)
		return
	}

	now := e.clock.Now()
	for _, sim := range f.Simulators {
		p, err := e.painter(sim.ID, now)
		if err != nil {
			e.stats.Skipped++
			monitoring.Logf("skipping painter %q: %v", sim.ID, err)
			continue
		}
		switch {
		case !sim.Sample.Connected:
			p.Status = StatusDisconnected
			continue
		case !e.painting:
			p.Status = StatusPreparing
			continue
		}
		p.Status = StatusPainting
		if now.Before(p.NextPaint) {
			continue
		}
		if err := e.tick(p, sim, now); err != nil {
			e.stats.Skipped++
			monitoring.Logf("skipping tick for %s: %v", p.ID, err)
		}
	}
}

// painter returns the state for id, creating it on first sight.
func (e *Engine) painter(id string, now time.Time) (*PainterState, error) {
	if p, ok := e.store.Get(id); ok {
		return p, nil
	}
	slot, err := telemetry.ParseIdentity(id)
	if err != nil {
		return nil, err
	}
	p := newPainterState(id, slot, e.opts.Seed)
	e.personas.Assign(p, now)
	e.store.Put(p)
	monitoring.Logf("painter %s joined in zone %d (%s)", id, slot, PaletteName(slot))
	return p, nil
}

// tick runs one painter through the pipeline. Nothing is committed unless
// position and colour are both finite.
func (e *Engine) tick(p *PainterState, sim telemetry.Simulator, now time.Time) error {
	s := sim.Sample
	m := sim.Metrics

	move, err := Step(p, s, now)
	if err != nil {
		return err
	}
	variant := VariantMark
	if e.opts.Mode == config.ModeLines {
		variant = VariantLine
	}
	col, err := DeriveColor(p.Slot, s, m.ControlIndex, p.HueOffset+move.HueDelta, variant)
	if err != nil {
		return err
	}

	point := PathPoint{
		Pos:      move.Pos,
		Throttle: s.Throttle,
		Brake:    s.Brake,
		Speed:    s.SpeedKmh,
		Steering: s.SteeringAngle,
		Calm:     m.CalmIndex,
		Control:  m.ControlIndex,
		Hue:      col.Hue,
		At:       now,
	}
	state := ClassifyNext(p.Path, point)

	b := Brush{
		At:      e.pixel(move.Pos),
		Prev:    e.pixel(p.Pos),
		HasPrev: p.Path.Len() > 0,
		Heading: move.Heading,
		Color:   col,
		Size:    BrushSize(s, p.Persona),
		Sample:  s,
		Calm:    m.CalmIndex,
		Control: m.ControlIndex,
		State:   state,
		Persona: p.Persona,
		Time:    seconds(now),
		Rand:    p.rng,
	}

	var nudge Vec
	if fx, ok := EffectFor(m.Event.Type); ok && m.Event.Active() {
		res := fx.Render(e.surface, b, m.Event)
		nudge = res.Nudge
		p.Events++
		p.LastEvent = m.Event.Type
		e.stats.Events++
	} else {
		p.LastMark = e.strategy.Paint(e.surface, b)
		p.Strokes++
		e.stats.Strokes++
	}

	p.apply(move)
	p.nudge(nudge)
	p.State = state
	point.Pos = p.Pos
	p.Path.Push(point)
	e.personas.Check(p, now)
	p.NextPaint = now.Add(e.interval(p, s))
	return nil
}

func (e *Engine) pixel(v Vec) canvas.Point {
	return canvas.Point{X: v.X * float64(e.opts.Width), Y: v.Y * float64(e.opts.Height)}
}

// interval is the painter's next inter-paint gap: shorter at high RPM and
// speed, with up to PaintJitter of seeded jitter either way.
func (e *Engine) interval(p *PainterState, s telemetry.Sample) time.Duration {
	skew := 1 - 0.15*clamp01(s.RPM/config.MaxRPM) - 0.10*clamp01(s.SpeedKmh/config.MaxSpeedKmh)
	jitter := (p.rng.Float64()*2 - 1) * float64(config.PaintJitter)
	d := time.Duration(float64(e.opts.PaintInterval)*skew + jitter)
	return max(d, 0)
}

// Fade lays the faint paper-coloured overlay that makes old marks recede.
// Sub-quantum amounts are accumulated until an 8-bit surface can show them.
func (e *Engine) Fade() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.opts.FadeRate <= 0 || math.IsNaN(e.opts.FadeRate) {
		return
	}
	e.fadeDebt += e.opts.FadeRate
	if e.fadeDebt < 1.0/255 {
		return
	}
	e.surface.FillRect(canvas.Rect{
		Max: canvas.Point{X: float64(e.opts.Width), Y: float64(e.opts.Height)},
	}, canvas.Style{Color: canvas.Paper, Alpha: math.Min(1, e.fadeDebt)})
	e.fadeDebt = 0
	e.stats.Fades++
}

// TogglePainting flips painting on or off and returns the new state.
func (e *Engine) TogglePainting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.painting = !e.painting
	return e.painting
}

// SetPainting starts or stops painting.
func (e *Engine) SetPainting(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.painting = on
}

// Painting reports whether painters currently leave marks.
func (e *Engine) Painting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.painting
}

// ToggleMode switches between discrete marks and continuous lines.
func (e *Engine) ToggleMode() config.RenderMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.opts.Mode == config.ModeLines {
		e.setMode(config.ModeMarks)
	} else {
		e.setMode(config.ModeLines)
	}
	return e.opts.Mode
}

// SetMode selects the mark strategy used from the next tick on.
func (e *Engine) SetMode(mode config.RenderMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setMode(mode)
}

func (e *Engine) setMode(mode config.RenderMode) {
	e.opts.Mode = mode
	e.strategy = StrategyFor(mode)
}

// Painters returns display copies of every painter ordered by id.
func (e *Engine) Painters() []PainterView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Snapshot()
}

// Stats returns the current counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.stats
	st.Painting = e.painting
	st.Mode = e.opts.Mode
	st.Painters = e.store.Count()
	return st
}
