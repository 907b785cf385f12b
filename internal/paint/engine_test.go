package paint

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"drive-canvas.klederson.com/internal/canvas"
	"drive-canvas.klederson.com/internal/config"
	"drive-canvas.klederson.com/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T, mode config.RenderMode) (*Engine, *canvas.Recorder, *ManualClock) {
	t.Helper()
	rec := &canvas.Recorder{}
	clock := NewManualClock(epoch)
	e := NewEngine(Options{
		Width:         1000,
		Height:        800,
		Mode:          mode,
		PaintInterval: time.Second,
		FadeRate:      0.0002,
		Seed:          42,
	}, clock, rec)
	return e, rec, clock
}

func sim(id string, s telemetry.Sample, m telemetry.Metrics) telemetry.Simulator {
	if m.CalmIndex == 0 && m.ControlIndex == 0 {
		m.CalmIndex, m.ControlIndex = 50, 50
	}
	return telemetry.Simulator{ID: id, Sample: s, Metrics: m}
}

func frame(sims ...telemetry.Simulator) telemetry.Frame {
	return telemetry.Frame{Kind: telemetry.FrameTelemetry, Simulators: sims}
}

var cruise = telemetry.Sample{SpeedKmh: 60, RPM: 3000, Throttle: 0.4, Gear: 3, Connected: true}

func TestEngineCreatesPainterInZone(t *testing.T) {
	e, rec, _ := testEngine(t, config.ModeMarks)
	e.Update(frame(sim("sim_3", cruise, telemetry.Metrics{})))

	painters := e.Painters()
	require.Len(t, painters, 1)
	p := painters[0]
	assert.Equal(t, 2, p.Slot)
	assert.Equal(t, StatusPainting, p.Status)
	assert.Equal(t, StateStarting, p.State)
	assert.Equal(t, 1, p.Strokes)
	assert.Equal(t, "Passion Rose 1", p.Persona.Name)
	assert.True(t, ZoneFor(2).Contains(p.Pos))
	assert.NotEmpty(t, rec.Commands)
}

func TestEngineRateLimitsPainters(t *testing.T) {
	e, rec, clock := testEngine(t, config.ModeMarks)
	f := frame(sim("sim_1", cruise, telemetry.Metrics{}))

	e.Update(f)
	n := len(rec.Commands)
	e.Update(f)
	assert.Len(t, rec.Commands, n, "second frame inside the interval must not paint")

	clock.Advance(2 * time.Second)
	e.Update(f)
	assert.Greater(t, len(rec.Commands), n)
	assert.Equal(t, 2, e.Stats().Strokes)
}

func TestEnginePausedAndDisconnected(t *testing.T) {
	e, rec, _ := testEngine(t, config.ModeMarks)
	assert.False(t, e.TogglePainting())

	off := cruise
	off.Connected = false
	e.Update(frame(sim("sim_1", cruise, telemetry.Metrics{}), sim("sim_2", off, telemetry.Metrics{})))
	assert.Empty(t, rec.Commands)

	painters := e.Painters()
	require.Len(t, painters, 2)
	assert.Equal(t, StatusPreparing, painters[0].Status)
	assert.Equal(t, StatusDisconnected, painters[1].Status)

	e.SetPainting(true)
	assert.True(t, e.Painting())
}

func TestEngineSkipsBadPainterOnly(t *testing.T) {
	e, rec, _ := testEngine(t, config.ModeMarks)
	broken := cruise
	broken.SteeringAngle = math.NaN()

	e.Update(frame(
		sim("pit_crew", cruise, telemetry.Metrics{}),
		sim("sim_1", broken, telemetry.Metrics{}),
		sim("sim_2", cruise, telemetry.Metrics{}),
	))

	painters := e.Painters()
	require.Len(t, painters, 2)
	assert.Equal(t, "sim_1", painters[0].ID)
	assert.Equal(t, ZoneFor(0).Center(), painters[0].Pos)
	assert.Zero(t, painters[0].Strokes)
	assert.Equal(t, 1, painters[1].Strokes)
	assert.NotEmpty(t, rec.Commands)
	assert.Equal(t, 2, e.Stats().Skipped)
}

func TestEngineExtremeEventReplacesStroke(t *testing.T) {
	e, rec, _ := testEngine(t, config.ModeMarks)
	crash := telemetry.Metrics{
		CalmIndex:    20,
		ControlIndex: 20,
		Event:        telemetry.ExtremeEvent{Type: telemetry.EventCrash, Intensity: 1, ImpactSpeed: 130},
	}
	e.Update(frame(sim("sim_1", cruise, crash)))

	assert.Equal(t, 1+CrashFragments(1)+shockRings, rec.Count(canvas.CmdStroke))
	st := e.Stats()
	assert.Equal(t, 1, st.Events)
	assert.Zero(t, st.Strokes)
	assert.Equal(t, telemetry.EventCrash, e.Painters()[0].LastEvent)
}

func TestEngineRecordsNudgedPosition(t *testing.T) {
	e, _, _ := testEngine(t, config.ModeLines)
	spin := telemetry.Metrics{
		CalmIndex:    30,
		ControlIndex: 30,
		Event:        telemetry.ExtremeEvent{Type: telemetry.EventSpin, Intensity: 1, Direction: "right", Speed: 90},
	}
	e.Update(frame(sim("sim_2", cruise, spin)))

	p, ok := e.store.Get("sim_2")
	require.True(t, ok)
	last, ok := p.Path.Last()
	require.True(t, ok)
	assert.Equal(t, p.Pos, last.Pos)
	assert.Equal(t, 1, p.Events)
}

func TestEngineUnknownEventFallsBack(t *testing.T) {
	e, _, _ := testEngine(t, config.ModeMarks)
	odd := telemetry.Metrics{CalmIndex: 50, ControlIndex: 50, Event: telemetry.ExtremeEvent{Type: "wheelie", Intensity: 1}}
	e.Update(frame(sim("sim_1", cruise, odd)))

	st := e.Stats()
	assert.Equal(t, 1, st.Strokes)
	assert.Zero(t, st.Events)
}

func TestEngineFadeAccumulates(t *testing.T) {
	e, rec, _ := testEngine(t, config.ModeMarks)
	for i := 0; i < 19; i++ {
		e.Fade()
	}
	assert.Empty(t, rec.Commands)

	e.Fade()
	require.Len(t, rec.Commands, 1)
	cmd := rec.Commands[0]
	assert.Equal(t, canvas.CmdFillRect, cmd.Kind)
	assert.Equal(t, canvas.Paper, cmd.Style.Color)
	assert.GreaterOrEqual(t, cmd.Style.Alpha, 1.0/255)
	assert.Equal(t, canvas.Point{X: 1000, Y: 800}, cmd.Rect.Max)
	assert.Equal(t, 1, e.Stats().Fades)
}

func TestEngineModeToggle(t *testing.T) {
	e, rec, clock := testEngine(t, config.ModeMarks)
	assert.Equal(t, config.ModeLines, e.ToggleMode())

	f := frame(sim("sim_5", cruise, telemetry.Metrics{}))
	e.Update(f)
	// First point in line mode is a dot.
	assert.Equal(t, 1, rec.Count(canvas.CmdFillCircle))

	clock.Advance(2 * time.Second)
	e.Update(f)
	assert.Equal(t, 1, rec.Count(canvas.CmdStroke))

	e.SetMode(config.ModeMarks)
	assert.Equal(t, config.ModeMarks, e.Stats().Mode)
}

func TestEngineHandshakeIsIgnored(t *testing.T) {
	e, rec, _ := testEngine(t, config.ModeMarks)
	e.Update(telemetry.Frame{Kind: telemetry.FrameHandshake, Message: "hello"})
	assert.Empty(t, rec.Commands)
	assert.Zero(t, e.Stats().Painters)
}

func TestEngineKeepsPaintersInBounds(t *testing.T) {
	e, _, clock := testEngine(t, config.ModeMarks)
	rng := rand.New(rand.NewPCG(21, 12))
	events := []telemetry.EventType{
		telemetry.EventNormal, telemetry.EventSpin, telemetry.EventCrash,
		telemetry.EventEmergencyBrake, telemetry.EventCorrection, telemetry.EventErratic,
	}

	for tick := 0; tick < 400; tick++ {
		var sims []telemetry.Simulator
		for i := 1; i <= 7; i++ {
			m := telemetry.Metrics{
				CalmIndex:    rng.Float64() * 100,
				ControlIndex: rng.Float64() * 100,
			}
			if rng.IntN(10) == 0 {
				m.Event = telemetry.ExtremeEvent{Type: events[rng.IntN(len(events))], Intensity: rng.Float64()}
			}
			sims = append(sims, sim(fmt.Sprintf("sim_%d", i), randomSample(rng), m))
		}
		e.Update(frame(sims...))
		e.Fade()
		clock.Advance(1100 * time.Millisecond)

		for _, p := range e.Painters() {
			require.Truef(t, inCanvas(p.Pos), "%s left the canvas at tick %d: %v", p.ID, tick, p.Pos)
			require.GreaterOrEqual(t, p.Hue, 0.0)
			require.Less(t, p.Hue, 360.0)
		}
	}
	assert.Equal(t, 7, e.Stats().Painters)
}

func TestInterval(t *testing.T) {
	e, _, _ := testEngine(t, config.ModeMarks)
	p := newPainterState("sim_1", 0, 1)
	for i := 0; i < 100; i++ {
		idle := e.interval(p, telemetry.Sample{})
		assert.InDelta(t, float64(time.Second), float64(idle), float64(config.PaintJitter))
		fast := e.interval(p, telemetry.Sample{RPM: 8000, SpeedKmh: 200})
		assert.InDelta(t, float64(750*time.Millisecond), float64(fast), float64(config.PaintJitter))
	}
}
