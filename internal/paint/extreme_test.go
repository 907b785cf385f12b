package paint

import (
	"testing"
	"time"

	"drive-canvas.klederson.com/internal/canvas"
	"drive-canvas.klederson.com/internal/telemetry"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectCounts(t *testing.T) {
	assert.Equal(t, 23, CrashFragments(1.0))
	assert.Equal(t, 8, CrashFragments(0))
	assert.Equal(t, 11, SpinSplatters(1.0))
	assert.Equal(t, 3, SpinSplatters(0))
	assert.Equal(t, 6, SkidLines(1.0))
	assert.Equal(t, 15, SkidParticles(1.0))
	assert.Equal(t, 13, ErraticSegments(1.0))
	assert.Equal(t, 8, TensionDots(1.0))
}

func TestEffects(t *testing.T) {
	b := testBrush(telemetry.Sample{SpeedKmh: 120, Gear: 4}, 50, 50)

	tests := []struct {
		name    string
		ev      telemetry.ExtremeEvent
		strokes int
		fills   int
	}{
		{
			name:    "spin",
			ev:      telemetry.ExtremeEvent{Type: telemetry.EventSpin, Intensity: 1, Direction: "left", Speed: 90},
			strokes: 1,
			fills:   11,
		},
		{
			name:    "crash",
			ev:      telemetry.ExtremeEvent{Type: telemetry.EventCrash, Intensity: 1, ImpactSpeed: 140},
			strokes: 1 + 23 + shockRings,
		},
		{
			name:    "emergency brake",
			ev:      telemetry.ExtremeEvent{Type: telemetry.EventEmergencyBrake, Intensity: 0.5, Speed: 70},
			strokes: 4,
			fills:   10,
		},
		{
			name:    "sharp correction",
			ev:      telemetry.ExtremeEvent{Type: telemetry.EventCorrection, Intensity: 0.6, Severity: "sharp"},
			strokes: 1,
		},
		{
			name:    "violent correction",
			ev:      telemetry.ExtremeEvent{Type: telemetry.EventCorrection, Intensity: 0.9, Severity: "violent"},
			strokes: 3,
		},
		{
			name:    "erratic",
			ev:      telemetry.ExtremeEvent{Type: telemetry.EventErratic, Intensity: 0.5, ChaosLevel: 30},
			strokes: 9,
			fills:   5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx, ok := EffectFor(tt.ev.Type)
			require.True(t, ok)

			var rec canvas.Recorder
			res := fx.Render(&rec, b, tt.ev)
			assert.Equal(t, tt.strokes, rec.Count(canvas.CmdStroke))
			assert.Equal(t, tt.fills, rec.Count(canvas.CmdFillCircle))
			assert.Equal(t, len(rec.Commands), res.Marks)
		})
	}
}

func TestCrashShockRingsMultiply(t *testing.T) {
	var rec canvas.Recorder
	fx, _ := EffectFor(telemetry.EventCrash)
	fx.Render(&rec, testBrush(telemetry.Sample{Gear: 1}, 50, 50), telemetry.ExtremeEvent{Type: telemetry.EventCrash, Intensity: 1})

	rings := rec.Commands[len(rec.Commands)-shockRings:]
	want := []float64{0.3, 0.2, 0.1}
	for i, c := range rings {
		assert.Equal(t, canvas.BlendMultiply, c.Style.Blend)
		assert.InDelta(t, want[i], c.Style.Alpha, 1e-9)
	}
	assert.Equal(t, canvas.BlendOver, rec.Commands[0].Style.Blend)
}

func TestSpinDirectionAndNudge(t *testing.T) {
	b := testBrush(telemetry.Sample{Gear: 1}, 50, 50)
	fx, _ := EffectFor(telemetry.EventSpin)

	var left, right canvas.Recorder
	resL := fx.Render(&left, b, telemetry.ExtremeEvent{Type: telemetry.EventSpin, Intensity: 0.5, Direction: "left"})
	fx.Render(&right, b, telemetry.ExtremeEvent{Type: telemetry.EventSpin, Intensity: 0.5, Direction: "right"})
	assert.NotEmpty(t, cmp.Diff(left.Commands[0].Path, right.Commands[0].Path))

	assert.InDelta(t, 0.01, resL.Nudge.Len(), 1e-9)
}

func TestCorrectionZigzag(t *testing.T) {
	var rec canvas.Recorder
	fx, _ := EffectFor(telemetry.EventCorrection)
	fx.Render(&rec, testBrush(telemetry.Sample{Gear: 1}, 50, 50), telemetry.ExtremeEvent{Type: telemetry.EventCorrection, Intensity: 1, Severity: "violent"})

	require.Len(t, rec.Commands, 3)
	for _, c := range rec.Commands {
		pts := c.Path.Flatten()
		require.Len(t, pts, 1)
		assert.Len(t, pts[0], zigzagSegments+1)
	}
}

func TestEffectsAreDeterministic(t *testing.T) {
	ev := telemetry.ExtremeEvent{Type: telemetry.EventErratic, Intensity: 0.8, ChaosLevel: 42}
	fx, _ := EffectFor(ev.Type)

	var a, b canvas.Recorder
	fx.Render(&a, testBrush(telemetry.Sample{Gear: 2}, 30, 30), ev)
	fx.Render(&b, testBrush(telemetry.Sample{Gear: 2}, 30, 30), ev)
	if diff := cmp.Diff(a.Commands, b.Commands); diff != "" {
		t.Errorf("erratic overlay differs between runs (-first +second):\n%s", diff)
	}
}

func TestUnknownEffect(t *testing.T) {
	_, ok := EffectFor("wheelie")
	assert.False(t, ok)
	_, ok = EffectFor(telemetry.EventNormal)
	assert.False(t, ok)
}

func TestPersonaIsReproducible(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := GeneratePersona(1234, "sim_3", 2, 1, created)
	b := GeneratePersona(1234, "sim_3", 2, 1, created.Add(time.Hour))
	b.Created = a.Created
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("persona differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, "Passion Rose 1", a.Name)
	assert.GreaterOrEqual(t, a.HueShift, -30.0)
	assert.Less(t, a.HueShift, 30.0)

	c := GeneratePersona(1234, "sim_3", 2, 2, created)
	assert.NotEqual(t, a.ID, c.ID)
	d := GeneratePersona(99, "sim_3", 2, 1, created)
	assert.NotEqual(t, a.ID, d.ID)
}

func TestPersonaSequenceReplays(t *testing.T) {
	run := func() []Persona {
		m := NewPersonaManager(77)
		p := newPainterState("sim_4", 3, 77)
		now := epoch
		m.Assign(p, now)
		seq := []Persona{p.Persona}
		for i := 0; i < 5; i++ {
			now = now.Add(m.Session + time.Second)
			require.True(t, m.Check(p, now))
			seq = append(seq, p.Persona)
		}
		return seq
	}
	first, second := run(), run()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("persona sequence differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, 6, first[len(first)-1].Session)
}

func TestPersonaLifecycle(t *testing.T) {
	m := NewPersonaManager(1)
	p := newPainterState("sim_1", 0, 1)
	m.Assign(p, epoch)
	assert.Equal(t, 1, p.PersonaCount)

	assert.Equal(t, PersonaActive, m.State(p, epoch.Add(5*time.Minute)))
	assert.False(t, m.Check(p, epoch.Add(5*time.Minute+30*time.Second)))
	assert.Equal(t, PersonaExpired, m.State(p, epoch.Add(5*time.Minute+31*time.Second)))

	assert.True(t, m.Check(p, epoch.Add(6*time.Minute)))
	assert.Equal(t, 2, p.PersonaCount)
	assert.Equal(t, epoch.Add(6*time.Minute), p.SessionStart)
	assert.Equal(t, PersonaActive, m.State(p, epoch.Add(6*time.Minute)))
}
