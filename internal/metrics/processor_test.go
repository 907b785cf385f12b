package metrics

import (
	"math"
	"testing"

	"drive-canvas.klederson.com/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steady(n int) []telemetry.Sample {
	h := make([]telemetry.Sample, n)
	for i := range h {
		h[i] = telemetry.Sample{SteeringAngle: 10, SpeedKmh: 60, Throttle: 0.5, Gear: 3, Connected: true}
	}
	return h
}

func TestNeutralUntilEnoughSamples(t *testing.T) {
	p := NewProcessor()
	var m telemetry.Metrics
	for i := 0; i < MinSamples-1; i++ {
		m = p.Update("sim_1", telemetry.Sample{SteeringAngle: float64(i * 40), Throttle: float64(i % 2)})
	}
	assert.Equal(t, 50.0, m.CalmIndex)
	assert.Equal(t, 50.0, m.ControlIndex)
}

func TestHistoryIsBounded(t *testing.T) {
	p := NewProcessor()
	for i := 0; i < HistorySize*2; i++ {
		p.Update("sim_1", telemetry.Sample{SpeedKmh: 50})
	}
	assert.Len(t, p.history["sim_1"], HistorySize)
	_, ok := p.Metrics("sim_1")
	assert.True(t, ok)
	_, ok = p.Metrics("sim_9")
	assert.False(t, ok)
}

func TestCalmIndex(t *testing.T) {
	assert.Equal(t, 100.0, CalmIndex(steady(20)))

	h := steady(20)
	for i := range h {
		if i%2 == 0 {
			h[i].SteeringAngle = -40
		}
	}
	// Alternating full swings with the same magnitude still have zero spread.
	assert.Equal(t, 100.0, CalmIndex(h))

	for i := range h {
		h[i].SteeringAngle = float64((i * i * 7) % 90)
	}
	assert.Less(t, CalmIndex(h), 50.0)
}

func TestControlIndex(t *testing.T) {
	assert.Equal(t, 100.0, ControlIndex(steady(10)))

	h := steady(10)
	for i := range h {
		h[i].Brake = 0.5
	}
	// Every sample overlaps pedals.
	assert.Equal(t, 0.0, ControlIndex(h))

	h = steady(10)
	h[5].Throttle = 1.0
	// Jump in and out of full throttle: two abrupt changes.
	assert.InDelta(t, 80.0, ControlIndex(h), 1e-9)
}

func TestDetectEvent(t *testing.T) {
	tests := []struct {
		name string
		last []telemetry.Sample
		want telemetry.EventType
	}{
		{
			name: "normal",
			last: []telemetry.Sample{{SpeedKmh: 60}, {SpeedKmh: 61}, {SpeedKmh: 62}},
			want: telemetry.EventNormal,
		},
		{
			name: "spin",
			last: []telemetry.Sample{{SpeedKmh: 90}, {SteeringAngle: 20, SpeedKmh: 90}, {SteeringAngle: 150, SpeedKmh: 85}},
			want: telemetry.EventSpin,
		},
		{
			name: "crash",
			last: []telemetry.Sample{{SpeedKmh: 130}, {SpeedKmh: 130}, {SpeedKmh: 40, Brake: 0.95}},
			want: telemetry.EventCrash,
		},
		{
			name: "emergency brake",
			last: []telemetry.Sample{{SpeedKmh: 70}, {SpeedKmh: 68}, {SpeedKmh: 60, Brake: 0.95}},
			want: telemetry.EventEmergencyBrake,
		},
		{
			name: "correction",
			last: []telemetry.Sample{{SteeringAngle: 40, SpeedKmh: 60}, {SteeringAngle: -30, SpeedKmh: 60}, {SteeringAngle: -40, SpeedKmh: 60}},
			want: telemetry.EventCorrection,
		},
		{
			name: "erratic",
			last: []telemetry.Sample{
				{SteeringAngle: 0, SpeedKmh: 50},
				{SteeringAngle: 60, SpeedKmh: 50},
				{SteeringAngle: 10, SpeedKmh: 50},
				{SteeringAngle: 70, SpeedKmh: 50},
				{SteeringAngle: 20, SpeedKmh: 50},
			},
			want: telemetry.EventErratic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectEvent(tt.last)
			assert.Equal(t, tt.want, got.Type)
			assert.GreaterOrEqual(t, got.Intensity, 0.0)
			assert.LessOrEqual(t, got.Intensity, 1.0)
		})
	}
}

func TestDetectEventFields(t *testing.T) {
	spin := DetectEvent([]telemetry.Sample{{SpeedKmh: 90}, {SteeringAngle: -20, SpeedKmh: 90}, {SteeringAngle: -150, SpeedKmh: 85}})
	require.Equal(t, telemetry.EventSpin, spin.Type)
	assert.Equal(t, "left", spin.Direction)
	assert.Equal(t, 85.0, spin.Speed)

	crash := DetectEvent([]telemetry.Sample{{SpeedKmh: 130}, {SpeedKmh: 130}, {SpeedKmh: 40, Brake: 0.95}})
	require.Equal(t, telemetry.EventCrash, crash.Type)
	assert.Equal(t, 130.0, crash.ImpactSpeed)
	assert.InDelta(t, 0.75, crash.Intensity, 1e-9)

	violent := DetectEvent([]telemetry.Sample{{SteeringAngle: 60, SpeedKmh: 60}, {SteeringAngle: -20, SpeedKmh: 60}, {SteeringAngle: -45, SpeedKmh: 60}})
	require.Equal(t, telemetry.EventCorrection, violent.Type)
	assert.Equal(t, "violent", violent.Severity)
}

func TestDetectEventNeedsHistory(t *testing.T) {
	got := DetectEvent([]telemetry.Sample{{SteeringAngle: 170, SpeedKmh: 100}})
	assert.Equal(t, telemetry.EventNormal, got.Type)
	assert.False(t, math.IsNaN(got.Intensity))
}
