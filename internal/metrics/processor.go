// Package metrics derives the behavioural indices and extreme-event labels
// that accompany raw telemetry. Live deployments receive these from upstream;
// demo mode computes them here.
package metrics

import (
	"math"

	"drive-canvas.klederson.com/internal/telemetry"
	"gonum.org/v1/gonum/stat"
)

const (
	HistorySize = 50
	MinSamples  = 10 // Indices stay neutral until this many samples exist

	neutral          = 50.0
	maxSteeringStd   = 15.0
	jerkyPedalStep   = 0.3
	overlapThreshold = 0.1
)

// Processor keeps a bounded history per painter and derives metrics from it.
// It is not safe for concurrent use.
type Processor struct {
	history map[string][]telemetry.Sample
	current map[string]telemetry.Metrics
}

// NewProcessor creates an empty processor.
func NewProcessor() *Processor {
	return &Processor{
		history: make(map[string][]telemetry.Sample),
		current: make(map[string]telemetry.Metrics),
	}
}

// Update appends a sample and recomputes the painter's metrics.
func (p *Processor) Update(id string, s telemetry.Sample) telemetry.Metrics {
	h := append(p.history[id], s)
	if len(h) > HistorySize {
		h = h[len(h)-HistorySize:]
	}
	p.history[id] = h

	m := telemetry.Metrics{
		CalmIndex:    neutral,
		ControlIndex: neutral,
		Event:        telemetry.ExtremeEvent{Type: telemetry.EventNormal},
	}
	if len(h) >= MinSamples {
		m.CalmIndex = CalmIndex(h)
		m.ControlIndex = ControlIndex(h)
	}
	m.Event = DetectEvent(h)
	p.current[id] = m
	return m
}

// Metrics returns the latest metrics for a painter.
func (p *Processor) Metrics(id string) (telemetry.Metrics, bool) {
	m, ok := p.current[id]
	return m, ok
}

// CalmIndex scores steering smoothness: 100 minus the standard deviation of
// the absolute steering change, scaled so 15 degrees of spread scores zero.
func CalmIndex(h []telemetry.Sample) float64 {
	if len(h) < 3 {
		return neutral
	}
	deltas := make([]float64, len(h)-1)
	for i := 1; i < len(h); i++ {
		deltas[i-1] = math.Abs(h[i].SteeringAngle - h[i-1].SteeringAngle)
	}
	std := stat.StdDev(deltas, nil)
	return clampIndex(100 - std/maxSteeringStd*100)
}

// ControlIndex penalises overlapping pedals and abrupt pedal changes.
func ControlIndex(h []telemetry.Sample) float64 {
	if len(h) == 0 {
		return neutral
	}
	jerky := 0
	for i, s := range h {
		if s.Throttle > overlapThreshold && s.Brake > overlapThreshold {
			jerky++
		}
		if i > 0 {
			prev := h[i-1]
			if math.Abs(s.Throttle-prev.Throttle) > jerkyPedalStep || math.Abs(s.Brake-prev.Brake) > jerkyPedalStep {
				jerky++
			}
		}
	}
	return clampIndex(100 - float64(jerky)/float64(len(h))*100)
}

func clampIndex(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
