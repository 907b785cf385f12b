package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrMalformed is returned for messages that cannot enter the core.
var ErrMalformed = errors.New("malformed telemetry message")

const neutralIndex = 50.0

type wireMessage struct {
	Type       string                   `json:"type"`
	Message    string                   `json:"message"`
	DemoMode   bool                     `json:"demo_mode"`
	Simulators map[string]wireSimulator `json:"simulators"`
	Summary    json.RawMessage          `json:"summary"`
}

type wireSimulator struct {
	RawData *wireRaw     `json:"raw_data"`
	Metrics *wireMetrics `json:"metrics"`
}

type wireRaw struct {
	SteeringAngle *float64 `json:"SteeringAngle"`
	SpeedKmh      *float64 `json:"SpeedKmh"`
	Rpms          *float64 `json:"Rpms"`
	Throttle      *float64 `json:"Throttle"`
	Brake         *float64 `json:"Brake"`
	Gear          *float64 `json:"Gear"`
	Connected     *bool    `json:"connected"`
}

type wireMetrics struct {
	CalmIndex     *float64 `json:"calm_index"`
	ControlIndex  *float64 `json:"control_index"`
	ArtParameters *struct {
		ExtremeEvents *wireEvent `json:"extreme_events"`
	} `json:"art_parameters"`
}

type wireEvent struct {
	Type        string   `json:"type"`
	Intensity   *float64 `json:"intensity"`
	Direction   string   `json:"direction"`
	Severity    string   `json:"severity"`
	Speed       *float64 `json:"speed"`
	ChaosLevel  *float64 `json:"chaos_level"`
	ImpactSpeed *float64 `json:"impact_speed"`
	BrakeForce  *float64 `json:"brake_force"`
}

// Decode parses and validates one inbound message. Missing telemetry fields
// default to zero (gear to 1, indices to a neutral 50) and out-of-range inputs
// are clamped, so every Frame it returns is safe to paint from.
func Decode(data []byte) (Frame, error) {
	var msg wireMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if msg.Type == "connection_established" {
		return Frame{Kind: FrameHandshake, Message: msg.Message, DemoMode: msg.DemoMode}, nil
	}
	if msg.Simulators == nil {
		return Frame{}, fmt.Errorf("%w: no simulators", ErrMalformed)
	}

	frame := Frame{Kind: FrameTelemetry, Simulators: make([]Simulator, 0, len(msg.Simulators))}
	for id, ws := range msg.Simulators {
		// Without raw data the painter is reported at rest; the rest of the
		// frame still paints.
		if ws.RawData == nil {
			ws.RawData = &wireRaw{}
		}
		frame.Simulators = append(frame.Simulators, Simulator{
			ID:      id,
			Sample:  decodeSample(ws.RawData),
			Metrics: decodeMetrics(ws.Metrics),
		})
	}
	sort.Slice(frame.Simulators, func(i, j int) bool {
		return frame.Simulators[i].ID < frame.Simulators[j].ID
	})
	return frame, nil
}

func decodeSample(r *wireRaw) Sample {
	s := Sample{
		SteeringAngle: orDefault(r.SteeringAngle, 0),
		SpeedKmh:      math.Max(0, orDefault(r.SpeedKmh, 0)),
		RPM:           math.Max(0, orDefault(r.Rpms, 0)),
		Throttle:      clamp(orDefault(r.Throttle, 0), 0, 1),
		Brake:         clamp(orDefault(r.Brake, 0), 0, 1),
		Gear:          int(orDefault(r.Gear, 1)),
	}
	if s.Gear < 1 {
		s.Gear = 1
	}
	if r.Connected != nil {
		s.Connected = *r.Connected
	}
	return s
}

func decodeMetrics(m *wireMetrics) Metrics {
	out := Metrics{
		CalmIndex:    neutralIndex,
		ControlIndex: neutralIndex,
		Event:        ExtremeEvent{Type: EventNormal},
	}
	if m == nil {
		return out
	}
	out.CalmIndex = clamp(orDefault(m.CalmIndex, neutralIndex), 0, 100)
	out.ControlIndex = clamp(orDefault(m.ControlIndex, neutralIndex), 0, 100)

	if m.ArtParameters == nil || m.ArtParameters.ExtremeEvents == nil {
		return out
	}
	e := m.ArtParameters.ExtremeEvents
	out.Event = ExtremeEvent{
		Type:        EventType(e.Type),
		Intensity:   clamp(orDefault(e.Intensity, 0), 0, 1),
		Direction:   e.Direction,
		Severity:    e.Severity,
		Speed:       orDefault(e.Speed, 0),
		ChaosLevel:  orDefault(e.ChaosLevel, 0),
		ImpactSpeed: orDefault(e.ImpactSpeed, 0),
		BrakeForce:  orDefault(e.BrakeForce, 0),
	}
	if out.Event.Type == "" {
		out.Event.Type = EventNormal
	}
	return out
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
