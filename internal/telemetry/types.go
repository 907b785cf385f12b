// Package telemetry defines the inbound message schema, decodes it at the
// ingestion boundary and provides the sources that feed frames to the app.
package telemetry

// FrameKind tags what an inbound message carries.
type FrameKind int

const (
	FrameTelemetry FrameKind = iota
	FrameHandshake           // connection_established
)

// EventType is the extreme-event classifier label.
type EventType string

const (
	EventNormal         EventType = "normal"
	EventSpin           EventType = "spin"
	EventCrash          EventType = "crash"
	EventEmergencyBrake EventType = "emergency_brake"
	EventCorrection     EventType = "correction"
	EventErratic        EventType = "erratic"
)

// Sample is one raw telemetry reading for a painter.
type Sample struct {
	SteeringAngle float64 // Degrees, 0 = forward, positive = right
	SpeedKmh      float64
	RPM           float64
	Throttle      float64 // [0, 1]
	Brake         float64 // [0, 1]
	Gear          int     // >= 1
	Connected     bool
}

// ExtremeEvent is the classifier's description of a non-normal manoeuvre.
type ExtremeEvent struct {
	Type        EventType
	Intensity   float64 // [0, 1]
	Direction   string  // "left" or "right" for spins
	Severity    string  // "violent" or "sharp" for corrections
	Speed       float64
	ChaosLevel  float64
	ImpactSpeed float64
	BrakeForce  float64
}

// Active reports whether the event calls for a special overlay.
func (e ExtremeEvent) Active() bool {
	return e.Type != "" && e.Type != EventNormal
}

// Metrics are the behavioural indices for a painter.
type Metrics struct {
	CalmIndex    float64 // [0, 100]
	ControlIndex float64 // [0, 100]
	Event        ExtremeEvent
}

// Simulator is one painter's entry in a frame.
type Simulator struct {
	ID      string
	Sample  Sample
	Metrics Metrics
}

// Frame is a validated inbound message.
type Frame struct {
	Kind       FrameKind
	Message    string
	DemoMode   bool
	Simulators []Simulator // Sorted by ID
}

// FrameMsg delivers a frame into the Bubble Tea program.
type FrameMsg struct {
	Frame Frame
}

// SourceErrorMsg reports a transport problem to the program.
type SourceErrorMsg struct {
	Err error
}
