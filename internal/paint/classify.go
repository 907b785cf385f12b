package paint

import "math"

// DrivingState labels a telemetry transition.
type DrivingState string

const (
	StateStarting     DrivingState = "starting"
	StateStationary   DrivingState = "stationary"
	StateCruising     DrivingState = "cruising"
	StateTurning      DrivingState = "turning"
	StateSpeedChange  DrivingState = "speed_change"
	StateAccelerating DrivingState = "accelerating"
	StateBraking      DrivingState = "braking"
)

const (
	brakingThreshold      = 0.5
	acceleratingThreshold = 0.7
	speedChangeKmh        = 20.0
	turningDegrees        = 15.0
	movingKmh             = 1.0
)

// Classify labels the transition from prev to cur. The first matching rule
// wins.
func Classify(prev, cur PathPoint) DrivingState {
	switch {
	case cur.Brake > brakingThreshold:
		return StateBraking
	case cur.Throttle > acceleratingThreshold:
		return StateAccelerating
	case math.Abs(cur.Speed-prev.Speed) > speedChangeKmh:
		return StateSpeedChange
	case math.Abs(cur.Steering-prev.Steering) > turningDegrees:
		return StateTurning
	case cur.Speed > movingKmh:
		return StateCruising
	default:
		return StateStationary
	}
}

// ClassifyNext labels cur against the newest point in mem, or as starting
// when mem is empty.
func ClassifyNext(mem *PathMemory, cur PathPoint) DrivingState {
	prev, ok := mem.Last()
	if !ok {
		return StateStarting
	}
	return Classify(prev, cur)
}
