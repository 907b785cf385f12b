package metrics

import (
	"math"

	"drive-canvas.klederson.com/internal/telemetry"
	"gonum.org/v1/gonum/stat"
)

// DetectEvent labels the latest transition in h. Checks run in priority order
// spin, crash, emergency brake, correction, erratic; the first match wins.
func DetectEvent(h []telemetry.Sample) telemetry.ExtremeEvent {
	normal := telemetry.ExtremeEvent{Type: telemetry.EventNormal}
	if len(h) < 3 {
		return normal
	}
	cur := h[len(h)-1]
	prev := h[len(h)-2]

	steerChange := math.Abs(cur.SteeringAngle - prev.SteeringAngle)
	if math.Abs(cur.SteeringAngle) > 90 && cur.SpeedKmh > 50 && steerChange > 30 {
		dir := "right"
		if cur.SteeringAngle < 0 {
			dir = "left"
		}
		return telemetry.ExtremeEvent{
			Type:      telemetry.EventSpin,
			Intensity: math.Min(1, math.Abs(cur.SteeringAngle)/180+steerChange/90),
			Direction: dir,
			Speed:     cur.SpeedKmh,
		}
	}

	drop := prev.SpeedKmh - cur.SpeedKmh
	if prev.SpeedKmh > 80 && drop > 60 && cur.Brake > 0.8 {
		return telemetry.ExtremeEvent{
			Type:        telemetry.EventCrash,
			Intensity:   math.Min(1, drop/120),
			ImpactSpeed: prev.SpeedKmh,
			BrakeForce:  cur.Brake,
		}
	}

	if cur.Brake > 0.9 && cur.SpeedKmh > 40 {
		return telemetry.ExtremeEvent{
			Type:      telemetry.EventEmergencyBrake,
			Intensity: math.Min(1, cur.Brake*cur.SpeedKmh/100),
			Speed:     cur.SpeedKmh,
		}
	}

	back := h[len(h)-3]
	flipped := prev.SteeringAngle*cur.SteeringAngle < 0 || back.SteeringAngle*prev.SteeringAngle < 0
	total := math.Abs(cur.SteeringAngle - back.SteeringAngle)
	if flipped && total > 60 && cur.SpeedKmh > 30 {
		severity := "sharp"
		if total > 90 {
			severity = "violent"
		}
		return telemetry.ExtremeEvent{
			Type:      telemetry.EventCorrection,
			Intensity: math.Min(1, total/120),
			Severity:  severity,
		}
	}

	if len(h) >= 5 {
		recent := make([]float64, 5)
		for i, s := range h[len(h)-5:] {
			recent[i] = s.SteeringAngle
		}
		std := stat.StdDev(recent, nil)
		if std > 25 && cur.SpeedKmh > 20 {
			return telemetry.ExtremeEvent{
				Type:       telemetry.EventErratic,
				Intensity:  math.Min(1, std/50),
				ChaosLevel: std,
			}
		}
	}

	return normal
}
