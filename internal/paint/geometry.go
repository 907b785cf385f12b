package paint

import "math"

// Vec is a 2D vector in normalized canvas units (y grows downwards).
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }
func (v Vec) Dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec) Dist(o Vec) float64 { return v.Sub(o).Len() }
func (v Vec) Lerp(o Vec, t float64) Vec { return v.Add(o.Sub(v).Scale(t)) }

// Finite reports whether both components are finite.
func (v Vec) Finite() bool {
	return finite(v.X) && finite(v.Y)
}

// Dir returns the unit vector for angle a (radians, 0 = rightward,
// increasing clockwise on screen).
func Dir(a float64) Vec {
	return Vec{math.Cos(a), math.Sin(a)}
}

// Heading converts a steering angle into a canvas angle. Steering measures 0
// as straight ahead while the canvas measures 0 as rightward, so a centred
// wheel points down the canvas.
func Heading(steeringDeg float64) float64 {
	return steeringDeg*math.Pi/180 + math.Pi/2
}

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// AngleDiff returns the shortest angular distance between two angles.
// Result is in [0, π].
func AngleDiff(a, b float64) float64 {
	d := math.Abs(NormalizeAngle(a) - NormalizeAngle(b))
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

// wrapDegrees maps any finite angle into [0, 360).
func wrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
