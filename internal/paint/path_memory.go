package paint

import "time"

// PathPoint is one rendered point with the telemetry that produced it.
type PathPoint struct {
	Pos      Vec
	Throttle float64
	Brake    float64
	Speed    float64
	Steering float64
	Calm     float64
	Control  float64
	Hue      float64
	At       time.Time
}

// PathMemory is a fixed-capacity circular buffer of recent points. Pushing
// past capacity evicts the oldest point.
type PathMemory struct {
	buf   []PathPoint
	pos   int
	count int
}

// NewPathMemory creates a buffer holding at most capacity points.
func NewPathMemory(capacity int) *PathMemory {
	if capacity < 1 {
		capacity = 1
	}
	return &PathMemory{
		buf: make([]PathPoint, capacity),
	}
}

// Push appends a point.
func (m *PathMemory) Push(p PathPoint) {
	m.buf[m.pos] = p
	m.pos = (m.pos + 1) % len(m.buf)
	if m.count < len(m.buf) {
		m.count++
	}
}

// Points returns all stored points in chronological order.
func (m *PathMemory) Points() []PathPoint {
	if m.count == 0 {
		return nil
	}
	result := make([]PathPoint, m.count)
	if m.count < len(m.buf) {
		copy(result, m.buf[:m.count])
	} else {
		n := copy(result, m.buf[m.pos:])
		copy(result[n:], m.buf[:m.pos])
	}
	return result
}

// Last returns the most recent point.
func (m *PathMemory) Last() (PathPoint, bool) {
	if m.count == 0 {
		return PathPoint{}, false
	}
	idx := (m.pos - 1 + len(m.buf)) % len(m.buf)
	return m.buf[idx], true
}

// Len returns the number of stored points.
func (m *PathMemory) Len() int {
	return m.count
}

// Cap returns the capacity.
func (m *PathMemory) Cap() int {
	return len(m.buf)
}
