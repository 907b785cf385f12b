package canvas

import "math"

// Op is a path construction verb.
type Op int

const (
	OpMove Op = iota
	OpLine
	OpQuad
)

// Segment is one verb with its points. Quad segments store the control point
// in Pts[0] and the end point in Pts[1]; Move and Line use Pts[0] only.
type Segment struct {
	Op  Op
	Pts [2]Point
}

// Path is an open or closed sequence of sub-paths.
type Path struct {
	Segments []Segment
}

// MoveTo starts a new sub-path at pt.
func (p *Path) MoveTo(pt Point) *Path {
	p.Segments = append(p.Segments, Segment{Op: OpMove, Pts: [2]Point{pt}})
	return p
}

// LineTo adds a straight segment to pt.
func (p *Path) LineTo(pt Point) *Path {
	p.Segments = append(p.Segments, Segment{Op: OpLine, Pts: [2]Point{pt}})
	return p
}

// QuadTo adds a quadratic Bézier segment through ctrl ending at pt.
func (p *Path) QuadTo(ctrl, pt Point) *Path {
	p.Segments = append(p.Segments, Segment{Op: OpQuad, Pts: [2]Point{ctrl, pt}})
	return p
}

// Line returns the two-point path from a to b.
func Line(a, b Point) Path {
	var p Path
	p.MoveTo(a).LineTo(b)
	return p
}

// Polyline returns a path through pts in order.
func Polyline(pts []Point) Path {
	var p Path
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt)
			continue
		}
		p.LineTo(pt)
	}
	return p
}

const circleSteps = 32

// Circle returns a closed polyline approximating the circle at c with radius r.
func Circle(c Point, r float64) Path {
	pts := make([]Point, circleSteps+1)
	for i := 0; i <= circleSteps; i++ {
		pts[i] = c.Polar(2*math.Pi*float64(i)/circleSteps, r)
	}
	return Polyline(pts)
}

// Finite reports whether every point of the path is finite.
func (p Path) Finite() bool {
	for _, s := range p.Segments {
		n := 1
		if s.Op == OpQuad {
			n = 2
		}
		for i := 0; i < n; i++ {
			if !s.Pts[i].Finite() {
				return false
			}
		}
	}
	return true
}

const quadSteps = 8

// Flatten converts the path into polylines, one per sub-path, approximating
// quadratic segments with straight pieces.
func (p Path) Flatten() [][]Point {
	var out [][]Point
	var cur []Point
	for _, s := range p.Segments {
		switch s.Op {
		case OpMove:
			if len(cur) > 0 {
				out = append(out, cur)
			}
			cur = []Point{s.Pts[0]}
		case OpLine:
			if len(cur) == 0 {
				cur = []Point{s.Pts[0]}
				continue
			}
			cur = append(cur, s.Pts[0])
		case OpQuad:
			if len(cur) == 0 {
				cur = []Point{s.Pts[1]}
				continue
			}
			p0 := cur[len(cur)-1]
			for i := 1; i <= quadSteps; i++ {
				t := float64(i) / quadSteps
				u := 1 - t
				cur = append(cur, Point{
					X: u*u*p0.X + 2*u*t*s.Pts[0].X + t*t*s.Pts[1].X,
					Y: u*u*p0.Y + 2*u*t*s.Pts[0].Y + t*t*s.Pts[1].Y,
				})
			}
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
