package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"math/rand/v2"
	"sync"

	"golang.org/x/image/vector"
)

// Paper is the background colour of a fresh surface.
var Paper = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

const (
	textureSpecks = 800
	textureAlpha  = 0.02
)

// Raster is a Renderer backed by an RGBA image. All draw calls are serialized
// by an internal mutex so a caller may snapshot or export while painting.
type Raster struct {
	mu  sync.Mutex
	img *image.RGBA
	z   *vector.Rasterizer
}

// NewRaster creates a width x height surface filled with paper and a faint,
// seed-determined grain.
func NewRaster(width, height int, seed uint64) *Raster {
	r := &Raster{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
		z:   vector.NewRasterizer(1, 1),
	}
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(Paper), image.Point{}, draw.Src)

	rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	light := color.NRGBA{R: 0xFA, G: 0xFA, B: 0xFA, A: alpha8(textureAlpha)}
	dark := color.NRGBA{R: 0xF5, G: 0xF5, B: 0xF5, A: alpha8(textureAlpha)}
	for i := 0; i < textureSpecks; i++ {
		x, y := rng.IntN(width), rng.IntN(height)
		c := light
		if rng.Float64() > 0.5 {
			c = dark
		}
		draw.Draw(r.img, image.Rect(x, y, x+1, y+1), image.NewUniform(c), image.Point{}, draw.Over)
	}
	return r
}

// Bounds returns the surface size.
func (r *Raster) Bounds() image.Rectangle {
	return r.img.Bounds()
}

// Stroke draws the path with round caps and joins.
func (r *Raster) Stroke(p Path, s Style) {
	if !p.Finite() {
		return
	}
	hw := math.Max(s.Width, 0.5) / 2
	lines := p.Flatten()

	var shapes []polygon
	for _, pts := range lines {
		if len(pts) == 1 {
			shapes = append(shapes, circlePolygon(pts[0], hw))
			continue
		}
		for i := 1; i < len(pts); i++ {
			if q, ok := segmentPolygon(pts[i-1], pts[i], hw); ok {
				shapes = append(shapes, q)
			}
		}
		if hw >= 1 {
			for _, pt := range pts {
				shapes = append(shapes, circlePolygon(pt, hw))
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.fill(shapes, s)
}

// FillCircle fills a disc.
func (r *Raster) FillCircle(center Point, radius float64, s Style) {
	if !center.Finite() || radius <= 0 || math.IsInf(radius, 0) || math.IsNaN(radius) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fill([]polygon{circlePolygon(center, radius)}, s)
}

// FillRect fills an axis-aligned rectangle.
func (r *Raster) FillRect(rc Rect, s Style) {
	a := alpha8(s.Alpha)
	if a == 0 {
		return
	}
	bounds := image.Rect(
		int(math.Floor(rc.Min.X)), int(math.Floor(rc.Min.Y)),
		int(math.Ceil(rc.Max.X)), int(math.Ceil(rc.Max.Y)),
	).Intersect(r.img.Bounds())
	if bounds.Empty() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s.Blend == BlendMultiply {
		mask := image.NewAlpha(bounds)
		draw.Draw(mask, bounds, image.Opaque, image.Point{}, draw.Src)
		r.multiply(mask, s)
		return
	}
	src := s.Color
	src.A = a
	draw.Draw(r.img, bounds, image.NewUniform(src), image.Point{}, draw.Over)
}

// Snapshot returns a copy of the current surface.
func (r *Raster) Snapshot() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := image.NewRGBA(r.img.Bounds())
	copy(cp.Pix, r.img.Pix)
	return cp
}

// Downsample averages the surface into a cols x rows grid, row-major.
func (r *Raster) Downsample(cols, rows int) [][]color.RGBA {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.img.Bounds()
	out := make([][]color.RGBA, rows)
	for row := 0; row < rows; row++ {
		out[row] = make([]color.RGBA, cols)
		y0 := b.Min.Y + row*b.Dy()/rows
		y1 := max(b.Min.Y+(row+1)*b.Dy()/rows, y0+1)
		for col := 0; col < cols; col++ {
			x0 := b.Min.X + col*b.Dx()/cols
			x1 := max(b.Min.X+(col+1)*b.Dx()/cols, x0+1)
			out[row][col] = r.average(image.Rect(x0, y0, x1, y1))
		}
	}
	return out
}

// average samples at most 8x8 pixels of the cell to keep previews cheap.
func (r *Raster) average(cell image.Rectangle) color.RGBA {
	cell = cell.Intersect(r.img.Bounds())
	if cell.Empty() {
		return color.RGBA{A: 0xFF}
	}
	sx := max(cell.Dx()/8, 1)
	sy := max(cell.Dy()/8, 1)
	var sr, sg, sb, n int
	for y := cell.Min.Y; y < cell.Max.Y; y += sy {
		for x := cell.Min.X; x < cell.Max.X; x += sx {
			c := r.img.RGBAAt(x, y)
			sr += int(c.R)
			sg += int(c.G)
			sb += int(c.B)
			n++
		}
	}
	return color.RGBA{R: uint8(sr / n), G: uint8(sg / n), B: uint8(sb / n), A: 0xFF}
}

// WritePNG encodes the current surface as PNG.
func (r *Raster) WritePNG(w io.Writer) error {
	return png.Encode(w, r.Snapshot())
}

type polygon []Point

// segmentPolygon returns the quad covering segment a-b at half width hw. The
// winding matches circlePolygon so overlapping pieces of one stroke union
// instead of cancelling.
func segmentPolygon(a, b Point, hw float64) (polygon, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return nil, false
	}
	nx, ny := -dy/l*hw, dx/l*hw
	return polygon{
		{a.X - nx, a.Y - ny},
		{b.X - nx, b.Y - ny},
		{b.X + nx, b.Y + ny},
		{a.X + nx, a.Y + ny},
	}, true
}

func circlePolygon(c Point, radius float64) polygon {
	steps := int(math.Min(64, math.Max(12, radius*2)))
	pg := make(polygon, steps)
	for i := range pg {
		pg[i] = c.Polar(2*math.Pi*float64(i)/float64(steps), radius)
	}
	return pg
}

// fill rasterizes the union of shapes inside their bounding box and
// composites it with the style. Callers hold r.mu.
func (r *Raster) fill(shapes []polygon, s Style) {
	if len(shapes) == 0 || alpha8(s.Alpha) == 0 {
		return
	}
	box := bbox(shapes).Intersect(r.img.Bounds())
	if box.Empty() {
		return
	}

	r.z.Reset(box.Dx(), box.Dy())
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	for _, pg := range shapes {
		r.z.MoveTo(float32(pg[0].X-ox), float32(pg[0].Y-oy))
		for _, pt := range pg[1:] {
			r.z.LineTo(float32(pt.X-ox), float32(pt.Y-oy))
		}
		r.z.ClosePath()
	}

	if s.Blend == BlendMultiply {
		mask := image.NewAlpha(box)
		r.z.DrawOp = draw.Src
		r.z.Draw(mask, box, image.Opaque, image.Point{})
		r.multiply(mask, s)
		return
	}

	src := s.Color
	src.A = alpha8(s.Alpha)
	r.z.DrawOp = draw.Over
	r.z.Draw(r.img, box, image.NewUniform(src), image.Point{})
}

// multiply darkens the surface under mask by the style colour.
func (r *Raster) multiply(mask *image.Alpha, s Style) {
	b := mask.Bounds()
	cr, cg, cb := float64(s.Color.R)/255, float64(s.Color.G)/255, float64(s.Color.B)/255
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m := float64(mask.AlphaAt(x, y).A) / 255
			if m == 0 {
				continue
			}
			k := m * s.Alpha
			i := r.img.PixOffset(x, y)
			p := r.img.Pix[i : i+3 : i+3]
			p[0] = uint8(float64(p[0]) * (1 - k + k*cr))
			p[1] = uint8(float64(p[1]) * (1 - k + k*cg))
			p[2] = uint8(float64(p[2]) * (1 - k + k*cb))
		}
	}
}

func bbox(shapes []polygon) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pg := range shapes {
		for _, pt := range pg {
			minX = math.Min(minX, pt.X)
			minY = math.Min(minY, pt.Y)
			maxX = math.Max(maxX, pt.X)
			maxY = math.Max(maxY, pt.Y)
		}
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
}

func alpha8(a float64) uint8 {
	if math.IsNaN(a) || a <= 0 {
		return 0
	}
	if a >= 1 {
		return 0xFF
	}
	return uint8(math.Round(a * 255))
}
