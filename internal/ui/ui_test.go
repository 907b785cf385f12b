package ui

import (
	"image/color"
	"math"
	"strings"
	"testing"

	"drive-canvas.klederson.com/internal/config"
	"drive-canvas.klederson.com/internal/paint"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid(cols, rows int, c color.RGBA) [][]color.RGBA {
	out := make([][]color.RGBA, rows)
	for i := range out {
		out[i] = make([]color.RGBA, cols)
		for j := range out[i] {
			out[i][j] = c
		}
	}
	return out
}

func testPainters() []paint.PainterView {
	return []paint.PainterView{
		{
			ID:      "sim_1",
			Slot:    0,
			Persona: paint.Persona{Name: "Serenity Blue 1", Style: "Delicate", Session: 1},
			Status:  paint.StatusPainting,
			State:   paint.StateCruising,
			Pos:     paint.Vec{X: 0.2, Y: 0.25},
			Hue:     210,
			Speed:   80,
			Calm:    70,
			Control: 60,
			Speeds:  []float64{60, 70, 80},
			Strokes: 12,
		},
		{
			ID:      "sim_3",
			Slot:    2,
			Persona: paint.Persona{Name: "Passion Rose 1", Style: "Wild", Session: 1},
			Status:  paint.StatusDisconnected,
			State:   paint.StateBraking,
			Pos:     paint.Vec{X: 0.8, Y: 0.25},
			Hue:     344,
		},
	}
}

func TestCanvasGrid(t *testing.T) {
	cols, rows := CanvasGrid(42, 23)
	assert.Equal(t, 40, cols)
	assert.Equal(t, 40, rows)

	cols, rows = CanvasGrid(2, 3)
	assert.Zero(t, cols)
	assert.Zero(t, rows)
}

func TestRenderCanvasPanel(t *testing.T) {
	width, height := 42, 23
	cols, rows := CanvasGrid(width, height)
	out := RenderCanvasPanel(width, height, grid(cols, rows, color.RGBA{R: 255, G: 255, B: 255, A: 255}), testPainters())

	assert.Equal(t, height, lipgloss.Height(out))
	assert.Equal(t, width, lipgloss.Width(out))
	assert.Contains(t, out, "1")
	assert.Contains(t, out, "3")
	assert.Contains(t, out, halfBlock)
	assert.Contains(t, out, "Serenity Blue")
}

func TestRenderPainterList(t *testing.T) {
	out := RenderPainterList(testPainters(), 40, 20, 0)
	assert.Equal(t, 20, lipgloss.Height(out))
	assert.Contains(t, out, "PAINTERS [2]")
	assert.Contains(t, out, "Serenity Blue 1")
	assert.Contains(t, out, "cruising")
	assert.Contains(t, out, "brush at rest")

	empty := RenderPainterList(nil, 40, 20, 0)
	assert.Contains(t, empty, "Waiting for telemetry")
}

func TestRenderPainterListScrollsToCursor(t *testing.T) {
	var painters []paint.PainterView
	for i := 0; i < 8; i++ {
		p := testPainters()[0]
		p.ID = "sim_" + string(rune('1'+i))
		painters = append(painters, p)
	}
	out := RenderPainterList(painters, 40, 12, 7)
	assert.Equal(t, 12, lipgloss.Height(out))
	assert.Contains(t, out, "sim_8")
	assert.NotContains(t, out, "sim_1 ")
}

func TestRenderDetailPanel(t *testing.T) {
	out := RenderDetailPanel(testPainters()[0], 40, 40)
	assert.Equal(t, 40, lipgloss.Height(out))
	assert.Contains(t, out, "PAINTER DETAIL")
	assert.Contains(t, out, "Delicate")
	assert.Contains(t, out, "Speed History")
}

func TestMenuAndStatusBars(t *testing.T) {
	menu := RenderMenuBar(100, "demo", true)
	assert.Contains(t, menu, config.AppName)
	assert.Contains(t, menu, "PAINTING")
	assert.Contains(t, menu, "Source: demo")
	assert.Contains(t, RenderMenuBar(100, "demo", false), "PAUSED")

	status := RenderStatusBar(120, paint.Stats{Painting: true, Mode: config.ModeLines, Painters: 3, Strokes: 40}, "/tmp/out/drive-canvas-x.png")
	assert.Contains(t, status, "Painters: 3")
	assert.Contains(t, status, "Mode: lines")
	assert.Contains(t, status, "Saved: drive-canvas-x.png")
}

func TestCompass(t *testing.T) {
	out := RenderCompass(21, 9, 0, 100, "#FF0000")
	require.NotEmpty(t, out)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 9)
	assert.Contains(t, out, ">")

	assert.Empty(t, RenderCompass(5, 3, 0, 0, "#FF0000"))
}

func TestHeadingLabel(t *testing.T) {
	tests := []struct {
		angle float64
		want  string
	}{
		{0, "E"},
		{math.Pi / 2, "S"},
		{math.Pi, "W"},
		{-math.Pi / 2, "N"},
		{math.Pi / 4, "SE"},
		{7 * math.Pi / 4, "NE"},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, headingLabel(tt.angle), "angle %.2f", tt.angle)
	}
	assert.Equal(t, byte('v'), arrowTip(math.Pi/2))
	assert.Equal(t, byte('|'), shaftChar(-math.Pi/2))
}

func TestSparklineAndMeter(t *testing.T) {
	assert.Equal(t, "_^", renderSparkline([]float64{0, 100}, 10))
	assert.Equal(t, "__", renderSparkline([]float64{5, 5}, 10))
	assert.Len(t, renderSparkline([]float64{1, 2, 3, 4, 5}, 3), 3)
	assert.Empty(t, renderSparkline(nil, 3))

	assert.Contains(t, renderMeter(50, 10), "|||||")
}

func TestTruncRaw(t *testing.T) {
	assert.Equal(t, "abc  ", truncRaw("abc", 5))
	assert.Equal(t, "ab", truncRaw("abc", 2))
	assert.Equal(t, "", truncRaw("abc", -1))
}

func TestHueHex(t *testing.T) {
	assert.Equal(t, "#df2020", HueHex(0))
	assert.True(t, strings.HasPrefix(HueHex(200), "#"))
}
