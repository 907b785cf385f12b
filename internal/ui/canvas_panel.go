package ui

import (
	"image/color"
	"strconv"
	"strings"

	"drive-canvas.klederson.com/internal/config"
	"drive-canvas.klederson.com/internal/paint"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const halfBlock = "▀"

// CanvasGrid returns the preview grid a panel of the given size can show.
// Every terminal cell carries two vertically stacked preview pixels.
func CanvasGrid(width, height int) (cols, rows int) {
	cols = width - 2
	rows = (height - 3) * 2 // border + legend
	if cols < 1 || rows < 2 {
		return 0, 0
	}
	return cols, rows
}

// RenderCanvasPanel draws a downsampled canvas as half-block cells with each
// painter marked by its slot number. cells must come from CanvasGrid's size.
func RenderCanvasPanel(width, height int, cells [][]color.RGBA, painters []paint.PainterView) string {
	cols, rows := CanvasGrid(width, height)
	lines := make([]string, 0, rows/2+1)

	markers := make(map[[2]int]paint.PainterView, len(painters))
	for _, p := range painters {
		col := clampInt(int(p.Pos.X*float64(cols)), 0, cols-1)
		row := clampInt(int(p.Pos.Y*float64(rows))/2, 0, rows/2-1)
		markers[[2]int{row, col}] = p
	}

	for row := 0; row+1 < rows && row+1 < len(cells); row += 2 {
		var sb strings.Builder
		top, bottom := cells[row], cells[row+1]
		for col := 0; col < cols && col < len(top) && col < len(bottom); col++ {
			if p, ok := markers[[2]int{row / 2, col}]; ok {
				sb.WriteString(markerStyle(p).Render(strconv.Itoa(p.Slot + 1)))
				continue
			}
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexOf(top[col]))).
				Background(lipgloss.Color(hexOf(bottom[col]))).
				Render(halfBlock))
		}
		lines = append(lines, sb.String())
	}

	lines = append(lines, renderLegend(cols))
	content := strings.Join(lines, "\n")
	return StylePanelBorder.Width(width - 2).Height(height - 2).Render(content)
}

func markerStyle(p paint.PainterView) lipgloss.Style {
	return StyleMarker.Background(lipgloss.Color(HueHex(p.Hue)))
}

// renderLegend lists the slot palettes, trimmed to fit.
func renderLegend(width int) string {
	var parts []string
	used := 0
	for slot := 0; slot < config.PainterSlots; slot++ {
		label := strconv.Itoa(slot+1) + " " + paint.PaletteName(slot)
		if used+len(label)+3 > width {
			break
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(HueHex(paint.BaseHue(slot)))).Render("■")
		parts = append(parts, swatch+" "+StyleHelp.Render(label))
		used += len(label) + 3
	}
	return strings.Join(parts, " ")
}

// HueHex returns the display colour of a hue at mark saturation.
func HueHex(hue float64) string {
	return colorful.Hsl(hue, 0.75, 0.5).Clamped().Hex()
}

func hexOf(c color.RGBA) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
