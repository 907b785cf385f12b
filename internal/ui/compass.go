package ui

import (
	"math"
	"strings"

	"drive-canvas.klederson.com/internal/config"
	"github.com/charmbracelet/lipgloss"
)

// RenderCompass draws a ring with an arrow along a painter's heading.
// heading: canvas radians (0 = rightward, clockwise). The arrow grows with
// speed and is drawn in the painter's current colour.
func RenderCompass(width, height int, heading, speedKmh float64, arrowColor string) string {
	if width < 9 || height < 5 {
		return ""
	}

	grid := make([][]byte, height)
	isArrow := make([][]bool, height)
	for i := range grid {
		grid[i] = []byte(strings.Repeat(" ", width))
		isArrow[i] = make([]bool, width)
	}

	fcx := float64(width) / 2.0
	fcy := float64(height) / 2.0
	rx := math.Max(fcx-2.0, 3) // horizontal radius in columns
	ry := math.Max(fcy-2.0, 2) // vertical radius in rows

	steps := 80
	for i := 0; i < steps; i++ {
		a := float64(i) * 2 * math.Pi / float64(steps)
		col := int(math.Round(fcx + rx*math.Cos(a)))
		row := int(math.Round(fcy + ry*math.Sin(a)))
		if col >= 0 && col < width && row >= 0 && row < height && grid[row][col] == ' ' {
			grid[row][col] = '.'
		}
	}

	cx := int(math.Round(fcx))
	cy := int(math.Round(fcy))
	setGrid(grid, width, height, cx, cy, '+')

	// Slow painters get a short arrow that still leaves the centre.
	frac := 0.3 + 0.55*math.Min(math.Max(speedKmh, 0)/config.MaxSpeedKmh, 1)
	shaftSteps := max(int(math.Max(rx, ry)*frac), 2)
	cosA, sinA := math.Cos(heading), math.Sin(heading)

	tipCol, tipRow := cx, cy
	for s := 1; s <= shaftSteps; s++ {
		t := float64(s) / float64(shaftSteps) * frac
		col := int(math.Round(fcx + t*rx*cosA))
		row := int(math.Round(fcy + t*ry*sinA))
		if col >= 0 && col < width && row >= 0 && row < height {
			grid[row][col] = shaftChar(heading)
			isArrow[row][col] = true
			tipCol, tipRow = col, row
		}
	}
	grid[tipRow][tipCol] = arrowTip(heading)
	isArrow[tipRow][tipCol] = true

	arrowSty := lipgloss.NewStyle().Foreground(lipgloss.Color(arrowColor)).Bold(true)
	ringSty := lipgloss.NewStyle().Foreground(ColorDimInk)
	markSty := lipgloss.NewStyle().Foreground(ColorInk).Bold(true)

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			ch := grid[row][col]
			switch {
			case isArrow[row][col]:
				sb.WriteString(arrowSty.Render(string(ch)))
			case ch == '+':
				sb.WriteString(markSty.Render(string(ch)))
			case ch != ' ':
				sb.WriteString(ringSty.Render(string(ch)))
			default:
				sb.WriteByte(' ')
			}
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func setGrid(grid [][]byte, w, h, col, row int, ch byte) {
	if col >= 0 && col < w && row >= 0 && row < h {
		grid[row][col] = ch
	}
}

// sector maps a canvas angle to one of eight 45° sectors, 0 = rightward.
func sector(a float64) int {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return int(math.Round(a/(math.Pi/4))) % 8
}

func shaftChar(a float64) byte {
	switch sector(a) {
	case 0, 4:
		return '-'
	case 2, 6:
		return '|'
	case 1, 5:
		return '\\'
	default:
		return '/'
	}
}

func arrowTip(a float64) byte {
	return ">\\v/<\\^/"[sector(a)]
}

// headingLabel names the screen direction of a canvas angle.
func headingLabel(a float64) string {
	return [...]string{"E", "SE", "S", "SW", "W", "NW", "N", "NE"}[sector(a)]
}
