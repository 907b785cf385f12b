package ui

import (
	"fmt"
	"math"
	"strings"

	"drive-canvas.klederson.com/internal/paint"
	"github.com/charmbracelet/lipgloss"
)

// RenderDetailPanel renders the persona detail overlay that replaces the
// painter list.
func RenderDetailPanel(p paint.PainterView, width, height int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	title := StylePanelTitle.Render("PAINTER DETAIL")
	escHint := StyleHelp.Render("[ESC]")
	titleLine := title + strings.Repeat(" ", max(0, innerW-lipgloss.Width(title)-lipgloss.Width(escHint))) + escHint

	lines := []string{titleLine, StyleRule.Render(strings.Repeat("-", innerW)), ""}

	labelSty := lipgloss.NewStyle().Foreground(ColorMidInk)
	valSty := lipgloss.NewStyle().Foreground(ColorInk).Bold(true)

	persona := p.Persona
	fields := []struct{ label, value string }{
		{"Persona", persona.Name},
		{"Style", persona.Style},
		{"Mood", persona.Description},
		{"Painter", fmt.Sprintf("%s (slot %d)", p.ID, p.Slot+1)},
		{"Session", fmt.Sprintf("#%d  %s", persona.Session, shortID(persona))},
		{"Brush", fmt.Sprintf("speed x%.1f  chaos x%.1f  size x%.1f",
			persona.SpeedMultiplier, persona.ChaosMultiplier, persona.BrushMultiplier)},
		{"Hue", fmt.Sprintf("%.0f°  shift %+.0f°", p.Hue, persona.HueShift)},
		{"State", fmt.Sprintf("%s  %s", p.Status, p.State)},
		{"Marks", fmt.Sprintf("%d strokes  %d events", p.Strokes, p.Events)},
	}
	for _, f := range fields {
		label := labelSty.Render(fmt.Sprintf("  %-9s", f.label))
		lines = append(lines, label+valSty.Render(truncRaw(f.value, max(0, innerW-11))))
	}
	lines = append(lines, "")

	barWidth := max(innerW-22, 10)
	lines = append(lines, labelSty.Render("  Calm    ")+renderMeter(p.Calm, barWidth)+valSty.Render(fmt.Sprintf(" %3.0f", p.Calm)))
	lines = append(lines, labelSty.Render("  Control ")+renderMeter(p.Control, barWidth)+valSty.Render(fmt.Sprintf(" %3.0f", p.Control)))
	lines = append(lines, "")

	if len(p.Speeds) > 0 {
		lines = append(lines, labelSty.Render("  Speed History:"))
		spark := renderSparkline(p.Speeds, max(innerW-4, 10))
		lines = append(lines, "  "+lipgloss.NewStyle().Foreground(lipgloss.Color(HueHex(p.Hue))).Render(spark))
		lines = append(lines, "")
	}

	compassH := max(height-len(lines)-5, 5)
	compassW := innerW
	if compassW > compassH*3 {
		compassW = compassH * 3 // keep roughly proportional
	}
	if compass := RenderCompass(compassW, compassH, p.Heading, p.Speed, HueHex(p.Hue)); compass != "" {
		prefix := strings.Repeat(" ", max(0, (innerW-compassW)/2))
		for _, cl := range strings.Split(compass, "\n") {
			lines = append(lines, prefix+cl)
		}
	}

	label := fmt.Sprintf("%s  %.0fkm/h  (%.2f, %.2f)", headingLabel(p.Heading), p.Speed, p.Pos.X, p.Pos.Y)
	lines = append(lines, strings.Repeat(" ", max(0, (innerW-len(label))/2))+valSty.Render(label))

	for len(lines) < height-2 {
		lines = append(lines, "")
	}
	if len(lines) > height-2 {
		lines = lines[:max(height-2, 0)]
	}

	return StylePanelActive.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}

// renderMeter draws a 0..100 index as a filled bar.
func renderMeter(v float64, width int) string {
	ratio := math.Min(math.Max(v/100, 0), 1)
	filled := int(math.Round(ratio * float64(width)))

	bar := strings.Repeat("|", filled) + strings.Repeat("-", width-filled)
	filledPart := lipgloss.NewStyle().Foreground(ColorAccent).Render(bar[:filled])
	emptyPart := lipgloss.NewStyle().Foreground(ColorDimInk).Render(bar[filled:])
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]")
}

func renderSparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	start := 0
	if len(values) > width {
		start = len(values) - width
	}
	values = values[start:]

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	rng := math.Max(maxV-minV, 1)

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - minV) / rng * float64(len(chars)-1))
		sb.WriteByte(chars[clampInt(idx, 0, len(chars)-1)])
	}
	return sb.String()
}

func shortID(p paint.Persona) string {
	return p.ID.String()[:8]
}
