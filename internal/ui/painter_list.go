package ui

import (
	"fmt"
	"strings"

	"drive-canvas.klederson.com/internal/paint"
	"drive-canvas.klederson.com/internal/telemetry"
	"github.com/charmbracelet/lipgloss"
)

// Cursor row style: dark text on the accent colour
var cursorRowSty = lipgloss.NewStyle().
	Foreground(ColorBlack).
	Background(ColorAccent).
	Bold(true)

// Resting painter style: dim
var restingSty = lipgloss.NewStyle().
	Foreground(ColorDimInk)

// RenderPainterList renders the scrollable painter list with a cursor.
// The title stays fixed at the top; only the entries scroll.
func RenderPainterList(painters []paint.PainterView, width, height int, cursorIndex int) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}

	title := StylePanelTitle.Render(fmt.Sprintf("PAINTERS [%d]", len(painters)))
	separator := StyleRule.Render(strings.Repeat("-", innerW))
	headerLines := []string{title, separator}
	headerCount := len(headerLines)

	innerH := height - 2
	if innerH < headerCount+1 {
		innerH = headerCount + 1
	}

	space := innerH - headerCount
	if space < 1 {
		space = 1
	}

	var entryLines []string
	if len(painters) == 0 {
		entryLines = append(entryLines, "")
		entryLines = append(entryLines, StyleHelp.Render(" No painters..."))
		entryLines = append(entryLines, StyleHelp.Render(" Waiting for telemetry"))
	} else {
		linesPerPainter := 4 // 3 content + 1 blank
		maxVisible := space / linesPerPainter
		if maxVisible < 1 {
			maxVisible = 1
		}

		viewStart := 0
		if cursorIndex >= maxVisible {
			viewStart = cursorIndex - maxVisible + 1
		}

		for i := viewStart; i < len(painters) && len(entryLines) < space; i++ {
			entry := renderPainterEntry(painters[i], innerW, i == cursorIndex)
			for _, l := range entry {
				if len(entryLines) >= space {
					break
				}
				entryLines = append(entryLines, l)
			}
		}
	}

	for len(entryLines) < space {
		entryLines = append(entryLines, "")
	}

	all := make([]string, 0, innerH)
	all = append(all, headerLines...)
	all = append(all, entryLines...)
	if len(all) > innerH {
		all = all[:innerH]
	}

	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(strings.Join(all, "\n"))

	// lipgloss Height() only sets a minimum; clamp the overflow ourselves.
	outLines := strings.Split(rendered, "\n")
	if len(outLines) > height {
		outLines = outLines[:height]
	}
	for len(outLines) < height {
		outLines = append(outLines, "")
	}
	return strings.Join(outLines, "\n")
}

func renderPainterEntry(p paint.PainterView, maxW int, isCursor bool) []string {
	cursor := "  "
	if isCursor {
		cursor = ">>"
	}

	name := truncRaw(p.Persona.Name, max(4, maxW-18))
	name = strings.TrimRight(name, " ")
	event := ""
	if p.LastEvent != "" && p.LastEvent != telemetry.EventNormal {
		event = "  !" + string(p.LastEvent)
	}

	rawLine1 := fmt.Sprintf("%s %d %s  [%s]", cursor, p.Slot+1, name, p.Status)
	rawLine2 := fmt.Sprintf("       %s  %s%s", p.ID, p.State, event)
	rawLine3 := fmt.Sprintf("       (%.2f, %.2f)  %3.0fkm/h  %d/%d", p.Pos.X, p.Pos.Y, p.Speed, p.Strokes, p.Events)

	if isCursor {
		return []string{
			cursorRowSty.Render(truncRaw(rawLine1, maxW)),
			cursorRowSty.Render(truncRaw(rawLine2, maxW)),
			cursorRowSty.Render(truncRaw(rawLine3, maxW)),
			"",
		}
	}
	if p.Status == paint.StatusDisconnected {
		return []string{
			restingSty.Render(truncRaw(rawLine1, maxW)),
			restingSty.Render(truncRaw(rawLine2, maxW)),
			restingSty.Render(truncRaw(rawLine3, maxW)),
			"",
		}
	}

	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(HueHex(p.Hue))).Render("■")
	line1 := fmt.Sprintf("   %s %s %s  %s", swatch, StylePainterName.Render(fmt.Sprintf("%d", p.Slot+1)),
		StylePainterName.Render(name), statusStyle(p.Status).Render("["+p.Status.String()+"]"))
	line2 := "       " + StylePainterID.Render(p.ID) + "  " + StylePainterState.Render(string(p.State))
	if event != "" {
		line2 += StyleEvent.Render(event)
	}
	line3 := "       " + StylePainterID.Render(truncRaw(strings.TrimPrefix(rawLine3, "       "), maxW-7))

	return []string{line1, line2, line3, ""}
}

func statusStyle(s paint.Status) lipgloss.Style {
	switch s {
	case paint.StatusPreparing:
		return StyleStatusPreparing
	case paint.StatusDisconnected:
		return StyleStatusRest
	default:
		return StyleStatusActive
	}
}

// truncRaw pads or truncates a raw string to exactly w characters.
func truncRaw(s string, w int) string {
	if w < 0 {
		w = 0
	}
	if len(s) > w {
		return s[:w]
	}
	if len(s) < w {
		return s + strings.Repeat(" ", w-len(s))
	}
	return s
}
