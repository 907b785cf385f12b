package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"drive-canvas.klederson.com/internal/paint"
	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar. lastExport is the path of
// the most recent PNG, if any.
func RenderStatusBar(width int, st paint.Stats, lastExport string) string {
	status := StyleStatusPaused.Render("[PAUSED]")
	if st.Painting {
		status = StyleStatusPainting.Render("[PAINTING]")
	}

	info := fmt.Sprintf(" Painters: %d  Strokes: %d  Events: %d  Skipped: %d  Mode: %s",
		st.Painters, st.Strokes, st.Events, st.Skipped, st.Mode)
	if lastExport != "" {
		info += "  Saved: " + filepath.Base(lastExport)
	}

	content := status + StyleStatusBar.Render(info)

	gap := width - StyleStatusBar.GetHorizontalPadding() - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
