package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the canvas panel and side panel horizontally,
// with menu bar on top and status bar on bottom.
func ComposeLayout(menuBar, canvasPanel, sidePanel, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, canvasPanel, sidePanel)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}
