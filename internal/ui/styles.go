package ui

import "github.com/charmbracelet/lipgloss"

// Studio color palette
var (
	ColorInk        = lipgloss.Color("#F2E9DC")
	ColorCanvas     = lipgloss.Color("#E0D6C8")
	ColorMidInk     = lipgloss.Color("#A89F91")
	ColorDimInk     = lipgloss.Color("#5E574E")
	ColorBlack      = lipgloss.Color("#000000")
	ColorAccent     = lipgloss.Color("#FF7A59")
	ColorBorderHot  = lipgloss.Color("#FF7A59")
	ColorBorderNorm = lipgloss.Color("#8C7B6B")
	ColorError      = lipgloss.Color("#FF3B30")
	ColorWarning    = lipgloss.Color("#FFB020")
	ColorRest       = lipgloss.Color("#6C7A89")
)

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#2B2520")).
			Foreground(ColorInk).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorCanvas)

	StyleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#2B2520")).
			Foreground(ColorCanvas).
			Padding(0, 1)

	StyleStatusPainting = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	StyleStatusPaused = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderNorm)

	StylePanelActive = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderHot)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorInk).
			Bold(true).
			Padding(0, 1)

	StylePainterName = lipgloss.NewStyle().
				Foreground(ColorInk).
				Bold(true)

	StylePainterID = lipgloss.NewStyle().
			Foreground(ColorMidInk)

	StylePainterState = lipgloss.NewStyle().
				Foreground(ColorCanvas)

	StyleStatusActive = lipgloss.NewStyle().
				Foreground(ColorAccent)

	StyleStatusPreparing = lipgloss.NewStyle().
				Foreground(ColorWarning)

	StyleStatusRest = lipgloss.NewStyle().
			Foreground(ColorRest)

	StyleEvent = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	StyleRule = lipgloss.NewStyle().
			Foreground(ColorMidInk)

	StyleMarker = lipgloss.NewStyle().
			Foreground(ColorBlack).
			Bold(true)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorDimInk)
)
