package report

import "github.com/charmbracelet/lipgloss"

// Palette follows the galaxy view: white civilizations, red signal rings,
// green for detected, blue for detectors, yellow spaceships.
var (
	ColorWhite  = lipgloss.Color("#FFFFFF")
	ColorGray   = lipgloss.Color("#808080")
	ColorRed    = lipgloss.Color("#FF3B30")
	ColorGreen  = lipgloss.Color("#00CC33")
	ColorBlue   = lipgloss.Color("#3A7BFF")
	ColorYellow = lipgloss.Color("#FFCC00")
)

// Pre-built styles
var (
	StylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorGray).
			Width(24)

	StyleValue = lipgloss.NewStyle().
			Foreground(ColorWhite)

	StyleSignals = lipgloss.NewStyle().
			Foreground(ColorRed)

	StyleDetections = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleContacts = lipgloss.NewStyle().
			Foreground(ColorBlue)

	StyleVisits = lipgloss.NewStyle().
			Foreground(ColorYellow)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorGray).
			Bold(true)
)
