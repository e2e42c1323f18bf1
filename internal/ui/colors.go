package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for status indication. ANSI codes so plain terminals
// still get something sensible.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// Brand colors, shared with the dashboard.
const (
	ColorBrand lipgloss.Color = "#00B4FF"
	ColorAlarm lipgloss.Color = "#FF4D6D"
)

// GradientColors is the deep-to-shallow water gradient the spinner cycles through.
var GradientColors = []lipgloss.Color{
	"#0047AB",
	"#0077D9",
	"#00B4FF",
	"#7FDBFF",
}
