package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Version string // e.g. "v0.3.0"
	Tagline string // optional
	Detail  string // optional muted line, e.g. the config path
}

// HeaderWidth is the width of the header divider.
const HeaderWidth = 44

// RenderHeader renders the branded header used by the plain CLI commands.
func RenderHeader(info HeaderInfo) string {
	titleStyle := lipgloss.NewStyle().Foreground(ColorBrand).Bold(true)
	versionStyle := lipgloss.NewStyle().Foreground(ColorInfo)
	taglineStyle := lipgloss.NewStyle().Foreground(ColorSecondary)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	var output strings.Builder

	output.WriteString(titleStyle.Render("HydroGuard"))
	if info.Version != "" {
		output.WriteString(" ")
		output.WriteString(versionStyle.Render(info.Version))
	}
	output.WriteString("\n")

	if info.Tagline != "" {
		output.WriteString(taglineStyle.Render(info.Tagline))
		output.WriteString("\n")
	}

	if info.Detail != "" {
		output.WriteString(mutedStyle.Render(info.Detail))
		output.WriteString("\n")
	}

	output.WriteString(mutedStyle.Render(strings.Repeat("━", HeaderWidth)))
	output.WriteString("\n")

	return output.String()
}
