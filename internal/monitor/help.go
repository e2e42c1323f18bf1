package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Overlay styles
var (
	overlayBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	alertBoxStyle = overlayBoxStyle.
			BorderForeground(ColorCritical)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)

	alertTitleStyle = lipgloss.NewStyle().
			Foreground(ColorCritical).
			Bold(true).
			MarginBottom(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Width(12)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// renderHelpOverlay renders a centered box listing every key binding.
func (m Model) renderHelpOverlay() string {
	var lines []string
	lines = append(lines, helpTitleStyle.Render("Keyboard Shortcuts"))

	for _, group := range keys.FullHelp() {
		for _, b := range group {
			h := b.Help()
			lines = append(lines, helpKeyStyle.Render(h.Key)+helpDescStyle.Render(h.Desc))
		}
		lines = append(lines, "")
	}

	lines = append(lines, LabelStyle.Render("Press ? to close"))
	return m.place(overlayBoxStyle.Render(strings.Join(lines, "\n")))
}

// renderAlertOverlay renders the blocking drowning alert.
func (m Model) renderAlertOverlay() string {
	threshold := m.reducer.Options().Threshold
	lines := []string{
		alertTitleStyle.Render(IndicatorAlert + " Drowning Alert"),
		ValueStyle.Render(fmt.Sprintf("Unusual water movement detected on %s.", m.state.DeviceName())),
		"",
		LabelStyle.Render("Water movement ") +
			lipgloss.NewStyle().Foreground(ColorCritical).Bold(true).Render(fmt.Sprintf("%d%%", m.state.WaterMovement)) +
			LabelStyle.Render(fmt.Sprintf(" (threshold %d%%)", threshold)),
		"",
		LabelStyle.Render("a/enter acknowledge | m stop monitoring"),
	}
	return m.place(alertBoxStyle.Render(strings.Join(lines, "\n")))
}

// place centers box in the terminal.
func (m Model) place(box string) string {
	return lipgloss.Place(
		m.viewWidth(),
		m.viewHeight(),
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}
