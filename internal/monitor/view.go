package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hydroguard/hydroguard/internal/sensor"
	"github.com/hydroguard/hydroguard/internal/session"
)

const chartHeight = 4

// renderScreen renders header, the screen for the current state, and footer.
func (m Model) renderScreen() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.state.Screen() {
	case session.ScreenDevices:
		b.WriteString(m.renderDevices())
	case session.ScreenDashboard:
		b.WriteString(m.renderDashboard())
	default:
		b.WriteString(m.renderScan())
	}

	b.WriteString("\n")
	if m.toast != "" {
		b.WriteString(ToastStyle.Render(m.toast))
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the title bar with connection and monitoring status.
func (m Model) renderHeader() string {
	title := TitleStyle.Render("HydroGuard")

	var indicator string
	switch {
	case m.state.Alert:
		indicator = lipgloss.NewStyle().Foreground(ColorCritical).Render(IndicatorAlert)
	case m.state.IsMonitoring():
		indicator = lipgloss.NewStyle().Foreground(ColorHealthy).Render(IndicatorActive)
	case m.state.Connection == session.Connected:
		indicator = lipgloss.NewStyle().Foreground(ColorAccent).Render(IndicatorConnected)
	default:
		indicator = MutedStyle.Render(IndicatorDisconnected)
	}

	parts := []string{m.state.Connection.String()}
	if name := m.state.DeviceName(); name != "" {
		parts = append([]string{name}, parts...)
	}
	if m.state.Connection == session.Connected {
		parts = append(parts, "monitoring "+m.state.MonitoringLabel())
	}

	stats := LabelStyle.Render(" | " + strings.Join(parts, " | "))
	return HeaderStyle.Render(indicator + " " + title + stats)
}

// renderScan renders the disconnected and scanning screen.
func (m Model) renderScan() string {
	if m.state.Connection == session.Scanning {
		return m.spinner.View() + " " + ValueStyle.Render(m.state.Notice)
	}

	lines := []string{
		ValueStyle.Render("No device connected."),
		"",
		LabelStyle.Render("Press ") + ValueStyle.Render("s") + LabelStyle.Render(" to scan for nearby HydroGuard devices."),
	}
	return strings.Join(lines, "\n")
}

// renderDevices renders the device list, or the connecting spinner.
func (m Model) renderDevices() string {
	if m.state.Connection == session.Connecting {
		return m.spinner.View() + " " + ValueStyle.Render("Connecting to "+m.state.DeviceName()+"...")
	}

	if len(m.state.Devices) == 0 {
		return LabelStyle.Render("No devices found. Press s to scan again.")
	}

	lines := []string{LabelStyle.Render(m.state.Notice), ""}
	for i, d := range m.state.Devices {
		row := fmt.Sprintf("%-24s %s %3d%%", d.Name, signalBars(d.SignalBars()), d.SignalStrength)
		if i == m.selected {
			lines = append(lines, DeviceSelectedStyle.Render(row))
		} else {
			lines = append(lines, DeviceStyle.Render(row))
		}
	}
	return strings.Join(lines, "\n")
}

// signalBars renders n of 4 signal bars.
func signalBars(n int) string {
	const bars = "▂▄▆█"
	runes := []rune(bars)
	var b strings.Builder
	for i, r := range runes {
		if i < n {
			b.WriteString(lipgloss.NewStyle().Foreground(ColorHealthy).Render(string(r)))
		} else {
			b.WriteString(MutedStyle.Render(string(r)))
		}
	}
	return b.String()
}

// renderDashboard renders water movement and, when enabled, sensor sections.
func (m Model) renderDashboard() string {
	width := m.contentWidth()
	sections := []string{m.renderMovementSection(width)}

	if m.reducer.Options().SensorsEnabled {
		sections = append(sections, m.renderHeartRateSection(width), m.renderMotionSection(width))
		if m.state.LastError != "" {
			sections = append(sections, ErrorStyle.Render("✗ "+m.state.LastError))
		}
	}

	return strings.Join(sections, "\n")
}

func (m Model) renderMovementSection(width int) string {
	threshold := m.reducer.Options().Threshold
	inner := width - 4

	value := "--"
	if m.state.HasSample {
		value = fmt.Sprintf("%d%%", m.state.WaterMovement)
	}

	lines := []string{SectionHeader("Water movement", value, width)}

	if m.state.Monitoring != session.Active && !m.state.HasSample {
		lines = append(lines, SectionContentLine(LabelStyle.Render("Monitoring is off. Press m to start."), width))
	} else {
		color := MovementColor(m.state.WaterMovement, threshold)
		lines = append(lines, SectionContentLine(ProgressBar(inner, float64(m.state.WaterMovement), color), width))

		trail := RenderMiniSparkline(m.movement.Values(), inner)
		lines = append(lines, SectionContentLine(lipgloss.NewStyle().Foreground(color).Render(trail), width))
	}

	lines = append(lines,
		SectionContentLine(MutedStyle.Render(fmt.Sprintf("alert above %d%% | monitoring %s", threshold, m.state.MonitoringLabel())), width),
		SectionFooter(width),
	)
	return strings.Join(lines, "\n")
}

func (m Model) renderHeartRateSection(width int) string {
	value := "--"
	if last, ok := m.state.Series.Last(); ok {
		value = fmt.Sprintf("%.0f", last.Value)
	}

	lines := []string{SectionHeader("Heart rate", value, width)}

	points := m.state.Series.Points()
	if len(points) == 0 {
		lines = append(lines, SectionContentLine(LabelStyle.Render("Waiting for sensor data..."), width))
	} else {
		chart := RenderBrailleChart(m.state.Series.Values(), width-4, chartHeight, ColorGraph)
		for _, row := range strings.Split(chart, "\n") {
			lines = append(lines, SectionContentLine(row, width))
		}
		lines = append(lines, SectionContentLine(axisLabels(points, width-4), width))
	}

	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// axisLabels renders the oldest label on the left and the newest on the right.
func axisLabels(points []sensor.Point, width int) string {
	first := points[0].Label
	last := points[len(points)-1].Label
	if len(points) == 1 {
		return MutedStyle.Render(fmt.Sprintf("%*s", width, last))
	}
	gap := width - len(first) - len(last)
	if gap < 1 {
		return MutedStyle.Render(last)
	}
	return MutedStyle.Render(first + strings.Repeat(" ", gap) + last)
}

func (m Model) renderMotionSection(width int) string {
	r := m.state.Reading
	value := "--"
	if r != nil {
		value = fmt.Sprintf("%.1f°C", r.Motion.Temperature)
	}

	lines := []string{SectionHeader("Sensors", value, width)}
	if r == nil {
		lines = append(lines, SectionContentLine(LabelStyle.Render("No reading yet"), width))
	} else {
		lines = append(lines,
			SectionContentLine(LabelStyle.Render("Red       ")+ValueStyle.Render(formatOptional(r.HeartRate.Red)), width),
			SectionContentLine(LabelStyle.Render("IR        ")+ValueStyle.Render(formatOptional(r.HeartRate.IR)), width),
			SectionContentLine(LabelStyle.Render("Gyro      ")+ValueStyle.Render(formatVector(r.Motion.Gyroscope)), width),
			SectionContentLine(LabelStyle.Render("Accel     ")+ValueStyle.Render(formatVector(r.Motion.Accelerometer)), width),
		)
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderFooter renders the context-sensitive key hints.
func (m Model) renderFooter() string {
	return FooterStyle.Render(m.help.ShortHelpView(keys.shortHelpFor(m.state)))
}

func formatOptional(v *float64) string {
	if v == nil {
		return "--"
	}
	return fmt.Sprintf("%.1f", *v)
}

func formatVector(v sensor.Vector3) string {
	return fmt.Sprintf("x %6.2f  y %6.2f  z %6.2f", v.X, v.Y, v.Z)
}
