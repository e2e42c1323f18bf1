package monitor

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestMetricColorWithThresholds(t *testing.T) {
	tests := []struct {
		name     string
		percent  float64
		warning  int
		critical int
		expect   lipgloss.Color
	}{
		{"healthy", 40.0, 50, 80, ColorHealthy},
		{"warning at threshold", 50.0, 50, 80, ColorWarning},
		{"warning", 60.0, 50, 80, ColorWarning},
		{"critical at threshold", 80.0, 50, 80, ColorCritical},
		{"critical", 95.0, 50, 80, ColorCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, MetricColorWithThresholds(tt.percent, tt.warning, tt.critical))
		})
	}
}

func TestMovementColor(t *testing.T) {
	tests := []struct {
		value     int
		threshold int
		expect    lipgloss.Color
	}{
		{10, 70, ColorHealthy},
		{54, 70, ColorHealthy},
		{55, 70, ColorWarning},
		{70, 70, ColorWarning},
		{71, 70, ColorCritical},
		{99, 70, ColorCritical},
		{5, 10, ColorWarning},
		{0, 0, ColorWarning},
		{1, 0, ColorCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expect, MovementColor(tt.value, tt.threshold),
			"value=%d threshold=%d", tt.value, tt.threshold)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		percent    float64
		wantFilled int
		wantWidth  int
	}{
		{"zero", 10, 0, 0, 10},
		{"half", 10, 50, 5, 10},
		{"full", 10, 100, 10, 10},
		{"negative clamped", 10, -10, 0, 10},
		{"over 100 clamped", 10, 150, 10, 10},
		{"minimum width", 0, 50, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := ProgressBar(tt.width, tt.percent, ColorHealthy)
			assert.Equal(t, tt.wantWidth, lipgloss.Width(bar))
			assert.Equal(t, tt.wantFilled, strings.Count(bar, "▰"))
		})
	}
}

func TestSectionHeader(t *testing.T) {
	header := SectionHeader("Heart rate", "72", 40)

	assert.Equal(t, 40, lipgloss.Width(header))
	assert.Contains(t, header, "Heart rate")
	assert.Contains(t, header, "72")
	assert.Contains(t, header, "╭─")
	assert.Contains(t, header, "╮")
}

func TestSectionHeader_MinimumWidth(t *testing.T) {
	header := SectionHeader("A very long section title", "100%", 5)
	assert.Contains(t, header, "A very long section title")
}

func TestSectionFooter(t *testing.T) {
	footer := SectionFooter(20)
	assert.Equal(t, 20, lipgloss.Width(footer))
	assert.Contains(t, footer, "╰")
	assert.Contains(t, footer, "╯")

	assert.Equal(t, 2, lipgloss.Width(SectionFooter(0)))
}

func TestSectionContentLine(t *testing.T) {
	line := SectionContentLine("hello", 30)

	assert.Equal(t, 30, lipgloss.Width(line))
	assert.Contains(t, line, "hello")
}

func TestSectionContentLine_Overflow(t *testing.T) {
	line := SectionContentLine(strings.Repeat("x", 40), 20)
	assert.Contains(t, line, strings.Repeat("x", 40))
}
