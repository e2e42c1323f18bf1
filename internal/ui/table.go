package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/hydroguard/hydroguard/internal/device"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a non-focused Bubbles table with the CLI styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.Foreground(ColorPrimary)
	// Not focused, so no row should look selected.
	s.Selected = lipgloss.NewStyle()

	t.SetStyles(s)
	// Header is two lines tall once it has a bottom border.
	t.SetHeight(len(rows) + 2)
	return t
}

var deviceColumns = []TableColumn{
	{Title: " ", Width: 1},
	{Title: "ID", Width: 5},
	{Title: "NAME", Width: 22},
	{Title: "SIGNAL", Width: 8},
	{Title: "BARS", Width: 6},
}

// RenderDeviceTable renders a scan result for CLI output. The device whose
// ID matches highlight gets a marker in the first column.
func RenderDeviceTable(devices []device.Device, highlight string) string {
	if len(devices) == 0 {
		return lipgloss.NewStyle().Foreground(ColorMuted).Render("No devices found") + "\n"
	}

	rows := make([]table.Row, len(devices))
	for i, d := range devices {
		marker := ""
		if d.ID == highlight {
			marker = SymbolDevice
		}
		rows[i] = table.Row{
			marker,
			d.ID,
			d.Name,
			strconv.Itoa(d.SignalStrength) + "%",
			signalBars(d.SignalBars()),
		}
	}

	return NewTable(deviceColumns, rows).View() + "\n"
}

// signalBars renders n of 4 bars as plain text (tables measure raw width).
func signalBars(n int) string {
	bars := []rune("▂▄▆█")
	out := make([]rune, len(bars))
	for i := range bars {
		if i < n {
			out[i] = bars[i]
		} else {
			out[i] = '·'
		}
	}
	return string(out)
}

// FormatDeviceLine renders a one-line device summary, e.g. for watch output.
func FormatDeviceLine(d device.Device) string {
	return fmt.Sprintf("%s %s (%s, signal %d%%)", SymbolDevice, d.Name, d.ID, d.SignalStrength)
}
