package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hydroguard/hydroguard/internal/device"
	"github.com/hydroguard/hydroguard/internal/errors"
)

// deviceItem implements list.Item for the Bubbles list component.
type deviceItem struct {
	device device.Device
}

func (i deviceItem) Title() string {
	return i.device.Name
}

func (i deviceItem) Description() string {
	return fmt.Sprintf("%s | signal %d%% %s", i.device.ID, i.device.SignalStrength, signalBars(i.device.SignalBars()))
}

func (i deviceItem) FilterValue() string {
	return i.device.Name + " " + i.device.ID
}

// DevicePickerModel is a Bubble Tea model for choosing a device from a scan.
type DevicePickerModel struct {
	list     list.Model
	selected *device.Device
	quitting bool
}

type devicePickerKeyMap struct {
	Enter key.Binding
	Quit  key.Binding
}

var devicePickerKeys = devicePickerKeyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "connect"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "cancel"),
	),
}

// NewDevicePickerModel creates a picker over devices, in scan order.
func NewDevicePickerModel(devices []device.Device) DevicePickerModel {
	items := make([]list.Item, len(devices))
	for i, d := range devices {
		items[i] = deviceItem{device: d}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorBrand).
		BorderForeground(ColorBrand)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorMuted).
		BorderForeground(ColorBrand)

	l := list.New(items, delegate, 60, 14)
	l.Title = "Select a HydroGuard device"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(len(devices) > 5)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(ColorBrand).
		Bold(true).
		Padding(0, 0, 1, 0)
	l.Styles.HelpStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	return DevicePickerModel{list: l}
}

// Init implements tea.Model.
func (m DevicePickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m DevicePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Let the list own keys while the user is typing a filter.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, devicePickerKeys.Enter):
			if item, ok := m.list.SelectedItem().(deviceItem); ok {
				d := item.device
				m.selected = &d
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, devicePickerKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m DevicePickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// Selected returns the chosen device, or nil if cancelled.
func (m DevicePickerModel) Selected() *device.Device {
	return m.selected
}

// PickDevice shows the picker on the given I/O and returns the chosen
// device, or nil if the user cancels. A single device is returned without
// prompting.
func PickDevice(devices []device.Device, output io.Writer, input io.Reader) (*device.Device, error) {
	if len(devices) == 0 {
		return nil, errors.New(errors.ErrDevice, "No devices to pick from",
			"Make sure the band is powered on and in range, then scan again.")
	}

	if len(devices) == 1 {
		d := devices[0]
		return &d, nil
	}

	p := tea.NewProgram(
		NewDevicePickerModel(devices),
		tea.WithOutput(output),
		tea.WithInput(input),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDevice, "Device picker failed",
			"Run again, or pass --device to choose a device directly.")
	}

	if m, ok := finalModel.(DevicePickerModel); ok {
		return m.Selected(), nil
	}

	return nil, nil
}
