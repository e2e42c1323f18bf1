package monitor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hydroguard/hydroguard/internal/session"
)

// keyMap holds every binding the dashboard understands.
type keyMap struct {
	Scan        key.Binding
	Up          key.Binding
	Down        key.Binding
	Connect     key.Binding
	Toggle      key.Binding
	Acknowledge key.Binding
	Disconnect  key.Binding
	ToggleHelp  key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Scan: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "scan"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "previous device"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next device"),
	),
	Connect: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "connect"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("m", " "),
		key.WithHelp("m/space", "start/stop monitoring"),
	),
	Acknowledge: key.NewBinding(
		key.WithKeys("a", "enter", "esc"),
		key.WithHelp("a/enter", "acknowledge alert"),
	),
	Disconnect: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "disconnect"),
	),
	ToggleHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scan, k.Toggle, k.ToggleHelp, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Scan, k.Up, k.Down, k.Connect},
		{k.Toggle, k.Acknowledge, k.Disconnect},
		{k.ToggleHelp, k.Quit},
	}
}

// shortHelpFor returns the footer bindings relevant to the current state.
func (k keyMap) shortHelpFor(s session.State) []key.Binding {
	switch {
	case s.Alert:
		return []key.Binding{k.Acknowledge, k.Toggle, k.Quit}
	case s.Connection == session.Disconnected:
		return []key.Binding{k.Scan, k.ToggleHelp, k.Quit}
	case s.Connection == session.Listing:
		return []key.Binding{k.Up, k.Down, k.Connect, k.Scan, k.Quit}
	case s.Connection == session.Connected:
		return []key.Binding{k.Toggle, k.Disconnect, k.ToggleHelp, k.Quit}
	default:
		return []key.Binding{k.Quit}
	}
}

// HandleKeyMsg processes keyboard input.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		m.quitting = true
		return true, tea.Quit
	}

	if key.Matches(msg, keys.ToggleHelp) {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp {
		if msg.String() == "esc" {
			m.showHelp = false
		}
		return true, nil
	}

	// The alert overlay is modal: only acknowledge and stop get through.
	if m.state.Alert {
		switch {
		case key.Matches(msg, keys.Acknowledge):
			return true, m.dispatch(session.AcknowledgeAlert{})
		case key.Matches(msg, keys.Toggle):
			return true, m.dispatch(session.StopMonitoring{})
		}
		return true, nil
	}

	switch m.state.Connection {
	case session.Disconnected:
		if key.Matches(msg, keys.Scan, keys.Connect) {
			return true, m.dispatch(session.Scan{})
		}

	case session.Listing:
		switch {
		case key.Matches(msg, keys.Up):
			if m.selected > 0 {
				m.selected--
			}
			return true, nil
		case key.Matches(msg, keys.Down):
			if m.selected < len(m.state.Devices)-1 {
				m.selected++
			}
			return true, nil
		case key.Matches(msg, keys.Connect):
			if m.selected >= 0 && m.selected < len(m.state.Devices) {
				return true, m.dispatch(session.Connect{DeviceID: m.state.Devices[m.selected].ID})
			}
			return true, nil
		case key.Matches(msg, keys.Scan):
			return true, m.dispatch(session.Scan{})
		}

	case session.Connected:
		switch {
		case key.Matches(msg, keys.Toggle):
			if m.state.Monitoring == session.Active {
				return true, m.dispatch(session.StopMonitoring{})
			}
			return true, m.dispatch(session.StartMonitoring{})
		case key.Matches(msg, keys.Disconnect):
			return true, m.dispatch(session.Disconnect{})
		}
	}

	return false, nil
}
