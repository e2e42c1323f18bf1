// Package monitor implements the HydroGuard terminal dashboard.
//
// The dashboard is a Bubble Tea program (Model-Update-View). All state
// transitions go through session.Reducer; Model translates reducer effects
// into Bubble Tea commands and renders the resulting state.
//
// # Screens
//
// The screen follows the connection state:
//
//	disconnected, scanning  - scan screen with spinner
//	listing, connecting     - device list, then connecting spinner
//	connected               - monitoring dashboard
//
// The dashboard shows the water-movement sample as a threshold-colored bar
// with a short trail, and in the sensor variant a braille line chart of the
// last heart-rate points plus the latest motion reading.
//
// # Overlays
//
// The alert overlay is modal while the alert flag is set: only acknowledge
// and stop are accepted. Monitoring keeps ticking underneath it, so the
// alert reappears on the next sample above the threshold.
//
// # Keyboard Shortcuts
//
//	s           - Scan for devices
//	j/k, ↑/↓    - Select device
//	Enter       - Connect to the selected device
//	m, Space    - Start or stop monitoring
//	a           - Acknowledge the alert
//	d           - Disconnect
//	?           - Toggle help overlay
//	q, Ctrl+C   - Quit
package monitor
