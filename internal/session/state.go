// Package session holds the HydroGuard view-state machine.
//
// The whole flow (scan, connect, monitor, alert, sensor polling) is a pure
// reducer: Reduce takes the current State and one Msg and returns the next
// State plus the Effects a driver must perform (timers, scans, HTTP
// fetches). Two drivers exist: the Bubble Tea dashboard in
// internal/monitor, and Engine, a headless event loop used by
// `hydroguard watch`.
//
// # Cancellation
//
// The monitoring timer is cancelled by generation. Every Start/Stop/
// Disconnect bumps State.TickGen, and a Tick whose Gen does not match is
// dropped. A tick that was already queued when monitoring stopped therefore
// reaches the reducer and has no effect.
//
// # Fetch ordering
//
// At most one sensor fetch is in flight. A tick that fires while a fetch is
// outstanding samples water movement as usual but skips the fetch. Results
// carry a sequence number; Disconnect invalidates every outstanding one.
package session

import (
	"time"

	"github.com/hydroguard/hydroguard/internal/device"
	"github.com/hydroguard/hydroguard/internal/sensor"
)

// Defaults for the monitoring loop.
const (
	DefaultInterval  = 3 * time.Second
	DefaultThreshold = 70
)

// FetchErrorMessage is the single user-facing message shown for any fetch failure.
const FetchErrorMessage = "Failed to fetch sensor data"

// ConnectionState tracks where the device flow is.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Scanning
	Listing
	Connecting
	Connected
)

// String returns a human-readable connection state.
func (c ConnectionState) String() string {
	switch c {
	case Disconnected:
		return "disconnected"
	case Scanning:
		return "scanning"
	case Listing:
		return "listing"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// MonitoringState tracks whether the monitoring loop runs.
// The alert overlay is a flag on State, not a separate monitoring state.
type MonitoringState int

const (
	Idle MonitoringState = iota
	Active
)

// String returns a human-readable monitoring state.
func (m MonitoringState) String() string {
	switch m {
	case Idle:
		return "idle"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// Screen identifies which screen a driver should render.
type Screen int

const (
	ScreenScan Screen = iota
	ScreenDevices
	ScreenDashboard
)

// Options configure the reducer.
type Options struct {
	// Interval between monitoring ticks.
	Interval time.Duration

	// Threshold above which a water-movement sample raises the alert.
	Threshold int

	// SensorsEnabled turns on the per-tick sensor fetch.
	SensorsEnabled bool

	// SeriesSize is the heart-rate chart capacity.
	SeriesSize int
}

// DefaultOptions returns the stock monitoring options.
func DefaultOptions() Options {
	return Options{
		Interval:       DefaultInterval,
		Threshold:      DefaultThreshold,
		SensorsEnabled: true,
		SeriesSize:     sensor.DefaultSeriesSize,
	}
}

// withDefaults fills zero fields.
func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.SeriesSize <= 0 {
		o.SeriesSize = sensor.DefaultSeriesSize
	}
	return o
}

// State is the complete view state. It is a value: Reduce never mutates
// the State it is given.
type State struct {
	Connection ConnectionState
	Monitoring MonitoringState
	Alert      bool

	// Devices is the last scan result; nil until a scan completes.
	Devices []device.Device
	// Device is the selected (connecting or connected) device.
	Device *device.Device

	// WaterMovement is the latest sample in [0,100). HasSample is false until
	// the first tick of a session.
	WaterMovement int
	HasSample     bool
	Ticks         uint64

	Reading   *sensor.Reading
	Series    sensor.Series
	LastError string

	// Notice is the most recent transient notification text.
	Notice string

	TickGen       uint64
	FetchInFlight bool
	FetchSeq      uint64
	AppliedSeq    uint64
}

// NewState returns the initial disconnected state.
func NewState(opts Options) State {
	opts = opts.withDefaults()
	return State{
		Connection: Disconnected,
		Monitoring: Idle,
		Series:     sensor.NewSeries(opts.SeriesSize),
	}
}

// Screen returns the screen matching the connection state.
func (s State) Screen() Screen {
	switch s.Connection {
	case Listing, Connecting:
		return ScreenDevices
	case Connected:
		return ScreenDashboard
	default:
		return ScreenScan
	}
}

// IsMonitoring reports whether the monitoring loop is running.
func (s State) IsMonitoring() bool {
	return s.Connection == Connected && s.Monitoring == Active
}

// MonitoringLabel is the monitoring status shown to users: idle, active or alert.
func (s State) MonitoringLabel() string {
	if s.Monitoring == Active && s.Alert {
		return "alert"
	}
	return s.Monitoring.String()
}

// DeviceName returns the selected device name, or "" when none.
func (s State) DeviceName() string {
	if s.Device == nil {
		return ""
	}
	return s.Device.Name
}
