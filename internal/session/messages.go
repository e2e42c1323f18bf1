package session

import (
	"time"

	"github.com/hydroguard/hydroguard/internal/device"
	"github.com/hydroguard/hydroguard/internal/sensor"
)

// Msg is a transition input to Reduce.
type Msg interface {
	sessionMsg()
}

// Scan starts (or restarts) device discovery.
type Scan struct{}

// DevicesFound delivers a completed scan.
type DevicesFound struct {
	Devices []device.Device
}

// Connect selects a listed device and begins pairing.
type Connect struct {
	DeviceID string
}

// Paired reports that pairing with DeviceID finished.
type Paired struct {
	DeviceID string
}

// StartMonitoring begins the tick loop.
type StartMonitoring struct{}

// Tick is one firing of the monitoring timer for generation Gen.
type Tick struct {
	Gen uint64
}

// StopMonitoring halts the tick loop and clears the alert.
type StopMonitoring struct{}

// AcknowledgeAlert dismisses the alert overlay.
type AcknowledgeAlert struct{}

// FetchSucceeded delivers the reading for fetch Seq, received at At.
type FetchSucceeded struct {
	Seq     uint64
	Reading *sensor.Reading
	At      time.Time
}

// FetchFailed reports that fetch Seq failed.
type FetchFailed struct {
	Seq uint64
	Err error
}

// Disconnect drops the device and resets the session.
type Disconnect struct{}

func (Scan) sessionMsg()             {}
func (DevicesFound) sessionMsg()     {}
func (Connect) sessionMsg()          {}
func (Paired) sessionMsg()           {}
func (StartMonitoring) sessionMsg()  {}
func (Tick) sessionMsg()             {}
func (StopMonitoring) sessionMsg()   {}
func (AcknowledgeAlert) sessionMsg() {}
func (FetchSucceeded) sessionMsg()   {}
func (FetchFailed) sessionMsg()      {}
func (Disconnect) sessionMsg()       {}

// Effect is work Reduce asks its driver to perform.
type Effect interface {
	sessionEffect()
}

// RunScan asks the driver to run a device scan and deliver DevicesFound.
type RunScan struct{}

// RunConnect asks the driver to pair with Device and deliver Paired.
type RunConnect struct {
	Device device.Device
}

// ScheduleTick asks the driver to deliver Tick{Gen} after Delay.
type ScheduleTick struct {
	Gen   uint64
	Delay time.Duration
}

// FetchSensors asks the driver to fetch one reading and deliver
// FetchSucceeded or FetchFailed with the same Seq.
type FetchSensors struct {
	Seq uint64
}

// PromptAlert asks the driver to surface the blocking alert prompt.
type PromptAlert struct {
	Value     int
	Threshold int
}

// Notify asks the driver to show a transient notification.
type Notify struct {
	Text string
}

func (RunScan) sessionEffect()      {}
func (RunConnect) sessionEffect()   {}
func (ScheduleTick) sessionEffect() {}
func (FetchSensors) sessionEffect() {}
func (PromptAlert) sessionEffect()  {}
func (Notify) sessionEffect()       {}
