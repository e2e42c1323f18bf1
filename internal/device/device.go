// Package device provides the mock discovery and connection flow for
// HydroGuard wearables and pool sensors.
package device

import (
	"context"
	"fmt"
	"time"
)

// Default delays for the mock radio flow.
const (
	DefaultScanDelay    = 2 * time.Second
	DefaultConnectDelay = 1500 * time.Millisecond
)

// Device is a discovered HydroGuard unit.
type Device struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	SignalStrength int    `json:"signal_strength" yaml:"signal_strength"` // percent, 0-100
}

// String returns "name (id)".
func (d Device) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.ID)
}

// SignalBars maps signal strength onto 0-4 bars.
func (d Device) SignalBars() int {
	switch {
	case d.SignalStrength >= 80:
		return 4
	case d.SignalStrength >= 60:
		return 3
	case d.SignalStrength >= 40:
		return 2
	case d.SignalStrength > 0:
		return 1
	default:
		return 0
	}
}

// MockDevices returns the fixed list every scan reports.
// A fresh slice is returned on each call so callers may modify it.
func MockDevices() []Device {
	return []Device{
		{ID: "001", Name: "HydroGuard Band A", SignalStrength: 92},
		{ID: "002", Name: "HydroGuard Band B", SignalStrength: 78},
		{ID: "003", Name: "HydroGuard Pool Sensor", SignalStrength: 64},
	}
}

// Find returns the device with the given id.
func Find(devices []Device, id string) (Device, bool) {
	for _, d := range devices {
		if d.ID == id {
			return d, true
		}
	}
	return Device{}, false
}

// Scanner discovers nearby devices.
type Scanner interface {
	Scan(ctx context.Context) ([]Device, error)
}

// MockScanner reports MockDevices after a fixed delay. It never fails on its
// own; the only error it returns is ctx.Err() when the caller gives up.
type MockScanner struct {
	Delay time.Duration
}

// NewMockScanner creates a scanner with the given delay (0 uses DefaultScanDelay).
func NewMockScanner(delay time.Duration) *MockScanner {
	if delay <= 0 {
		delay = DefaultScanDelay
	}
	return &MockScanner{Delay: delay}
}

// Scan blocks for the scan delay, then returns the mock list.
func (s *MockScanner) Scan(ctx context.Context) ([]Device, error) {
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return MockDevices(), nil
	}
}

// Connector pairs with a discovered device.
type Connector interface {
	Connect(ctx context.Context, d Device) error
}

// MockConnector "pairs" by waiting a fixed delay. Like MockScanner it only
// returns ctx.Err().
type MockConnector struct {
	Delay time.Duration
}

// NewMockConnector creates a connector with the given delay (0 uses DefaultConnectDelay).
func NewMockConnector(delay time.Duration) *MockConnector {
	if delay <= 0 {
		delay = DefaultConnectDelay
	}
	return &MockConnector{Delay: delay}
}

// Connect blocks for the connect delay.
func (c *MockConnector) Connect(ctx context.Context, _ Device) error {
	timer := time.NewTimer(c.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
