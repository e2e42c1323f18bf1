package config

import (
	"time"

	"github.com/hydroguard/hydroguard/internal/device"
	"github.com/hydroguard/hydroguard/internal/sensor"
	"github.com/hydroguard/hydroguard/internal/session"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete HydroGuard configuration file.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	Sensor    SensorConfig    `yaml:"sensor" mapstructure:"sensor"`
	Monitor   MonitorConfig   `yaml:"monitor" mapstructure:"monitor"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SensorConfig controls the per-tick sensor fetch.
type SensorConfig struct {
	// Enabled turns on polling of the device's HTTP endpoint.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Endpoint is the full URL of the device's readings, e.g. http://192.168.4.1/sensors.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Timeout bounds one request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// MonitorConfig controls the monitoring loop.
type MonitorConfig struct {
	// Interval between ticks.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Threshold is the water-movement percentage above which the alert fires.
	Threshold int `yaml:"threshold" mapstructure:"threshold"`

	// HistorySize is the number of heart-rate points kept for the chart.
	HistorySize int `yaml:"history_size" mapstructure:"history_size"`
}

// DiscoveryConfig controls the simulated scan and connect delays.
type DiscoveryConfig struct {
	ScanDelay    time.Duration `yaml:"scan_delay" mapstructure:"scan_delay"`
	ConnectDelay time.Duration `yaml:"connect_delay" mapstructure:"connect_delay"`
}

// LogConfig controls where logs go.
type LogConfig struct {
	// File receives logs while the dashboard owns the terminal. Supports ~.
	File string `yaml:"file" mapstructure:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Sensor: SensorConfig{
			Enabled:  true,
			Endpoint: sensor.DefaultEndpoint,
		},
		Monitor: MonitorConfig{
			Interval:    session.DefaultInterval,
			Threshold:   session.DefaultThreshold,
			HistorySize: sensor.DefaultSeriesSize,
		},
		Discovery: DiscoveryConfig{
			ScanDelay:    device.DefaultScanDelay,
			ConnectDelay: device.DefaultConnectDelay,
		},
	}
}

// SessionOptions converts the monitor and sensor sections to reducer options.
func (c *Config) SessionOptions() session.Options {
	return session.Options{
		Interval:       c.Monitor.Interval,
		Threshold:      c.Monitor.Threshold,
		SensorsEnabled: c.Sensor.Enabled,
		SeriesSize:     c.Monitor.HistorySize,
	}
}
