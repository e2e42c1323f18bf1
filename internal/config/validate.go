package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/hydroguard/hydroguard/internal/errors"
)

// Limits enforced by Validate.
const (
	MinInterval    = 500 * time.Millisecond
	MaxHistorySize = 1000
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but hydroguard only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade hydroguard or lower the version field.")
	}

	if err := validateMonitor(cfg.Monitor); err != nil {
		return err
	}

	if err := validateSensor(cfg.Sensor); err != nil {
		return err
	}

	if cfg.Discovery.ScanDelay < 0 || cfg.Discovery.ConnectDelay < 0 {
		return errors.New(errors.ErrConfig,
			"Discovery delays can't be negative",
			"Set discovery.scan_delay and discovery.connect_delay to 0 or more (like 2s).")
	}

	return nil
}

func validateMonitor(m MonitorConfig) error {
	if m.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Monitor interval %s is too short", m.Interval),
			fmt.Sprintf("Minimum interval is %s to avoid hammering the device.", MinInterval))
	}

	if m.Threshold < 0 || m.Threshold > 100 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Alert threshold %d is out of range", m.Threshold),
			"Threshold is a percentage between 0 and 100.")
	}

	if m.HistorySize < 1 || m.HistorySize > MaxHistorySize {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("History size %d is out of range", m.HistorySize),
			fmt.Sprintf("Keep monitor.history_size between 1 and %d.", MaxHistorySize))
	}

	return nil
}

func validateSensor(s SensorConfig) error {
	if s.Timeout < 0 {
		return errors.New(errors.ErrConfig,
			"Sensor timeout can't be negative",
			"Use 0 for no timeout, or a duration like 2s.")
	}

	if !s.Enabled {
		return nil
	}

	return ValidateEndpoint(s.Endpoint)
}

// ValidateEndpoint checks that endpoint is an absolute http(s) URL.
func ValidateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		cause := err
		if cause == nil {
			cause = fmt.Errorf("not an http(s) URL: %q", endpoint)
		}
		return errors.WrapWithCode(cause, errors.ErrConfig,
			"Invalid sensor endpoint: "+endpoint,
			"Use a full URL like http://192.168.4.1/sensors")
	}
	return nil
}
