package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hydroguard/hydroguard/internal/config"
	"github.com/hydroguard/hydroguard/internal/errors"
)

// MonitorFlags are the config overrides shared by monitor and watch.
type MonitorFlags struct {
	Device    string
	Interval  string
	Threshold int
	Endpoint  string
	NoSensors bool
}

// AddMonitorFlags registers --device, --interval, --threshold, --endpoint and --no-sensors.
func AddMonitorFlags(cmd *cobra.Command, flags *MonitorFlags) {
	cmd.Flags().StringVar(&flags.Device, "device", "", "connect to this device ID as soon as a scan lists it")
	cmd.Flags().StringVar(&flags.Interval, "interval", "", "tick interval (e.g., 3s, 1500ms)")
	cmd.Flags().IntVar(&flags.Threshold, "threshold", -1, "alert when water movement exceeds this percentage")
	cmd.Flags().StringVar(&flags.Endpoint, "endpoint", "", "sensor endpoint URL")
	cmd.Flags().BoolVar(&flags.NoSensors, "no-sensors", false, "skip sensor polling (movement only)")
}

// Apply copies set flags onto cfg and re-validates it.
func (f MonitorFlags) Apply(cfg *config.Config) error {
	interval, err := ParseDurationFlag("interval", f.Interval)
	if err != nil {
		return err
	}
	if interval > 0 {
		cfg.Monitor.Interval = interval
	}
	if f.Threshold >= 0 {
		cfg.Monitor.Threshold = f.Threshold
	}
	if f.Endpoint != "" {
		cfg.Sensor.Endpoint = f.Endpoint
		cfg.Sensor.Enabled = true
	}
	if f.NoSensors {
		cfg.Sensor.Enabled = false
	}
	return config.Validate(cfg)
}

// ParseDurationFlag parses a duration flag value.
// Returns zero duration if the flag is empty.
func ParseDurationFlag(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid --%s", value, name),
			"Try something like 3s, 1m, or 500ms.")
	}
	return duration, nil
}
