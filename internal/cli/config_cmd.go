package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/hydroguard/hydroguard/internal/config"
	"github.com/hydroguard/hydroguard/internal/errors"
	"github.com/hydroguard/hydroguard/internal/sensor"
	"github.com/hydroguard/hydroguard/internal/ui"
	"github.com/hydroguard/hydroguard/internal/util"
)

const probeTimeout = 3 * time.Second

// newProbeFetcher builds the fetcher used to test an endpoint during init.
var newProbeFetcher = func(endpoint string) sensor.Fetcher {
	return sensor.NewClient(endpoint, probeTimeout, nil)
}

// ConfigInitOptions holds options for `config init`.
type ConfigInitOptions struct {
	Path           string // Explicit target; overrides Global
	Global         bool   // Write ~/.config/hydroguard/config.yaml instead of ./.hydroguard.yaml
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults and flags
	Probe          bool   // Test the sensor endpoint before saving (always on when interactive)

	Endpoint  string
	Threshold int // -1 keeps the default
	Interval  time.Duration
	NoSensors bool

	Out io.Writer
}

// initTarget resolves where `config init` writes.
func (o ConfigInitOptions) initTarget() (string, error) {
	if o.Path != "" {
		return config.ExpandTilde(o.Path), nil
	}
	if o.Global {
		path := config.GlobalConfigPath()
		if path == "" {
			return "", errors.New(errors.ErrConfig,
				"Cannot determine your home directory",
				"Pass --config with an explicit path instead")
		}
		return path, nil
	}
	return filepath.Join(".", config.ConfigFileName), nil
}

// ConfigInit creates a new config file.
func ConfigInit(ctx context.Context, opts ConfigInitOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	configPath, err := opts.initTarget()
	if err != nil {
		return err
	}

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", configPath)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(opts.Out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if opts.Endpoint != "" {
		cfg.Sensor.Endpoint = opts.Endpoint
	}
	if opts.Threshold >= 0 {
		cfg.Monitor.Threshold = opts.Threshold
	}
	if opts.Interval > 0 {
		cfg.Monitor.Interval = opts.Interval
	}
	cfg.Sensor.Enabled = !opts.NoSensors

	if !opts.NonInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	if cfg.Sensor.Enabled && (opts.Probe || !opts.NonInteractive) {
		if err := probeEndpoint(ctx, opts, cfg.Sensor.Endpoint); err != nil {
			return err
		}
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	header := `# HydroGuard configuration
# Run 'hydroguard monitor' for the dashboard or 'hydroguard watch' for a headless log.
# Environment variables override any key, e.g. HYDROGUARD_MONITOR_THRESHOLD=80.

`
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to create directory for %s", configPath),
			"Check directory permissions")
	}
	if err := os.WriteFile(configPath, []byte(header+string(data)), 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Fprintf(opts.Out, "%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Fprintln(opts.Out, "Next steps:")
	fmt.Fprintln(opts.Out, "  hydroguard devices   - Scan for bands")
	fmt.Fprintln(opts.Out, "  hydroguard monitor   - Open the dashboard")
	fmt.Fprintln(opts.Out, "  hydroguard simulate  - Serve fake readings for testing")

	return nil
}

// promptConfig asks for the handful of values people actually change.
func promptConfig(cfg *config.Config) error {
	endpoint := cfg.Sensor.Endpoint
	threshold := strconv.Itoa(cfg.Monitor.Threshold)
	interval := cfg.Monitor.Interval
	sensors := cfg.Sensor.Enabled

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Poll heart-rate and motion sensors?").
				Description("Needs the band's HTTP endpoint on your network").
				Value(&sensors),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Sensor endpoint").
				Description("Full URL of the band's readings").
				Placeholder(sensor.DefaultEndpoint).
				Value(&endpoint).
				Validate(config.ValidateEndpoint),
		).WithHideFunc(func() bool { return !sensors }),
		huh.NewGroup(
			huh.NewInput().
				Title("Alert threshold (%)").
				Description("Alert when water movement goes above this").
				Value(&threshold).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 0 || n > 100 {
						return fmt.Errorf("enter a whole number from 0 to 100")
					}
					return nil
				}),
			huh.NewSelect[time.Duration]().
				Title("Sampling interval").
				Options(
					huh.NewOption("1s", time.Second),
					huh.NewOption("2s", 2*time.Second),
					huh.NewOption("3s (default)", 3*time.Second),
					huh.NewOption("5s", 5*time.Second),
				).
				Value(&interval),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive flag")
	}

	cfg.Sensor.Enabled = sensors
	cfg.Sensor.Endpoint = endpoint
	cfg.Monitor.Threshold, _ = strconv.Atoi(threshold)
	cfg.Monitor.Interval = interval
	return nil
}

// probeEndpoint fetches one reading. Interactive runs may save anyway.
func probeEndpoint(ctx context.Context, opts ConfigInitOptions, endpoint string) error {
	fetcher := newProbeFetcher(endpoint)
	err := ui.Spin(opts.Out, "Testing "+endpoint, func() error {
		_, err := fetcher.Fetch(ctx)
		return err
	})
	if err == nil {
		fmt.Fprintln(opts.Out)
		return nil
	}

	if opts.NonInteractive {
		return err
	}

	fmt.Fprintf(opts.Out, "\n%s %s\n\n", ui.SymbolFail, util.FirstLine(err.Error()))

	var saveAnyway bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save config anyway? (The band may just be switched off)").
				Value(&saveAnyway),
		),
	)
	if formErr := form.Run(); formErr != nil || !saveAnyway {
		return err
	}
	return nil
}

// ConfigShow prints the effective config (file plus env overrides).
func ConfigShow(out io.Writer) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}

	if machineMode {
		// Round-trip through YAML so durations stay human-readable.
		var tree map[string]interface{}
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return err
		}
		return WriteJSONSuccess(out, map[string]interface{}{
			"path":   path,
			"config": tree,
		})
	}

	source := path
	if source == "" {
		source = "defaults (no config file found)"
	}
	fmt.Fprintf(out, "# source: %s\n", source)
	_, err = out.Write(data)
	return err
}

// ConfigSet updates one key in the config file that would be loaded, or in
// a new file when none exists yet.
func ConfigSet(out io.Writer, key, value string, global bool) error {
	path, err := config.Find(cfgFile)
	if err != nil {
		return err
	}
	if path == "" {
		path, err = ConfigInitOptions{Global: global}.initTarget()
		if err != nil {
			return err
		}
	}

	if err := config.SetValue(path, key, value); err != nil {
		return err
	}

	if machineMode {
		return WriteJSONSuccess(out, map[string]string{"path": path, "key": key, "value": value})
	}
	fmt.Fprintf(out, "%s %s = %s (%s)\n", ui.SymbolSuccess, key, value, path)
	return nil
}

// ConfigPath prints the config file that would be loaded.
func ConfigPath(out io.Writer) error {
	path, err := config.Find(cfgFile)
	if err != nil {
		return err
	}
	if machineMode {
		return WriteJSONSuccess(out, map[string]string{"path": path})
	}
	if path == "" {
		fmt.Fprintln(out, "No config file found; using defaults.")
		return nil
	}
	fmt.Fprintln(out, path)
	return nil
}
