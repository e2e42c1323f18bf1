package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hydroguard/hydroguard/internal/config"
	"github.com/hydroguard/hydroguard/internal/simulator"
)

// Command-specific flags
var (
	monitorFlags     MonitorFlags
	watchFlags       MonitorFlags
	watchTicks       int
	watchFailOnAlert bool
	devicesPick      bool
	simulateOpts     SimulateOptions
	initOpts         ConfigInitOptions
	initInterval     string
	setGlobal        bool
)

// monitorCmd starts the TUI dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Open the drowning-detection dashboard",
	Long: `Start the interactive dashboard: scan for bands, connect, and monitor
water movement with live heart-rate and motion readings.

When stdout is not a terminal, monitor falls back to the headless output of
'hydroguard watch'.

Keyboard shortcuts:
  s           Scan for devices
  up/k down/j Move through the device list
  Enter       Connect to the selected device
  m / Space   Start or stop monitoring
  a / Enter   Acknowledge an alert
  d           Disconnect
  ?           Show help
  q / Ctrl+C  Quit

Examples:
  hydroguard monitor
  hydroguard monitor --device 002
  hydroguard monitor --threshold 60 --interval 2s
  hydroguard monitor --endpoint http://127.0.0.1:8080/sensors`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()
		return monitorCommand(ctx, monitorFlags)
	},
}

// watchCmd runs a monitoring session without a UI
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor headlessly, one line per event",
	Long: `Scan, connect and monitor without the dashboard, printing each tick,
reading and alert as a line (or as JSON with --json). Alerts are
acknowledged automatically unless --fail-on-alert is set.

Exit codes:
  0  run finished (tick budget spent or interrupted)
  1  error
  2  alert raised with --fail-on-alert

Examples:
  hydroguard watch --ticks 20
  hydroguard watch --device 003 --no-sensors
  hydroguard watch --fail-on-alert --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if err := watchFlags.Apply(cfg); err != nil {
			return err
		}

		_, err = runWatch(ctx, cmd.OutOrStdout(), cfg, WatchOptions{
			Device:      watchFlags.Device,
			Ticks:       watchTicks,
			FailOnAlert: watchFailOnAlert,
			JSON:        machineMode,
		}, depsFromConfig(cfg, cliLogger("watch")))
		return err
	},
}

// devicesCmd scans and lists nearby bands
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Scan for HydroGuard devices",
	Long: `Scan for nearby HydroGuard bands and list them with signal strength.

Examples:
  hydroguard devices
  hydroguard devices --pick
  hydroguard devices --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		deps := depsFromConfig(cfg, cliLogger("devices"))
		return runDevices(ctx, DevicesOptions{
			Pick: devicesPick,
			Out:  cmd.OutOrStdout(),
			In:   cmd.InOrStdin(),
		}, deps.Scanner, deps.Connector)
	},
}

// simulateCmd serves a fake sensor endpoint
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Serve fake sensor readings for testing",
	Long: `Run a fake HydroGuard device on your machine. It serves random
heart-rate and motion readings at /sensors, Prometheus metrics at /metrics
and a health check at /healthz.

Examples:
  hydroguard simulate
  hydroguard simulate --addr 0.0.0.0:8080
  hydroguard simulate --fail-rate 20 --drop-red 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		opts := simulateOpts
		opts.Out = cmd.OutOrStdout()
		opts.Logger = cliLogger("simulator")
		return runSimulate(ctx, opts)
	},
}

// configCmd groups config file management
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create, inspect and edit the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file",
	Long: `Create a HydroGuard config file with sensible defaults.

Writes ./.hydroguard.yaml by default, or ~/.config/hydroguard/config.yaml
with --global. Prompts for the common settings unless --non-interactive.

Examples:
  hydroguard config init
  hydroguard config init --global
  hydroguard config init --non-interactive --endpoint http://10.0.0.5/sensors --threshold 65`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		interval, err := ParseDurationFlag("interval", initInterval)
		if err != nil {
			return err
		}

		opts := initOpts
		opts.Path = cfgFile
		opts.Interval = interval
		opts.Out = cmd.OutOrStdout()
		return ConfigInit(ctx, opts)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	Long:  `Print the config HydroGuard would use, with environment overrides applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ConfigShow(cmd.OutOrStdout())
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one config value",
	Long: `Set a single key in the config file, keeping its comments and layout.

Examples:
  hydroguard config set monitor.threshold 65
  hydroguard config set sensor.endpoint http://10.0.0.5/sensors
  hydroguard config set monitor.interval 2s`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.SettableKeys(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return ConfigSet(cmd.OutOrStdout(), args[0], args[1], setGlobal)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print which config file is in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		return ConfigPath(cmd.OutOrStdout())
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for hydroguard.

Examples:
  source <(hydroguard completion bash)
  hydroguard completion zsh > "${fpath[1]}/_hydroguard"`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		default:
			return rootCmd.GenPowerShellCompletion(out)
		}
	},
}

// signalContext is cmd's context, cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func init() {
	AddMonitorFlags(monitorCmd, &monitorFlags)

	AddMonitorFlags(watchCmd, &watchFlags)
	watchCmd.Flags().IntVar(&watchTicks, "ticks", 0, "stop after this many samples (0 = until interrupted)")
	watchCmd.Flags().BoolVar(&watchFailOnAlert, "fail-on-alert", false, "exit with code 2 on the first alert")

	devicesCmd.Flags().BoolVar(&devicesPick, "pick", false, "choose a device interactively and pair with it")

	simulateCmd.Flags().StringVar(&simulateOpts.Addr, "addr", simulator.DefaultAddr, "listen address")
	simulateCmd.Flags().IntVar(&simulateOpts.FailPercent, "fail-rate", 0, "percentage of requests answered with 503")
	simulateCmd.Flags().IntVar(&simulateOpts.DropRedPercent, "drop-red", 0, "percentage of readings without the red channel")

	configInitCmd.Flags().BoolVar(&initOpts.Global, "global", false, "write the user config instead of ./"+config.ConfigFileName)
	configInitCmd.Flags().BoolVarP(&initOpts.Overwrite, "force", "f", false, "overwrite an existing config")
	configInitCmd.Flags().BoolVar(&initOpts.NonInteractive, "non-interactive", false, "skip prompts")
	configInitCmd.Flags().BoolVar(&initOpts.Probe, "probe", false, "test the sensor endpoint before saving (non-interactive)")
	configInitCmd.Flags().StringVar(&initOpts.Endpoint, "endpoint", "", "sensor endpoint URL")
	configInitCmd.Flags().IntVar(&initOpts.Threshold, "threshold", -1, "alert threshold percentage")
	configInitCmd.Flags().StringVar(&initInterval, "interval", "", "tick interval (e.g., 3s)")
	configInitCmd.Flags().BoolVar(&initOpts.NoSensors, "no-sensors", false, "disable sensor polling")

	configSetCmd.Flags().BoolVar(&setGlobal, "global", false, "create the user config when no config file exists")

	configCmd.AddCommand(configInitCmd, configShowCmd, configSetCmd, configPathCmd)

	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
}
