package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/hydroguard/hydroguard/internal/config"
	"github.com/hydroguard/hydroguard/internal/errors"
	"github.com/hydroguard/hydroguard/internal/logger"
)

// Global flags
var (
	cfgFile string
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "hydroguard",
	Short: "Drowning-detection monitor for HydroGuard wearables",
	Long: `HydroGuard pairs with a wearable band, samples water movement on a
fixed cadence and raises an alert when it crosses a threshold. With sensors
enabled it also polls the band's heart-rate and motion readings over the LAN.

Run 'hydroguard monitor' for the dashboard, or 'hydroguard watch' for a
headless line-per-tick log.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.hydroguard.yaml or ~/.config/hydroguard/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&machineMode, "json", false, "machine-readable JSON output")
}

// Execute runs the root command and exits with the right status.
func Execute() {
	os.Exit(run(rootCmd, os.Stderr))
}

// run executes cmd and maps its error to an exit code, printing it to stderr.
func run(cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}

	if code, ok := errors.GetExitCode(err); ok {
		return code
	}

	if machineMode {
		_ = WriteJSONFromError(cmd.OutOrStdout(), err)
		return 1
	}

	fmt.Fprintln(stderr, err.Error())
	if isUnknownCommandError(err) {
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", cmd.Name())
	}
	return 1
}

// isUnknownCommandError reports whether err is cobra's unknown command or flag error.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// loadConfig finds, loads and validates the effective config.
// The returned path is "" when defaults were used.
func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, "", err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// cliLogger is the stderr logger used by the non-TUI commands.
func cliLogger(component string) logger.Logger {
	return logger.NewWriterLogger(os.Stderr, component)
}
