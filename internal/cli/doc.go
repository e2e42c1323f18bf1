// Package cli implements the hydroguard command-line interface.
//
// Each Cobra command is a thin shell around a function that takes its
// collaborators explicitly (runWatch, runDevices, runSimulate, ConfigInit),
// which is what the tests call.
//
//	hydroguard monitor            - full-screen dashboard (internal/monitor)
//	hydroguard watch              - headless session.Engine run, line per event
//	hydroguard devices [--pick]   - scan and list bands
//	hydroguard simulate           - fake device HTTP server (internal/simulator)
//	hydroguard config init|show|set|path
//	hydroguard version
//
// Global flags (--config, --json, --no-color) live on the root command.
// Errors are *errors.Error values rendered by Execute; an *errors.ExitError
// sets the exit status without printing anything.
package cli
