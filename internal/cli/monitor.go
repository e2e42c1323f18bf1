package cli

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/hydroguard/hydroguard/internal/config"
	"github.com/hydroguard/hydroguard/internal/errors"
	"github.com/hydroguard/hydroguard/internal/logger"
	"github.com/hydroguard/hydroguard/internal/monitor"
)

// monitorCommand starts the TUI dashboard, or a headless watch when stdout
// is not a terminal.
func monitorCommand(ctx context.Context, flags MonitorFlags) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if err := flags.Apply(cfg); err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		log := cliLogger("watch")
		log.Info("stdout is not a terminal; running headless")
		_, err := runWatch(ctx, os.Stdout, cfg, WatchOptions{Device: flags.Device, JSON: machineMode}, depsFromConfig(cfg, log))
		return err
	}

	log, closer, err := dashboardLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	deps := depsFromConfig(cfg, log)
	model := monitor.NewModel(monitor.Config{
		Session:   cfg.SessionOptions(),
		Scanner:   deps.Scanner,
		Connector: deps.Connector,
		Fetcher:   deps.Fetcher,
		Logger:    log,
		DeviceID:  flags.Device,
		AutoScan:  true,
		Context:   ctx,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// dashboardLogger returns the log.file logger, or a silent one: the
// dashboard owns the terminal so stderr output would corrupt it.
func dashboardLogger(cfg *config.Config) (logger.Logger, io.Closer, error) {
	if cfg.Log.File == "" {
		return logger.Noop(), closerFunc(func() error { return nil }), nil
	}
	log, closer, err := logger.NewFileLogger(cfg.Log.File, "monitor")
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot open log file "+cfg.Log.File,
			"Fix log.file in your config or unset it")
	}
	return log, closer, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
