package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hydroguard/hydroguard/internal/config"
	"github.com/hydroguard/hydroguard/internal/device"
	"github.com/hydroguard/hydroguard/internal/logger"
	"github.com/hydroguard/hydroguard/internal/sensor"
	"github.com/hydroguard/hydroguard/internal/session"
)

// isolate points HOME and the working directory at a fresh temp dir and
// resets the global flags a test may touch.
func isolate(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Setenv("HOME", dir)

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))

	oldCfg, oldMachine := cfgFile, machineMode
	cfgFile, machineMode = "", false
	t.Cleanup(func() {
		os.Chdir(oldWd)
		cfgFile, machineMode = oldCfg, oldMachine
	})
	return dir
}

// setMachineMode turns on --json for one test.
func setMachineMode(t *testing.T) {
	t.Helper()
	old := machineMode
	machineMode = true
	t.Cleanup(func() { machineMode = old })
}

type fakeScanner struct {
	devices []device.Device
	err     error
}

func (s fakeScanner) Scan(ctx context.Context) ([]device.Device, error) {
	return s.devices, s.err
}

type fakeConnector struct {
	err error
}

func (c fakeConnector) Connect(ctx context.Context, _ device.Device) error {
	return c.err
}

type fakeFetcher struct {
	calls atomic.Int32
	fail  bool
}

func (f *fakeFetcher) Fetch(ctx context.Context) (*sensor.Reading, error) {
	f.calls.Add(1)
	if f.fail {
		return nil, errors.New("connection refused\nsecond line")
	}
	return &sensor.Reading{
		HeartRate: sensor.HeartRate{Red: sensor.Float(72.5)},
		Motion:    sensor.Motion{Temperature: 28.4},
	}, nil
}

// constRand always samples the same movement value.
func constRand(v int) session.Rand {
	return session.RandFunc(func(int) int { return v })
}

// fastConfig is the default config with a test-friendly interval.
func fastConfig(sensors bool) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Monitor.Interval = 5 * time.Millisecond
	cfg.Sensor.Enabled = sensors
	return cfg
}

func fakeDeps(movement int, fetcher sensor.Fetcher) watchDeps {
	deps := watchDeps{
		Rand:      constRand(movement),
		Scanner:   fakeScanner{devices: device.MockDevices()},
		Connector: fakeConnector{},
		Logger:    logger.Noop(),
		Now:       func() time.Time { return time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC) },
	}
	if fetcher != nil {
		deps.Fetcher = fetcher
	}
	return deps
}

// syncBuffer is a bytes.Buffer safe to read while a server goroutine writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
