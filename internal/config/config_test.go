package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroguard/hydroguard/internal/errors"
)

// isolate points HOME and the working directory at fresh temp dirs so no
// real config is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.True(t, cfg.Sensor.Enabled)
	assert.Equal(t, "http://192.168.4.1/sensors", cfg.Sensor.Endpoint)
	assert.Zero(t, cfg.Sensor.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, 70, cfg.Monitor.Threshold)
	assert.Equal(t, 10, cfg.Monitor.HistorySize)
	assert.Equal(t, 2*time.Second, cfg.Discovery.ScanDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.Discovery.ConnectDelay)
	assert.Empty(t, cfg.Log.File)

	require.NoError(t, Validate(cfg))
}

func TestSessionOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Monitor.Threshold = 55
	cfg.Monitor.HistorySize = 25
	cfg.Sensor.Enabled = false

	opts := cfg.SessionOptions()

	assert.Equal(t, 3*time.Second, opts.Interval)
	assert.Equal(t, 55, opts.Threshold)
	assert.Equal(t, 25, opts.SeriesSize)
	assert.False(t, opts.SensorsEnabled)
}

func TestLoad(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)

	content := `
version: 1
sensor:
  endpoint: http://10.0.0.7:8080/sensors
  timeout: 2s
monitor:
  interval: 1500ms
  threshold: 80
log:
  file: ~/hydroguard.log
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.True(t, cfg.Sensor.Enabled, "omitted keys keep defaults")
	assert.Equal(t, "http://10.0.0.7:8080/sensors", cfg.Sensor.Endpoint)
	assert.Equal(t, 2*time.Second, cfg.Sensor.Timeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.Monitor.Interval)
	assert.Equal(t, 80, cfg.Monitor.Threshold)
	assert.Equal(t, 10, cfg.Monitor.HistorySize)
	assert.Equal(t, 2*time.Second, cfg.Discovery.ScanDelay)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "hydroguard.log"), cfg.Log.File)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("monitor:\n  threshold: 80\n"), 0644))

	t.Setenv("HYDROGUARD_MONITOR_THRESHOLD", "90")
	t.Setenv("HYDROGUARD_SENSOR_ENABLED", "false")
	t.Setenv("HYDROGUARD_MONITOR_INTERVAL", "5s")

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 90, cfg.Monitor.Threshold)
	assert.False(t, cfg.Sensor.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Monitor.Interval)
}

func TestLoad_InvalidDuration(t *testing.T) {
	isolate(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("monitor:\n  interval: soon\n"), 0644))

	_, err := Load(configPath)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "Invalid config format")
}

func TestLoad_InvalidYAML(t *testing.T) {
	isolate(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("monitor: [unclosed\n"), 0644))

	_, err := Load(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/.hydroguard.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Config file not found")
}

func TestFind(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) (explicit, want string)
		wantErr bool
	}{
		{
			name: "explicit path exists",
			setup: func(t *testing.T) (string, string) {
				isolate(t)
				path := filepath.Join(t.TempDir(), "custom.yaml")
				require.NoError(t, os.WriteFile(path, []byte("version: 1"), 0644))
				return path, path
			},
		},
		{
			name: "explicit path not found",
			setup: func(t *testing.T) (string, string) {
				isolate(t)
				return "/nonexistent/config.yaml", ""
			},
			wantErr: true,
		},
		{
			name: "current directory has config",
			setup: func(t *testing.T) (string, string) {
				dir := isolate(t)
				path := filepath.Join(dir, ConfigFileName)
				require.NoError(t, os.WriteFile(path, []byte("version: 1"), 0644))
				return "", path
			},
		},
		{
			name: "global config",
			setup: func(t *testing.T) (string, string) {
				isolate(t)
				path := GlobalConfigPath()
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
				require.NoError(t, os.WriteFile(path, []byte("version: 1"), 0644))
				return "", path
			},
		},
		{
			name: "nothing found",
			setup: func(t *testing.T) (string, string) {
				isolate(t)
				return "", ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			explicit, want := tt.setup(t)

			path, err := Find(explicit)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				return
			}
			require.NoError(t, err)

			// macOS temp dirs resolve through /private.
			if want != "" {
				wantReal, _ := filepath.EvalSymlinks(want)
				gotReal, _ := filepath.EvalSymlinks(path)
				assert.Equal(t, wantReal, gotReal)
			} else {
				assert.Empty(t, path)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	isolate(t)

	cfg, path, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOrDefault_EnvWithoutFile(t *testing.T) {
	isolate(t)
	t.Setenv("HYDROGUARD_SENSOR_ENDPOINT", "http://localhost:8080/sensors")

	cfg, path, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, "http://localhost:8080/sensors", cfg.Sensor.Endpoint)
}

func TestLoadOrDefault_ExplicitMissing(t *testing.T) {
	isolate(t)

	_, _, err := LoadOrDefault("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~", home},
		{"~/logs/hg.log", filepath.Join(home, "logs/hg.log")},
		{"/var/log/hg.log", "/var/log/hg.log"},
		{"~other/file", "~other/file"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandTilde(tt.input))
		})
	}
}
