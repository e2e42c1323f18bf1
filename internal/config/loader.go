package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/hydroguard/hydroguard/internal/errors"
)

const (
	// ConfigFileName is the per-directory config file name.
	ConfigFileName = ".hydroguard.yaml"
	// GlobalConfigDir is the directory for the user config, relative to home.
	GlobalConfigDir = ".config/hydroguard"
	// GlobalConfigFile is the user config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. HYDROGUARD_SENSOR_ENDPOINT.
	EnvPrefix = "HYDROGUARD"
)

// Load reads config from the specified path. Environment variables override
// file values.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'hydroguard config init' to create one, or point --config at an existing file")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .hydroguard.yaml in the current directory
// 3. ~/.config/hydroguard/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if globalConfig := GlobalConfigPath(); globalConfig != "" {
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// GlobalConfigPath returns ~/.config/hydroguard/config.yaml, or "" when the
// home directory is unknown.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// LoadOrDefault loads the config found for explicit, or returns defaults
// (with environment overrides applied) if there is none.
// The returned path is "" when defaults were used.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "environment")
		return cfg, "", err
	}

	cfg, err := Load(path)
	return cfg, path, err
}

// newViper returns a viper instance with defaults and env overrides configured.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, source string) (*Config, error) {
	cfg := DefaultConfig()

	// viper's default decode hooks turn "3s" into a time.Duration.
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax and duration values (like 3s or 500ms) in "+source)
	}

	cfg.Log.File = ExpandTilde(cfg.Log.File)
	return cfg, nil
}

// setDefaults registers every key so env overrides apply even when the file omits it.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("sensor.enabled", def.Sensor.Enabled)
	v.SetDefault("sensor.endpoint", def.Sensor.Endpoint)
	v.SetDefault("sensor.timeout", def.Sensor.Timeout.String())
	v.SetDefault("monitor.interval", def.Monitor.Interval.String())
	v.SetDefault("monitor.threshold", def.Monitor.Threshold)
	v.SetDefault("monitor.history_size", def.Monitor.HistorySize)
	v.SetDefault("discovery.scan_delay", def.Discovery.ScanDelay.String())
	v.SetDefault("discovery.connect_delay", def.Discovery.ConnectDelay.String())
	v.SetDefault("log.file", def.Log.File)
}

// ExpandTilde expands a leading "~" or "~/" to the user's home directory.
// Other paths, and any path when home is unknown, come back unchanged.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}
