// Package config loads the ambient settings of tempscope: logging,
// discovery backend, metrics endpoint and snapshot directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TEMPSCOPE_LOG_LEVEL
const EnvPrefix = "TEMPSCOPE"

// Enumerator backends selectable with discovery.enumerator
const (
	EnumeratorSysfs = "sysfs"
	EnumeratorBugst = "bugst"
)

// Config is the full runtime configuration
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot"`
}

// LogConfig controls the rotating log file
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// DiscoveryConfig selects how serial ports are enumerated
type DiscoveryConfig struct {
	Enumerator string `mapstructure:"enumerator"`
}

// MetricsConfig enables the prometheus endpoint when Addr is set
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// SnapshotConfig is where PNG exports of the chart are written
type SnapshotConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads tempscope.yaml from the working directory or
// $HOME/.config/tempscope, applies TEMPSCOPE_* environment overrides and
// validates the result. A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("tempscope")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "tempscope"))
	}
	return load(v)
}

// LoadFile is Load with an explicit config file path
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "tempscope.log")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", false)

	v.SetDefault("discovery.enumerator", EnumeratorSysfs)

	// Empty address keeps the metrics endpoint off
	v.SetDefault("metrics.addr", "")

	v.SetDefault("snapshot.dir", ".")
}

func validate(cfg *Config) error {
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s", cfg.Log.Format)
	}

	if cfg.Log.File == "" {
		return errors.New("log file must be set")
	}
	if cfg.Log.MaxSize < 1 {
		return fmt.Errorf("log max_size must be positive, got %d", cfg.Log.MaxSize)
	}
	if cfg.Log.MaxBackups < 0 || cfg.Log.MaxAge < 0 {
		return errors.New("log max_backups and max_age must not be negative")
	}

	switch cfg.Discovery.Enumerator {
	case EnumeratorSysfs, EnumeratorBugst:
	default:
		return fmt.Errorf("invalid discovery enumerator: %s", cfg.Discovery.Enumerator)
	}

	if cfg.Snapshot.Dir == "" {
		return errors.New("snapshot dir must be set")
	}

	return nil
}
