// Package config provides configuration management for the pricing CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	perrors "plinius-pricer/internal/errors"
	"plinius-pricer/internal/logging"
	"plinius-pricer/internal/resilience"
	"plinius-pricer/internal/scenario"
	"plinius-pricer/pkg/utils"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config holds all application configuration.
type Config struct {
	Storage     StorageConfig     `mapstructure:"storage"`
	Scenarios   ScenarioConfig    `mapstructure:"scenarios"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	UI          UIConfig          `mapstructure:"ui"`

	// Path is the file the configuration was read from.
	Path string `mapstructure:"-"`
}

// StorageConfig selects the key-value backend for saved scenarios.
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // sqlite, memory
	Path   string `mapstructure:"path"`
	Key    string `mapstructure:"key"`
}

// ScenarioConfig holds scenario display settings.
type ScenarioConfig struct {
	Palette []string `mapstructure:"palette"`
}

// PersistenceConfig bounds the best-effort write retry.
type PersistenceConfig struct {
	MaxAttempts  int           `mapstructure:"max_attempts"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
	// BreakerThreshold consecutive failed writes pause persistence for
	// BreakerCooldown. Zero disables the breaker.
	BreakerThreshold int           `mapstructure:"breaker_threshold"`
	BreakerCooldown  time.Duration `mapstructure:"breaker_cooldown"`
}

// LoggingConfig mirrors logging.LogConfig.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled"`
	Decimals     int  `mapstructure:"decimals"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/plinius"
	}
	return filepath.Join(home, ".config", "plinius")
}

// Default returns the configuration used when no file sets a value.
func Default(configDir string) *Config {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	logCfg := logging.DefaultLogConfig()
	retry := utils.DefaultRetryConfig()
	breaker := resilience.DefaultCircuitBreakerConfig()
	return &Config{
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Path:   filepath.Join(configDir, "plinius.db"),
			Key:    scenario.DefaultStorageKey,
		},
		Scenarios: ScenarioConfig{Palette: scenario.DefaultPalette()},
		Persistence: PersistenceConfig{
			MaxAttempts:      retry.MaxAttempts,
			InitialDelay:     retry.InitialDelay,
			MaxDelay:         retry.MaxDelay,
			BreakerThreshold: breaker.FailureThreshold,
			BreakerCooldown:  breaker.Cooldown,
		},
		Logging: LoggingConfig{
			Level:      logCfg.Level,
			Console:    logCfg.Console,
			File:       logCfg.File,
			FilePath:   filepath.Join(configDir, "logs", "plinius.log"),
			MaxSize:    logCfg.MaxSize,
			MaxBackups: logCfg.MaxBackups,
			MaxAge:     logCfg.MaxAge,
		},
		UI: UIConfig{ColorEnabled: true, Decimals: 4},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is created from the template and then read.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default(configDir)

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, cfg *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		if err := createTemplateConfig(configDir, name); err != nil {
			return err
		}
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}

	// Slices decode into the existing backing array; drop the default so a
	// shorter configured palette is not padded with default colors.
	cfg.Scenarios.Palette = nil
	if err := v.Unmarshal(cfg); err != nil {
		return err
	}
	cfg.Path = v.ConfigFileUsed()
	return nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("storage.driver", cfg.Storage.Driver)
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("storage.key", cfg.Storage.Key)
	v.SetDefault("scenarios.palette", cfg.Scenarios.Palette)
	v.SetDefault("persistence.max_attempts", cfg.Persistence.MaxAttempts)
	v.SetDefault("persistence.initial_delay", cfg.Persistence.InitialDelay)
	v.SetDefault("persistence.max_delay", cfg.Persistence.MaxDelay)
	v.SetDefault("persistence.breaker_threshold", cfg.Persistence.BreakerThreshold)
	v.SetDefault("persistence.breaker_cooldown", cfg.Persistence.BreakerCooldown)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.console", cfg.Logging.Console)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.file_path", cfg.Logging.FilePath)
	v.SetDefault("logging.max_size", cfg.Logging.MaxSize)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
	v.SetDefault("logging.max_age", cfg.Logging.MaxAge)
	v.SetDefault("ui.color_enabled", cfg.UI.ColorEnabled)
	v.SetDefault("ui.decimals", cfg.UI.Decimals)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PLINIUS_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("PLINIUS_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("PLINIUS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			return perrors.Wrap(perrors.ErrConfigInvalid, "storage.path is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return perrors.Wrapf(perrors.ErrConfigInvalid, "unknown storage driver %q (must be 'sqlite' or 'memory')", c.Storage.Driver)
	}
	if c.Storage.Key == "" {
		return perrors.Wrap(perrors.ErrConfigInvalid, "storage.key must not be empty")
	}

	if len(c.Scenarios.Palette) == 0 {
		return perrors.Wrap(perrors.ErrConfigInvalid, "scenarios.palette must list at least one color")
	}
	for _, color := range c.Scenarios.Palette {
		if strings.TrimSpace(color) == "" {
			return perrors.Wrap(perrors.ErrConfigInvalid, "scenarios.palette contains an empty color")
		}
	}

	if c.Persistence.MaxAttempts < 1 {
		return perrors.Wrap(perrors.ErrConfigInvalid, "persistence.max_attempts must be at least 1")
	}
	if c.Persistence.InitialDelay < 0 || c.Persistence.MaxDelay < 0 || c.Persistence.BreakerCooldown < 0 {
		return perrors.Wrap(perrors.ErrConfigInvalid, "persistence delays must be non-negative")
	}
	if c.Persistence.BreakerThreshold < 0 {
		return perrors.Wrap(perrors.ErrConfigInvalid, "persistence.breaker_threshold must be non-negative")
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return perrors.Wrapf(perrors.ErrConfigInvalid, "unknown log level %q", c.Logging.Level)
	}

	if c.UI.Decimals < 0 || c.UI.Decimals > 10 {
		return perrors.Wrap(perrors.ErrConfigInvalid, "ui.decimals must be between 0 and 10")
	}

	return nil
}

// LogConfig converts the logging section for logging.NewLoggerWithConfig.
func (c *Config) LogConfig() logging.LogConfig {
	return logging.LogConfig{
		Level:      c.Logging.Level,
		Console:    c.Logging.Console,
		File:       c.Logging.File,
		FilePath:   c.Logging.FilePath,
		MaxSize:    c.Logging.MaxSize,
		MaxBackups: c.Logging.MaxBackups,
		MaxAge:     c.Logging.MaxAge,
	}
}

// RetryConfig converts the persistence section for utils.Retry.
func (c *Config) RetryConfig() utils.RetryConfig {
	r := utils.DefaultRetryConfig()
	r.MaxAttempts = c.Persistence.MaxAttempts
	r.InitialDelay = c.Persistence.InitialDelay
	r.MaxDelay = c.Persistence.MaxDelay
	return r
}

// Breaker returns the circuit breaker guarding scenario writes, or nil when
// breaker_threshold is zero.
func (c *Config) Breaker() *resilience.CircuitBreaker {
	if c.Persistence.BreakerThreshold == 0 {
		return nil
	}
	cfg := resilience.DefaultCircuitBreakerConfig()
	cfg.FailureThreshold = c.Persistence.BreakerThreshold
	cfg.Cooldown = c.Persistence.BreakerCooldown
	return resilience.NewCircuitBreaker("scenarios", cfg)
}
