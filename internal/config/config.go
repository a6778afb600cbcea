package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete LaunchMap configuration
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Audit   AuditConfig   `mapstructure:"audit"`
	TUI     TUIConfig     `mapstructure:"tui"`
}

// StorageConfig selects and locates the persistence backend
type StorageConfig struct {
	// Driver selects the backend.
	// Options: "sqlite", "memory"
	Driver string `mapstructure:"driver"`
	// Path is the SQLite database file. Ignored by the memory driver.
	// Empty means {data dir}/launchmap.db.
	Path string `mapstructure:"path"`
}

// LoggingConfig controls the structured engine log
type LoggingConfig struct {
	// Enabled turns file logging on or off
	Enabled bool `mapstructure:"enabled"`
	// Level is the minimum log level
	// Options: "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
	// Dir is the log directory. Empty means log to stderr.
	Dir string `mapstructure:"dir"`
}

// AuditConfig locates the override audit trail
type AuditConfig struct {
	// Dir is the directory holding overrides.jsonl.
	// Empty means {data dir}/audit.
	Dir string `mapstructure:"dir"`
}

// TUIConfig controls the plan viewer behavior
type TUIConfig struct {
	// Watch reloads the view when the storage file changes on disk
	Watch bool `mapstructure:"watch"`
	// ShowCompleted includes completed tasks in the plan view
	ShowCompleted bool `mapstructure:"show_completed"`
}

// Default returns a Config with all default values set
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "",
		},
		Audit: AuditConfig{
			Dir: "",
		},
		TUI: TUIConfig{
			Watch:         true,
			ShowCompleted: true,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("storage.driver", defaults.Storage.Driver)
	viper.SetDefault("storage.path", defaults.Storage.Path)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)

	viper.SetDefault("audit.dir", defaults.Audit.Dir)

	viper.SetDefault("tui.watch", defaults.TUI.Watch)
	viper.SetDefault("tui.show_completed", defaults.TUI.ShowCompleted)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "launchmap")
	}
	// Fall back to ~/.config/launchmap
	home, err := os.UserHomeDir()
	if err != nil {
		return ".launchmap"
	}
	return filepath.Join(home, ".config", "launchmap")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns the default data directory used when storage.path and
// audit.dir are unset
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "launchmap")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".launchmap"
	}
	return filepath.Join(home, ".local", "share", "launchmap")
}

// StoragePath returns the effective SQLite file path
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return filepath.Join(DataDir(), "launchmap.db")
}

// AuditDir returns the effective audit trail directory
func (c *Config) AuditDir() string {
	if c.Audit.Dir != "" {
		return c.Audit.Dir
	}
	return filepath.Join(DataDir(), "audit")
}
