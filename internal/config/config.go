// Package config provides Viper-based configuration management for wellctl
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete wellctl configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Session SessionConfig `mapstructure:"session"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// ServerConfig contains the remote tracker service settings
type ServerConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig contains local session persistence settings
type SessionConfig struct {
	File string `mapstructure:"file"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

// Load reads configuration from file and environment variables
func Load(cfgFile, serverURL, sessionFile string) (*Config, error) {
	v := viper.New()

	// Set config file if specified
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Search paths for .wellctl.yaml
		v.SetConfigName(".wellctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/wellctl")
	}

	// Environment variables
	v.SetEnvPrefix("WELLCTL")
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Overrides specified via flags
	if serverURL != "" {
		v.Set("server.url", serverURL)
	}
	if sessionFile != "" {
		v.Set("session.file", sessionFile)
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	// Default the session file into the user config dir
	if v.GetString("session.file") == "" {
		v.Set("session.file", defaultSessionFile())
	}

	// Unmarshal into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.url", "http://127.0.0.1:5000/api")
	v.SetDefault("server.timeout", 15*time.Second)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Output defaults
	v.SetDefault("output.colors", true)
}

// defaultSessionFile returns the session file path inside the user config dir
func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".wellctl-session.json")
	}
	return filepath.Join(dir, "wellctl", "session.json")
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	if cfg.Server.URL == "" {
		return fmt.Errorf("server url must not be empty")
	}
	u, err := url.Parse(cfg.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server url: %s", cfg.Server.URL)
	}

	if cfg.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive, got %s", cfg.Server.Timeout)
	}

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)
	}

	return nil
}
