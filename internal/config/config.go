// Package config provides configuration loading for analogd.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fyrsmithlabs/analogd/internal/logging"
)

// Config is the full analogd configuration.
type Config struct {
	Server  ServerConfig   `koanf:"server"`
	Library LibraryConfig  `koanf:"library"`
	HTTP    HTTPConfig     `koanf:"http"`
	Logging logging.Config `koanf:"logging"`
	Metrics MetricsConfig  `koanf:"metrics"`
	Analogy AnalogyConfig  `koanf:"analogy"`
}

// MetricsConfig controls the OpenTelemetry metric pipeline.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// ServerConfig names the MCP server identity advertised during initialization.
type ServerConfig struct {
	Name string `koanf:"name"`
}

// LibraryConfig locates the persisted pattern library.
type LibraryConfig struct {
	Path string `koanf:"path"`
}

// HTTPConfig controls the optional HTTP API listener.
type HTTPConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// AnalogyConfig tunes the analogy engine.
type AnalogyConfig struct {
	// ReinforceThreshold is the confidence above which the winning pattern's
	// usage counter is incremented.
	ReinforceThreshold float64 `koanf:"reinforce_threshold"`
}

// Addr returns the host:port listen address.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Name == "" {
		cfg.Server.Name = "analogd"
	}
	if cfg.Library.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Library.Path = filepath.Join(home, ".config", "analogd", "patterns.json")
		}
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "127.0.0.1"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8711
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Analogy.ReinforceThreshold == 0 {
		cfg.Analogy.ReinforceThreshold = 0.6
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Library.Path == "" {
		return fmt.Errorf("library.path is required")
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.ShutdownTimeout < 0 {
		return fmt.Errorf("http.shutdown_timeout must not be negative")
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if c.Analogy.ReinforceThreshold < 0 || c.Analogy.ReinforceThreshold > 1 {
		return fmt.Errorf("analogy.reinforce_threshold must be within [0, 1], got %g",
			c.Analogy.ReinforceThreshold)
	}
	return nil
}
