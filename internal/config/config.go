// Package config loads the estimator service configuration from YAML,
// applies defaults and environment overrides, and watches the file for
// changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"covid-estimator/internal/estimator"
	"covid-estimator/internal/model"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultPort            = 8080
	DefaultRegistryTimeout = 2 * time.Second
	DefaultLogLevel        = "info"
)

type Config struct {
	Server   ServerConfig           `yaml:"server"`
	Registry RegistryConfig         `yaml:"registry"`
	Ratios   model.RatioPercentages `yaml:"ratios"`
	Log      LogConfig              `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// RegistryConfig points at the optional per-region ratio registry.
// An empty URL disables lookups.
type RegistryConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the YAML file at path, fills in defaults and applies
// environment overrides (PORT, RATIO_REGISTRY_URL, LOG_LEVEL). An empty
// path loads defaults and environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Registry.Timeout == 0 {
		c.Registry.Timeout = DefaultRegistryTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	c.Ratios = estimator.DefaultRatios().Percentages().Merge(c.Ratios)
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("RATIO_REGISTRY_URL"); v != "" {
		c.Registry.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks the values the service cannot run with. Rate
// percentages are not bounded.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Registry.Timeout < 0 {
		errs = append(errs, fmt.Errorf("registry.timeout must not be negative"))
	}
	if p := c.Ratios.DoublingPeriodDays; p != nil && *p < 1 {
		errs = append(errs, fmt.Errorf("ratios.doubling_period_days must be at least 1, got %d", *p))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// EstimatorRatios returns the configured ratios as estimator fractions.
func (c *Config) EstimatorRatios() estimator.Ratios {
	return estimator.DefaultRatios().Apply(c.Ratios)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}
