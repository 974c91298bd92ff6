// Package config loads the console configuration from an optional YAML file.
// Command-line flags take precedence over file values; both fall back to the
// defaults below.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ghodss/yaml"
)

// Defaults for everything the file or flags may omit.
const (
	DefaultAddr           = ":8080"
	DefaultBackendURL     = "http://localhost:5000"
	DefaultPollSpec       = "@every 30s"
	DefaultRequestTimeout = 10 * time.Second
	DefaultReadTimeout    = 5 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
)

// Duration wraps time.Duration so YAML values can be written as "10s".
type Duration time.Duration

// UnmarshalJSON accepts either a duration string or nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
		return nil
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	default:
		return fmt.Errorf("invalid duration value %v", v)
	}
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Cluster configures snapshot replication between replicas.
type Cluster struct {
	Enabled   bool     `json:"enabled"`
	JoinAddrs []string `json:"joinAddrs"`
}

// Config is the full console configuration.
type Config struct {
	Addr           string   `json:"addr"`
	BackendURL     string   `json:"backendURL"`
	PollSpec       string   `json:"pollSpec"`
	RequestTimeout Duration `json:"requestTimeout"`
	ReadTimeout    Duration `json:"readTimeout"`
	WriteTimeout   Duration `json:"writeTimeout"`
	Cluster        Cluster  `json:"cluster"`
}

// Default returns a configuration with every field at its default.
func Default() Config {
	return Config{
		Addr:           DefaultAddr,
		BackendURL:     DefaultBackendURL,
		PollSpec:       DefaultPollSpec,
		RequestTimeout: Duration(DefaultRequestTimeout),
		ReadTimeout:    Duration(DefaultReadTimeout),
		WriteTimeout:   Duration(DefaultWriteTimeout),
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults unchanged; a missing or malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg.withDefaults(), nil
}

// withDefaults backfills fields the file zeroed out.
func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.BackendURL == "" {
		c.BackendURL = DefaultBackendURL
	}
	if c.PollSpec == "" {
		c.PollSpec = DefaultPollSpec
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = Duration(DefaultRequestTimeout)
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = Duration(DefaultReadTimeout)
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = Duration(DefaultWriteTimeout)
	}
	return c
}
