// Package config loads host-side configuration for the trustplane CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig wraps configuration parse and validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Duration wraps time.Duration with TOML text (un)marshalling.
type Duration time.Duration

// UnmarshalText parses a Go duration string ("15m", "1h30m").
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText renders the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the trustplane CLI configuration.
type Config struct {
	// StorePath is the JSON trust snapshot location.
	StorePath string `toml:"store_path"`

	// BundleURL is the key-distribution endpoint.
	BundleURL string `toml:"bundle_url"`

	// BundlePath reads bundles from disk instead of BundleURL when set.
	BundlePath string `toml:"bundle_path"`

	// RefreshInterval is the pause between key bundle refreshes.
	RefreshInterval Duration `toml:"refresh_interval"`

	// UpdateMode is how fetched keys reconcile with stored ones
	// ("replace" or "merge").
	UpdateMode string `toml:"update_mode"`

	// ListenAddr serves metrics and health endpoints in daemon mode.
	ListenAddr string `toml:"listen_addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// LogJSON switches log output to JSON.
	LogJSON bool `toml:"log_json"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		StorePath:       filepath.Join(home, ".trustplane", "trust.json"),
		RefreshInterval: Duration(15 * time.Minute),
		UpdateMode:      "replace",
		ListenAddr:      ":9464",
		LogLevel:        "info",
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".trustplane", "config.toml")
}

// Load reads a TOML config file over the defaults. A missing file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values that have a closed set of options.
func (c Config) Validate() error {
	switch c.UpdateMode {
	case "", "replace", "merge":
	default:
		return fmt.Errorf("%w: unknown update_mode %q", ErrInvalidConfig, c.UpdateMode)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.StorePath == "" {
		return fmt.Errorf("%w: store_path is empty", ErrInvalidConfig)
	}
	return nil
}
