// Package config loads the assembler's ambient settings from an optional
// TOML file, falling back to compiled-in defaults when none is present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// OverflowPolicy controls what happens when an immediate operand does not
// fit in the 16-bit value field of a code word. .data values are always
// masked to 16 bits, whatever the policy.
type OverflowPolicy string

const (
	// OverflowTruncate masks the value to 16 bits silently, matching the
	// original tool's observed behavior.
	OverflowTruncate OverflowPolicy = "truncate"
	// OverflowReject turns an out-of-range immediate into a Semantics error.
	OverflowReject OverflowPolicy = "reject"
)

// Config holds the assembler's configurable limits and diagnostic
// behavior. Every field has a default matching spec.md's fixed constants,
// so an absent config file changes nothing.
type Config struct {
	Limits struct {
		MaxLineLength   int `toml:"max_line_length"`
		MaxLabelLength  int `toml:"max_label_length"`
		SegmentCapacity int `toml:"segment_capacity"`
	} `toml:"limits"`

	Diagnostics struct {
		ColorOutput       bool `toml:"color_output"`
		ShowSourceContext bool `toml:"show_source_context"`
	} `toml:"diagnostics"`

	Numeric struct {
		OverflowPolicy OverflowPolicy `toml:"overflow_policy"`
	} `toml:"numeric"`
}

// DefaultConfig returns the configuration matching spec.md's fixed
// constants and original observed behavior.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Limits.MaxLineLength = 80
	cfg.Limits.MaxLabelLength = 31
	cfg.Limits.SegmentCapacity = 8192

	cfg.Diagnostics.ColorOutput = false
	cfg.Diagnostics.ShowSourceContext = true

	cfg.Numeric.OverflowPolicy = OverflowTruncate

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "assembler")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "assembler")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file, or returns
// defaults if the file does not exist.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
