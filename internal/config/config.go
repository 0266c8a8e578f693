// Package config provides application configuration management for adeptkey.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// Environment overrides.
const (
	EnvHome     = "ADEPTKEY_HOME"
	EnvADEDir   = "ADEPTKEY_ADE_DIR"
	EnvMaxInner = "ADEPTKEY_MAX_INNER"
)

// DefaultMaxInnerEntries bounds the leaf scan of one credential group.
const DefaultMaxInnerEntries = 16

// Config holds the adeptkey configuration.
type Config struct {
	ADEDir          string `json:"ade_dir,omitempty"`    // Where to look for activation.dat
	MaxInnerEntries int    `json:"max_inner_entries"`    // Leaf cap per credential group
	OutputDir       string `json:"output_dir,omitempty"` // Default OUTPATH for recover
	Language        string `json:"language,omitempty"`   // BCP 47 tag, e.g. "de"
	LogFile         string `json:"log_file,omitempty"`   // Diagnostic log, empty for none
}

// Dir returns the path to the .adeptkey directory. ADEPTKEY_HOME replaces
// it entirely.
func Dir() (string, error) {
	if v := os.Getenv(EnvHome); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".adeptkey"), nil
}

// Path returns the path to the main config file.
func Path() (string, error) {
	configDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// DefaultADEDir is where Adobe Digital Editions for macOS keeps its data.
func DefaultADEDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Library", "Application Support", "Adobe", "Digital Editions")
}

// Load reads ~/.adeptkey/config.json over the defaults and applies the
// environment overrides. A missing file is not an error and is not created.
func Load() (Config, error) {
	config, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	if err := config.applyEnv(); err != nil {
		return Config{}, err
	}
	if config.MaxInnerEntries <= 0 {
		config.MaxInnerEntries = DefaultMaxInnerEntries
	}
	return config, nil
}

// LoadFile reads the config file over the defaults, ignoring the
// environment. Use it to modify and Save the file.
func LoadFile() (Config, error) {
	configPath, err := Path()
	if err != nil {
		return Config{}, err
	}

	config := Default()
	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, err
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("%s: %w", configPath, err)
		}
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvADEDir); v != "" {
		c.ADEDir = v
	}
	if v := os.Getenv(EnvMaxInner); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxInner, err)
		}
		c.MaxInnerEntries = n
	}
	return nil
}

// Default returns a default configuration with all defaults set.
func Default() Config {
	return Config{
		MaxInnerEntries: DefaultMaxInnerEntries,
	}
}

// ResolveADEDir returns the ADE data directory and whether it was chosen by
// the user rather than defaulted.
func (c Config) ResolveADEDir() (dir string, explicit bool) {
	if c.ADEDir != "" {
		return c.ADEDir, true
	}
	return DefaultADEDir(), false
}

// Save saves the configuration to ~/.adeptkey/config.json.
func Save(config Config) error {
	configPath, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}
