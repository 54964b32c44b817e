// Package config loads and saves the interpreter configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the interpreter configuration
type Config struct {
	// Interpreter settings
	Interpreter struct {
		ArraySize    int    `toml:"array_size"`
		FilesRoot    string `toml:"files_root"`
		TraceOnStart bool   `toml:"trace_on_start"`
	} `toml:"interpreter"`

	// Display settings
	Display struct {
		CommandPrompt string `toml:"command_prompt"`
		InputPrompt   string `toml:"input_prompt"`
		ColorOutput   bool   `toml:"color_output"`
	} `toml:"display"`

	// TUI settings
	TUI struct {
		ScrollbackLines int `toml:"scrollback_lines"`
	} `toml:"tui"`

	// API server settings
	API struct {
		Port int `toml:"port"`
	} `toml:"api"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Interpreter defaults
	cfg.Interpreter.ArraySize = 1024
	cfg.Interpreter.FilesRoot = ""
	cfg.Interpreter.TraceOnStart = false

	// Display defaults
	cfg.Display.CommandPrompt = ": "
	cfg.Display.InputPrompt = "? "
	cfg.Display.ColorOutput = true

	// TUI defaults
	cfg.TUI.ScrollbackLines = 5000

	// API defaults
	cfg.API.Port = 8080

	return cfg
}

// normalize clamps nonsense values back to their defaults so a hand-edited
// file cannot leave the interpreter with an empty array or a dead prompt.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Interpreter.ArraySize <= 0 {
		c.Interpreter.ArraySize = def.Interpreter.ArraySize
	}
	if c.Display.CommandPrompt == "" {
		c.Display.CommandPrompt = def.Display.CommandPrompt
	}
	if c.Display.InputPrompt == "" {
		c.Display.InputPrompt = def.Display.InputPrompt
	}
	if c.TUI.ScrollbackLines <= 0 {
		c.TUI.ScrollbackLines = def.TUI.ScrollbackLines
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		c.API.Port = def.API.Port
	}
}

// appDir resolves (and creates) the tinybasic subdirectory of a per-user
// base directory. An empty return means the base is unavailable and the
// caller should fall back to the current directory.
func appDir(base func() (string, error), sub ...string) string {
	root, err := base()
	if err != nil {
		return ""
	}
	parts := append([]string{root, "tinybasic"}, sub...)
	dir := filepath.Join(parts...)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ""
	}
	return dir
}

// GetConfigPath returns the config file path: $TINYBASIC_CONFIG if set,
// otherwise config.toml in the per-user config directory, falling back to
// the current directory.
func GetConfigPath() string {
	if path := os.Getenv("TINYBASIC_CONFIG"); path != "" {
		return path
	}
	dir := appDir(os.UserConfigDir)
	if dir == "" {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// GetLogPath returns the per-user log directory, falling back to ./logs.
func GetLogPath() string {
	dir := appDir(os.UserCacheDir, "logs")
	if dir == "" {
		return "logs"
	}
	return dir
}

// Load loads configuration from the default config file
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file is
// not an error: the defaults are returned.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) // #nosec G304 -- user config file path
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.normalize()

	return cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
