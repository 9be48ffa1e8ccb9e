// Package config loads the server's ambient configuration: scrollback
// sizing, the default shell command new panes spawn, where keybindings
// live, and where the session socket directory is. The YAML shape and
// load/validate pattern are carried over from the source's config
// package (config.go), generalized from its per-user bridge settings to
// the server-wide settings this spec's Screen actually needs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is muxd's server configuration, loaded once at startup.
type Config struct {
	// ScrollbackLines caps how many lines each pane's Grid retains
	// beyond the viewport (spec §3 "Grid"). Zero means no scrollback.
	ScrollbackLines int `yaml:"scrollback_lines"`

	// DefaultShell is the command new panes run when no explicit
	// command is given (spec §4.F "SpawnTerminal").
	DefaultShell string `yaml:"default_shell"`

	// KeybindsPath points at a YAML file describing the per-mode
	// keybinding table (spec §4.G "Keybinds"). Empty means built-in
	// defaults only.
	KeybindsPath string `yaml:"keybinds_path"`

	// SocketDir overrides where the per-session control socket is
	// created; empty means socketdir's platform default.
	SocketDir string `yaml:"socket_dir"`
}

// defaultConfig is returned by Load when no config file exists.
func defaultConfig() *Config {
	return &Config{
		ScrollbackLines: 10000,
		DefaultShell:    defaultShellCommand(),
	}
}

func defaultShellCommand() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

// ConfigDir returns muxd's configuration directory (~/.config/muxd/).
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".muxd")
	}
	return filepath.Join(home, ".config", "muxd")
}

// Load reads muxd's config from ~/.config/muxd/config.yaml. If the file
// does not exist, it returns the built-in defaults with no error.
func Load() (*Config, error) {
	return LoadFrom(filepath.Join(ConfigDir(), "config.yaml"))
}

// LoadFrom reads muxd's config from the given path. If the file does
// not exist, it returns the built-in defaults with no error.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ScrollbackLines < 0 {
		return fmt.Errorf("scrollback_lines: must be >= 0, got %d", c.ScrollbackLines)
	}
	if c.DefaultShell == "" {
		return fmt.Errorf("default_shell: must not be empty")
	}
	return nil
}
