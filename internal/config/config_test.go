package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	data := `scrollback_lines: 5000
default_shell: /bin/zsh
keybinds_path: /home/me/.config/muxd/keybinds.yaml
socket_dir: /tmp/muxd-sockets
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.ScrollbackLines != 5000 {
		t.Errorf("ScrollbackLines = %d, want 5000", cfg.ScrollbackLines)
	}
	if cfg.DefaultShell != "/bin/zsh" {
		t.Errorf("DefaultShell = %q, want /bin/zsh", cfg.DefaultShell)
	}
	if cfg.SocketDir != "/tmp/muxd-sockets" {
		t.Errorf("SocketDir = %q, want /tmp/muxd-sockets", cfg.SocketDir)
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.ScrollbackLines != 10000 {
		t.Errorf("ScrollbackLines = %d, want default 10000", cfg.ScrollbackLines)
	}
	if cfg.DefaultShell == "" {
		t.Error("expected a non-empty default shell")
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadFromRejectsNegativeScrollback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("scrollback_lines: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for negative scrollback_lines")
	}
}

func TestLoadFromRejectsEmptyShell(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("default_shell: \"\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for empty default_shell")
	}
}
