package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test interpreter defaults
	if cfg.Interpreter.ArraySize != 1024 {
		t.Errorf("Expected ArraySize=1024, got %d", cfg.Interpreter.ArraySize)
	}
	if cfg.Interpreter.FilesRoot != "" {
		t.Errorf("Expected empty FilesRoot, got %s", cfg.Interpreter.FilesRoot)
	}
	if cfg.Interpreter.TraceOnStart {
		t.Error("Expected TraceOnStart=false")
	}

	// Test display defaults
	if cfg.Display.CommandPrompt != ": " {
		t.Errorf("Expected CommandPrompt=': ', got %q", cfg.Display.CommandPrompt)
	}
	if cfg.Display.InputPrompt != "? " {
		t.Errorf("Expected InputPrompt='? ', got %q", cfg.Display.InputPrompt)
	}

	// Test TUI defaults
	if cfg.TUI.ScrollbackLines != 5000 {
		t.Errorf("Expected ScrollbackLines=5000, got %d", cfg.TUI.ScrollbackLines)
	}

	// Test API defaults
	if cfg.API.Port != 8080 {
		t.Errorf("Expected Port=8080, got %d", cfg.API.Port)
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("TINYBASIC_CONFIG", "")
	path := GetConfigPath()

	// Verify path is not empty
	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}

	// Verify path ends with config.toml
	if filepath.Base(path) != "config.toml" {
		t.Errorf("Expected path to end with config.toml, got %s", path)
	}
}

func TestGetConfigPathEnvOverride(t *testing.T) {
	t.Setenv("TINYBASIC_CONFIG", "/tmp/alt.toml")
	if path := GetConfigPath(); path != "/tmp/alt.toml" {
		t.Errorf("Expected env override to win, got %s", path)
	}
}

func TestLoadFromNormalizesBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[interpreter]\narray_size = -5\n[display]\ncommand_prompt = \"\"\n[api]\nport = 99999\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Interpreter.ArraySize != 1024 {
		t.Errorf("Expected ArraySize clamped to 1024, got %d", cfg.Interpreter.ArraySize)
	}
	if cfg.Display.CommandPrompt != ": " {
		t.Errorf("Expected CommandPrompt restored, got %q", cfg.Display.CommandPrompt)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("Expected Port clamped to 8080, got %d", cfg.API.Port)
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFrom on a missing file should not error: %v", err)
	}
	if cfg.Interpreter.ArraySize != 1024 {
		t.Errorf("Expected defaults, got ArraySize=%d", cfg.Interpreter.ArraySize)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Interpreter.ArraySize = 256
	cfg.Interpreter.TraceOnStart = true
	cfg.Display.CommandPrompt = "> "
	cfg.API.Port = 3000

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Interpreter.ArraySize != 256 {
		t.Errorf("Expected ArraySize=256, got %d", loaded.Interpreter.ArraySize)
	}
	if !loaded.Interpreter.TraceOnStart {
		t.Error("Expected TraceOnStart=true")
	}
	if loaded.Display.CommandPrompt != "> " {
		t.Errorf("Expected CommandPrompt='> ', got %q", loaded.Display.CommandPrompt)
	}
	if loaded.API.Port != 3000 {
		t.Errorf("Expected Port=3000, got %d", loaded.API.Port)
	}
}
