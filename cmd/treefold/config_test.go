package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if cfg.ShowHidden {
		t.Error("ShowHidden should default to false")
	}
	if cfg.Theme != DefaultConfig().Theme {
		t.Errorf("theme should default, got %+v", cfg.Theme)
	}
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "show_hidden: true\ntheme:\n  cursor: \"201\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadConfig(path)
	if !cfg.ShowHidden {
		t.Error("ShowHidden not applied")
	}
	if cfg.Theme.Cursor != "201" {
		t.Errorf("cursor: got %q", cfg.Theme.Cursor)
	}
	// Unset keys keep their defaults.
	if cfg.Theme.Directory != DefaultConfig().Theme.Directory {
		t.Errorf("directory should keep default, got %q", cfg.Theme.Directory)
	}
}

func TestLoadConfigMalformedFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("show_hidden: [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := LoadConfig(path)
	if cfg != DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}
