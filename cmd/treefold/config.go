package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/treefold/treefold/cmd/treefold/logger"
)

// Config holds user preferences loaded from the config file. Missing or
// unreadable files fall back to defaults; a broken config never blocks
// startup.
type Config struct {
	ShowHidden bool  `yaml:"show_hidden"`
	Theme      Theme `yaml:"theme"`
}

// Theme holds lipgloss color values (named or hex).
type Theme struct {
	Cursor    string `yaml:"cursor"`
	Directory string `yaml:"directory"`
	File      string `yaml:"file"`
	Chain     string `yaml:"chain"`
	Status    string `yaml:"status"`
}

// DefaultConfig returns the built-in preferences.
func DefaultConfig() Config {
	return Config{
		Theme: Theme{
			Cursor:    "212",
			Directory: "39",
			File:      "252",
			Chain:     "244",
			Status:    "241",
		},
	}
}

// ConfigPath returns the config file location, honoring the user config dir.
func ConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "treefold", "config.yaml")
}

// LoadConfig reads path and merges it over the defaults.
func LoadConfig(path string) Config {
	cfg := DefaultConfig()
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("config unreadable, using defaults", "path", path, "error", err)
		}
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Warn("config malformed, using defaults", "path", path, "error", err)
		return DefaultConfig()
	}
	return cfg
}
