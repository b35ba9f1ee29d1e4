// Package config loads nish's app-level settings from the user's TOML
// config file, with sane defaults when the file is absent.
package config

import (
	"fmt"
	"os"

	ktoml "github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Settings is the user-tunable behavior of the shell's completion UI.
type Settings struct {
	// MenuRows is the completion menu's window height.
	MenuRows int `koanf:"menu_rows"`
	// MenuMinItems is the smallest result set that opens a menu instead of
	// cycling inline.
	MenuMinItems int `koanf:"menu_min_items"`
	// ShowHeaders toggles category headers in the menu.
	ShowHeaders bool `koanf:"show_headers"`
	// ShowIndicators toggles per-item type glyphs in the menu.
	ShowIndicators bool `koanf:"show_indicators"`
	// ShowDescriptions toggles man-page summaries for command candidates.
	ShowDescriptions bool `koanf:"show_descriptions"`
	// HistoryLimit caps how many history lines feed completion.
	HistoryLimit int `koanf:"history_limit"`
	// LogLevel is a zap level name ("debug", "info", "warn", "error").
	LogLevel string `koanf:"log_level"`
}

// Default returns the settings used when no config file exists.
func Default() Settings {
	return Settings{
		MenuRows:         10,
		MenuMinItems:     2,
		ShowHeaders:      true,
		ShowIndicators:   true,
		ShowDescriptions: true,
		HistoryLimit:     1000,
		LogLevel:         "warn",
	}
}

// LoadFile reads settings from a TOML file, overlaying the defaults. A
// missing file yields the defaults.
func LoadFile(path string) (Settings, error) {
	settings := Default()
	if path == "" {
		return settings, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return settings, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), ktoml.Parser()); err != nil {
		return settings, fmt.Errorf("loading settings from %s: %w", path, err)
	}
	if err := k.Unmarshal("", &settings); err != nil {
		return settings, fmt.Errorf("decoding settings from %s: %w", path, err)
	}
	return normalize(settings), nil
}

// Load parses settings from raw TOML bytes, overlaying the defaults.
func Load(data []byte) (Settings, error) {
	settings := Default()

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), ktoml.Parser()); err != nil {
		return settings, fmt.Errorf("parsing settings: %w", err)
	}
	if err := k.Unmarshal("", &settings); err != nil {
		return settings, fmt.Errorf("decoding settings: %w", err)
	}
	return normalize(settings), nil
}

func normalize(s Settings) Settings {
	if s.MenuRows < 1 {
		s.MenuRows = Default().MenuRows
	}
	if s.MenuMinItems < 1 {
		s.MenuMinItems = Default().MenuMinItems
	}
	if s.HistoryLimit < 1 {
		s.HistoryLimit = Default().HistoryLimit
	}
	return s
}
