package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// EditorOptions tunes the editing core.
type EditorOptions struct {
	TabWidth        int `toml:"tab-width"`
	UndoCoalesceMS  int `toml:"undo-coalesce-ms"`
	HistoryLimit    int `toml:"history-limit"`
	ParseBudgetLine int `toml:"parse-budget-lines"`
}

// LogOptions controls the log file and level.
type LogOptions struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// ServerOptions describes one language server launch.
type ServerOptions struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// LSPOptions maps language ids to server launch settings.
type LSPOptions struct {
	Servers map[string]ServerOptions `toml:"servers"`
}

// Config is the full editor configuration.
type Config struct {
	Editor EditorOptions `toml:"editor"`
	Log    LogOptions    `toml:"log"`
	LSP    LSPOptions    `toml:"lsp"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:        4,
			UndoCoalesceMS:  750,
			HistoryLimit:    1000,
			ParseBudgetLine: 512,
		},
		Log: LogOptions{
			Level: "info",
		},
		LSP: LSPOptions{
			Servers: map[string]ServerOptions{
				"go": {Command: "gopls"},
			},
		},
	}
}

// Load reads the user configuration, merging it over the defaults. A
// missing config file is not an error.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile reads a specific config file, merging it over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var user Config
	if _, err := toml.Decode(string(data), &user); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if user.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = user.Editor.TabWidth
	}
	if user.Editor.UndoCoalesceMS > 0 {
		cfg.Editor.UndoCoalesceMS = user.Editor.UndoCoalesceMS
	}
	if user.Editor.HistoryLimit > 0 {
		cfg.Editor.HistoryLimit = user.Editor.HistoryLimit
	}
	if user.Editor.ParseBudgetLine > 0 {
		cfg.Editor.ParseBudgetLine = user.Editor.ParseBudgetLine
	}
	if user.Log.Level != "" {
		cfg.Log.Level = user.Log.Level
	}
	if user.Log.File != "" {
		cfg.Log.File = user.Log.File
	}
	for lang, srv := range user.LSP.Servers {
		cfg.LSP.Servers[lang] = srv
	}

	return cfg, nil
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	if v := os.Getenv("MAKO_CONFIG_HOME"); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "mako"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mako"), nil
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
