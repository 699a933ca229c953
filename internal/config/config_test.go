package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.Editor.TabWidth != 4 {
		t.Errorf("expected tab-width 4, got %d", cfg.Editor.TabWidth)
	}
	if cfg.Editor.UndoCoalesceMS != 750 {
		t.Errorf("expected undo-coalesce-ms 750, got %d", cfg.Editor.UndoCoalesceMS)
	}
	if cfg.Editor.ParseBudgetLine != 512 {
		t.Errorf("expected parse-budget-lines 512, got %d", cfg.Editor.ParseBudgetLine)
	}
	if _, ok := cfg.LSP.Servers["go"]; !ok {
		t.Error("expected a default go server entry")
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[editor]
tab-width = 8
undo-coalesce-ms = 200

[log]
level = "debug"

[lsp.servers.python]
command = "pylsp"
args = ["--check-parent-process"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Editor.TabWidth != 8 {
		t.Errorf("expected tab-width 8, got %d", cfg.Editor.TabWidth)
	}
	if cfg.Editor.UndoCoalesceMS != 200 {
		t.Errorf("expected undo-coalesce-ms 200, got %d", cfg.Editor.UndoCoalesceMS)
	}
	// Untouched keys keep their defaults.
	if cfg.Editor.HistoryLimit != 1000 {
		t.Errorf("expected history-limit 1000, got %d", cfg.Editor.HistoryLimit)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected level debug, got %q", cfg.Log.Level)
	}

	py, ok := cfg.LSP.Servers["python"]
	if !ok || py.Command != "pylsp" || len(py.Args) != 1 {
		t.Errorf("python server not merged: %+v", cfg.LSP.Servers)
	}
	if _, ok := cfg.LSP.Servers["go"]; !ok {
		t.Error("default go server must survive the merge")
	}
}

func TestLoadFileMissingIsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if cfg.Editor.TabWidth != 4 {
		t.Errorf("expected defaults, got %+v", cfg.Editor)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[editor\ntab-width = ???"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestDirHonorsOverride(t *testing.T) {
	t.Setenv("MAKO_CONFIG_HOME", "/tmp/mako-test")
	dir, err := Dir()
	if err != nil {
		t.Fatalf("dir failed: %v", err)
	}
	if dir != "/tmp/mako-test" {
		t.Errorf("expected override dir, got %q", dir)
	}
}
