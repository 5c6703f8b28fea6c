package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hyllan/tasklog/internal/engine"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default("/tmp/state.json")
	if cfg.Storage.Backend != BackendJSON {
		t.Fatalf("unexpected backend %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Path != "/tmp/state.json" {
		t.Fatalf("unexpected storage path %q", cfg.Storage.Path)
	}
	if cfg.Tasks.MaxCurrent != engine.DefaultMaxCurrent {
		t.Fatalf("unexpected max_current %d", cfg.Tasks.MaxCurrent)
	}
	if cfg.Tasks.InsertPosition != string(engine.InsertEnd) {
		t.Fatalf("unexpected insert_position %q", cfg.Tasks.InsertPosition)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default("/tmp/state.json")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Path != defaults.Storage.Path {
		t.Fatalf("expected default storage path, got %q", cfg.Storage.Path)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[storage]
backend = "sqlite"
path = "/custom/tasks.db"

[tasks]
max_current = 10
insert_position = "after_selection"

[ui]
save_debounce_ms = 500

[hotkey]
toggle = "ctrl+alt+t"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path, Default("/tmp/state.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Backend != BackendSQLite || cfg.Storage.Path != "/custom/tasks.db" {
		t.Fatalf("unexpected storage %+v", cfg.Storage)
	}
	if cfg.Tasks.MaxCurrent != 10 {
		t.Fatalf("unexpected max_current %d", cfg.Tasks.MaxCurrent)
	}
	if cfg.Tasks.InsertPosition != string(engine.InsertAfterSelection) {
		t.Fatalf("unexpected insert_position %q", cfg.Tasks.InsertPosition)
	}
	if cfg.UI.SaveDebounceMS != 500 {
		t.Fatalf("unexpected save_debounce_ms %d", cfg.UI.SaveDebounceMS)
	}
	if cfg.Hotkey.Toggle != "ctrl+alt+t" {
		t.Fatalf("unexpected hotkey %q", cfg.Hotkey.Toggle)
	}
	// Untouched sections keep defaults.
	if cfg.UI.CompleteFlashMS != 600 {
		t.Fatalf("unexpected complete_flash_ms %d", cfg.UI.CompleteFlashMS)
	}
}

func TestLoadRejectsInvalidBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[storage]
backend = "csv"
path = "/custom/tasks.csv"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path, Default("/tmp/state.json")); err == nil {
		t.Fatal("expected error for invalid backend")
	}
}

func TestLoadRejectsInvalidHotkey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[hotkey]
toggle = "hyper+="
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path, Default("/tmp/state.json")); err == nil {
		t.Fatal("expected error for invalid hotkey")
	}
}

func TestValidateRejectsBadNumbers(t *testing.T) {
	cfg := Default("/tmp/state.json")
	cfg.Tasks.MaxCurrent = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for max_current = 0")
	}

	cfg = Default("/tmp/state.json")
	cfg.UI.SaveDebounceMS = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative debounce")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "config.toml")
	cfg := Default("/tmp/state.json")
	cfg.Hotkey.Toggle = "ctrl+k"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path, Default("/other/state.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded != cfg {
		t.Fatalf("round trip mismatch:\n in: %+v\nout: %+v", cfg, loaded)
	}
}

func TestUpsertHotkeyPreservesOtherSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[storage]
backend = "sqlite"
path = "/custom/tasks.db"

[tasks]
max_current = 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := UpsertHotkey(path, "CTRL+Option+T"); err != nil {
		t.Fatalf("UpsertHotkey() error = %v", err)
	}

	cfg, err := Load(path, Default("/tmp/state.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// Canonicalized on write.
	if cfg.Hotkey.Toggle != "ctrl+alt+t" {
		t.Fatalf("unexpected hotkey %q", cfg.Hotkey.Toggle)
	}
	if cfg.Storage.Backend != BackendSQLite || cfg.Storage.Path != "/custom/tasks.db" {
		t.Fatalf("storage section lost: %+v", cfg.Storage)
	}
	if cfg.Tasks.MaxCurrent != 10 {
		t.Fatalf("tasks section lost: %+v", cfg.Tasks)
	}
}

func TestUpsertHotkeyCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "config.toml")
	if err := UpsertHotkey(path, "cmd+shift+="); err != nil {
		t.Fatalf("UpsertHotkey() error = %v", err)
	}
	cfg, err := Load(path, Default("/tmp/state.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Hotkey.Toggle != "cmd+shift+=" {
		t.Fatalf("unexpected hotkey %q", cfg.Hotkey.Toggle)
	}
}

func TestUpsertHotkeyRejectsInvalidChord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := UpsertHotkey(path, "hyper+="); err == nil {
		t.Fatal("expected error for invalid chord")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("invalid chord should not create the file")
	}
}

func TestEnsureConfigDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "config.toml")
	if err := EnsureConfigDir(target); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Fatalf("expected dir to exist, stat error %v", err)
	}
}
