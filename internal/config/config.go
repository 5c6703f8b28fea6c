package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/hyllan/tasklog/internal/engine"
	"github.com/hyllan/tasklog/internal/hotkey"
)

type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
)

type Config struct {
	Storage StorageConfig `toml:"storage"`
	Tasks   TasksConfig   `toml:"tasks"`
	UI      UIConfig      `toml:"ui"`
	Hotkey  HotkeyConfig  `toml:"hotkey"`
	Logging LoggingConfig `toml:"logging"`
}

type StorageConfig struct {
	Backend Backend `toml:"backend"`
	Path    string  `toml:"path"`
}

type TasksConfig struct {
	MaxCurrent     int    `toml:"max_current"`
	InsertPosition string `toml:"insert_position"` // end | after_selection
	MaxUndo        int    `toml:"max_undo"`
}

type UIConfig struct {
	CompleteFlashMS int `toml:"complete_flash_ms"`
	SaveDebounceMS  int `toml:"save_debounce_ms"`
}

type HotkeyConfig struct {
	Toggle string `toml:"toggle"`
}

type LoggingConfig struct {
	Level string `toml:"level"` // debug | info | warn | error
	File  string `toml:"file"`
}

func Default(statePath string) Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendJSON,
			Path:    statePath,
		},
		Tasks: TasksConfig{
			MaxCurrent:     engine.DefaultMaxCurrent,
			InsertPosition: string(engine.InsertEnd),
			MaxUndo:        engine.DefaultMaxHistory,
		},
		UI: UIConfig{
			CompleteFlashMS: 600,
			SaveDebounceMS:  250,
		},
		Hotkey: HotkeyConfig{
			Toggle: hotkey.Default,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("invalid storage.backend: %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("storage path is required")
	}

	if c.Tasks.MaxCurrent <= 0 {
		return errors.New("tasks.max_current must be > 0")
	}
	switch engine.InsertPosition(c.Tasks.InsertPosition) {
	case engine.InsertEnd, engine.InsertAfterSelection:
	default:
		return fmt.Errorf("invalid tasks.insert_position: %q", c.Tasks.InsertPosition)
	}
	if c.Tasks.MaxUndo <= 0 {
		return errors.New("tasks.max_undo must be > 0")
	}

	if c.UI.CompleteFlashMS < 0 {
		return errors.New("ui.complete_flash_ms must be >= 0")
	}
	if c.UI.SaveDebounceMS < 0 {
		return errors.New("ui.save_debounce_ms must be >= 0")
	}

	if err := hotkey.Validate(c.Hotkey.Toggle); err != nil {
		return fmt.Errorf("invalid hotkey.toggle: %w", err)
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	return nil
}

// Save writes the config as TOML, creating the parent directory as needed.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	content, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// UpsertHotkey rewrites only the [hotkey] section of the config file,
// preserving every other section as written. The chord is canonicalized
// before it is persisted.
func UpsertHotkey(path, chord string) error {
	parsed, err := hotkey.Parse(chord)
	if err != nil {
		return fmt.Errorf("invalid hotkey %q: %w", chord, err)
	}

	raw := map[string]any{}
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(content) > 0 {
			if err := toml.Unmarshal(content, &raw); err != nil {
				return fmt.Errorf("decode toml: %w", err)
			}
		}
	case errors.Is(err, os.ErrNotExist):
		// First write creates the file.
	default:
		return fmt.Errorf("read config: %w", err)
	}

	section, _ := raw["hotkey"].(map[string]any)
	if section == nil {
		section = map[string]any{}
	}
	section["toggle"] = parsed.String()
	raw["hotkey"] = section

	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	encoded, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
