package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"

	"github.com/hyllan/tasklog/internal/engine"
)

// Settings describes the effective configuration shown in the settings
// overlay.
type Settings struct {
	StoragePath    string
	Backend        string
	Hotkey         string
	MaxCurrent     int
	InsertPosition string
	DoneLogPath    string
}

type Option func(*Model)

func WithSettings(s Settings) Option {
	return func(m *Model) {
		m.settings = s
	}
}

func WithWindow(w engine.Window) Option {
	return func(m *Model) {
		m.window = w
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithSaveDebounce(d time.Duration) Option {
	return func(m *Model) {
		if d >= 0 {
			m.saveDebounce = d
		}
	}
}

func WithFlashDuration(d time.Duration) Option {
	return func(m *Model) {
		if d >= 0 {
			m.flashDur = d
		}
	}
}

// WithSaveHotkey enables hotkey editing in the settings overlay; the callback
// receives the canonicalized chord to persist.
func WithSaveHotkey(save func(string) error) Option {
	return func(m *Model) {
		m.saveHotkey = save
	}
}

func WithYank(yank func(string) error) Option {
	return func(m *Model) {
		if yank != nil {
			m.yank = yank
		}
	}
}

func defaultYank(text string) error {
	return clipboard.WriteAll(text)
}
