package engine

// Mode is the mutually exclusive UI mode, modeled as a tagged union so each
// variant carries only the data that mode needs. Exactly one mode is active;
// every edit/create mode returns to Navigate on save or cancel.
type Mode interface {
	isMode()
}

// ModeNavigate is the initial and terminal mode.
type ModeNavigate struct{}

// ModeEditTask edits the text of the task at Index in the active pane.
type ModeEditTask struct {
	Index int
}

// ModeCreateTask captures a draft for a new task in the active pane.
type ModeCreateTask struct{}

// ModeEditNote edits the text of note Index under the expanded task.
type ModeEditNote struct {
	Index int
}

// ModeCreateNote captures a draft for a new note under the expanded task.
type ModeCreateNote struct{}

// ModeHelp is the help overlay; all non-overlay input is suppressed.
type ModeHelp struct{}

// ModeSettings is the settings overlay; all non-overlay input is suppressed
// except the overlay's own hotkey-capture handling.
type ModeSettings struct{}

func (ModeNavigate) isMode()   {}
func (ModeEditTask) isMode()   {}
func (ModeCreateTask) isMode() {}
func (ModeEditNote) isMode()   {}
func (ModeCreateNote) isMode() {}
func (ModeHelp) isMode()       {}
func (ModeSettings) isMode()   {}

// Editing reports whether the mode holds a draft buffer.
func Editing(m Mode) bool {
	switch m.(type) {
	case ModeEditTask, ModeCreateTask, ModeEditNote, ModeCreateNote:
		return true
	default:
		return false
	}
}

// Overlay reports whether the mode is a full-screen overlay.
func Overlay(m Mode) bool {
	switch m.(type) {
	case ModeHelp, ModeSettings:
		return true
	default:
		return false
	}
}
