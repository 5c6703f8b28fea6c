package tui

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/hyllan/tasklog/internal/engine"
)

// navigateIntent resolves one Navigate-mode keypress to a semantic intent.
// Keys that are note-scoped while a task is expanded (cursor, delete,
// reorder, toggle) map to the same intent either way; the reducer scopes them
// by expansion state. ok is false for keys the intent layer does not own,
// such as quit, help toggling, reload, and yank, which the model handles
// directly.
func (m Model) navigateIntent(msg tea.KeyPressMsg) (engine.Intent, bool) {
	switch {
	case key.Matches(msg, m.keys.moveDown):
		return engine.MoveCursor{Delta: 1}, true
	case key.Matches(msg, m.keys.moveUp):
		return engine.MoveCursor{Delta: -1}, true
	case key.Matches(msg, m.keys.switchPane):
		return engine.SwitchPane{}, true
	case key.Matches(msg, m.keys.expand):
		return engine.ToggleExpand{}, true
	case key.Matches(msg, m.keys.newItem):
		if m.eng.Sel.IsExpanded() {
			return engine.StartCreateNote{}, true
		}
		return engine.StartCreateTask{}, true
	case key.Matches(msg, m.keys.editItem):
		if m.eng.Sel.IsExpanded() {
			return engine.StartEditNote{}, true
		}
		return engine.StartEditTask{}, true
	case key.Matches(msg, m.keys.deleteItem):
		return engine.DeleteSelected{}, true
	case key.Matches(msg, m.keys.reorderDown):
		return engine.Reorder{Delta: 1}, true
	case key.Matches(msg, m.keys.reorderUp):
		return engine.Reorder{Delta: -1}, true
	case key.Matches(msg, m.keys.transfer):
		return engine.TransferSelected{}, true
	case key.Matches(msg, m.keys.complete):
		return engine.CompleteSelected{}, true
	case key.Matches(msg, m.keys.toggleNote):
		return engine.ToggleNoteCompleted{}, true
	case key.Matches(msg, m.keys.undo):
		return engine.Undo{}, true
	case key.Matches(msg, m.keys.settings):
		return engine.OpenSettings{}, true
	case key.Matches(msg, m.keys.toggleHelp):
		return engine.OpenHelp{}, true
	case key.Matches(msg, m.keys.dismiss):
		return engine.Dismiss{}, true
	default:
		return nil, false
	}
}
