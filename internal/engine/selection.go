package engine

import "github.com/hyllan/tasklog/internal/domain"

// NoExpand marks a selection with no expanded task.
const NoExpand = -1

// Selection tracks the cursor: which pane is active, which task index is
// selected, which task (if any) is expanded, and which note inside the
// expanded task is selected.
type Selection struct {
	Pane      domain.Pane
	Index     int
	Expanded  int
	NoteIndex int
}

// NewSelection returns the initial cursor on the current pane.
func NewSelection() Selection {
	return Selection{Pane: domain.PaneCurrent, Expanded: NoExpand}
}

// IsExpanded reports whether a task is expanded.
func (s Selection) IsExpanded() bool {
	return s.Expanded != NoExpand
}

// ClampIndex clamps idx into [0, length-1], or 0 for an empty list.
func ClampIndex(idx, length int) int {
	if length <= 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx > length-1 {
		return length - 1
	}
	return idx
}

// normalize re-clamps every cursor field against the given state. An expanded
// index that no longer points at a valid task collapses the expansion.
func (s Selection) normalize(state domain.TaskState) Selection {
	if !s.Pane.Valid() {
		s.Pane = domain.PaneCurrent
	}
	list := state.List(s.Pane)
	s.Index = ClampIndex(s.Index, len(list))
	if s.Expanded != NoExpand {
		if s.Expanded < 0 || s.Expanded >= len(list) {
			s.Expanded = NoExpand
			s.NoteIndex = 0
		} else {
			s.NoteIndex = ClampIndex(s.NoteIndex, len(list[s.Expanded].Notes))
		}
	} else {
		s.NoteIndex = 0
	}
	return s
}
