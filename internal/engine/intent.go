package engine

import "github.com/hyllan/tasklog/internal/domain"

// Intent is one resolved semantic action produced by the input dispatcher.
// The reducer consumes exactly one intent at a time; intents that are not
// legal in the current mode are no-ops.
type Intent interface {
	isIntent()
}

// MoveCursor moves the task cursor (or the note cursor while a task is
// expanded) by Delta rows.
type MoveCursor struct {
	Delta int
}

// SwitchPane toggles the active pane, closing any expanded task and keeping
// the numeric cursor position clamped against the new list.
type SwitchPane struct{}

// ToggleExpand expands the selected task, or collapses it if it is already
// the expanded one.
type ToggleExpand struct{}

// StartCreateTask enters CreateTask mode with an empty draft.
type StartCreateTask struct{}

// StartEditTask enters EditTask mode for the selected task.
type StartEditTask struct{}

// StartCreateNote enters CreateNote mode under the expanded task.
type StartCreateNote struct{}

// StartEditNote enters EditNote mode for the selected note.
type StartEditNote struct{}

// CommitDraft saves the active draft buffer. A blank draft commits nothing
// and simply returns to Navigate.
type CommitDraft struct {
	Text string
}

// CancelDraft discards the active draft buffer without mutating state.
type CancelDraft struct{}

// DeleteSelected removes the selected task, or the selected note while a
// task is expanded.
type DeleteSelected struct{}

// Reorder swaps the selected task (or note) with its neighbor at Delta.
type Reorder struct {
	Delta int
}

// TransferSelected moves the selected task to the other pane, appending at
// the end of the destination list.
type TransferSelected struct{}

// CompleteSelected logs the selected task to the completion log and removes
// it from its list as one commit.
type CompleteSelected struct{}

// ToggleNoteCompleted flips the completed flag on the selected note.
type ToggleNoteCompleted struct{}

// Undo restores the most recent history snapshot.
type Undo struct{}

// OpenHelp shows the help overlay.
type OpenHelp struct{}

// OpenSettings shows the settings overlay.
type OpenSettings struct{}

// CloseOverlay dismisses the active overlay.
type CloseOverlay struct{}

// Dismiss is the top-level cancel: it collapses an expanded task, or asks
// the window collaborator to hide when there is nothing left to dismiss.
type Dismiss struct{}

// Reload replaces the model with externally loaded state and clears history,
// which is only meaningful relative to the in-process mutation lineage.
type Reload struct {
	Tasks domain.TaskState
}

func (MoveCursor) isIntent()          {}
func (SwitchPane) isIntent()          {}
func (ToggleExpand) isIntent()        {}
func (StartCreateTask) isIntent()     {}
func (StartEditTask) isIntent()       {}
func (StartCreateNote) isIntent()     {}
func (StartEditNote) isIntent()       {}
func (CommitDraft) isIntent()         {}
func (CancelDraft) isIntent()         {}
func (DeleteSelected) isIntent()      {}
func (Reorder) isIntent()             {}
func (TransferSelected) isIntent()    {}
func (CompleteSelected) isIntent()    {}
func (ToggleNoteCompleted) isIntent() {}
func (Undo) isIntent()                {}
func (OpenHelp) isIntent()            {}
func (OpenSettings) isIntent()        {}
func (CloseOverlay) isIntent()        {}
func (Dismiss) isIntent()             {}
func (Reload) isIntent()              {}
