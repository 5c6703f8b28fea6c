package domain

import "strings"

// Pane identifies one of the two task lists.
type Pane string

// PaneCurrent and PaneShelf are the only valid panes.
const (
	PaneCurrent Pane = "current"
	PaneShelf   Pane = "shelf"
)

// Other returns the opposite pane.
func (p Pane) Other() Pane {
	if p == PaneCurrent {
		return PaneShelf
	}
	return PaneCurrent
}

// Valid reports whether the pane is one of the two known lists.
func (p Pane) Valid() bool {
	return p == PaneCurrent || p == PaneShelf
}

// Note is one ordered entry under a task. Notes have no identity outside
// their parent task's sequence; display order is storage order.
type Note struct {
	Text      string
	Completed bool
}

// Task is one list entry. A task is owned by exactly one pane at a time and
// its identity is purely positional, so every mutation replaces the owning
// list wholesale instead of editing in place.
type Task struct {
	Text  string
	Notes []Note
}

// NewTask constructs a task from draft text, rejecting blank drafts.
func NewTask(text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}
	return Task{Text: text}, nil
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	out := Task{Text: t.Text}
	if len(t.Notes) > 0 {
		out.Notes = make([]Note, len(t.Notes))
		copy(out.Notes, t.Notes)
	}
	return out
}

// Equal reports structural equality including note order and flags.
func (t Task) Equal(other Task) bool {
	if t.Text != other.Text || len(t.Notes) != len(other.Notes) {
		return false
	}
	for i := range t.Notes {
		if t.Notes[i] != other.Notes[i] {
			return false
		}
	}
	return true
}

// TaskState is the whole editable model: the capacity-bounded current list
// and the unbounded shelf. It is the unit of persistence and the unit pushed
// onto undo history.
type TaskState struct {
	Current []Task
	Shelf   []Task
}

// List returns the task sequence owned by the pane.
func (s TaskState) List(p Pane) []Task {
	if p == PaneCurrent {
		return s.Current
	}
	return s.Shelf
}

// WithList returns a copy of the state with the pane's sequence replaced.
func (s TaskState) WithList(p Pane, tasks []Task) TaskState {
	if p == PaneCurrent {
		s.Current = tasks
	} else {
		s.Shelf = tasks
	}
	return s
}

// Clone returns a deep copy of both lists.
func (s TaskState) Clone() TaskState {
	return TaskState{
		Current: cloneTasks(s.Current),
		Shelf:   cloneTasks(s.Shelf),
	}
}

// Equal reports structural equality of both lists.
func (s TaskState) Equal(other TaskState) bool {
	return tasksEqual(s.Current, other.Current) && tasksEqual(s.Shelf, other.Shelf)
}

func cloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

func tasksEqual(a, b []Task) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
