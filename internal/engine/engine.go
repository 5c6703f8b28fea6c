package engine

import (
	"strings"

	"github.com/hyllan/tasklog/internal/domain"
)

// DefaultMaxCurrent bounds the current pane. Earlier iterations of the app
// shipped with 5 and with 10; the bound is configuration, not a constant
// baked into the reducer.
const DefaultMaxCurrent = 5

// InsertPosition selects where a newly created task lands in its list.
type InsertPosition string

// InsertEnd and InsertAfterSelection are the two supported policies.
const (
	InsertEnd            InsertPosition = "end"
	InsertAfterSelection InsertPosition = "after_selection"
)

// Options holds reducer policy knobs.
type Options struct {
	MaxCurrent     int
	InsertPosition InsertPosition
	MaxHistory     int
}

// Model is the full interaction state: the task lists, the cursor, the
// active mode, and undo history. Apply is the only way it changes.
type Model struct {
	Tasks   domain.TaskState
	Sel     Selection
	Mode    Mode
	History History

	opts Options
}

// New constructs a model over externally loaded state.
func New(tasks domain.TaskState, opts Options) Model {
	if opts.MaxCurrent <= 0 {
		opts.MaxCurrent = DefaultMaxCurrent
	}
	switch opts.InsertPosition {
	case InsertEnd, InsertAfterSelection:
	default:
		opts.InsertPosition = InsertEnd
	}
	m := Model{
		Tasks:   tasks.Clone(),
		Sel:     NewSelection(),
		Mode:    ModeNavigate{},
		History: NewHistory(opts.MaxHistory),
		opts:    opts,
	}
	m.Sel = m.Sel.normalize(m.Tasks)
	return m
}

// MaxCurrent returns the configured current-pane capacity.
func (m Model) MaxCurrent() int {
	return m.opts.MaxCurrent
}

// InsertPolicy returns the configured insert position for new tasks.
func (m Model) InsertPolicy() InsertPosition {
	return m.opts.InsertPosition
}

// ActiveList returns the task sequence of the active pane.
func (m Model) ActiveList() []domain.Task {
	return m.Tasks.List(m.Sel.Pane)
}

// SelectedTask returns the task under the cursor.
func (m Model) SelectedTask() (domain.Task, bool) {
	list := m.ActiveList()
	if len(list) == 0 {
		return domain.Task{}, false
	}
	return list[ClampIndex(m.Sel.Index, len(list))], true
}

// ExpandedTask returns the expanded task, if any.
func (m Model) ExpandedTask() (domain.Task, bool) {
	if !m.Sel.IsExpanded() {
		return domain.Task{}, false
	}
	list := m.ActiveList()
	if m.Sel.Expanded < 0 || m.Sel.Expanded >= len(list) {
		return domain.Task{}, false
	}
	return list[m.Sel.Expanded], true
}

// Apply is the reducer: it folds one intent into the model and returns the
// next model plus the side effects the caller must run. Every case is a
// total function; intents that are not legal in the current mode fall
// through as no-ops so an edit keystroke can never leak into a navigation
// mutation.
func (m Model) Apply(in Intent) (Model, []Effect) {
	// External reload wins over any mode: drafts are stale against the
	// loaded state, and history is only valid for the in-process lineage.
	if reload, ok := in.(Reload); ok {
		return m.applyReload(reload)
	}

	if Overlay(m.Mode) {
		if _, ok := in.(CloseOverlay); ok {
			m.Mode = ModeNavigate{}
		}
		return m, nil
	}

	if Editing(m.Mode) {
		switch in := in.(type) {
		case CommitDraft:
			return m.applyCommitDraft(in.Text)
		case CancelDraft:
			m.Mode = ModeNavigate{}
			return m, nil
		default:
			return m, nil
		}
	}

	switch in := in.(type) {
	case MoveCursor:
		return m.applyMoveCursor(in.Delta), nil
	case SwitchPane:
		return m.applySwitchPane(), nil
	case ToggleExpand:
		return m.applyToggleExpand(), nil
	case StartCreateTask:
		if !m.Sel.IsExpanded() {
			m.Mode = ModeCreateTask{}
		}
		return m, nil
	case StartEditTask:
		if !m.Sel.IsExpanded() && len(m.ActiveList()) > 0 {
			m.Mode = ModeEditTask{Index: m.Sel.Index}
		}
		return m, nil
	case StartCreateNote:
		if m.Sel.IsExpanded() {
			m.Mode = ModeCreateNote{}
		}
		return m, nil
	case StartEditNote:
		if task, ok := m.ExpandedTask(); ok && len(task.Notes) > 0 {
			m.Mode = ModeEditNote{Index: m.Sel.NoteIndex}
		}
		return m, nil
	case DeleteSelected:
		return m.applyDelete()
	case Reorder:
		return m.applyReorder(in.Delta)
	case TransferSelected:
		return m.applyTransfer()
	case CompleteSelected:
		return m.applyComplete()
	case ToggleNoteCompleted:
		return m.applyToggleNote()
	case Undo:
		return m.applyUndo()
	case OpenHelp:
		m.Mode = ModeHelp{}
		return m, nil
	case OpenSettings:
		m.Mode = ModeSettings{}
		return m, nil
	case Dismiss:
		if m.Sel.IsExpanded() {
			m.Sel.Expanded = NoExpand
			m.Sel.NoteIndex = 0
			return m, nil
		}
		return m, []Effect{EffectHide{}}
	default:
		return m, nil
	}
}

func (m Model) applyMoveCursor(delta int) Model {
	if task, ok := m.ExpandedTask(); ok {
		m.Sel.NoteIndex = ClampIndex(m.Sel.NoteIndex+delta, len(task.Notes))
		return m
	}
	m.Sel.Index = ClampIndex(m.Sel.Index+delta, len(m.ActiveList()))
	return m
}

func (m Model) applySwitchPane() Model {
	m.Sel.Expanded = NoExpand
	m.Sel.NoteIndex = 0
	m.Sel.Pane = m.Sel.Pane.Other()
	// Numeric position is preserved, not identity.
	m.Sel.Index = ClampIndex(m.Sel.Index, len(m.ActiveList()))
	return m
}

func (m Model) applyToggleExpand() Model {
	if len(m.ActiveList()) == 0 {
		return m
	}
	if m.Sel.Expanded == m.Sel.Index {
		m.Sel.Expanded = NoExpand
		m.Sel.NoteIndex = 0
		return m
	}
	m.Sel.Expanded = m.Sel.Index
	m.Sel.NoteIndex = 0
	return m
}

func (m Model) applyCommitDraft(text string) (Model, []Effect) {
	text = strings.TrimSpace(text)
	mode := m.Mode
	m.Mode = ModeNavigate{}
	if text == "" {
		// Blank drafts commit nothing: creates are dropped, edits keep
		// the original text.
		return m, nil
	}

	switch mode := mode.(type) {
	case ModeCreateTask:
		return m.commitCreateTask(text)
	case ModeEditTask:
		return m.commitEditTask(mode.Index, text)
	case ModeCreateNote:
		return m.commitCreateNote(text)
	case ModeEditNote:
		return m.commitEditNote(mode.Index, text)
	default:
		return m, nil
	}
}

func (m Model) commitCreateTask(text string) (Model, []Effect) {
	task := domain.Task{Text: text}
	pane := m.Sel.Pane

	// A full current pane overflows new tasks onto the shelf.
	if pane == domain.PaneCurrent && len(m.Tasks.Current) >= m.opts.MaxCurrent {
		m.History = m.History.Push(m.Tasks)
		shelf := append(cloneList(m.Tasks.Shelf), task)
		m.Tasks = m.Tasks.WithList(domain.PaneShelf, shelf)
		return m, []Effect{EffectSave{State: m.Tasks}}
	}

	list := cloneList(m.Tasks.List(pane))
	at := len(list)
	if m.opts.InsertPosition == InsertAfterSelection && len(list) > 0 {
		at = ClampIndex(m.Sel.Index, len(list)) + 1
	}
	m.History = m.History.Push(m.Tasks)
	list = append(list[:at:at], append([]domain.Task{task}, list[at:]...)...)
	m.Tasks = m.Tasks.WithList(pane, list)
	m.Sel.Index = at
	return m, []Effect{EffectSave{State: m.Tasks}}
}

func (m Model) commitEditTask(idx int, text string) (Model, []Effect) {
	list := m.ActiveList()
	if idx < 0 || idx >= len(list) {
		return m, nil
	}
	m.History = m.History.Push(m.Tasks)
	next := cloneList(list)
	next[idx].Text = text
	m.Tasks = m.Tasks.WithList(m.Sel.Pane, next)
	return m, []Effect{EffectSave{State: m.Tasks}}
}

func (m Model) commitCreateNote(text string) (Model, []Effect) {
	task, ok := m.ExpandedTask()
	if !ok {
		return m, nil
	}
	m.History = m.History.Push(m.Tasks)
	next := cloneList(m.ActiveList())
	updated := task.Clone()
	updated.Notes = append(updated.Notes, domain.Note{Text: text})
	next[m.Sel.Expanded] = updated
	m.Tasks = m.Tasks.WithList(m.Sel.Pane, next)
	m.Sel.NoteIndex = len(updated.Notes) - 1
	return m, []Effect{EffectSave{State: m.Tasks}}
}

func (m Model) commitEditNote(idx int, text string) (Model, []Effect) {
	task, ok := m.ExpandedTask()
	if !ok || idx < 0 || idx >= len(task.Notes) {
		return m, nil
	}
	m.History = m.History.Push(m.Tasks)
	next := cloneList(m.ActiveList())
	updated := task.Clone()
	updated.Notes[idx].Text = text
	next[m.Sel.Expanded] = updated
	m.Tasks = m.Tasks.WithList(m.Sel.Pane, next)
	return m, []Effect{EffectSave{State: m.Tasks}}
}

func (m Model) applyDelete() (Model, []Effect) {
	if task, ok := m.ExpandedTask(); ok {
		if len(task.Notes) == 0 {
			return m, nil
		}
		m.History = m.History.Push(m.Tasks)
		next := cloneList(m.ActiveList())
		updated := task.Clone()
		j := ClampIndex(m.Sel.NoteIndex, len(updated.Notes))
		updated.Notes = append(updated.Notes[:j:j], updated.Notes[j+1:]...)
		next[m.Sel.Expanded] = updated
		m.Tasks = m.Tasks.WithList(m.Sel.Pane, next)
		m.Sel.NoteIndex = ClampIndex(j, len(updated.Notes))
		return m, []Effect{EffectSave{State: m.Tasks}}
	}

	list := m.ActiveList()
	if len(list) == 0 {
		return m, nil
	}
	m.History = m.History.Push(m.Tasks)
	i := ClampIndex(m.Sel.Index, len(list))
	next := cloneList(list)
	next = append(next[:i:i], next[i+1:]...)
	m.Tasks = m.Tasks.WithList(m.Sel.Pane, next)
	m.Sel.Index = ClampIndex(i, len(next))
	return m, []Effect{EffectSave{State: m.Tasks}}
}

func (m Model) applyReorder(delta int) (Model, []Effect) {
	if delta != 1 && delta != -1 {
		return m, nil
	}

	if task, ok := m.ExpandedTask(); ok {
		j := m.Sel.NoteIndex
		nj := j + delta
		if len(task.Notes) < 2 || j < 0 || j >= len(task.Notes) || nj < 0 || nj >= len(task.Notes) {
			return m, nil
		}
		m.History = m.History.Push(m.Tasks)
		next := cloneList(m.ActiveList())
		updated := task.Clone()
		updated.Notes[j], updated.Notes[nj] = updated.Notes[nj], updated.Notes[j]
		next[m.Sel.Expanded] = updated
		m.Tasks = m.Tasks.WithList(m.Sel.Pane, next)
		m.Sel.NoteIndex = nj
		return m, []Effect{EffectSave{State: m.Tasks}}
	}

	list := m.ActiveList()
	i := m.Sel.Index
	ni := i + delta
	if len(list) < 2 || i < 0 || i >= len(list) || ni < 0 || ni >= len(list) {
		return m, nil
	}
	m.History = m.History.Push(m.Tasks)
	next := cloneList(list)
	next[i], next[ni] = next[ni], next[i]
	m.Tasks = m.Tasks.WithList(m.Sel.Pane, next)
	m.Sel.Index = ni
	return m, []Effect{EffectSave{State: m.Tasks}}
}

func (m Model) applyTransfer() (Model, []Effect) {
	if m.Sel.IsExpanded() {
		return m, nil
	}
	src := m.ActiveList()
	if len(src) == 0 {
		return m, nil
	}
	dest := m.Sel.Pane.Other()
	if dest == domain.PaneCurrent && len(m.Tasks.Current) >= m.opts.MaxCurrent {
		// Refused outright: no state change, no history entry.
		return m, []Effect{EffectReject{Reason: "current list is full"}}
	}

	m.History = m.History.Push(m.Tasks)
	i := ClampIndex(m.Sel.Index, len(src))
	moved := src[i].Clone()
	nextSrc := cloneList(src)
	nextSrc = append(nextSrc[:i:i], nextSrc[i+1:]...)
	nextDest := append(cloneList(m.Tasks.List(dest)), moved)
	m.Tasks = m.Tasks.WithList(m.Sel.Pane, nextSrc).WithList(dest, nextDest)
	m.Sel.Index = ClampIndex(i, len(nextSrc))
	return m, []Effect{EffectSave{State: m.Tasks}}
}

func (m Model) applyComplete() (Model, []Effect) {
	list := m.ActiveList()
	if len(list) == 0 {
		return m, nil
	}
	i := ClampIndex(m.Sel.Index, len(list))
	done := list[i].Clone()
	pane := m.Sel.Pane

	m.History = m.History.Push(m.Tasks)
	next := cloneList(list)
	next = append(next[:i:i], next[i+1:]...)
	m.Tasks = m.Tasks.WithList(pane, next)

	switch {
	case m.Sel.Expanded == i:
		m.Sel.Expanded = NoExpand
		m.Sel.NoteIndex = 0
	case m.Sel.Expanded > i:
		m.Sel.Expanded--
	}
	m.Sel.Index = ClampIndex(i, len(next))

	// Log append precedes the save that commits the removal.
	return m, []Effect{
		EffectLog{Task: done},
		EffectCompleted{Task: done, Pane: pane, Index: i},
		EffectSave{State: m.Tasks},
	}
}

func (m Model) applyToggleNote() (Model, []Effect) {
	task, ok := m.ExpandedTask()
	if !ok || len(task.Notes) == 0 {
		return m, nil
	}
	m.History = m.History.Push(m.Tasks)
	next := cloneList(m.ActiveList())
	updated := task.Clone()
	j := ClampIndex(m.Sel.NoteIndex, len(updated.Notes))
	updated.Notes[j].Completed = !updated.Notes[j].Completed
	next[m.Sel.Expanded] = updated
	m.Tasks = m.Tasks.WithList(m.Sel.Pane, next)
	return m, []Effect{EffectSave{State: m.Tasks}}
}

func (m Model) applyUndo() (Model, []Effect) {
	history, snapshot, ok := m.History.Pop()
	if !ok {
		return m, nil
	}
	m.History = history
	m.Tasks = snapshot.Clone()
	m.Sel = m.Sel.normalize(m.Tasks)
	return m, []Effect{EffectSave{State: m.Tasks}}
}

func (m Model) applyReload(in Reload) (Model, []Effect) {
	m.Tasks = in.Tasks.Clone()
	m.History = m.History.Clear()
	m.Mode = ModeNavigate{}
	m.Sel.Expanded = NoExpand
	m.Sel.NoteIndex = 0
	m.Sel = m.Sel.normalize(m.Tasks)
	return m, nil
}

func cloneList(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
