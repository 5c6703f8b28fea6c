package tui

import (
	"context"
	"errors"
	"io"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"

	"github.com/hyllan/tasklog/internal/domain"
	"github.com/hyllan/tasklog/internal/engine"
	"github.com/hyllan/tasklog/internal/hotkey"
	"github.com/hyllan/tasklog/internal/store/jsonfile"
)

// ioTimeout bounds every store and completion-log call issued by the UI.
const ioTimeout = 5 * time.Second

// Model represents model data used by this package.
type Model struct {
	eng         engine.Model
	store       engine.Store
	completions engine.CompletionLog
	window      engine.Window

	ready  bool
	width  int
	height int
	err    error

	status string

	help  help.Model
	keys  keyMap
	input textinput.Model
	md    markdownRenderer

	settings      Settings
	editingHotkey bool
	saveHotkey    func(string) error
	yank          func(string) error
	logger        *log.Logger

	// Saves are debounced: every committed mutation overwrites pending and
	// restarts the timer, so a burst of edits collapses into one write that
	// carries the newest snapshot.
	pending      *domain.TaskState
	saveGen      int
	saveDebounce time.Duration

	// flash keeps a just-completed task visible at its old position for a
	// short beat. The target is fixed by the completion commit and is never
	// re-derived from the cursor.
	flash    *engine.EffectCompleted
	flashGen int
	flashDur time.Duration
}

// loadedMsg carries message data through update handling.
type loadedMsg struct {
	state domain.TaskState
	err   error
}

// savedMsg carries message data through update handling.
type savedMsg struct {
	err error
}

// loggedMsg carries the completion-log append result.
type loggedMsg struct {
	err error
}

// saveTickMsg fires when the save debounce window for one generation closes.
type saveTickMsg struct {
	gen int
}

// flashTickMsg clears the completion flash for one generation.
type flashTickMsg struct {
	gen int
}

// NewModel constructs a new value for this package.
func NewModel(store engine.Store, completions engine.CompletionLog, opts engine.Options, tuiOpts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 500
	m := Model{
		eng:          engine.New(domain.TaskState{}, opts),
		store:        store,
		completions:  completions,
		status:       "loading...",
		help:         h,
		keys:         newKeyMap(),
		input:        input,
		yank:         defaultYank,
		logger:       log.New(io.Discard),
		saveDebounce: 250 * time.Millisecond,
		flashDur:     600 * time.Millisecond,
	}
	for _, opt := range tuiOpts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// loadData reads the persisted state off the UI loop.
func (m Model) loadData() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
	defer cancel()
	state, err := m.store.Load(ctx)
	return loadedMsg{state: state, err: err}
}

// saveCmd persists one snapshot off the UI loop.
func (m Model) saveCmd(state domain.TaskState) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		return savedMsg{err: store.Save(ctx, state)}
	}
}

// logCmd appends one completed task off the UI loop.
func (m Model) logCmd(task domain.Task) tea.Cmd {
	completions := m.completions
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		return loggedMsg{err: completions.Append(ctx, task)}
	}
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil && !errors.Is(msg.err, jsonfile.ErrCorrupted) {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.eng, _ = m.eng.Apply(engine.Reload{Tasks: msg.state})
		m.flash = nil
		// A queued pre-reload snapshot must not overwrite the adopted state.
		m.pending = nil
		m.editingHotkey = false
		m.input.Blur()
		if errors.Is(msg.err, jsonfile.ErrCorrupted) {
			m.logger.Warn("state file corrupted, starting fresh", "err", msg.err)
			m.status = "state file was corrupted; previous file kept as state.json.corrupted"
		} else if m.status == "" || m.status == "loading..." || m.status == "reloading..." {
			m.status = "ready"
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.logger.Error("save failed", "err", msg.err)
			m.status = "save failed: " + msg.err.Error()
		}
		return m, nil

	case loggedMsg:
		if msg.err != nil {
			m.logger.Error("completion log append failed", "err", msg.err)
			m.status = "done log failed: " + msg.err.Error()
		}
		return m, nil

	case saveTickMsg:
		if msg.gen != m.saveGen || m.pending == nil {
			// superseded by a newer mutation
			return m, nil
		}
		state := *m.pending
		m.pending = nil
		return m, m.saveCmd(state)

	case flashTickMsg:
		if msg.gen == m.flashGen {
			m.flash = nil
		}
		return m, nil

	case tea.FocusMsg:
		// The file may have changed while another window had focus.
		return m, m.loadData

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	default:
		return m, nil
	}
}

// handleKey routes one keypress by precedence: overlays swallow everything
// but their own close keys, edit modes feed the draft input, and only
// Navigate mode reaches the intent dispatcher.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.reload):
			m.err = nil
			m.status = "reloading..."
			return m, m.loadData
		default:
			return m, nil
		}
	}

	if engine.Overlay(m.eng.Mode) {
		if _, ok := m.eng.Mode.(engine.ModeSettings); ok {
			if m.editingHotkey {
				return m.handleHotkeyDraft(msg)
			}
			if key.Matches(msg, m.keys.editItem) && m.saveHotkey != nil {
				m.editingHotkey = true
				m.input.SetValue(m.settings.Hotkey)
				m.input.CursorEnd()
				return m, m.input.Focus()
			}
		}
		closing := key.Matches(msg, m.keys.dismiss)
		switch m.eng.Mode.(type) {
		case engine.ModeHelp:
			closing = closing || key.Matches(msg, m.keys.toggleHelp)
		case engine.ModeSettings:
			closing = closing || key.Matches(msg, m.keys.settings)
		}
		if closing {
			return m.applyIntent(engine.CloseOverlay{})
		}
		if msg.String() == "ctrl+c" {
			return m.flushAndQuit()
		}
		return m, nil
	}

	if engine.Editing(m.eng.Mode) {
		switch msg.String() {
		case "enter":
			text := m.input.Value()
			m.input.Blur()
			m.input.SetValue("")
			return m.applyIntent(engine.CommitDraft{Text: text})
		case "esc":
			m.input.Blur()
			m.input.SetValue("")
			return m.applyIntent(engine.CancelDraft{})
		case "ctrl+c":
			return m.flushAndQuit()
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m.flushAndQuit()
	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.loadData
	case key.Matches(msg, m.keys.yank):
		return m.yankSelection()
	default:
		if in, ok := m.navigateIntent(msg); ok {
			return m.applyIntent(in)
		}
		return m, nil
	}
}

// handleHotkeyDraft edits the toggle chord inside the settings overlay. The
// draft only commits once it parses; the canonical form is what gets saved.
func (m Model) handleHotkeyDraft(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		chord, err := hotkey.Parse(m.input.Value())
		if err != nil {
			m.status = "invalid hotkey: " + err.Error()
			return m, nil
		}
		canonical := chord.String()
		if err := m.saveHotkey(canonical); err != nil {
			m.logger.Error("hotkey save failed", "chord", canonical, "err", err)
			m.status = "hotkey save failed: " + err.Error()
			return m, nil
		}
		m.settings.Hotkey = canonical
		m.status = "hotkey saved: " + canonical
		m.editingHotkey = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case "esc":
		m.editingHotkey = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case "ctrl+c":
		return m.flushAndQuit()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// applyIntent folds one intent through the reducer and interprets the
// returned effects.
func (m Model) applyIntent(in engine.Intent) (Model, tea.Cmd) {
	next, effects := m.eng.Apply(in)
	enteredEdit := !engine.Editing(m.eng.Mode) && engine.Editing(next.Mode)
	m.eng = next

	var cmds []tea.Cmd
	if enteredEdit {
		cmds = append(cmds, m.startDraft())
	}
	if _, ok := in.(engine.Undo); ok {
		m.flash = nil
		if len(effects) > 0 {
			m.status = "undone"
		} else {
			m.status = "nothing to undo"
		}
	}

	for _, eff := range effects {
		switch eff := eff.(type) {
		case engine.EffectSave:
			state := eff.State
			m.pending = &state
			m.saveGen++
			gen := m.saveGen
			cmds = append(cmds, tea.Tick(m.saveDebounce, func(time.Time) tea.Msg {
				return saveTickMsg{gen: gen}
			}))
		case engine.EffectLog:
			cmds = append(cmds, m.logCmd(eff.Task))
		case engine.EffectCompleted:
			done := eff
			m.flash = &done
			m.flashGen++
			gen := m.flashGen
			m.status = "completed: " + truncate(done.Task.Text, 40)
			cmds = append(cmds, tea.Tick(m.flashDur, func(time.Time) tea.Msg {
				return flashTickMsg{gen: gen}
			}))
		case engine.EffectReject:
			m.status = eff.Reason
		case engine.EffectHide:
			if m.window != nil {
				m.window.Hide()
			}
		}
	}
	return m, tea.Batch(cmds...)
}

// startDraft primes the text input for the edit mode just entered.
func (m *Model) startDraft() tea.Cmd {
	value := ""
	switch mode := m.eng.Mode.(type) {
	case engine.ModeEditTask:
		list := m.eng.ActiveList()
		if mode.Index >= 0 && mode.Index < len(list) {
			value = list[mode.Index].Text
		}
	case engine.ModeEditNote:
		if task, ok := m.eng.ExpandedTask(); ok && mode.Index >= 0 && mode.Index < len(task.Notes) {
			value = task.Notes[mode.Index].Text
		}
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

// yankSelection copies the selected note (while expanded) or task text.
func (m Model) yankSelection() (tea.Model, tea.Cmd) {
	text := ""
	if task, ok := m.eng.ExpandedTask(); ok && len(task.Notes) > 0 {
		text = task.Notes[engine.ClampIndex(m.eng.Sel.NoteIndex, len(task.Notes))].Text
	} else if task, ok := m.eng.SelectedTask(); ok {
		text = task.Text
	}
	if text == "" {
		m.status = "nothing to copy"
		return m, nil
	}
	if err := m.yank(text); err != nil {
		m.logger.Warn("clipboard write failed", "err", err)
		m.status = "copy failed: " + err.Error()
		return m, nil
	}
	m.status = "copied: " + truncate(text, 40)
	return m, nil
}

// flushAndQuit writes any debounced snapshot before exiting.
func (m Model) flushAndQuit() (tea.Model, tea.Cmd) {
	if m.pending != nil {
		state := *m.pending
		m.pending = nil
		return m, tea.Sequence(m.saveCmd(state), tea.Quit)
	}
	return m, tea.Quit
}
