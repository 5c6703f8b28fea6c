package tui

import (
	"bytes"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/exp/teatest/v2"

	"github.com/hyllan/tasklog/internal/domain"
	"github.com/hyllan/tasklog/internal/engine"
)

func startProgram(t *testing.T, store *fakeStore, completions *fakeLog, opts ...Option) *teatest.TestModel {
	t.Helper()
	m := NewModel(store, completions, engine.Options{}, opts...)
	return teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 35))
}

func waitForOutput(t *testing.T, tm *teatest.TestModel, want string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(bs []byte) bool {
		return bytes.Contains(bs, []byte(want))
	}, teatest.WithDuration(2*time.Second), teatest.WithCheckInterval(10*time.Millisecond))
}

func typeText(tm *teatest.TestModel, text string) {
	for _, r := range text {
		tm.Send(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// TestProgramShowsBothPanes verifies behavior for the covered scenario.
func TestProgramShowsBothPanes(t *testing.T) {
	store := &fakeStore{state: domain.TaskState{
		Current: testTasks("write report"),
		Shelf:   testTasks("clean desk"),
	}}
	tm := startProgram(t, store, &fakeLog{})

	waitForOutput(t, tm, "Current (1/5)")
	waitForOutput(t, tm, "write report")
	waitForOutput(t, tm, "clean desk")

	tm.Send(tea.KeyPressMsg{Code: 'q', Text: "q"})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}

// TestProgramCreatesTask verifies behavior for the covered scenario.
func TestProgramCreatesTask(t *testing.T) {
	store := &fakeStore{}
	tm := startProgram(t, store, &fakeLog{}, WithSaveDebounce(10*time.Millisecond))

	waitForOutput(t, tm, "Current (0/5)")

	tm.Send(tea.KeyPressMsg{Code: 'n', Text: "n"})
	typeText(tm, "buy milk")
	tm.Send(tea.KeyPressMsg{Code: tea.KeyEnter})

	waitForOutput(t, tm, "buy milk")

	tm.Send(tea.KeyPressMsg{Code: 'q', Text: "q"})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	if len(store.saves) == 0 {
		t.Fatal("program exited without persisting the new task")
	}
	final := store.saves[len(store.saves)-1]
	if len(final.Current) != 1 || final.Current[0].Text != "buy milk" {
		t.Fatalf("saved state = %+v", final)
	}
}

// TestProgramHelpOverlay verifies behavior for the covered scenario.
func TestProgramHelpOverlay(t *testing.T) {
	store := &fakeStore{state: domain.TaskState{Current: testTasks("a task")}}
	tm := startProgram(t, store, &fakeLog{})

	waitForOutput(t, tm, "a task")

	tm.Send(tea.KeyPressMsg{Code: '?', Text: "?"})
	waitForOutput(t, tm, "switch pane")

	tm.Send(tea.KeyPressMsg{Code: tea.KeyEscape})
	tm.Send(tea.KeyPressMsg{Code: 'q', Text: "q"})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}

// TestProgramCompleteWritesDoneLog verifies behavior for the covered scenario.
func TestProgramCompleteWritesDoneLog(t *testing.T) {
	store := &fakeStore{state: domain.TaskState{Current: testTasks("finish slides", "other")}}
	completions := &fakeLog{}
	tm := startProgram(t, store, completions,
		WithSaveDebounce(10*time.Millisecond),
		WithFlashDuration(10*time.Millisecond),
	)

	waitForOutput(t, tm, "finish slides")

	tm.Send(tea.KeyPressMsg{Code: 'c', Text: "c"})
	waitForOutput(t, tm, "completed: finish slides")

	tm.Send(tea.KeyPressMsg{Code: 'q', Text: "q"})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	if len(completions.appended) != 1 || completions.appended[0].Text != "finish slides" {
		t.Fatalf("appended = %+v", completions.appended)
	}
}
