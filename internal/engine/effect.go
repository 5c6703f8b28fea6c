package engine

import "github.com/hyllan/tasklog/internal/domain"

// Effect describes one side effect requested by the reducer. The reducer
// itself never talks to collaborators; the caller interprets effects in
// order, which is how "log before removal commit" is expressed for task
// completion.
type Effect interface {
	isEffect()
}

// EffectSave asks the caller to persist the new state. Rapid saves may be
// coalesced as long as the last write carries the newest state.
type EffectSave struct {
	State domain.TaskState
}

// EffectLog asks the caller to append the completed task to the completion
// log. Emitted before the matching EffectSave; at-least-once is accepted.
type EffectLog struct {
	Task domain.Task
}

// EffectCompleted reports a committed completion for UI feedback. Pane and
// Index are captured at intent time so later cursor movement cannot
// redirect the flash target.
type EffectCompleted struct {
	Task  domain.Task
	Pane  domain.Pane
	Index int
}

// EffectReject reports a refused mutation (capacity, boundary, empty list)
// for a transient visual signal. No state changed and nothing was pushed to
// history.
type EffectReject struct {
	Reason string
}

// EffectHide asks the window collaborator to hide the UI.
type EffectHide struct{}

func (EffectSave) isEffect()      {}
func (EffectLog) isEffect()       {}
func (EffectCompleted) isEffect() {}
func (EffectReject) isEffect()    {}
func (EffectHide) isEffect()      {}
