package engine

import (
	"context"

	"github.com/hyllan/tasklog/internal/domain"
)

// Store persists the whole TaskState. Every save carries the full snapshot,
// so a failed save is retried naturally by the next successful one.
type Store interface {
	Load(ctx context.Context) (domain.TaskState, error)
	Save(ctx context.Context, state domain.TaskState) error
}

// CompletionLog records completed tasks, append-only. Called exactly once
// per completion commit, before the task leaves its list.
type CompletionLog interface {
	Append(ctx context.Context, task domain.Task) error
}

// Window is the host window collaborator; Hide is invoked on a top-level
// cancel with nothing left to dismiss.
type Window interface {
	Hide()
}
