package engine

import "github.com/hyllan/tasklog/internal/domain"

// DefaultMaxHistory bounds the undo log.
const DefaultMaxHistory = 50

// History is a bounded stack of prior TaskState snapshots. A snapshot is
// pushed immediately before a mutation commits; the oldest entry is evicted
// once the bound is reached. Snapshots are deep copies, which is acceptable
// at these list sizes.
type History struct {
	limit int
	snaps []domain.TaskState
}

// NewHistory constructs an empty history with the given bound.
func NewHistory(limit int) History {
	if limit <= 0 {
		limit = DefaultMaxHistory
	}
	return History{limit: limit}
}

// Len returns the number of stored snapshots.
func (h History) Len() int {
	return len(h.snaps)
}

// Push appends a deep copy of the snapshot, evicting the oldest entry when
// the bound is exceeded.
func (h History) Push(state domain.TaskState) History {
	limit := h.limit
	if limit <= 0 {
		limit = DefaultMaxHistory
	}
	snaps := make([]domain.TaskState, 0, len(h.snaps)+1)
	snaps = append(snaps, h.snaps...)
	snaps = append(snaps, state.Clone())
	if len(snaps) > limit {
		snaps = snaps[len(snaps)-limit:]
	}
	h.snaps = snaps
	h.limit = limit
	return h
}

// Pop removes and returns the most recent snapshot. ok is false when the
// history is empty.
func (h History) Pop() (History, domain.TaskState, bool) {
	if len(h.snaps) == 0 {
		return h, domain.TaskState{}, false
	}
	last := h.snaps[len(h.snaps)-1]
	h.snaps = h.snaps[:len(h.snaps)-1:len(h.snaps)-1]
	return h, last, true
}

// Clear drops all snapshots. Used on external reload, where in-process
// lineage no longer matches the loaded state.
func (h History) Clear() History {
	h.snaps = nil
	return h
}
