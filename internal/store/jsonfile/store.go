package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyllan/tasklog/internal/domain"
)

// ErrCorrupted is returned (wrapped) by Load when the state file could not be
// decoded. The file is preserved under a .corrupted suffix and a fresh state
// is returned alongside the error, so callers can warn and continue.
var ErrCorrupted = errors.New("state file corrupted")

// corruptedSuffix is appended to an undecodable state file before it is set
// aside.
const corruptedSuffix = ".corrupted"

// Store persists the whole task state as pretty-printed JSON at a fixed path.
type Store struct {
	path string
}

// New constructs a store writing to the given file path.
func New(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("state path is required")
	}
	return &Store{path: path}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the state file. A missing file yields an empty state. An
// undecodable file is renamed to state.json.corrupted and an empty state is
// returned together with a wrapped ErrCorrupted.
func (s *Store) Load(ctx context.Context) (domain.TaskState, error) {
	if err := ctx.Err(); err != nil {
		return domain.TaskState{}, err
	}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.TaskState{}, nil
	}
	if err != nil {
		return domain.TaskState{}, fmt.Errorf("read state: %w", err)
	}

	var rec stateRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		backup := s.path + corruptedSuffix
		if renameErr := os.Rename(s.path, backup); renameErr != nil {
			return domain.TaskState{}, fmt.Errorf("%w: %v (backup failed: %v)", ErrCorrupted, err, renameErr)
		}
		return domain.TaskState{}, fmt.Errorf("%w: %v (saved to %s)", ErrCorrupted, err, filepath.Base(backup))
	}
	return rec.toDomain(), nil
}

// Save writes the full state snapshot, creating the parent directory as
// needed. The write goes through a temp file in the same directory so a crash
// mid-write cannot truncate the previous state.
func (s *Store) Save(ctx context.Context, state domain.TaskState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	raw, err := json.MarshalIndent(fromDomain(state), "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	raw = append(raw, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

// stateRecord is the on-disk shape: {"current": [...], "shelf": [...]}.
type stateRecord struct {
	Current []taskRecord `json:"current"`
	Shelf   []taskRecord `json:"shelf"`
}

// taskRecord is one stored task. Early versions of the file stored tasks as
// bare JSON strings, so decoding accepts both shapes.
type taskRecord struct {
	Text  string       `json:"text"`
	Notes []noteRecord `json:"notes,omitempty"`
}

// noteRecord is one stored note.
type noteRecord struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// UnmarshalJSON accepts both the object shape and the legacy bare-string
// shape for a task.
func (t *taskRecord) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*t = taskRecord{Text: text}
		return nil
	}
	type alias taskRecord
	var rec alias
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*t = taskRecord(rec)
	return nil
}

// toDomain converts the stored shape to domain entities.
func (r stateRecord) toDomain() domain.TaskState {
	return domain.TaskState{
		Current: tasksToDomain(r.Current),
		Shelf:   tasksToDomain(r.Shelf),
	}
}

// tasksToDomain handles tasks to domain.
func tasksToDomain(recs []taskRecord) []domain.Task {
	if len(recs) == 0 {
		return nil
	}
	out := make([]domain.Task, len(recs))
	for i, rec := range recs {
		task := domain.Task{Text: rec.Text}
		if len(rec.Notes) > 0 {
			task.Notes = make([]domain.Note, len(rec.Notes))
			for j, n := range rec.Notes {
				task.Notes[j] = domain.Note{Text: n.Text, Completed: n.Completed}
			}
		}
		out[i] = task
	}
	return out
}

// fromDomain converts domain entities to the stored shape. Lists are always
// emitted, empty rather than null, so the file stays hand-editable.
func fromDomain(state domain.TaskState) stateRecord {
	return stateRecord{
		Current: tasksFromDomain(state.Current),
		Shelf:   tasksFromDomain(state.Shelf),
	}
}

// tasksFromDomain handles tasks from domain.
func tasksFromDomain(tasks []domain.Task) []taskRecord {
	out := make([]taskRecord, len(tasks))
	for i, task := range tasks {
		rec := taskRecord{Text: task.Text}
		if len(task.Notes) > 0 {
			rec.Notes = make([]noteRecord, len(task.Notes))
			for j, n := range task.Notes {
				rec.Notes[j] = noteRecord{Text: n.Text, Completed: n.Completed}
			}
		}
		out[i] = rec
	}
	return out
}
