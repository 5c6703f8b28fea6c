package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyllan/tasklog/internal/domain"
)

func TestLoadMissingFileReturnsEmptyState(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	state, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(state.Current) != 0 || len(state.Shelf) != 0 {
		t.Fatalf("expected empty state, got %+v", state)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	in := domain.TaskState{
		Current: []domain.Task{
			{Text: "write report", Notes: []domain.Note{
				{Text: "gather numbers", Completed: true},
				{Text: "draft summary"},
			}},
		},
		Shelf: []domain.Task{{Text: "clean desk"}},
	}
	if err := store.Save(context.Background(), in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !out.Equal(in) {
		t.Fatalf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
}

func TestSavedFileShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store, _ := New(path)

	if err := store.Save(context.Background(), domain.TaskState{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := string(raw)
	if !strings.Contains(got, `"current": []`) || !strings.Contains(got, `"shelf": []`) {
		t.Fatalf("empty lists should serialize as [], got:\n%s", got)
	}
	if !strings.Contains(got, "\n") {
		t.Fatal("expected pretty-printed output")
	}
}

func TestLoadLegacyStringTasks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	legacy := `{"current": ["old one", "old two"], "shelf": [{"text": "new", "notes": []}]}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	store, _ := New(path)
	state, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(state.Current) != 2 || state.Current[0].Text != "old one" || state.Current[1].Text != "old two" {
		t.Fatalf("unexpected current: %+v", state.Current)
	}
	if len(state.Shelf) != 1 || state.Shelf[0].Text != "new" {
		t.Fatalf("unexpected shelf: %+v", state.Shelf)
	}
}

func TestLoadAbsentNotesDefaultEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	raw := `{"current": [{"text": "bare"}], "shelf": []}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	store, _ := New(path)
	state, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(state.Current[0].Notes) != 0 {
		t.Fatalf("expected no notes, got %+v", state.Current[0].Notes)
	}
}

func TestLoadCorruptedFileBacksUpAndStartsFresh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	store, _ := New(path)
	state, err := store.Load(context.Background())
	if !errors.Is(err, ErrCorrupted) {
		t.Fatalf("err = %v, want ErrCorrupted", err)
	}
	if len(state.Current) != 0 || len(state.Shelf) != 0 {
		t.Fatalf("expected fresh state, got %+v", state)
	}

	if _, statErr := os.Stat(path + ".corrupted"); statErr != nil {
		t.Fatalf("corrupted backup missing: %v", statErr)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("original file should be gone, stat err = %v", statErr)
	}
}

func TestSaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "state.json")
	store, _ := New(path)
	if err := store.Save(context.Background(), domain.TaskState{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("state file missing: %v", err)
	}
}

func TestNewRejectsEmptyPath(t *testing.T) {
	if _, err := New("   "); err == nil {
		t.Fatal("expected error for blank path")
	}
}
