package platform

import (
	"os"
	"path/filepath"
	"testing"
)

// TestPathsForDerivesAllFiles verifies behavior for the covered scenario.
func TestPathsForDerivesAllFiles(t *testing.T) {
	p, err := PathsFor("/home/me/.tasks")
	if err != nil {
		t.Fatalf("PathsFor() error = %v", err)
	}
	if p.ConfigPath != filepath.Join("/home/me/.tasks", "config.toml") {
		t.Fatalf("unexpected config path %q", p.ConfigPath)
	}
	if p.StatePath != filepath.Join("/home/me/.tasks", "state.json") {
		t.Fatalf("unexpected state path %q", p.StatePath)
	}
	if p.DBPath != filepath.Join("/home/me/.tasks", "tasks.db") {
		t.Fatalf("unexpected db path %q", p.DBPath)
	}
	if p.DoneLogPath != filepath.Join("/home/me/.tasks", "done.md") {
		t.Fatalf("unexpected done log path %q", p.DoneLogPath)
	}
}

// TestPathsForEmptyDirFails verifies behavior for the covered scenario.
func TestPathsForEmptyDirFails(t *testing.T) {
	if _, err := PathsFor("  "); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

// TestDefaultPathsEnvOverride verifies behavior for the covered scenario.
func TestDefaultPathsEnvOverride(t *testing.T) {
	t.Setenv("TASKLOG_DIR", "/override/tasks")
	p, err := DefaultPaths()
	if err != nil {
		t.Fatalf("DefaultPaths() error = %v", err)
	}
	if p.DataDir != "/override/tasks" {
		t.Fatalf("unexpected data dir %q", p.DataDir)
	}
}

// TestDefaultPathsWithOptionsDevMode verifies behavior for the covered scenario.
func TestDefaultPathsWithOptionsDevMode(t *testing.T) {
	t.Setenv("TASKLOG_DIR", "")
	p, err := DefaultPathsWithOptions(Options{DevMode: true})
	if err != nil {
		t.Fatalf("DefaultPathsWithOptions() error = %v", err)
	}
	if filepath.Base(p.DataDir) != ".tasks-dev" {
		t.Fatalf("expected dev dir suffix, got %q", p.DataDir)
	}
}

// TestEnsureDataDir verifies behavior for the covered scenario.
func TestEnsureDataDir(t *testing.T) {
	p, err := PathsFor(filepath.Join(t.TempDir(), "nested", ".tasks"))
	if err != nil {
		t.Fatalf("PathsFor() error = %v", err)
	}
	if err := EnsureDataDir(p); err != nil {
		t.Fatalf("EnsureDataDir() error = %v", err)
	}
	if _, err := os.Stat(p.DataDir); err != nil {
		t.Fatalf("expected dir to exist, stat error %v", err)
	}
}
