package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/hyllan/tasklog/internal/config"
	"github.com/hyllan/tasklog/internal/platform"
)

// fakeProgram represents fake program data used by this package.
type fakeProgram struct {
	runErr error
	ran    *bool
}

// Run runs the requested command flow.
func (f fakeProgram) Run() (tea.Model, error) {
	if f.ran != nil {
		*f.ran = true
	}
	return nil, f.runErr
}

// execute runs the root command with args and returns captured stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// TestPathsCommandReportsDataDir verifies behavior for the covered scenario.
func TestPathsCommandReportsDataDir(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "paths", "--dir", dir)
	if err != nil {
		t.Fatalf("paths: %v", err)
	}
	for _, want := range []string{
		"data_dir: " + dir,
		"state: " + filepath.Join(dir, "state.json"),
		"db: " + filepath.Join(dir, "tasks.db"),
		"done_log: " + filepath.Join(dir, "done.md"),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// TestArchiveCommandRotatesDoneLog verifies behavior for the covered scenario.
func TestArchiveCommandRotatesDoneLog(t *testing.T) {
	dir := t.TempDir()
	donePath := filepath.Join(dir, "done.md")
	if err := os.WriteFile(donePath, []byte("- 2025-01-01: shipped\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "archive", "--dir", dir)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !strings.Contains(out, "archived to ") {
		t.Fatalf("output = %q", out)
	}

	content, err := os.ReadFile(donePath)
	if err != nil {
		t.Fatal(err)
	}
	if len(content) != 0 {
		t.Fatalf("done.md not truncated: %q", content)
	}
}

// TestArchiveCommandOnEmptyLog verifies behavior for the covered scenario.
func TestArchiveCommandOnEmptyLog(t *testing.T) {
	out, err := execute(t, "archive", "--dir", t.TempDir())
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !strings.Contains(out, "nothing to archive") {
		t.Fatalf("output = %q", out)
	}
}

// TestRootCommandStartsProgram verifies behavior for the covered scenario.
func TestRootCommandStartsProgram(t *testing.T) {
	ran := false
	original := programFactory
	programFactory = func(tea.Model) program {
		return fakeProgram{ran: &ran}
	}
	t.Cleanup(func() { programFactory = original })

	if _, err := execute(t, "--dir", t.TempDir()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !ran {
		t.Fatal("program was never started")
	}
}

// TestRunRejectsInvalidConfig verifies behavior for the covered scenario.
func TestRunRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(configPath, []byte("[storage]\nbackend = \"carrier-pigeon\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "--dir", dir)
	if err == nil || !strings.Contains(err.Error(), "backend") {
		t.Fatalf("err = %v, want invalid backend", err)
	}
}

// TestStoragePathFollowsBackend verifies behavior for the covered scenario.
func TestStoragePathFollowsBackend(t *testing.T) {
	paths, err := platform.PathsFor("/data")
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Default(paths.StatePath)
	if got := storagePath(cfg, paths); got != paths.StatePath {
		t.Fatalf("json path = %q, want %q", got, paths.StatePath)
	}

	cfg.Storage.Backend = config.BackendSQLite
	if got := storagePath(cfg, paths); got != paths.DBPath {
		t.Fatalf("sqlite default path = %q, want %q", got, paths.DBPath)
	}

	cfg.Storage.Path = "/elsewhere/tasks.db"
	if got := storagePath(cfg, paths); got != "/elsewhere/tasks.db" {
		t.Fatalf("explicit path = %q", got)
	}
}

// TestConfigFileSelectsSQLiteBackend verifies behavior for the covered scenario.
func TestConfigFileSelectsSQLiteBackend(t *testing.T) {
	dir := t.TempDir()
	content := "[storage]\nbackend = \"sqlite\"\npath = \"" + filepath.Join(dir, "tasks.db") + "\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, cfg, err := resolve(&rootFlags{dataDir: dir})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Storage.Backend != config.BackendSQLite {
		t.Fatalf("backend = %q", cfg.Storage.Backend)
	}

	store, closeStore, err := openStore(cfg, mustPaths(t, dir))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if store == nil {
		t.Fatal("nil store")
	}
	if err := closeStore(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func mustPaths(t *testing.T, dir string) platform.Paths {
	t.Helper()
	paths, err := platform.PathsFor(dir)
	if err != nil {
		t.Fatal(err)
	}
	return paths
}
