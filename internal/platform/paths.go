package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths represents paths data used by this package.
type Paths struct {
	DataDir     string
	ConfigPath  string
	StatePath   string
	DBPath      string
	DoneLogPath string
}

// Options defines optional settings for configuration.
type Options struct {
	DirName string
	DevMode bool
}

// defaultDirName is the dot-directory under the user's home that holds all
// app files.
const defaultDirName = ".tasks"

// DefaultPaths returns default paths.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{})
}

// DefaultPathsWithOptions returns default paths with options. The TASKLOG_DIR
// environment variable overrides the data directory entirely.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	if dir := strings.TrimSpace(os.Getenv("TASKLOG_DIR")); dir != "" {
		return PathsFor(dir)
	}

	dirName := strings.TrimSpace(opts.DirName)
	if dirName == "" {
		dirName = defaultDirName
	}
	if opts.DevMode {
		dirName += "-dev"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user home dir: %w", err)
	}
	return PathsFor(filepath.Join(home, dirName))
}

// PathsFor derives all file paths from a single data directory.
func PathsFor(dataDir string) (Paths, error) {
	dataDir = strings.TrimSpace(dataDir)
	if dataDir == "" {
		return Paths{}, fmt.Errorf("empty data dir")
	}
	return Paths{
		DataDir:     dataDir,
		ConfigPath:  filepath.Join(dataDir, "config.toml"),
		StatePath:   filepath.Join(dataDir, "state.json"),
		DBPath:      filepath.Join(dataDir, "tasks.db"),
		DoneLogPath: filepath.Join(dataDir, "done.md"),
	}, nil
}

// EnsureDataDir creates the data directory if missing.
func EnsureDataDir(p Paths) error {
	return os.MkdirAll(p.DataDir, 0o755)
}
