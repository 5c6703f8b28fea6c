package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	charmLog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hyllan/tasklog/internal/config"
	"github.com/hyllan/tasklog/internal/donelog"
	"github.com/hyllan/tasklog/internal/engine"
	"github.com/hyllan/tasklog/internal/platform"
	"github.com/hyllan/tasklog/internal/store/jsonfile"
	"github.com/hyllan/tasklog/internal/store/sqlite"
	"github.com/hyllan/tasklog/internal/tui"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// main handles main.
func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// rootFlags holds the persistent flag values shared by every subcommand.
type rootFlags struct {
	dataDir    string
	configPath string
	devMode    bool
}

// newRootCmd builds the CLI. The bare command launches the TUI; paths and
// archive are the maintenance subcommands.
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "tasklog",
		Short: "keyboard-driven two-pane task list",
		Long:  "tasklog keeps a small working set of current tasks next to an unbounded shelf,\nwith per-task notes, undo, and a completion log.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, flags)
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&flags.dataDir, "dir", "", "data directory (default ~/.tasks, or $TASKLOG_DIR)")
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config TOML (default <dir>/config.toml)")
	cmd.PersistentFlags().BoolVar(&flags.devMode, "dev", false, "use dev mode paths (~/.tasks-dev)")
	cmd.AddCommand(newPathsCmd(flags), newArchiveCmd(flags))
	return cmd
}

// newPathsCmd reports every resolved file path.
func newPathsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "print resolved data and config paths",
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, _, err := resolve(flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "config: %s\n", configPathFor(flags, paths))
			_, _ = fmt.Fprintf(out, "state: %s\n", paths.StatePath)
			_, _ = fmt.Fprintf(out, "db: %s\n", paths.DBPath)
			_, _ = fmt.Fprintf(out, "done_log: %s\n", paths.DoneLogPath)
			return nil
		},
	}
}

// newArchiveCmd rotates the completion log into a timestamped file.
func newArchiveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "rotate done.md into a timestamped archive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, _, err := resolve(flags)
			if err != nil {
				return err
			}
			log, err := donelog.New(paths.DoneLogPath)
			if err != nil {
				return fmt.Errorf("open done log: %w", err)
			}
			archived, err := log.Archive(cmd.Context())
			if err != nil {
				return fmt.Errorf("archive done log: %w", err)
			}
			out := cmd.OutOrStdout()
			if archived == "" {
				_, _ = fmt.Fprintln(out, "done log is empty, nothing to archive")
				return nil
			}
			_, _ = fmt.Fprintf(out, "archived to %s\n", archived)
			return nil
		},
	}
}

// resolve maps the persistent flags to concrete paths and the loaded config.
func resolve(flags *rootFlags) (platform.Paths, config.Config, error) {
	var (
		paths platform.Paths
		err   error
	)
	if flags.dataDir != "" {
		paths, err = platform.PathsFor(flags.dataDir)
	} else {
		paths, err = platform.DefaultPathsWithOptions(platform.Options{DevMode: flags.devMode})
	}
	if err != nil {
		return platform.Paths{}, config.Config{}, err
	}

	configPath := configPathFor(flags, paths)
	cfg, err := config.Load(configPath, config.Default(paths.StatePath))
	if err != nil {
		return platform.Paths{}, config.Config{}, fmt.Errorf("load config %q: %w", configPath, err)
	}
	return paths, cfg, nil
}

// configPathFor handles config path for.
func configPathFor(flags *rootFlags, paths platform.Paths) string {
	if flags.configPath != "" {
		return flags.configPath
	}
	return paths.ConfigPath
}

// storagePath picks the state file for the configured backend. Switching the
// backend to sqlite without also setting storage.path keeps the database next
// to the state file.
func storagePath(cfg config.Config, paths platform.Paths) string {
	if cfg.Storage.Backend == config.BackendSQLite && cfg.Storage.Path == paths.StatePath {
		return paths.DBPath
	}
	return cfg.Storage.Path
}

// openStore constructs the configured storage backend.
func openStore(cfg config.Config, paths platform.Paths) (engine.Store, func() error, error) {
	path := storagePath(cfg, paths)
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, store.Close, nil
	default:
		store, err := jsonfile.New(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open json store: %w", err)
		}
		return store, func() error { return nil }, nil
	}
}

// runTUI wires config, storage, and the completion log into the program loop.
func runTUI(cmd *cobra.Command, flags *rootFlags) error {
	paths, cfg, err := resolve(flags)
	if err != nil {
		return err
	}
	if err := platform.EnsureDataDir(paths); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// Console output would tear the alt-screen, so runtime logs only go to
	// the configured file sink while the TUI is active.
	logger, closeLogger, err := newFileLogger(cfg.Logging, paths.DataDir)
	if err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	defer func() {
		if closeErr := closeLogger(); closeErr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: close log file: %v\n", closeErr)
		}
	}()

	store, closeStore, err := openStore(cfg, paths)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeStore(); closeErr != nil {
			logger.Warn("store close failed", "err", closeErr)
		}
	}()

	completions, err := donelog.New(paths.DoneLogPath)
	if err != nil {
		return fmt.Errorf("open done log: %w", err)
	}

	logger.Info("startup configuration resolved",
		"backend", cfg.Storage.Backend,
		"storage_path", storagePath(cfg, paths),
		"max_current", cfg.Tasks.MaxCurrent,
		"insert_position", cfg.Tasks.InsertPosition,
	)

	m := tui.NewModel(store, completions,
		engine.Options{
			MaxCurrent:     cfg.Tasks.MaxCurrent,
			InsertPosition: engine.InsertPosition(cfg.Tasks.InsertPosition),
			MaxHistory:     cfg.Tasks.MaxUndo,
		},
		tui.WithLogger(logger),
		tui.WithSaveDebounce(time.Duration(cfg.UI.SaveDebounceMS)*time.Millisecond),
		tui.WithFlashDuration(time.Duration(cfg.UI.CompleteFlashMS)*time.Millisecond),
		tui.WithSaveHotkey(func(chord string) error {
			configPath := configPathFor(flags, paths)
			logger.Info("hotkey update requested", "chord", chord, "config_path", configPath)
			if err := config.UpsertHotkey(configPath, chord); err != nil {
				logger.Error("hotkey update failed", "chord", chord, "err", err)
				return err
			}
			logger.Info("hotkey update complete", "chord", chord)
			return nil
		}),
		tui.WithSettings(tui.Settings{
			StoragePath:    storagePath(cfg, paths),
			Backend:        string(cfg.Storage.Backend),
			Hotkey:         cfg.Hotkey.Toggle,
			MaxCurrent:     cfg.Tasks.MaxCurrent,
			InsertPosition: cfg.Tasks.InsertPosition,
			DoneLogPath:    paths.DoneLogPath,
		}),
	)

	logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("tui program exited")
	return nil
}

// newFileLogger opens the configured logfmt sink, or a discard logger when no
// file is configured.
func newFileLogger(cfg config.LoggingConfig, dataDir string) (*charmLog.Logger, func() error, error) {
	level, err := charmLog.ParseLevel(levelOrDefault(cfg.Level))
	if err != nil {
		return nil, nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}

	if cfg.File == "" {
		return charmLog.New(io.Discard), func() error { return nil }, nil
	}

	path := cfg.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(dataDir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := charmLog.NewWithOptions(file, charmLog.Options{
		Level:           level,
		Prefix:          "tasklog",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})
	return logger, file.Close, nil
}

// levelOrDefault handles level or default.
func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}
