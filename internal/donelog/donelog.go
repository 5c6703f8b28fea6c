package donelog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyllan/tasklog/internal/domain"
)

// Log appends completed tasks to a markdown file, one dated entry per task
// with its notes indented under it. The file is append-only between archive
// rotations.
type Log struct {
	path string
	now  func() time.Time
}

// Option customizes a Log.
type Option func(*Log)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		l.now = now
	}
}

// New constructs a log writing to the given file path.
func New(path string, opts ...Option) (*Log, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("done log path is required")
	}
	l := &Log{path: path, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Path returns the backing file path.
func (l *Log) Path() string {
	return l.path
}

// Append writes one entry for the completed task:
//
//	- 2025-01-15: task text
//	  ✓ completed note
//	  ○ open note
func (l *Log) Append(ctx context.Context, task domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create done log dir: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "- %s: %s\n", l.now().Format("2006-01-02"), task.Text)
	for _, note := range task.Notes {
		marker := "○"
		if note.Completed {
			marker = "✓"
		}
		fmt.Fprintf(&b, "  %s %s\n", marker, note.Text)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open done log: %w", err)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		_ = f.Close()
		return fmt.Errorf("append done log: %w", err)
	}
	return f.Close()
}

// Archive moves the accumulated log aside under a timestamped name and
// truncates the live file. A missing or empty log is a no-op.
func (l *Log) Archive(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	info, err := os.Stat(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("stat done log: %w", err)
	}
	if info.Size() == 0 {
		return "", nil
	}

	stamp := l.now().Format("2006-01-02_150405")
	base := strings.TrimSuffix(filepath.Base(l.path), filepath.Ext(l.path))
	dest := filepath.Join(filepath.Dir(l.path), fmt.Sprintf("%s_%s.md", base, stamp))

	raw, err := os.ReadFile(l.path)
	if err != nil {
		return "", fmt.Errorf("read done log: %w", err)
	}
	if err := os.WriteFile(dest, raw, 0o644); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	if err := os.WriteFile(l.path, nil, 0o644); err != nil {
		return "", fmt.Errorf("truncate done log: %w", err)
	}
	return dest, nil
}
