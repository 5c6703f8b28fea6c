package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyllan/tasklog/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Store persists the task state in a single SQLite database. Saves replace
// the whole state in one transaction, matching the save-the-snapshot contract
// of the JSON store.
type Store struct {
	db *sql.DB
}

// Open opens the requested operation.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// OpenInMemory opens in memory.
func OpenInMemory() (*Store, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the requested operation.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate handles migrate.
func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			pane TEXT NOT NULL,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			notes_json TEXT NOT NULL DEFAULT '[]',
			PRIMARY KEY (pane, position)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// Load reads the full state, ordered by stored position within each pane.
func (s *Store) Load(ctx context.Context) (domain.TaskState, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pane, text, notes_json
		FROM tasks
		ORDER BY pane ASC, position ASC
	`)
	if err != nil {
		return domain.TaskState{}, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	var state domain.TaskState
	for rows.Next() {
		var (
			paneRaw  string
			text     string
			notesRaw string
		)
		if err := rows.Scan(&paneRaw, &text, &notesRaw); err != nil {
			return domain.TaskState{}, err
		}
		task := domain.Task{Text: text}
		if strings.TrimSpace(notesRaw) == "" {
			notesRaw = "[]"
		}
		var notes []noteRecord
		if err := json.Unmarshal([]byte(notesRaw), &notes); err != nil {
			return domain.TaskState{}, fmt.Errorf("decode notes_json: %w", err)
		}
		for _, n := range notes {
			task.Notes = append(task.Notes, domain.Note{Text: n.Text, Completed: n.Completed})
		}

		pane := domain.Pane(paneRaw)
		if !pane.Valid() {
			return domain.TaskState{}, fmt.Errorf("decode pane %q: %w", paneRaw, domain.ErrInvalidPane)
		}
		state = state.WithList(pane, append(state.List(pane), task))
	}
	return state, rows.Err()
}

// Save replaces the whole stored state in one transaction.
func (s *Store) Save(ctx context.Context, state domain.TaskState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	for _, pane := range []domain.Pane{domain.PaneCurrent, domain.PaneShelf} {
		for position, task := range state.List(pane) {
			var notesJSON []byte
			notesJSON, err = json.Marshal(notesFromDomain(task.Notes))
			if err != nil {
				return fmt.Errorf("encode notes: %w", err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO tasks(pane, position, text, notes_json)
				VALUES (?, ?, ?, ?)
			`, string(pane), position, task.Text, string(notesJSON))
			if err != nil {
				return fmt.Errorf("insert task: %w", err)
			}
		}
	}

	err = tx.Commit()
	return err
}

// noteRecord is the notes_json element shape, shared with the JSON store
// format.
type noteRecord struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// notesFromDomain handles notes from domain.
func notesFromDomain(notes []domain.Note) []noteRecord {
	out := make([]noteRecord, len(notes))
	for i, n := range notes {
		out[i] = noteRecord{Text: n.Text, Completed: n.Completed}
	}
	return out
}
