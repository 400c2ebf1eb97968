// Package store keeps a history of program runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funvibe/jsmm/internal/evaluator"
)

// ErrNotFound is returned when no run has the requested id.
var ErrNotFound = errors.New("run not found")

// Run is one stored execution.
type Run struct {
	ID           string
	Strategy     string
	Source       string
	Output       string
	ErrorClass   string
	ErrorMessage string
	ErrorLine    int
	ErrorColumn  int
	Statements   int
	CreatedAt    time.Time
}

// Failed reports whether the run ended with an error.
func (r *Run) Failed() bool { return r.ErrorClass != "" }

// StepRow is one narration fragment of a stored run. Fragments of the
// same step share Step; Seq orders all fragments of the run.
type StepRow struct {
	RunID    string
	Seq      int
	Step     int
	NodeID   int
	Category string
	Message  string
}

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// DefaultPath is where the CLI keeps its history unless told otherwise.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "jsmm", "history.db")
}

// Open opens or creates the database at path. The path ":memory:" gives a
// private in-memory history.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database exists once per connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		strategy TEXT NOT NULL,
		source TEXT NOT NULL,
		output TEXT NOT NULL DEFAULT '',
		error_class TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT '',
		error_line INTEGER NOT NULL DEFAULT 0,
		error_column INTEGER NOT NULL DEFAULT 0,
		statements INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS steps (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		step INTEGER NOT NULL,
		node_id INTEGER NOT NULL,
		category TEXT NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (run_id, seq),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save stores r with the narration of steps. An empty r.ID is replaced by
// a fresh one; a zero CreatedAt by the current time.
func (s *Store) Save(ctx context.Context, r *Run, steps []evaluator.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, strategy, source, output, error_class, error_message,
			error_line, error_column, statements, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Strategy, r.Source, r.Output, r.ErrorClass, r.ErrorMessage,
		r.ErrorLine, r.ErrorColumn, r.Statements, r.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO steps (run_id, seq, step, node_id, category, message)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare steps: %w", err)
	}
	defer stmt.Close()

	seq := 0
	for i, step := range steps {
		for _, f := range step.Fragments {
			if _, err := stmt.ExecContext(ctx, r.ID, seq, i, int(f.NodeID), string(f.Category), f.Message); err != nil {
				return fmt.Errorf("failed to save step %d: %w", i, err)
			}
			seq++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

const runColumns = `id, strategy, source, output, error_class, error_message,
	error_line, error_column, statements, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var created int64
	err := row.Scan(&r.ID, &r.Strategy, &r.Source, &r.Output, &r.ErrorClass, &r.ErrorMessage,
		&r.ErrorLine, &r.ErrorColumn, &r.Statements, &created)
	if err != nil {
		return nil, err
	}
	r.CreatedAt = time.Unix(0, created)
	return &r, nil
}

// Get returns the run with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return r, nil
}

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Steps returns the narration of a run in order.
func (s *Store) Steps(ctx context.Context, id string) ([]StepRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, step, node_id, category, message
		FROM steps WHERE run_id = ? ORDER BY seq
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get steps: %w", err)
	}
	defer rows.Close()

	var out []StepRow
	for rows.Next() {
		var sr StepRow
		if err := rows.Scan(&sr.RunID, &sr.Seq, &sr.Step, &sr.NodeID, &sr.Category, &sr.Message); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
