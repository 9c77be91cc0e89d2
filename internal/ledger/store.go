package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"lathe/internal/config"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

// ErrSchemaMismatch indicates the ledger database was created by an
// incompatible version of the tool.
var ErrSchemaMismatch = errors.New("ledger schema version mismatch")

// Store persists runs in a SQLite database under the log directory.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the ledger database for the given config.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureLogDir(); err != nil {
		return nil, err
	}
	path := filepath.Join(cfg.Paths.LogDir, "ledger.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}
	store := &Store{db: db, path: path}
	if err := store.configure(); err != nil {
		db.Close()
		return nil, err
	}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("apply %s: %w", pragma, err)
		}
	}
	return nil
}

func (s *Store) initSchema() error {
	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.Exec(schemaSQL); err != nil {
			return fmt.Errorf("create ledger schema: %w", err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("inspect ledger schema: %w", err)
	}

	var version int
	if err := s.db.QueryRow("SELECT version FROM schema_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (%s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Path returns the location of the database file.
func (s *Store) Path() string {
	return s.path
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewRun inserts a pending run for the given URL and returns it.
func (s *Store) NewRun(ctx context.Context, url string) (*Run, error) {
	now := time.Now().UTC()
	run := &Run{
		RunID:     uuid.NewString(),
		URL:       url,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := retryOnBusy(ctx, func() error {
		result, err := s.db.ExecContext(ctx, `
			INSERT INTO runs (run_id, url, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			run.RunID, run.URL, string(run.Status),
			formatTime(run.CreatedAt), formatTime(run.UpdatedAt))
		if err != nil {
			return err
		}
		run.ID, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Update persists the mutable fields of a run and refreshes its timestamp.
func (s *Store) Update(ctx context.Context, run *Run) error {
	run.UpdatedAt = time.Now().UTC()
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			UPDATE runs
			SET title = ?, duration_seconds = ?, status = ?, source_file = ?,
			    output_file = ?, error_message = ?, updated_at = ?
			WHERE id = ?`,
			run.Title, run.DurationSeconds, string(run.Status), run.SourceFile,
			run.OutputFile, run.ErrorMessage, formatTime(run.UpdatedAt), run.ID)
		return err
	})
	if err != nil {
		return fmt.Errorf("update run %s: %w", run.RunID, err)
	}
	return nil
}

// List returns the most recent runs, newest first. A limit of zero or less
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	query := `
		SELECT id, run_id, url, title, duration_seconds, status, source_file,
		       output_file, error_message, created_at, updated_at
		FROM runs
		ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (*Run, error) {
	var (
		run       Run
		status    string
		createdAt string
		updatedAt string
	)
	err := rows.Scan(&run.ID, &run.RunID, &run.URL, &run.Title,
		&run.DurationSeconds, &status, &run.SourceFile, &run.OutputFile,
		&run.ErrorMessage, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Status = Status(status)
	run.CreatedAt = parseTime(createdAt)
	run.UpdatedAt = parseTime(updatedAt)
	return &run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

const (
	busyRetries = 5
	busyBackoff = 50 * time.Millisecond
)

func retryOnBusy(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt < busyRetries; attempt++ {
		err = op()
		if err == nil || !isSQLiteBusy(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(busyBackoff * time.Duration(attempt+1)):
		}
	}
	return err
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
