package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/wordharvest/pkg/wordharvest/internalerr"
	"github.com/cognicore/wordharvest/pkg/wordharvest/ledger"
)

// timeLayout has a fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteLedger implements the Ledger interface using SQLite
type sqliteLedger struct {
	db *sql.DB
}

// Open opens a SQLite ledger with WAL mode enabled, creating the schema if needed.
func Open(ctx context.Context, path string) (ledger.Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteLedger{db: db}, nil
}

// Close closes the database connection
func (s *sqliteLedger) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	root TEXT NOT NULL,
	output TEXT NOT NULL,
	extensions TEXT NOT NULL,
	max_token_len INTEGER NOT NULL,
	table_size INTEGER NOT NULL,
	files INTEGER NOT NULL DEFAULT 0,
	skipped INTEGER NOT NULL DEFAULT 0,
	tokens INTEGER NOT NULL DEFAULT 0,
	emitted INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// RecordRun inserts or replaces a run summary
func (s *sqliteLedger) RecordRun(ctx context.Context, r ledger.Run) error {
	if r.ID == "" {
		return fmt.Errorf("run without id: %w", internalerr.ErrInvalidInput)
	}
	exts, err := json.Marshal(r.Extensions)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO runs (id, started_at, finished_at, root, output, extensions, max_token_len, table_size, files, skipped, tokens, emitted)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	started_at = excluded.started_at,
	finished_at = excluded.finished_at,
	root = excluded.root,
	output = excluded.output,
	extensions = excluded.extensions,
	max_token_len = excluded.max_token_len,
	table_size = excluded.table_size,
	files = excluded.files,
	skipped = excluded.skipped,
	tokens = excluded.tokens,
	emitted = excluded.emitted`,
		r.ID,
		r.StartedAt.UTC().Format(timeLayout),
		r.FinishedAt.UTC().Format(timeLayout),
		r.Root,
		r.Output,
		string(exts),
		r.MaxTokenLen,
		r.TableSize,
		r.Files,
		r.Skipped,
		r.Tokens,
		r.Emitted,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", r.ID, err)
	}
	return nil
}

const selectRun = `SELECT id, started_at, finished_at, root, output, extensions, max_token_len, table_size, files, skipped, tokens, emitted FROM runs`

// GetRun retrieves a run by ID
func (s *sqliteLedger) GetRun(ctx context.Context, id string) (ledger.Run, error) {
	row := s.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return r, err
}

// RecentRuns lists runs, newest first
func (s *sqliteLedger) RecentRuns(ctx context.Context, limit int) ([]ledger.Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, selectRun+` ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []ledger.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (ledger.Run, error) {
	var (
		r                 ledger.Run
		started, finished string
		exts              string
	)
	if err := sc.Scan(&r.ID, &started, &finished, &r.Root, &r.Output, &exts,
		&r.MaxTokenLen, &r.TableSize, &r.Files, &r.Skipped, &r.Tokens, &r.Emitted); err != nil {
		return ledger.Run{}, err
	}
	var err error
	if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return ledger.Run{}, fmt.Errorf("run %s started_at: %w", r.ID, err)
	}
	if r.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return ledger.Run{}, fmt.Errorf("run %s finished_at: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(exts), &r.Extensions); err != nil {
		return ledger.Run{}, fmt.Errorf("run %s extensions: %w", r.ID, err)
	}
	return r, nil
}
