// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library records completed search runs in a SQLite database so
// earlier results can be listed and reopened. The search pipeline only
// writes here; it never reads a previous run back.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/papercast/internal/search"
	"github.com/pdiddy/papercast/pkg/types"
)

const defaultRecent = 20

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("run not found")

// ErrDisabled is returned by Open when no database path is configured.
var ErrDisabled = errors.New("run library disabled")

// RunError is a connector failure as stored with its run.
type RunError struct {
	Source  types.Source     `json:"source" yaml:"source"`
	Kind    search.ErrorKind `json:"kind" yaml:"kind"`
	Message string           `json:"message" yaml:"message"`
}

// Run is one recorded pipeline run.
type Run struct {
	ID          string              `json:"id" yaml:"id"`
	Input       string              `json:"input" yaml:"input"`
	Title       string              `json:"title" yaml:"title"`
	Variant     search.Variant      `json:"variant" yaml:"variant"`
	CreatedAt   time.Time           `json:"created_at" yaml:"created_at"`
	Candidates  int                 `json:"candidates" yaml:"candidates"`
	DupsRemoved int                 `json:"duplicates_removed" yaml:"duplicates_removed"`
	PaperCount  int                 `json:"paper_count" yaml:"paper_count"`
	Errors      []RunError          `json:"errors" yaml:"errors"`
	Papers      []types.PaperRecord `json:"papers,omitempty" yaml:"papers,omitempty"`
}

// Store manages the run library database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at cfg.Path and ensures the schema
// exists.
func Open(cfg types.LibraryConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, ErrDisabled
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating library directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			input TEXT NOT NULL,
			title TEXT NOT NULL,
			variant TEXT NOT NULL,
			created_at TEXT NOT NULL,
			candidates INTEGER NOT NULL,
			dups_removed INTEGER NOT NULL,
			errors TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_papers (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			rank INTEGER NOT NULL,
			paper_id TEXT,
			title TEXT NOT NULL,
			authors TEXT NOT NULL,
			year INTEGER,
			abstract TEXT,
			url TEXT,
			source TEXT NOT NULL,
			categories TEXT NOT NULL,
			PRIMARY KEY (run_id, rank)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a completed run with its ranked papers and returns the new
// run id.
func (s *Store) Record(ctx context.Context, out search.Output, variant search.Variant) (string, error) {
	id := uuid.NewString()

	runErrors := make([]RunError, 0, len(out.Errors))
	for _, e := range out.Errors {
		runErrors = append(runErrors, RunError{Source: e.Source, Kind: e.Kind, Message: e.Message})
	}
	errorsJSON, err := json.Marshal(runErrors)
	if err != nil {
		return "", fmt.Errorf("encoding run errors: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, input, title, variant, created_at, candidates, dups_removed, errors)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, out.Input, out.Title, string(variant),
		s.now().UTC().Format(time.RFC3339Nano),
		out.Candidates, out.DupsRemoved, string(errorsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_papers (run_id, rank, paper_id, title, authors, year, abstract, url, source, categories)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range out.Papers {
		authorsJSON, _ := json.Marshal(nonNil(p.Authors))
		categoriesJSON, _ := json.Marshal(nonNil(p.Categories))
		var year sql.NullInt64
		if p.Year != nil {
			year = sql.NullInt64{Int64: int64(*p.Year), Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			id, i+1, p.ID, p.Title, string(authorsJSON), year,
			p.Abstract, p.URL, string(p.Source), string(categoriesJSON),
		)
		if err != nil {
			return "", fmt.Errorf("inserting paper %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

const runColumns = `r.id, r.input, r.title, r.variant, r.created_at, r.candidates, r.dups_removed, r.errors,
	(SELECT count(*) FROM run_papers p WHERE p.run_id = r.id)`

// Recent lists the newest n runs, newest first, without their papers.
// n <= 0 uses a default of 20.
func (s *Store) Recent(ctx context.Context, n int) ([]Run, error) {
	if n <= 0 {
		n = defaultRecent
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs r ORDER BY r.created_at DESC, r.seq DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns one run with its papers in rank order.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs r WHERE r.id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT paper_id, title, authors, year, abstract, url, source, categories
		 FROM run_papers WHERE run_id = ? ORDER BY rank`, id)
	if err != nil {
		return Run{}, fmt.Errorf("loading papers: %w", err)
	}
	defer rows.Close()

	run.Papers = []types.PaperRecord{}
	for rows.Next() {
		var (
			p                     types.PaperRecord
			paperID, abs, url     sql.NullString
			authors, cats, source string
			year                  sql.NullInt64
		)
		if err := rows.Scan(&paperID, &p.Title, &authors, &year, &abs, &url, &source, &cats); err != nil {
			return Run{}, fmt.Errorf("scanning paper: %w", err)
		}
		p.ID = paperID.String
		p.Abstract = abs.String
		p.URL = url.String
		p.Source = types.ParseSource(source)
		if year.Valid {
			p.Year = types.IntPtr(int(year.Int64))
		}
		p.Authors = decodeList(authors)
		p.Categories = decodeList(cats)
		run.Papers = append(run.Papers, p)
	}
	return run, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run                Run
		variant, createdAt string
		errorsJSON         string
	)
	err := sc.Scan(&run.ID, &run.Input, &run.Title, &variant, &createdAt,
		&run.Candidates, &run.DupsRemoved, &errorsJSON, &run.PaperCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	run.Variant = search.Variant(variant)
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		run.CreatedAt = t
	}
	run.Errors = []RunError{}
	if err := json.Unmarshal([]byte(errorsJSON), &run.Errors); err != nil {
		return Run{}, fmt.Errorf("decoding run errors: %w", err)
	}
	return run, nil
}

func decodeList(s string) []string {
	out := []string{}
	_ = json.Unmarshal([]byte(s), &out)
	if out == nil {
		out = []string{}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
