// Package sqlite provides a SQLite-backed invocation history store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/spoolhq/spool/pkg/history"
)

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
	id          TEXT PRIMARY KEY,
	runtime_arn TEXT NOT NULL,
	session_id  TEXT NOT NULL,
	prompt      TEXT NOT NULL,
	transcript  TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_invocations_session ON invocations (session_id);
CREATE INDEX IF NOT EXISTS idx_invocations_created ON invocations (created_at DESC);
`

// Store implements history.Store using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a SQLite-backed history store.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite-specific pragmas
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Put(ctx context.Context, inv *history.Invocation) error {
	if inv == nil {
		return errors.New("cannot store nil invocation")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invocations (id, runtime_arn, session_id, prompt, transcript, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.RuntimeARN, inv.SessionID, inv.Prompt, inv.Transcript, inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting invocation: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*history.Invocation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, runtime_arn, session_id, prompt, transcript, created_at
		 FROM invocations WHERE id = ?`, id)

	inv := &history.Invocation{}
	err := row.Scan(&inv.ID, &inv.RuntimeARN, &inv.SessionID, &inv.Prompt, &inv.Transcript, &inv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, history.ErrNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("querying invocation: %w", err)
	}

	return inv, nil
}

func (s *Store) List(ctx context.Context, limit int) ([]*history.Invocation, error) {
	query := `SELECT id, runtime_arn, session_id, prompt, transcript, created_at
		 FROM invocations ORDER BY created_at DESC`

	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("listing invocations: %w", err)
	}
	defer rows.Close()

	var result []*history.Invocation
	for rows.Next() {
		inv := &history.Invocation{}
		if err := rows.Scan(&inv.ID, &inv.RuntimeARN, &inv.SessionID, &inv.Prompt, &inv.Transcript, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning invocation: %w", err)
		}
		result = append(result, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invocations: %w", err)
	}

	return result, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
