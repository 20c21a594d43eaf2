package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLStore keeps the table as one row of policy_tables, keyed by name.
// It shares the SQLite database used for round history.
type SQLStore struct {
	db   *sql.DB
	name string
}

// NewSQLStore prepares the policy_tables table and returns a store for name.
func NewSQLStore(ctx context.Context, db *sql.DB, name string) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS policy_tables (
		name       TEXT PRIMARY KEY,
		body       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("%w: create policy_tables: %w", ErrStoreIO, err)
	}
	return &SQLStore{db: db, name: name}, nil
}

func (s *SQLStore) Name() string { return "sqlite:" + s.name }

func (s *SQLStore) Read(ctx context.Context) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM policy_tables WHERE name=?`, s.name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select %s: %w", ErrStoreIO, s.name, err)
	}
	return []byte(body), nil
}

func (s *SQLStore) Write(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO policy_tables (name, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body=excluded.body, updated_at=excluded.updated_at`,
		s.name, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("%w: upsert %s: %w", ErrStoreIO, s.name, err)
	}
	return nil
}
