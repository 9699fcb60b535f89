package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteSlot keeps the value in a row of the slots table.
type SQLiteSlot struct {
	db   *sql.DB
	name string
}

func NewSQLiteSlot(db *sql.DB, name string) *SQLiteSlot {
	return &SQLiteSlot{db: db, name: name}
}

func (s *SQLiteSlot) Read(ctx context.Context) ([]byte, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE name = ?`, s.name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("querying slot: %w", err)
	}

	return []byte(value), nil
}

func (s *SQLiteSlot) Write(ctx context.Context, value []byte) error {
	query := `
		INSERT INTO slots (name, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, s.name, string(value)); err != nil {
		return fmt.Errorf("upserting slot: %w", err)
	}

	return nil
}

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
