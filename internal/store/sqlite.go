package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLite stores collections as JSON blobs in a single table.
type SQLite struct {
	db *sql.DB
}

// NewSQLite builds a backend on db and creates its table when missing.
func NewSQLite(ctx context.Context, db *sql.DB) (*SQLite, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS documents (
		collection TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Load fetches the payload of collection.
func (s *SQLite) Load(ctx context.Context, collection string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM documents WHERE collection = ?`, collection).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Save upserts the payload of collection.
func (s *SQLite) Save(ctx context.Context, collection string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents(collection, payload) VALUES(?, ?) ON CONFLICT(collection) DO UPDATE SET payload = excluded.payload`,
		collection, payload)
	return err
}
