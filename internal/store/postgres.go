package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores collections in a documents table with a jsonb payload.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres builds a backend on db. Call EnsureSchema before first use.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the documents table when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS documents (
        collection TEXT PRIMARY KEY,
        payload JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`)
	if err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

// Load fetches the payload of collection.
func (p *Postgres) Load(ctx context.Context, collection string) ([]byte, error) {
	var payload []byte
	err := p.db.QueryRow(ctx, `SELECT payload FROM documents WHERE collection = $1`, collection).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Save upserts the payload of collection.
func (p *Postgres) Save(ctx context.Context, collection string, payload []byte) error {
	_, err := p.db.Exec(ctx, `INSERT INTO documents (collection, payload, updated_at)
        VALUES ($1, $2::jsonb, now())
        ON CONFLICT (collection) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		collection, string(payload))
	return err
}
