package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection  TEXT NOT NULL,
	id          TEXT NOT NULL,
	owner       TEXT NOT NULL DEFAULT '',
	unique_key  TEXT,
	version     BIGINT NOT NULL,
	body        JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (collection, id)
);

CREATE UNIQUE INDEX IF NOT EXISTS documents_unique_key ON documents (collection, unique_key);
CREATE INDEX IF NOT EXISTS documents_owner ON documents (collection, owner, created_at);
`

const pgUniqueViolation = "23505"

// Postgres is a Store keeping document bodies in a JSONB column.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and creates the documents table if needed.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres storage requires a DSN (storage.dsn or DATABASE_URL)")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close implements Store.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// Get implements Store.
func (p *Postgres) Get(ctx context.Context, collection, id string) (Document, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, owner, unique_key, version, body, created_at, updated_at
		FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	doc, err := scanPostgresDoc(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to load %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// List implements Store.
func (p *Postgres) List(ctx context.Context, collection, owner string) ([]Document, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, owner, unique_key, version, body, created_at, updated_at
		FROM documents WHERE collection = $1 AND ($2 = '' OR owner = $2)
		ORDER BY created_at, id`, collection, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanPostgresDoc(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Count implements Store.
func (p *Postgres) Count(ctx context.Context, collection, owner string) (int, error) {
	var n int
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents
		WHERE collection = $1 AND ($2 = '' OR owner = $2)`, collection, owner).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return n, nil
}

// Insert implements Store.
func (p *Postgres) Insert(ctx context.Context, collection string, doc Document) (Document, error) {
	doc.Version = 1
	_, err := p.pool.Exec(ctx, `INSERT INTO documents
		(collection, id, owner, unique_key, version, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		collection, doc.ID, doc.Owner, nullableKey(doc.Key), doc.Version, string(doc.Body),
		doc.CreatedAt, doc.UpdatedAt,
	)
	if isPgUnique(err) {
		return Document{}, ErrDuplicate
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to insert %s/%s: %w", collection, doc.ID, err)
	}
	return doc, nil
}

// Replace implements Store.
func (p *Postgres) Replace(ctx context.Context, collection string, doc Document) (Document, error) {
	row := p.pool.QueryRow(ctx, `UPDATE documents
		SET owner = $3, unique_key = $4, version = version + 1, body = $5, updated_at = $6
		WHERE collection = $1 AND id = $2 AND version = $7
		RETURNING version, created_at`,
		collection, doc.ID, doc.Owner, nullableKey(doc.Key), string(doc.Body), doc.UpdatedAt, doc.Version,
	)
	err := row.Scan(&doc.Version, &doc.CreatedAt)
	switch {
	case err == nil:
		doc.CreatedAt = doc.CreatedAt.UTC()
		return doc, nil
	case isPgUnique(err):
		return Document{}, ErrDuplicate
	case errors.Is(err, pgx.ErrNoRows):
		// Either the document is gone or another writer moved it on.
		if _, getErr := p.Get(ctx, collection, doc.ID); errors.Is(getErr, ErrNotFound) {
			return Document{}, ErrNotFound
		}
		return Document{}, ErrConflict
	default:
		return Document{}, fmt.Errorf("failed to replace %s/%s: %w", collection, doc.ID, err)
	}
}

// Delete implements Store.
func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	tag, err := p.pool.Exec(ctx, "DELETE FROM documents WHERE collection = $1 AND id = $2", collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPostgresDoc(row pgx.Row) (Document, error) {
	var (
		doc Document
		key *string
	)
	if err := row.Scan(&doc.ID, &doc.Owner, &key, &doc.Version, &doc.Body, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return Document{}, err
	}
	if key != nil {
		doc.Key = *key
	}
	doc.CreatedAt = doc.CreatedAt.UTC()
	doc.UpdatedAt = doc.UpdatedAt.UTC()
	return doc, nil
}

func isPgUnique(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
