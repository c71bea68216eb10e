package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection  TEXT NOT NULL,
	id          TEXT NOT NULL,
	owner       TEXT NOT NULL DEFAULT '',
	unique_key  TEXT,
	version     INTEGER NOT NULL,
	body        TEXT NOT NULL,
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL,
	PRIMARY KEY (collection, id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_unique_key ON documents(collection, unique_key);
CREATE INDEX IF NOT EXISTS idx_documents_owner ON documents(collection, owner, created_at);
`

// SQLite is a Store backed by a single SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path. The special path
// ":memory:" keeps the database in memory on a single connection.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("creating database dir: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, collection, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, owner, unique_key, version, body, created_at, updated_at
		FROM documents WHERE collection = ? AND id = ?`, collection, id)
	doc, err := scanSQLiteDoc(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("loading %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// List implements Store.
func (s *SQLite) List(ctx context.Context, collection, owner string) ([]Document, error) {
	query := `SELECT id, owner, unique_key, version, body, created_at, updated_at
		FROM documents WHERE collection = ?`
	args := []any{collection}
	if owner != "" {
		query += " AND owner = ?"
		args = append(args, owner)
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}
	defer func() { _ = rows.Close() }()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanSQLiteDoc(rows)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Count implements Store.
func (s *SQLite) Count(ctx context.Context, collection, owner string) (int, error) {
	query := "SELECT COUNT(*) FROM documents WHERE collection = ?"
	args := []any{collection}
	if owner != "" {
		query += " AND owner = ?"
		args = append(args, owner)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", collection, err)
	}
	return n, nil
}

// Insert implements Store.
func (s *SQLite) Insert(ctx context.Context, collection string, doc Document) (Document, error) {
	doc.Version = 1
	_, err := s.db.ExecContext(ctx, `INSERT INTO documents
		(collection, id, owner, unique_key, version, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		collection, doc.ID, doc.Owner, nullableKey(doc.Key), doc.Version, string(doc.Body),
		doc.CreatedAt.UnixNano(), doc.UpdatedAt.UnixNano(),
	)
	if isSQLiteUnique(err) {
		return Document{}, ErrDuplicate
	}
	if err != nil {
		return Document{}, fmt.Errorf("inserting %s/%s: %w", collection, doc.ID, err)
	}
	return doc, nil
}

// Replace implements Store.
func (s *SQLite) Replace(ctx context.Context, collection string, doc Document) (Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Document{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var version, createdAt int64
	err = tx.QueryRowContext(ctx, "SELECT version, created_at FROM documents WHERE collection = ? AND id = ?",
		collection, doc.ID).Scan(&version, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("loading %s/%s: %w", collection, doc.ID, err)
	}
	if version != doc.Version {
		return Document{}, ErrConflict
	}

	res, err := tx.ExecContext(ctx, `UPDATE documents
		SET owner = ?, unique_key = ?, version = version + 1, body = ?, updated_at = ?
		WHERE collection = ? AND id = ? AND version = ?`,
		doc.Owner, nullableKey(doc.Key), string(doc.Body), doc.UpdatedAt.UnixNano(),
		collection, doc.ID, doc.Version,
	)
	if isSQLiteUnique(err) {
		return Document{}, ErrDuplicate
	}
	if err != nil {
		return Document{}, fmt.Errorf("replacing %s/%s: %w", collection, doc.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Document{}, ErrConflict
	}
	if err := tx.Commit(); err != nil {
		return Document{}, fmt.Errorf("committing %s/%s: %w", collection, doc.ID, err)
	}

	doc.Version = version + 1
	doc.CreatedAt = time.Unix(0, createdAt).UTC()
	return doc, nil
}

// Delete implements Store.
func (s *SQLite) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE collection = ? AND id = ?", collection, id)
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteDoc(row rowScanner) (Document, error) {
	var (
		doc                  Document
		key                  sql.NullString
		body                 string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&doc.ID, &doc.Owner, &key, &doc.Version, &body, &createdAt, &updatedAt); err != nil {
		return Document{}, err
	}
	doc.Key = key.String
	doc.Body = []byte(body)
	doc.CreatedAt = time.Unix(0, createdAt).UTC()
	doc.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return doc, nil
}

func nullableKey(key string) any {
	if key == "" {
		return nil
	}
	return key
}

func isSQLiteUnique(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
