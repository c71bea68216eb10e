// Package store persists JSON documents in named collections. Each document
// carries a version that every write must match, so concurrent writers
// detect each other instead of silently overwriting.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/rehabdesk/pkg/constants"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when no document has the requested id.
	ErrNotFound = errors.New("document not found")
	// ErrConflict is returned when a replace carries a stale version.
	ErrConflict = errors.New("document version conflict")
	// ErrDuplicate is returned when an insert repeats an id or unique key.
	ErrDuplicate = errors.New("duplicate document")
)

// Document is one stored JSON body plus the columns the store indexes.
type Document struct {
	ID        string
	Owner     string // Parent id used to scope List and Count
	Key       string // Unique within the collection when not empty
	Version   int64
	Body      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is a versioned document store.
type Store interface {
	// Get returns the document with id or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// List returns the documents of a collection in creation order. A
	// non-empty owner restricts the result to that owner.
	List(ctx context.Context, collection, owner string) ([]Document, error)
	// Count returns how many documents List would return.
	Count(ctx context.Context, collection, owner string) (int, error)
	// Insert stores a new document at version 1.
	Insert(ctx context.Context, collection string, doc Document) (Document, error)
	// Replace overwrites the document whose stored version equals
	// doc.Version and increments the version.
	Replace(ctx context.Context, collection string, doc Document) (Document, error)
	// Delete removes the document with id or returns ErrNotFound.
	Delete(ctx context.Context, collection, id string) error
	// Close releases the underlying resources.
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver string // memory, sqlite or postgres
	Path   string // sqlite database file
	DSN    string // postgres connection string
}

// Open creates the backend named by opts.Driver.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		s   Store
		err error
	)
	switch opts.Driver {
	case "", constants.StorageDriverMemory:
		s = NewMemory()
	case constants.StorageDriverSQLite:
		s, err = OpenSQLite(ctx, opts.Path)
	case constants.StorageDriverPostgres:
		s, err = OpenPostgres(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("opened document store",
		zap.String("op", "store.Open"),
		zap.String("driver", opts.Driver),
	)
	return s, nil
}

// Timestamp returns t in the precision every backend stores.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
