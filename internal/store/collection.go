package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iwvelando/rehabdesk/internal/model"
)

type ownedRecord interface {
	OwnerID() string
}

type keyedRecord interface {
	UniqueKey() string
}

// Collection stores one document type in a named collection of a Store.
// P is the pointer type of T, which carries the model.Meta accessor.
type Collection[T any, P interface {
	*T
	model.Record
}] struct {
	store Store
	name  string
	now   func() time.Time
}

// NewCollection binds document type T to collection name.
func NewCollection[T any, P interface {
	*T
	model.Record
}](s Store, name string) *Collection[T, P] {
	return &Collection[T, P]{store: s, name: name, now: time.Now}
}

// WithClock sets the clock used to stamp metadata.
func (c *Collection[T, P]) WithClock(now func() time.Time) *Collection[T, P] {
	if now != nil {
		c.now = now
	}
	return c
}

// Name returns the collection name.
func (c *Collection[T, P]) Name() string {
	return c.name
}

// Get loads the document with id.
func (c *Collection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	doc, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return nil, err
	}
	return c.decode(doc)
}

// List loads the documents of owner, or all documents when owner is empty,
// in creation order.
func (c *Collection[T, P]) List(ctx context.Context, owner string) ([]T, error) {
	docs, err := c.store.List(ctx, c.name, owner)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := c.decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// Count counts the documents of owner, or all documents when owner is empty.
func (c *Collection[T, P]) Count(ctx context.Context, owner string) (int, error) {
	return c.store.Count(ctx, c.name, owner)
}

// Insert stores v as a new document, assigning an id when it has none and
// stamping its metadata.
func (c *Collection[T, P]) Insert(ctx context.Context, v *T) error {
	meta := P(v).Metadata()
	if meta.ID == "" {
		meta.ID = model.NewID()
	}
	now := Timestamp(c.now())
	meta.CreatedAt = now
	meta.UpdatedAt = now
	meta.Version = 1

	doc, err := c.encode(v)
	if err != nil {
		return err
	}
	stored, err := c.store.Insert(ctx, c.name, doc)
	if err != nil {
		return err
	}
	meta.Version = stored.Version
	return nil
}

// Replace overwrites the stored document with v. v must carry the version
// it was loaded with; on success its metadata reflects the new version.
func (c *Collection[T, P]) Replace(ctx context.Context, v *T) error {
	meta := P(v).Metadata()
	prevUpdated := meta.UpdatedAt
	meta.UpdatedAt = Timestamp(c.now())

	doc, err := c.encode(v)
	if err != nil {
		meta.UpdatedAt = prevUpdated
		return err
	}
	stored, err := c.store.Replace(ctx, c.name, doc)
	if err != nil {
		meta.UpdatedAt = prevUpdated
		return err
	}
	meta.Version = stored.Version
	meta.CreatedAt = stored.CreatedAt
	return nil
}

// Delete removes the document with id.
func (c *Collection[T, P]) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.name, id)
}

func (c *Collection[T, P]) encode(v *T) (Document, error) {
	meta := P(v).Metadata()
	body, err := json.Marshal(v)
	if err != nil {
		return Document{}, fmt.Errorf("encoding %s/%s: %w", c.name, meta.ID, err)
	}

	doc := Document{
		ID:        meta.ID,
		Version:   meta.Version,
		Body:      body,
		CreatedAt: meta.CreatedAt,
		UpdatedAt: meta.UpdatedAt,
	}
	if o, ok := any(v).(ownedRecord); ok {
		doc.Owner = o.OwnerID()
	}
	if k, ok := any(v).(keyedRecord); ok {
		doc.Key = k.UniqueKey()
	}
	return doc, nil
}

func (c *Collection[T, P]) decode(doc Document) (*T, error) {
	v := new(T)
	if err := json.Unmarshal(doc.Body, v); err != nil {
		return nil, fmt.Errorf("decoding %s/%s: %w", c.name, doc.ID, err)
	}
	*P(v).Metadata() = model.Meta{
		ID:        doc.ID,
		Version:   doc.Version,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	return v, nil
}
