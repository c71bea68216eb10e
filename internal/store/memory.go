package store

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// Memory is an in-process Store. Contents are lost when the process exits.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]Document)}
}

func cloneDoc(doc Document) Document {
	doc.Body = slices.Clone(doc.Body)
	return doc
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return cloneDoc(doc), nil
}

// List implements Store.
func (m *Memory) List(_ context.Context, collection, owner string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]Document, 0, len(m.collections[collection]))
	for _, doc := range m.collections[collection] {
		if owner != "" && doc.Owner != owner {
			continue
		}
		docs = append(docs, cloneDoc(doc))
	}
	slices.SortFunc(docs, func(a, b Document) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return docs, nil
}

// Count implements Store.
func (m *Memory) Count(_ context.Context, collection, owner string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if owner == "" {
		return len(m.collections[collection]), nil
	}
	n := 0
	for _, doc := range m.collections[collection] {
		if doc.Owner == owner {
			n++
		}
	}
	return n, nil
}

// Insert implements Store.
func (m *Memory) Insert(_ context.Context, collection string, doc Document) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collections[collection]
	if docs == nil {
		docs = make(map[string]Document)
		m.collections[collection] = docs
	}
	if _, exists := docs[doc.ID]; exists {
		return Document{}, ErrDuplicate
	}
	if m.keyTaken(docs, doc.Key, doc.ID) {
		return Document{}, ErrDuplicate
	}

	doc.Version = 1
	docs[doc.ID] = cloneDoc(doc)
	return doc, nil
}

// Replace implements Store.
func (m *Memory) Replace(_ context.Context, collection string, doc Document) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collections[collection]
	stored, ok := docs[doc.ID]
	if !ok {
		return Document{}, ErrNotFound
	}
	if stored.Version != doc.Version {
		return Document{}, ErrConflict
	}
	if m.keyTaken(docs, doc.Key, doc.ID) {
		return Document{}, ErrDuplicate
	}

	doc.CreatedAt = stored.CreatedAt
	doc.Version = stored.Version + 1
	docs[doc.ID] = cloneDoc(doc)
	return doc, nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[collection][id]; !ok {
		return ErrNotFound
	}
	delete(m.collections[collection], id)
	return nil
}

// Close implements Store.
func (m *Memory) Close() error {
	return nil
}

func (m *Memory) keyTaken(docs map[string]Document, key, id string) bool {
	if key == "" {
		return false
	}
	for otherID, other := range docs {
		if otherID != id && other.Key == key {
			return true
		}
	}
	return false
}
