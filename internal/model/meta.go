// Package model defines the documents persisted by rehabdesk: projects
// with their embedded entries, ledger accounts and companies, and tasks.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Meta is the stored identity of a document. The store owns every field;
// values decoded from request bodies are discarded.
type Meta struct {
	ID        string    `json:"_id"`
	Version   int64     `json:"__v"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Metadata returns m, letting every document type satisfy Record by
// embedding Meta.
func (m *Meta) Metadata() *Meta { return m }

// Record is implemented by every stored document.
type Record interface {
	Metadata() *Meta
}

// NewID returns a fresh document or entry id.
func NewID() string {
	return uuid.NewString()
}
