// Package store archives rendered diagrams for the HTTP service.
//
// Every successful POST /api/render may be recorded so clients can
// list and re-fetch past renders by ID. Two backends are provided:
//
//   - MemoryStore: in-process storage for development and tests
//   - MongoStore: persistent storage for service deployments
package store

import (
	"context"
	"time"
)

// Render is one archived diagram.
type Render struct {
	// ID is a UUID assigned on creation.
	ID string `json:"id" bson:"_id"`

	// ModelName and ModelHash identify the rendered model.
	ModelName string `json:"model_name,omitempty" bson:"model_name,omitempty"`
	ModelHash string `json:"model_hash" bson:"model_hash"`

	// View and Format describe the artifact.
	View   string `json:"view" bson:"view"`
	Format string `json:"format" bson:"format"`

	// Data is the artifact payload; MIME its content type.
	Data []byte `json:"-" bson:"data"`
	MIME string `json:"mime" bson:"mime"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Store is the interface for render archive backends.
type Store interface {
	// Put records a render.
	Put(ctx context.Context, r *Render) error

	// Get retrieves a render by ID. Returns nil, nil when absent.
	Get(ctx context.Context, id string) (*Render, error)

	// List returns render metadata (no payloads), newest first,
	// bounded by limit.
	List(ctx context.Context, limit int) ([]*Render, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// DefaultListLimit bounds List when the caller passes limit <= 0.
const DefaultListLimit = 50
