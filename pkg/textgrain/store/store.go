// Package store persists frozen word-vector models so a dictionary
// built on one corpus can encode later data without re-training.
package store

import (
	"context"
	"time"

	"github.com/textgrain/textgrain/pkg/textgrain/wordvec"
)

// Store is the interface for persisting and retrieving models.
type Store interface {
	Close() error

	// SaveModel persists a model and returns its assigned ID.
	SaveModel(ctx context.Context, m wordvec.Model) (string, error)
	// GetModel retrieves a model by ID; internalerr.ErrNotFound when
	// no such model exists.
	GetModel(ctx context.Context, id string) (Record, error)
	// ListModels returns summaries of all stored models, newest first.
	ListModels(ctx context.Context) ([]Info, error)
	// DeleteModel removes a model; internalerr.ErrNotFound when no
	// such model exists.
	DeleteModel(ctx context.Context, id string) error
}

// Record is a stored model with its assigned identity.
type Record struct {
	ID        string
	CreatedAt time.Time
	Model     wordvec.Model
}

// Info summarizes a stored model for listings.
type Info struct {
	ID          string
	CreatedAt   time.Time
	WordsToKeep int
	DictSize    int
	Relation    string
}
