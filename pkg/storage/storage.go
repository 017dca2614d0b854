// Package storage persists scene documents.
//
// A [Repository] stores [Record] values, each wrapping one scene document
// under a stable ID. Two backends are provided:
//   - [MemoryRepository]: a mutex-guarded map for tests and single-process use
//   - [MongoRepository]: a MongoDB collection for the HTTP API
//
// Lookups of unknown IDs fail with a SCENE_NOT_FOUND error; use
// errors.IsNotFound to test for it.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	scerrors "github.com/matzehuels/scenegraph/pkg/errors"
	sgio "github.com/matzehuels/scenegraph/pkg/io"
)

// Record is a stored scene.
type Record struct {
	ID        string        `json:"id" bson:"_id"`
	Name      string        `json:"name,omitempty" bson:"name,omitempty"`
	Document  sgio.Document `json:"document" bson:"document"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

// Repository is the interface for scene storage backends.
type Repository interface {
	// Save inserts or replaces rec. An empty ID is replaced by a new UUID.
	// CreatedAt is preserved across replacements; UpdatedAt is always set.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record with the given ID.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all records, most recently updated first.
	List(ctx context.Context) ([]*Record, error)

	// Delete removes the record with the given ID.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// prepare assigns an ID and validates rec before it is written.
func prepare(rec *Record, now time.Time) error {
	if rec == nil {
		return scerrors.New(scerrors.ErrCodeInvalidInput, "record is nil")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := scerrors.ValidateSceneID(rec.ID); err != nil {
		return err
	}
	if err := rec.Document.Validate(); err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	return nil
}

func notFound(id string) error {
	return scerrors.New(scerrors.ErrCodeSceneNotFound, "scene %q not found", id)
}
