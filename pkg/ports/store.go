package ports

import (
	"context"

	"github.com/aretw0/regfsm/pkg/domain"
)

// ResultStore persists compiled results so they can be fetched again by ID.
type ResultStore interface {
	// Save persists r under r.ID, replacing any previous result with that ID.
	Save(ctx context.Context, r *domain.Result) error

	// Load retrieves a result.
	// Returns domain.ErrResultNotFound if the ID does not exist.
	Load(ctx context.Context, id string) (*domain.Result, error)

	// Delete removes a result.
	// Returns domain.ErrResultNotFound if the ID does not exist.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored results, newest first.
	List(ctx context.Context) ([]string, error)
}
